package workerclient

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frakt.systems/frakt/internal/wire"
)

func serveOneTask(t *testing.T, listener net.Listener, task wire.FragmentTask, sendTask bool) {
	t.Helper()
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		msg, _, err := wire.Read(conn)
		require.NoError(t, err)
		require.Equal(t, wire.KindFragmentRequest, msg.Kind)

		if !sendTask {
			return
		}

		taskMsg := wire.Message{Kind: wire.KindFragmentTask, FragmentTask: &task}
		require.NoError(t, wire.Write(conn, taskMsg, wire.Identification()))

		resultMsg, _, err := wire.Read(conn)
		require.NoError(t, err)
		require.Equal(t, wire.KindFragmentResult, resultMsg.Kind)
	}()
}

func TestRenderOneTileComputesAndReports(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	task := wire.FragmentTask{
		ID:           wire.U8Data{Count: 16},
		MaxIteration: 8,
		Resolution:   wire.Resolution{NX: 2, NY: 2},
		Range:        wire.Range{Min: wire.Point{X: -1, Y: -1}, Max: wire.Point{X: 1, Y: 1}},
		Fractal:      wire.FractalDescriptor{Kind: wire.KindMandelbrot},
	}
	serveOneTask(t, listener, task, true)

	c := &Client{Name: "w1", CoordinatorAddr: listener.Addr().String(), MaximalWorkLoad: 1000, Log: logrus.New()}
	err = c.renderOneTile(context.Background())
	assert.NoError(t, err)
}

func TestRenderOneTileReportsNoMoreWork(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	serveOneTask(t, listener, wire.FragmentTask{}, false)

	c := &Client{Name: "w1", CoordinatorAddr: listener.Addr().String(), MaximalWorkLoad: 1000, Log: logrus.New()}
	err = c.renderOneTile(context.Background())
	assert.ErrorIs(t, err, errNoMoreWork)
}

func TestRunStopsCleanlyWhenNoMoreWork(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	serveOneTask(t, listener, wire.FragmentTask{}, false)

	c := &Client{Name: "w1", CoordinatorAddr: listener.Addr().String(), MaximalWorkLoad: 1000, Log: logrus.New()}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, c.Run(ctx))
}

func TestRunReturnsErrorWithoutReconnect(t *testing.T) {
	c := &Client{Name: "w1", CoordinatorAddr: "127.0.0.1:1", Log: logrus.New()}
	err := c.Run(context.Background())
	assert.Error(t, err)
}
