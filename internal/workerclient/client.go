// Package workerclient implements the worker side of the protocol. Each
// tile costs one connection: dial, send a FragmentRequest, receive a
// FragmentTask, compute it, send the FragmentResult, and let the
// coordinator close the connection. The worker repeats this until the
// coordinator closes a connection without handing it a task, which signals
// that the render job is exhausted.
package workerclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"frakt.systems/frakt/internal/fractal"
	"frakt.systems/frakt/internal/metrics"
	"frakt.systems/frakt/internal/wire"
)

// Client connects to a coordinator, renders whatever tiles it is handed,
// and reports results back.
type Client struct {
	Name            string
	CoordinatorAddr string
	Reconnect       bool
	MaxRetries      int
	MaximalWorkLoad uint32
	Log             *logrus.Logger
}

// errNoMoreWork signals that the coordinator closed the connection without
// ever sending a FragmentTask — the render job's tile sequence is
// exhausted under ExhaustionClose.
var errNoMoreWork = errors.New("workerclient: coordinator has no more tiles")

// Run drains tiles one connection at a time until the coordinator reports
// no more work, ctx is cancelled, or (with Reconnect disabled) the first
// error occurs. With Reconnect enabled, every failed tile (dial, I/O,
// protocol or compute error alike) is retried with backoff, up to
// MaxRetries consecutive retries; a MaxRetries of 0 retries without limit.
func (c *Client) Run(ctx context.Context) error {
	failures := 0
	for {
		err := c.renderOneTile(ctx)
		switch {
		case err == nil:
			failures = 0
			continue
		case errors.Is(err, errNoMoreWork):
			c.Log.Info("workerclient: no more tiles, stopping")
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case !c.Reconnect:
			return err
		}

		failures++
		if c.MaxRetries > 0 && failures > c.MaxRetries {
			return fmt.Errorf("workerclient: exhausted %d retries: %w", c.MaxRetries, err)
		}
		c.Log.WithError(err).WithField("attempt", failures).Warn("workerclient: tile failed, retrying")

		select {
		case <-time.After(backoff(failures)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// renderOneTile opens one connection, requests a tile, computes it, and
// reports the result. It returns errNoMoreWork if the coordinator closes
// the connection before sending a task.
func (c *Client) renderOneTile(ctx context.Context) error {
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", c.CoordinatorAddr)
	if err != nil {
		return fmt.Errorf("workerclient: dialing %s: %w", c.CoordinatorAddr, err)
	}
	defer conn.Close()

	req := wire.Message{
		Kind: wire.KindFragmentRequest,
		FragmentRequest: &wire.FragmentRequest{
			WorkerName:      c.Name,
			MaximalWorkLoad: c.MaximalWorkLoad,
		},
	}
	if err := wire.Write(conn, req, nil); err != nil {
		return fmt.Errorf("workerclient: sending request: %w", err)
	}

	msg, idPayload, err := wire.Read(conn)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errNoMoreWork
		}
		return fmt.Errorf("workerclient: reading task: %w", err)
	}
	if msg.Kind != wire.KindFragmentTask || msg.FragmentTask == nil {
		return fmt.Errorf("workerclient: expected FragmentTask, got kind %d", msg.Kind)
	}
	task := msg.FragmentTask

	start := time.Now()
	pixels, err := fractal.Compute(task.Fractal, task.MaxIteration, task.Resolution, task.Range)
	if err != nil {
		return fmt.Errorf("workerclient: computing task: %w", err)
	}
	metrics.TileComputeSeconds.WithLabelValues(string(task.Fractal.Kind)).Observe(time.Since(start).Seconds())

	payload := append(bytes.Clone(idPayload), wire.EncodePixels(pixels)...)
	result := wire.FragmentResult{
		ID:         task.ID,
		Resolution: task.Resolution,
		Range:      task.Range,
		Pixels:     wire.PixelData{Offset: uint32(len(idPayload)), Count: uint32(len(pixels))},
	}
	resultMsg := wire.Message{Kind: wire.KindFragmentResult, FragmentResult: &result}
	if err := wire.Write(conn, resultMsg, payload); err != nil {
		return fmt.Errorf("workerclient: sending result: %w", err)
	}

	c.Log.WithFields(logrus.Fields{"pixels": len(pixels), "kind": task.Fractal.Kind}).Debug("workerclient: result sent")
	return nil
}

func backoff(attempt int) time.Duration {
	d := time.Duration(attempt) * 500 * time.Millisecond
	if d > 10*time.Second {
		return 10 * time.Second
	}
	return d
}
