// Command frakt-coordinator runs the fractal-rendering coordinator: it
// listens for worker connections, hands out tiles from a fixed 4x4 Julia
// job, assembles returned pixels into a raster, and writes a PNG once every
// tile has landed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"frakt.systems/frakt/internal/audit"
	"frakt.systems/frakt/internal/config"
	"frakt.systems/frakt/internal/coordinator"
	"frakt.systems/frakt/internal/eventbus"
	"frakt.systems/frakt/internal/fragment"
	"frakt.systems/frakt/internal/logging"
	"frakt.systems/frakt/internal/metrics"
	"frakt.systems/frakt/internal/raster"
	"frakt.systems/frakt/internal/workerpool"
)

var (
	configFile        string
	addr              string
	workers           int
	output            string
	plannerExhaustion string
	metricsAddr       string
)

var rootCmd = &cobra.Command{
	Use:   "frakt-coordinator",
	Short: "Serve fractal render tasks to workers and assemble the results",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path (YAML)")
	rootCmd.Flags().StringVar(&addr, "addr", "", "TCP address to listen on, e.g. :8787")
	rootCmd.Flags().IntVar(&workers, "workers", 0, "maximum concurrent worker connections")
	rootCmd.Flags().StringVar(&output, "output", "", "PNG output path")
	rootCmd.Flags().StringVar(&plannerExhaustion, "planner-exhaustion", "", "close|wrap: behavior once every tile has been assigned")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Prometheus metrics listen address")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadCoordinator(configFile)
	if err != nil {
		return err
	}
	applyOverrides(cfg)

	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	var policy fragment.ExhaustionPolicy
	if cfg.PlannerExhaustion == "wrap" {
		policy = fragment.ExhaustionWrap
	} else {
		policy = fragment.ExhaustionClose
	}

	planner := fragment.NewPlanner(fragment.DefaultJob)
	job := planner.Job()
	out := raster.New(fragment.GridSize*int(job.TileNX), fragment.GridSize*int(job.TileNY))
	sink := raster.PNGFileSink{Path: cfg.Output}

	pool, err := workerpool.New(cfg.Workers)
	if err != nil {
		return err
	}

	bus := eventbus.New(4, 256, log)
	defer bus.Close()

	var auditSink audit.Sink = audit.NoopSink{}
	if cfg.Audit.Enabled {
		kafkaSink := audit.NewKafkaSink(cfg.Audit.Brokers, cfg.Audit.Topic)
		defer kafkaSink.Close()
		auditSink = kafkaSink
	}
	forward := func(e *eventbus.Event) error {
		return auditSink.Publish(context.Background(), e)
	}
	_ = bus.Subscribe(eventbus.TopicTileAssembled, forward)
	_ = bus.Subscribe(eventbus.TopicRenderComplete, forward)

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Addr, cfg.Metrics.Path, log)
		metricsServer.Start()
	}

	srv := coordinator.New(cfg.Addr, pool, planner, out, policy, bus, sink, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.WithField("signal", sig).Info("coordinator: shutting down")
		cancel()
	}()

	serveErr := srv.Serve(ctx)

	if metricsServer != nil {
		_ = metricsServer.Stop(context.Background())
	}
	return serveErr
}

func applyOverrides(cfg *config.CoordinatorConfig) {
	if addr != "" {
		cfg.Addr = addr
	}
	if workers != 0 {
		cfg.Workers = workers
	}
	if output != "" {
		cfg.Output = output
	}
	if plannerExhaustion != "" {
		cfg.PlannerExhaustion = plannerExhaustion
	}
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}
}
