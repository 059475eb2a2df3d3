// Command frakt-worker connects to a coordinator, renders whatever tiles
// it is handed, and reports the results back until the job is exhausted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"frakt.systems/frakt/internal/config"
	"frakt.systems/frakt/internal/logging"
	"frakt.systems/frakt/internal/workerclient"
)

var (
	configFile string
	reconnect  bool
	maxRetries int
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "frakt-worker <name> <host:port>",
	Short: "Render fractal tiles for a coordinator",
	Args:  cobra.ExactArgs(2),
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path (YAML)")
	rootCmd.Flags().BoolVar(&reconnect, "reconnect", false, "retry failed tiles instead of exiting")
	rootCmd.Flags().IntVar(&maxRetries, "max-retries", 0, "maximum consecutive retries before giving up (0 = use config default)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "override the configured log level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	name, coordinatorAddr := args[0], args[1]

	cfg, err := config.LoadWorker(configFile)
	if err != nil {
		return err
	}
	cfg.Name = name
	cfg.Coordinator = coordinatorAddr
	if cmd.Flags().Changed("reconnect") {
		cfg.Reconnect = reconnect
	}
	if maxRetries != 0 {
		cfg.MaxRetries = maxRetries
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	client := &workerclient.Client{
		Name:            cfg.Name,
		CoordinatorAddr: cfg.Coordinator,
		Reconnect:       cfg.Reconnect,
		MaxRetries:      cfg.MaxRetries,
		MaximalWorkLoad: 1000,
		Log:             log,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.WithField("signal", sig).Info("worker: shutting down")
		cancel()
	}()

	return client.Run(ctx)
}
