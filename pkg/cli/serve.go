package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/getdecider/decider/pkg/config"
	"github.com/getdecider/decider/pkg/logging"
	"github.com/getdecider/decider/pkg/server"
)

var (
	serveConfigPath string
	serveListen     string
	serveLogLevel   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the decision engine server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFromFile(serveConfigPath)
		if err != nil {
			return err
		}
		if errs := cfg.Validate(); len(errs) > 0 {
			return errors.Join(errs...)
		}
		if serveListen != "" {
			cfg.Listen = serveListen
		}
		if serveLogLevel != "" {
			cfg.Log.Level = serveLogLevel
		}

		router, err := config.BuildRouter(cfg)
		if err != nil {
			return err
		}

		log := logging.New(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON})
		srv := server.New(router, server.WithAddr(cfg.Listen), server.WithLogger(log))

		// Stop on SIGINT/SIGTERM, giving in-flight walks a moment.
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		done := make(chan error, 1)
		go func() { done <- srv.Start() }()

		select {
		case err := <-done:
			return err
		case <-sig:
			fmt.Fprintln(os.Stderr, "shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Stop(ctx); err != nil {
				return err
			}
			return <-done
		}
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "decider.yaml", "Path to configuration file")
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Override the configured listen address")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "", "Override the configured log level")
	rootCmd.AddCommand(serveCmd)
}
