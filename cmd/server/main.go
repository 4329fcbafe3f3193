package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vodachat/voda-server/internal/app"
	"github.com/vodachat/voda-server/internal/config"
	"github.com/vodachat/voda-server/internal/log"
)

func main() {
	var (
		configPath string
		tcpAddr    string
		httpAddr   string
		dbPath     string
		logLevel   string
	)

	root := &cobra.Command{
		Use:          "voda-server",
		Short:        "Point-to-point messaging relay",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := log.New(logLevel)

			cfg, path, err := config.Load(logger, configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger.Info().Str("config", path).Msg("configuration loaded")

			// Flags win over config file and environment.
			if cmd.Flags().Changed("tcp-addr") {
				cfg.TCPAddr = tcpAddr
			}
			if cmd.Flags().Changed("http-addr") {
				cfg.HTTPAddr = httpAddr
			}
			if cmd.Flags().Changed("db") {
				cfg.DatabasePath = dbPath
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			logger = log.New(cfg.LogLevel)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(&cfg, logger)
			if err != nil {
				return err
			}

			logger.Info().Str("tcp_addr", cfg.TCPAddr).Msg("starting voda server")
			if err := application.Run(ctx); err != nil {
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	defaults := config.Default()
	root.Flags().StringVar(&configPath, "config", "", "path to config file")
	root.Flags().StringVar(&tcpAddr, "tcp-addr", defaults.TCPAddr, "TCP listen address")
	root.Flags().StringVar(&httpAddr, "http-addr", defaults.HTTPAddr, "HTTP listen address (empty disables)")
	root.Flags().StringVar(&dbPath, "db", defaults.DatabasePath, "SQLite database path")
	root.Flags().StringVar(&logLevel, "log-level", defaults.LogLevel, "log level (debug, info, warn, error)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
