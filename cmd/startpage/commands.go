package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/startpage/internal/app"
	"github.com/MrSnakeDoc/startpage/internal/config"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "startpage",
		Short:         "Personal start page with a search bar and pinned sites",
		Long:          "startpage serves a browser start page (search bar bound to a selectable engine, grid of pinned sites) or shows the same page in the terminal. Configuration comes from STARTPAGE_* environment variables.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the start page over HTTP (default)",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		newTUICmd(),
		newCacheCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), "startpage", version.String())
			},
		},
	)
	return root
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.Load()
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = loggerClient.Sync() }()

	a, err := app.New(context.Background(), cfg, loggerClient)
	if err != nil {
		return err
	}
	return a.Run()
}

func newTUICmd() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Show the start page in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()

			loggerClient := logger.Nop()
			if logFile != "" {
				l, err := logger.NewFile(cfg.LogLevel, logFile)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				loggerClient = l
				defer func() { _ = l.Sync() }()
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			target, err := app.RunTerminal(ctx, cfg, loggerClient)
			if err != nil {
				return err
			}
			if target != "" {
				fmt.Fprintln(cmd.OutOrStdout(), target)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file (the terminal is used by the page)")
	return cmd
}

func newCacheCmd() *cobra.Command {
	cache := &cobra.Command{
		Use:   "cache",
		Short: "Manage the suggestion cache",
	}
	cache.AddCommand(&cobra.Command{
		Use:   "flush",
		Short: "Drop every cached suggestion list from Redis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
			defer func() { _ = loggerClient.Sync() }()
			return app.FlushSuggestionCache(cmd.Context(), cfg, loggerClient)
		},
	})
	return cache
}
