// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command beetlectl is the operator tool for beetlekeeper.
//
// It reads the same STORE_DRIVER / DATABASE_URL / SQLITE_PATH settings as the
// API server and works directly against the stores:
//
//	beetlectl overdue [owner...]
//	beetlectl export <owner> [-o file]
//	beetlectl import <owner> <file>
//	beetlectl taxonomy search <query>
//	beetlectl migrate up|down|version
//	beetlectl sessions purge
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/beetlekeeper/internal/platform/config"
)

// app carries what every command needs. Tests build one with a fixed store config.
type app struct {
	out    io.Writer
	logger *slog.Logger
	clock  func() time.Time

	// loadStore resolves the persistence settings on first use.
	loadStore func() (*config.StoreConfig, error)
}

func newApp(out io.Writer) *app {
	return &app{
		out:       out,
		logger:    slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
		clock:     time.Now,
		loadStore: config.LoadStore,
	}
}

func (a *app) rootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "beetlectl",
		Short:         "Operate a beetlekeeper installation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		a.overdueCommand(),
		a.exportCommand(),
		a.importCommand(),
		a.taxonomyCommand(),
		a.migrateCommand(),
		a.sessionsCommand(),
	)
	return root
}

func main() {
	// Interrupts cancel long store operations.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdout)
	if err := a.rootCommand().ExecuteContext(ctx); err != nil {
		a.logger.Error("command_failed", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
}

