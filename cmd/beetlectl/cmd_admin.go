// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taibuivan/beetlekeeper/internal/platform/migration"
	"github.com/taibuivan/beetlekeeper/internal/taxonomy"
	"github.com/taibuivan/beetlekeeper/internal/users/auth"
)

// taxonomyCommand queries the built-in reference catalog.
func (a *app) taxonomyCommand() *cobra.Command {
	var limit int

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the reference catalog by subspecies name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, entry := range taxonomy.Default().Search(args[0], limit) {
				fmt.Fprintln(a.out, entry.Full)
			}
			return nil
		},
	}
	search.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results")

	cmd := &cobra.Command{Use: "taxonomy", Short: "Reference catalog"}
	cmd.AddCommand(search)
	return cmd
}

// migrateCommand manages the PostgreSQL schema.
func (a *app) migrateCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "migrate", Short: "Manage the PostgreSQL schema"}

	report := func(state migration.State) {
		fmt.Fprintf(a.out, "version %d (dirty=%t)\n", state.Version, state.Dirty)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := a.loadStore()
				if err != nil {
					return err
				}
				state, err := migration.Up(cfg.DatabaseURL, cfg.MigrationPath, a.logger)
				if err != nil {
					return err
				}
				report(state)
				return nil
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (default 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					parsed, err := strconv.Atoi(args[0])
					if err != nil {
						return fmt.Errorf("steps: %w", err)
					}
					steps = parsed
				}
				cfg, err := a.loadStore()
				if err != nil {
					return err
				}
				state, err := migration.Down(cfg.DatabaseURL, cfg.MigrationPath, steps, a.logger)
				if err != nil {
					return err
				}
				report(state)
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the recorded schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := a.loadStore()
				if err != nil {
					return err
				}
				state, err := migration.Version(cfg.DatabaseURL, cfg.MigrationPath, a.logger)
				if err != nil {
					return err
				}
				report(state)
				return nil
			},
		},
	)
	return cmd
}

// sessionsCommand maintains refresh sessions.
func (a *app) sessionsCommand() *cobra.Command {
	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete expired and revoked refresh sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := a.pool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			service := auth.NewService(auth.NewUserRepository(pool), auth.NewSessionRepository(pool), nil, a.logger)
			removed, err := service.PurgeSessions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "removed %d sessions\n", removed)
			return nil
		},
	}

	cmd := &cobra.Command{Use: "sessions", Short: "Refresh session maintenance"}
	cmd.AddCommand(purge)
	return cmd
}
