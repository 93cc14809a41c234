// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taibuivan/beetlekeeper/internal/lineage"
)

// overdueCommand prints past-due bottle changes.
func (a *app) overdueCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "overdue [owner...]",
		Short: "List bottle changes that are past due",
		Long: `List individuals whose next bottle change date is before today.

Without arguments every stored collection is checked.`,
		RunE: func(cmd *cobra.Command, owners []string) error {
			service, _, closer, err := a.collections(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			if len(owners) == 0 {
				if owners, err = service.Owners(cmd.Context()); err != nil {
					return err
				}
			}

			type ownerNotices struct {
				Owner   string           `json:"owner"`
				Notices []lineage.Notice `json:"notices"`
			}
			report := make([]ownerNotices, 0, len(owners))
			for _, owner := range owners {
				notices, err := service.Overdue(cmd.Context(), owner)
				if err != nil {
					return fmt.Errorf("overdue %s: %w", owner, err)
				}
				report = append(report, ownerNotices{Owner: owner, Notices: notices})
			}

			if asJSON {
				encoder := json.NewEncoder(a.out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(report)
			}

			writer := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "OWNER\tDUE\tLINE\tNO.\tNOTICE")
			for _, entry := range report {
				for _, notice := range entry.Notices {
					fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n", entry.Owner, notice.Date, notice.LineName, notice.ManagementNumber, notice.Text)
				}
			}
			return writer.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

// exportCommand writes one collection snapshot as JSON.
func (a *app) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <owner>",
		Short: "Export a collection snapshot as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, _, closer, err := a.collections(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			snapshot, err := service.Export(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			target := a.out
			if output != "" && output != "-" {
				file, err := os.Create(output)
				if err != nil {
					return err
				}
				defer file.Close()
				target = file
			}

			encoder := json.NewEncoder(target)
			encoder.SetIndent("", "  ")
			return encoder.Encode(snapshot)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

// importCommand replaces a collection with a snapshot file.
func (a *app) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <owner> <file>",
		Short: "Replace a collection with a JSON snapshot",
		Long: `Replace the owner's whole collection with the snapshot in file.

The snapshot's own owner field is ignored. Integrity problems (dangling
references, duplicate ids) abort the import and leave the store untouched.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			var snapshot lineage.Snapshot
			if err := json.Unmarshal(payload, &snapshot); err != nil {
				return fmt.Errorf("decode %s: %w", args[1], err)
			}

			service, _, closer, err := a.collections(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			stats, err := service.Import(cmd.Context(), args[0], snapshot)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "imported %d genera, %d species, %d lines, %d individuals\n",
				stats.Genera, stats.Species, stats.Lines, stats.Individuals)
			return nil
		},
	}
}
