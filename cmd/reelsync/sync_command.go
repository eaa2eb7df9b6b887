package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one catalog sync cycle now",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			sy, err := ctx.buildSyncer()
			if err != nil {
				return err
			}

			stats, err := sy.Sync(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"Sync complete: %d new, %d removed, %d retained, %d matched, %d missing (%.1fs)\n",
				stats.New, stats.Removed, stats.Retained, stats.Matched, stats.Missing, stats.ElapsedSeconds)
			return nil
		},
	}
}
