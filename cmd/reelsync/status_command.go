package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show cache statistics and missing-match count",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			sy, err := ctx.buildSyncer()
			if err != nil {
				return err
			}
			status, err := sy.Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Provider:      %s\n", cfg.Provider.Name)
			fmt.Fprintf(out, "Cached movies: %d\n", status.CacheStats.Count)
			if status.CacheStats.Oldest != nil {
				fmt.Fprintf(out, "Oldest entry:  %s\n", status.CacheStats.Oldest.Local().Format(time.RFC1123))
			}
			if status.CacheStats.Newest != nil {
				fmt.Fprintf(out, "Newest entry:  %s\n", status.CacheStats.Newest.Local().Format(time.RFC1123))
			}
			fmt.Fprintf(out, "Missing:       %d (%s)\n", status.MissingCount, status.MissingLogPath)
			return nil
		},
	}
}
