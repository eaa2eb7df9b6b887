package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStoreCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect and maintain the movie store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newStoreStatsCommand(ctx))
	cmd.AddCommand(newStoreSweepCommand(ctx))
	cmd.AddCommand(newStoreClearCommand(ctx))
	return cmd
}

func newStoreStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store row count and entry age range",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			stats, err := st.CacheStats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entries: %d\n", stats.Count)
			if stats.Oldest != nil {
				fmt.Fprintf(out, "Oldest:  %s\n", stats.Oldest.Local().Format(time.RFC1123))
			}
			if stats.Newest != nil {
				fmt.Fprintf(out, "Newest:  %s\n", stats.Newest.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
}

func newStoreSweepCommand(ctx *commandContext) *cobra.Command {
	var maxAgeHours int

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete rows older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			hours := maxAgeHours
			if hours <= 0 {
				hours = cfg.Cache.SweepAgeHours
			}
			removed, err := st.SweepExpired(cmd.Context(), time.Duration(hours)*time.Hour)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries (older than %dh)\n", removed, hours)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxAgeHours, "max-age-hours", 0, "Override the configured sweep age")
	return cmd
}

func newStoreClearCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached movie",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			if !yes {
				return fmt.Errorf("refusing to clear the store without --yes")
			}
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			if err := st.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Store cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the destructive clear")
	return cmd
}
