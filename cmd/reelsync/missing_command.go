package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelsync/internal/missinglog"
)

func newMissingCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "missing",
		Short: "Show titles that could not be matched on Letterboxd",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log, err := missinglog.New(cfg.MissingLogPath())
			if err != nil {
				return err
			}
			lines, err := log.ReadAll()
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No missing matches recorded")
				return nil
			}
			for _, line := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}
