package main

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"reelsync/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and bootstrap configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newConfigShowCommand(ctx))
	cmd.AddCommand(newConfigInitCommand(ctx))
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			data, err := toml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("render config: %w", err)
			}
			cmd.Print(string(data))
			return nil
		},
	}
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a sample config file to the default location",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigPath()
			if ctx.configFlag != nil && *ctx.configFlag != "" {
				path = *ctx.configFlag
			}
			if err := config.WriteSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample config to %s\n", path)
			return nil
		},
	}
}
