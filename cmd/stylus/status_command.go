package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stylus/internal/deps"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check configuration and external tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.For(cfg))
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				detail := status.Command
				if !status.Available {
					detail = status.Detail
				}
				rows = append(rows, []string{
					status.Name,
					yesNo(status.Available),
					yesNo(!status.Optional),
					detail,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tool", "Available", "Required", "Detail"}, rows, nil,
			))

			fmt.Fprintf(cmd.OutOrStdout(), "cache: %s (enabled: %s)\n", cfg.Cache.Path, yesNo(cfg.Cache.Enabled))
			fmt.Fprintf(cmd.OutOrStdout(), "acoustid key configured: %s\n",
				yesNo(strings.TrimSpace(cfg.Fingerprint.APIKey) != ""))

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}
