package cli

import (
	"fmt"

	"github.com/primetrain/primetrain/internal/adapters/outbound/tui"
	"github.com/primetrain/primetrain/internal/domain"
	"github.com/primetrain/primetrain/internal/domain/gotcha"
	"github.com/spf13/cobra"
)

func newGotchasCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "gotchas",
		Short: "List the known misconfigurations validate checks for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := gotcha.DefaultCatalogue()
			if jsonOutput {
				entries := c.Entries()
				for i := range entries {
					entries[i].Severity = entries[i].Result().Severity
				}
				return renderJSON(cmd, entries)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderGotchas(c))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output catalogue as JSON")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List hardware presets",
		Long:  "List tuned batch size, token and memory settings per GPU class. Use --preset with validate to check memory fit against one.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := domain.Presets()
			if jsonOutput {
				return renderJSON(cmd, presets)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderPresets(presets))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output presets as JSON")
	return cmd
}
