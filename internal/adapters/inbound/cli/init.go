package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/primetrain/primetrain/internal/adapters/outbound/config"
	"github.com/primetrain/primetrain/internal/domain"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Generate a " + domain.SettingsFileName + " settings file",
		Long:  "Create a " + domain.SettingsFileName + " with the default checkpoint directory, safety buffer, hub and GPU settings.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dest := filepath.Join(absPath, domain.SettingsFileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", domain.SettingsFileName)
				}
			}

			if err := os.WriteFile(dest, []byte(config.Template), 0644); err != nil {
				return fmt.Errorf("writing settings: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", domain.SettingsFileName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing "+domain.SettingsFileName)

	return cmd
}
