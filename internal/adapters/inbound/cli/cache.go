package cli

import (
	"fmt"

	"github.com/primetrain/primetrain/internal/adapters/outbound/cache"
	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the model lookup cache",
	}
	cmd.AddCommand(newCacheClearCmd())
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget cached HuggingFace lookups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				p, err := cache.DefaultPath()
				if err != nil {
					return fmt.Errorf("locating cache: %w", err)
				}
				path = p
			}
			if err := cache.New(path).Invalidate(); err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Cache file (default: user cache dir)")
	return cmd
}
