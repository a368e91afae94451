package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/primetrain/primetrain/internal/adapters/outbound/config"
	"github.com/primetrain/primetrain/internal/domain"
	"github.com/primetrain/primetrain/internal/logging"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	logLevel    string
	logJSON     bool
	settingsDir string
}

// env is what a command needs before it can build services.
type env struct {
	settings domain.Settings
	log      *slog.Logger
}

func (g *globalOptions) load(cmd *cobra.Command) (env, error) {
	log, err := logging.New(logging.Options{Level: g.logLevel, JSON: g.logJSON, Writer: cmd.ErrOrStderr()})
	if err != nil {
		return env{}, err
	}
	settings, err := config.New().Load(g.settingsDir)
	if err != nil {
		return env{}, fmt.Errorf("loading settings: %w", err)
	}
	return env{settings: settings, log: log}, nil
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "prime-train",
		Short: "Catch RL training misconfigurations before GPU time is spent",
		Long: "prime-train validates training configs, checks known gotchas, and plans " +
			"checkpoint disk usage before a run is launched.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&g.logJSON, "log-json", false, "Write logs as JSON lines")
	cmd.PersistentFlags().StringVar(&g.settingsDir, "settings-dir", ".", "Directory holding "+domain.SettingsFileName)

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newValidateCmd(g))
	cmd.AddCommand(newBudgetCmd(g))
	cmd.AddCommand(newEstimateCmd(g))
	cmd.AddCommand(newPrereqCmd(g))
	cmd.AddCommand(newGotchasCmd())
	cmd.AddCommand(newPresetsCmd())
	cmd.AddCommand(newHistoryCmd(g))
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newCacheCmd())
	cmd.AddCommand(newMCPCmd(g))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
