package cli

import (
	"fmt"
	"path/filepath"

	"github.com/primetrain/primetrain/internal/adapters/outbound/config"
	"github.com/primetrain/primetrain/internal/adapters/outbound/disk"
	"github.com/primetrain/primetrain/internal/adapters/outbound/tui"
	"github.com/primetrain/primetrain/internal/application"
	"github.com/primetrain/primetrain/internal/domain"
	"github.com/primetrain/primetrain/internal/domain/budget"
	"github.com/spf13/cobra"
)

type budgetOutput struct {
	Budget  budget.CheckpointBudget   `json:"budget"`
	Results []domain.ValidationResult `json:"results"`
}

func newBudgetCmd(g *globalOptions) *cobra.Command {
	var (
		jsonOutput    bool
		checkpointDir string
		safetyBuffer  float64
	)

	cmd := &cobra.Command{
		Use:   "budget <config>",
		Short: "Check that keep_last checkpoints fit on local disk",
		Long: "Estimate the checkpoint size of the configured model, measure free space in the " +
			"checkpoint directory, and report how many checkpoints can be kept locally.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("checkpoint-dir") {
				e.settings.CheckpointDir = checkpointDir
			}
			if cmd.Flags().Changed("safety-buffer") {
				e.settings.SafetyBufferGB = safetyBuffer
			}
			if err := e.settings.Validate(); err != nil {
				return err
			}

			absPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			cfg, err := config.NewTreeLoader().Load(absPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			svc := application.NewBudgetService(disk.New(), e.log)
			b, results := svc.Validate(cfg, e.settings.CheckpointDir, e.settings.SafetyBufferGB)

			if jsonOutput {
				if err := renderJSON(cmd, budgetOutput{Budget: b, Results: results}); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderBudget(b, results))
			}

			for _, r := range results {
				if r.Severity == domain.SeverityError {
					return fmt.Errorf("checkpoint budget check failed: %s", r.Message)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output budget as JSON")
	cmd.Flags().StringVar(&checkpointDir, "checkpoint-dir", "", "Checkpoint directory (default "+domain.DefaultCheckpointDir+")")
	cmd.Flags().Float64Var(&safetyBuffer, "safety-buffer", 0, "Disk space to keep free, in GB (default 10)")

	return cmd
}
