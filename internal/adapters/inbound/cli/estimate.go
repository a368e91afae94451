package cli

import (
	"fmt"
	"path/filepath"

	"github.com/primetrain/primetrain/internal/adapters/outbound/config"
	"github.com/primetrain/primetrain/internal/adapters/outbound/disk"
	"github.com/primetrain/primetrain/internal/adapters/outbound/tui"
	"github.com/primetrain/primetrain/internal/application"
	"github.com/primetrain/primetrain/internal/domain"
	"github.com/primetrain/primetrain/internal/domain/estimate"
	"github.com/spf13/cobra"
)

func newEstimateCmd(g *globalOptions) *cobra.Command {
	var (
		jsonOutput    bool
		model         string
		dtype         string
		modeName      string
		configPath    string
		checkpointDir string
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate checkpoint size and GPU memory for a model",
		Long: "Estimate the on-disk size of one checkpoint (weights plus optimizer state) and the " +
			"runtime GPU memory of a model, from --model or from the model named in --config.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.load(cmd)
			if err != nil {
				return err
			}

			var mode estimate.TrainingMode
			if modeName != "" {
				m, ok := estimate.ParseMode(modeName)
				if !ok {
					return fmt.Errorf("unknown mode %q (valid: inference, lora, full_finetune)", modeName)
				}
				mode = m
			}

			var cfg domain.ConfigTree
			switch {
			case configPath != "":
				absPath, err := filepath.Abs(configPath)
				if err != nil {
					return fmt.Errorf("resolving path: %w", err)
				}
				if cfg, err = config.NewTreeLoader().Load(absPath); err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
			case model != "":
				cfg = estimate.ForModel(model, dtype)
			default:
				return fmt.Errorf("one of --model or --config is required")
			}

			summary := estimate.Summarize(cfg, mode)
			if checkpointDir != "" {
				summary.CheckpointDir = checkpointDir
				summary.ExistingCheckpointsGB = application.NewBudgetService(disk.New(), e.log).
					ExistingCheckpointsGB(checkpointDir)
			}

			if jsonOutput {
				return renderJSON(cmd, summary)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderEstimate(summary))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output estimate as JSON")
	cmd.Flags().StringVar(&model, "model", "", "Model name, e.g. Qwen/Qwen3-8B")
	cmd.Flags().StringVar(&dtype, "dtype", "", "Weight dtype (default bf16)")
	cmd.Flags().StringVar(&modeName, "mode", "", "Training mode: inference, lora, full_finetune (default from config)")
	cmd.Flags().StringVar(&configPath, "config", "", "Read the model and dtype from a config file")
	cmd.Flags().StringVar(&checkpointDir, "checkpoint-dir", "", "Measure checkpoints already stored here")

	return cmd
}
