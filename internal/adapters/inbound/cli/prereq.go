package cli

import (
	"fmt"
	"path/filepath"

	"github.com/primetrain/primetrain/internal/adapters/outbound/config"
	"github.com/primetrain/primetrain/internal/adapters/outbound/disk"
	"github.com/primetrain/primetrain/internal/adapters/outbound/gpu"
	"github.com/primetrain/primetrain/internal/adapters/outbound/host"
	"github.com/primetrain/primetrain/internal/adapters/outbound/tui"
	"github.com/primetrain/primetrain/internal/application"
	"github.com/primetrain/primetrain/internal/domain"
	"github.com/spf13/cobra"
)

func newPrereqCmd(g *globalOptions) *cobra.Command {
	var (
		jsonOutput bool
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "prereq [config]",
		Short: "Check host prerequisites for a training run",
		Long: "Check the file descriptor limit, CUDA and GPU health, and the vLLM environment. " +
			"With a config, the checkpoint disk budget is checked too.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.load(cmd)
			if err != nil {
				return err
			}

			svc := application.NewPrerequisiteService(host.New(), gpu.NewNvidiaSMI("", 0), e.log)
			report := domain.NewReport("")
			report.Add(svc.Check(contextOf(cmd))...)

			if len(args) > 0 {
				absPath, err := filepath.Abs(args[0])
				if err != nil {
					return fmt.Errorf("resolving path: %w", err)
				}
				cfg, err := config.NewTreeLoader().Load(absPath)
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
				report.ConfigPath = absPath
				_, results := application.NewBudgetService(disk.New(), e.log).
					Validate(cfg, e.settings.CheckpointDir, e.settings.SafetyBufferGB)
				report.Add(results...)
			}

			if jsonOutput {
				if err := renderJSON(cmd, report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(report))
			}

			if report.Failed(strict || e.settings.Strict) {
				return fmt.Errorf("prerequisite check failed: %d error(s), %d warning(s)",
					report.Count(domain.SeverityError), report.Count(domain.SeverityWarning))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as failures")

	return cmd
}
