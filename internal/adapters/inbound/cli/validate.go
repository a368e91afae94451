package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/primetrain/primetrain/internal/adapters/outbound/cache"
	"github.com/primetrain/primetrain/internal/adapters/outbound/config"
	"github.com/primetrain/primetrain/internal/adapters/outbound/disk"
	"github.com/primetrain/primetrain/internal/adapters/outbound/gitinfo"
	"github.com/primetrain/primetrain/internal/adapters/outbound/gpu"
	"github.com/primetrain/primetrain/internal/adapters/outbound/history"
	"github.com/primetrain/primetrain/internal/adapters/outbound/host"
	"github.com/primetrain/primetrain/internal/adapters/outbound/huggingface"
	"github.com/primetrain/primetrain/internal/adapters/outbound/metrics"
	"github.com/primetrain/primetrain/internal/adapters/outbound/tui"
	"github.com/primetrain/primetrain/internal/adapters/outbound/watch"
	"github.com/primetrain/primetrain/internal/application"
	"github.com/primetrain/primetrain/internal/domain"
	"github.com/primetrain/primetrain/internal/domain/budget"
	"github.com/spf13/cobra"
)

type validateOptions struct {
	jsonOutput    bool
	strict        bool
	offline       bool
	withBudget    bool
	checkpointDir string
	safetyBuffer  float64
	gpus          int
	gpuMemory     float64
	preset        string
	detectGPUs    bool
	withPrereq    bool
	metricsFile   string
	noHistory     bool
	watch         bool
}

// validateOutput is the JSON shape of a validation run.
type validateOutput struct {
	*domain.Report
	Passed bool                     `json:"passed"`
	Budget *budget.CheckpointBudget `json:"budget,omitempty"`
}

func newValidateCmd(g *globalOptions) *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Validate a training config before launch",
		Long: "Check a training config for parse errors, missing sections, incompatible models, " +
			"memory fit and known gotchas. Exits non-zero on errors, or on warnings with --strict.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.load(cmd)
			if err != nil {
				return err
			}
			settings, err := applyValidateFlags(cmd, opts, e.settings)
			if err != nil {
				return err
			}

			absPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			run := func(ctx context.Context) error {
				return runValidate(ctx, cmd, e, settings, opts, absPath)
			}

			if !opts.watch {
				return run(contextOf(cmd))
			}

			ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report := func() {
				if err := run(ctx); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl+C to stop)\n", args[0])
			}
			report()
			return watch.File(ctx, absPath, watch.DefaultDebounce, e.log, report)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.jsonOutput, "json", false, "Output results as JSON")
	f.BoolVar(&opts.strict, "strict", false, "Treat warnings as failures")
	f.BoolVar(&opts.offline, "offline", false, "Skip the HuggingFace model lookup")
	f.BoolVar(&opts.withBudget, "budget", false, "Append the checkpoint disk-budget check")
	f.StringVar(&opts.checkpointDir, "checkpoint-dir", "", "Checkpoint directory for the budget check")
	f.Float64Var(&opts.safetyBuffer, "safety-buffer", 0, "Disk space to keep free, in GB")
	f.IntVar(&opts.gpus, "gpus", 0, "Number of GPUs for the memory-fit check")
	f.Float64Var(&opts.gpuMemory, "gpu-memory", 0, "Memory per GPU in GB for the memory-fit check")
	f.StringVar(&opts.preset, "preset", "", "Hardware preset for the memory-fit check (see prime-train presets)")
	f.BoolVar(&opts.detectGPUs, "detect-gpus", false, "Query nvidia-smi for the memory-fit check")
	f.BoolVar(&opts.withPrereq, "prereq", false, "Also check host prerequisites")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	f.BoolVar(&opts.noHistory, "no-history", false, "Do not record this run in the validation history")
	f.BoolVar(&opts.watch, "watch", false, "Re-run whenever the config file changes")

	return cmd
}

// applyValidateFlags overrides settings with the flags the user set.
func applyValidateFlags(cmd *cobra.Command, opts *validateOptions, s domain.Settings) (domain.Settings, error) {
	f := cmd.Flags()
	if f.Changed("strict") {
		s.Strict = opts.strict
	}
	if f.Changed("offline") {
		s.Offline = opts.offline
	}
	if f.Changed("checkpoint-dir") {
		s.CheckpointDir = opts.checkpointDir
	}
	if f.Changed("safety-buffer") {
		s.SafetyBufferGB = opts.safetyBuffer
	}
	if f.Changed("gpus") {
		s.GPU.Count = opts.gpus
	}
	if f.Changed("gpu-memory") {
		s.GPU.MemoryGB = opts.gpuMemory
	}
	if f.Changed("preset") {
		s.GPU.Preset = opts.preset
	}
	if f.Changed("detect-gpus") {
		s.GPU.Detect = opts.detectGPUs
	}
	if f.Changed("metrics-file") {
		s.MetricsFile = opts.metricsFile
	}
	if opts.noHistory {
		s.History.Enabled = false
	}
	return s, s.Validate()
}

func runValidate(ctx context.Context, cmd *cobra.Command, e env, s domain.Settings, opts *validateOptions, path string) error {
	start := time.Now()
	probe := gpu.NewNvidiaSMI("", 0)

	topo, err := gpu.FromSettings(s.GPU, probe)
	if err != nil {
		return err
	}

	svc := application.NewValidateService(
		config.NewTreeLoader(),
		cache.FromSettings(huggingface.FromSettings(s, os.Getenv("HF_TOKEN")), s, e.log),
		application.WithTopology(topo),
		application.WithLogger(e.log),
	)
	report := svc.ValidateFile(ctx, path)

	if opts.withPrereq {
		report.Add(application.NewPrerequisiteService(host.New(), probe, e.log).Check(ctx)...)
	}

	out := validateOutput{Report: report}
	if opts.withBudget && report.Config != nil {
		b, results := application.NewBudgetService(disk.New(), e.log).
			Validate(report.Config, s.CheckpointDir, s.SafetyBufferGB)
		report.Add(results...)
		out.Budget = &b
	}

	recorder := application.NewRecordService(gitinfo.New(), history.New(), metrics.NewTextfileExporter(), e.log)
	recorder.Annotate(report)

	rec := application.RecordOptions{
		MetricsFile: s.MetricsFile,
		Budget:      out.Budget,
		Duration:    time.Since(start),
	}
	if s.History.Enabled && report.Config != nil {
		rec.HistoryDir = filepath.Dir(path)
	}
	if err := recorder.Record(report, rec); err != nil {
		e.log.Warn("recording run failed", "error", err)
	}

	out.Passed = !report.Failed(s.Strict)
	if opts.jsonOutput {
		if err := renderJSON(cmd, out); err != nil {
			return err
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(report))
	}

	if out.Passed {
		return nil
	}
	errs := report.Count(domain.SeverityError)
	if errs == 0 {
		return fmt.Errorf("validation failed (strict): %d warning(s)", report.Count(domain.SeverityWarning))
	}
	return fmt.Errorf("validation failed: %d error(s)", errs)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
