package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/primetrain/primetrain/internal/domain"
	"github.com/primetrain/primetrain/internal/domain/compat"
	"github.com/primetrain/primetrain/internal/domain/estimate"
	"github.com/primetrain/primetrain/internal/domain/gotcha"
	"github.com/primetrain/primetrain/internal/domain/schema"
	"github.com/primetrain/primetrain/internal/logging"
)

// ValidateService runs the validation pipeline over a training config:
// parse → schema → model compatibility → memory fit → gotchas.
type ValidateService struct {
	loader   domain.ConfigLoader
	registry domain.ModelRegistry
	topology domain.GPUTopology
	schema   schema.Schema
	gotchas  *gotcha.Engine
	log      *slog.Logger
}

// ValidateOption customizes a ValidateService.
type ValidateOption func(*ValidateService)

// WithTopology enables the memory-fit check. Without it the check is
// skipped.
func WithTopology(t domain.GPUTopology) ValidateOption {
	return func(s *ValidateService) { s.topology = t }
}

func WithSchema(sc schema.Schema) ValidateOption {
	return func(s *ValidateService) { s.schema = sc }
}

func WithGotchaEngine(e *gotcha.Engine) ValidateOption {
	return func(s *ValidateService) { s.gotchas = e }
}

func WithLogger(l *slog.Logger) ValidateOption {
	return func(s *ValidateService) { s.log = l }
}

func NewValidateService(loader domain.ConfigLoader, registry domain.ModelRegistry, opts ...ValidateOption) *ValidateService {
	s := &ValidateService{
		loader:   loader,
		registry: registry,
		schema:   schema.Default(),
		gotchas:  gotcha.NewEngine(gotcha.DefaultCatalogue()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.OrDiscard(s.log)
	return s
}

// ValidateFile loads path and validates it. A missing or unparsable file
// ends the run after a single error; everything else is reported as
// results.
func (s *ValidateService) ValidateFile(ctx context.Context, path string) *domain.Report {
	r := domain.NewReport(path)
	format := s.loader.Format(path)

	cfg, err := s.loader.Load(path)
	if err != nil {
		var perr *domain.ParseError
		switch {
		case errors.Is(err, domain.ErrConfigNotFound):
			r.Add(domain.Error("file_exists", fmt.Sprintf("Config file not found: %s", path), "", ""))
		case errors.As(err, &perr):
			r.Add(domain.Error(
				perr.Format+"_parse",
				fmt.Sprintf("Invalid %s syntax", strings.ToUpper(perr.Format)),
				perr.Err.Error(),
				"",
			))
		default:
			r.Add(domain.Error("file_exists", fmt.Sprintf("Config file not readable: %s", path), err.Error(), ""))
		}
		s.log.Debug("config load failed", "path", path, "error", err)
		return r
	}

	r.Add(domain.Success(format+"_parse", fmt.Sprintf("Config is valid %s", strings.ToUpper(format))))
	s.ValidateTree(ctx, r, cfg)
	return r
}

// ValidateTree appends the findings for an already parsed config to r.
func (s *ValidateService) ValidateTree(ctx context.Context, r *domain.Report, cfg domain.ConfigTree) {
	r.Config = cfg
	r.Add(s.schema.Validate(cfg)...)

	model := cfg.ModelNameOrPath()
	if model == "" {
		r.Add(domain.Warning(
			"model_name",
			"Could not determine model name from config",
			"Expected model name in trainer.model.name_or_path or orchestrator.model.name_or_path",
			"",
		))
	} else {
		r.Add(s.checkModel(ctx, model)...)
		r.Add(s.checkMemory(ctx, model, cfg)...)
	}

	r.Add(s.gotchas.Evaluate(cfg)...)
	s.log.Debug("validation finished", "path", r.ConfigPath,
		"errors", r.Count(domain.SeverityError), "warnings", r.Count(domain.SeverityWarning))
}

func (s *ValidateService) checkModel(ctx context.Context, model string) []domain.ValidationResult {
	if results, done := compat.Precheck(model); done {
		return results
	}
	info := s.registry.Lookup(ctx, model)
	s.log.Debug("registry lookup", "model", model, "status", info.Status, "reason", info.Reason)
	return compat.FromLookup(model, info)
}

func (s *ValidateService) checkMemory(ctx context.Context, model string, cfg domain.ConfigTree) []domain.ValidationResult {
	if s.topology == nil {
		return nil
	}
	topo, ok := s.topology.Resolve(ctx)
	if !ok || topo.Count <= 0 || topo.MemoryGB <= 0 {
		s.log.Debug("gpu topology unresolved, skipping memory fit")
		return nil
	}
	s.log.Debug("gpu topology", "count", topo.Count, "memory_gb", topo.MemoryGB, "source", topo.Source)
	return estimate.CheckMemoryFit(model, cfg, topo)
}
