package application

import (
	"context"
	"log/slog"

	"github.com/primetrain/primetrain/internal/domain"
	"github.com/primetrain/primetrain/internal/domain/prereq"
	"github.com/primetrain/primetrain/internal/logging"
	"golang.org/x/sync/errgroup"
)

// PrerequisiteService checks the host a training run will start on.
type PrerequisiteService struct {
	host domain.HostProbe
	gpus domain.GPUProbe
	log  *slog.Logger
}

func NewPrerequisiteService(host domain.HostProbe, gpus domain.GPUProbe, log *slog.Logger) *PrerequisiteService {
	return &PrerequisiteService{host: host, gpus: gpus, log: logging.OrDiscard(log)}
}

// Check probes the host concurrently and returns findings in a fixed
// order: file limit, CUDA, per-GPU health, vLLM environment.
func (s *PrerequisiteService) Check(ctx context.Context) []domain.ValidationResult {
	var (
		limit    uint64
		limitErr error
		gpus     []domain.GPUStatus
		gpuErr   error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		limit, limitErr = s.host.OpenFileLimit()
		return nil
	})
	g.Go(func() error {
		gpus, gpuErr = s.gpus.QueryGPUs(gctx)
		return nil
	})
	_ = g.Wait()

	if gpuErr != nil {
		s.log.Debug("gpu probe failed", "error", gpuErr)
	}

	results := []domain.ValidationResult{
		prereq.OpenFiles(limit, limitErr),
		prereq.CUDA(gpus, gpuErr),
	}
	results = append(results, prereq.GPUHealth(gpus, gpuErr)...)
	results = append(results, prereq.VLLMEnv(s.host.Getenv)...)
	return results
}
