package application

import (
	"log/slog"

	"github.com/primetrain/primetrain/internal/domain"
	"github.com/primetrain/primetrain/internal/domain/budget"
	"github.com/primetrain/primetrain/internal/logging"
)

// BudgetService plans local checkpoint retention against free disk space.
type BudgetService struct {
	disk domain.DiskInspector
	log  *slog.Logger
}

func NewBudgetService(disk domain.DiskInspector, log *slog.Logger) *BudgetService {
	return &BudgetService{disk: disk, log: logging.OrDiscard(log)}
}

// Plan measures checkpointDir and computes the budget for cfg.
func (s *BudgetService) Plan(cfg domain.ConfigTree, checkpointDir string, safetyBufferGB float64) (budget.CheckpointBudget, error) {
	available, err := s.disk.AvailableGB(checkpointDir)
	if err != nil {
		return budget.CheckpointBudget{}, err
	}
	b := budget.Compute(cfg, available, safetyBufferGB)
	s.log.Debug("checkpoint budget", "dir", checkpointDir,
		"available_gb", b.AvailableDiskGB, "checkpoint_gb", b.EstimatedCheckpointGB,
		"max_local", b.MaxLocalCheckpoints, "requested", b.RequestedCheckpoints)
	return b, nil
}

// Validate plans the budget and turns it into a single finding. A failed
// disk query is reported as a warning, never an error.
func (s *BudgetService) Validate(cfg domain.ConfigTree, checkpointDir string, safetyBufferGB float64) (budget.CheckpointBudget, []domain.ValidationResult) {
	b, err := s.Plan(cfg, checkpointDir, safetyBufferGB)
	if err != nil {
		s.log.Warn("disk query failed", "dir", checkpointDir, "error", err)
		return b, []domain.ValidationResult{domain.Warning(
			"disk-space-unknown",
			"Could not determine available disk space",
			err.Error(),
			"Verify the checkpoint directory is on a mounted filesystem",
		)}
	}
	return b, budget.Evaluate(b)
}

// DiskBudget returns how many checkpoints of checkpointGB fit in dir after
// reserving bufferGB. Unknown free space counts as none.
func (s *BudgetService) DiskBudget(dir string, checkpointGB, bufferGB float64) int {
	available, err := s.disk.AvailableGB(dir)
	if err != nil {
		return 0
	}
	return budget.MaxLocalCheckpoints(available, checkpointGB, bufferGB)
}

// ExistingCheckpointsGB measures what is already stored in dir.
func (s *BudgetService) ExistingCheckpointsGB(dir string) float64 {
	return s.disk.DirectorySizeGB(dir)
}
