// Package budget decides whether the checkpoints a training run wants to
// keep fit on local disk.
package budget

import (
	"fmt"
	"math"
	"strings"

	"github.com/primetrain/primetrain/internal/domain"
	"github.com/primetrain/primetrain/internal/domain/estimate"
)

// DefaultKeepLast is the retention assumed when ckpt.keep_last is unset.
const DefaultKeepLast = 3

// CheckpointBudget is a computed verdict on local checkpoint capacity.
type CheckpointBudget struct {
	AvailableDiskGB       float64 `json:"available_disk_gb"`
	EstimatedCheckpointGB float64 `json:"estimated_checkpoint_gb"`
	SafetyBufferGB        float64 `json:"safety_buffer_gb"`
	MaxLocalCheckpoints   int     `json:"max_local_checkpoints"`
	RequestedCheckpoints  int     `json:"requested_checkpoints"`
	HasExternalBackup     bool    `json:"has_external_backup"`
	ExternalProvider      string  `json:"external_provider,omitempty"`
}

// BudgetExceeded reports whether more checkpoints are requested than fit.
func (b CheckpointBudget) BudgetExceeded() bool {
	return b.RequestedCheckpoints > b.MaxLocalCheckpoints
}

// NeedsOffloading reports whether overflow will go to external storage.
func (b CheckpointBudget) NeedsOffloading() bool {
	return b.BudgetExceeded() && b.HasExternalBackup
}

func (b CheckpointBudget) IsValid() bool {
	return !b.BudgetExceeded() || b.HasExternalBackup
}

// Summary renders the budget as human-readable lines.
func (b CheckpointBudget) Summary() string {
	lines := []string{
		fmt.Sprintf("Available disk: %.1f GB", b.AvailableDiskGB),
		fmt.Sprintf("Estimated checkpoint size: %.1f GB", b.EstimatedCheckpointGB),
		fmt.Sprintf("Safety buffer: %.1f GB", b.SafetyBufferGB),
		fmt.Sprintf("Max local checkpoints: %d", b.MaxLocalCheckpoints),
		fmt.Sprintf("Requested checkpoints: %d", b.RequestedCheckpoints),
	}
	if b.HasExternalBackup {
		lines = append(lines, "External backup: "+b.ExternalProvider)
	} else {
		lines = append(lines, "External backup: not configured")
	}

	switch {
	case b.NeedsOffloading():
		lines = append(lines, "Status: Will offload to external storage")
	case b.BudgetExceeded():
		lines = append(lines, "Status: BUDGET EXCEEDED - configure backup or reduce keep_last")
	default:
		lines = append(lines, "Status: OK")
	}
	return strings.Join(lines, "\n")
}

// MaxLocalCheckpoints returns how many checkpoints of checkpointGB fit in
// availableGB after reserving bufferGB. Never negative.
func MaxLocalCheckpoints(availableGB, checkpointGB, bufferGB float64) int {
	usable := availableGB - bufferGB
	if usable <= 0 || checkpointGB <= 0 {
		return 0
	}
	return int(usable / checkpointGB)
}

// Compute assembles a budget from a config and a measured free space.
func Compute(cfg domain.ConfigTree, availableGB, bufferGB float64) CheckpointBudget {
	ckpt := estimate.EstimateCheckpointGB(cfg)
	provider, _ := cfg.Lookup("backup.provider")

	b := CheckpointBudget{
		AvailableDiskGB:       availableGB,
		EstimatedCheckpointGB: ckpt,
		SafetyBufferGB:        bufferGB,
		MaxLocalCheckpoints:   MaxLocalCheckpoints(availableGB, ckpt, bufferGB),
		RequestedCheckpoints:  requestedCheckpoints(cfg),
		HasExternalBackup:     domain.Truthy(provider),
	}
	if b.HasExternalBackup {
		b.ExternalProvider = fmt.Sprint(provider)
	}
	return b
}

// requestedCheckpoints reads ckpt.keep_last, rounding a fractional value
// up so that 2.5 still exceeds a budget of 2.
func requestedCheckpoints(cfg domain.ConfigTree) int {
	return int(math.Ceil(cfg.Float("ckpt.keep_last", DefaultKeepLast)))
}
