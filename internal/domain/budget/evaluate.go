package budget

import (
	"fmt"

	"github.com/primetrain/primetrain/internal/domain"
)

// Check ids emitted by Evaluate.
const (
	CheckDiskCritical     = "disk-space-critical"
	CheckDiskInsufficient = "disk-space-insufficient"
	CheckOffload          = "checkpoint-budget-offload"
	CheckExceeded         = "checkpoint-budget-exceeded"
	CheckOK               = "checkpoint-budget-ok"
)

// Evaluate turns a budget into a single finding. Rules are checked in
// order and the first match wins.
func Evaluate(b CheckpointBudget) []domain.ValidationResult {
	if b.AvailableDiskGB < b.SafetyBufferGB {
		return []domain.ValidationResult{domain.Error(
			CheckDiskCritical,
			"Disk space critically low",
			fmt.Sprintf("Only %.1f GB available, need at least %.1f GB", b.AvailableDiskGB, b.SafetyBufferGB),
			"Free up disk space or use a different checkpoint directory",
		)}
	}

	if b.MaxLocalCheckpoints < 1 {
		return []domain.ValidationResult{domain.Error(
			CheckDiskInsufficient,
			"Insufficient disk space for checkpoints",
			fmt.Sprintf("Need ~%.1f GB per checkpoint, but only %.1f GB usable",
				b.EstimatedCheckpointGB, b.AvailableDiskGB-b.SafetyBufferGB),
			"Free up disk space, configure external backup, or use a smaller model",
		)}
	}

	if b.BudgetExceeded() {
		if b.HasExternalBackup {
			return []domain.ValidationResult{domain.Warning(
				CheckOffload,
				"Checkpoint budget requires offloading",
				fmt.Sprintf("keep_last=%d exceeds local budget (%d). Will offload to %s.",
					b.RequestedCheckpoints, b.MaxLocalCheckpoints, b.ExternalProvider),
				"",
			)}
		}
		return []domain.ValidationResult{domain.Error(
			CheckExceeded,
			"Checkpoint budget exceeded",
			fmt.Sprintf("keep_last=%d exceeds disk budget (%d max). %.1f GB per checkpoint.",
				b.RequestedCheckpoints, b.MaxLocalCheckpoints, b.EstimatedCheckpointGB),
			fmt.Sprintf("Either: 1) Set keep_last <= %d, or 2) Configure backup provider (s3/b2/gcs) for offloading",
				b.MaxLocalCheckpoints),
		)}
	}

	return []domain.ValidationResult{domain.Success(
		CheckOK,
		"Checkpoint budget OK",
	).WithDetails(fmt.Sprintf("Can store %d checkpoints locally (%.1f GB each)",
		b.MaxLocalCheckpoints, b.EstimatedCheckpointGB))}
}
