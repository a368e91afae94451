package domain

// RunEntry is one recorded validation run.
type RunEntry struct {
	RunID      string `json:"run_id"`
	Timestamp  string `json:"timestamp"`
	ConfigPath string `json:"config_path"`
	ConfigHash string `json:"config_hash,omitempty"`
	CommitHash string `json:"commit_hash,omitempty"`
	Errors     int    `json:"errors"`
	Warnings   int    `json:"warnings"`
	Passed     bool   `json:"passed"`
}

// NewRunEntry summarizes a report for the history log.
func NewRunEntry(r *Report, timestamp, configHash string) RunEntry {
	return RunEntry{
		RunID:      r.RunID,
		Timestamp:  timestamp,
		ConfigPath: r.ConfigPath,
		ConfigHash: configHash,
		CommitHash: r.CommitHash,
		Errors:     r.Count(SeverityError),
		Warnings:   r.Count(SeverityWarning),
		Passed:     !r.HasErrors(),
	}
}

// RunMetrics is the numeric snapshot exported after a validation run.
// Budget fields are zero when no budget check ran.
type RunMetrics struct {
	ConfigPath          string
	Counts              map[Severity]int
	CheckpointGB        float64
	AvailableDiskGB     float64
	MaxLocalCheckpoints int
	BudgetChecked       bool
	DurationSeconds     float64
}
