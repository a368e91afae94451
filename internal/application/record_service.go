package application

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/primetrain/primetrain/internal/domain"
	"github.com/primetrain/primetrain/internal/domain/budget"
	"github.com/primetrain/primetrain/internal/logging"
)

// RecordService stamps reports with run metadata and persists them to the
// history log and metrics file. Any collaborator may be nil.
type RecordService struct {
	git     domain.GitInfo
	history domain.RunHistory
	metrics domain.MetricsExporter
	now     func() time.Time
	log     *slog.Logger
}

func NewRecordService(git domain.GitInfo, history domain.RunHistory, metrics domain.MetricsExporter, log *slog.Logger) *RecordService {
	return &RecordService{
		git:     git,
		history: history,
		metrics: metrics,
		now:     time.Now,
		log:     logging.OrDiscard(log),
	}
}

// RecordOptions selects what Record writes.
type RecordOptions struct {
	// HistoryDir is where the history log lives; empty skips it.
	HistoryDir string
	// MetricsFile is the textfile to write; empty skips it.
	MetricsFile string
	// Budget is included in metrics when a budget check ran.
	Budget   *budget.CheckpointBudget
	Duration time.Duration
}

// Annotate assigns a run id and, inside a git repository, the commit hash
// of the directory holding the config.
func (s *RecordService) Annotate(r *domain.Report) {
	r.RunID = uuid.NewString()
	if s.git == nil || r.ConfigPath == "" {
		return
	}
	dir := filepath.Dir(r.ConfigPath)
	if !s.git.IsGitRepo(dir) {
		return
	}
	if hash, err := s.git.CommitHash(dir); err == nil {
		r.CommitHash = hash
	} else {
		s.log.Debug("commit hash unavailable", "dir", dir, "error", err)
	}
}

// Record writes the run to the history log and metrics file.
func (s *RecordService) Record(r *domain.Report, opts RecordOptions) error {
	var errs []error

	if opts.HistoryDir != "" && s.history != nil {
		entry := domain.NewRunEntry(r, s.now().UTC().Format(time.RFC3339), fileHash(r.ConfigPath))
		if err := s.history.Save(opts.HistoryDir, entry); err != nil {
			errs = append(errs, fmt.Errorf("saving history: %w", err))
		}
	}

	if opts.MetricsFile != "" && s.metrics != nil {
		if err := s.metrics.Export(opts.MetricsFile, RunMetrics(r, opts.Budget, opts.Duration)); err != nil {
			errs = append(errs, fmt.Errorf("exporting metrics: %w", err))
		}
	}

	return errors.Join(errs...)
}

// History returns the recorded runs in dir, oldest first.
func (s *RecordService) History(dir string) ([]domain.RunEntry, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.Load(dir)
}

// RunMetrics snapshots a report for export.
func RunMetrics(r *domain.Report, b *budget.CheckpointBudget, d time.Duration) domain.RunMetrics {
	m := domain.RunMetrics{
		ConfigPath:      r.ConfigPath,
		Counts:          map[domain.Severity]int{},
		DurationSeconds: d.Seconds(),
	}
	for _, res := range r.Results {
		m.Counts[res.Severity]++
	}
	if b != nil {
		m.BudgetChecked = true
		m.CheckpointGB = b.EstimatedCheckpointGB
		m.AvailableDiskGB = b.AvailableDiskGB
		m.MaxLocalCheckpoints = b.MaxLocalCheckpoints
	}
	return m
}

func fileHash(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h)
}
