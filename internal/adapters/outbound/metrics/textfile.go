// Package metrics exports validation runs as Prometheus textfile metrics
// for the node_exporter textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/primetrain/primetrain/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "prime_train"

var severities = []domain.Severity{
	domain.SeverityError,
	domain.SeverityWarning,
	domain.SeverityInfo,
	domain.SeveritySuccess,
}

// TextfileExporter implements domain.MetricsExporter.
type TextfileExporter struct{}

func NewTextfileExporter() *TextfileExporter { return &TextfileExporter{} }

// Export writes a fresh registry for m to path, replacing the file.
func (e *TextfileExporter) Export(path string, m domain.RunMetrics) error {
	reg := prometheus.NewRegistry()

	results := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "validation_results",
		Help:      "Validation results of the last run by severity.",
	}, []string{"config", "severity"})

	duration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "validation_duration_seconds",
		Help:      "Wall time of the last validation run.",
	}, []string{"config"})

	lastRun := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "validation_passed",
		Help:      "1 when the last run had no errors.",
	}, []string{"config"})

	reg.MustRegister(results, duration, lastRun)

	for _, sev := range severities {
		results.WithLabelValues(m.ConfigPath, string(sev)).Set(float64(m.Counts[sev]))
	}
	duration.WithLabelValues(m.ConfigPath).Set(m.DurationSeconds)
	passed := 0.0
	if m.Counts[domain.SeverityError] == 0 {
		passed = 1
	}
	lastRun.WithLabelValues(m.ConfigPath).Set(passed)

	if m.BudgetChecked {
		checkpoint := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "checkpoint_estimate_gigabytes",
			Help:      "Estimated size of one checkpoint.",
		}, []string{"config"})
		disk := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "checkpoint_disk_available_gigabytes",
			Help:      "Free space in the checkpoint directory.",
		}, []string{"config"})
		maxLocal := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "checkpoint_max_local",
			Help:      "Checkpoints that fit on local disk after the safety buffer.",
		}, []string{"config"})
		reg.MustRegister(checkpoint, disk, maxLocal)

		checkpoint.WithLabelValues(m.ConfigPath).Set(m.CheckpointGB)
		disk.WithLabelValues(m.ConfigPath).Set(m.AvailableDiskGB)
		maxLocal.WithLabelValues(m.ConfigPath).Set(float64(m.MaxLocalCheckpoints))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
