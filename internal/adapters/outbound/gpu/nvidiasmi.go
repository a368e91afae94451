// Package gpu resolves GPU topology and health, either from explicit
// settings or from nvidia-smi.
package gpu

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/primetrain/primetrain/internal/domain"
)

// DefaultTimeout bounds a single nvidia-smi invocation.
const DefaultTimeout = 10 * time.Second

var queryArgs = []string{
	"--query-gpu=index,name,memory.used,utilization.gpu,memory.total",
	"--format=csv,noheader,nounits",
}

// NvidiaSMI implements domain.GPUProbe by shelling out to nvidia-smi.
type NvidiaSMI struct {
	binary  string
	timeout time.Duration
}

// NewNvidiaSMI creates a probe. An empty binary means "nvidia-smi" on PATH.
func NewNvidiaSMI(binary string, timeout time.Duration) *NvidiaSMI {
	if binary == "" {
		binary = "nvidia-smi"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &NvidiaSMI{binary: binary, timeout: timeout}
}

// QueryGPUs returns one status per GPU. A missing binary wraps
// domain.ErrProbeNotFound and a timeout wraps domain.ErrProbeTimeout.
func (n *NvidiaSMI) QueryGPUs(ctx context.Context) ([]domain.GPUStatus, error) {
	path, err := exec.LookPath(n.binary)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.binary, domain.ErrProbeNotFound)
	}

	cmdCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(cmdCtx, path, queryArgs...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	err = cmd.Run()
	if errors.Is(cmdCtx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%s: %w", n.binary, domain.ErrProbeTimeout)
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%s: %s", n.binary, msg)
	}
	return ParseQuery(stdout.String()), nil
}

// ParseQuery parses nvidia-smi CSV rows of index, name, memory.used,
// utilization.gpu, memory.total. Malformed rows are skipped and
// unreadable numbers count as 0.
func ParseQuery(out string) []domain.GPUStatus {
	var gpus []domain.GPUStatus
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 5 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		idx, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}
		gpus = append(gpus, domain.GPUStatus{
			Index:         idx,
			Name:          parts[1],
			MemoryUsedMiB: number(parts[2]),
			Utilization:   number(parts[3]),
			MemoryTotal:   number(parts[4]),
		})
	}
	return gpus
}

func number(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
