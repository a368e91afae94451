package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrConfigNotFound is returned by a ConfigLoader when the file is missing.
var ErrConfigNotFound = errors.New("config file not found")

// ParseError reports a config file that exists but cannot be parsed.
type ParseError struct {
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConfigLoader parses a training configuration file into a tree.
type ConfigLoader interface {
	Load(path string) (ConfigTree, error)
	// Format names the syntax used for path, e.g. "toml".
	Format(path string) string
}

// SettingsLoader loads tool settings from a directory.
type SettingsLoader interface {
	Load(dir string) (Settings, error)
}

// DiskInspector queries filesystem capacity.
type DiskInspector interface {
	// AvailableGB returns free space for the nearest existing ancestor of
	// path, in GiB.
	AvailableGB(path string) (float64, error)
	// DirectorySizeGB sums file sizes below path, in GiB. Missing paths
	// are 0.
	DirectorySizeGB(path string) float64
}

// ModelStatus is the three-way outcome of a model registry lookup.
type ModelStatus int

const (
	ModelUnavailable ModelStatus = iota
	ModelFound
	ModelNotFound
)

// ModelInfo is what a registry knows about a model.
type ModelInfo struct {
	Status ModelStatus
	Tags   []string
	// Reason carries the registry's explanation for NotFound or
	// Unavailable.
	Reason string
}

// ModelRegistry looks models up in an external hub.
type ModelRegistry interface {
	Lookup(ctx context.Context, name string) ModelInfo
}

// Topology is the GPU layout available to a training run.
type Topology struct {
	Count    int     `json:"count"`
	MemoryGB float64 `json:"memory_gb"`
	Source   string  `json:"source,omitempty"`
}

// GPUTopology resolves the GPU layout. ok is false when it cannot be
// determined.
type GPUTopology interface {
	Resolve(ctx context.Context) (topo Topology, ok bool)
}

// ErrProbeNotFound and ErrProbeTimeout classify host probes that produced
// no data.
var (
	ErrProbeNotFound = errors.New("probe binary not found")
	ErrProbeTimeout  = errors.New("probe timed out")
)

// GPUStatus is one row of GPU health data.
type GPUStatus struct {
	Index         int     `json:"index"`
	Name          string  `json:"name"`
	MemoryUsedMiB float64 `json:"memory_used_mib"`
	MemoryTotal   float64 `json:"memory_total_mib"`
	Utilization   float64 `json:"utilization"`
}

// GPUProbe reads live GPU state from the host.
type GPUProbe interface {
	QueryGPUs(ctx context.Context) ([]GPUStatus, error)
}

// HostProbe reads process limits and environment from the host.
type HostProbe interface {
	OpenFileLimit() (uint64, error)
	Getenv(key string) string
}

// RunHistory persists validation runs.
type RunHistory interface {
	Save(dir string, entry RunEntry) error
	Load(dir string) ([]RunEntry, error)
}

// GitInfo provides commit metadata for the repository containing a path.
type GitInfo interface {
	IsGitRepo(path string) bool
	CommitHash(path string) (string, error)
}

// MetricsExporter writes run metrics to a file.
type MetricsExporter interface {
	Export(path string, m RunMetrics) error
}
