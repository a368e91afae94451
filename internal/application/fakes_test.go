package application_test

import (
	"context"
	"errors"

	"github.com/primetrain/primetrain/internal/domain"
)

type fakeRegistry struct {
	info  domain.ModelInfo
	calls []string
}

func (f *fakeRegistry) Lookup(_ context.Context, name string) domain.ModelInfo {
	f.calls = append(f.calls, name)
	return f.info
}

func found(tags ...string) *fakeRegistry {
	return &fakeRegistry{info: domain.ModelInfo{Status: domain.ModelFound, Tags: tags}}
}

type fakeTopology struct {
	topo domain.Topology
	ok   bool
}

func (f fakeTopology) Resolve(context.Context) (domain.Topology, bool) { return f.topo, f.ok }

type fakeDisk struct {
	available float64
	err       error
	size      float64
}

func (f fakeDisk) AvailableGB(string) (float64, error) { return f.available, f.err }
func (f fakeDisk) DirectorySizeGB(string) float64      { return f.size }

type fakeHost struct {
	limit uint64
	err   error
	env   map[string]string
}

func (f fakeHost) OpenFileLimit() (uint64, error) { return f.limit, f.err }
func (f fakeHost) Getenv(k string) string { return f.env[k] }

type fakeGPUs struct {
	gpus []domain.GPUStatus
	err  error
}

func (f fakeGPUs) QueryGPUs(context.Context) ([]domain.GPUStatus, error) { return f.gpus, f.err }

type fakeGit struct {
	repo bool
	hash string
}

func (f fakeGit) IsGitRepo(string) bool { return f.repo }
func (f fakeGit) CommitHash(string) (string, error) {
	if f.hash == "" {
		return "", errors.New("no commits")
	}
	return f.hash, nil
}

type memHistory struct {
	entries map[string][]domain.RunEntry
	err     error
}

func (m *memHistory) Save(dir string, e domain.RunEntry) error {
	if m.err != nil {
		return m.err
	}
	if m.entries == nil {
		m.entries = map[string][]domain.RunEntry{}
	}
	m.entries[dir] = append(m.entries[dir], e)
	return nil
}

func (m *memHistory) Load(dir string) ([]domain.RunEntry, error) { return m.entries[dir], nil }

type captureMetrics struct {
	path string
	m    domain.RunMetrics
}

func (c *captureMetrics) Export(path string, m domain.RunMetrics) error {
	c.path, c.m = path, m
	return nil
}
