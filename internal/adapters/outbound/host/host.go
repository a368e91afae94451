// Package host reads process limits and environment for prerequisite
// checks.
package host

import "os"

// Probe implements domain.HostProbe for the current process.
type Probe struct {
	getenv func(string) string
}

func New() *Probe { return &Probe{getenv: os.Getenv} }

// NewWithEnv creates a Probe reading variables from env instead of the
// process environment.
func NewWithEnv(env map[string]string) *Probe {
	return &Probe{getenv: func(k string) string { return env[k] }}
}

func (p *Probe) Getenv(key string) string { return p.getenv(key) }

// OpenFileLimit returns the soft RLIMIT_NOFILE.
func (p *Probe) OpenFileLimit() (uint64, error) {
	return openFileLimit()
}
