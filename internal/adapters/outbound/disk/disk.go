// Package disk measures free space and checkpoint sizes on the local
// filesystem.
package disk

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const gib = 1024 * 1024 * 1024

// FreeBytesFunc returns the bytes available to unprivileged users on the
// filesystem holding path.
type FreeBytesFunc func(path string) (uint64, error)

// Inspector implements domain.DiskInspector.
type Inspector struct {
	freeBytes FreeBytesFunc
}

// New creates an Inspector backed by statfs.
func New() *Inspector { return &Inspector{freeBytes: statfsFree} }

// NewWithFreeBytes creates an Inspector with a custom free-space source.
func NewWithFreeBytes(fn FreeBytesFunc) *Inspector { return &Inspector{freeBytes: fn} }

// AvailableGB reports free space for path in GiB. Nonexistent paths are
// resolved to their nearest existing ancestor, then to the filesystem root.
func (i *Inspector) AvailableGB(path string) (float64, error) {
	dir := ExistingAncestor(path)
	free, err := i.freeBytes(dir)
	if err != nil {
		return 0, fmt.Errorf("free space for %s: %w", dir, err)
	}
	return float64(free) / gib, nil
}

// DirectorySizeGB sums the sizes of all files under path in GiB. Files
// that vanish mid-walk are skipped: trainers rotate checkpoints while we
// read. A missing path is 0.
func (i *Inspector) DirectorySizeGB(path string) float64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	if !info.IsDir() {
		return float64(info.Size()) / gib
	}

	var total int64
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		total += fi.Size()
		return nil
	})
	return float64(total) / gib
}

// ExistingAncestor walks parent links until it finds a path that exists.
// It never fails: the filesystem root is the last resort.
func ExistingAncestor(path string) string {
	p := filepath.Clean(path)
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	for {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return string(filepath.Separator)
		}
		p = parent
	}
}
