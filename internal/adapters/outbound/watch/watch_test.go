package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/primetrain/primetrain/internal/adapters/outbound/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_ReportsChangesAndStops(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rl.toml")
	require.NoError(t, os.WriteFile(path, []byte("[trainer]\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- watch.File(ctx, path, 20*time.Millisecond, nil, func() { changes <- struct{}{} })
	}()

	// Writes to other files in the directory are ignored.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0644)
		_ = os.WriteFile(path, []byte("[trainer]\nx = 1\n"), 0644)
		select {
		case <-changes:
			return true
		default:
			return false
		}
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestFile_MissingDirectory(t *testing.T) {
	err := watch.File(context.Background(), filepath.Join(t.TempDir(), "nope", "rl.toml"), 0, nil, func() {})
	assert.Error(t, err)
}
