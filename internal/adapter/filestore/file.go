// Package filestore keeps feedback and credentials in plain files: CSV for feedback,
// YAML for the credential document. Every write is a whole-file rewrite done under an
// in-process mutex and an advisory file lock, then swapped in atomically.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/renameio/v2"
	"github.com/pscheid92/nlpnavigator/internal/adapter/metrics"
)

const lockRetryDelay = 20 * time.Millisecond

type lockedFile struct {
	name    string // metric label
	path    string
	lock    *flock.Flock
	mu      sync.Mutex
	metrics *metrics.StoreMetrics
}

func newLockedFile(name, path string, m *metrics.StoreMetrics) *lockedFile {
	return &lockedFile{
		name:    name,
		path:    path,
		lock:    flock.New(path + ".lock"),
		metrics: m,
	}
}

// update runs a read-modify-write cycle. fn receives the current content (nil when
// the file does not exist yet) and returns the replacement.
func (f *lockedFile) update(ctx context.Context, fn func(current []byte) ([]byte, error)) (err error) {
	defer func() { f.observe(err) }()

	f.mu.Lock()
	defer f.mu.Unlock()

	start := time.Now()
	locked, err := f.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", f.path, err)
	}
	if !locked {
		return fmt.Errorf("failed to lock %s", f.path)
	}
	defer func() { _ = f.lock.Unlock() }()
	f.observeWait(time.Since(start))

	current, err := f.readUnlocked()
	if err != nil {
		return err
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	if err := renameio.WriteFile(f.path, next, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	return nil
}

// read returns the file content under a shared lock, or nil when it does not exist.
// It opens its own lock handle so it waits for writers in this process too.
func (f *lockedFile) read(ctx context.Context) ([]byte, error) {
	lock := flock.New(f.lock.Path())
	locked, err := lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", f.path, err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to lock %s", f.path)
	}
	defer func() { _ = lock.Close() }()

	return f.readUnlocked()
}

func (f *lockedFile) readUnlocked() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	return data, nil
}

func (f *lockedFile) observe(err error) {
	if f.metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	f.metrics.Appends.WithLabelValues(f.name, result).Inc()
}

func (f *lockedFile) observeWait(d time.Duration) {
	if f.metrics != nil {
		f.metrics.LockWait.WithLabelValues(f.name).Observe(d.Seconds())
	}
}
