// Package watcher monitors the task snapshot file for external changes
// and triggers a store reload when its content actually changed.
package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Reloader is the part of the store the watcher drives.
type Reloader interface {
	Reload() error
}

// Config configures the snapshot watcher.
type Config struct {
	// SnapshotPath is the file to watch, e.g. .reef/tasks.json.
	SnapshotPath string
	Reloader     Reloader
	Logger       *slog.Logger
	DebounceMs   int // default 500
}

// Watcher monitors the snapshot file. The containing directory is
// watched rather than the file itself so atomic rename saves are seen.
type Watcher struct {
	snapshotPath string
	reloader     Reloader
	logger       *slog.Logger

	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer

	// Content hash of the last snapshot we acted on. Events that leave
	// the hash unchanged are suppressed, which filters out our own
	// writes echoed back by the kernel.
	hashMu   sync.Mutex
	lastHash string

	done chan struct{}
}

// New creates a snapshot watcher.
func New(cfg *Config) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.SnapshotPath == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}
	if cfg.Reloader == nil {
		return nil, fmt.Errorf("reloader is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounceMs := cfg.DebounceMs
	if debounceMs <= 0 {
		debounceMs = 500
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		snapshotPath: cfg.SnapshotPath,
		reloader:     cfg.Reloader,
		logger:       logger,
		fsWatcher:    fsWatcher,
		done:         make(chan struct{}),
	}
	w.debouncer = NewDebouncer(debounceMs, w.reload)
	w.lastHash = w.hashSnapshot()
	return w, nil
}

// Start begins watching. Blocks until the context is cancelled or the
// watcher is stopped.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.snapshotPath)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Info("snapshot watcher started", "path", w.snapshotPath)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("snapshot watcher stopping", "reason", "context cancelled")
			_ = w.Stop()
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleFSEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("fsnotify error", "error", err)
		}
	}
}

// Stop shuts the watcher down.
func (w *Watcher) Stop() error {
	select {
	case <-w.done:
		return nil
	default:
		close(w.done)
	}

	w.debouncer.Stop()
	if err := w.fsWatcher.Close(); err != nil {
		return fmt.Errorf("close fsnotify watcher: %w", err)
	}
	w.logger.Info("snapshot watcher stopped")
	return nil
}

// Done returns a channel that's closed when the watcher stops.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != filepath.Clean(w.snapshotPath) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return
	}
	w.logger.Debug("snapshot event", "op", event.Op.String())
	w.debouncer.Trigger()
}

// reload fires after the debounce window. The reload is skipped when
// the snapshot content is byte-identical to what we last saw.
func (w *Watcher) reload() {
	hash := w.hashSnapshot()

	w.hashMu.Lock()
	unchanged := hash == w.lastHash
	w.lastHash = hash
	w.hashMu.Unlock()

	if unchanged {
		w.logger.Debug("snapshot content unchanged, skipping reload")
		return
	}

	if err := w.reloader.Reload(); err != nil {
		w.logger.Error("snapshot reload failed", "error", err)
		return
	}
	w.logger.Info("snapshot reloaded after external change")
}

// hashSnapshot returns the sha256 of the snapshot file, or "" when the
// file is missing or unreadable.
func (w *Watcher) hashSnapshot() string {
	data, err := os.ReadFile(w.snapshotPath)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
