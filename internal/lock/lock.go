// Package lock guards the task snapshot against concurrent writers.
// Each mutating commit takes the write lock, so two reef processes
// cannot interleave their snapshot updates.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// LockFileName is the name of the lock file in the data directory.
const LockFileName = "write.lock"

// DefaultTTL is how long a lock stays valid without being refreshed.
// CLI commands finish well within it; a crashed process leaves a lock
// that goes stale and gets claimed by the next writer.
const DefaultTTL = 60 * time.Second

// Lock is the on-disk lock state.
type Lock struct {
	Owner    string    `yaml:"owner"`    // user@machine identifier
	Acquired time.Time `yaml:"acquired"` // when lock was acquired
	TTL      string    `yaml:"ttl"`      // time-to-live as duration string
	PID      int       `yaml:"pid"`      // process ID of lock holder
}

// TTLDuration parses the TTL string and returns a time.Duration.
func (l *Lock) TTLDuration() time.Duration {
	d, err := time.ParseDuration(l.TTL)
	if err != nil {
		return DefaultTTL
	}
	return d
}

// IsStale returns true if the lock is older than its TTL.
func (l *Lock) IsStale() bool {
	return time.Since(l.Acquired) > l.TTLDuration()
}

// WriteLocker serializes snapshot writes across processes using a lock
// file in the data directory.
type WriteLocker struct {
	dataDir string
	owner   string
	mu      sync.Mutex
}

// New creates a WriteLocker for the given data directory. An empty
// owner defaults to user@hostname.
func New(dataDir, owner string) *WriteLocker {
	if owner == "" {
		owner = defaultOwner()
	}
	return &WriteLocker{dataDir: dataDir, owner: owner}
}

func defaultOwner() string {
	user := os.Getenv("USER")
	if user == "" {
		user = "unknown"
	}
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	return user + "@" + host
}

func (l *WriteLocker) lockPath() string {
	return filepath.Join(l.dataDir, LockFileName)
}

func (l *WriteLocker) readLock() (*Lock, error) {
	data, err := os.ReadFile(l.lockPath())
	if err != nil {
		return nil, err
	}
	var lock Lock
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("parse lock file: %w", err)
	}
	return &lock, nil
}

func (l *WriteLocker) writeLock(lock *Lock) error {
	data, err := yaml.Marshal(lock)
	if err != nil {
		return fmt.Errorf("marshal lock: %w", err)
	}

	if err := os.MkdirAll(l.dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	path := l.lockPath()
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write lock file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename lock file: %w", err)
	}
	return nil
}

// Acquire takes the write lock. It fails when another live owner holds
// it; a stale lock is claimed.
func (l *WriteLocker) Acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, err := l.readLock()
	if err == nil {
		if !existing.IsStale() && existing.Owner != l.owner {
			return &LockError{
				Owner:  existing.Owner,
				PID:    existing.PID,
				Reason: "snapshot is locked by another writer",
			}
		}
		// Stale, or held by us already: refresh below.
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read lock: %w", err)
	}

	return l.writeLock(&Lock{
		Owner:    l.owner,
		Acquired: time.Now().UTC(),
		TTL:      DefaultTTL.String(),
		PID:      os.Getpid(),
	})
}

// Release drops the write lock. Releasing a lock we do not hold is an
// error; a missing lock file is not.
func (l *WriteLocker) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, err := l.readLock()
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read lock: %w", err)
	}
	if existing.Owner != l.owner {
		return &LockError{
			Owner:  existing.Owner,
			PID:    existing.PID,
			Reason: "cannot release lock owned by another",
		}
	}

	if err := os.Remove(l.lockPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}

// IsLocked reports whether a live lock exists, and who holds it.
func (l *WriteLocker) IsLocked() (bool, *Lock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, err := l.readLock()
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil, nil
		}
		return false, nil, fmt.Errorf("read lock: %w", err)
	}
	if lock.IsStale() {
		return false, nil, nil
	}
	return true, lock, nil
}

// LockError represents a lock acquisition failure.
type LockError struct {
	Owner  string
	PID    int
	Reason string
}

func (e *LockError) Error() string {
	return fmt.Sprintf("%s (owner: %s, pid: %d)", e.Reason, e.Owner, e.PID)
}
