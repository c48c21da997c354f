// Package cli implements the reef command-line interface.
// This file contains shared helper functions used across multiple commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mworkman/reef/internal/config"
	reeferrors "github.com/mworkman/reef/internal/errors"
	"github.com/mworkman/reef/internal/storage"
	"github.com/mworkman/reef/internal/store"
	"github.com/mworkman/reef/internal/task"
)

// requireInit ensures the project data directory exists.
func requireInit(cfg *config.Config) error {
	if _, err := os.Stat(cfg.DataDir); os.IsNotExist(err) {
		return reeferrors.ErrNotInitialized()
	}
	return nil
}

// openStore loads config and opens the task store. Callers own the
// returned store and must Close it.
func openStore() (*store.Store, *config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if err := requireInit(cfg); err != nil {
		return nil, nil, err
	}
	backend, err := storage.NewBackend(cfg.DataDir, storage.Options{
		Mode:            storage.Mode(cfg.Storage.Mode),
		BackupRetention: cfg.Storage.BackupRetention,
	})
	if err != nil {
		return nil, nil, err
	}
	s, err := store.Open(backend)
	if err != nil {
		_ = backend.Close()
		return nil, nil, err
	}
	return s, cfg, nil
}

// resolveTaskID accepts an ID or an exact task name and returns the ID.
func resolveTaskID(s *store.Store, token string) (string, error) {
	if _, err := s.GetByID(token); err == nil {
		return token, nil
	}
	var match *task.Task
	for _, t := range s.GetAll() {
		if t.Name == token {
			if match != nil {
				return "", reeferrors.ErrValidation("task", fmt.Sprintf("name %q is ambiguous, use the ID", token))
			}
			match = t
		}
	}
	if match == nil {
		return "", reeferrors.ErrTaskNotFound(token)
	}
	return match.ID, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func statusIcon(status task.Status) string {
	switch status {
	case task.StatusPending:
		return "📝"
	case task.StatusInProgress:
		return "⏳"
	case task.StatusCompleted:
		return "✅"
	case task.StatusBlocked:
		return "🚫"
	default:
		return "❓"
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// shortID returns the first segment of a UUID for compact display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
