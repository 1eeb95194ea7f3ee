package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sandeepkv93/eisen/internal/model"
)

var (
	ErrNotJSON  = errors.New("tasks: backup is not valid JSON")
	ErrNotArray = errors.New("tasks: backup must be a JSON array of tasks")
)

func BackupFileName(now time.Time) string {
	return fmt.Sprintf("eisenhower-tasks-%s.json", now.Format(time.DateOnly))
}

// MarshalBackup renders the task array pretty-printed, the format accepted by
// ParseBackup.
func MarshalBackup(items []model.Task) ([]byte, error) {
	if items == nil {
		items = []model.Task{}
	}
	out, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// ParseBackup accepts only a top-level JSON array.
func ParseBackup(raw []byte) ([]model.Task, error) {
	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJSON, err)
	}
	if _, ok := probe.([]any); !ok {
		return nil, ErrNotArray
	}
	var items []model.Task
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotArray, err)
	}
	return items, nil
}

// WriteBackup writes the backup file into dir and returns its path.
func WriteBackup(dir string, now time.Time, items []model.Task) (string, error) {
	payload, err := MarshalBackup(items)
	if err != nil {
		return "", fmt.Errorf("tasks: encode backup: %w", err)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("tasks: create export dir: %w", err)
	}
	path := filepath.Join(dir, BackupFileName(now))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("tasks: write backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("tasks: write backup: %w", err)
	}
	return path, nil
}

// ReadBackup loads and validates a backup file.
func ReadBackup(path string) ([]model.Task, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tasks: read backup: %w", err)
	}
	return ParseBackup(raw)
}
