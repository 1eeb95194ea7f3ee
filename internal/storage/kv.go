package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// Keys used by the application stores.
const (
	KeyTasks    = "eisenhower-tasks"
	KeySettings = "eisenhower-settings"
	KeyTheme    = "eisenhower-theme"
)

// KV is the persistence boundary for the task and settings stores. Values
// are whole serialized documents; every write replaces the previous value.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
}
