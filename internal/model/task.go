package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyID      = errors.New("model: task id is required")
	ErrEmptyContent = errors.New("model: task content is required")
)

// Task is one work item on the board. CreatedAt is unix milliseconds so
// backups stay compatible with the JSON format used by earlier exports.
type Task struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	Quadrant      Quadrant  `json:"quadrant"`
	CreatedAt     int64     `json:"createdAt"`
	Completed     bool      `json:"completed"`
	Subtasks      []SubTask `json:"subtasks,omitempty"`
	IsAIGenerated bool      `json:"isAiGenerated,omitempty"`
}

type SubTask struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Completed bool   `json:"completed"`
}

func (t Task) Created() time.Time {
	return time.UnixMilli(t.CreatedAt).UTC()
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(t.Content) == "" {
		return ErrEmptyContent
	}
	if !t.Quadrant.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidQuadrant, t.Quadrant)
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate store-owned subtasks.
func (t Task) Clone() Task {
	out := t
	if t.Subtasks != nil {
		out.Subtasks = append([]SubTask(nil), t.Subtasks...)
	}
	return out
}
