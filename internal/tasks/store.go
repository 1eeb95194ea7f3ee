package tasks

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/sandeepkv93/eisen/internal/model"
	"github.com/sandeepkv93/eisen/internal/storage"
)

var ErrEmptyContent = errors.New("tasks: content is empty")

type ImportMode string

const (
	ImportReplace ImportMode = "replace"
	ImportMerge   ImportMode = "merge"
)

type ImportResult struct {
	Added   int
	Skipped int
}

// Store is the only owner of the task collection. Readers get copies; every
// mutation rewrites the whole collection to the KV store.
type Store struct {
	mu      sync.Mutex
	kv      storage.KV
	logger  zerolog.Logger
	items   []model.Task
	now     func() time.Time
	entropy *ulid.MonotonicEntropy
}

// Open loads the persisted collection. Corrupt data is logged and dropped so
// the store starts empty; only a failing backend is returned as an error.
func Open(ctx context.Context, kv storage.KV, logger zerolog.Logger) (*Store, error) {
	s := &Store{
		kv:      kv,
		logger:  logger.With().Str("component", "tasks").Logger(),
		items:   make([]model.Task, 0),
		now:     func() time.Time { return time.Now().UTC() },
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
	raw, err := kv.Get(ctx, storage.KeyTasks)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return s, nil
		}
		return nil, fmt.Errorf("tasks: load: %w", err)
	}
	var loaded []model.Task
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		s.logger.Warn().Err(err).Msg("discarding corrupt persisted tasks")
		return s, nil
	}
	kept, skipped := sanitize(loaded)
	if skipped > 0 {
		s.logger.Warn().Int("skipped", skipped).Msg("dropped invalid persisted tasks")
	}
	s.items = kept
	s.logger.Debug().Int("count", len(kept)).Msg("loaded tasks")
	return s, nil
}

func (s *Store) List() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, 0, len(s.items))
	for _, t := range s.items {
		out = append(out, t.Clone())
	}
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) Get(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i].Clone(), true
	}
	return model.Task{}, false
}

// ByQuadrant returns the tasks of q in store order.
func (s *Store) ByQuadrant(q model.Quadrant) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, 0)
	for _, t := range s.items {
		if t.Quadrant == q {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Add appends a task. Subtask strings become SubTasks with fresh ids. The
// task is kept in memory even when persisting fails.
func (s *Store) Add(ctx context.Context, content string, q model.Quadrant, subtasks []string, aiGenerated bool) (model.Task, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Task{}, ErrEmptyContent
	}
	if !q.IsValid() {
		return model.Task{}, fmt.Errorf("tasks: add: %w: %q", model.ErrInvalidQuadrant, q)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	task := model.Task{
		ID:            s.newID(now),
		Content:       content,
		Quadrant:      q,
		CreatedAt:     now.UnixMilli(),
		IsAIGenerated: aiGenerated,
	}
	for _, st := range subtasks {
		st = strings.TrimSpace(st)
		if st == "" {
			continue
		}
		task.Subtasks = append(task.Subtasks, model.SubTask{ID: uuid.NewString(), Content: st})
	}
	s.items = append(s.items, task)
	s.logger.Info().Str("task_id", task.ID).Str("quadrant", string(q)).Bool("ai", aiGenerated).Msg("added task")
	return task.Clone(), s.persist(ctx)
}

// Reassign moves a task to q. It reports false when id is unknown.
func (s *Store) Reassign(ctx context.Context, id string, q model.Quadrant) (bool, error) {
	if !q.IsValid() {
		return false, fmt.Errorf("tasks: reassign: %w: %q", model.ErrInvalidQuadrant, q)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.items[i].Quadrant = q
	s.logger.Info().Str("task_id", id).Str("quadrant", string(q)).Msg("reassigned task")
	return true, s.persist(ctx)
}

func (s *Store) ToggleCompleted(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.items[i].Completed = !s.items[i].Completed
	return true, s.persist(ctx)
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.logger.Info().Str("task_id", id).Msg("deleted task")
	return true, s.persist(ctx)
}

// ClearCompleted removes every completed task and returns how many went.
// Callers are expected to have confirmed with the user first.
func (s *Store) ClearCompleted(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]model.Task, 0, len(s.items))
	for _, t := range s.items {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(s.items) - len(kept)
	s.items = kept
	s.logger.Info().Int("removed", removed).Msg("cleared completed tasks")
	return removed, s.persist(ctx)
}

// Import replaces the collection or appends the imported tasks whose ids are
// not present yet. Tasks failing validation are skipped in both modes.
func (s *Store) Import(ctx context.Context, imported []model.Task, mode ImportMode) (ImportResult, error) {
	if mode != ImportReplace && mode != ImportMerge {
		return ImportResult{}, fmt.Errorf("tasks: unknown import mode %q", mode)
	}
	valid, skipped := sanitize(imported)

	s.mu.Lock()
	defer s.mu.Unlock()
	res := ImportResult{Skipped: skipped}
	switch mode {
	case ImportReplace:
		s.items = valid
		res.Added = len(valid)
	case ImportMerge:
		seen := make(map[string]bool, len(s.items))
		for _, t := range s.items {
			seen[t.ID] = true
		}
		for _, t := range valid {
			if seen[t.ID] {
				res.Skipped++
				continue
			}
			seen[t.ID] = true
			s.items = append(s.items, t)
			res.Added++
		}
	}
	s.logger.Info().Str("mode", string(mode)).Int("added", res.Added).Int("skipped", res.Skipped).Msg("imported tasks")
	return res, s.persist(ctx)
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) newID(now time.Time) string {
	id, err := ulid.New(ulid.Timestamp(now), s.entropy)
	if err != nil {
		return ulid.Make().String()
	}
	return id.String()
}

// persist must be called with s.mu held.
func (s *Store) persist(ctx context.Context) error {
	payload, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("tasks: encode: %w", err)
	}
	if err := s.kv.Put(ctx, storage.KeyTasks, string(payload)); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist tasks")
		return fmt.Errorf("tasks: persist: %w", err)
	}
	return nil
}

// sanitize drops tasks failing model.Task.Validate and repeated ids (first
// occurrence wins).
func sanitize(in []model.Task) ([]model.Task, int) {
	out := make([]model.Task, 0, len(in))
	seen := make(map[string]bool, len(in))
	skipped := 0
	for _, t := range in {
		if t.Validate() != nil || seen[t.ID] {
			skipped++
			continue
		}
		seen[t.ID] = true
		out = append(out, t.Clone())
	}
	return out, skipped
}
