// Package board implements the task board state transitions.
//
// Engine operations are pure: they take a *domain.Board snapshot and return a
// new one, never modifying their input. Session owns the current snapshot for
// a running process and persists each new one.
package board

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gosuda/taskboard/internal/domain"
	"github.com/gosuda/taskboard/internal/idgen"
)

// Loader returns a previously persisted board, if any.
type Loader interface {
	Load(ctx context.Context) (*domain.Board, bool)
}

// Engine applies board operations.
type Engine struct {
	ids idgen.Generator
	now func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(g idgen.Generator) EngineOption {
	return func(e *Engine) { e.ids = g }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		ids: idgen.UUID{},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize returns the persisted board when one loads cleanly, otherwise an
// empty board. loader may be nil.
func (e *Engine) Initialize(ctx context.Context, loader Loader) *domain.Board {
	if loader == nil {
		return domain.NewBoard()
	}
	b, ok := loader.Load(ctx)
	if !ok || b == nil || b.Validate() != nil {
		return domain.NewBoard()
	}
	return b
}

// CreateTask adds a task to the front of the todo column. Title and
// description are trimmed; an empty title is rejected.
func (e *Engine) CreateTask(b *domain.Board, title, description string) (*domain.Board, domain.Task, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if title == "" {
		return b, domain.Task{}, &domain.ValidationError{Field: "title", Message: "Title is required"}
	}
	if utf8.RuneCountInString(description) > domain.MaxDescriptionLength {
		return b, domain.Task{}, &domain.ValidationError{
			Field:   "description",
			Message: fmt.Sprintf("Description must be less than %d characters", domain.MaxDescriptionLength),
		}
	}

	t := domain.Task{
		ID:          e.ids.NewID(),
		Title:       title,
		Description: description,
		Column:      domain.ColumnTodo,
		CreatedAt:   e.now().UTC(),
	}

	next, err := b.Insert(t, "")
	if err != nil {
		return b, domain.Task{}, fmt.Errorf("board.Engine.CreateTask: %w", err)
	}
	return next, t, nil
}

// MoveTask places a task in target, immediately before beforeTaskID when that
// task is in target, otherwise at the front. Moving within the same column
// reorders it. An unknown taskID returns b unchanged.
func (e *Engine) MoveTask(b *domain.Board, taskID string, target domain.ColumnID, beforeTaskID string) (*domain.Board, error) {
	if !target.Valid() {
		return b, &domain.ValidationError{Field: "column", Message: "Invalid column type"}
	}

	without, t, ok := b.Remove(taskID)
	if !ok {
		return b, nil
	}

	if beforeTaskID == taskID {
		beforeTaskID = ""
	}
	t.Column = target

	next, err := without.Insert(t, beforeTaskID)
	if err != nil {
		return b, fmt.Errorf("board.Engine.MoveTask: %w", err)
	}
	return next, nil
}

// DeleteTask removes a task. An unknown taskID returns b unchanged.
func (e *Engine) DeleteTask(b *domain.Board, taskID string) *domain.Board {
	next, _, _ := b.Remove(taskID)
	return next
}
