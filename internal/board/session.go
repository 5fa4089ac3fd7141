package board

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/taskboard/internal/domain"
)

// EventType names a board mutation.
type EventType string

const (
	EventTaskCreated EventType = "task_created"
	EventTaskMoved   EventType = "task_moved"
	EventTaskDeleted EventType = "task_deleted"
)

// Event describes a mutation and the snapshot it produced.
type Event struct {
	Type   EventType
	TaskID string
	Board  *domain.Board
}

// Store loads and saves board snapshots. *persist.Adapter satisfies it.
type Store interface {
	Loader
	Save(ctx context.Context, b *domain.Board)
}

// Publisher is told about every snapshot a Session commits.
type Publisher interface {
	PublishBoard(ctx context.Context, ev Event)
}

// Session owns the current board for one running process. Operations are
// serialized; each one runs against the latest snapshot, swaps in the result,
// saves it and publishes an Event. No-ops neither save nor publish.
type Session struct {
	mu        sync.Mutex
	engine    *Engine
	store     Store
	publisher Publisher
	current   *domain.Board
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithPublisher registers a Publisher for committed snapshots.
func WithPublisher(p Publisher) SessionOption {
	return func(s *Session) { s.publisher = p }
}

// NewSession creates a Session whose initial board comes from store, or an
// empty board when store has nothing usable. store may be nil.
func NewSession(ctx context.Context, engine *Engine, store Store, opts ...SessionOption) *Session {
	s := &Session{
		engine: engine,
		store:  store,
	}
	for _, opt := range opts {
		opt(s)
	}

	var loader Loader
	if store != nil {
		loader = store
	}
	s.current = engine.Initialize(ctx, loader)

	log.Info().Int("tasks", s.current.Len()).Msg("board session ready")
	return s
}

// Board returns the current snapshot. The returned board is immutable.
func (s *Session) Board() *domain.Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

// CreateTask adds a task to the todo column.
func (s *Session) CreateTask(ctx context.Context, title, description string) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, t, err := s.engine.CreateTask(s.current, title, description)
	if err != nil {
		return domain.Task{}, err
	}
	s.commit(ctx, Event{Type: EventTaskCreated, TaskID: t.ID, Board: next})
	return t, nil
}

// MoveTask moves or reorders a task and returns the resulting board.
func (s *Session) MoveTask(ctx context.Context, taskID string, target domain.ColumnID, beforeTaskID string) (*domain.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.engine.MoveTask(s.current, taskID, target, beforeTaskID)
	if err != nil {
		return s.current, err
	}
	if next != s.current {
		s.commit(ctx, Event{Type: EventTaskMoved, TaskID: taskID, Board: next})
	}
	return next, nil
}

// DeleteTask removes a task and returns the resulting board.
func (s *Session) DeleteTask(ctx context.Context, taskID string) *domain.Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.engine.DeleteTask(s.current, taskID)
	if next != s.current {
		s.commit(ctx, Event{Type: EventTaskDeleted, TaskID: taskID, Board: next})
	}
	return next
}

// commit must be called with s.mu held.
func (s *Session) commit(ctx context.Context, ev Event) {
	s.current = ev.Board

	if s.store != nil {
		s.store.Save(ctx, ev.Board)
	}
	if s.publisher != nil {
		s.publisher.PublishBoard(ctx, ev)
	}

	log.Debug().
		Str("event", string(ev.Type)).
		Str("task_id", ev.TaskID).
		Int("tasks", ev.Board.Len()).
		Msg("board updated")
}
