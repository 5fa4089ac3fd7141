package v1_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"

	v1 "github.com/gosuda/taskboard/internal/api/v1"
	"github.com/gosuda/taskboard/internal/board"
	"github.com/gosuda/taskboard/internal/domain"
	"github.com/gosuda/taskboard/internal/idgen"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newSession returns a session with ids t1, t2, ... and a ticking clock.
func newSession(t *testing.T) *board.Session {
	t.Helper()

	n := 0
	base := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	engine := board.NewEngine(
		board.WithIDGenerator(idgen.Func(func() string {
			n++
			return "t" + strconv.Itoa(n)
		})),
		board.WithClock(func() time.Time { return base.Add(time.Duration(n) * time.Minute) }),
	)
	return board.NewSession(context.Background(), engine, nil)
}

// newAPI registers every board route against svc.
func newAPI(t *testing.T, svc v1.BoardService) humatest.TestAPI {
	t.Helper()

	_, api := humatest.New(t, huma.DefaultConfig("Taskboard API", "1.0.0"))
	v1.RegisterBoardRoutes(api, svc)
	v1.RegisterTaskRoutes(api, svc)
	return api
}

// ---------------------------------------------------------------------------
// Mock BoardService
// ---------------------------------------------------------------------------

type mockBoardService struct {
	boardFunc      func() *domain.Board
	createTaskFunc func(ctx context.Context, title, description string) (domain.Task, error)
	moveTaskFunc   func(ctx context.Context, taskID string, target domain.ColumnID, beforeTaskID string) (*domain.Board, error)
	deleteTaskFunc func(ctx context.Context, taskID string) *domain.Board
}

func (m *mockBoardService) Board() *domain.Board {
	return m.boardFunc()
}

func (m *mockBoardService) CreateTask(ctx context.Context, title, description string) (domain.Task, error) {
	return m.createTaskFunc(ctx, title, description)
}

func (m *mockBoardService) MoveTask(ctx context.Context, taskID string, target domain.ColumnID, beforeTaskID string) (*domain.Board, error) {
	return m.moveTaskFunc(ctx, taskID, target, beforeTaskID)
}

func (m *mockBoardService) DeleteTask(ctx context.Context, taskID string) *domain.Board {
	return m.deleteTaskFunc(ctx, taskID)
}
