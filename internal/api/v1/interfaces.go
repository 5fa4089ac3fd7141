package v1

import (
	"context"

	"github.com/gosuda/taskboard/internal/domain"
)

// BoardService is the board session as seen by handlers.
// *board.Session satisfies this interface.
type BoardService interface {
	Board() *domain.Board
	CreateTask(ctx context.Context, title, description string) (domain.Task, error)
	MoveTask(ctx context.Context, taskID string, target domain.ColumnID, beforeTaskID string) (*domain.Board, error)
	DeleteTask(ctx context.Context, taskID string) *domain.Board
}
