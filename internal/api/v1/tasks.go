package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/taskboard/internal/domain"
)

type CreateTaskInput struct {
	Body struct {
		Title       string `json:"title" doc:"Task title"`
		Description string `json:"description,omitempty" doc:"Task description"`
	}
}

type CreateTaskOutput struct {
	Body domain.Task
}

type GetTaskInput struct {
	ID string `path:"id" doc:"Task ID"`
}

type GetTaskOutput struct {
	Body domain.Task
}

type MoveTaskInput struct {
	ID   string `path:"id" doc:"Task ID"`
	Body struct {
		Column       string `json:"column" enum:"todo,inProgress,done" doc:"Target column"`
		BeforeTaskID string `json:"before_task_id,omitempty" doc:"Place the task immediately before this task; front of the column when absent"`
	}
}

type MoveTaskOutput struct {
	Body domain.Snapshot
}

type DeleteTaskInput struct {
	ID string `path:"id" doc:"Task ID"`
}

func RegisterTaskRoutes(api huma.API, svc BoardService) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-task",
		Method:        http.MethodPost,
		Path:          "/tasks",
		Summary:       "Create a task in the To Do column",
		Tags:          []string{"Tasks"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateTaskInput) (*CreateTaskOutput, error) {
		t, err := svc.CreateTask(ctx, input.Body.Title, input.Body.Description)
		if err != nil {
			return nil, toHTTPError(err, "failed to create task")
		}

		return &CreateTaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}",
		Summary:     "Get a task by ID",
		Tags:        []string{"Tasks"},
	}, func(_ context.Context, input *GetTaskInput) (*GetTaskOutput, error) {
		t, ok := svc.Board().Task(input.ID)
		if !ok {
			return nil, huma.Error404NotFound("task not found")
		}

		return &GetTaskOutput{Body: t}, nil
	})

	// Unknown task ids are not an error here: a task deleted while it was being
	// dragged simply leaves the board as it is.
	huma.Register(api, huma.Operation{
		OperationID: "move-task",
		Method:      http.MethodPost,
		Path:        "/tasks/{id}/move",
		Summary:     "Move or reorder a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *MoveTaskInput) (*MoveTaskOutput, error) {
		b, err := svc.MoveTask(ctx, input.ID, domain.ColumnID(input.Body.Column), input.Body.BeforeTaskID)
		if err != nil {
			return nil, toHTTPError(err, "failed to move task")
		}

		return &MoveTaskOutput{Body: b.Snapshot()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-task",
		Method:      http.MethodDelete,
		Path:        "/tasks/{id}",
		Summary:     "Delete a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *DeleteTaskInput) (*struct{}, error) {
		svc.DeleteTask(ctx, input.ID)
		return nil, nil
	})
}

// toHTTPError maps domain validation errors to 422 with the offending field;
// anything else is a 500.
func toHTTPError(err error, msg string) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return huma.Error422UnprocessableEntity(ve.Message, &huma.ErrorDetail{
			Message:  ve.Message,
			Location: "body." + ve.Field,
		})
	}
	return huma.Error500InternalServerError(msg, err)
}
