package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/taskboard/internal/domain"
)

type GetBoardOutput struct {
	Body domain.Snapshot
}

func RegisterBoardRoutes(api huma.API, svc BoardService) {
	huma.Register(api, huma.Operation{
		OperationID: "get-board",
		Method:      http.MethodGet,
		Path:        "/board",
		Summary:     "Get the board with ordered columns",
		Tags:        []string{"Board"},
	}, func(_ context.Context, _ *struct{}) (*GetBoardOutput, error) {
		return &GetBoardOutput{Body: svc.Board().Snapshot()}, nil
	})
}
