package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/gosuda/taskboard/internal/api/v1"
	"github.com/gosuda/taskboard/internal/api/ws"
)

func registerAPIRoutes(api huma.API, svc v1.BoardService) {
	v1.RegisterBoardRoutes(api, svc)
	v1.RegisterTaskRoutes(api, svc)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub, current ws.BoardReader) {
	r.Get("/board", hub.ServeBoard(current))
}
