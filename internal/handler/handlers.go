package handler

import (
	"github.com/deppfellow/gameday/internal/server"
	"github.com/deppfellow/gameday/internal/service"
)

// Handlers groups every HTTP handler so the router receives a single value.
type Handlers struct {
	Index   *IndexHandler
	Teams   *TeamHandler
	Games   *GameHandler
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Index:   NewIndexHandler(s),
		Teams:   NewTeamHandler(s, services.Teams),
		Games:   NewGameHandler(s, services.Games),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
	}
}
