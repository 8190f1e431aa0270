package handler

import (
	"github.com/deppfellow/gameday/internal/model"
	"github.com/deppfellow/gameday/internal/server"
	"github.com/deppfellow/gameday/internal/service"
	"github.com/labstack/echo/v4"
)

type GameHandler struct {
	Handler
	games *service.GameService
}

func NewGameHandler(s *server.Server, games *service.GameService) *GameHandler {
	return &GameHandler{
		Handler: NewHandler(s),
		games:   games,
	}
}

func (h *GameHandler) ListGames(c echo.Context, _ *model.ListGamesRequest) ([]model.Game, error) {
	return h.games.List(c.Request().Context())
}

func (h *GameHandler) GetGame(c echo.Context, req *model.GameIDRequest) (*model.Game, error) {
	return h.games.Get(c.Request().Context(), req.ID())
}

func (h *GameHandler) CreateGame(c echo.Context, req *model.CreateGameRequest) (*model.Game, error) {
	return h.games.Create(c.Request().Context(), req)
}

func (h *GameHandler) UpdateGame(c echo.Context, req *model.UpdateGameRequest) (*model.Game, error) {
	return h.games.Update(c.Request().Context(), req)
}

func (h *GameHandler) DeleteGame(c echo.Context, req *model.GameIDRequest) error {
	return h.games.Delete(c.Request().Context(), req.ID())
}
