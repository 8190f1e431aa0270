package handler

import (
	"github.com/deppfellow/gameday/internal/model"
	"github.com/deppfellow/gameday/internal/server"
	"github.com/deppfellow/gameday/internal/service"
	"github.com/labstack/echo/v4"
)

type TeamHandler struct {
	Handler
	teams *service.TeamService
}

func NewTeamHandler(s *server.Server, teams *service.TeamService) *TeamHandler {
	return &TeamHandler{
		Handler: NewHandler(s),
		teams:   teams,
	}
}

func (h *TeamHandler) ListTeams(c echo.Context, _ *model.ListTeamsRequest) ([]model.Team, error) {
	return h.teams.List(c.Request().Context())
}

func (h *TeamHandler) GetTeam(c echo.Context, req *model.TeamSlugRequest) (*model.Team, error) {
	return h.teams.Get(c.Request().Context(), req.Slug)
}

func (h *TeamHandler) CreateTeam(c echo.Context, req *model.CreateTeamRequest) (*model.Team, error) {
	return h.teams.Create(c.Request().Context(), req)
}

func (h *TeamHandler) UpdateTeam(c echo.Context, req *model.UpdateTeamRequest) (*model.Team, error) {
	return h.teams.Update(c.Request().Context(), req)
}

func (h *TeamHandler) DeleteTeam(c echo.Context, req *model.TeamSlugRequest) error {
	return h.teams.Delete(c.Request().Context(), req.Slug)
}

func (h *TeamHandler) ListTeamGames(c echo.Context, req *model.TeamSlugRequest) ([]model.Game, error) {
	return h.teams.Games(c.Request().Context(), req.Slug)
}
