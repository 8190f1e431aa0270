package router

import (
	"net/http"

	"github.com/deppfellow/gameday/internal/handler"
	"github.com/deppfellow/gameday/internal/model"
	"github.com/labstack/echo/v4"
)

func registerTeamRoutes(r *echo.Echo, h *handler.Handlers) {
	teams := r.Group("/teams")
	th := h.Teams

	teams.GET("", handler.Handle(th.Handler, th.ListTeams, http.StatusOK, &model.ListTeamsRequest{}))
	teams.POST("", handler.Handle(th.Handler, th.CreateTeam, http.StatusCreated, &model.CreateTeamRequest{}))
	teams.GET("/:slug", handler.Handle(th.Handler, th.GetTeam, http.StatusOK, &model.TeamSlugRequest{}))
	teams.PATCH("/:slug", handler.Handle(th.Handler, th.UpdateTeam, http.StatusOK, &model.UpdateTeamRequest{}))
	teams.DELETE("/:slug", handler.HandleNoContent(th.Handler, th.DeleteTeam, http.StatusNoContent, &model.TeamSlugRequest{}))
	teams.GET("/:slug/games", handler.Handle(th.Handler, th.ListTeamGames, http.StatusOK, &model.TeamSlugRequest{}))
}

func registerGameRoutes(r *echo.Echo, h *handler.Handlers) {
	games := r.Group("/games")
	gh := h.Games

	games.GET("", handler.Handle(gh.Handler, gh.ListGames, http.StatusOK, &model.ListGamesRequest{}))
	games.POST("", handler.Handle(gh.Handler, gh.CreateGame, http.StatusCreated, &model.CreateGameRequest{}))
	games.GET("/:gameId", handler.Handle(gh.Handler, gh.GetGame, http.StatusOK, &model.GameIDRequest{}))
	games.PATCH("/:gameId", handler.Handle(gh.Handler, gh.UpdateGame, http.StatusOK, &model.UpdateGameRequest{}))
	games.DELETE("/:gameId", handler.HandleNoContent(gh.Handler, gh.DeleteGame, http.StatusNoContent, &model.GameIDRequest{}))
}
