package service

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/deppfellow/gameday/internal/errs"
	"github.com/deppfellow/gameday/internal/model"
	"github.com/deppfellow/gameday/internal/server"
	"github.com/deppfellow/gameday/internal/sqlerr"
	"github.com/deppfellow/gameday/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newServices(t *testing.T) (*TeamService, *GameService, *testutil.Store) {
	t.Helper()

	logger := zerolog.Nop()
	s := &server.Server{Logger: &logger}
	store := testutil.NewStore()

	return NewTeamService(s, store.Teams(), store.Games()), NewGameService(s, store.Games()), store
}

// requireHTTPError asserts err is an *errs.HTTPError with status and code.
func requireHTTPError(t *testing.T, err error, status int, code string) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %v", err)
	assert.Equal(t, status, httpErr.Status)
	assert.Equal(t, code, httpErr.Code)
	return httpErr
}

func createTeam(t *testing.T, teams *TeamService, name string) *model.Team {
	t.Helper()

	team, err := teams.Create(context.Background(), &model.CreateTeamRequest{Name: name})
	require.NoError(t, err)
	return team
}

func TestTeamServiceCreate(t *testing.T) {
	ctx := context.Background()
	teams, _, _ := newServices(t)

	team, err := teams.Create(ctx, &model.CreateTeamRequest{Name: "San José Sharks", Description: "NHL"})
	require.NoError(t, err)
	assert.Equal(t, "san-jose-sharks", team.Slug)
	assert.Equal(t, "San José Sharks", team.Name)
	assert.Equal(t, "NHL", team.Description)

	_, err = teams.Create(ctx, &model.CreateTeamRequest{Name: "SAN JOSE sharks!"})
	httpErr := requireHTTPError(t, err, http.StatusBadRequest, "TEAM_ALREADY_EXISTS")
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "name", httpErr.Errors[0].Field)

	_, err = teams.Create(ctx, &model.CreateTeamRequest{Name: "!!!"})
	httpErr = requireHTTPError(t, err, http.StatusBadRequest, "BAD_REQUEST")
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "name", httpErr.Errors[0].Field)
}

func TestTeamServiceGetAndList(t *testing.T) {
	ctx := context.Background()
	teams, _, _ := newServices(t)

	list, err := teams.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	createTeam(t, teams, "Sharks")
	createTeam(t, teams, "Jets")

	list, err = teams.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	team, err := teams.Get(ctx, "jets")
	require.NoError(t, err)
	assert.Equal(t, "Jets", team.Name)

	_, err = teams.Get(ctx, "Jets")
	requireHTTPError(t, err, http.StatusNotFound, "TEAM_NOT_FOUND")
}

func TestTeamServiceUpdate(t *testing.T) {
	ctx := context.Background()
	teams, _, _ := newServices(t)
	createTeam(t, teams, "Sharks")
	createTeam(t, teams, "Jets")

	t.Run("description only keeps slug", func(t *testing.T) {
		team, err := teams.Update(ctx, &model.UpdateTeamRequest{Slug: "sharks", Description: ptr("Teal")})
		require.NoError(t, err)
		assert.Equal(t, "sharks", team.Slug)
		assert.Equal(t, "Teal", team.Description)
		assert.Equal(t, "Sharks", team.Name)
	})

	t.Run("same slug rename", func(t *testing.T) {
		team, err := teams.Update(ctx, &model.UpdateTeamRequest{Slug: "sharks", Name: ptr("SHARKS")})
		require.NoError(t, err)
		assert.Equal(t, "sharks", team.Slug)
		assert.Equal(t, "SHARKS", team.Name)
	})

	t.Run("rename recomputes slug", func(t *testing.T) {
		team, err := teams.Update(ctx, &model.UpdateTeamRequest{Slug: "sharks", Name: ptr("Great White Sharks")})
		require.NoError(t, err)
		assert.Equal(t, "great-white-sharks", team.Slug)
		assert.Equal(t, "Teal", team.Description)

		_, err = teams.Get(ctx, "sharks")
		requireHTTPError(t, err, http.StatusNotFound, "TEAM_NOT_FOUND")
	})

	t.Run("rename onto another team", func(t *testing.T) {
		_, err := teams.Update(ctx, &model.UpdateTeamRequest{Slug: "great-white-sharks", Name: ptr("jets")})
		requireHTTPError(t, err, http.StatusBadRequest, "TEAM_ALREADY_EXISTS")
	})

	t.Run("missing team", func(t *testing.T) {
		_, err := teams.Update(ctx, &model.UpdateTeamRequest{Slug: "nope", Description: ptr("x")})
		requireHTTPError(t, err, http.StatusNotFound, "TEAM_NOT_FOUND")

		_, err = teams.Update(ctx, &model.UpdateTeamRequest{Slug: "nope", Name: ptr("Jets")})
		requireHTTPError(t, err, http.StatusNotFound, "TEAM_NOT_FOUND")
	})

	t.Run("no fields", func(t *testing.T) {
		_, err := teams.Update(ctx, &model.UpdateTeamRequest{Slug: "jets"})
		requireHTTPError(t, err, http.StatusBadRequest, "NO_FIELDS_PROVIDED")
	})
}

func TestTeamServiceDeleteCascades(t *testing.T) {
	ctx := context.Background()
	teams, games, _ := newServices(t)
	sharks := createTeam(t, teams, "Sharks")
	jets := createTeam(t, teams, "Jets")

	_, err := games.Create(ctx, &model.CreateGameRequest{Date: "2026-03-01", Home: sharks.ID, Away: jets.ID})
	require.NoError(t, err)

	require.NoError(t, teams.Delete(ctx, "sharks"))

	err = teams.Delete(ctx, "sharks")
	requireHTTPError(t, err, http.StatusNotFound, "TEAM_NOT_FOUND")

	list, err := games.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTeamServiceGames(t *testing.T) {
	ctx := context.Background()
	teams, games, _ := newServices(t)
	sharks := createTeam(t, teams, "Sharks")
	jets := createTeam(t, teams, "Jets")
	kings := createTeam(t, teams, "Kings")

	for _, req := range []*model.CreateGameRequest{
		{Date: "2026-03-03", Home: jets.ID, Away: kings.ID},
		{Date: "2026-03-02", Home: jets.ID, Away: sharks.ID},
		{Date: "2026-03-01", Home: sharks.ID, Away: kings.ID},
	} {
		_, err := games.Create(ctx, req)
		require.NoError(t, err)
	}

	list, err := teams.Games(ctx, "sharks")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Sharks", list[0].Home)
	assert.Equal(t, "Sharks", list[1].Away)
	assert.True(t, list[0].Date.Before(list[1].Date))

	_, err = teams.Games(ctx, "unknown")
	requireHTTPError(t, err, http.StatusNotFound, "TEAM_NOT_FOUND")
}

func TestTeamServiceNormalizeSlugs(t *testing.T) {
	ctx := context.Background()
	teams, _, store := newServices(t)
	repo := store.Teams()

	_, err := repo.InsertTeam(ctx, "Los Ángeles Kings", "Los-Angeles-Kings", "")
	require.NoError(t, err)
	_, err = repo.InsertTeam(ctx, "Jets", "jets", "")
	require.NoError(t, err)
	_, err = repo.InsertTeam(ctx, "JETS!", "jets-2", "")
	require.NoError(t, err)
	_, err = repo.InsertTeam(ctx, "???", "mystery", "")
	require.NoError(t, err)

	updated, err := teams.NormalizeSlugs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	kings, err := teams.Get(ctx, "los-angeles-kings")
	require.NoError(t, err)
	assert.Equal(t, "Los Ángeles Kings", kings.Name)

	_, err = teams.Get(ctx, "jets-2")
	require.NoError(t, err, "colliding slug is kept")
	_, err = teams.Get(ctx, "mystery")
	require.NoError(t, err, "empty slug is never written")

	updated, err = teams.NormalizeSlugs(ctx)
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestGameServiceCreate(t *testing.T) {
	ctx := context.Background()
	teams, games, _ := newServices(t)
	sharks := createTeam(t, teams, "Sharks")
	jets := createTeam(t, teams, "Jets")

	game, err := games.Create(ctx, &model.CreateGameRequest{
		Date:      "2026-03-01T19:30:00Z",
		Home:      sharks.ID,
		Away:      jets.ID,
		HomeScore: ptr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sharks", game.Home)
	assert.Equal(t, "Jets", game.Away)
	assert.Equal(t, 3, game.HomeScore)
	assert.Zero(t, game.AwayScore)
	assert.True(t, game.Date.Equal(time.Date(2026, 3, 1, 19, 30, 0, 0, time.UTC)))

	_, err = games.Create(ctx, &model.CreateGameRequest{Date: "2026-03-01", Home: sharks.ID, Away: sharks.ID})
	httpErr := requireHTTPError(t, err, http.StatusBadRequest, "BAD_REQUEST")
	assert.Equal(t, "away", httpErr.Errors[0].Field)

	_, err = games.Create(ctx, &model.CreateGameRequest{Date: "2026-03-01", Home: 999, Away: jets.ID})
	require.Error(t, err)
	assert.Equal(t, sqlerr.ForeignKeyViolation, sqlerr.ErrCode(err))
	requireHTTPError(t, sqlerr.HandleError(err), http.StatusBadRequest, "HOME_TEAM_NOT_FOUND")
}

func TestGameServiceUpdate(t *testing.T) {
	ctx := context.Background()
	teams, games, _ := newServices(t)
	sharks := createTeam(t, teams, "Sharks")
	jets := createTeam(t, teams, "Jets")
	kings := createTeam(t, teams, "Kings")

	game, err := games.Create(ctx, &model.CreateGameRequest{Date: "2026-03-01", Home: sharks.ID, Away: jets.ID})
	require.NoError(t, err)

	update := func(id string, req model.UpdateGameRequest) (*model.Game, error) {
		req.RawID = id
		require.NoError(t, req.Validate())
		return games.Update(ctx, &req)
	}
	gameID := func(id int64) string { return strconv.FormatInt(id, 10) }

	t.Run("scores only", func(t *testing.T) {
		updated, err := update(gameID(game.ID), model.UpdateGameRequest{HomeScore: ptr(4), AwayScore: ptr(2)})
		require.NoError(t, err)
		assert.Equal(t, 4, updated.HomeScore)
		assert.Equal(t, 2, updated.AwayScore)
		assert.Equal(t, game.Date, updated.Date)
		assert.Equal(t, sharks.ID, updated.HomeID)
	})

	t.Run("away equal to stored home", func(t *testing.T) {
		_, err := update(gameID(game.ID), model.UpdateGameRequest{Away: ptr(sharks.ID)})
		httpErr := requireHTTPError(t, err, http.StatusBadRequest, "BAD_REQUEST")
		assert.Equal(t, "away", httpErr.Errors[0].Field)
	})

	t.Run("swap one side", func(t *testing.T) {
		updated, err := update(gameID(game.ID), model.UpdateGameRequest{Away: ptr(kings.ID)})
		require.NoError(t, err)
		assert.Equal(t, "Kings", updated.Away)
		assert.Equal(t, 4, updated.HomeScore)
	})

	t.Run("missing game", func(t *testing.T) {
		_, err := update("999", model.UpdateGameRequest{HomeScore: ptr(1)})
		requireHTTPError(t, err, http.StatusNotFound, "GAME_NOT_FOUND")

		_, err = update("999", model.UpdateGameRequest{Home: ptr(jets.ID)})
		requireHTTPError(t, err, http.StatusNotFound, "GAME_NOT_FOUND")
	})

	t.Run("no fields", func(t *testing.T) {
		_, err := games.Update(ctx, &model.UpdateGameRequest{RawID: gameID(game.ID)})
		requireHTTPError(t, err, http.StatusBadRequest, "NO_FIELDS_PROVIDED")
	})
}

func TestGameServiceGetAndDelete(t *testing.T) {
	ctx := context.Background()
	teams, games, _ := newServices(t)
	sharks := createTeam(t, teams, "Sharks")
	jets := createTeam(t, teams, "Jets")

	game, err := games.Create(ctx, &model.CreateGameRequest{Date: "2026-03-01", Home: sharks.ID, Away: jets.ID})
	require.NoError(t, err)

	got, err := games.Get(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, game, got)

	require.NoError(t, games.Delete(ctx, game.ID))

	_, err = games.Get(ctx, game.ID)
	requireHTTPError(t, err, http.StatusNotFound, "GAME_NOT_FOUND")

	err = games.Delete(ctx, game.ID)
	requireHTTPError(t, err, http.StatusNotFound, "GAME_NOT_FOUND")
}

func TestMapRepositoryErrorPassesDriverErrors(t *testing.T) {
	driverErr := errors.New("connection reset")
	assert.Same(t, driverErr, mapRepositoryError(driverErr, "Team"))
	assert.NoError(t, mapRepositoryError(nil, "Team"))
}
