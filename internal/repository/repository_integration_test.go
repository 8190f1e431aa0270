package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/deppfellow/gameday/internal/lib/slug"
	"github.com/deppfellow/gameday/internal/model"
	"github.com/deppfellow/gameday/internal/repository"
	"github.com/deppfellow/gameday/internal/sqlerr"
	"github.com/deppfellow/gameday/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func insertTeam(t *testing.T, repos *repository.Repositories, name string) *model.Team {
	t.Helper()

	team, err := repos.Teams.InsertTeam(context.Background(), name, slug.Make(name), "")
	require.NoError(t, err)
	return team
}

func TestRepositories(t *testing.T) {
	pool := testutil.NewPostgres(t)
	repos := repository.NewRepositoriesWithDB(pool)

	run := func(name string, fn func(t *testing.T, repos *repository.Repositories, pool *pgxpool.Pool)) {
		t.Run(name, func(t *testing.T) {
			testutil.Truncate(t, pool)
			fn(t, repos, pool)
		})
	}

	run("empty tables return empty slices", func(t *testing.T, repos *repository.Repositories, _ *pgxpool.Pool) {
		ctx := context.Background()

		teams, err := repos.Teams.GetTeams(ctx)
		require.NoError(t, err)
		assert.NotNil(t, teams)
		assert.Empty(t, teams)

		games, err := repos.Games.GetGames(ctx)
		require.NoError(t, err)
		assert.NotNil(t, games)
		assert.Empty(t, games)
	})

	run("team round trip", func(t *testing.T, repos *repository.Repositories, _ *pgxpool.Pool) {
		ctx := context.Background()
		faker := gofakeit.New(7)
		name := faker.Company()
		description := faker.Noun()

		created, err := repos.Teams.InsertTeam(ctx, name, slug.Make(name), description)
		require.NoError(t, err)

		fetched, err := repos.Teams.GetTeamBySlug(ctx, created.Slug)
		require.NoError(t, err)
		assert.Equal(t, name, fetched.Name)
		assert.Equal(t, description, fetched.Description)
		assert.Equal(t, created.ID, fetched.ID)
	})

	run("slug lookup is case sensitive", func(t *testing.T, repos *repository.Repositories, _ *pgxpool.Pool) {
		insertTeam(t, repos, "Sharks")

		_, err := repos.Teams.GetTeamBySlug(context.Background(), "SHARKS")
		assert.True(t, errors.Is(err, repository.ErrNotFound))
	})

	run("duplicate slug violates the unique index", func(t *testing.T, repos *repository.Repositories, _ *pgxpool.Pool) {
		insertTeam(t, repos, "Sharks")

		_, err := repos.Teams.InsertTeam(context.Background(), "SHARKS", "sharks", "")
		require.Error(t, err)
		assert.Equal(t, sqlerr.UniqueViolation, sqlerr.ErrCode(err))
	})

	run("update team by slug", func(t *testing.T, repos *repository.Repositories, _ *pgxpool.Pool) {
		ctx := context.Background()
		insertTeam(t, repos, "Sharks")

		updated, err := repos.Teams.UpdateTeamBySlug(ctx, "sharks", model.TeamUpdate{
			Name: ptr("San Jose Sharks"),
			Slug: ptr("san-jose-sharks"),
		})
		require.NoError(t, err)
		assert.Equal(t, "san-jose-sharks", updated.Slug)
		assert.Equal(t, "", updated.Description)

		updated, err = repos.Teams.UpdateTeamBySlug(ctx, "san-jose-sharks", model.TeamUpdate{Description: ptr("Teal")})
		require.NoError(t, err)
		assert.Equal(t, "San Jose Sharks", updated.Name, "absent fields are untouched")
		assert.Equal(t, "Teal", updated.Description)

		_, err = repos.Teams.UpdateTeamBySlug(ctx, "san-jose-sharks", model.TeamUpdate{})
		assert.True(t, errors.Is(err, repository.ErrNoFields))

		_, err = repos.Teams.UpdateTeamBySlug(ctx, "unknown", model.TeamUpdate{Description: ptr("x")})
		assert.True(t, errors.Is(err, repository.ErrNotFound))
	})

	run("delete team by slug", func(t *testing.T, repos *repository.Repositories, _ *pgxpool.Pool) {
		ctx := context.Background()
		insertTeam(t, repos, "Sharks")

		require.NoError(t, repos.Teams.DeleteTeamBySlug(ctx, "sharks"))
		assert.True(t, errors.Is(repos.Teams.DeleteTeamBySlug(ctx, "sharks"), repository.ErrNotFound))
	})

	run("team names and slug rewrite", func(t *testing.T, repos *repository.Repositories, _ *pgxpool.Pool) {
		ctx := context.Background()
		team := insertTeam(t, repos, "Sharks")

		require.NoError(t, repos.Teams.SetTeamSlug(ctx, team.ID, "the-sharks"))
		assert.True(t, errors.Is(repos.Teams.SetTeamSlug(ctx, team.ID+100, "x"), repository.ErrNotFound))

		names, err := repos.Teams.ListTeamNames(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.TeamName{{ID: team.ID, Name: "Sharks", Slug: "the-sharks"}}, names)
	})

	run("games resolve team names", func(t *testing.T, repos *repository.Repositories, _ *pgxpool.Pool) {
		ctx := context.Background()
		home := insertTeam(t, repos, "Sharks")
		away := insertTeam(t, repos, "Jets")
		date := time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC)

		created, err := repos.Games.InsertGame(ctx, model.NewGame{Date: date, Home: home.ID, Away: away.ID, HomeScore: 3})
		require.NoError(t, err)
		assert.Equal(t, "Sharks", created.Home)
		assert.Equal(t, "Jets", created.Away)
		assert.Equal(t, 0, created.AwayScore)
		assert.True(t, date.Equal(created.Date))

		games, err := repos.Games.GetGames(ctx)
		require.NoError(t, err)
		require.Len(t, games, 1)
		assert.Equal(t, "Sharks", games[0].Home)
		assert.Equal(t, home.ID, games[0].HomeID)

		byTeam, err := repos.Games.GetGamesByTeamID(ctx, away.ID)
		require.NoError(t, err)
		assert.Len(t, byTeam, 1)

		fetched, err := repos.Games.GetGameByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, *created, *fetched)
	})

	run("partial game update", func(t *testing.T, repos *repository.Repositories, _ *pgxpool.Pool) {
		ctx := context.Background()
		home := insertTeam(t, repos, "Sharks")
		away := insertTeam(t, repos, "Jets")
		date := time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC)

		created, err := repos.Games.InsertGame(ctx, model.NewGame{Date: date, Home: home.ID, Away: away.ID, HomeScore: 1, AwayScore: 2})
		require.NoError(t, err)

		updated, err := repos.Games.UpdateGameByGameID(ctx, created.ID, model.GameUpdate{HomeScore: ptr(5)})
		require.NoError(t, err)
		assert.Equal(t, 5, updated.HomeScore)
		assert.Equal(t, 2, updated.AwayScore)
		assert.True(t, date.Equal(updated.Date))
		assert.Equal(t, "Jets", updated.Away)

		_, err = repos.Games.UpdateGameByGameID(ctx, created.ID, model.GameUpdate{})
		assert.True(t, errors.Is(err, repository.ErrNoFields))

		_, err = repos.Games.UpdateGameByGameID(ctx, created.ID+100, model.GameUpdate{HomeScore: ptr(1)})
		assert.True(t, errors.Is(err, repository.ErrNotFound))

		_, err = repos.Games.UpdateGameByGameID(ctx, created.ID, model.GameUpdate{Away: ptr(home.ID)})
		assert.Equal(t, sqlerr.CheckViolation, sqlerr.ErrCode(err))
	})

	run("game references must exist", func(t *testing.T, repos *repository.Repositories, _ *pgxpool.Pool) {
		home := insertTeam(t, repos, "Sharks")

		_, err := repos.Games.InsertGame(context.Background(), model.NewGame{Date: time.Now(), Home: home.ID, Away: home.ID + 100})
		assert.Equal(t, sqlerr.ForeignKeyViolation, sqlerr.ErrCode(err))
	})

	run("deleting a team cascades to its games", func(t *testing.T, repos *repository.Repositories, _ *pgxpool.Pool) {
		ctx := context.Background()
		home := insertTeam(t, repos, "Sharks")
		away := insertTeam(t, repos, "Jets")

		created, err := repos.Games.InsertGame(ctx, model.NewGame{Date: time.Now(), Home: home.ID, Away: away.ID})
		require.NoError(t, err)

		require.NoError(t, repos.Teams.DeleteTeamBySlug(ctx, "jets"))
		_, err = repos.Games.GetGameByID(ctx, created.ID)
		assert.True(t, errors.Is(err, repository.ErrNotFound))

		assert.True(t, errors.Is(repos.Games.DeleteGameByGameID(ctx, created.ID), repository.ErrNotFound))
	})
}
