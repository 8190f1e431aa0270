package testutil

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/deppfellow/gameday/internal/model"
	"github.com/deppfellow/gameday/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
)

// Store is an in-memory stand-in for the teams and games tables.
//
// It mirrors the constraints the schema enforces: unique slugs, foreign keys
// from games to teams with cascading deletes, and distinct home and away teams.
// Violations are reported as the same *pgconn.PgError Postgres would return.
type Store struct {
	mu         sync.Mutex
	nextTeamID int64
	nextGameID int64
	teams      []model.Team
	games      []model.NewGame
	gameID     []int64
}

func NewStore() *Store {
	return &Store{}
}

// Teams returns the store as a team repository.
func (s *Store) Teams() *TeamRepository { return &TeamRepository{s} }

// Games returns the store as a game repository.
func (s *Store) Games() *GameRepository { return &GameRepository{s} }

// Each table draws ids from its own sequence, as BIGSERIAL columns do.
func (s *Store) teamSeq() int64 {
	s.nextTeamID++
	return s.nextTeamID
}

func (s *Store) gameSeq() int64 {
	s.nextGameID++
	return s.nextGameID
}

func (s *Store) teamIndex(match func(model.Team) bool) int {
	return slices.IndexFunc(s.teams, match)
}

func (s *Store) teamByID(id int64) (model.Team, bool) {
	i := s.teamIndex(func(t model.Team) bool { return t.ID == id })
	if i < 0 {
		return model.Team{}, false
	}
	return s.teams[i], true
}

func (s *Store) slugTaken(slug string, except int64) bool {
	return s.teamIndex(func(t model.Team) bool { return t.Slug == slug && t.ID != except }) >= 0
}

func uniqueSlugViolation() error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		Message:        `duplicate key value violates unique constraint "teams_slug_key"`,
		TableName:      "teams",
		ConstraintName: "teams_slug_key",
	}
}

func foreignKeyViolation(column string) error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23503",
		Message:        `insert or update on table "games" violates foreign key constraint "games_` + column + `_fkey"`,
		TableName:      "games",
		ConstraintName: "games_" + column + "_fkey",
	}
}

func checkViolation() error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23514",
		Message:        `new row for relation "games" violates check constraint "games_distinct_teams_check"`,
		TableName:      "games",
		ConstraintName: "games_distinct_teams_check",
	}
}

type TeamRepository struct {
	s *Store
}

func (r *TeamRepository) InsertTeam(_ context.Context, name, slug, description string) (*model.Team, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.slugTaken(slug, 0) {
		return nil, uniqueSlugViolation()
	}

	team := model.Team{ID: r.s.teamSeq(), Name: name, Slug: slug, Description: description}
	r.s.teams = append(r.s.teams, team)
	return &team, nil
}

func (r *TeamRepository) GetTeams(context.Context) ([]model.Team, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return append([]model.Team{}, r.s.teams...), nil
}

func (r *TeamRepository) GetTeamBySlug(_ context.Context, slug string) (*model.Team, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.teamIndex(func(t model.Team) bool { return t.Slug == slug })
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	team := r.s.teams[i]
	return &team, nil
}

func (r *TeamRepository) DeleteTeamBySlug(_ context.Context, slug string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.teamIndex(func(t model.Team) bool { return t.Slug == slug })
	if i < 0 {
		return repository.ErrNotFound
	}
	teamID := r.s.teams[i].ID
	r.s.teams = slices.Delete(r.s.teams, i, i+1)

	for j := len(r.s.games) - 1; j >= 0; j-- {
		if g := r.s.games[j]; g.Home == teamID || g.Away == teamID {
			r.s.games = slices.Delete(r.s.games, j, j+1)
			r.s.gameID = slices.Delete(r.s.gameID, j, j+1)
		}
	}
	return nil
}

func (r *TeamRepository) UpdateTeamBySlug(_ context.Context, slug string, update model.TeamUpdate) (*model.Team, error) {
	if update.Empty() {
		return nil, repository.ErrNoFields
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.teamIndex(func(t model.Team) bool { return t.Slug == slug })
	if i < 0 {
		return nil, repository.ErrNotFound
	}

	team := r.s.teams[i]
	if update.Slug != nil && r.s.slugTaken(*update.Slug, team.ID) {
		return nil, uniqueSlugViolation()
	}
	if update.Name != nil {
		team.Name = *update.Name
	}
	if update.Slug != nil {
		team.Slug = *update.Slug
	}
	if update.Description != nil {
		team.Description = *update.Description
	}
	r.s.teams[i] = team
	return &team, nil
}

func (r *TeamRepository) ListTeamNames(context.Context) ([]model.TeamName, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	names := make([]model.TeamName, 0, len(r.s.teams))
	for _, t := range r.s.teams {
		names = append(names, model.TeamName{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	return names, nil
}

func (r *TeamRepository) SetTeamSlug(_ context.Context, id int64, slug string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.teamIndex(func(t model.Team) bool { return t.ID == id })
	if i < 0 {
		return repository.ErrNotFound
	}
	if r.s.slugTaken(slug, id) {
		return uniqueSlugViolation()
	}
	r.s.teams[i].Slug = slug
	return nil
}

type GameRepository struct {
	s *Store
}

// resolve joins a stored game with its team names, as the SQL read shape does.
func (s *Store) resolve(i int) model.Game {
	g := s.games[i]
	home, _ := s.teamByID(g.Home)
	away, _ := s.teamByID(g.Away)
	return model.Game{
		ID:        s.gameID[i],
		Date:      g.Date,
		HomeID:    g.Home,
		Home:      home.Name,
		AwayID:    g.Away,
		Away:      away.Name,
		HomeScore: g.HomeScore,
		AwayScore: g.AwayScore,
	}
}

func (s *Store) checkFixture(g model.NewGame) error {
	if _, ok := s.teamByID(g.Home); !ok {
		return foreignKeyViolation("home_team_id")
	}
	if _, ok := s.teamByID(g.Away); !ok {
		return foreignKeyViolation("away_team_id")
	}
	if g.Home == g.Away {
		return checkViolation()
	}
	return nil
}

func (s *Store) gameIndex(id int64) int {
	return slices.Index(s.gameID, id)
}

func (r *GameRepository) InsertGame(_ context.Context, game model.NewGame) (*model.Game, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.checkFixture(game); err != nil {
		return nil, err
	}

	r.s.games = append(r.s.games, game)
	r.s.gameID = append(r.s.gameID, r.s.gameSeq())
	created := r.s.resolve(len(r.s.games) - 1)
	return &created, nil
}

func (r *GameRepository) GetGames(context.Context) ([]model.Game, error) {
	return r.filter(func(model.Game) bool { return true }), nil
}

func (r *GameRepository) GetGameByID(_ context.Context, id int64) (*model.Game, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.gameIndex(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	game := r.s.resolve(i)
	return &game, nil
}

func (r *GameRepository) GetGamesByTeamID(_ context.Context, teamID int64) ([]model.Game, error) {
	return r.filter(func(g model.Game) bool { return g.HomeID == teamID || g.AwayID == teamID }), nil
}

func (r *GameRepository) UpdateGameByGameID(_ context.Context, id int64, update model.GameUpdate) (*model.Game, error) {
	if update.Empty() {
		return nil, repository.ErrNoFields
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.gameIndex(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}

	g := r.s.games[i]
	if update.Date != nil {
		g.Date = *update.Date
	}
	if update.Home != nil {
		g.Home = *update.Home
	}
	if update.Away != nil {
		g.Away = *update.Away
	}
	if update.HomeScore != nil {
		g.HomeScore = *update.HomeScore
	}
	if update.AwayScore != nil {
		g.AwayScore = *update.AwayScore
	}
	if err := r.s.checkFixture(g); err != nil {
		return nil, err
	}

	r.s.games[i] = g
	updated := r.s.resolve(i)
	return &updated, nil
}

func (r *GameRepository) DeleteGameByGameID(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.gameIndex(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.s.games = slices.Delete(r.s.games, i, i+1)
	r.s.gameID = slices.Delete(r.s.gameID, i, i+1)
	return nil
}

// filter returns matching games ordered by date then id.
func (r *GameRepository) filter(keep func(model.Game) bool) []model.Game {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]model.Game, 0, len(r.s.games))
	for i := range r.s.games {
		if g := r.s.resolve(i); keep(g) {
			out = append(out, g)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Game) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
