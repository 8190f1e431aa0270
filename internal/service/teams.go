package service

import (
	"context"
	"errors"

	"github.com/deppfellow/gameday/internal/errs"
	"github.com/deppfellow/gameday/internal/lib/slug"
	"github.com/deppfellow/gameday/internal/model"
	"github.com/deppfellow/gameday/internal/repository"
	"github.com/deppfellow/gameday/internal/server"
	"github.com/rs/zerolog"
)

// TeamRepository is the storage the team service needs.
type TeamRepository interface {
	InsertTeam(ctx context.Context, name, slug, description string) (*model.Team, error)
	GetTeams(ctx context.Context) ([]model.Team, error)
	GetTeamBySlug(ctx context.Context, slug string) (*model.Team, error)
	DeleteTeamBySlug(ctx context.Context, slug string) error
	UpdateTeamBySlug(ctx context.Context, slug string, update model.TeamUpdate) (*model.Team, error)
	ListTeamNames(ctx context.Context) ([]model.TeamName, error)
	SetTeamSlug(ctx context.Context, id int64, slug string) error
}

var teamExistsCode = errs.DomainCode("team", "already exists")

type TeamService struct {
	logger *zerolog.Logger
	teams  TeamRepository
	games  GameRepository
}

func NewTeamService(s *server.Server, teams TeamRepository, games GameRepository) *TeamService {
	return &TeamService{
		logger: s.Logger,
		teams:  teams,
		games:  games,
	}
}

func (s *TeamService) List(ctx context.Context) ([]model.Team, error) {
	teams, err := s.teams.GetTeams(ctx)
	if err != nil {
		return nil, mapRepositoryError(err, "Team")
	}
	return teams, nil
}

func (s *TeamService) Get(ctx context.Context, teamSlug string) (*model.Team, error) {
	team, err := s.teams.GetTeamBySlug(ctx, teamSlug)
	if err != nil {
		return nil, mapRepositoryError(err, "Team")
	}
	return team, nil
}

// Create derives the slug from the name and rejects names whose slug is
// already taken, whatever their casing or punctuation.
func (s *TeamService) Create(ctx context.Context, req *model.CreateTeamRequest) (*model.Team, error) {
	teamSlug, err := s.availableSlug(ctx, req.Name, "")
	if err != nil {
		return nil, err
	}

	team, err := s.teams.InsertTeam(ctx, req.Name, teamSlug, req.Description)
	if err != nil {
		return nil, mapRepositoryError(err, "Team")
	}

	loggerFrom(ctx, s.logger).Info().
		Int64("team_id", team.ID).
		Str("slug", team.Slug).
		Msg("team created")

	return team, nil
}

// Update applies the fields present in req. A new name recomputes the slug.
func (s *TeamService) Update(ctx context.Context, req *model.UpdateTeamRequest) (*model.Team, error) {
	update := model.TeamUpdate{
		Name:        req.Name,
		Description: req.Description,
	}

	if req.Name != nil {
		if _, err := s.Get(ctx, req.Slug); err != nil {
			return nil, err
		}

		teamSlug, err := s.availableSlug(ctx, *req.Name, req.Slug)
		if err != nil {
			return nil, err
		}
		if teamSlug != req.Slug {
			update.Slug = &teamSlug
		}
	}

	if update.Empty() {
		return nil, noFields()
	}

	team, err := s.teams.UpdateTeamBySlug(ctx, req.Slug, update)
	if err != nil {
		return nil, mapRepositoryError(err, "Team")
	}
	return team, nil
}

func (s *TeamService) Delete(ctx context.Context, teamSlug string) error {
	if err := s.teams.DeleteTeamBySlug(ctx, teamSlug); err != nil {
		return mapRepositoryError(err, "Team")
	}

	loggerFrom(ctx, s.logger).Info().Str("slug", teamSlug).Msg("team deleted")
	return nil
}

// Games lists the games a team played at home or away.
func (s *TeamService) Games(ctx context.Context, teamSlug string) ([]model.Game, error) {
	team, err := s.Get(ctx, teamSlug)
	if err != nil {
		return nil, err
	}

	games, err := s.games.GetGamesByTeamID(ctx, team.ID)
	if err != nil {
		return nil, mapRepositoryError(err, "Game")
	}
	return games, nil
}

// NormalizeSlugs recomputes the slug of every team from its name and
// returns how many were rewritten.
//
// A team whose recomputed slug is empty or owned by another team keeps its
// current slug; it is logged and skipped.
func (s *TeamService) NormalizeSlugs(ctx context.Context) (int, error) {
	log := loggerFrom(ctx, s.logger)

	names, err := s.teams.ListTeamNames(ctx)
	if err != nil {
		return 0, err
	}

	owners := make(map[string]int64, len(names))
	for _, n := range names {
		owners[n.Slug] = n.ID
	}

	updated := 0
	for _, n := range names {
		want := slug.Make(n.Name)
		if want == n.Slug {
			continue
		}

		if want == "" {
			log.Warn().Int64("team_id", n.ID).Str("name", n.Name).Msg("team name yields an empty slug, keeping current slug")
			continue
		}
		if owner, taken := owners[want]; taken && owner != n.ID {
			log.Warn().Int64("team_id", n.ID).Int64("owner_id", owner).Str("slug", want).Msg("slug already taken, keeping current slug")
			continue
		}

		if err := s.teams.SetTeamSlug(ctx, n.ID, want); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return updated, err
		}

		delete(owners, n.Slug)
		owners[want] = n.ID
		updated++
	}

	log.Info().Int("updated", updated).Int("teams", len(names)).Msg("team slugs normalized")
	return updated, nil
}

// availableSlug derives the slug of name and makes sure no team other than
// the one currently at ownSlug holds it.
func (s *TeamService) availableSlug(ctx context.Context, name, ownSlug string) (string, error) {
	teamSlug := slug.Make(name)
	if teamSlug == "" {
		return "", fieldError(nil, "Validation failed", "name", "must contain at least one letter or digit")
	}
	if teamSlug == ownSlug {
		return teamSlug, nil
	}

	existing, err := s.teams.GetTeamBySlug(ctx, teamSlug)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return teamSlug, nil
	case err != nil:
		return "", err
	}

	return "", fieldError(&teamExistsCode,
		"Team with this name already exists",
		"name", "a team with slug "+existing.Slug+" already exists",
	)
}
