package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/gameday/internal/model"
	"github.com/jackc/pgx/v5"
)

const teamColumns = "id, name, slug, description"

// TeamRepository runs the SQL for the teams table.
type TeamRepository struct {
	db DBTX
}

func NewTeamRepository(db DBTX) *TeamRepository {
	return &TeamRepository{db: db}
}

// InsertTeam stores a team. The caller supplies the already derived slug.
func (r *TeamRepository) InsertTeam(ctx context.Context, name, slug, description string) (*model.Team, error) {
	rows, err := r.db.Query(ctx,
		`INSERT INTO teams (name, slug, description) VALUES ($1, $2, $3) RETURNING `+teamColumns,
		name, slug, description,
	)
	if err != nil {
		return nil, fmt.Errorf("insert team: %w", err)
	}

	team, err := collectTeam(rows)
	if err != nil {
		return nil, fmt.Errorf("insert team: %w", err)
	}
	return team, nil
}

// GetTeams returns every team ordered by id. Zero rows yield an empty slice.
func (r *TeamRepository) GetTeams(ctx context.Context) ([]model.Team, error) {
	rows, err := r.db.Query(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("get teams: %w", err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("get teams: %w", err)
	}
	return TeamsFromRows(maps), nil
}

// GetTeamBySlug looks a team up by exact, case-sensitive slug.
func (r *TeamRepository) GetTeamBySlug(ctx context.Context, slug string) (*model.Team, error) {
	rows, err := r.db.Query(ctx, `SELECT `+teamColumns+` FROM teams WHERE slug = $1`, slug)
	if err != nil {
		return nil, fmt.Errorf("get team %q: %w", slug, err)
	}

	team, err := collectTeam(rows)
	if err != nil {
		return nil, fmt.Errorf("get team %q: %w", slug, err)
	}
	return team, nil
}

// DeleteTeamBySlug removes a team and, through the foreign keys, its games.
func (r *TeamRepository) DeleteTeamBySlug(ctx context.Context, slug string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM teams WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("delete team %q: %w", slug, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete team %q: %w", slug, ErrNotFound)
	}
	return nil
}

// UpdateTeamBySlug applies a partial update.
//
// The slug is bound as $1 and the present fields follow from $2 in the
// order name, slug, description.
func (r *TeamRepository) UpdateTeamBySlug(ctx context.Context, slug string, update model.TeamUpdate) (*model.Team, error) {
	b := NewUpdateBuilder("teams", "slug", slug, KeyFirst, "name", "slug", "description").
		Returning(teamColumns)

	setIfPresent(b, "name", update.Name)
	setIfPresent(b, "slug", update.Slug)
	setIfPresent(b, "description", update.Description)

	if b.Len() > 0 {
		b.Touch("updated_at")
	}

	sql, args, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("update team %q: %w", slug, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("update team %q: %w", slug, err)
	}

	team, err := collectTeam(rows)
	if err != nil {
		return nil, fmt.Errorf("update team %q: %w", slug, err)
	}
	return team, nil
}

// ListTeamNames returns id, name and current slug of every team.
func (r *TeamRepository) ListTeamNames(ctx context.Context) ([]model.TeamName, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug FROM teams ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list team names: %w", err)
	}

	names, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.TeamName, error) {
		var n model.TeamName
		err := row.Scan(&n.ID, &n.Name, &n.Slug)
		return n, err
	})
	if err != nil {
		return nil, fmt.Errorf("list team names: %w", err)
	}
	return names, nil
}

// SetTeamSlug overwrites the slug of a single team.
func (r *TeamRepository) SetTeamSlug(ctx context.Context, id int64, slug string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE teams SET slug = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
		id, slug,
	)
	if err != nil {
		return fmt.Errorf("set slug of team %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set slug of team %d: %w", id, ErrNotFound)
	}
	return nil
}

// collectTeam reads exactly one team row.
func collectTeam(rows pgx.Rows) (*model.Team, error) {
	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, notFoundIfNoRows(err)
	}

	team, ok := TeamFromRow(row)
	if !ok {
		return nil, ErrMalformedRow
	}
	return team, nil
}
