package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/gameday/internal/model"
	"github.com/jackc/pgx/v5"
)

// gameSelect reads games from source (the games table or a CTE named g)
// with both team references resolved to names.
func gameSelect(source string) string {
	return `SELECT g.id, g.date,
       g.home_team_id AS home, h.name AS home_name,
       g.away_team_id AS away, a.name AS away_name,
       g.home_score, g.away_score
FROM ` + source + ` g
JOIN teams h ON h.id = g.home_team_id
JOIN teams a ON a.id = g.away_team_id`
}

// gameColumns maps the writable game fields to their columns.
var gameColumns = struct {
	Date, Home, Away, HomeScore, AwayScore string
}{
	Date:      "date",
	Home:      "home_team_id",
	Away:      "away_team_id",
	HomeScore: "home_score",
	AwayScore: "away_score",
}

// GameRepository runs the SQL for the games table.
type GameRepository struct {
	db DBTX
}

func NewGameRepository(db DBTX) *GameRepository {
	return &GameRepository{db: db}
}

// InsertGame stores a game and returns it with team names resolved,
// in a single statement.
func (r *GameRepository) InsertGame(ctx context.Context, game model.NewGame) (*model.Game, error) {
	sql := `WITH g AS (
	INSERT INTO games (date, home_team_id, away_team_id, home_score, away_score)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING *
)
` + gameSelect("g")

	rows, err := r.db.Query(ctx, sql, game.Date, game.Home, game.Away, game.HomeScore, game.AwayScore)
	if err != nil {
		return nil, fmt.Errorf("insert game: %w", err)
	}

	created, err := collectGame(rows)
	if err != nil {
		return nil, fmt.Errorf("insert game: %w", err)
	}
	return created, nil
}

// GetGames returns every game ordered by date. Zero rows yield an empty slice.
func (r *GameRepository) GetGames(ctx context.Context) ([]model.Game, error) {
	rows, err := r.db.Query(ctx, gameSelect("games")+` ORDER BY g.date, g.id`)
	if err != nil {
		return nil, fmt.Errorf("get games: %w", err)
	}

	games, err := collectGames(rows)
	if err != nil {
		return nil, fmt.Errorf("get games: %w", err)
	}
	return games, nil
}

// GetGameByID returns a single game.
func (r *GameRepository) GetGameByID(ctx context.Context, id int64) (*model.Game, error) {
	rows, err := r.db.Query(ctx, gameSelect("games")+` WHERE g.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get game %d: %w", id, err)
	}

	game, err := collectGame(rows)
	if err != nil {
		return nil, fmt.Errorf("get game %d: %w", id, err)
	}
	return game, nil
}

// GetGamesByTeamID returns the games a team played on either side.
func (r *GameRepository) GetGamesByTeamID(ctx context.Context, teamID int64) ([]model.Game, error) {
	rows, err := r.db.Query(ctx,
		gameSelect("games")+` WHERE g.home_team_id = $1 OR g.away_team_id = $1 ORDER BY g.date, g.id`,
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("get games of team %d: %w", teamID, err)
	}

	games, err := collectGames(rows)
	if err != nil {
		return nil, fmt.Errorf("get games of team %d: %w", teamID, err)
	}
	return games, nil
}

// UpdateGameByGameID applies a partial update restricted to date, teams and
// scores. The id is always the last bound parameter.
func (r *GameRepository) UpdateGameByGameID(ctx context.Context, id int64, update model.GameUpdate) (*model.Game, error) {
	b := NewUpdateBuilder("games", "id", id, KeyLast,
		gameColumns.Date, gameColumns.Home, gameColumns.Away, gameColumns.HomeScore, gameColumns.AwayScore,
	)

	setIfPresent(b, gameColumns.Date, update.Date)
	setIfPresent(b, gameColumns.Home, update.Home)
	setIfPresent(b, gameColumns.Away, update.Away)
	setIfPresent(b, gameColumns.HomeScore, update.HomeScore)
	setIfPresent(b, gameColumns.AwayScore, update.AwayScore)

	if b.Len() > 0 {
		b.Touch("updated_at")
	}

	stmt, args, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("update game %d: %w", id, err)
	}

	rows, err := r.db.Query(ctx, "WITH g AS (\n"+stmt+"\n)\n"+gameSelect("g"), args...)
	if err != nil {
		return nil, fmt.Errorf("update game %d: %w", id, err)
	}

	game, err := collectGame(rows)
	if err != nil {
		return nil, fmt.Errorf("update game %d: %w", id, err)
	}
	return game, nil
}

// DeleteGameByGameID removes a game.
func (r *GameRepository) DeleteGameByGameID(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete game %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete game %d: %w", id, ErrNotFound)
	}
	return nil
}

func collectGame(rows pgx.Rows) (*model.Game, error) {
	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, notFoundIfNoRows(err)
	}

	game, ok := GameFromRow(row)
	if !ok {
		return nil, ErrMalformedRow
	}
	return game, nil
}

func collectGames(rows pgx.Rows) ([]model.Game, error) {
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	return GamesFromRows(maps), nil
}
