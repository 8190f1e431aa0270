package repository

import (
	"math"
	"time"

	"github.com/deppfellow/gameday/internal/model"
	"github.com/deppfellow/gameday/internal/validation"
)

// Row is an untyped database row keyed by column name, as produced by pgx.RowToMap.
type Row = map[string]any

// TeamFromRow maps a row into a Team.
//
// id, name and slug are required; description may be missing or NULL.
// Malformed rows return (nil, false), the mapper never panics.
func TeamFromRow(row Row) (*model.Team, bool) {
	if row == nil {
		return nil, false
	}

	id, ok := asInt64(row["id"])
	if !ok {
		return nil, false
	}
	name, ok := row["name"].(string)
	if !ok {
		return nil, false
	}
	slug, ok := row["slug"].(string)
	if !ok {
		return nil, false
	}

	description := ""
	switch d := row["description"].(type) {
	case nil:
	case string:
		description = d
	default:
		return nil, false
	}

	return &model.Team{
		ID:          id,
		Name:        name,
		Slug:        slug,
		Description: description,
	}, true
}

// GameFromRow maps a joined game row into a Game.
//
// The row must carry the team names resolved by the read query
// (home_name, away_name) next to the raw references (home, away).
func GameFromRow(row Row) (*model.Game, bool) {
	if row == nil {
		return nil, false
	}

	id, ok := asInt64(row["id"])
	if !ok {
		return nil, false
	}
	date, ok := asTime(row["date"])
	if !ok {
		return nil, false
	}
	homeID, ok := asInt64(row["home"])
	if !ok {
		return nil, false
	}
	awayID, ok := asInt64(row["away"])
	if !ok {
		return nil, false
	}
	homeName, ok := row["home_name"].(string)
	if !ok {
		return nil, false
	}
	awayName, ok := row["away_name"].(string)
	if !ok {
		return nil, false
	}
	homeScore, ok := asInt64(row["home_score"])
	if !ok || homeScore > math.MaxInt32 {
		return nil, false
	}
	awayScore, ok := asInt64(row["away_score"])
	if !ok || awayScore > math.MaxInt32 {
		return nil, false
	}

	return &model.Game{
		ID:        id,
		Date:      date,
		HomeID:    homeID,
		Home:      homeName,
		AwayID:    awayID,
		Away:      awayName,
		HomeScore: int(homeScore),
		AwayScore: int(awayScore),
	}, true
}

// TeamsFromRows maps every row, silently dropping the ones that fail.
// The result is never nil.
func TeamsFromRows(rows []Row) []model.Team {
	teams := make([]model.Team, 0, len(rows))
	for _, row := range rows {
		if team, ok := TeamFromRow(row); ok {
			teams = append(teams, *team)
		}
	}
	return teams
}

// GamesFromRows maps every row, silently dropping the ones that fail.
// The result is never nil.
func GamesFromRows(rows []Row) []model.Game {
	games := make([]model.Game, 0, len(rows))
	for _, row := range rows {
		if game, ok := GameFromRow(row); ok {
			games = append(games, *game)
		}
	}
	return games
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case int:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), true
	case string:
		parsed, err := validation.ParseISO8601(t)
		return parsed, err == nil
	default:
		return time.Time{}, false
	}
}
