package model

import (
	"time"

	"github.com/deppfellow/gameday/internal/validation"
)

// Game is a stored game with both team references resolved to names.
type Game struct {
	ID        int64     `json:"id"`
	Date      time.Time `json:"date"`
	HomeID    int64     `json:"home_id"`
	Home      string    `json:"home"`
	AwayID    int64     `json:"away_id"`
	Away      string    `json:"away"`
	HomeScore int       `json:"home_score"`
	AwayScore int       `json:"away_score"`
}

// NewGame is the write shape of a game: teams are referenced by id.
type NewGame struct {
	Date      time.Time
	Home      int64
	Away      int64
	HomeScore int
	AwayScore int
}

// GameUpdate is a sparse set of game changes. Nil fields are left untouched.
type GameUpdate struct {
	Date      *time.Time
	Home      *int64
	Away      *int64
	HomeScore *int
	AwayScore *int
}

// Empty reports whether the update carries no field at all.
func (u GameUpdate) Empty() bool {
	return u.Date == nil && u.Home == nil && u.Away == nil && u.HomeScore == nil && u.AwayScore == nil
}

// ListGamesRequest has no input.
type ListGamesRequest struct{}

func (r *ListGamesRequest) Validate() error {
	return nil
}

// GameIDRequest addresses a single game by its numeric id.
//
// The id is bound as text so a malformed value becomes a field error
// instead of a bind failure.
type GameIDRequest struct {
	RawID string `param:"gameId" json:"-"`

	id int64
}

func (r *GameIDRequest) Validate() error {
	id, err := validation.ParsePositiveInt64(r.RawID, "gameId")
	if err != nil {
		return validation.CustomValidationErrors{*err}
	}
	r.id = id
	return nil
}

// ID returns the parsed id. Only meaningful after Validate succeeded.
func (r *GameIDRequest) ID() int64 {
	return r.id
}

// CreateGameRequest is the body of POST /games.
type CreateGameRequest struct {
	Date      string `json:"date" validate:"required,iso8601"`
	Home      int64  `json:"home" validate:"required,gt=0"`
	Away      int64  `json:"away" validate:"required,gt=0,nefield=Home"`
	HomeScore *int   `json:"home_score" validate:"omitnil,gte=0"`
	AwayScore *int   `json:"away_score" validate:"omitnil,gte=0"`
}

func (r *CreateGameRequest) Validate() error {
	return validation.Struct(r)
}

// NewGame converts a validated request into the write shape.
// Missing scores default to 0.
func (r *CreateGameRequest) NewGame() NewGame {
	date, _ := validation.ParseISO8601(r.Date)

	game := NewGame{
		Date: date,
		Home: r.Home,
		Away: r.Away,
	}
	if r.HomeScore != nil {
		game.HomeScore = *r.HomeScore
	}
	if r.AwayScore != nil {
		game.AwayScore = *r.AwayScore
	}
	return game
}

// UpdateGameRequest is the body of PATCH /games/:gameId.
// Only recognized fields present in the body are changed.
type UpdateGameRequest struct {
	RawID     string  `param:"gameId" json:"-"`
	Date      *string `json:"date" validate:"omitnil,iso8601"`
	Home      *int64  `json:"home" validate:"omitnil,gt=0"`
	Away      *int64  `json:"away" validate:"omitnil,gt=0,nefield=Home"`
	HomeScore *int    `json:"home_score" validate:"omitnil,gte=0"`
	AwayScore *int    `json:"away_score" validate:"omitnil,gte=0"`

	id int64
}

func (r *UpdateGameRequest) Validate() error {
	var custom []validation.CustomValidationError

	id, idErr := validation.ParsePositiveInt64(r.RawID, "gameId")
	if idErr != nil {
		custom = append(custom, *idErr)
	}
	r.id = id

	custom = append(custom, validation.AtLeastOne(
		[]string{"date", "home", "away", "home_score", "away_score"},
		r.Date != nil, r.Home != nil, r.Away != nil, r.HomeScore != nil, r.AwayScore != nil,
	)...)

	return validation.Merge(validation.Struct(r), custom...)
}

// ID returns the parsed game id. Only meaningful after Validate succeeded.
func (r *UpdateGameRequest) ID() int64 {
	return r.id
}

// Update converts a validated request into a sparse update.
func (r *UpdateGameRequest) Update() GameUpdate {
	update := GameUpdate{
		Home:      r.Home,
		Away:      r.Away,
		HomeScore: r.HomeScore,
		AwayScore: r.AwayScore,
	}
	if r.Date != nil {
		if date, err := validation.ParseISO8601(*r.Date); err == nil {
			update.Date = &date
		}
	}
	return update
}
