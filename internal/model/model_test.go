package model

import (
	"errors"
	"testing"
	"time"

	"github.com/deppfellow/gameday/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func customErrors(t *testing.T, err error) map[string]string {
	t.Helper()

	var list validation.CustomValidationErrors
	require.True(t, errors.As(err, &list), "expected validation errors, got %v", err)

	out := map[string]string{}
	for _, e := range list {
		out[e.Field] = e.Message
	}
	return out
}

func TestCreateTeamRequest(t *testing.T) {
	req := &CreateTeamRequest{Name: "  <em>Sharks</em> ", Description: " Teal "}
	req.Sanitize()

	require.NoError(t, req.Validate())
	assert.Equal(t, "Sharks", req.Name)
	assert.Equal(t, "Teal", req.Description)

	empty := &CreateTeamRequest{Name: "   "}
	empty.Sanitize()
	assert.Error(t, empty.Validate())
}

func TestUpdateTeamRequestNeedsAField(t *testing.T) {
	req := &UpdateTeamRequest{Slug: "sharks"}

	got := customErrors(t, req.Validate())
	assert.Contains(t, got["body"], "name, description")

	req.Description = ptr("")
	assert.NoError(t, req.Validate(), "clearing the description is an explicit change")
}

func TestUpdateTeamRequestRejectsBlankName(t *testing.T) {
	req := &UpdateTeamRequest{Slug: "sharks", Name: ptr("  ")}
	req.Sanitize()

	got := customErrors(t, req.Validate())
	assert.Equal(t, "must not be empty", got["name"])
}

func TestGameIDRequest(t *testing.T) {
	req := &GameIDRequest{RawID: "42"}
	require.NoError(t, req.Validate())
	assert.Equal(t, int64(42), req.ID())

	for _, raw := range []string{"", "abc", "0", "-3", "1.5"} {
		req := &GameIDRequest{RawID: raw}
		got := customErrors(t, req.Validate())
		assert.NotEmpty(t, got["gameId"], raw)
	}
}

func TestCreateGameRequest(t *testing.T) {
	req := &CreateGameRequest{Date: "2024-05-01T19:00:00Z", Home: 1, Away: 2}
	require.NoError(t, req.Validate())

	game := req.NewGame()
	assert.Equal(t, time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC), game.Date)
	assert.Zero(t, game.HomeScore)
	assert.Zero(t, game.AwayScore)

	req.HomeScore = ptr(3)
	assert.Equal(t, 3, req.NewGame().HomeScore)
}

func TestCreateGameRequestRejectsSameTeams(t *testing.T) {
	req := &CreateGameRequest{Date: "2024-05-01", Home: 7, Away: 7, AwayScore: ptr(-1)}

	got := customErrors(t, validation.Merge(req.Validate()))
	assert.Equal(t, "must differ from home", got["away"])
	assert.Equal(t, "must be 0 or greater", got["away_score"])
}

func TestCreateGameRequestMissingFields(t *testing.T) {
	got := customErrors(t, validation.Merge((&CreateGameRequest{}).Validate()))

	assert.Equal(t, "is required", got["date"])
	assert.Equal(t, "is required", got["home"])
	assert.Equal(t, "is required", got["away"])
}

func TestUpdateGameRequest(t *testing.T) {
	req := &UpdateGameRequest{RawID: "9", HomeScore: ptr(4)}
	require.NoError(t, req.Validate())
	assert.Equal(t, int64(9), req.ID())

	update := req.Update()
	assert.Equal(t, 4, *update.HomeScore)
	assert.Nil(t, update.AwayScore)
	assert.Nil(t, update.Date)
	assert.False(t, update.Empty())
}

func TestUpdateGameRequestErrors(t *testing.T) {
	req := &UpdateGameRequest{RawID: "x", Home: ptr(int64(2)), Away: ptr(int64(2))}

	got := customErrors(t, req.Validate())
	assert.Equal(t, "must be a positive integer", got["gameId"])
	assert.Equal(t, "must differ from home", got["away"])

	empty := &UpdateGameRequest{RawID: "1"}
	got = customErrors(t, empty.Validate())
	assert.Contains(t, got["body"], "home_score")
}

func TestUpdateEmpty(t *testing.T) {
	assert.True(t, TeamUpdate{}.Empty())
	assert.False(t, TeamUpdate{Description: ptr("")}.Empty())
	assert.True(t, GameUpdate{}.Empty())
}
