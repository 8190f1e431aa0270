package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "NOT_FOUND", MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound)))
	assert.Equal(t, "TEAM_ALREADY_EXISTS", DomainCode("team", "already exists"))
}

func TestNewBadRequestError(t *testing.T) {
	fields := []FieldError{{Field: "name", Error: "is required"}}

	err := NewBadRequestError("Validation failed", true, nil, fields, nil)
	assert.Equal(t, "BAD_REQUEST", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, fields, err.Errors)
	assert.True(t, err.Override)

	code := "NO_FIELDS_PROVIDED"
	err = NewBadRequestError("no fields provided", true, &code, nil, nil)
	assert.Equal(t, code, err.Code)
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("Team not found", true, nil)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, "Team not found", err.Error())
}

func TestNewInternalServerErrorHidesDetails(t *testing.T) {
	err := NewInternalServerError()
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, "Internal Server Error", err.Message)
	assert.False(t, err.Override)
}

func TestHTTPErrorIsAndAs(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", NewNotFoundError("Game not found", true, nil))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))

	var httpErr *HTTPError
	require.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)

	assert.False(t, errors.Is(errors.New("plain"), &HTTPError{}))
}

func TestWithMessageCopies(t *testing.T) {
	base := NewTooManyRequestsError("slow down")
	changed := base.WithMessage("rate limit exceeded")

	assert.Equal(t, "slow down", base.Message)
	assert.Equal(t, "rate limit exceeded", changed.Message)
	assert.Equal(t, base.Status, changed.Status)
	assert.Equal(t, base.Code, changed.Code)
}

func TestValidationError(t *testing.T) {
	err := ValidationError(errors.New("date must be ISO-8601"))
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "Validation failed: date must be ISO-8601", err.Message)
}
