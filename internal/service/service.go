// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations (slug derivation, collision checks,
// cross-field rules that need stored state), and calls
// repository methods to interact with the data.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/deppfellow/gameday/internal/errs"
	"github.com/deppfellow/gameday/internal/repository"
	"github.com/rs/zerolog"
)

var noFieldsCode = errs.MakeUpperCaseWithUnderscores(repository.ErrNoFields.Error())

// notFound builds the 404 returned for a missing entity, e.g. TEAM_NOT_FOUND.
func notFound(entity string) *errs.HTTPError {
	code := errs.DomainCode(entity, http.StatusText(http.StatusNotFound))
	return errs.NewNotFoundError(fmt.Sprintf("%s not found", entity), true, &code)
}

// noFields is the 400 returned for a partial update without any field.
func noFields() *errs.HTTPError {
	return errs.NewBadRequestError(repository.ErrNoFields.Error(), true, &noFieldsCode, nil, nil)
}

// fieldError is a 400 carrying a single field error.
func fieldError(code *string, message, field, reason string) *errs.HTTPError {
	return errs.NewBadRequestError(message, true, code, []errs.FieldError{{Field: field, Error: reason}}, nil)
}

// mapRepositoryError turns the typed repository outcomes into HTTP errors.
//
// Driver errors are returned unchanged: the global error handler converts
// them through sqlerr and logs the original.
func mapRepositoryError(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound(entity)
	case errors.Is(err, repository.ErrNoFields):
		return noFields()
	default:
		return err
	}
}

// loggerFrom prefers the request-scoped logger stored in ctx.
func loggerFrom(ctx context.Context, fallback *zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return fallback
}
