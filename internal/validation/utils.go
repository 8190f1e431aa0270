package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/deppfellow/gameday/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
// - Define a request struct with validator tags (`validate:"required,max=128"`)
// - Implement Validate() error that runs validation.Struct(req)
// - Fold cross-field checks in with validation.Merge
type Validatable interface {
	Validate() error
}

// Sanitizable is implemented by payloads holding free text that must be
// cleaned before it is validated and persisted.
type Sanitizable interface {
	Sanitize()
}

// CustomValidationError represents a single validation issue for a specific field.
// This is used for validation errors that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string

	// set by AtLeastOne
	noFields bool
}

// NoFieldsMessage and NoFieldsCode describe a partial update without any field.
const NoFieldsMessage = "no fields provided"

var NoFieldsCode = errs.MakeUpperCaseWithUnderscores(NoFieldsMessage)

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
// 1) c.Bind(payload) populates request struct from path params and the JSON body.
// 2) payload.Sanitize() cleans free-text fields, when implemented.
// 3) payload.Validate() applies validation rules.
// 4) Returns *errs.HTTPError (400) with field-level errors if validation fails.
//
// NOTE: c.Bind expects a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(bindErrorMessage(err), false, nil, nil, nil)
	}

	if s, ok := payload.(Sanitizable); ok {
		s.Sanitize()
	}

	if msg, code, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, code, fieldErrors, nil)
	}

	return nil
}

// bindErrorMessage extracts the client-facing part of an echo bind error.
func bindErrorMessage(err error) string {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			return msg
		}
		return fmt.Sprint(echoErr.Message)
	}
	return "Invalid request body"
}

// validateStruct calls v.Validate() and extracts field errors if validation fails.
func validateStruct(v Validatable) (string, *string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil, nil
}

// extractValidationError builds the message, code and field errors of a 400.
// An update whose only problem is an empty body reports NO_FIELDS_PROVIDED.
func extractValidationError(err error) (string, *string, []errs.FieldError) {
	customErrs := toCustomErrors(err)
	fieldErrors := make([]errs.FieldError, 0, len(customErrs))

	for _, customErr := range customErrs {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: customErr.Field,
			Error: customErr.Message,
		})
	}

	if len(customErrs) == 1 && customErrs[0].noFields {
		code := NoFieldsCode
		return NoFieldsMessage, &code, fieldErrors
	}

	return "Validation failed", nil, fieldErrors
}

// toCustomErrors flattens validator and custom errors into one list.
// Any other error becomes a single entry without a field.
func toCustomErrors(err error) CustomValidationErrors {
	if err == nil {
		return nil
	}

	var customErrs CustomValidationErrors
	if errors.As(err, &customErrs) {
		return customErrs
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return CustomValidationErrors{{Field: "", Message: err.Error()}}
	}

	out := make(CustomValidationErrors, 0, len(validationErrors))
	for _, fe := range validationErrors {
		out = append(out, CustomValidationError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

// fieldMessage converts a validator.FieldError into a user-friendly message.
func fieldMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"

	case "min":
		// min tag means:
		// - for strings: minimum length
		// - for numbers: minimum value
		if err.Kind() == reflect.String {
			if err.Param() == "1" {
				return "must not be empty"
			}
			return fmt.Sprintf("must be at least %s characters", err.Param())
		}
		return fmt.Sprintf("must be at least %s", err.Param())

	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", err.Param())
		}
		return fmt.Sprintf("must not exceed %s", err.Param())

	case "gt":
		if err.Param() == "0" {
			return "must be a positive integer"
		}
		return fmt.Sprintf("must be greater than %s", err.Param())

	case "gte":
		if err.Param() == "0" {
			return "must be 0 or greater"
		}
		return fmt.Sprintf("must be at least %s", err.Param())

	case "nefield":
		return fmt.Sprintf("must differ from %s", snakeCase(err.Param()))

	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())

	case "iso8601":
		return "must be an ISO-8601 date"

	default:
		// Fallback for tags not explicitly handled above.
		if err.Param() != "" {
			return fmt.Sprintf("%s: %s:%s", err.Field(), err.Tag(), err.Param())
		}
		return fmt.Sprintf("%s: %s", err.Field(), err.Tag())
	}
}

// snakeCase turns a Go field name used as a tag param ("HomeScore")
// into its JSON name ("home_score").
func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// uuidRegex matches standard UUID format: xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValidUUID checks whether a string matches UUID format.
//
// Note: This validates format only. It does not validate UUID version/variant semantics.
func IsValidUUID(uuid string) bool {
	return uuidRegex.MatchString(uuid)
}
