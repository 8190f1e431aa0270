// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required fields or ISO-8601 dates) defined in struct tags,
// folds cross-field checks into the same error list and
// extracts validation errors into a format the client can
// understand.
package validation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every payload. validator caches struct metadata,
// so one instance for the whole process is the intended usage.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by the name the client sent.
	v.RegisterTagNameFunc(tagName)

	if err := v.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
		_, err := ParseISO8601(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("registering iso8601 validation: %v", err))
	}

	return v
}

// tagName returns the json name of a field, falling back to its
// path parameter name for fields bound from the URL.
func tagName(f reflect.StructField) string {
	if name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]; name != "" && name != "-" {
		return name
	}
	if name := f.Tag.Get("param"); name != "" {
		return name
	}
	return ""
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	return validate.Struct(s)
}

// Merge folds the result of Struct together with custom errors into a
// single CustomValidationErrors, so every failure is reported in one pass.
// It returns nil when there is nothing to report.
func Merge(err error, custom ...CustomValidationError) error {
	all := toCustomErrors(err)
	all = append(all, custom...)
	if len(all) == 0 {
		return nil
	}
	return all
}

// AtLeastOne returns an error unless at least one of the named fields is present.
// names and present are matched by position.
func AtLeastOne(names []string, present ...bool) []CustomValidationError {
	for _, ok := range present {
		if ok {
			return nil
		}
	}
	return []CustomValidationError{{
		Field:    "body",
		Message:  "At least one of the following fields is required: " + strings.Join(names, ", "),
		noFields: true,
	}}
}

// iso8601Layouts are tried in order. Layouts without a zone are read as UTC.
var iso8601Layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseISO8601 parses the ISO-8601 date and date-time forms accepted for game dates.
// The result is always in UTC.
func ParseISO8601(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}

	for _, layout := range iso8601Layouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("date must be an ISO-8601 date")
}

// ParsePositiveInt64 parses a path or body value that must be an integer > 0.
func ParsePositiveInt64(raw, field string) (int64, *CustomValidationError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &CustomValidationError{Field: field, Message: "is required"}
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, &CustomValidationError{Field: field, Message: "must be a positive integer"}
	}
	return value, nil
}
