package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrColumnNotAllowed is returned by Build when Set was called with a
// column outside the builder's allow-list.
var ErrColumnNotAllowed = errors.New("column not allowed")

// KeyPosition decides where the WHERE key is bound among the parameters.
type KeyPosition int

const (
	// KeyFirst binds the key as $1, assignments start at $2.
	KeyFirst KeyPosition = iota
	// KeyLast binds assignments from $1, the key is the last parameter.
	KeyLast
)

// assignment is one "column = $index" pair with the value bound at index.
type assignment struct {
	column string
	index  int
	value  any
}

// UpdateBuilder assembles a partial UPDATE statement.
//
// Every Set records a (column, placeholder index, value) triple, and Build
// renders the clause and the argument list from the same triples, so a
// placeholder can never point at the wrong value.
type UpdateBuilder struct {
	table     string
	keyColumn string
	key       any
	position  KeyPosition
	allowed   map[string]struct{}

	assignments []assignment
	touch       []string
	returning   string
	err         error
}

// NewUpdateBuilder starts an update of table filtered by keyColumn = key.
// When allowed is not empty, only those columns may be set.
func NewUpdateBuilder(table, keyColumn string, key any, position KeyPosition, allowed ...string) *UpdateBuilder {
	b := &UpdateBuilder{
		table:     table,
		keyColumn: keyColumn,
		key:       key,
		position:  position,
		returning: "*",
	}
	if len(allowed) > 0 {
		b.allowed = make(map[string]struct{}, len(allowed))
		for _, c := range allowed {
			b.allowed[c] = struct{}{}
		}
	}
	return b
}

func (b *UpdateBuilder) nextIndex() int {
	if b.position == KeyFirst {
		return len(b.assignments) + 2
	}
	return len(b.assignments) + 1
}

// Set appends column = value.
func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	if b.allowed != nil {
		if _, ok := b.allowed[column]; !ok {
			if b.err == nil {
				b.err = fmt.Errorf("%w: %s", ErrColumnNotAllowed, column)
			}
			return b
		}
	}

	b.assignments = append(b.assignments, assignment{
		column: column,
		index:  b.nextIndex(),
		value:  value,
	})
	return b
}

// Touch sets column to CURRENT_TIMESTAMP whenever at least one field is set.
func (b *UpdateBuilder) Touch(column string) *UpdateBuilder {
	b.touch = append(b.touch, column)
	return b
}

// Returning replaces the default RETURNING * list.
func (b *UpdateBuilder) Returning(columns string) *UpdateBuilder {
	b.returning = columns
	return b
}

// Len is the number of parameterized assignments recorded.
func (b *UpdateBuilder) Len() int {
	return len(b.assignments)
}

// Build renders the statement and its arguments.
// It returns ErrNoFields when nothing was set.
func (b *UpdateBuilder) Build() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	if len(b.assignments) == 0 {
		return "", nil, ErrNoFields
	}

	args := make([]any, len(b.assignments)+1)
	sets := make([]string, 0, len(b.assignments)+len(b.touch))

	for _, a := range b.assignments {
		sets = append(sets, fmt.Sprintf("%s = $%d", a.column, a.index))
		args[a.index-1] = a.value
	}
	for _, column := range b.touch {
		sets = append(sets, column+" = CURRENT_TIMESTAMP")
	}

	keyIndex := 1
	if b.position == KeyLast {
		keyIndex = len(args)
	}
	args[keyIndex-1] = b.key

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d RETURNING %s",
		b.table,
		strings.Join(sets, ", "),
		b.keyColumn,
		keyIndex,
		b.returning,
	)

	return sql, args, nil
}

// setIfPresent calls b.Set only for non-nil pointers.
func setIfPresent[T any](b *UpdateBuilder, column string, value *T) {
	if value != nil {
		b.Set(column, *value)
	}
}
