package sqlbuild

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cuongbtq/jobly-be/internal/api/domain"
)

// ErrUnsafeIdentifier is returned when a column name could not be safely interpolated
var ErrUnsafeIdentifier = errors.New("unsafe sql identifier")

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Assignment is one field of a partial update
type Assignment struct {
	Field string
	Value any
}

// Payload is an ordered partial update. Fields are numbered in the order they were set.
type Payload []Assignment

// Set returns p with field appended
func (p Payload) Set(field string, value any) Payload {
	return append(p, Assignment{Field: field, Value: value})
}

// Fields returns the field names in order
func (p Payload) Fields() []string {
	fields := make([]string, len(p))
	for i, a := range p {
		fields[i] = a.Field
	}
	return fields
}

// FieldMap maps payload field names to column names. Missing entries map to themselves.
type FieldMap map[string]string

// Column resolves the column name for field
func (m FieldMap) Column(field string) string {
	if col, ok := m[field]; ok && col != "" {
		return col
	}
	return field
}

// SetClause is the compiled SET list of an UPDATE and its values
type SetClause struct {
	Columns string
	Values  []any
}

// Params returns a builder seeded with the clause values, so that the next
// placeholder it hands out follows the last one used in Columns.
func (s *SetClause) Params() *Params {
	return NewParams(s.Values...)
}

// QuoteIdent wraps name in double quotes after checking it is a plain identifier
func QuoteIdent(name string) (string, error) {
	if !identPattern.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeIdentifier, name)
	}
	return `"` + name + `"`, nil
}

// PartialUpdate compiles payload into `"col"=$1, "col2"=$2` and the matching values.
//
//	Payload{}.Set("firstName", "Aliya").Set("age", 32) with {"firstName": "first_name"}
//	=> `"first_name"=$1, "age"=$2`, ["Aliya", 32]
func PartialUpdate(payload Payload, fieldMap FieldMap) (*SetClause, error) {
	if len(payload) == 0 {
		return nil, domain.NewValidationError("no data supplied")
	}

	params := NewParams()
	cols := make([]string, 0, len(payload))
	seen := make(map[string]struct{}, len(payload))

	for _, a := range payload {
		if _, dup := seen[a.Field]; dup {
			return nil, domain.NewValidationError("field %q supplied more than once", a.Field)
		}
		seen[a.Field] = struct{}{}

		col, err := QuoteIdent(fieldMap.Column(a.Field))
		if err != nil {
			return nil, err
		}
		cols = append(cols, col+"="+params.Add(a.Value))
	}

	return &SetClause{
		Columns: strings.Join(cols, ", "),
		Values:  params.Args(),
	}, nil
}
