// Package sqlutil builds parameterized SQL fragments for partial updates
// and list filtering. It produces clause text with 1-based positional
// placeholders plus the value slice aligned to them; it never interpolates
// values into SQL text.
package sqlutil

import (
	"fmt"
	"strings"

	"github.com/gerardoh13/jobly/internal/apperr"
)

// ErrNoFields is returned when a partial update carries no fields.
var ErrNoFields = fmt.Errorf("%w: no fields to update", apperr.ErrInvalidInput)

// Field is one column assignment in a partial update. Repositories
// enumerate the set fields of their typed update params into a []Field,
// so the field set is fixed at compile time and slice order decides
// placeholder order.
type Field struct {
	Name  string
	Value any
}

// PartialUpdate renders a SET clause for the given fields. Each field
// becomes `"<column>"=$<n>` where the column name is looked up in columns
// and falls back to the field name verbatim. Placeholders are numbered
// 1..len(fields) in slice order and args is aligned with them.
func PartialUpdate(fields []Field, columns map[string]string) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, ErrNoFields
	}

	frags := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for i, f := range fields {
		col, ok := columns[f.Name]
		if !ok {
			col = f.Name
		}
		frags = append(frags, fmt.Sprintf("%q=$%d", col, i+1))
		args = append(args, f.Value)
	}
	return strings.Join(frags, ", "), args, nil
}

// whereBuilder accumulates predicate fragments with fresh 1-based
// placeholders in insertion order.
type whereBuilder struct {
	frags []string
	args  []any
}

// add appends one predicate. expr must contain a single %d verb for the
// placeholder index.
func (b *whereBuilder) add(expr string, v any) {
	b.args = append(b.args, v)
	b.frags = append(b.frags, fmt.Sprintf(expr, len(b.args)))
}

func (b *whereBuilder) clause() (string, []any) {
	return strings.Join(b.frags, " AND "), b.args
}

// JobFilter holds the recognized job search criteria. Nil means the
// criterion was not provided; a provided zero MinSalary is honored.
type JobFilter struct {
	Title     *string
	MinSalary *int64
	HasEquity *bool
}

// Where renders the filter as a WHERE clause body ("" when empty) and the
// aligned values. Title matches case-insensitively as a substring;
// HasEquity filters to jobs with a non-zero equity share and is a no-op
// when false.
func (f JobFilter) Where() (string, []any) {
	var b whereBuilder
	if f.Title != nil && *f.Title != "" {
		b.add("title ILIKE $%d", "%"+*f.Title+"%")
	}
	if f.MinSalary != nil {
		b.add("salary >= $%d", *f.MinSalary)
	}
	if f.HasEquity != nil && *f.HasEquity {
		b.add("equity > $%d", 0)
	}
	return b.clause()
}

// CompanyFilter holds the recognized company search criteria. Nil means
// the criterion was not provided; provided zero bounds are honored.
type CompanyFilter struct {
	Name         *string
	MinEmployees *int64
	MaxEmployees *int64
}

// Validate rejects contradictory employee bounds.
func (f CompanyFilter) Validate() error {
	if f.MinEmployees != nil && f.MaxEmployees != nil && *f.MinEmployees > *f.MaxEmployees {
		return fmt.Errorf("%w: minEmployees cannot be greater than maxEmployees", apperr.ErrInvalidInput)
	}
	return nil
}

// Where renders the filter as a WHERE clause body ("" when empty) and the
// aligned values.
func (f CompanyFilter) Where() (string, []any) {
	var b whereBuilder
	if f.Name != nil && *f.Name != "" {
		b.add("name ILIKE $%d", "%"+*f.Name+"%")
	}
	if f.MinEmployees != nil {
		b.add("num_employees >= $%d", *f.MinEmployees)
	}
	if f.MaxEmployees != nil {
		b.add("num_employees <= $%d", *f.MaxEmployees)
	}
	return b.clause()
}
