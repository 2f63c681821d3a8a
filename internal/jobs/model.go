package jobs

import "github.com/gerardoh13/jobly/internal/sqlutil"

type Job struct {
	ID            int64    `db:"id" json:"id"`
	Title         string   `db:"title" json:"title"`
	Salary        *int64   `db:"salary" json:"salary"`
	Equity        *float64 `db:"equity" json:"equity"`
	CompanyHandle string   `db:"company_handle" json:"companyHandle"`
}

type CreateParams struct {
	Title         string   `json:"title" validate:"required,max=80"`
	Salary        *int64   `json:"salary" validate:"omitempty,min=0"`
	Equity        *float64 `json:"equity" validate:"omitempty,min=0,max=1"`
	CompanyHandle string   `json:"companyHandle" validate:"required,lowercase"`
}

// UpdateParams carries the mutable job fields; nil means "leave
// untouched". The id and companyHandle are fixed for the row's lifetime,
// so they are deliberately absent and unknown-field decoding rejects them.
type UpdateParams struct {
	Title  *string  `json:"title" validate:"omitempty,min=1,max=80"`
	Salary *int64   `json:"salary" validate:"omitempty,min=0"`
	Equity *float64 `json:"equity" validate:"omitempty,min=0,max=1"`
}

var updateColumns = map[string]string{
	"title":  "title",
	"salary": "salary",
	"equity": "equity",
}

// Fields enumerates the set fields in declaration order.
func (p UpdateParams) Fields() []sqlutil.Field {
	var fields []sqlutil.Field
	if p.Title != nil {
		fields = append(fields, sqlutil.Field{Name: "title", Value: *p.Title})
	}
	if p.Salary != nil {
		fields = append(fields, sqlutil.Field{Name: "salary", Value: *p.Salary})
	}
	if p.Equity != nil {
		fields = append(fields, sqlutil.Field{Name: "equity", Value: *p.Equity})
	}
	return fields
}
