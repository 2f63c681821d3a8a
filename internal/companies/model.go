package companies

import "github.com/gerardoh13/jobly/internal/sqlutil"

type Company struct {
	Handle       string  `db:"handle" json:"handle"`
	Name         string  `db:"name" json:"name"`
	NumEmployees *int64  `db:"num_employees" json:"numEmployees"`
	Description  string  `db:"description" json:"description"`
	LogoURL      *string `db:"logo_url" json:"logoUrl"`
}

// CompanyJob is the slimmed job row embedded in a company detail view;
// the company is implied by the parent, so it carries no handle.
type CompanyJob struct {
	ID     int64    `db:"id" json:"id"`
	Title  string   `db:"title" json:"title"`
	Salary *int64   `db:"salary" json:"salary"`
	Equity *float64 `db:"equity" json:"equity"`
}

type CompanyDetail struct {
	Company
	Jobs []CompanyJob `json:"jobs"`
}

type CreateParams struct {
	Handle       string  `json:"handle" validate:"required,lowercase,max=25"`
	Name         string  `json:"name" validate:"required,max=60"`
	NumEmployees *int64  `json:"numEmployees" validate:"omitempty,min=0"`
	Description  string  `json:"description"`
	LogoURL      *string `json:"logoUrl" validate:"omitempty,url"`
}

// UpdateParams carries the mutable company fields; nil means "leave
// untouched". The handle is the row's identity and cannot change.
type UpdateParams struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=60"`
	NumEmployees *int64  `json:"numEmployees" validate:"omitempty,min=0"`
	Description  *string `json:"description"`
	LogoURL      *string `json:"logoUrl" validate:"omitempty,url"`
}

// updateColumns maps wire names onto column names for partial updates.
var updateColumns = map[string]string{
	"name":         "name",
	"numEmployees": "num_employees",
	"description":  "description",
	"logoUrl":      "logo_url",
}

// Fields enumerates the set fields in declaration order.
func (p UpdateParams) Fields() []sqlutil.Field {
	var fields []sqlutil.Field
	if p.Name != nil {
		fields = append(fields, sqlutil.Field{Name: "name", Value: *p.Name})
	}
	if p.NumEmployees != nil {
		fields = append(fields, sqlutil.Field{Name: "numEmployees", Value: *p.NumEmployees})
	}
	if p.Description != nil {
		fields = append(fields, sqlutil.Field{Name: "description", Value: *p.Description})
	}
	if p.LogoURL != nil {
		fields = append(fields, sqlutil.Field{Name: "logoUrl", Value: *p.LogoURL})
	}
	return fields
}
