package users

import "github.com/gerardoh13/jobly/internal/sqlutil"

// User never carries the password hash; it stays inside the repository.
type User struct {
	Username  string `db:"username" json:"username"`
	FirstName string `db:"first_name" json:"firstName"`
	LastName  string `db:"last_name" json:"lastName"`
	Email     string `db:"email" json:"email"`
	IsAdmin   bool   `db:"is_admin" json:"isAdmin"`
}

// UserDetail adds the IDs of jobs the user has applied to.
type UserDetail struct {
	User
	Applications []int64 `json:"applications"`
}

// RegisterParams is the self-service signup payload. It cannot grant
// admin; only CreateParams (admin-only route) can.
type RegisterParams struct {
	Username  string `json:"username" validate:"required,min=1,max=30"`
	Password  string `json:"password" validate:"required,min=5,max=20"`
	FirstName string `json:"firstName" validate:"required,max=30"`
	LastName  string `json:"lastName" validate:"required,max=30"`
	Email     string `json:"email" validate:"required,email"`
}

type CreateParams struct {
	RegisterParams
	IsAdmin bool `json:"isAdmin"`
}

// UpdateParams carries the mutable user fields; nil means "leave
// untouched". The username is the row's identity and admin status is
// not grantable here, so both are deliberately absent.
type UpdateParams struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=30"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=30"`
	Password  *string `json:"password" validate:"omitempty,min=5,max=20"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

var updateColumns = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"password":  "password_hash",
}

// Fields enumerates the set fields in declaration order. The password is
// handled by the repository, which stores its hash, never the plaintext.
func (p UpdateParams) Fields() []sqlutil.Field {
	var fields []sqlutil.Field
	if p.FirstName != nil {
		fields = append(fields, sqlutil.Field{Name: "firstName", Value: *p.FirstName})
	}
	if p.LastName != nil {
		fields = append(fields, sqlutil.Field{Name: "lastName", Value: *p.LastName})
	}
	if p.Email != nil {
		fields = append(fields, sqlutil.Field{Name: "email", Value: *p.Email})
	}
	return fields
}
