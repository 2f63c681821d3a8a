package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gerardoh13/jobly/internal/apperr"
	"github.com/gerardoh13/jobly/internal/auth"
	"github.com/gerardoh13/jobly/internal/db"
	"github.com/gerardoh13/jobly/internal/sqlutil"
)

const queryTimeout = 5 * time.Second

const userCols = `username, first_name, last_name, email, is_admin`

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (User, error) {
	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u User
	err = r.Pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, first_name, last_name, email, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userCols,
		p.Username, hash, p.FirstName, p.LastName, p.Email, p.IsAdmin,
	).Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin)
	if err != nil {
		return User{}, fmt.Errorf("user %s: %w", p.Username, db.TranslateError(err))
	}
	return u, nil
}

// Authenticate verifies a username/password pair. Unknown usernames and
// wrong passwords report the same way so callers cannot probe for
// accounts.
func (r *Repository) Authenticate(ctx context.Context, username, password string) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var (
		u    User
		hash string
	)
	err := r.Pool.QueryRow(ctx, `
		SELECT `+userCols+`, password_hash FROM users WHERE username = $1`,
		username,
	).Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
		}
		return User{}, err
	}

	if err := auth.CheckPassword(hash, password); err != nil {
		return User{}, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}
	return u, nil
}

func (r *Repository) List(ctx context.Context) ([]User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.Pool.Query(ctx, `
		SELECT `+userCols+` FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	out := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Get returns one user with the IDs of jobs they applied to.
func (r *Repository) Get(ctx context.Context, username string) (UserDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var d UserDetail
	err := r.Pool.QueryRow(ctx, `
		SELECT `+userCols+` FROM users WHERE username = $1`,
		username,
	).Scan(&d.Username, &d.FirstName, &d.LastName, &d.Email, &d.IsAdmin)
	if err != nil {
		return UserDetail{}, fmt.Errorf("user %s: %w", username, db.TranslateError(err))
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT job_id FROM applications WHERE username = $1 ORDER BY job_id`,
		username,
	)
	if err != nil {
		return UserDetail{}, fmt.Errorf("applications for %s: %w", username, err)
	}
	defer rows.Close()

	d.Applications = make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return UserDetail{}, err
		}
		d.Applications = append(d.Applications, id)
	}
	return d, rows.Err()
}

func (r *Repository) Update(ctx context.Context, username string, p UpdateParams) (User, error) {
	fields := p.Fields()
	if p.Password != nil {
		hash, err := auth.HashPassword(*p.Password)
		if err != nil {
			return User{}, fmt.Errorf("hashing password: %w", err)
		}
		fields = append(fields, sqlutil.Field{Name: "password", Value: hash})
	}

	set, args, err := sqlutil.PartialUpdate(fields, updateColumns)
	if err != nil {
		return User{}, err
	}
	args = append(args, username)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u User
	err = r.Pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE users SET %s WHERE username = $%d
		RETURNING %s`, set, len(args), userCols),
		args...,
	).Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin)
	if err != nil {
		return User{}, fmt.Errorf("user %s: %w", username, db.TranslateError(err))
	}
	return u, nil
}

func (r *Repository) Delete(ctx context.Context, username string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var deleted string
	err := r.Pool.QueryRow(ctx, `
		DELETE FROM users WHERE username = $1 RETURNING username`,
		username,
	).Scan(&deleted)
	if err != nil {
		return fmt.Errorf("user %s: %w", username, db.TranslateError(err))
	}
	return nil
}

// ApplyToJob records an application. A missing user or job surfaces as
// not-found, applying twice as a duplicate.
func (r *Repository) ApplyToJob(ctx context.Context, username string, jobID int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.Pool.Exec(ctx, `
		INSERT INTO applications (username, job_id) VALUES ($1, $2)`,
		username, jobID,
	)
	if err != nil {
		return fmt.Errorf("application %s -> job %d: %w", username, jobID, db.TranslateError(err))
	}
	return nil
}
