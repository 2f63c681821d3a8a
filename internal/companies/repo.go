package companies

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gerardoh13/jobly/internal/db"
	"github.com/gerardoh13/jobly/internal/sqlutil"
)

const queryTimeout = 5 * time.Second

const companyCols = `handle, name, num_employees, description, logo_url`

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Company, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c Company
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO companies (handle, name, num_employees, description, logo_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+companyCols,
		p.Handle, p.Name, p.NumEmployees, p.Description, p.LogoURL,
	).Scan(&c.Handle, &c.Name, &c.NumEmployees, &c.Description, &c.LogoURL)
	if err != nil {
		return Company{}, fmt.Errorf("company %s: %w", p.Handle, db.TranslateError(err))
	}
	return c, nil
}

func (r *Repository) List(ctx context.Context, f sqlutil.CompanyFilter) ([]Company, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q := `SELECT ` + companyCols + ` FROM companies`
	where, args := f.Where()
	if where != "" {
		q += ` WHERE ` + where
	}
	q += ` ORDER BY name`

	rows, err := r.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer rows.Close()

	out := make([]Company, 0)
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.Handle, &c.Name, &c.NumEmployees, &c.Description, &c.LogoURL); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Get returns one company with its job postings.
func (r *Repository) Get(ctx context.Context, handle string) (CompanyDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var d CompanyDetail
	err := r.Pool.QueryRow(ctx, `
		SELECT `+companyCols+` FROM companies WHERE handle = $1`,
		handle,
	).Scan(&d.Handle, &d.Name, &d.NumEmployees, &d.Description, &d.LogoURL)
	if err != nil {
		return CompanyDetail{}, fmt.Errorf("company %s: %w", handle, db.TranslateError(err))
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT id, title, salary, equity FROM jobs WHERE company_handle = $1 ORDER BY id`,
		handle,
	)
	if err != nil {
		return CompanyDetail{}, fmt.Errorf("jobs for company %s: %w", handle, err)
	}
	defer rows.Close()

	d.Jobs = make([]CompanyJob, 0)
	for rows.Next() {
		var j CompanyJob
		if err := rows.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity); err != nil {
			return CompanyDetail{}, err
		}
		d.Jobs = append(d.Jobs, j)
	}
	return d, rows.Err()
}

func (r *Repository) Update(ctx context.Context, handle string, p UpdateParams) (Company, error) {
	set, args, err := sqlutil.PartialUpdate(p.Fields(), updateColumns)
	if err != nil {
		return Company{}, err
	}
	args = append(args, handle)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c Company
	err = r.Pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE companies SET %s WHERE handle = $%d
		RETURNING %s`, set, len(args), companyCols),
		args...,
	).Scan(&c.Handle, &c.Name, &c.NumEmployees, &c.Description, &c.LogoURL)
	if err != nil {
		return Company{}, fmt.Errorf("company %s: %w", handle, db.TranslateError(err))
	}
	return c, nil
}

func (r *Repository) Delete(ctx context.Context, handle string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var deleted string
	err := r.Pool.QueryRow(ctx, `
		DELETE FROM companies WHERE handle = $1 RETURNING handle`,
		handle,
	).Scan(&deleted)
	if err != nil {
		return fmt.Errorf("company %s: %w", handle, db.TranslateError(err))
	}
	return nil
}
