package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gerardoh13/jobly/internal/db"
	"github.com/gerardoh13/jobly/internal/sqlutil"
)

const queryTimeout = 5 * time.Second

const jobCols = `id, title, salary, equity, company_handle`

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Job, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var j Job
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO jobs (title, salary, equity, company_handle)
		VALUES ($1, $2, $3, $4)
		RETURNING `+jobCols,
		p.Title, p.Salary, p.Equity, p.CompanyHandle,
	).Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle)
	if err != nil {
		return Job{}, fmt.Errorf("job %s at %s: %w", p.Title, p.CompanyHandle, db.TranslateError(err))
	}
	return j, nil
}

func (r *Repository) List(ctx context.Context, f sqlutil.JobFilter) ([]Job, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q := `SELECT ` + jobCols + ` FROM jobs`
	where, args := f.Where()
	if where != "" {
		q += ` WHERE ` + where
	}
	q += ` ORDER BY id`

	rows, err := r.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	out := make([]Job, 0)
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Job, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var j Job
	err := r.Pool.QueryRow(ctx, `
		SELECT `+jobCols+` FROM jobs WHERE id = $1`,
		id,
	).Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle)
	if err != nil {
		return Job{}, fmt.Errorf("job %d: %w", id, db.TranslateError(err))
	}
	return j, nil
}

func (r *Repository) Update(ctx context.Context, id int64, p UpdateParams) (Job, error) {
	set, args, err := sqlutil.PartialUpdate(p.Fields(), updateColumns)
	if err != nil {
		return Job{}, err
	}
	args = append(args, id)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var j Job
	err = r.Pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE jobs SET %s WHERE id = $%d
		RETURNING %s`, set, len(args), jobCols),
		args...,
	).Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle)
	if err != nil {
		return Job{}, fmt.Errorf("job %d: %w", id, db.TranslateError(err))
	}
	return j, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var deleted int64
	err := r.Pool.QueryRow(ctx, `
		DELETE FROM jobs WHERE id = $1 RETURNING id`,
		id,
	).Scan(&deleted)
	if err != nil {
		return fmt.Errorf("job %d: %w", id, db.TranslateError(err))
	}
	return nil
}
