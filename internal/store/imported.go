package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yukselpamuk83-a11y/teppekgeo/internal/model"
)

func importedConds(f model.ImportedFilters) *cond {
	c := &cond{}
	c.add("is_active = true")
	c.add("latitude IS NOT NULL AND longitude IS NOT NULL")
	if f.Country != "" {
		c.add("country = $?", f.Country)
	}
	if f.Category != "" {
		c.add("category ILIKE $?", like(f.Category))
	}
	if f.Location != "" {
		c.add("location ILIKE $?", like(f.Location))
	}
	if f.SalaryMin > 0 {
		c.add("salary_min >= $?", f.SalaryMin)
	}
	if f.Search != "" {
		c.add("(title ILIKE $? OR description ILIKE $? OR company ILIKE $?)",
			like(f.Search), like(f.Search), like(f.Search))
	}
	return c
}

// FindImportedJobs returns imported jobs matching f, newest at the
// source first, capped at importedJobCap rows.
func (s *Store) FindImportedJobs(ctx context.Context, f model.ImportedFilters) ([]model.ImportedJob, error) {
	c := importedConds(f)
	sql := `SELECT id, source, external_id, title, description, company, location,
	               latitude, longitude, salary_min, salary_max, salary_currency,
	               job_type, sector, experience, category, country,
	               apply_url, redirect_url, source_created, fetched_at,
	               is_active, is_premium, created_at, updated_at, expires_at
	        FROM imported_jobs
	        WHERE ` + c.where() + `
	        ORDER BY source_created DESC
	        LIMIT ` + fmt.Sprint(importedJobCap)

	rows, err := s.pool.Query(ctx, sql, c.args...)
	if err != nil {
		return nil, fmt.Errorf("findImportedJobs query: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.ImportedJob, 0)
	for rows.Next() {
		var j model.ImportedJob
		if err := rows.Scan(
			&j.ID, &j.Source, &j.ExternalID, &j.Title, &j.Description, &j.Company, &j.Location,
			&j.Latitude, &j.Longitude, &j.SalaryMin, &j.SalaryMax, &j.SalaryCurrency,
			&j.JobType, &j.Sector, &j.Experience, &j.Category, &j.Country,
			&j.ApplyURL, &j.RedirectURL, &j.SourceCreated, &j.FetchedAt,
			&j.IsActive, &j.IsPremium, &j.CreatedAt, &j.UpdatedAt, &j.ExpiresAt,
		); err != nil {
			return nil, fmt.Errorf("findImportedJobs scan: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// CountImportedJobs returns the number of active imported jobs
// matching f.
func (s *Store) CountImportedJobs(ctx context.Context, f model.ImportedFilters) (int, error) {
	c := importedConds(f)
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM imported_jobs WHERE `+c.where(), c.args...,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("countImportedJobs: %w", err)
	}
	return n, nil
}

// UpsertImportedJob inserts or refreshes a row keyed by
// (source, external_id). Re-importing an already known record updates
// it in place and reports saved = false. A unique-violation raised by a
// racing insert is absorbed as the same no-op.
func (s *Store) UpsertImportedJob(ctx context.Context, j model.ImportedJob) (saved bool, err error) {
	var inserted bool
	err = s.pool.QueryRow(ctx,
		`INSERT INTO imported_jobs (
		   source, external_id, title, description, company, location,
		   latitude, longitude, salary_min, salary_max, salary_currency,
		   job_type, sector, experience, category, country,
		   apply_url, redirect_url, source_created, fetched_at,
		   is_active, is_premium, expires_at
		 ) VALUES (
		   $1, $2, $3, $4, $5, $6,
		   $7, $8, $9, $10, $11,
		   $12, $13, $14, $15, $16,
		   $17, $18, $19, $20,
		   $21, $22, $23
		 )
		 ON CONFLICT (source, external_id) DO UPDATE SET
		   title = EXCLUDED.title,
		   description = EXCLUDED.description,
		   company = EXCLUDED.company,
		   location = EXCLUDED.location,
		   latitude = EXCLUDED.latitude,
		   longitude = EXCLUDED.longitude,
		   salary_min = EXCLUDED.salary_min,
		   salary_max = EXCLUDED.salary_max,
		   salary_currency = EXCLUDED.salary_currency,
		   job_type = EXCLUDED.job_type,
		   sector = EXCLUDED.sector,
		   experience = EXCLUDED.experience,
		   category = EXCLUDED.category,
		   apply_url = EXCLUDED.apply_url,
		   redirect_url = EXCLUDED.redirect_url,
		   fetched_at = EXCLUDED.fetched_at,
		   is_active = EXCLUDED.is_active,
		   is_premium = EXCLUDED.is_premium,
		   expires_at = EXCLUDED.expires_at,
		   updated_at = NOW()
		 RETURNING (xmax = 0)`,
		j.Source, j.ExternalID, j.Title, j.Description, j.Company, j.Location,
		j.Latitude, j.Longitude, j.SalaryMin, j.SalaryMax, j.SalaryCurrency,
		j.JobType, j.Sector, j.Experience, j.Category, j.Country,
		j.ApplyURL, j.RedirectURL, j.SourceCreated, j.FetchedAt,
		j.IsActive, j.IsPremium, j.ExpiresAt,
	).Scan(&inserted)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Lost a race with another inserter; the row exists.
			return false, nil
		}
		return false, fmt.Errorf("upsertImportedJob: %w", err)
	}
	return inserted, nil
}
