package store

import (
	"context"
	"fmt"

	"github.com/yukselpamuk83-a11y/teppekgeo/internal/model"
)

// jobConds builds WHERE clauses against the aliased job_listings table
// ("j."), so the joined users columns never shadow them.
func jobConds(q JobQuery) *cond {
	c := &cond{}
	c.add("j.is_active = true")
	c.add("j.expires_at > NOW()")
	if q.Search != "" {
		c.add("(j.title ILIKE $? OR j.description ILIKE $? OR j.company ILIKE $?)",
			like(q.Search), like(q.Search), like(q.Search))
	}
	if q.Sector != "" {
		c.add("j.sector ILIKE $?", like(q.Sector))
	}
	if q.Experience != "" {
		c.add("j.experience ILIKE $?", like(q.Experience))
	}
	if q.WorkType != "" {
		c.add("j.work_type ILIKE $?", like(q.WorkType))
	}
	if q.Bounds != nil {
		c.add("j.latitude >= $? AND j.latitude <= $?", q.Bounds.MinLat, q.Bounds.MaxLat)
		c.add("j.longitude >= $? AND j.longitude <= $?", q.Bounds.MinLng, q.Bounds.MaxLng)
	}
	if q.CreatedAfter != nil {
		c.add("j.created_at >= $?", *q.CreatedAfter)
	}
	return c
}

// FindJobs returns live job listings matching q, premium first then
// newest first, with the poster's display-name fields attached.
func (s *Store) FindJobs(ctx context.Context, q JobQuery) ([]model.JobListing, error) {
	c := jobConds(q)
	sql := `SELECT j.id, j.title, j.description, j.company, j.position, j.location,
	               j.latitude, j.longitude, j.salary_min, j.salary_max, j.salary_currency,
	               j.sector, j.experience, j.work_type,
	               j.contact_email, j.contact_phone, j.apply_url,
	               j.is_active, j.is_premium, j.created_at, j.updated_at, j.expires_at,
	               j.user_id, u.first_name, u.last_name, u.company_name
	        FROM job_listings j
	        JOIN users u ON u.id = j.user_id
	        WHERE ` + c.where() + `
	        ORDER BY j.is_premium DESC, j.created_at DESC` + pageClause(q.Offset, q.Limit)

	rows, err := s.pool.Query(ctx, sql, c.args...)
	if err != nil {
		return nil, fmt.Errorf("findJobs query: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.JobListing, 0)
	for rows.Next() {
		var j model.JobListing
		var u model.User
		if err := rows.Scan(
			&j.ID, &j.Title, &j.Description, &j.Company, &j.Position, &j.Location,
			&j.Latitude, &j.Longitude, &j.SalaryMin, &j.SalaryMax, &j.SalaryCurrency,
			&j.Sector, &j.Experience, &j.WorkType,
			&j.ContactEmail, &j.ContactPhone, &j.ApplyURL,
			&j.IsActive, &j.IsPremium, &j.CreatedAt, &j.UpdatedAt, &j.ExpiresAt,
			&j.UserID, &u.FirstName, &u.LastName, &u.CompanyName,
		); err != nil {
			return nil, fmt.Errorf("findJobs scan: %w", err)
		}
		j.User = &u
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// CountJobs returns the number of live job listings matching q,
// ignoring pagination.
func (s *Store) CountJobs(ctx context.Context, q JobQuery) (int, error) {
	q.Offset, q.Limit = 0, 0
	c := jobConds(q)
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM job_listings j WHERE `+c.where(), c.args...,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("countJobs: %w", err)
	}
	return n, nil
}
