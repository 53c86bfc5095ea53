package store

import (
	"context"
	"fmt"

	"github.com/yukselpamuk83-a11y/teppekgeo/internal/model"
)

func cvConds(q CvQuery) *cond {
	c := &cond{}
	c.add("cv.is_active = true")
	c.add("cv.expires_at > NOW()")
	if q.Search != "" {
		c.add("(cv.title ILIKE $? OR cv.description ILIKE $? OR cv.profession ILIKE $? OR cv.skills ILIKE $?)",
			like(q.Search), like(q.Search), like(q.Search), like(q.Search))
	}
	if q.Bounds != nil {
		c.add("cv.latitude >= $? AND cv.latitude <= $?", q.Bounds.MinLat, q.Bounds.MaxLat)
		c.add("cv.longitude >= $? AND cv.longitude <= $?", q.Bounds.MinLng, q.Bounds.MaxLng)
	}
	if q.CreatedAfter != nil {
		c.add("cv.created_at >= $?", *q.CreatedAfter)
	}
	return c
}

// FindCVs returns live CV listings matching q, premium first then
// newest first.
func (s *Store) FindCVs(ctx context.Context, q CvQuery) ([]model.CvListing, error) {
	c := cvConds(q)
	sql := `SELECT cv.id, cv.title, cv.description, cv.profession, cv.skills,
	               cv.experience, cv.education, cv.languages, cv.location,
	               cv.latitude, cv.longitude,
	               cv.contact_email, cv.contact_phone, cv.linkedin_url, cv.portfolio_url,
	               cv.is_active, cv.is_premium, cv.created_at, cv.updated_at, cv.expires_at,
	               cv.user_id, u.first_name, u.last_name
	        FROM cv_listings cv
	        JOIN users u ON u.id = cv.user_id
	        WHERE ` + c.where() + `
	        ORDER BY cv.is_premium DESC, cv.created_at DESC` + pageClause(q.Offset, q.Limit)

	rows, err := s.pool.Query(ctx, sql, c.args...)
	if err != nil {
		return nil, fmt.Errorf("findCVs query: %w", err)
	}
	defer rows.Close()

	cvs := make([]model.CvListing, 0)
	for rows.Next() {
		var cvl model.CvListing
		var u model.User
		if err := rows.Scan(
			&cvl.ID, &cvl.Title, &cvl.Description, &cvl.Profession, &cvl.Skills,
			&cvl.Experience, &cvl.Education, &cvl.Languages, &cvl.Location,
			&cvl.Latitude, &cvl.Longitude,
			&cvl.ContactEmail, &cvl.ContactPhone, &cvl.LinkedinURL, &cvl.PortfolioURL,
			&cvl.IsActive, &cvl.IsPremium, &cvl.CreatedAt, &cvl.UpdatedAt, &cvl.ExpiresAt,
			&cvl.UserID, &u.FirstName, &u.LastName,
		); err != nil {
			return nil, fmt.Errorf("findCVs scan: %w", err)
		}
		cvl.User = &u
		cvs = append(cvs, cvl)
	}
	return cvs, rows.Err()
}

// CountCVs returns the number of live CV listings matching q.
func (s *Store) CountCVs(ctx context.Context, q CvQuery) (int, error) {
	q.Offset, q.Limit = 0, 0
	c := cvConds(q)
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM cv_listings cv WHERE `+c.where(), c.args...,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("countCVs: %w", err)
	}
	return n, nil
}
