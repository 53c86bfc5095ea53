package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yukselpamuk83-a11y/teppekgeo/internal/model"
)

// listingLifetime is applied when a new native listing carries no
// explicit expiry.
const listingLifetime = 30 * 24 * time.Hour

// CreateJobListing inserts a new job listing owned by userID and
// returns its generated id.
func (s *Store) CreateJobListing(ctx context.Context, userID string, j model.JobListing) (string, error) {
	id := uuid.NewString()
	expires := j.ExpiresAt
	if expires.IsZero() {
		expires = time.Now().Add(listingLifetime)
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO job_listings (
		   id, title, description, company, position, location,
		   latitude, longitude, salary_min, salary_max, salary_currency,
		   sector, experience, work_type, contact_email, contact_phone, apply_url,
		   is_active, is_premium, expires_at, user_id
		 ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,true,$18,$19,$20)`,
		id, j.Title, j.Description, j.Company, j.Position, j.Location,
		j.Latitude, j.Longitude, j.SalaryMin, j.SalaryMax, j.SalaryCurrency,
		j.Sector, j.Experience, j.WorkType, j.ContactEmail, j.ContactPhone, j.ApplyURL,
		j.IsPremium, expires, userID,
	)
	if err != nil {
		return "", fmt.Errorf("createJobListing: %w", err)
	}
	return id, nil
}

// CreateCvListing inserts a new CV listing owned by userID and returns
// its generated id.
func (s *Store) CreateCvListing(ctx context.Context, userID string, cv model.CvListing) (string, error) {
	id := uuid.NewString()
	expires := cv.ExpiresAt
	if expires.IsZero() {
		expires = time.Now().Add(listingLifetime)
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO cv_listings (
		   id, title, description, profession, skills, experience,
		   education, languages, location, latitude, longitude,
		   contact_email, contact_phone, linkedin_url, portfolio_url,
		   is_active, is_premium, expires_at, user_id
		 ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,true,$16,$17,$18)`,
		id, cv.Title, cv.Description, cv.Profession, cv.Skills, cv.Experience,
		cv.Education, cv.Languages, cv.Location, cv.Latitude, cv.Longitude,
		cv.ContactEmail, cv.ContactPhone, cv.LinkedinURL, cv.PortfolioURL,
		cv.IsPremium, expires, userID,
	)
	if err != nil {
		return "", fmt.Errorf("createCvListing: %w", err)
	}
	return id, nil
}

// CreateGoldListing inserts a new gold listing owned by userID and
// returns its generated id.
func (s *Store) CreateGoldListing(ctx context.Context, userID string, g model.GoldListing) (string, error) {
	id := uuid.NewString()
	expires := g.ExpiresAt
	if expires.IsZero() {
		expires = time.Now().Add(listingLifetime)
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO gold_listings (
		   id, title, description, location, latitude, longitude,
		   contact_email, contact_phone, website, priority,
		   is_active, expires_at, user_id
		 ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,true,$11,$12)`,
		id, g.Title, g.Description, g.Location, g.Latitude, g.Longitude,
		g.ContactEmail, g.ContactPhone, g.Website, g.Priority,
		expires, userID,
	)
	if err != nil {
		return "", fmt.Errorf("createGoldListing: %w", err)
	}
	return id, nil
}
