package store

import (
	"context"
	"fmt"

	"github.com/yukselpamuk83-a11y/teppekgeo/internal/model"
)

func goldConds(q GoldQuery) *cond {
	c := &cond{}
	c.add("g.is_active = true")
	c.add("g.expires_at > NOW()")
	if q.Search != "" {
		c.add("(g.title ILIKE $? OR g.description ILIKE $?)",
			like(q.Search), like(q.Search))
	}
	if q.Bounds != nil {
		c.add("g.latitude >= $? AND g.latitude <= $?", q.Bounds.MinLat, q.Bounds.MaxLat)
		c.add("g.longitude >= $? AND g.longitude <= $?", q.Bounds.MinLng, q.Bounds.MaxLng)
	}
	if q.CreatedAfter != nil {
		c.add("g.created_at >= $?", *q.CreatedAfter)
	}
	return c
}

// FindGold returns live gold listings matching q, ordered by explicit
// priority then recency.
func (s *Store) FindGold(ctx context.Context, q GoldQuery) ([]model.GoldListing, error) {
	c := goldConds(q)
	sql := `SELECT g.id, g.title, g.description, g.location,
	               g.latitude, g.longitude,
	               g.contact_email, g.contact_phone, g.website, g.priority,
	               g.is_active, g.created_at, g.updated_at, g.expires_at,
	               g.user_id, u.first_name, u.last_name, u.company_name
	        FROM gold_listings g
	        JOIN users u ON u.id = g.user_id
	        WHERE ` + c.where() + `
	        ORDER BY g.priority DESC, g.created_at DESC` + pageClause(q.Offset, q.Limit)

	rows, err := s.pool.Query(ctx, sql, c.args...)
	if err != nil {
		return nil, fmt.Errorf("findGold query: %w", err)
	}
	defer rows.Close()

	gold := make([]model.GoldListing, 0)
	for rows.Next() {
		var g model.GoldListing
		var u model.User
		if err := rows.Scan(
			&g.ID, &g.Title, &g.Description, &g.Location,
			&g.Latitude, &g.Longitude,
			&g.ContactEmail, &g.ContactPhone, &g.Website, &g.Priority,
			&g.IsActive, &g.CreatedAt, &g.UpdatedAt, &g.ExpiresAt,
			&g.UserID, &u.FirstName, &u.LastName, &u.CompanyName,
		); err != nil {
			return nil, fmt.Errorf("findGold scan: %w", err)
		}
		g.User = &u
		gold = append(gold, g)
	}
	return gold, rows.Err()
}

// CountGold returns the number of live gold listings matching q.
func (s *Store) CountGold(ctx context.Context, q GoldQuery) (int, error) {
	q.Offset, q.Limit = 0, 0
	c := goldConds(q)
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM gold_listings g WHERE `+c.where(), c.args...,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("countGold: %w", err)
	}
	return n, nil
}
