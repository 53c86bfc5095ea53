// Package store implements the PostgreSQL persistence layer for the
// four listing collections. It is the sole writer-of-record; the marker
// aggregator only reads through it.
package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// importedJobCap bounds any single imported-jobs fetch. The collection
// grows with every sync cycle; an unfiltered read must not pull it whole.
const importedJobCap = 1000

// Bounds is a normalized viewport rectangle (min <= max on both axes).
type Bounds struct {
	MinLat float64
	MinLng float64
	MaxLat float64
	MaxLng float64
}

// JobQuery filters the job_listings collection. Zero values mean
// "no filter". Limit == 0 means no explicit limit.
type JobQuery struct {
	Search       string
	Sector       string
	Experience   string
	WorkType     string
	Bounds       *Bounds
	CreatedAfter *time.Time
	Offset       int
	Limit        int
}

// CvQuery filters the cv_listings collection.
type CvQuery struct {
	Search       string
	Bounds       *Bounds
	CreatedAfter *time.Time
	Offset       int
	Limit        int
}

// GoldQuery filters the gold_listings collection.
type GoldQuery struct {
	Search       string
	Bounds       *Bounds
	CreatedAfter *time.Time
	Offset       int
	Limit        int
}

// Store wraps a pgx pool with typed queries per collection.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store backed by pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// cond accumulates WHERE clauses with positional arguments.
type cond struct {
	clauses []string
	args    []any
}

func (c *cond) add(clause string, args ...any) {
	n := len(c.args)
	for i := range args {
		clause = strings.Replace(clause, "$?", fmt.Sprintf("$%d", n+i+1), 1)
	}
	c.clauses = append(c.clauses, clause)
	c.args = append(c.args, args...)
}

func (c *cond) where() string {
	return strings.Join(c.clauses, " AND ")
}

func pageClause(offset, limit int) string {
	s := ""
	if limit > 0 {
		s += fmt.Sprintf(" LIMIT %d", limit)
	}
	if offset > 0 {
		s += fmt.Sprintf(" OFFSET %d", offset)
	}
	return s
}

// like wraps s for a case-insensitive substring match.
func like(s string) string {
	return "%" + s + "%"
}
