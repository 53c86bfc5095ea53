// Package bucket implements the TTL memoizing cache that sits in front
// of the imported-jobs collection. Identical filter sets within the TTL
// window are served from memory without touching the store; the sync
// service clears the whole bucket after every write cycle so fresh
// imports are visible immediately.
package bucket

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yukselpamuk83-a11y/teppekgeo/internal/model"
)

// DefaultTTL bounds staleness between sync-driven invalidations.
const DefaultTTL = 5 * time.Minute

// Source is the query the bucket shields. Satisfied by *store.Store.
type Source interface {
	FindImportedJobs(ctx context.Context, f model.ImportedFilters) ([]model.ImportedJob, error)
}

type entry struct {
	jobs      []model.ImportedJob
	fetchedAt time.Time
}

// Bucket memoizes imported-job queries per exact filter set. Distinct
// filter combinations never share entries: a cached {country:us} result
// does not satisfy {country:us, category:tech}. Filter combinations in
// practice are few and stable, so the duplication stays small.
type Bucket struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
}

// Option configures a Bucket.
type Option func(*Bucket)

// WithTTL overrides the default entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(b *Bucket) { b.ttl = ttl }
}

// WithClock overrides the time source. Tests use this to expire entries
// without sleeping.
func WithClock(now func() time.Time) Option {
	return func(b *Bucket) { b.now = now }
}

// New returns a Bucket reading through to source.
func New(source Source, opts ...Option) *Bucket {
	b := &Bucket{
		source:  source,
		ttl:     DefaultTTL,
		now:     time.Now,
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// GetJobs returns the imported jobs matching f, from cache when a
// non-expired entry exists for the exact filter set, otherwise from the
// store. Expired entries are treated as absent and replaced whole;
// a concurrent reader only ever sees a complete (jobs, fetchedAt) pair.
func (b *Bucket) GetJobs(ctx context.Context, f model.ImportedFilters) ([]model.ImportedJob, error) {
	key := cacheKey(f)

	b.mu.RLock()
	e, ok := b.entries[key]
	b.mu.RUnlock()
	if ok && b.now().Sub(e.fetchedAt) < b.ttl {
		return e.jobs, nil
	}

	jobs, err := b.source.FindImportedJobs(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("bucket fetch: %w", err)
	}

	b.mu.Lock()
	b.entries[key] = entry{jobs: jobs, fetchedAt: b.now()}
	b.mu.Unlock()

	return jobs, nil
}

// ClearCache drops every entry. Called by the sync service after each
// write cycle.
func (b *Bucket) ClearCache() {
	b.mu.Lock()
	b.entries = make(map[string]entry)
	b.mu.Unlock()
}

// Stats reports the current entry count and keys, for the operational
// surface of the imported-jobs endpoint.
func (b *Bucket) Stats() (size int, keys []string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys = make([]string, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	return len(b.entries), keys
}

// cacheKey canonicalizes f with a fixed field order so equal filter
// sets always map to the same entry.
func cacheKey(f model.ImportedFilters) string {
	return fmt.Sprintf("country=%s|category=%s|location=%s|salaryMin=%g|search=%s",
		f.Country, f.Category, f.Location, f.SalaryMin, f.Search)
}
