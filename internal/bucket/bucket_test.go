package bucket_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yukselpamuk83-a11y/teppekgeo/internal/bucket"
	"github.com/yukselpamuk83-a11y/teppekgeo/internal/model"
)

// spySource counts store hits and returns a canned result.
type spySource struct {
	calls int
	jobs  []model.ImportedJob
	err   error
}

func (s *spySource) FindImportedJobs(_ context.Context, _ model.ImportedFilters) ([]model.ImportedJob, error) {
	s.calls++
	return s.jobs, s.err
}

func TestGetJobs_SecondCallInsideTTLHitsCache(t *testing.T) {
	src := &spySource{jobs: []model.ImportedJob{{ExternalID: "1"}}}
	b := bucket.New(src)

	ctx := context.Background()
	f := model.ImportedFilters{Country: "us"}

	if _, err := b.GetJobs(ctx, f); err != nil {
		t.Fatalf("first GetJobs: %v", err)
	}
	jobs, err := b.GetJobs(ctx, f)
	if err != nil {
		t.Fatalf("second GetJobs: %v", err)
	}

	if src.calls != 1 {
		t.Errorf("store queried %d times, want 1", src.calls)
	}
	if len(jobs) != 1 || jobs[0].ExternalID != "1" {
		t.Errorf("unexpected cached result: %+v", jobs)
	}
}

func TestGetJobs_ExpiredEntryRefreshes(t *testing.T) {
	src := &spySource{}
	now := time.Now()
	clock := func() time.Time { return now }
	b := bucket.New(src, bucket.WithClock(func() time.Time { return clock() }))

	ctx := context.Background()
	f := model.ImportedFilters{Country: "us"}

	if _, err := b.GetJobs(ctx, f); err != nil {
		t.Fatalf("first GetJobs: %v", err)
	}

	// Advance past the TTL; the entry must be treated as absent.
	now = now.Add(bucket.DefaultTTL + time.Second)

	if _, err := b.GetJobs(ctx, f); err != nil {
		t.Fatalf("second GetJobs: %v", err)
	}
	if src.calls != 2 {
		t.Errorf("store queried %d times after expiry, want 2", src.calls)
	}
}

func TestGetJobs_DistinctFiltersGetDistinctEntries(t *testing.T) {
	src := &spySource{}
	b := bucket.New(src)
	ctx := context.Background()

	if _, err := b.GetJobs(ctx, model.ImportedFilters{Country: "us"}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.GetJobs(ctx, model.ImportedFilters{Country: "us", Category: "tech"}); err != nil {
		t.Fatal(err)
	}

	if src.calls != 2 {
		t.Errorf("store queried %d times, want 2 (no superset reuse)", src.calls)
	}
	if size, _ := b.Stats(); size != 2 {
		t.Errorf("cache size = %d, want 2", size)
	}
}

func TestClearCache_ForcesRequery(t *testing.T) {
	src := &spySource{}
	b := bucket.New(src)
	ctx := context.Background()
	f := model.ImportedFilters{Search: "go"}

	if _, err := b.GetJobs(ctx, f); err != nil {
		t.Fatal(err)
	}
	b.ClearCache()
	if _, err := b.GetJobs(ctx, f); err != nil {
		t.Fatal(err)
	}

	if src.calls != 2 {
		t.Errorf("store queried %d times after ClearCache, want 2", src.calls)
	}
	if size, keys := b.Stats(); size != 1 || len(keys) != 1 {
		t.Errorf("cache stats after requery = (%d, %v), want one entry", size, keys)
	}
}

func TestGetJobs_SourceErrorNotCached(t *testing.T) {
	src := &spySource{err: errors.New("store down")}
	b := bucket.New(src)
	ctx := context.Background()

	if _, err := b.GetJobs(ctx, model.ImportedFilters{}); err == nil {
		t.Fatal("expected error from failing source")
	}
	if size, _ := b.Stats(); size != 0 {
		t.Errorf("failed fetch was cached, size = %d", size)
	}

	src.err = nil
	if _, err := b.GetJobs(ctx, model.ImportedFilters{}); err != nil {
		t.Fatalf("retry after recovery: %v", err)
	}
	if src.calls != 2 {
		t.Errorf("store queried %d times, want 2", src.calls)
	}
}
