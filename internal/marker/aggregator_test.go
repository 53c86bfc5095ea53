package marker_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yukselpamuk83-a11y/teppekgeo/internal/marker"
	"github.com/yukselpamuk83-a11y/teppekgeo/internal/model"
	"github.com/yukselpamuk83-a11y/teppekgeo/internal/store"
)

// fakeStore serves listings from memory, reproducing the live-only
// predicate, search matching, bounds and pagination the SQL layer
// applies.
type fakeStore struct {
	jobs []model.JobListing
	cvs  []model.CvListing
	gold []model.GoldListing

	importedCount    int
	importedCountErr error

	lastJobQuery store.JobQuery
	failNative   bool
}

var errStore = errors.New("store unreachable")

func live(isActive bool, expiresAt time.Time) bool {
	return isActive && expiresAt.After(time.Now())
}

func inBounds(b *store.Bounds, lat, lng *float64) bool {
	if b == nil {
		return true
	}
	if lat == nil || lng == nil {
		return false
	}
	return *lat >= b.MinLat && *lat <= b.MaxLat && *lng >= b.MinLng && *lng <= b.MaxLng
}

func slicePage(n, offset, limit int) (int, int) {
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}

func (f *fakeStore) matchJobs(q store.JobQuery) []model.JobListing {
	out := []model.JobListing{}
	for _, j := range f.jobs {
		if !live(j.IsActive, j.ExpiresAt) || !inBounds(q.Bounds, j.Latitude, j.Longitude) {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(j.Title+" "+j.Description+" "+j.Company), strings.ToLower(q.Search)) {
			continue
		}
		out = append(out, j)
	}
	return out
}

func (f *fakeStore) FindJobs(_ context.Context, q store.JobQuery) ([]model.JobListing, error) {
	if f.failNative {
		return nil, errStore
	}
	f.lastJobQuery = q
	all := f.matchJobs(q)
	lo, hi := slicePage(len(all), q.Offset, q.Limit)
	return all[lo:hi], nil
}

func (f *fakeStore) CountJobs(_ context.Context, q store.JobQuery) (int, error) {
	if f.failNative {
		return 0, errStore
	}
	return len(f.matchJobs(q)), nil
}

func (f *fakeStore) FindCVs(_ context.Context, q store.CvQuery) ([]model.CvListing, error) {
	if f.failNative {
		return nil, errStore
	}
	out := []model.CvListing{}
	for _, cv := range f.cvs {
		if live(cv.IsActive, cv.ExpiresAt) && inBounds(q.Bounds, cv.Latitude, cv.Longitude) {
			if q.Search != "" && !strings.Contains(strings.ToLower(cv.Title), strings.ToLower(q.Search)) {
				continue
			}
			out = append(out, cv)
		}
	}
	lo, hi := slicePage(len(out), q.Offset, q.Limit)
	return out[lo:hi], nil
}

func (f *fakeStore) CountCVs(ctx context.Context, q store.CvQuery) (int, error) {
	all, err := f.FindCVs(ctx, store.CvQuery{Search: q.Search, Bounds: q.Bounds})
	return len(all), err
}

func (f *fakeStore) FindGold(_ context.Context, q store.GoldQuery) ([]model.GoldListing, error) {
	if f.failNative {
		return nil, errStore
	}
	out := []model.GoldListing{}
	for _, g := range f.gold {
		if live(g.IsActive, g.ExpiresAt) && inBounds(q.Bounds, g.Latitude, g.Longitude) {
			if q.Search != "" && !strings.Contains(strings.ToLower(g.Title), strings.ToLower(q.Search)) {
				continue
			}
			out = append(out, g)
		}
	}
	lo, hi := slicePage(len(out), q.Offset, q.Limit)
	return out[lo:hi], nil
}

func (f *fakeStore) CountGold(ctx context.Context, q store.GoldQuery) (int, error) {
	all, err := f.FindGold(ctx, store.GoldQuery{Search: q.Search, Bounds: q.Bounds})
	return len(all), err
}

func (f *fakeStore) CountImportedJobs(_ context.Context, _ model.ImportedFilters) (int, error) {
	if f.importedCountErr != nil {
		return 0, f.importedCountErr
	}
	return f.importedCount, nil
}

// fakeImported stands in for the bucket.
type fakeImported struct {
	jobs []model.ImportedJob
	err  error
}

func (f *fakeImported) GetJobs(_ context.Context, filters model.ImportedFilters) ([]model.ImportedJob, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.ImportedJob{}
	for _, j := range f.jobs {
		if filters.Search != "" && !strings.Contains(strings.ToLower(j.Title), strings.ToLower(filters.Search)) {
			continue
		}
		out = append(out, j)
	}
	return out, nil
}

// ── Fixtures ───────────────────────────────────────────────────────────────

func activeJob(id, title string, lat, lng float64) model.JobListing {
	return model.JobListing{
		ID:        id,
		Title:     title,
		Latitude:  fptr(lat),
		Longitude: fptr(lng),
		IsActive:  true,
		ExpiresAt: time.Now().Add(time.Hour),
		User:      &model.User{},
	}
}

func expiredJob(id, title string) model.JobListing {
	j := activeJob(id, title, 39.9, 32.8)
	j.ExpiresAt = time.Now().Add(-time.Hour)
	return j
}

func importedJob(extID, title string, lat, lng float64) model.ImportedJob {
	return model.ImportedJob{
		ExternalID:    extID,
		Title:         title,
		Latitude:      fptr(lat),
		Longitude:     fptr(lng),
		SourceCreated: time.Now(),
	}
}

// ── Tests ──────────────────────────────────────────────────────────────────

func TestAggregate_ImportedFailureDegradesGracefully(t *testing.T) {
	st := &fakeStore{jobs: []model.JobListing{activeJob("j1", "Backend Developer", 41, 29)}}
	agg := marker.NewAggregator(st, &fakeImported{err: errors.New("bucket down")})

	res, err := agg.Aggregate(context.Background(), marker.Criteria{Page: 1, Limit: 50})
	if err != nil {
		t.Fatalf("expected graceful degradation, got error: %v", err)
	}
	if res.Counts.External != 0 {
		t.Errorf("counts.external = %d, want 0", res.Counts.External)
	}
	if len(res.Markers) != 1 || res.Markers[0].ID != "j1" {
		t.Errorf("native markers missing: %+v", res.Markers)
	}
}

func TestAggregate_NativeFailureFailsRequest(t *testing.T) {
	st := &fakeStore{failNative: true}
	agg := marker.NewAggregator(st, &fakeImported{})

	if _, err := agg.Aggregate(context.Background(), marker.Criteria{Page: 1, Limit: 50}); err == nil {
		t.Fatal("expected error when the native store fails")
	}
}

func TestAggregate_MarkerIDsUnique(t *testing.T) {
	st := &fakeStore{
		jobs:          []model.JobListing{activeJob("42", "Backend Developer", 41, 29)},
		importedCount: 1,
	}
	imported := &fakeImported{jobs: []model.ImportedJob{importedJob("42", "Plumber", 48, 2)}}
	agg := marker.NewAggregator(st, imported)

	res, err := agg.Aggregate(context.Background(), marker.Criteria{Page: 1, Limit: 50})
	if err != nil {
		t.Fatal(err)
	}

	seen := map[string]bool{}
	for _, m := range res.Markers {
		if seen[m.ID] {
			t.Fatalf("duplicate marker id %q", m.ID)
		}
		seen[m.ID] = true
	}
	if !seen["42"] || !seen["external-42"] {
		t.Errorf("expected native '42' and 'external-42', got %v", seen)
	}
}

func TestAggregate_SingleTypePagination(t *testing.T) {
	st := &fakeStore{jobs: []model.JobListing{
		activeJob("j1", "Developer A", 41, 29),
		activeJob("j2", "Developer B", 41, 29),
		activeJob("j3", "Developer C", 41, 29),
	}}
	agg := marker.NewAggregator(st, &fakeImported{})

	res, err := agg.Aggregate(context.Background(), marker.Criteria{
		Types: []model.MarkerType{model.TypeJob},
		Page:  2,
		Limit: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 3 {
		t.Errorf("total = %d, want exact live count 3", res.Total)
	}
	if len(res.Markers) != 1 || res.Markers[0].ID != "j3" {
		t.Errorf("page 2 markers = %+v, want only j3", res.Markers)
	}
	if res.TotalPages != 2 {
		t.Errorf("totalPages = %d, want 2", res.TotalPages)
	}
}

func TestAggregate_SingleTypeExternalUsesStoreCount(t *testing.T) {
	// The fetch is capped, so the slice length undercounts a large
	// partition; the total must come from the store count instead.
	st := &fakeStore{importedCount: 1500}
	imp := &fakeImported{jobs: []model.ImportedJob{
		importedJob("1", "Plumber", 48.85, 2.35),
		importedJob("2", "Electrician", 48.86, 2.36),
	}}
	agg := marker.NewAggregator(st, imp)

	res, err := agg.Aggregate(context.Background(), marker.Criteria{
		Types: []model.MarkerType{model.TypeExternal},
		Page:  1, Limit: 50,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Markers) != 2 {
		t.Fatalf("markers = %d, want 2", len(res.Markers))
	}
	if res.Total != 1500 || res.Counts.External != 1500 {
		t.Errorf("total/counts.external = %d/%d, want 1500/1500", res.Total, res.Counts.External)
	}
	if res.TotalPages != 30 {
		t.Errorf("totalPages = %d, want 30", res.TotalPages)
	}
}

func TestAggregate_ZoomCapNarrowsSingleTypeLimit(t *testing.T) {
	st := &fakeStore{}
	agg := marker.NewAggregator(st, &fakeImported{})

	_, err := agg.Aggregate(context.Background(), marker.Criteria{
		Types:  []model.MarkerType{model.TypeJob},
		Bounds: &store.Bounds{MinLat: 40, MaxLat: 42, MinLng: 28, MaxLng: 30},
		Zoom:   6,
		Page:   1,
		Limit:  600,
	})
	if err != nil {
		t.Fatal(err)
	}
	if st.lastJobQuery.Limit != 500 {
		t.Errorf("query limit at zoom 6 = %d, want narrowed to 500", st.lastJobQuery.Limit)
	}
}

func TestAggregate_MultiTypeTotalToleratesDroppedMarkers(t *testing.T) {
	noCoords := model.JobListing{
		ID:        "j-nowhere",
		Title:     "Ghost",
		IsActive:  true,
		ExpiresAt: time.Now().Add(time.Hour),
		User:      &model.User{},
	}
	st := &fakeStore{jobs: []model.JobListing{activeJob("j1", "Developer", 41, 29), noCoords}}
	agg := marker.NewAggregator(st, &fakeImported{})

	res, err := agg.Aggregate(context.Background(), marker.Criteria{Page: 1, Limit: 50})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 2 {
		t.Errorf("total = %d, want 2 (count query ignores coordinates)", res.Total)
	}
	if len(res.Markers) != 1 {
		t.Errorf("markers = %d, want 1 (coordinate-less row dropped)", len(res.Markers))
	}
}

func TestAggregate_EndToEndScenario(t *testing.T) {
	st := &fakeStore{
		jobs: []model.JobListing{
			activeJob("j-live", "Gopher Wrangler", 41.0082, 28.9784),
			expiredJob("j-dead", "Gopher Wrangler Emeritus"),
		},
		importedCount: 1,
	}
	imported := &fakeImported{jobs: []model.ImportedJob{importedJob("777", "Plumber", 48.85, 2.35)}}
	agg := marker.NewAggregator(st, imported)
	ctx := context.Background()

	// type=job: only the live native job.
	res, err := agg.Aggregate(ctx, marker.Criteria{
		Types: []model.MarkerType{model.TypeJob},
		Page:  1, Limit: 50,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Markers) != 1 || res.Markers[0].ID != "j-live" {
		t.Fatalf("type=job markers = %+v, want only j-live", res.Markers)
	}

	// all types: live native job and the imported job, never the expired one.
	res, err = agg.Aggregate(ctx, marker.Criteria{Page: 1, Limit: 50})
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]bool{}
	for _, m := range res.Markers {
		got[m.ID] = true
	}
	if !got["j-live"] || !got["external-777"] || got["j-dead"] {
		t.Errorf("all-types markers = %v, want j-live and external-777 only", got)
	}

	// all types with a search matching only the live job's title.
	res, err = agg.Aggregate(ctx, marker.Criteria{Search: "Gopher Wrangler", Page: 1, Limit: 50})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Markers) != 1 || res.Markers[0].ID != "j-live" {
		t.Errorf("search markers = %+v, want only j-live", res.Markers)
	}
}
