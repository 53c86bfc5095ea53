package marker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yukselpamuk83-a11y/teppekgeo/internal/model"
	"github.com/yukselpamuk83-a11y/teppekgeo/internal/store"
)

// ListingStore is the native-collection read surface the aggregator
// needs. Satisfied by *store.Store.
type ListingStore interface {
	FindJobs(ctx context.Context, q store.JobQuery) ([]model.JobListing, error)
	CountJobs(ctx context.Context, q store.JobQuery) (int, error)
	FindCVs(ctx context.Context, q store.CvQuery) ([]model.CvListing, error)
	CountCVs(ctx context.Context, q store.CvQuery) (int, error)
	FindGold(ctx context.Context, q store.GoldQuery) ([]model.GoldListing, error)
	CountGold(ctx context.Context, q store.GoldQuery) (int, error)
	CountImportedJobs(ctx context.Context, f model.ImportedFilters) (int, error)
}

// ImportedSource is the cached read surface for the imported-jobs
// collection. Satisfied by *bucket.Bucket.
type ImportedSource interface {
	GetJobs(ctx context.Context, f model.ImportedFilters) ([]model.ImportedJob, error)
}

// Counts breaks the total down per marker type.
type Counts struct {
	Job      int `json:"job"`
	CV       int `json:"cv"`
	Gold     int `json:"gold"`
	External int `json:"external"`
}

// Result is the aggregated, paginated marker set for one request.
//
// In multi-type mode, total sums independently-counted per-source
// totals while markers is per-source capped and drops coordinate-less
// rows, so total >= len(markers); callers must tolerate the gap.
type Result struct {
	Markers    []model.Marker `json:"markers"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
	Counts     Counts         `json:"counts"`
}

// Aggregator fans a criteria set out to the native collections and the
// bucket-cached imported collection, normalizes every row into a
// Marker and merges the slices in fixed source order.
type Aggregator struct {
	store    ListingStore
	imported ImportedSource
	now      func() time.Time
}

// NewAggregator returns an Aggregator reading natives from s and
// imported jobs through src.
func NewAggregator(s ListingStore, src ImportedSource) *Aggregator {
	return &Aggregator{store: s, imported: src, now: time.Now}
}

type importedResult struct {
	markers []model.Marker
	count   int
	err     error
}

// Aggregate runs the pipeline for cr.
//
// The imported branch runs concurrently with the native queries and its
// failure degrades to an empty slice with a zero count; the natives
// share one store connection, so any of their failures fails the whole
// request.
func (a *Aggregator) Aggregate(ctx context.Context, cr Criteria) (*Result, error) {
	if t, ok := cr.singleType(); ok {
		return a.aggregateSingle(ctx, cr, t)
	}
	return a.aggregateAll(ctx, cr)
}

// aggregateSingle serves a request pinned to exactly one source:
// offset/limit apply at the query level and total is the exact live
// count under the filters.
func (a *Aggregator) aggregateSingle(ctx context.Context, cr Criteria, t model.MarkerType) (*Result, error) {
	limit := cr.effectiveLimit(cr.Limit)
	offset := (cr.Page - 1) * limit
	res := &Result{Markers: []model.Marker{}, Page: cr.Page, Limit: limit}

	switch t {
	case model.TypeJob:
		q := a.jobQuery(cr)
		q.Offset, q.Limit = offset, limit
		jobs, err := a.store.FindJobs(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, j := range jobs {
			if m := JobMarker(j); m != nil {
				res.Markers = append(res.Markers, *m)
			}
		}
		if res.Total, err = a.store.CountJobs(ctx, q); err != nil {
			return nil, err
		}
		res.Counts.Job = res.Total

	case model.TypeCV:
		q := a.cvQuery(cr)
		q.Offset, q.Limit = offset, limit
		cvs, err := a.store.FindCVs(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, cv := range cvs {
			if m := CvMarker(cv); m != nil {
				res.Markers = append(res.Markers, *m)
			}
		}
		if res.Total, err = a.store.CountCVs(ctx, q); err != nil {
			return nil, err
		}
		res.Counts.CV = res.Total

	case model.TypeGold:
		q := a.goldQuery(cr)
		q.Offset, q.Limit = offset, limit
		gold, err := a.store.FindGold(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, g := range gold {
			if m := GoldMarker(g); m != nil {
				res.Markers = append(res.Markers, *m)
			}
		}
		if res.Total, err = a.store.CountGold(ctx, q); err != nil {
			return nil, err
		}
		res.Counts.Gold = res.Total

	case model.TypeExternal:
		// Cache-backed: failure degrades to an empty result rather
		// than failing the request.
		ir := a.fetchImported(ctx, cr)
		if ir.err != nil {
			slog.Warn("imported source unavailable", "err", ir.err)
			res.TotalPages = 0
			return res, nil
		}
		// ir.count comes from CountImportedJobs (or the filtered length
		// when in-memory filters apply); len(ir.markers) saturates at
		// the fetch cap and undercounts large partitions.
		res.Markers = paginate(ir.markers, offset, limit)
		res.Total = ir.count
		res.Counts.External = ir.count

	default:
		return nil, fmt.Errorf("unknown marker type %q", t)
	}

	res.TotalPages = totalPages(res.Total, limit)
	return res, nil
}

// aggregateAll serves the multi-type mode: every requested source is
// fetched whole (per-source cap, no per-source offset) and the slices
// are concatenated in fixed order job, cv, gold, external. The
// client-visible page/limit are echoed but do not slice the
// concatenation; that approximation is part of the contract.
func (a *Aggregator) aggregateAll(ctx context.Context, cr Criteria) (*Result, error) {
	fetchLimit := cr.effectiveLimit(sourceCap)
	if fetchLimit > sourceCap {
		fetchLimit = sourceCap
	}

	var importedCh chan importedResult
	if cr.wants(model.TypeExternal) {
		importedCh = make(chan importedResult, 1)
		go func() {
			importedCh <- a.fetchImported(ctx, cr)
		}()
	}

	res := &Result{Markers: []model.Marker{}, Page: cr.Page, Limit: cr.Limit}

	if cr.wants(model.TypeJob) {
		q := a.jobQuery(cr)
		q.Limit = fetchLimit
		jobs, err := a.store.FindJobs(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, j := range jobs {
			if m := JobMarker(j); m != nil {
				res.Markers = append(res.Markers, *m)
			}
		}
		if res.Counts.Job, err = a.store.CountJobs(ctx, q); err != nil {
			return nil, err
		}
	}

	if cr.wants(model.TypeCV) {
		q := a.cvQuery(cr)
		q.Limit = fetchLimit
		cvs, err := a.store.FindCVs(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, cv := range cvs {
			if m := CvMarker(cv); m != nil {
				res.Markers = append(res.Markers, *m)
			}
		}
		if res.Counts.CV, err = a.store.CountCVs(ctx, q); err != nil {
			return nil, err
		}
	}

	if cr.wants(model.TypeGold) {
		q := a.goldQuery(cr)
		q.Limit = fetchLimit
		gold, err := a.store.FindGold(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, g := range gold {
			if m := GoldMarker(g); m != nil {
				res.Markers = append(res.Markers, *m)
			}
		}
		if res.Counts.Gold, err = a.store.CountGold(ctx, q); err != nil {
			return nil, err
		}
	}

	if importedCh != nil {
		ir := <-importedCh
		if ir.err != nil {
			slog.Warn("imported source unavailable, serving natives only", "err", ir.err)
		} else {
			if len(ir.markers) > fetchLimit {
				ir.markers = ir.markers[:fetchLimit]
			}
			res.Markers = append(res.Markers, ir.markers...)
			res.Counts.External = ir.count
		}
	}

	res.Total = res.Counts.Job + res.Counts.CV + res.Counts.Gold + res.Counts.External
	res.TotalPages = totalPages(res.Total, cr.Limit)
	return res, nil
}

// fetchImported pulls imported jobs through the bucket with the reduced
// filter set, applies the remaining criteria in memory and normalizes.
func (a *Aggregator) fetchImported(ctx context.Context, cr Criteria) importedResult {
	filters := model.ImportedFilters{Search: cr.Search}

	jobs, err := a.imported.GetJobs(ctx, filters)
	if err != nil {
		return importedResult{err: err}
	}

	jobs = FilterImported(jobs, cr, a.now())
	markers := make([]model.Marker, 0, len(jobs))
	for _, j := range jobs {
		if m := ImportedMarker(j); m != nil {
			markers = append(markers, *m)
		}
	}

	count, err := a.store.CountImportedJobs(ctx, filters)
	if err != nil {
		// The count is advisory; fall back to what survived filtering.
		slog.Warn("countImportedJobs failed, using filtered length", "err", err)
		count = len(markers)
	}
	if cr.Bounds != nil || cr.Sector != "" || cr.WorkType != "" ||
		cr.Experience != "" || cr.DateRange != "" {
		// In-memory filters are invisible to the store count.
		count = len(markers)
	}

	return importedResult{markers: markers, count: count}
}

func (a *Aggregator) jobQuery(cr Criteria) store.JobQuery {
	return store.JobQuery{
		Search:       cr.Search,
		Sector:       cr.Sector,
		Experience:   cr.Experience,
		WorkType:     cr.WorkType,
		Bounds:       cr.Bounds,
		CreatedAfter: cr.createdAfter(a.now()),
	}
}

func (a *Aggregator) cvQuery(cr Criteria) store.CvQuery {
	return store.CvQuery{
		Search:       cr.Search,
		Bounds:       cr.Bounds,
		CreatedAfter: cr.createdAfter(a.now()),
	}
}

func (a *Aggregator) goldQuery(cr Criteria) store.GoldQuery {
	return store.GoldQuery{
		Search:       cr.Search,
		Bounds:       cr.Bounds,
		CreatedAfter: cr.createdAfter(a.now()),
	}
}

func paginate(markers []model.Marker, offset, limit int) []model.Marker {
	if offset >= len(markers) {
		return []model.Marker{}
	}
	end := len(markers)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return markers[offset:end]
}

func totalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
