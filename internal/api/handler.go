// Package api implements the HTTP handlers for the teppekgeo service.
//
// Routes:
//
//	GET  /api/markers          → aggregated, filterable map markers
//	GET  /api/imported/jobs    → bucket-cached imported-job markers
//	POST /api/sync             → full Adzuna sync ({days})
//	GET  /api/sync             → recent-jobs sync (?hours=)
//	GET  /api/cron/daily-sync  → cron-triggered sync (Bearer secret)
//	POST /api/listings         → create a job/cv/gold listing
//	GET  /health
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/yukselpamuk83-a11y/teppekgeo/internal/adzuna"
	"github.com/yukselpamuk83-a11y/teppekgeo/internal/marker"
	"github.com/yukselpamuk83-a11y/teppekgeo/internal/model"
)

// aggregateErrMessage is the localized generic failure shown to map
// clients; internals never leak into it.
const aggregateErrMessage = "Veriler yüklenirken hata oluştu"

// Aggregator serves marker aggregation requests.
type Aggregator interface {
	Aggregate(ctx context.Context, cr marker.Criteria) (*marker.Result, error)
}

// ImportedBucket is the cached imported-jobs surface, including its
// operational stats.
type ImportedBucket interface {
	GetJobs(ctx context.Context, f model.ImportedFilters) ([]model.ImportedJob, error)
	Stats() (size int, keys []string)
}

// Syncer triggers Adzuna import runs.
type Syncer interface {
	SyncAllCountries(ctx context.Context, days int) (*adzuna.SyncSummary, error)
	SyncRecentJobs(ctx context.Context, hours int) (*adzuna.SyncSummary, error)
}

// ListingCreator persists new native listings.
type ListingCreator interface {
	CreateJobListing(ctx context.Context, userID string, j model.JobListing) (string, error)
	CreateCvListing(ctx context.Context, userID string, cv model.CvListing) (string, error)
	CreateGoldListing(ctx context.Context, userID string, g model.GoldListing) (string, error)
}

// Handler holds shared dependencies. Syncer may be nil when Adzuna
// credentials are not configured; the sync routes then answer 503.
type Handler struct {
	agg        Aggregator
	bucket     ImportedBucket
	syncer     Syncer
	creator    ListingCreator
	cronSecret string
}

// NewHandler returns a configured Handler.
func NewHandler(agg Aggregator, bucket ImportedBucket, syncer Syncer, creator ListingCreator, cronSecret string) *Handler {
	return &Handler{
		agg:        agg,
		bucket:     bucket,
		syncer:     syncer,
		creator:    creator,
		cronSecret: cronSecret,
	}
}

// RegisterRoutes mounts all service routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/markers", h.handleMarkers)
	mux.HandleFunc("/api/imported/jobs", h.handleImportedJobs)
	mux.HandleFunc("/api/sync", h.handleSync)
	mux.HandleFunc("/api/cron/daily-sync", h.handleCronSync)
	mux.HandleFunc("/api/listings", h.handleListings)
	mux.HandleFunc("/health", h.handleHealth)
}

// ─── Markers ─────────────────────────────────────────────────────────────────

func (h *Handler) handleMarkers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cr := marker.ParseCriteria(r.URL.Query())
	res, err := h.agg.Aggregate(r.Context(), cr)
	if err != nil {
		log.Printf("[api] markers aggregate error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   aggregateErrMessage,
			"markers": []model.Marker{},
			"total":   0,
			"counts":  marker.Counts{},
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"markers":    res.Markers,
		"total":      res.Total,
		"page":       res.Page,
		"limit":      res.Limit,
		"totalPages": res.TotalPages,
		"counts":     res.Counts,
	})
}

// handleImportedJobs serves imported-job markers straight from the
// bucket, with slice pagination and cache stats for operators.
func (h *Handler) handleImportedJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	cr := marker.ParseCriteria(q)
	filters := model.ImportedFilters{
		Country:  q.Get("country"),
		Category: q.Get("category"),
		Location: q.Get("location"),
		Search:   q.Get("search"),
	}
	if f := q.Get("salaryMin"); f != "" {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			filters.SalaryMin = v
		}
	}

	jobs, err := h.bucket.GetJobs(r.Context(), filters)
	if err != nil {
		log.Printf("[api] imported jobs error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Failed to fetch imported jobs",
			"jobs":    []model.Marker{},
			"total":   0,
		})
		return
	}

	markers := make([]model.Marker, 0, len(jobs))
	for _, j := range jobs {
		if m := marker.ImportedMarker(j); m != nil {
			markers = append(markers, *m)
		}
	}

	total := len(jobs)
	offset := (cr.Page - 1) * cr.Limit
	page := markers
	if offset >= len(page) {
		page = []model.Marker{}
	} else if end := offset + cr.Limit; end < len(page) {
		page = page[offset:end]
	} else {
		page = page[offset:]
	}

	size, keys := h.bucket.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"jobs":       page,
		"total":      total,
		"page":       cr.Page,
		"limit":      cr.Limit,
		"totalPages": (total + cr.Limit - 1) / cr.Limit,
		"filters":    filters,
		"cache":      map[string]any{"size": size, "keys": keys},
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "teppekgeo",
	})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode response: %v", err)
	}
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}
