package adzuna

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yukselpamuk83-a11y/teppekgeo/internal/model"
)

const (
	// maxPages caps pagination per country in case the upstream keeps
	// reporting more pages than it serves.
	maxPages = 20

	// importLifetime is assigned on import; Adzuna has no expiry notion
	// compatible with the isActive/expiresAt invariant.
	importLifetime = 30 * 24 * time.Hour

	pageInterval    = 100 * time.Millisecond
	countryInterval = 500 * time.Millisecond

	// SyncCompletedChannel carries the post-sync summary event consumed
	// by the gateway for SSE forwarding.
	SyncCompletedChannel = "EVENT_SYNC_COMPLETED"
)

// Upserter persists imported jobs. Satisfied by *store.Store.
type Upserter interface {
	UpsertImportedJob(ctx context.Context, j model.ImportedJob) (saved bool, err error)
}

// CacheClearer invalidates the imported-jobs bucket. Satisfied by
// *bucket.Bucket.
type CacheClearer interface {
	ClearCache()
}

// jobTypeByContract maps Adzuna contract types onto the platform's
// jobType vocabulary. Unmapped values pass through as-is.
var jobTypeByContract = map[string]string{
	"permanent": "Full-time",
	"contract":  "Contract",
	"part_time": "Part-time",
	"temporary": "Temporary",
}

// experienceBySeniority maps Adzuna seniority levels onto the
// platform's experience vocabulary. Unmapped values pass through.
var experienceBySeniority = map[string]string{
	"graduate":    "Entry",
	"apprentice":  "Entry",
	"junior":      "Entry",
	"senior":      "Senior",
	"experienced": "Mid-level",
	"manager":     "Senior",
	"executive":   "Senior",
}

// CountryResult is the per-country sync detail.
type CountryResult struct {
	Success bool     `json:"success"`
	Total   int      `json:"total"`
	Saved   int      `json:"saved"`
	Errors  []string `json:"errors"`
}

// Summary totals a full sync run.
type Summary struct {
	TotalJobs   int `json:"totalJobs"`
	TotalSaved  int `json:"totalSaved"`
	TotalErrors int `json:"totalErrors"`
}

// SyncSummary is the structured result returned to operators.
type SyncSummary struct {
	Success bool                     `json:"success"`
	Results map[string]CountryResult `json:"results"`
	Summary Summary                  `json:"summary"`
}

// SyncService pulls listings from Adzuna across all country partitions
// and upserts them into the imported_jobs collection.
type SyncService struct {
	client    *Client
	store     Upserter
	cache     CacheClearer
	rdb       *redis.Client
	pages     *RateLimiter
	countries *RateLimiter
	now       func() time.Time
}

// SyncOption configures a SyncService.
type SyncOption func(*SyncService)

// WithPacing overrides the per-page and per-country call intervals.
// Tests pass zero to run unpaced.
func WithPacing(page, country time.Duration) SyncOption {
	return func(s *SyncService) {
		s.pages = NewRateLimiter(page)
		s.countries = NewRateLimiter(country)
	}
}

// NewSyncService wires a sync service. rdb may be nil; completion
// events are then skipped.
func NewSyncService(client *Client, store Upserter, cache CacheClearer, rdb *redis.Client, opts ...SyncOption) *SyncService {
	s := &SyncService{
		client:    client,
		store:     store,
		cache:     cache,
		rdb:       rdb,
		pages:     NewRateLimiter(pageInterval),
		countries: NewRateLimiter(countryInterval),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SyncAllCountries pages through every supported country partition,
// keeping only salary-bearing records, and upserts them. Each upsert
// commits independently, so an interruption between countries leaves
// earlier work intact. The bucket is cleared unconditionally afterwards
// so reads observe whatever was saved.
func (s *SyncService) SyncAllCountries(ctx context.Context, days int) (*SyncSummary, error) {
	if days < 1 {
		days = 1
	}

	summary := &SyncSummary{Results: make(map[string]CountryResult, len(Countries))}
	defer s.cache.ClearCache()

	log.Printf("[sync] Starting sync for %d countries (%d days)", len(Countries), days)

	failed := 0
	for _, country := range Countries {
		// Interruptible between countries: everything upserted so far
		// is already committed.
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := s.countries.Wait(ctx); err != nil {
			return summary, err
		}

		result := s.syncCountry(ctx, country, days)
		summary.Results[country] = result
		summary.Summary.TotalJobs += result.Total
		summary.Summary.TotalSaved += result.Saved
		summary.Summary.TotalErrors += len(result.Errors)
		if !result.Success {
			failed++
		}

		log.Printf("[sync] %s: %d/%d jobs saved, %d errors",
			country, result.Saved, result.Total, len(result.Errors))
	}

	summary.Success = failed < len(Countries)

	log.Printf("[sync] Completed: %d/%d jobs saved, %d errors",
		summary.Summary.TotalSaved, summary.Summary.TotalJobs, summary.Summary.TotalErrors)

	s.publishCompleted(ctx, summary)
	return summary, nil
}

// SyncRecentJobs converts an hours window into days and delegates to
// SyncAllCountries.
func (s *SyncService) SyncRecentJobs(ctx context.Context, hours int) (*SyncSummary, error) {
	days := int(math.Ceil(float64(hours) / 24))
	if days < 1 {
		days = 1
	}
	return s.SyncAllCountries(ctx, days)
}

// syncCountry pages through one partition. Page and per-record failures
// are collected, not propagated; the remaining pages and countries
// still run.
func (s *SyncService) syncCountry(ctx context.Context, country string, days int) CountryResult {
	result := CountryResult{Success: true, Errors: []string{}}

	for page := 1; page <= maxPages; page++ {
		if err := s.pages.Wait(ctx); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("page %d: %v", page, err))
			result.Success = false
			return result
		}

		resp, err := s.client.SearchJobs(ctx, country, SearchOptions{
			Page:       page,
			MaxDaysOld: days,
			SortBy:     "date",
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("page %d: %v", page, err))
			result.Success = false
			return result
		}
		if len(resp.Results) == 0 {
			break
		}

		for _, r := range resp.Results {
			// Records without salary don't meet listing quality
			// requirements.
			if r.SalaryMin == 0 && r.SalaryMax == 0 {
				continue
			}
			result.Total++

			saved, err := s.store.UpsertImportedJob(ctx, s.toImportedJob(r, country))
			if err != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("job %s: %v", r.ID.String(), err))
				continue
			}
			if saved {
				result.Saved++
			}
		}

		if len(resp.Results) < pageSize || page >= (resp.Count+pageSize-1)/pageSize {
			break
		}
	}

	return result
}

// toImportedJob normalizes one Adzuna record into the platform schema.
func (s *SyncService) toImportedJob(r Result, country string) model.ImportedJob {
	now := s.now()
	expires := now.Add(importLifetime)

	title := r.Title
	if title == "" {
		title = "No title"
	}
	company := r.Company.DisplayName
	if company == "" {
		company = "Unknown Company"
	}

	sourceCreated, err := time.Parse(time.RFC3339, r.Created)
	if err != nil {
		sourceCreated = now
	}

	return model.ImportedJob{
		Source:         "adzuna",
		ExternalID:     r.ID.String(),
		Title:          title,
		Description:    r.Description,
		Company:        company,
		Location:       r.Location.DisplayName,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		SalaryMin:      nonZero(r.SalaryMin),
		SalaryMax:      nonZero(r.SalaryMax),
		SalaryCurrency: nonEmpty(r.SalaryCurrency),
		JobType:        nonEmpty(mapVocab(jobTypeByContract, r.ContractType)),
		Sector:         nonEmpty(r.Category.Label),
		Experience:     nonEmpty(mapVocab(experienceBySeniority, r.SeniorityLevel)),
		Category:       nonEmpty(r.Category.Label),
		Country:        country,
		ApplyURL:       r.RedirectURL,
		RedirectURL:    r.RedirectURL,
		SourceCreated:  sourceCreated,
		FetchedAt:      now,
		IsActive:       true,
		// Sponsored records carry a real (non-predicted) salary and an
		// ad reference.
		IsPremium: r.SalaryIsPredicted == "0" && r.Adref != "",
		ExpiresAt: &expires,
	}
}

// publishCompleted emits the sync summary to Redis. Non-fatal: a failed
// publish only loses the SSE nudge, not the data.
func (s *SyncService) publishCompleted(ctx context.Context, summary *SyncSummary) {
	if s.rdb == nil {
		return
	}
	event, _ := json.Marshal(map[string]any{
		"type":       SyncCompletedChannel,
		"totalJobs":  summary.Summary.TotalJobs,
		"totalSaved": summary.Summary.TotalSaved,
		"at":         s.now().UTC().Format(time.RFC3339),
	})
	if err := s.rdb.Publish(ctx, SyncCompletedChannel, event).Err(); err != nil {
		slog.Warn("publish EVENT_SYNC_COMPLETED failed", "err", err)
	}
}

// mapVocab translates v through m, passing unmapped values through.
func mapVocab(m map[string]string, v string) string {
	if mapped, ok := m[v]; ok {
		return mapped
	}
	return v
}

func nonZero(f float64) *float64 {
	if f == 0 {
		return nil
	}
	return &f
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
