package marker

import (
	"strings"
	"time"

	"github.com/yukselpamuk83-a11y/teppekgeo/internal/model"
)

// FilterImported applies the criteria the imported-jobs collection does
// not support as native query parameters. The bucket keys its cache on
// the reduced filter set only, so bounds and the type-specific filters
// land here, after the cached fetch.
func FilterImported(jobs []model.ImportedJob, cr Criteria, now time.Time) []model.ImportedJob {
	floor := cr.createdAfter(now)

	out := make([]model.ImportedJob, 0, len(jobs))
	for _, j := range jobs {
		if cr.Bounds != nil {
			if j.Latitude == nil || j.Longitude == nil {
				continue
			}
			if *j.Latitude < cr.Bounds.MinLat || *j.Latitude > cr.Bounds.MaxLat ||
				*j.Longitude < cr.Bounds.MinLng || *j.Longitude > cr.Bounds.MaxLng {
				continue
			}
		}
		if cr.Sector != "" && !containsFold(deref(j.Sector), cr.Sector) {
			continue
		}
		if cr.WorkType != "" && !containsFold(deref(j.JobType), cr.WorkType) {
			continue
		}
		if cr.Experience != "" && !containsFold(deref(j.Experience), cr.Experience) {
			continue
		}
		if floor != nil && j.SourceCreated.Before(*floor) {
			continue
		}
		out = append(out, j)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// containsFold reports whether text contains term, case-insensitively.
func containsFold(text, term string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(term))
}
