// Package marker implements the aggregation pipeline that unifies the
// four listing collections into one filterable set of map markers.
package marker

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yukselpamuk83-a11y/teppekgeo/internal/model"
	"github.com/yukselpamuk83-a11y/teppekgeo/internal/store"
)

const (
	defaultPage  = 1
	defaultLimit = 50

	// sourceCap bounds each per-source fetch in multi-type mode so a
	// pathological filter cannot pull a whole collection.
	sourceCap = 1000
)

// Criteria enumerates every recognized marker filter. Zero values mean
// "no filter".
type Criteria struct {
	Types      []model.MarkerType // empty = all types
	Bounds     *store.Bounds
	Zoom       int // 0 = absent
	Search     string
	Sector     string
	Experience string
	WorkType   string
	DateRange  string // "24h", "7d" or "30d"
	Page       int
	Limit      int
}

// ParseCriteria reads the marker query parameters. Malformed bounds and
// unknown type names are ignored rather than rejected: a bad viewport
// string degrades to "no spatial filter".
func ParseCriteria(q url.Values) Criteria {
	cr := Criteria{
		Search:     q.Get("search"),
		Sector:     q.Get("sector"),
		Experience: q.Get("experience"),
		WorkType:   q.Get("workType"),
		DateRange:  q.Get("dateRange"),
		Page:       defaultPage,
		Limit:      defaultLimit,
	}

	if t := q.Get("type"); t != "" {
		for _, part := range strings.Split(t, ",") {
			part = strings.TrimSpace(part)
			if model.ValidMarkerType(part) {
				cr.Types = append(cr.Types, model.MarkerType(part))
			}
		}
	}

	cr.Bounds = ParseBounds(q.Get("bounds"))

	if z, err := strconv.Atoi(q.Get("zoom")); err == nil && z > 0 {
		cr.Zoom = z
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		cr.Page = p
	}
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		cr.Limit = l
	}

	return cr
}

// ParseBounds parses "lat1,lng1,lat2,lng2" into a normalized rectangle.
// The corners may arrive in either diagonal order; min/max are taken per
// axis. Returns nil for anything unparseable.
func ParseBounds(s string) *store.Bounds {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil
	}
	nums := make([]float64, 4)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil
		}
		nums[i] = f
	}
	return &store.Bounds{
		MinLat: min(nums[0], nums[2]),
		MaxLat: max(nums[0], nums[2]),
		MinLng: min(nums[1], nums[3]),
		MaxLng: max(nums[1], nums[3]),
	}
}

// wants reports whether t is requested by the criteria.
func (c Criteria) wants(t model.MarkerType) bool {
	if len(c.Types) == 0 {
		return true
	}
	for _, want := range c.Types {
		if want == t {
			return true
		}
	}
	return false
}

// singleType returns the pinned type when exactly one is requested.
func (c Criteria) singleType() (model.MarkerType, bool) {
	if len(c.Types) == 1 {
		return c.Types[0], true
	}
	return "", false
}

// createdAfter converts the dateRange filter into a creation-time floor.
func (c Criteria) createdAfter(now time.Time) *time.Time {
	var d time.Duration
	switch c.DateRange {
	case "24h":
		d = 24 * time.Hour
	case "7d":
		d = 7 * 24 * time.Hour
	case "30d":
		d = 30 * 24 * time.Hour
	default:
		return nil
	}
	t := now.Add(-d)
	return &t
}

// ZoomCap returns the marker cap for a viewport request at the given
// zoom level, or 0 when no zoom accompanies the request. Wide views get
// the smallest cap (markers overlap visually at low zoom); close views
// the largest (the viewport covers few markers and users expect them
// all). The cap is monotonically non-decreasing in zoom.
func ZoomCap(zoom int) int {
	switch {
	case zoom <= 0:
		return 0
	case zoom > 12:
		return 2000
	case zoom > 8:
		return 1000
	default:
		return 500
	}
}

// effectiveLimit narrows limit by the zoom cap on viewport requests.
func (c Criteria) effectiveLimit(limit int) int {
	if c.Bounds == nil || c.Zoom == 0 {
		return limit
	}
	if zc := ZoomCap(c.Zoom); zc > 0 && (limit == 0 || limit > zc) {
		return zc
	}
	return limit
}
