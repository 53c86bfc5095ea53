package marker

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/yukselpamuk83-a11y/teppekgeo/internal/model"
)

// anonymousName is shown when the poster has neither a full name nor a
// company name on file.
const anonymousName = "Anonim"

// importedDisplayName labels imported markers, which belong to the sync
// system rather than an end user.
const importedDisplayName = "Adzuna"

// DisplayName resolves the poster label: full name when both parts are
// present, else the company name, else the anonymous placeholder.
func DisplayName(u *model.User) string {
	if u != nil && u.FirstName != nil && u.LastName != nil {
		return *u.FirstName + " " + *u.LastName
	}
	if u != nil && u.CompanyName != nil && *u.CompanyName != "" {
		return *u.CompanyName
	}
	return anonymousName
}

// SalaryString formats a salary range for display. Currency renders as
// an empty suffix when unknown.
func SalaryString(min, max *float64, currency *string) string {
	cur := ""
	if currency != nil {
		cur = *currency
	}
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("%s - %s %s", salaryFigure(*min), salaryFigure(*max), cur)
	case min != nil:
		return fmt.Sprintf("%s+ %s", salaryFigure(*min), cur)
	case max != nil:
		return fmt.Sprintf("Up to %s %s", salaryFigure(*max), cur)
	default:
		return "Salary not specified"
	}
}

// salaryFigure renders a salary amount in plain decimal. Seven-figure
// amounts are routine in partitions like in, mx and ru, so scientific
// notation is never acceptable here.
func salaryFigure(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// payload flattens a listing struct into the marker data map via its
// json tags, so the full normalized listing rides along with the
// derived display fields.
func payload(listing any) map[string]any {
	raw, err := json.Marshal(listing)
	if err != nil {
		return map[string]any{}
	}
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{}
	}
	return m
}

// newMarker builds the common shell, or nil when either coordinate is
// missing: a listing that cannot be placed emits no marker.
func newMarker(id string, t model.MarkerType, lat, lng *float64, title string, data map[string]any) *model.Marker {
	if lat == nil || lng == nil {
		return nil
	}
	return &model.Marker{
		ID:       id,
		Type:     t,
		Lat:      *lat,
		Lng:      *lng,
		Position: [2]float64{*lat, *lng},
		Title:    title,
		Data:     data,
	}
}

// JobMarker projects a job listing, or nil when it has no coordinates.
func JobMarker(j model.JobListing) *model.Marker {
	data := payload(j)
	data["userName"] = DisplayName(j.User)
	data["salary"] = SalaryString(j.SalaryMin, j.SalaryMax, j.SalaryCurrency)
	// The map popup shows the title under the "position" key for job
	// and imported markers alike.
	data["position"] = j.Title
	return newMarker(j.ID, model.TypeJob, j.Latitude, j.Longitude, j.Title, data)
}

// CvMarker projects a CV listing, or nil when it has no coordinates.
// CV posters are individuals, so the company-name fallback never applies.
func CvMarker(cv model.CvListing) *model.Marker {
	name := anonymousName
	if cv.User != nil && cv.User.FirstName != nil && cv.User.LastName != nil {
		name = *cv.User.FirstName + " " + *cv.User.LastName
	}
	data := payload(cv)
	data["userName"] = name
	return newMarker(cv.ID, model.TypeCV, cv.Latitude, cv.Longitude, cv.Title, data)
}

// GoldMarker projects a gold listing, or nil when it has no coordinates.
func GoldMarker(g model.GoldListing) *model.Marker {
	data := payload(g)
	data["userName"] = DisplayName(g.User)
	return newMarker(g.ID, model.TypeGold, g.Latitude, g.Longitude, g.Title, data)
}

// ImportedMarker projects an imported job, or nil when it has no
// coordinates. The marker id carries the external id under a fixed
// prefix so it can never collide with a native listing id.
func ImportedMarker(j model.ImportedJob) *model.Marker {
	data := payload(j)
	data["userName"] = importedDisplayName
	data["salary"] = SalaryString(j.SalaryMin, j.SalaryMax, j.SalaryCurrency)
	data["position"] = j.Title
	return newMarker("external-"+j.ExternalID, model.TypeExternal, j.Latitude, j.Longitude, j.Title, data)
}
