package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/yukselpamuk83-a11y/teppekgeo/internal/model"
)

// createListingRequest is the client payload for a new native listing.
// Type selects the collection; the variant fields that don't apply are
// simply ignored.
type createListingRequest struct {
	Type        string   `json:"type"` // job, cv or gold
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`

	// job
	Company        string   `json:"company,omitempty"`
	Position       string   `json:"position,omitempty"`
	Sector         string   `json:"sector,omitempty"`
	Experience     string   `json:"experience,omitempty"`
	WorkType       string   `json:"workType,omitempty"`
	SalaryMin      *float64 `json:"salaryMin,omitempty"`
	SalaryMax      *float64 `json:"salaryMax,omitempty"`
	SalaryCurrency *string  `json:"salaryCurrency,omitempty"`

	// cv
	Profession string  `json:"profession,omitempty"`
	Skills     string  `json:"skills,omitempty"`
	Education  *string `json:"education,omitempty"`
	Languages  *string `json:"languages,omitempty"`

	// gold
	Priority int `json:"priority,omitempty"`

	ContactEmail string  `json:"contactEmail,omitempty"`
	ContactPhone *string `json:"contactPhone,omitempty"`
}

// handleListings handles POST /api/listings. The gateway authenticates
// the user and forwards the identity in the x-user-id header.
func (h *Handler) handleListings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		jsonError(w, "title is required", http.StatusBadRequest)
		return
	}

	var (
		id  string
		err error
	)
	switch req.Type {
	case "job":
		id, err = h.creator.CreateJobListing(r.Context(), userID, model.JobListing{
			Title:          req.Title,
			Description:    req.Description,
			Company:        req.Company,
			Position:       req.Position,
			Location:       req.Location,
			Latitude:       req.Latitude,
			Longitude:      req.Longitude,
			SalaryMin:      req.SalaryMin,
			SalaryMax:      req.SalaryMax,
			SalaryCurrency: req.SalaryCurrency,
			Sector:         req.Sector,
			Experience:     req.Experience,
			WorkType:       req.WorkType,
			ContactEmail:   req.ContactEmail,
			ContactPhone:   req.ContactPhone,
		})
	case "cv":
		id, err = h.creator.CreateCvListing(r.Context(), userID, model.CvListing{
			Title:        req.Title,
			Description:  req.Description,
			Profession:   req.Profession,
			Skills:       req.Skills,
			Experience:   req.Experience,
			Education:    req.Education,
			Languages:    req.Languages,
			Location:     req.Location,
			Latitude:     req.Latitude,
			Longitude:    req.Longitude,
			ContactEmail: req.ContactEmail,
			ContactPhone: req.ContactPhone,
		})
	case "gold":
		id, err = h.creator.CreateGoldListing(r.Context(), userID, model.GoldListing{
			Title:        req.Title,
			Description:  req.Description,
			Location:     req.Location,
			Latitude:     req.Latitude,
			Longitude:    req.Longitude,
			ContactEmail: req.ContactEmail,
			ContactPhone: req.ContactPhone,
			Priority:     req.Priority,
		})
	default:
		jsonError(w, "type must be one of job, cv, gold", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Printf("[api] create listing error: %v", err)
		jsonError(w, "İlan oluşturulurken bir hata oluştu", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      id,
		"type":    req.Type,
	})
}
