// Package model defines the persisted listing variants and the Marker
// projection served to the map client.
package model

import "time"

// JobListing is a user-posted job offer.
type JobListing struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Company        string    `json:"company"`
	Position       string    `json:"position"`
	Location       string    `json:"location"`
	Latitude       *float64  `json:"latitude"`
	Longitude      *float64  `json:"longitude"`
	SalaryMin      *float64  `json:"salaryMin,omitempty"`
	SalaryMax      *float64  `json:"salaryMax,omitempty"`
	SalaryCurrency *string   `json:"salaryCurrency,omitempty"`
	Sector         string    `json:"sector,omitempty"`
	Experience     string    `json:"experience,omitempty"`
	WorkType       string    `json:"workType,omitempty"`
	ContactEmail   string    `json:"contactEmail,omitempty"`
	ContactPhone   *string   `json:"contactPhone,omitempty"`
	ApplyURL       *string   `json:"applyUrl,omitempty"`
	IsActive       bool      `json:"isActive"`
	IsPremium      bool      `json:"isPremium"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
	UserID         string    `json:"userId"`
	User           *User     `json:"-"`
}

// CvListing is a user-posted CV / candidate profile.
type CvListing struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Profession   string    `json:"profession"`
	Skills       string    `json:"skills"`
	Experience   string    `json:"experience,omitempty"`
	Education    *string   `json:"education,omitempty"`
	Languages    *string   `json:"languages,omitempty"`
	Location     string    `json:"location"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	ContactEmail string    `json:"contactEmail,omitempty"`
	ContactPhone *string   `json:"contactPhone,omitempty"`
	LinkedinURL  *string   `json:"linkedinUrl,omitempty"`
	PortfolioURL *string   `json:"portfolioUrl,omitempty"`
	IsActive     bool      `json:"isActive"`
	IsPremium    bool      `json:"isPremium"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
	UserID       string    `json:"userId"`
	User         *User     `json:"-"`
}

// GoldListing is a premium listing ranked by explicit priority instead
// of recency.
type GoldListing struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	ContactEmail string    `json:"contactEmail,omitempty"`
	ContactPhone *string   `json:"contactPhone,omitempty"`
	Website      *string   `json:"website,omitempty"`
	Priority     int       `json:"priority"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
	UserID       string    `json:"userId"`
	User         *User     `json:"-"`
}

// ImportedJob is a job offer imported from an external board (Adzuna).
// It is owned by the sync system, not an end user.
type ImportedJob struct {
	ID             string     `json:"id"`
	Source         string     `json:"source"`
	ExternalID     string     `json:"externalId"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Company        string     `json:"company"`
	Location       string     `json:"location"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	SalaryMin      *float64   `json:"salaryMin,omitempty"`
	SalaryMax      *float64   `json:"salaryMax,omitempty"`
	SalaryCurrency *string    `json:"salaryCurrency,omitempty"`
	JobType        *string    `json:"jobType,omitempty"`
	Sector         *string    `json:"sector,omitempty"`
	Experience     *string    `json:"experience,omitempty"`
	Category       *string    `json:"category,omitempty"`
	Country        string     `json:"country"`
	ApplyURL       string     `json:"applyUrl"`
	RedirectURL    string     `json:"redirectUrl"`
	SourceCreated  time.Time  `json:"sourceCreated"`
	FetchedAt      time.Time  `json:"fetchedAt"`
	IsActive       bool       `json:"isActive"`
	IsPremium      bool       `json:"isPremium"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
}

// User is the poster subset needed for marker display names.
type User struct {
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	CompanyName *string `json:"companyName,omitempty"`
}

// MarkerType discriminates the four marker variants on the wire.
type MarkerType string

const (
	TypeJob      MarkerType = "job"
	TypeCV       MarkerType = "cv"
	TypeGold     MarkerType = "gold"
	TypeExternal MarkerType = "external"
)

// ValidMarkerType reports whether s names a known marker type.
func ValidMarkerType(s string) bool {
	switch MarkerType(s) {
	case TypeJob, TypeCV, TypeGold, TypeExternal:
		return true
	}
	return false
}

// Marker is the per-request map projection of a live, geolocated
// listing. It is never persisted or cached.
type Marker struct {
	ID       string         `json:"id"`
	Type     MarkerType     `json:"type"`
	Lat      float64        `json:"lat"`
	Lng      float64        `json:"lng"`
	Position [2]float64     `json:"position"` // [lat, lng]
	Title    string         `json:"title"`
	Data     map[string]any `json:"data"`
}
