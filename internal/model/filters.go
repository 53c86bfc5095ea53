package model

// ImportedFilters is the reduced filter set supported by the
// imported-jobs collection. It is deliberately small: the bucket cache
// keys entries by a canonical serialization of these fields, so every
// field here widens the key space. Finer filters (bounds, sector,
// work type) are applied in-memory after the cached fetch.
type ImportedFilters struct {
	Country   string  `json:"country,omitempty"`
	Category  string  `json:"category,omitempty"`
	Location  string  `json:"location,omitempty"`
	SalaryMin float64 `json:"salaryMin,omitempty"`
	Search    string  `json:"search,omitempty"`
}
