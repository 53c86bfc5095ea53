// Package adzuna implements the Adzuna job-board client and the import
// sync that feeds the imported_jobs collection.
package adzuna

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://api.adzuna.com/v1/api/jobs"
	pageSize       = 50
	httpTimeout    = 15 * time.Second
)

// Countries lists the Adzuna country partitions the sync iterates.
var Countries = []string{
	"au", "at", "be", "br", "ca", "fr", "de", "in", "it",
	"mx", "nl", "nz", "pl", "ru", "sg", "za", "es", "ch", "gb", "us",
}

// Client calls the Adzuna public search API.
type Client struct {
	appID   string
	appKey  string
	baseURL string
	client  *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different endpoint. Tests use this
// with httptest servers.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// NewClient constructs a Client. Missing credentials fail here, at
// construction, rather than opaquely mid-sync.
func NewClient(appID, appKey string, opts ...ClientOption) (*Client, error) {
	if appID == "" || appKey == "" {
		return nil, fmt.Errorf("adzuna credentials missing: set ADZUNA_APP_ID and ADZUNA_APP_KEY")
	}
	c := &Client{
		appID:   appID,
		appKey:  appKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: httpTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SearchOptions narrows a paged search call.
type SearchOptions struct {
	Page           int
	ResultsPerPage int
	What           string
	Where          string
	MaxDaysOld     int
	SortBy         string // "relevance", "date" or "salary"
	Category       string
}

// SearchResponse mirrors the top-level Adzuna JSON response.
type SearchResponse struct {
	Results []Result `json:"results"`
	Count   int      `json:"count"`
}

// Result mirrors a single Adzuna job record.
type Result struct {
	ID                json.Number `json:"id"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	Company           display     `json:"company"`
	Location          display     `json:"location"`
	Latitude          *float64    `json:"latitude"`
	Longitude         *float64    `json:"longitude"`
	SalaryMin         float64     `json:"salary_min"`
	SalaryMax         float64     `json:"salary_max"`
	SalaryCurrency    string      `json:"salary_currency"`
	SalaryIsPredicted string      `json:"salary_is_predicted"`
	Adref             string      `json:"adref"`
	ContractType      string      `json:"contract_type"`
	SeniorityLevel    string      `json:"seniority_level"`
	Category          category    `json:"category"`
	Created           string      `json:"created"`
	RedirectURL       string      `json:"redirect_url"`
}

type display struct {
	DisplayName string `json:"display_name"`
}

type category struct {
	Label string `json:"label"`
}

// SearchJobs fetches one page of search results for a country partition.
func (c *Client) SearchJobs(ctx context.Context, country string, opts SearchOptions) (*SearchResponse, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.ResultsPerPage == 0 {
		opts.ResultsPerPage = pageSize
	}
	if opts.SortBy == "" {
		opts.SortBy = "date"
	}

	params := url.Values{}
	params.Set("app_id", c.appID)
	params.Set("app_key", c.appKey)
	params.Set("results_per_page", strconv.Itoa(opts.ResultsPerPage))
	params.Set("what", opts.What)
	params.Set("where", opts.Where)
	params.Set("sort_by", opts.SortBy)
	if opts.MaxDaysOld > 0 {
		params.Set("max_days_old", strconv.Itoa(opts.MaxDaysOld))
	}
	if opts.Category != "" {
		params.Set("category", opts.Category)
	}

	reqURL := fmt.Sprintf("%s/%s/search/%d?%s", c.baseURL, country, opts.Page, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp SearchResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	return &apiResp, nil
}
