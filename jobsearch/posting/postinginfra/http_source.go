package postinginfra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jobradar/radar/jobsearch/posting"
	"github.com/jobradar/radar/pkg/logx"
)

const (
	searchPageSize = 20
	httpTimeout    = 15 * time.Second
)

// HTTPJobSource is a JSON search API client for a job board. Missing
// credentials make FetchPage return an empty page with a warning instead
// of failing, so a misconfigured deployment degrades to "no results".
type HTTPJobSource struct {
	baseURL string
	apiKey  string
	name    string
	client  *http.Client
}

func NewHTTPJobSource(baseURL, apiKey, name string) *HTTPJobSource {
	return &HTTPJobSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		name:    name,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// searchResponse mirrors the upstream search payload.
type searchResponse struct {
	Results []searchResult `json:"results"`
	HasMore bool           `json:"has_more"`
}

type searchResult struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Salary      string `json:"salary"`
	PostedAt    string `json:"posted_at"`
}

func (s *HTTPJobSource) FetchPage(ctx context.Context, query posting.SearchQuery) (*posting.FetchResult, error) {
	if s.baseURL == "" || s.apiKey == "" {
		logx.Warn("job source credentials not set, skipping fetch")
		return &posting.FetchResult{}, nil
	}

	params := url.Values{}
	params.Set("q", strings.Join(query.Keywords, " "))
	params.Set("page", strconv.Itoa(query.Page))
	params.Set("page_size", strconv.Itoa(searchPageSize))
	if query.Location != "" {
		params.Set("location", query.Location)
	}
	if query.Remote {
		params.Set("remote", "true")
	}
	if query.SalaryMin > 0 {
		params.Set("salary_min", strconv.Itoa(query.SalaryMin))
	}
	if len(query.JobTypes) > 0 {
		params.Set("job_types", strings.Join(query.JobTypes, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, posting.ErrRegistry.NewWithCause(posting.CodeSourceUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, posting.ErrRegistry.NewWithCause(posting.CodeSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, posting.ErrSourceUnavailable().
			WithDetail("status", resp.StatusCode).
			WithDetail("body", string(body))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, posting.ErrRegistry.NewWithCause(posting.CodeSourceUnavailable,
			fmt.Errorf("decode search response: %w", err))
	}

	postings := make([]posting.JobPosting, 0, len(payload.Results))
	for _, r := range payload.Results {
		p := posting.JobPosting{
			Title:       r.Title,
			Company:     r.Company,
			Location:    r.Location,
			Description: r.Description,
			URL:         r.URL,
			Salary:      r.Salary,
			Source:      s.name,
			PostedAt:    parsePostedAt(r.PostedAt),
		}
		posting.Normalize(&p)
		postings = append(postings, p)
	}

	return &posting.FetchResult{
		Postings: postings,
		HasMore:  payload.HasMore,
	}, nil
}

func parsePostedAt(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Now()
}
