package github

import "fmt"

// SearchResult is a repository row returned by the search or metadata API.
type SearchResult struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Stars       int    `json:"stars"`
	SizeKB      int    `json:"size_kb"`
	Language    string `json:"language"`
	UpdatedAt   string `json:"updated_at"`
	URL         string `json:"url"`
}

// FullName returns the repository name in owner/repo format.
func (r SearchResult) FullName() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// SizeMB returns the repository size in megabytes.
func (r SearchResult) SizeMB() float64 {
	return float64(r.SizeKB) / 1024
}

// RateLimit describes the remaining quota for the search resource.
type RateLimit struct {
	Remaining int
	Reset     int64 // unix seconds
}

// apiRepo mirrors the GitHub REST repository payload fields we consume.
type apiRepo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Stars       int    `json:"stargazers_count"`
	SizeKB      int    `json:"size"`
	Language    string `json:"language"`
	UpdatedAt   string `json:"updated_at"`
	HTMLURL     string `json:"html_url"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
}

func (r *apiRepo) toResult() SearchResult {
	return SearchResult{
		Owner:       r.Owner.Login,
		Name:        r.Name,
		Description: r.Description,
		Stars:       r.Stars,
		SizeKB:      r.SizeKB,
		Language:    r.Language,
		UpdatedAt:   r.UpdatedAt,
		URL:         r.HTMLURL,
	}
}
