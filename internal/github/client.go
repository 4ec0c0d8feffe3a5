// Package github implements a minimal GitHub REST v3 client covering the
// three endpoints the resolver needs: repository search, repository metadata,
// and the rate-limit probe.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"git.home.luguber.info/inful/repoexplain/internal/logfields"
)

// ErrNotFound is returned by GetRepository for a 404 response. Callers treat
// metadata lookups as advisory and degrade silently on this error.
var ErrNotFound = fmt.Errorf("repository not found")

// Cache is an optional response cache for GET payloads. Implementations must
// treat every failure as a miss; the client never propagates cache errors.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, payload []byte)
}

// Client is a GitHub REST API client with optional token authentication.
type Client struct {
	apiURL     string
	token      string
	httpClient *http.Client
	cache      Cache
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token. An empty token means anonymous access
// (functional, but with very low rate limits).
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithCache attaches a response cache for search and metadata payloads.
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithBaseURL overrides the API base URL (tests point this at httptest).
func WithBaseURL(apiURL string) Option {
	return func(c *Client) { c.apiURL = apiURL }
}

// NewClient creates a new GitHub API client.
func NewClient(logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		apiURL:     "https://api.github.com",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With("component", "github"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticated reports whether a token is configured.
func (c *Client) Authenticated() bool { return c.token != "" }

// SearchRepositories searches repositories ranked by stars descending.
// limit bounds per_page; GitHub caps it at 100.
func (c *Client) SearchRepositories(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 5
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("sort", "stars")
	q.Set("order", "desc")
	q.Set("per_page", strconv.Itoa(limit))
	endpoint := "/search/repositories?" + q.Encode()

	var payload struct {
		TotalCount int       `json:"total_count"`
		Items      []apiRepo `json:"items"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("search repositories: %w", err)
	}

	c.logger.Debug("search completed",
		slog.String("query", query),
		slog.Int("total_count", payload.TotalCount),
		slog.Int("returned", len(payload.Items)))

	results := make([]SearchResult, 0, len(payload.Items))
	for i := range payload.Items {
		results = append(results, payload.Items[i].toResult())
	}
	return results, nil
}

// GetRepository fetches metadata for a single repository.
// Returns ErrNotFound on 404.
func (c *Client) GetRepository(ctx context.Context, owner, name string) (*SearchResult, error) {
	endpoint := fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(name))

	var repo apiRepo
	if err := c.getJSON(ctx, endpoint, &repo); err != nil {
		return nil, err
	}

	result := repo.toResult()
	return &result, nil
}

// CheckRateLimit performs a best-effort probe of the search-resource quota.
// Any failure returns (nil, err) and must never block the primary request.
func (c *Client) CheckRateLimit(ctx context.Context) (*RateLimit, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := c.newRequest(ctx, "/rate_limit")
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate limit check: %s", resp.Status)
	}

	var payload struct {
		Resources struct {
			Search struct {
				Remaining int   `json:"remaining"`
				Reset     int64 `json:"reset"`
			} `json:"search"`
		} `json:"resources"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return &RateLimit{
		Remaining: payload.Resources.Search.Remaining,
		Reset:     payload.Resources.Search.Reset,
	}, nil
}

func (c *Client) newRequest(ctx context.Context, endpoint string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+endpoint, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", "repoexplain/1.0")
	return req, nil
}

// getJSON performs a GET, consulting the cache first and storing hits after.
func (c *Client) getJSON(ctx context.Context, endpoint string, result any) error {
	if c.cache != nil {
		if payload, ok := c.cache.Get(endpoint); ok {
			c.logger.Debug("cache hit", logfields.URL(endpoint))
			return json.Unmarshal(payload, result)
		}
	}

	req, err := c.newRequest(ctx, endpoint)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("GitHub API error: %s", resp.Status)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return err
	}

	if c.cache != nil {
		c.cache.Put(endpoint, raw)
	}

	return json.Unmarshal(raw, result)
}
