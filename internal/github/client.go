package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ghshelf/ghshelf/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	apiBaseURL      = "https://api.github.com"
	apiVersion      = "2022-11-28"
	defaultPageSize = 100
	defaultRPS      = 5.0
	requestTimeout  = 30 * time.Second
)

// Client is a read-only GitHub API client.
type Client struct {
	token      string
	baseURL    string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Opts tunes a Client beyond its defaults. The zero value is valid.
type Opts struct {
	BaseURL           string  // override for tests and GitHub Enterprise
	PageSize          int     // items per page, capped by the API at 100
	RequestsPerSecond float64 // client-side pacing between requests
}

// New creates a client authenticated with the given personal access token.
func New(token string, opts Opts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = apiBaseURL
	}
	if opts.PageSize <= 0 || opts.PageSize > defaultPageSize {
		opts.PageSize = defaultPageSize
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRPS
	}

	httpClient := &http.Client{Timeout: requestTimeout}
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(
			context.WithValue(context.Background(), oauth2.HTTPClient, httpClient),
			src,
		)
		httpClient.Timeout = requestTimeout
	}

	return &Client{
		token:      token,
		baseURL:    opts.BaseURL,
		pageSize:   opts.PageSize,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
	}
}

// TokenValidation is the result of an identity check. Err is a taxonomy error
// when Valid is false.
type TokenValidation struct {
	Valid     bool
	Username  string
	Name      string
	AvatarURL string
	Err       error
}

// RateLimitStatus reports the API's current quota for the credential.
type RateLimitStatus struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// PageFunc observes each fetched page during pagination. Either argument may
// be consumed or ignored; a nil PageFunc is valid.
type PageFunc func(page, items int)

// doRequest performs an authenticated GET and classifies every failure into
// the package error taxonomy. On success the caller owns the response body.
func (c *Client) doRequest(ctx context.Context, path string) (*http.Response, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &NetworkError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if err := classifyStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp, nil
}

// classifyStatus maps a non-success response to a taxonomy error.
func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return &InvalidTokenError{}
	case resp.StatusCode == http.StatusForbidden:
		if resp.Header.Get("X-RateLimit-Remaining") == "0" {
			return &RateLimitedError{ResetAt: parseResetHeader(resp.Header.Get("X-RateLimit-Reset"))}
		}
		return &ForbiddenError{}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}
}

// parseResetHeader converts the unix-seconds reset header to a time.
// Returns the zero time when absent or malformed.
func parseResetHeader(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	secs, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(secs, 0)
}

// getJSON fetches path and decodes the response body into v.
func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.doRequest(ctx, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ValidateToken makes one authenticated identity-check call.
// It never returns a Go error; failures land in the Err field.
func (c *Client) ValidateToken(ctx context.Context) TokenValidation {
	var user struct {
		Login     string `json:"login"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	}

	if err := c.getJSON(ctx, "/user", &user); err != nil {
		return TokenValidation{Valid: false, Err: err}
	}

	return TokenValidation{
		Valid:     true,
		Username:  user.Login,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}
}

// FetchOwned retrieves every repository owned by the authenticated user,
// normalized into the local record shape.
func (c *Client) FetchOwned(ctx context.Context, onPage PageFunc) ([]models.Repo, error) {
	path := fmt.Sprintf("/user/repos?per_page=%d&sort=updated&affiliation=owner&page=", c.pageSize)
	return c.fetchCollection(ctx, models.Owned, path, onPage)
}

// FetchStarred retrieves every repository starred by the authenticated user,
// normalized into the local record shape.
func (c *Client) FetchStarred(ctx context.Context, onPage PageFunc) ([]models.Repo, error) {
	path := fmt.Sprintf("/user/starred?per_page=%d&page=", c.pageSize)
	return c.fetchCollection(ctx, models.Starred, path, onPage)
}

// fetchCollection pages through an endpoint exhaustively. Any page failure
// aborts the whole fetch; previously fetched pages are discarded.
func (c *Client) fetchCollection(ctx context.Context, typ models.CollectionType, pathPrefix string, onPage PageFunc) ([]models.Repo, error) {
	var repos []models.Repo

	for page := 1; ; page++ {
		var raw []remoteRepo
		if err := c.getJSON(ctx, pathPrefix+strconv.Itoa(page), &raw); err != nil {
			return nil, fmt.Errorf("failed to fetch %s repositories: %w", typ, err)
		}

		for _, r := range raw {
			repos = append(repos, normalizeRepo(r, typ))
		}

		if onPage != nil {
			onPage(page, len(raw))
		}

		if len(raw) < c.pageSize {
			break
		}
	}

	return repos, nil
}

// RateLimit fetches the current quota status. Best effort: returns nil on any
// failure and never an error.
func (c *Client) RateLimit(ctx context.Context) *RateLimitStatus {
	var body struct {
		Rate struct {
			Limit     int   `json:"limit"`
			Remaining int   `json:"remaining"`
			Reset     int64 `json:"reset"`
		} `json:"rate"`
	}

	if err := c.getJSON(ctx, "/rate_limit", &body); err != nil {
		return nil
	}

	return &RateLimitStatus{
		Limit:     body.Rate.Limit,
		Remaining: body.Rate.Remaining,
		ResetAt:   time.Unix(body.Rate.Reset, 0),
	}
}
