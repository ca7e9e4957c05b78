package wallabag

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultHTTPTimeout = 10 * time.Second

	tokenPath   = "/oauth/v2/token"
	entriesPath = "/api/entries.json"
)

// Client represents a Wallabag API client.
type Client struct {
	BaseURL    *url.URL
	HTTPClient *http.Client

	username     string
	password     string
	clientID     string
	clientSecret string

	autoRefresh bool
	now         func() time.Time

	// refreshMu serializes token refreshes so concurrent callers that
	// both observe an expired token produce a single refresh.
	refreshMu sync.Mutex
	// mu guards auth.
	mu   sync.RWMutex
	auth authState
}

// authState holds the token lifecycle owned by the client. Every outgoing
// request reads the current access token and sets its own bearer header.
type authState struct {
	accessToken string
	// refreshToken is stored but never used for renewal: renewal always
	// replays the password grant.
	refreshToken string
	expiresAt    time.Time
}

// APIError represents an error returned by the Wallabag API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: status %d: %s", e.StatusCode, e.Body)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = httpClient
	}
}

// WithAutoRefresh controls whether the client checks token freshness before
// every request. Enabled by default; when disabled the caller is responsible
// for calling Authenticate.
func WithAutoRefresh(enabled bool) Option {
	return func(c *Client) {
		c.autoRefresh = enabled
	}
}

// WithClock replaces the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new Wallabag API client. It performs no I/O: the first
// request acquires a token lazily, or call Authenticate for an eager fetch.
func NewClient(baseURL, username, password, clientID, clientSecret string, opts ...Option) (*Client, error) {
	parsedURL, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	c := &Client{
		BaseURL: parsedURL,
		HTTPClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		username:     username,
		password:     password,
		clientID:     clientID,
		clientSecret: clientSecret,
		autoRefresh:  true,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// query performs an HTTP request against the API and decodes the JSON
// response into v. GET and DELETE place the payload in the query string,
// POST, PATCH and PUT send it as a form body. skipTokenRefresh bypasses the
// freshness check and is set only by the token refresh itself.
func (c *Client) query(ctx context.Context, method, path string, payload url.Values, skipTokenRefresh bool, v any) error {
	method = strings.ToUpper(method)
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodPut:
	default:
		return fmt.Errorf("unknown http method %q", method)
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if c.autoRefresh && !skipTokenRefresh {
		if err := c.refreshIfExpired(ctx); err != nil {
			return err
		}
	}

	reqURL := c.BaseURL.JoinPath(path)

	var reqBody io.Reader
	switch method {
	case http.MethodGet, http.MethodDelete:
		reqURL.RawQuery = payload.Encode()
	default:
		reqBody = strings.NewReader(payload.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if reqBody != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token := c.accessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(bodyBytes))}
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}

	return nil
}

func (c *Client) accessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.auth.accessToken
}

// refreshIfExpired refreshes the access token when the current UTC time is at
// or past the stored expiry. The expiry starts at the zero instant, so the
// first guarded request always refreshes.
func (c *Client) refreshIfExpired(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	c.mu.RLock()
	expiresAt := c.auth.expiresAt
	c.mu.RUnlock()

	if c.now().UTC().Before(expiresAt) {
		return nil
	}

	return c.refreshAccessToken(ctx)
}

// Authenticate eagerly fetches an access token with the password grant.
func (c *Client) Authenticate(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	return c.refreshAccessToken(ctx)
}

func (c *Client) refreshAccessToken(ctx context.Context) error {
	payload := url.Values{}
	payload.Set("grant_type", "password")
	payload.Set("username", c.username)
	payload.Set("password", c.password)
	payload.Set("client_id", c.clientID)
	payload.Set("client_secret", c.clientSecret)

	var token TokenResponse
	if err := c.query(ctx, http.MethodPost, tokenPath, payload, true, &token); err != nil {
		return fmt.Errorf("failed to refresh access token: %w", err)
	}

	c.mu.Lock()
	c.auth.accessToken = token.AccessToken
	c.auth.refreshToken = token.RefreshToken
	c.auth.expiresAt = c.now().UTC().Add(time.Duration(token.ExpiresIn) * time.Second)
	c.mu.Unlock()

	return nil
}

// GetEntries fetches the oldest saved entry: first page, one item per page,
// ascending order. It is a debug affordance kept from the upstream API
// surface; use ListEntries for general listing.
func (c *Client) GetEntries(ctx context.Context) (*Entry, error) {
	payload := url.Values{}
	payload.Set("page", "1")
	payload.Set("perPage", "1")
	payload.Set("order", "asc")

	var page EntriesPage
	if err := c.query(ctx, http.MethodGet, entriesPath, payload, false, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}

	if len(page.Embedded.Items) == 0 {
		return nil, fmt.Errorf("no entries returned")
	}

	return &page.Embedded.Items[0], nil
}

// ListEntries fetches one page of entries. Page parameters are passed through
// as-is; the client does not walk pages.
func (c *Client) ListEntries(ctx context.Context, opts ListEntriesOptions) (*EntriesPage, error) {
	var page EntriesPage
	if err := c.query(ctx, http.MethodGet, entriesPath, opts.values(), false, &page); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	return &page, nil
}

// GetEntry fetches a single entry by id.
func (c *Client) GetEntry(ctx context.Context, id int) (*Entry, error) {
	var entry Entry
	if err := c.query(ctx, http.MethodGet, entryPath(id), nil, false, &entry); err != nil {
		return nil, fmt.Errorf("failed to fetch entry %d: %w", id, err)
	}

	return &entry, nil
}

// SaveEntry creates a new entry for the given URL. Optional fields come from
// opts; see EntryOptions for serialization rules.
func (c *Client) SaveEntry(ctx context.Context, entryURL string, opts EntryOptions) (*Entry, error) {
	payload, err := opts.values()
	if err != nil {
		return nil, err
	}
	payload.Set("url", entryURL)

	var entry Entry
	if err := c.query(ctx, http.MethodPost, entriesPath, payload, false, &entry); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	return &entry, nil
}

// EditEntry updates an existing entry. Only fields present in opts are sent.
func (c *Client) EditEntry(ctx context.Context, id int, opts EntryOptions) (*Entry, error) {
	payload, err := opts.values()
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := c.query(ctx, http.MethodPatch, entryPath(id), payload, false, &entry); err != nil {
		return nil, fmt.Errorf("failed to edit entry %d: %w", id, err)
	}

	return &entry, nil
}

// DeleteEntry removes an entry and returns its last state.
func (c *Client) DeleteEntry(ctx context.Context, id int) (*Entry, error) {
	var entry Entry
	if err := c.query(ctx, http.MethodDelete, entryPath(id), nil, false, &entry); err != nil {
		return nil, fmt.Errorf("failed to delete entry %d: %w", id, err)
	}

	return &entry, nil
}

func entryPath(id int) string {
	return fmt.Sprintf("/api/entries/%d.json", id)
}

// ListEntriesOptions are the pass-through listing parameters.
type ListEntriesOptions struct {
	Page    int
	PerPage int
	Order   string // "asc" or "desc"
	Sort    string // "created", "updated" or "archived"
	Archive *bool
	Starred *bool
	Tags    []string
	Since   *time.Time
}

func (o ListEntriesOptions) values() url.Values {
	payload := url.Values{}
	if o.Page > 0 {
		payload.Set("page", strconv.Itoa(o.Page))
	}
	if o.PerPage > 0 {
		payload.Set("perPage", strconv.Itoa(o.PerPage))
	}
	if o.Order != "" {
		payload.Set("order", o.Order)
	}
	if o.Sort != "" {
		payload.Set("sort", o.Sort)
	}
	setBoolValue(payload, "archive", o.Archive)
	setBoolValue(payload, "starred", o.Starred)
	if len(o.Tags) > 0 {
		payload.Set("tags", strings.Join(o.Tags, ","))
	}
	if o.Since != nil {
		payload.Set("since", strconv.FormatInt(o.Since.Unix(), 10))
	}
	return payload
}
