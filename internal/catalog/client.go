package catalog

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
)

const (
	// MaxDataLimit is the server-side cap on rows per data page request.
	MaxDataLimit = 500
	// MaxSearchLimit is the server-side cap on results per search category.
	MaxSearchLimit = 100

	defaultTimeout = 30 * time.Second
)

// ServiceError is a structured error payload returned by a reachable catalog
// service, as opposed to a connection-level transport failure.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("catalog service error (HTTP %d): %s", e.StatusCode, e.Message)
}

// Client is a Catalog backed by the catalog REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.http = h
	}
}

// NewClient creates a Client for the catalog service at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Catalog = (*Client)(nil)

func (c *Client) ListDirectoryTree(ctx context.Context) ([]*DirTreeNode, error) {
	var tree []*DirTreeNode
	if err := c.get(ctx, "/api/dirs", nil, &tree); err != nil {
		return nil, fmt.Errorf("listing directory tree: %w", err)
	}
	return tree, nil
}

func (c *Client) ListDirectoryContents(ctx context.Context, path string) (*DirectoryContents, error) {
	contents := &DirectoryContents{}
	if err := c.get(ctx, "/api/dirs/"+escapePath(path)+"/contents", nil, contents); err != nil {
		return nil, fmt.Errorf("listing contents of %q: %w", path, err)
	}
	return contents, nil
}

func (c *Client) GetTableMetadata(ctx context.Context, path string) (*TableRecord, error) {
	if path == "" {
		return nil, fmt.Errorf("table path is required")
	}
	rec := &TableRecord{}
	if err := c.get(ctx, "/api/tables/"+escapePath(path), nil, rec); err != nil {
		return nil, fmt.Errorf("getting metadata for %q: %w", path, err)
	}
	return rec, nil
}

func (c *Client) GetTableData(ctx context.Context, path string, q DataQuery) (*TableData, error) {
	if path == "" {
		return nil, fmt.Errorf("table path is required")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > MaxDataLimit {
		limit = MaxDataLimit
	}

	params := url.Values{}
	params.Set("offset", strconv.Itoa(q.Offset))
	params.Set("limit", strconv.Itoa(limit))
	if q.OrderBy != "" {
		params.Set("order_by", q.OrderBy)
		params.Set("order_desc", strconv.FormatBool(q.OrderDesc))
	}

	data := &TableData{}
	if err := c.get(ctx, "/api/tables/"+escapePath(path)+"/data", params, data); err != nil {
		return nil, fmt.Errorf("getting data for %q: %w", path, err)
	}
	return data, nil
}

func (c *Client) GetColumnLineage(ctx context.Context, path string) (*TableLineage, error) {
	if path == "" {
		return nil, fmt.Errorf("table path is required")
	}
	lin := &TableLineage{}
	if err := c.get(ctx, "/api/tables/"+escapePath(path)+"/lineage", nil, lin); err != nil {
		return nil, fmt.Errorf("getting lineage for %q: %w", path, err)
	}
	return lin, nil
}

func (c *Client) Search(ctx context.Context, query string, limit int) (*SearchResults, error) {
	if query == "" {
		return &SearchResults{Query: ""}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	results := &SearchResults{}
	if err := c.get(ctx, "/api/search", params, results); err != nil {
		return nil, fmt.Errorf("searching for %q: %w", query, err)
	}
	return results, nil
}

func (c *Client) GetInformationSchema(ctx context.Context) (*InformationSchema, error) {
	schema := &InformationSchema{}
	if err := c.get(ctx, "/api/schema", nil, schema); err != nil {
		return nil, fmt.Errorf("getting information schema: %w", err)
	}
	return schema, nil
}

func (c *Client) HealthCheck(ctx context.Context) error {
	var status struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/api/health", nil, &status); err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	if status.Status != "ok" {
		return fmt.Errorf("health check: unexpected status %q", status.Status)
	}
	return nil
}

// get issues a GET request and decodes the JSON response into out. Non-2xx
// responses are returned as *ServiceError, preserving the payload message.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &ServiceError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &ServiceError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
}

// escapePath escapes each dot-delimited segment of a catalog path so it can
// be embedded in a URL path, keeping the dots themselves visible to the
// server's route matcher.
func escapePath(path string) string {
	segs := strings.Split(path, ".")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, ".")
}
