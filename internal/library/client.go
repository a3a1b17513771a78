// Package library implements the client side of the resource center: a
// typed API client, navigation state, the filter/sort/group view engine,
// and a session coordinating mutations and selection over a folder scope.
package library

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lms-resource-center/internal/models"
)

// APIError carries the server-supplied message of a failed call. The
// message is surfaced to the user verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// SortField selects the list ordering criterion.
type SortField string

const (
	SortByName SortField = "name"
	SortBySize SortField = "size"
	SortByType SortField = "type"
	SortByDate SortField = "date"
)

// SortOrder flips the comparator.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Filters are the structured list filters; all of them combine
// conjunctively.
type Filters struct {
	FileType  string
	HasPin    bool
	HasExpiry bool
	Tags      string // comma-separated
	StartDate *time.Time
	EndDate   *time.Time
	SortBy    SortField
	SortOrder SortOrder
}

// Scope identifies the visible resource set: a folder plus search and
// filter criteria.
type Scope struct {
	ParentID *string // nil means root
	Search   string
	Filters  Filters
}

func (s Scope) query() url.Values {
	q := url.Values{}
	q.Set("status", models.StatusActive)
	if s.ParentID != nil {
		q.Set("parent_id", *s.ParentID)
	} else if s.Search == "" {
		// Searches span the whole library; plain listings stay scoped.
		q.Set("parent_id", "root")
	}
	if s.Search != "" {
		q.Set("search", s.Search)
	}
	f := s.Filters
	if f.FileType != "" && f.FileType != "all" {
		q.Set("file_type", f.FileType)
	}
	if f.HasPin {
		q.Set("has_pin", "true")
	}
	if f.HasExpiry {
		q.Set("has_expiry", "true")
	}
	if f.Tags != "" {
		q.Set("tags", f.Tags)
	}
	if f.StartDate != nil {
		q.Set("start_date", f.StartDate.Format(time.RFC3339))
	}
	if f.EndDate != nil {
		q.Set("end_date", f.EndDate.Format(time.RFC3339))
	}
	if f.SortBy != "" {
		q.Set("sort_by", string(f.SortBy))
	}
	if f.SortOrder != "" {
		q.Set("sort_order", string(f.SortOrder))
	}
	return q
}

// Client is a typed HTTP client for the resource API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
}

// Config holds client configuration.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	AuthToken string
}

// NewClient creates an API client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		authToken:  cfg.AuthToken,
	}
}

// SetAuthToken replaces the bearer token used for requests.
func (c *Client) SetAuthToken(token string) {
	c.authToken = token
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	return req, nil
}

// decodeError turns a non-2xx response into an *APIError carrying the
// server's message.
func decodeError(resp *http.Response) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(data, &payload)

	msg := payload.Error
	if msg == "" {
		msg = payload.Message
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp, nil
}

// List fetches the ACTIVE resources matching the scope.
func (c *Client) List(ctx context.Context, scope Scope) ([]models.Resource, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/resources?"+scope.query().Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Resources []models.Resource `json:"resources"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode resource list: %v", err)
	}
	return payload.Resources, nil
}

// Get fetches a single resource; containers include their children.
func (c *Client) Get(ctx context.Context, id string) (*models.Resource, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/resources/"+id, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var resource models.Resource
	if err := json.NewDecoder(resp.Body).Decode(&resource); err != nil {
		return nil, fmt.Errorf("failed to decode resource: %v", err)
	}
	return &resource, nil
}

// Move reparents a resource; nil parentID moves it to the root.
func (c *Client) Move(ctx context.Context, id string, parentID *string) error {
	body := map[string]*string{"parent_id": parentID}
	req, err := c.newRequest(ctx, http.MethodPatch, "/api/v1/resources/"+id+"/move", body)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// SetPin sets the pin flag on a resource.
func (c *Client) SetPin(ctx context.Context, id string, pinned bool) error {
	body := map[string]bool{"is_pinned": pinned}
	req, err := c.newRequest(ctx, http.MethodPatch, "/api/v1/resources/"+id+"/pin", body)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// MarkViewed flags a resource as read.
func (c *Client) MarkViewed(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodPatch, "/api/v1/resources/"+id+"/view", struct{}{})
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Delete removes a single resource. The server rejects non-empty folders.
func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/v1/resources/"+id, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) bulk(ctx context.Context, action string, ids []string) (*http.Response, error) {
	body := map[string][]string{"ids": ids}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/resources/bulk-"+action, body)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// BulkPin pins every resource in the id set.
func (c *Client) BulkPin(ctx context.Context, ids []string) error {
	resp, err := c.bulk(ctx, "pin", ids)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// BulkDelete removes every resource in the id set.
func (c *Client) BulkDelete(ctx context.Context, ids []string) error {
	resp, err := c.bulk(ctx, "delete", ids)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// BulkDownload fetches a zip archive of the id set's files.
func (c *Client) BulkDownload(ctx context.Context, ids []string) ([]byte, error) {
	resp, err := c.bulk(ctx, "download", ids)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
