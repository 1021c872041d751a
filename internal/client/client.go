package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mediashelf/mediashelf/internal/models"
)

// DefaultBaseURL is where the collection backend listens by default
const DefaultBaseURL = "http://127.0.0.1:8765/api"

// Client is a typed wrapper around the collection REST API
type Client struct {
	BaseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. A timeout set with
// WithTimeout applies to a copy; hc itself is never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New creates a new API client
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}

	switch {
	case c.httpClient == nil:
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
		if c.timeout > 0 {
			c.httpClient.Timeout = c.timeout
		}
	case c.timeout > 0:
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// MediaQuery holds the filter, sort and paging parameters of a media listing
type MediaQuery struct {
	Query      string
	CategoryID *int64
	Status     string
	Rating     string
	SortBy     string
	SortDir    string
	Limit      int
	Offset     int
}

func (q MediaQuery) values() url.Values {
	v := url.Values{}
	setIfNotEmpty(v, "q", q.Query)
	if q.CategoryID != nil {
		v.Set("category_id", strconv.FormatInt(*q.CategoryID, 10))
	}
	setIfNotEmpty(v, "status", q.Status)
	setIfNotEmpty(v, "rating", q.Rating)
	setIfNotEmpty(v, "sort_by", q.SortBy)
	setIfNotEmpty(v, "sort_dir", q.SortDir)
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	v.Set("offset", strconv.Itoa(q.Offset))
	return v
}

// FieldValueQuery selects vocabulary entries. With Scoped set the backend
// matches CategoryID strictly, a nil CategoryID meaning shared values only.
type FieldValueQuery struct {
	FieldType  string
	CategoryID *int64
	Scoped     bool
}

func (q FieldValueQuery) values() url.Values {
	v := url.Values{}
	setIfNotEmpty(v, "field_type", q.FieldType)
	if q.CategoryID != nil {
		v.Set("category_id", strconv.FormatInt(*q.CategoryID, 10))
	}
	if q.Scoped {
		v.Set("scoped", "true")
	}
	return v
}

func setIfNotEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

// ListMedia fetches one page of the filtered collection
func (c *Client) ListMedia(ctx context.Context, q MediaQuery) (*models.MediaPage, error) {
	var page models.MediaPage
	if err := c.do(ctx, http.MethodGet, withQuery("/media", q.values()), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetMedia fetches a single item with its tags expanded
func (c *Client) GetMedia(ctx context.Context, id int64) (*models.MediaItem, error) {
	var item models.MediaItem
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/media/%d", id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateMedia adds an item to the collection
func (c *Client) CreateMedia(ctx context.Context, in models.MediaInput) (*models.MediaItem, error) {
	var item models.MediaItem
	if err := c.do(ctx, http.MethodPost, "/media", in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateMedia replaces an item's fields
func (c *Client) UpdateMedia(ctx context.Context, id int64, in models.MediaInput) (*models.MediaItem, error) {
	var item models.MediaItem
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/media/%d", id), in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteMedia removes an item
func (c *Client) DeleteMedia(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/media/%d", id), nil, nil)
}

// SetMediaTags replaces the tag set of an item
func (c *Client) SetMediaTags(ctx context.Context, id int64, tagIDs []int64) (*models.MediaItem, error) {
	if tagIDs == nil {
		tagIDs = []int64{}
	}
	var item models.MediaItem
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/media/%d/tags", id), tagIDs, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListCategories fetches all categories with their item counts
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// CreateCategory adds a custom category
func (c *Client) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	var cat models.Category
	if err := c.do(ctx, http.MethodPost, "/categories", in, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// UpdateCategory changes a category's name, icon or color
func (c *Client) UpdateCategory(ctx context.Context, id int64, in models.CategoryInput) (*models.Category, error) {
	var cat models.Category
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/categories/%d", id), in, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// DeleteCategory removes a category
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil)
}

// ListTags fetches all tags
func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := c.do(ctx, http.MethodGet, "/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag adds a tag
func (c *Client) CreateTag(ctx context.Context, in models.TagInput) (*models.Tag, error) {
	var tag models.Tag
	if err := c.do(ctx, http.MethodPost, "/tags", in, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

// UpdateTag renames or recolors a tag
func (c *Client) UpdateTag(ctx context.Context, id int64, in models.TagInput) (*models.Tag, error) {
	var tag models.Tag
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tags/%d", id), in, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteTag removes a tag
func (c *Client) DeleteTag(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tags/%d", id), nil, nil)
}

// StatsOverview fetches the collection summary
func (c *Client) StatsOverview(ctx context.Context) (*models.StatsOverview, error) {
	var stats models.StatsOverview
	if err := c.do(ctx, http.MethodGet, "/stats/overview", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// RecentItems fetches the most recently owned items
func (c *Client) RecentItems(ctx context.Context) ([]models.MediaItem, error) {
	var items []models.MediaItem
	if err := c.do(ctx, http.MethodGet, "/stats/recent", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListFieldValues fetches vocabulary entries
func (c *Client) ListFieldValues(ctx context.Context, q FieldValueQuery) ([]models.FieldValue, error) {
	var values []models.FieldValue
	if err := c.do(ctx, http.MethodGet, withQuery("/field-values", q.values()), nil, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// CreateFieldValue adds a vocabulary entry
func (c *Client) CreateFieldValue(ctx context.Context, in models.FieldValueInput) (*models.FieldValue, error) {
	var fv models.FieldValue
	if err := c.do(ctx, http.MethodPost, "/field-values", in, &fv); err != nil {
		return nil, err
	}
	return &fv, nil
}

// UpdateFieldValue renames or reorders a vocabulary entry
func (c *Client) UpdateFieldValue(ctx context.Context, id int64, in models.FieldValueUpdate) (*models.FieldValue, error) {
	var fv models.FieldValue
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/field-values/%d", id), in, &fv); err != nil {
		return nil, err
	}
	return &fv, nil
}

// DeleteFieldValue removes a vocabulary entry
func (c *Client) DeleteFieldValue(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/field-values/%d", id), nil, nil)
}

// UploadCover sends an image as multipart form data and returns its public URL
func (c *Client) UploadCover(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("failed to read cover image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload/cover", &buf)
	if err != nil {
		return "", &TransportError{Op: "POST /upload/cover", Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		URL string `json:"url"`
	}
	if err := c.send(req, "/upload/cover", &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func withQuery(path string, v url.Values) string {
	if q := v.Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.send(req, path, out)
}

func (c *Client) send(req *http.Request, path string, out any) error {
	op := req.Method + " " + path
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("API request failed", "method", req.Method, "path", path, "request_id", requestID, "err", err)
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	slog.Debug("API request", "method", req.Method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(start))

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{
			Method: req.Method,
			Path:   path,
			Status: resp.StatusCode,
			Detail: errorDetail(data),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// errorDetail extracts {"detail": "..."} from an error body. FastAPI-style
// validation errors carry a list of {msg} objects instead of a string.
func errorDetail(data []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}
	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, item := range list {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
