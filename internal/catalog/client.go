package catalog

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
)

// Remote is the product API as seen by the store. *Client implements it.
type Remote interface {
	ListProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (Product, error)
	UpdateProduct(ctx context.Context, id string, in ProductInput) (Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

var _ Remote = (*Client)(nil)

// Client talks to the product HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	// CollectionPath is the REST collection for products.
	CollectionPath = "/api/products"

	defaultBaseURL        = "http://localhost:5000"
	defaultUserAgent      = "shelf/0.1"
	defaultRequestTimeout = 5 * time.Second
	maxErrorBody          = 512
)

// NewClient builds a Client for baseURL. A bare host:port gets an http://
// scheme; a zero timeout uses the default.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// ListProducts fetches the whole collection. Both a bare JSON array and an
// {"items": [...]} envelope are accepted.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, collectionURL(), nil, &raw); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '{' {
		var envelope ProductListResponse
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return envelope.Items, nil
	}
	var products []Product
	if err := json.Unmarshal(trimmed, &products); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return products, nil
}

// CreateProduct posts a new product and returns the server's copy.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	if c == nil {
		return Product{}, fmt.Errorf("client is nil")
	}
	var created Product
	if err := c.do(ctx, http.MethodPost, collectionURL(), in, &created); err != nil {
		return Product{}, err
	}
	return created, nil
}

// UpdateProduct replaces the editable fields of product id.
func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (Product, error) {
	if c == nil {
		return Product{}, fmt.Errorf("client is nil")
	}
	path, err := itemPath(id)
	if err != nil {
		return Product{}, err
	}
	var updated Product
	if err := c.do(ctx, http.MethodPut, path, in, &updated); err != nil {
		return Product{}, err
	}
	return updated, nil
}

// DeleteProduct removes product id.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	path, err := itemPath(id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// itemPath builds the URL of one product. Ids are opaque, so reserved
// characters like "/" stay escaped inside a single path segment.
func itemPath(id string) (*url.URL, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("product id required")
	}
	return &url.URL{
		Path:    CollectionPath + "/" + id,
		RawPath: CollectionPath + "/" + url.PathEscape(id),
	}, nil
}

func collectionURL() *url.URL {
	return &url.URL{Path: CollectionPath}
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	path := rel.EscapedPath()
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ServerError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
