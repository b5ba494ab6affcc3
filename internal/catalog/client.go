// Package catalog talks to the external product catalog service.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// ErrNotFound reports a valid request that matched no product.
var ErrNotFound = errors.New("product not found")

// StatusError is returned for non-2xx responses other than 404.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client is a typed accessor for the catalog HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a catalog client rooted at baseURL (e.g. https://host/api/v1).
func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a catalog client using the supplied http.Client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     util.GetLogger(),
	}
}

// BaseURL returns the catalog root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListProducts fetches GET /products.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	body, err := c.get(ctx, "getProducts", "/products")
	if err != nil {
		return nil, err
	}

	products := []models.Product{}
	if isEmpty(body) {
		return products, nil
	}
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// GetProduct fetches GET /products/{id}. A 404, an empty body or a record
// without an id all yield ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	body, err := c.get(ctx, "getProductById", "/products/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	if isEmpty(body) {
		return nil, ErrNotFound
	}

	var product models.Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("failed to decode product %s: %w", id, err)
	}
	if product.ID == "" {
		return nil, ErrNotFound
	}
	return &product, nil
}

func (c *Client) get(ctx context.Context, op, path string) ([]byte, error) {
	ctx, span := util.StartSpan(ctx, "CatalogClient."+op)
	defer span.End()
	span.SetAttributes(attribute.String("catalog.path", path))

	start := time.Now()
	defer func() {
		util.CatalogRequestLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	body, err := c.do(ctx, path)
	switch {
	case err == nil:
		util.CatalogRequestsTotal.WithLabelValues(op, "ok").Inc()
	case errors.Is(err, ErrNotFound):
		util.CatalogRequestsTotal.WithLabelValues(op, "not_found").Inc()
	default:
		util.CatalogRequestsTotal.WithLabelValues(op, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("Catalog request failed",
			zap.String("op", op),
			zap.String("path", path),
			zap.Error(err))
	}
	return body, err
}

func (c *Client) do(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}
	return body, nil
}

func isEmpty(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
