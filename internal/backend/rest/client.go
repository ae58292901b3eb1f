// Package rest talks to the hosted entity API over HTTP.
package rest

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

	"github.com/takak2166/appstruct/internal/logger"
	"github.com/takak2166/appstruct/internal/models"
)

const (
	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	entityFlow = "Flow"
	entityPage = "Page"
)

// Error types for specific API errors
type (
	// AuthenticationError indicates an authentication failure
	AuthenticationError struct{ Message string }
	// RateLimitError indicates rate limit exceeded
	RateLimitError struct{ Message string }
	// NotFoundError indicates a resource was not found
	NotFoundError struct{ Message string }
	// ValidationError indicates invalid input
	ValidationError struct{ Message string }
)

func (e AuthenticationError) Error() string { return e.Message }
func (e RateLimitError) Error() string      { return e.Message }
func (e NotFoundError) Error() string       { return e.Message }
func (e ValidationError) Error() string     { return e.Message }

// Client is an entity API client scoped to one application
type Client struct {
	baseURL    string
	appID      string
	token      string
	httpClient *http.Client
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// WithTimeout sets a custom timeout for the HTTP client
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the entity API at baseURL
func NewClient(baseURL, appID, token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		appID:      appID,
		token:      token,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) entityURL(entity string, id string, query url.Values) string {
	u := fmt.Sprintf("%s/api/apps/%s/entities/%s", c.baseURL, url.PathEscape(c.appID), entity)
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends one request and decodes a JSON response into out when out is non-nil
func (c *Client) do(ctx context.Context, method, target string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	logger.Debug("Entity API request", map[string]interface{}{
		"method": method,
		"url":    target,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return AuthenticationError{Message: "invalid or missing API token"}
		case http.StatusNotFound:
			return NotFoundError{Message: fmt.Sprintf("not found: %s", target)}
		case http.StatusTooManyRequests:
			return RateLimitError{Message: fmt.Sprintf("rate limit exceeded: %s", string(respBody))}
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return ValidationError{Message: fmt.Sprintf("invalid request: %s", string(respBody))}
		default:
			return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
		}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ListFlows returns the flows of a project
func (c *Client) ListFlows(ctx context.Context, projectID string) ([]models.Flow, error) {
	var flows []models.Flow
	target := c.entityURL(entityFlow, "", url.Values{"project": {projectID}})
	if err := c.do(ctx, http.MethodGet, target, nil, &flows); err != nil {
		return nil, fmt.Errorf("listing flows: %w", err)
	}
	return flows, nil
}

// CreateFlow creates a flow and returns the stored record
func (c *Client) CreateFlow(ctx context.Context, flow models.Flow) (models.Flow, error) {
	flow.ID = ""
	var created models.Flow
	if err := c.do(ctx, http.MethodPost, c.entityURL(entityFlow, "", nil), flow, &created); err != nil {
		return models.Flow{}, fmt.Errorf("creating flow %q: %w", flow.Name, err)
	}
	return created, nil
}

// DeleteFlow deletes a flow by id
func (c *Client) DeleteFlow(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, c.entityURL(entityFlow, id, nil), nil, nil); err != nil {
		return fmt.Errorf("deleting flow %s: %w", id, err)
	}
	return nil
}

// ListPages returns the pages of a project
func (c *Client) ListPages(ctx context.Context, projectID string) ([]models.Page, error) {
	var pages []models.Page
	target := c.entityURL(entityPage, "", url.Values{"project": {projectID}})
	if err := c.do(ctx, http.MethodGet, target, nil, &pages); err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	return pages, nil
}

// CreatePage creates a page and returns the stored record
func (c *Client) CreatePage(ctx context.Context, page models.Page) (models.Page, error) {
	page.ID = ""
	var created models.Page
	if err := c.do(ctx, http.MethodPost, c.entityURL(entityPage, "", nil), page, &created); err != nil {
		return models.Page{}, fmt.Errorf("creating page %q: %w", page.Name, err)
	}
	return created, nil
}

// DeletePage deletes a page by id
func (c *Client) DeletePage(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, c.entityURL(entityPage, id, nil), nil, nil); err != nil {
		return fmt.Errorf("deleting page %s: %w", id, err)
	}
	return nil
}
