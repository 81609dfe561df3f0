package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/AlvinMun/bestbeforeai/internal/domain"
)

// ClientConfig holds tuning for the API client
type ClientConfig struct {
	Timeout time.Duration

	// RequestsPerSecond and Burst bound outgoing requests; zero disables the limiter
	RequestsPerSecond float64
	Burst             int
}

// Client talks to the inventory API: items, auth and OCR
type Client struct {
	httpClient  *http.Client
	baseURL     string
	tokens      domain.TokenSource
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new API client. tokens supplies the bearer token of the
// active session and may be nil for unauthenticated use.
func NewClient(baseURL string, tokens domain.TokenSource, config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		burst := config.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		tokens:      tokens,
		rateLimiter: limiter,
	}
}

// SetDebug enables or disables request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// ListItems returns the full item collection of the session's user
func (c *Client) ListItems(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	if err := c.doJSON(ctx, http.MethodGet, "/items", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}

// CreateItem creates an item
func (c *Client) CreateItem(ctx context.Context, req domain.CreateItemRequest) (*domain.Item, error) {
	var item domain.Item
	if err := c.doJSON(ctx, http.MethodPost, "/items", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem applies a partial update to an item
func (c *Client) UpdateItem(ctx context.Context, id string, req domain.UpdateItemRequest) (*domain.Item, error) {
	var item domain.Item
	if err := c.doJSON(ctx, http.MethodPut, "/items/"+url.PathEscape(id), req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem deletes an item
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/items/"+url.PathEscape(id), nil, nil)
}

// SetFavorite sets an item's favorite flag and returns the server's copy
func (c *Client) SetFavorite(ctx context.Context, id string, favorite bool) (*domain.Item, error) {
	var item domain.Item
	path := "/items/" + url.PathEscape(id) + "/favorite"
	if err := c.doJSON(ctx, http.MethodPatch, path, domain.FavoriteUpdate{Favorite: &favorite}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Register creates an account
func (c *Client) Register(ctx context.Context, creds domain.Credentials) (*domain.TokenResponse, error) {
	var token domain.TokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", creds, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// Login exchanges credentials for a token
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.TokenResponse, error) {
	var token domain.TokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", creds, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// Me returns the session's user
func (c *Client) Me(ctx context.Context) (*domain.UserMe, error) {
	var me domain.UserMe
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// UploadImage sends one image as multipart field "file" to the OCR endpoint
func (c *Client) UploadImage(ctx context.Context, filename string, image []byte) (*domain.OCRScan, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	var scan domain.OCRScan
	if err := c.do(ctx, http.MethodPost, "/ocr", &body, writer.FormDataContentType(), &scan); err != nil {
		return nil, err
	}
	return &scan, nil
}

// doJSON encodes payload (if any) as JSON and decodes the answer into out (if any)
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

// do executes one request with the session's bearer token. Failures are not retried.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "BestBefore/1.0")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	if c.debug {
		log.Printf("[API] %s %s", method, path)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAPIFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", domain.ErrAPIFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newError(resp.StatusCode, respBody)
		if c.debug {
			log.Printf("[API] %s %s -> %d: %s", method, path, resp.StatusCode, apiErr.Message)
		}
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
