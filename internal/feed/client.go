package feed

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

const (
	defaultUserAgent      = "photowall/0.1"
	defaultRequestTimeout = 30 * time.Second
	maxImageBytes         = 32 << 20
	maxListBytes          = 8 << 20
)

// Client fetches the remote list and image payloads over HTTP.
type Client struct {
	listURL   *url.URL
	http      *http.Client
	userAgent string
}

// NewClient builds a Client for listURL. A non-positive timeout uses the default.
func NewClient(listURL string, timeout time.Duration) (*Client, error) {
	u, err := parseListURL(listURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		listURL:   u,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}, nil
}

// ListURL returns the endpoint polled by FetchList.
func (c *Client) ListURL() string {
	return c.listURL.String()
}

// FetchList retrieves the current remote list. Failures are *ListFetchError.
func (c *Client) FetchList(ctx context.Context) ([]Entry, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	body, err := c.get(ctx, c.listURL.String(), "application/json", maxListBytes)
	if err != nil {
		return nil, &ListFetchError{URL: c.listURL.String(), Err: err}
	}
	entries, err := decodeList(body)
	if err != nil {
		return nil, &ListFetchError{URL: c.listURL.String(), Err: err}
	}
	return entries, nil
}

// FetchImage downloads the raw bytes at imageURL. Failures are *ImageFetchError.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	target := strings.TrimSpace(imageURL)
	if target == "" {
		return nil, &ImageFetchError{URL: imageURL, Err: fmt.Errorf("url is empty")}
	}
	body, err := c.get(ctx, target, "image/*", maxImageBytes)
	if err != nil {
		return nil, &ImageFetchError{URL: imageURL, Err: err}
	}
	if len(body) == 0 {
		return nil, &ImageFetchError{URL: imageURL, Err: fmt.Errorf("empty body")}
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, target, accept string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("api %s returned status %d", target, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("body exceeds %d bytes", limit)
	}
	return body, nil
}

// decodeList accepts a bare JSON array. null and empty bodies are empty lists.
func decodeList(body []byte) ([]Entry, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return entries, nil
}

func parseListURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("list url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse list url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("list url %q has no host", raw)
	}
	u.Fragment = ""
	return u, nil
}
