package geoknow

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

const apiPrefix = "/api/v1"

// Client talks to a geoknow server over HTTP. It is safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	obs       *observer
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := newSettings(opts)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("geoknow: parse base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("geoknow: base url must be http(s)://host, got %q", baseURL)
	}

	obs, err := newObserver(cfg.log, cfg.reg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:   strings.TrimRight(u.String(), "/"),
		http:      cfg.hc,
		userAgent: cfg.userAgent,
		obs:       obs,
	}, nil
}

// Health fetches the server health report. A 503 still yields a status.
func (c *Client) Health(ctx context.Context) (_ HealthStatus, err error) {
	defer func(start time.Time) { c.obs.observe("health", start, err) }(time.Now())

	resp, err := c.send(ctx, http.MethodGet, "/health", nil, nil)
	if err != nil {
		return HealthStatus{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return HealthStatus{}, decodeAPIError(resp)
	}
	var hs HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&hs); err != nil {
		return HealthStatus{}, fmt.Errorf("geoknow: decode health: %w", err)
	}
	return hs, nil
}

// send issues a request and returns the raw response. The caller closes the body.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("geoknow: encode request: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return nil, fmt.Errorf("geoknow: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geoknow: %s %s: %w", method, path, err)
	}
	return resp, nil
}

// doJSON sends a request, expects wantStatus and decodes the body into out.
func (c *Client) doJSON(
	ctx context.Context, method, path string, query url.Values, body any, wantStatus int, out any,
) (http.Header, error) {
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		return nil, decodeAPIError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("geoknow: decode response: %w", err)
		}
	}
	return resp.Header, nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err != nil || body.Code == "" {
		apiErr.Code = "http_error"
		apiErr.Message = strings.TrimSpace(string(data))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	apiErr.Code = body.Code
	apiErr.Message = body.Message
	return apiErr
}
