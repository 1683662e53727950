// Package device42 fetches device records from the Device42 REST API.
package device42

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"d42inventory/internal/config"
	"d42inventory/internal/domain"
	"d42inventory/internal/logging"
)

// DevicesPath is the endpoint listing every device with its details
const DevicesPath = "/api/1.0/devices/all/"

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 4096
)

// Client interacts with the Device42 REST API.
type Client struct {
	cfg        config.Device42Config
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logging.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the transport, mostly for tests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger for request tracing
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient builds a Device42 client.
func NewClient(cfg config.Device42Config, opts ...Option) *Client {
	timeout := cfg.Timeout.Duration()
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		// Device42 appliances commonly ship self-signed certificates
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	c := &Client{
		cfg:        cfg,
		baseURL:    sanitizeBaseURL(cfg.BaseURL),
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAllDevices returns every device record. With a page size configured
// the collection is walked with limit/offset until total_count is reached;
// the result is always one fully materialized slice.
func (c *Client) FetchAllDevices(ctx context.Context) ([]domain.DeviceRecord, error) {
	if c.baseURL == "" {
		return nil, &FetchError{Err: errors.New("device42 base url not configured")}
	}

	if c.cfg.PageSize <= 0 {
		page, err := c.fetchPage(ctx, 0, 0)
		if err != nil {
			return nil, err
		}
		c.logger.Debugf("fetched %d devices", len(page.Devices))
		return page.Devices, nil
	}

	var devices []domain.DeviceRecord
	offset := 0
	for {
		page, err := c.fetchPage(ctx, c.cfg.PageSize, offset)
		if err != nil {
			return nil, err
		}
		devices = append(devices, page.Devices...)
		offset += len(page.Devices)
		c.logger.Debugf("fetched %d/%d devices", offset, page.TotalCount)

		if len(page.Devices) == 0 || offset >= page.TotalCount {
			break
		}
	}
	return devices, nil
}

func (c *Client) fetchPage(ctx context.Context, limit, offset int) (*domain.DeviceList, error) {
	endpoint := c.baseURL + DevicesPath
	if limit > 0 {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(limit))
		q.Set("offset", strconv.Itoa(offset))
		endpoint += "?" + q.Encode()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{URL: endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{URL: endpoint, Err: err}
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debugf("GET %s", endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &FetchError{
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var page domain.DeviceList
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, &FetchError{URL: endpoint, Err: fmt.Errorf("decode devices: %w", err)}
	}
	return &page, nil
}

func sanitizeBaseURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	return strings.TrimRight(trimmed, "/")
}
