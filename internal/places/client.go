package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"
	maxBodyBytes   = 8 << 20
)

// ErrDecode is returned when an upstream body is not the expected JSON.
var ErrDecode = errors.New("places: undecodable response")

// HTTPClient represents the subset of *http.Client used by the client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient HTTPClient
	Logger     *slog.Logger
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPClient
	logger     *slog.Logger
}

// New builds a Client, filling in the public endpoint, a 10s http.Client and the
// default logger when they are not provided.
func New(cfg Config) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// HasAPIKey reports whether an API key was configured.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// TextSearch runs a free-text place search. The upstream status is not checked
// here; callers decide what a non-OK status means.
func (c *Client) TextSearch(ctx context.Context, query string) (*TextSearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)

	body, err := c.get(ctx, "/textsearch/json", params)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}

	var resp TextSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("text search: %w: %v", ErrDecode, err)
	}
	resp.Raw = body

	return &resp, nil
}

// Details fetches the fields in DetailFields for one place.
func (c *Client) Details(ctx context.Context, placeID string) (*DetailsResponse, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", DetailFields)

	body, err := c.get(ctx, "/details/json", params)
	if err != nil {
		return nil, fmt.Errorf("details %s: %w", placeID, err)
	}

	var resp DetailsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("details %s: %w: %v", placeID, ErrDecode, err)
	}

	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	c.logger.Debug("Calling Places API",
		slog.String("url", c.baseURL+path+"?"+params.Encode()+"&key=***REDACTED***"))

	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call upstream: %w", redact(err, c.apiKey))
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}

// redact strips the API key from transport errors, which embed the request URL.
func redact(err error, key string) error {
	var urlErr *url.Error
	if key == "" || !errors.As(err, &urlErr) {
		return err
	}
	return &url.Error{
		Op:  urlErr.Op,
		URL: strings.ReplaceAll(urlErr.URL, url.QueryEscape(key), "***REDACTED***"),
		Err: urlErr.Err,
	}
}
