// Package catalog fetches course cards from the third-party course
// catalog API. The catalog is read-only and unrelated to the auth
// backend; it authenticates with a static RapidAPI key.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://udemy-paid-courses-for-free-api.p.rapidapi.com"
	coursesPath    = "/rapidapi/courses/"

	defaultTimeout = 15 * time.Second
)

// Course is one catalog entry as rendered on the course list.
type Course struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Image        string  `json:"image"`
	SalePriceUSD float64 `json:"sale_price_usd"`
	URL          string  `json:"url"`
}

type coursesResponse struct {
	Courses []Course `json:"courses"`
}

// Client calls the catalog API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithBaseURL points the client at a different catalog endpoint
// (primarily for testing).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(apiKey string, options ...ClientOption) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range options {
		opt(client)
	}
	return client
}

// Fetch returns one page of course cards.
func (c *Client) Fetch(ctx context.Context, page, pageSize int) ([]Course, error) {
	endpoint, err := url.Parse(c.baseURL + coursesPath)
	if err != nil {
		return nil, fmt.Errorf("[Fetch] invalid catalog URL: %w", err)
	}
	query := endpoint.Query()
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("[Fetch] build request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", endpoint.Host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[Fetch] catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("[Fetch] catalog responded %s", resp.Status)
	}

	var body coursesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("[Fetch] decode response: %w", err)
	}
	return body.Courses, nil
}
