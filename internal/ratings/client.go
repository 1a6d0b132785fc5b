// Package ratings looks up aggregate third-party ratings for a book by ISBN.
package ratings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/mrlokans/bookreviews/internal/config"
	"github.com/mrlokans/bookreviews/internal/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	// Responses are a few hundred bytes; anything bigger is not the API we expect.
	maxBodySize = 1 << 20
)

// Summary holds the aggregate rating data for one book.
type Summary struct {
	AverageRating float64 `json:"average_rating"`
	RatingsCount  int     `json:"ratings_count"`
}

// Client fetches rating summaries from the ratings API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a ratings API client.
func NewClient(cfg config.Ratings, opts ...ClientOption) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultRatingsBaseURL
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns the rating summary for isbn. All errors wrap ErrUnavailable.
func (c *Client) Lookup(ctx context.Context, isbn string) (*Summary, error) {
	start := time.Now()
	summary, err := c.lookup(ctx, isbn)
	metrics.RecordRatingsLookup(outcome(err), time.Since(start))
	return summary, err
}

func (c *Client) lookup(ctx context.Context, isbn string) (*Summary, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("isbns", isbn)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: malformed response", ErrUnavailable)
	}

	book := gjson.GetBytes(body, "books.0")
	if !book.Exists() {
		return nil, ErrNoRatings
	}
	return parseSummary(book)
}

// parseSummary extracts the two fields the application shows. gjson reads
// absent or mistyped fields as zero, so both are checked before conversion.
func parseSummary(book gjson.Result) (*Summary, error) {
	if !book.IsObject() {
		return nil, fmt.Errorf("%w: malformed response", ErrUnavailable)
	}

	average := book.Get("average_rating")
	count := book.Get("work_ratings_count")
	if !average.Exists() || !count.Exists() || count.Type != gjson.Number {
		return nil, fmt.Errorf("%w: malformed response", ErrUnavailable)
	}

	// average_rating arrives as a quoted decimal or a plain number
	rating, err := strconv.ParseFloat(average.String(), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed response: average_rating %q", ErrUnavailable, average.String())
	}

	return &Summary{
		AverageRating: rating,
		RatingsCount:  int(count.Int()),
	}, nil
}

func outcome(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrNoRatings):
		return metrics.OutcomeNoRatings
	case errors.As(err, &statusErr):
		return metrics.OutcomeBadStatus
	default:
		return metrics.OutcomeUnavailable
	}
}
