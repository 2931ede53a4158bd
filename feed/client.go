package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

var (
	ErrPayloadTooLarge = errors.New("feed payload too large")
	// ErrRateLimited is returned when the upstream answers 429 after retries.
	ErrRateLimited = errors.New("feed rate limited")
)

const maxPayload = 4 << 20

type Options struct {
	// RequestsPerSecond caps outbound calls. Zero means 2.
	RequestsPerSecond float64
	Timeout           time.Duration
	RetryMax          int
	// HTTPClient replaces the transport client, mainly for tests.
	HTTPClient *http.Client
}

type Client struct {
	key     string
	baseURL string
	http    *retryablehttp.Client
	limiter *rate.Limiter
}

func NewClient(baseURL, apiKey string, opts Options) *Client {
	rc := retryablehttp.NewClient()
	if opts.HTTPClient != nil {
		// copy so the timeout below never touches the caller's client
		hc := *opts.HTTPClient
		rc.HTTPClient = &hc
	}
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 900 * time.Millisecond
	rc.RetryMax = 3
	if opts.RetryMax > 0 {
		rc.RetryMax = opts.RetryMax
	}
	rc.HTTPClient.Timeout = 6 * time.Second
	if opts.Timeout > 0 {
		rc.HTTPClient.Timeout = opts.Timeout
	}
	rc.Logger = nil
	// hand the final response back so a 429 can be told apart from other failures
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	return &Client{
		key:     apiKey,
		baseURL: baseURL,
		http:    rc,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// FetchPage returns one raw page of the listing feed. Pages are 1-based.
func (c *Client) FetchPage(ctx context.Context, page, pageSize int) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	} else {
		q.Set("page", "1")
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	u := fmt.Sprintf("%s?%s", c.baseURL, q.Encode())

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	if c.key != "" {
		req.Header.Set("apikey", c.key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode >= 400 {
		var body map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, fmt.Errorf("feed error %d: %v", resp.StatusCode, body)
	}
	return ioReadAllLimit(resp.Body, maxPayload)
}

// FetchListings fetches, validates and maps one page.
func (c *Client) FetchListings(ctx context.Context, page, pageSize int) (Page, error) {
	raw, err := c.FetchPage(ctx, page, pageSize)
	if err != nil {
		return Page{}, err
	}
	return Decode(raw)
}

func ioReadAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, ErrPayloadTooLarge
	}
	return b, nil
}
