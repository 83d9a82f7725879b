// Package wiki resolves subjects to infobox fact blocks against a MediaWiki
// site: full-text search for the best page, article fetch, infobox text.
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/delphia/internal/cache"
	"github.com/ppiankov/delphia/internal/model"
	"github.com/ppiankov/delphia/internal/textutil"
	"github.com/ppiankov/delphia/internal/util"
	"github.com/ppiankov/delphia/internal/worker"
)

// Sentinel errors at the fact source boundary.
var (
	ErrSubjectNotFound = errors.New("no reference page found")
	ErrNoFactBlock     = errors.New("page has no infobox")
)

const fetchMaxRetries = 3

// fetchSleepFunc is the sleep between retries, replaceable in tests.
var fetchSleepFunc = time.Sleep

// Client resolves subjects against one MediaWiki endpoint. It implements the
// dispatcher's fact source contract.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	userAgent   string
	maxBytes    int64
	searchLimit int
	limiter     *worker.Limiter
	robots      *util.RobotsGate
	store       cache.Cache
	cacheTTL    time.Duration
	verbose     bool
}

// NewClient builds a client from cfg. A nil store disables caching.
func NewClient(cfg *model.Config, store cache.Cache) *Client {
	var robots *util.RobotsGate
	if cfg.Wiki.RespectRobots {
		robots = util.NewRobotsGate(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}

	return &Client{
		httpClient:  util.NewHTTPClient(cfg.HTTP),
		endpoint:    strings.TrimSuffix(cfg.Wiki.Endpoint, "/"),
		userAgent:   cfg.HTTP.UserAgent,
		maxBytes:    cfg.HTTP.MaxBodyBytes,
		searchLimit: cfg.Wiki.SearchLimit,
		limiter:     worker.NewLimiter(cfg.Wiki.RatePerHost, cfg.Wiki.Burst),
		robots:      robots,
		store:       store,
		cacheTTL:    cfg.Cache.TTL,
		verbose:     cfg.Output.Verbose,
	}
}

// FactBlock resolves subject through full-text search, fetches the top
// article and returns its cleaned infobox text. Results are cached per
// endpoint and lowercased subject.
func (c *Client) FactBlock(ctx context.Context, subject string) (string, error) {
	key := cache.Key(c.endpoint, strings.ToLower(subject))
	if c.store != nil {
		if data, found := c.store.Get(key); found {
			if c.verbose {
				fmt.Fprintf(os.Stderr, "Cache hit for %q\n", subject)
			}
			return string(data), nil
		}
	}

	titles, err := c.Search(ctx, subject)
	if err != nil {
		return "", err
	}
	if len(titles) == 0 {
		return "", fmt.Errorf("subject %q: %w", subject, ErrSubjectNotFound)
	}

	pageHTML, err := c.PageHTML(ctx, titles[0])
	if err != nil {
		return "", err
	}

	box, err := Infobox(pageHTML)
	if err != nil {
		return "", fmt.Errorf("page %q: %w", titles[0], err)
	}

	block := textutil.Clean(box)
	if c.verbose {
		fmt.Fprintf(os.Stderr, "Fact block for %q via %q: %d bytes\n", subject, titles[0], len(block))
	}

	if c.store != nil {
		if err := c.store.Set(key, []byte(block), c.cacheTTL); err != nil && c.verbose {
			fmt.Fprintf(os.Stderr, "Warning: cache write failed: %v\n", err)
		}
	}

	return block, nil
}

// searchResponse mirrors the MediaWiki query/search JSON envelope.
type searchResponse struct {
	Query struct {
		Search []struct {
			Title  string `json:"title"`
			PageID int    `json:"pageid"`
		} `json:"search"`
	} `json:"query"`
}

// Search returns the titles of pages matching query, best match first.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	searchURL := fmt.Sprintf("%s/w/api.php?action=query&list=search&srsearch=%s&srlimit=%d&format=json",
		c.endpoint, url.QueryEscape(query), c.searchLimit)

	body, err := c.fetchWithRetry(ctx, searchURL, 0)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	titles := make([]string, 0, len(sr.Query.Search))
	for _, hit := range sr.Query.Search {
		titles = append(titles, hit.Title)
	}
	return titles, nil
}

// PageHTML fetches the article HTML for an exact title, honoring robots.txt
// and its crawl delay when the gate is enabled.
func (c *Client) PageHTML(ctx context.Context, title string) (string, error) {
	slug := url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	pageURL := fmt.Sprintf("%s/wiki/%s", c.endpoint, slug)

	var crawlDelay time.Duration
	if c.robots != nil {
		allowed, delay := c.robots.Allow(ctx, pageURL)
		if !allowed {
			return "", fmt.Errorf("robots.txt disallows %s", pageURL)
		}
		crawlDelay = delay
	}

	body, err := c.fetchWithRetry(ctx, pageURL, crawlDelay)
	if err != nil {
		return "", fmt.Errorf("fetch page %q: %w", title, err)
	}
	return string(body), nil
}

// fetchWithRetry paces the request through the per-host limiter and retries
// transient failures with linear backoff.
func (c *Client) fetchWithRetry(ctx context.Context, rawURL string, crawlDelay time.Duration) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < fetchMaxRetries; attempt++ {
		if err := c.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
			return nil, err
		}

		body, err := c.fetch(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) {
			return nil, err
		}

		if attempt < fetchMaxRetries-1 {
			if c.verbose {
				fmt.Fprintf(os.Stderr, "Retry %d for %s: %v\n", attempt+1, rawURL, err)
			}
			fetchSleepFunc(time.Duration(attempt+1) * time.Second)
		}
	}

	return nil, lastErr
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/json;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode, status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// statusError reports a non-2xx response.
type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.status)
}

// isRetryableFetchError reports whether another attempt could succeed.
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}

	var se *statusError
	if errors.As(err, &se) {
		switch se.code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset")
}
