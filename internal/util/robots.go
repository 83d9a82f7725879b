package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsGate answers whether a page URL may be fetched under the site's
// robots.txt and surfaces the advertised crawl delay. When robots.txt cannot
// be fetched or parsed the gate allows the request.
type RobotsGate struct {
	byHost     map[string]*robotstxt.RobotsData
	mu         sync.RWMutex
	httpClient *http.Client
	userAgent  string
	agentToken string
}

// NewRobotsGate creates a gate that identifies as userAgent
func NewRobotsGate(userAgent string, timeout time.Duration) *RobotsGate {
	return &RobotsGate{
		byHost: make(map[string]*robotstxt.RobotsData),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent:  userAgent,
		agentToken: AgentToken(userAgent),
	}
}

// Allow reports whether rawURL may be fetched and the crawl delay to honor.
func (g *RobotsGate) Allow(ctx context.Context, rawURL string) (bool, time.Duration) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return true, 0
	}

	data := g.robotsFor(ctx, parsed.Scheme, parsed.Host)
	if data == nil {
		return true, 0
	}

	allowed := data.TestAgent(parsed.Path, g.agentToken)

	var crawlDelay time.Duration
	if group := data.FindGroup(g.agentToken); group != nil {
		crawlDelay = group.CrawlDelay
	}

	return allowed, crawlDelay
}

// Clear drops the cached robots.txt data for all hosts.
func (g *RobotsGate) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.byHost = make(map[string]*robotstxt.RobotsData)
}

// robotsFor fetches and caches the robots.txt data for a host. A nil return
// means the file could not be read this time; the caller allows the fetch.
func (g *RobotsGate) robotsFor(ctx context.Context, scheme, host string) *robotstxt.RobotsData {
	g.mu.RLock()
	data, exists := g.byHost[host]
	g.mu.RUnlock()
	if exists {
		return data
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", scheme, host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	// FromResponse maps a 404 to allow-all and 401/403 to disallow-all.
	data, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}

	g.mu.Lock()
	g.byHost[host] = data
	g.mu.Unlock()

	return data
}

// AgentToken reduces a full User-Agent string to the product token that
// robots.txt groups are matched against.
func AgentToken(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) > 0 {
		return strings.Split(parts[0], "/")[0]
	}
	return ua
}
