package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/temoto/robotstxt"
)

// ErrDisallowed means robots.txt forbids the path for our user agent.
var ErrDisallowed = errors.New("disallowed by robots.txt")

// RobotsGate checks robots.txt before delegating to the next Fetcher.
// Rules are fetched once per host and cached for the life of the process.
type RobotsGate struct {
	Next      Fetcher
	UserAgent string
	Client    *http.Client
	Logger    *log.Logger

	mu    sync.Mutex
	cache map[string]*robotstxt.Group
}

func NewRobotsGate(next Fetcher, userAgent string, client *http.Client, logger *log.Logger) *RobotsGate {
	return &RobotsGate{
		Next:      next,
		UserAgent: userAgent,
		Client:    client,
		Logger:    logger,
		cache:     make(map[string]*robotstxt.Group),
	}
}

func (g *RobotsGate) Fetch(ctx context.Context, targetURL string) ([]byte, error) {
	allowed, err := g.IsAllowed(ctx, targetURL)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%s: %w", targetURL, ErrDisallowed)
	}
	return g.Next.Fetch(ctx, targetURL)
}

// IsAllowed reports whether the path may be fetched. A missing or unreadable
// robots.txt allows everything.
func (g *RobotsGate) IsAllowed(ctx context.Context, link string) (bool, error) {
	u, err := url.Parse(link)
	if err != nil {
		return false, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	group, exists := g.cache[u.Host]
	if !exists {
		group = g.load(ctx, u)
		g.cache[u.Host] = group
	}
	if group == nil {
		return true, nil
	}

	path := u.EscapedPath()
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return group.Test(path), nil
}

func (g *RobotsGate) load(ctx context.Context, u *url.URL) *robotstxt.Group {
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", g.UserAgent)

	resp, err := g.Client.Do(req)
	if err != nil {
		g.Logger.Warn("robots.txt unavailable, assuming allowed", "host", u.Host, "err", err)
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		g.Logger.Warn("robots.txt unreadable, assuming allowed", "host", u.Host, "err", err)
		return nil
	}
	return data.FindGroup(g.UserAgent)
}
