package chromedp_extractor

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"go.uber.org/zap"
)

// RobotsChecker answers whether a URL may be fetched, caching robots.txt per origin.
type RobotsChecker struct {
	client *http.Client
	agent  string
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string]*robotstxt.Group
}

func NewRobotsChecker(client *http.Client, agent string, logger *zap.Logger) *RobotsChecker {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RobotsChecker{
		client: client,
		agent:  agent,
		logger: logger,
		cache:  make(map[string]*robotstxt.Group),
	}
}

// Allowed reports whether rawURL may be fetched. An unreachable robots.txt allows everything.
func (c *RobotsChecker) Allowed(ctx context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("parse url: %w", err)
	}
	origin := u.Scheme + "://" + u.Host

	group, err := c.group(ctx, origin)
	if err != nil {
		c.logger.Debug("robots.txt unavailable, allowing", zap.String("origin", origin), zap.Error(err))
		return true, nil
	}
	return group.Test(u.RequestURI()), nil
}

func (c *RobotsChecker) group(ctx context.Context, origin string) (*robotstxt.Group, error) {
	c.mu.Lock()
	g, ok := c.cache[origin]
	c.mu.Unlock()
	if ok {
		return g, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.agent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, err
	}
	g = data.FindGroup(c.agent)

	c.mu.Lock()
	c.cache[origin] = g
	c.mu.Unlock()
	return g, nil
}
