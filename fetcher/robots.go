package fetcher

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// robotsChecker caches parsed robots.txt data per origin.
type robotsChecker struct {
	client *http.Client

	mu    sync.RWMutex
	cache map[string]*robotstxt.RobotsData
}

func newRobotsChecker(client *http.Client) *robotsChecker {
	return &robotsChecker{
		client: client,
		cache:  make(map[string]*robotstxt.RobotsData),
	}
}

// allowed checks whether the wildcard agent may fetch the URL's path.
// A missing robots.txt allows everything.
func (rc *robotsChecker) allowed(target *url.URL) error {
	origin := target.Scheme + "://" + target.Host

	rc.mu.RLock()
	robotsData, exists := rc.cache[origin]
	rc.mu.RUnlock()

	if exists {
		if robotsData != nil && !robotsData.FindGroup("*").Test(target.Path) {
			return fmt.Errorf("%w: %s", ErrBlocked, target.Path)
		}
		return nil
	}

	resp, err := rc.client.Get(origin + "/robots.txt")
	if err != nil {
		return fmt.Errorf("failed to fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		rc.mu.Lock()
		rc.cache[origin] = nil
		rc.mu.Unlock()
		return nil
	}

	robotsData, err = robotstxt.FromResponse(resp)
	if err != nil {
		return fmt.Errorf("failed to parse robots.txt: %w", err)
	}

	rc.mu.Lock()
	rc.cache[origin] = robotsData
	rc.mu.Unlock()

	if !robotsData.FindGroup("*").Test(target.Path) {
		return fmt.Errorf("%w: %s", ErrBlocked, target.Path)
	}
	return nil
}
