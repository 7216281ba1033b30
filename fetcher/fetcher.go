package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/BigLeagueAjay/Webscraper/utils"
)

const (
	maxBodyBytes = 10 * 1024 * 1024
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Options tunes the fetcher beyond its defaults.
type Options struct {
	Timeout       time.Duration
	RespectRobots bool
	SOCKS5Proxy   string
}

// Fetcher downloads a single page per call. One attempt, no retries.
type Fetcher struct {
	httpClient *http.Client
	robots     *robotsChecker
	timeout    time.Duration
	logger     zerolog.Logger
}

// New builds a Fetcher with a shared pooled HTTP client.
func New(opts Options, logger zerolog.Logger) *Fetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{
		Timeout:   timeout,
		Transport: newTransport(opts.SOCKS5Proxy),
	}

	f := &Fetcher{
		httpClient: client,
		timeout:    timeout,
		logger:     logger,
	}
	if opts.RespectRobots {
		f.robots = newRobotsChecker(client)
	}
	return f
}

// Fetch issues one GET with browser-emulating headers and returns the
// page body. Failures are categorized: ErrInvalidURL, ErrConnection,
// ErrTimeout, ErrBlocked, or *HTTPError for non-2xx statuses.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	parsed, err := utils.ValidateURL(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if f.robots != nil {
		if err := f.robots.allowed(parsed); err != nil {
			f.logger.Warn().Str("url", rawURL).Err(err).Msg("robots.txt check failed")
			return "", err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	request.Header.Set("User-Agent", userAgent)
	request.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	request.Header.Set("Accept-Language", "en-US,en;q=0.9")
	request.Header.Set("Connection", "keep-alive")

	start := time.Now()
	resp, err := f.httpClient.Do(request)
	if err != nil {
		return "", f.classify(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Warn().Str("url", rawURL).Int("status", resp.StatusCode).Msg("non-2xx response")
		return "", &HTTPError{Status: resp.StatusCode}
	}

	limitedReader := io.LimitReader(resp.Body, maxBodyBytes)
	bodyData, err := io.ReadAll(limitedReader)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}

	f.logger.Info().
		Str("url", rawURL).
		Int("bytes", len(bodyData)).
		Dur("elapsed", time.Since(start)).
		Msg("fetched page")

	return string(bodyData), nil
}

// classify maps transport-level failures onto the fetch error kinds.
func (f *Fetcher) classify(rawURL string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s", ErrTimeout, rawURL)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrTimeout, rawURL)
	}
	return fmt.Errorf("%w: %v", ErrConnection, err)
}
