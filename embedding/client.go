// Package embedding talks to the external sentence-embedding service.
// One client instance is shared process-wide; its HTTP client and the
// initial service health probe run once, on first use.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	embedTimeout  = 30 * time.Second
	maxTextLength = 50000
	// brief gap between batch items to keep the service responsive
	batchPause = 10 * time.Millisecond
)

// embedRequest is what we send to the embedding service.
type embedRequest struct {
	Text string `json:"text"`
}

// embedResponse is what we get back.
type embedResponse struct {
	Embedding []float32 `json:"embedding"`
	Dims      int32     `json:"dims"`
	ElapsedMS float32   `json:"elapsed_ms"`
}

// Client is an explicit handle on the embedding service. Construct it
// once in main and pass it down; initialization is lazy and guarded by
// sync.Once so concurrent first calls stay safe.
type Client struct {
	serviceURL string
	healthURL  string
	logger     zerolog.Logger

	initOnce   sync.Once
	initErr    error
	httpClient *http.Client
}

// New returns an uninitialized client. No connection is made until the
// first EmbedBatch call.
func New(serviceURL, healthURL string, logger zerolog.Logger) *Client {
	return &Client{
		serviceURL: serviceURL,
		healthURL:  healthURL,
		logger:     logger,
	}
}

// init sets up the HTTP client and probes the service once. A probe
// failure is remembered and surfaces on every later call: the model
// behind the service is unusable, not worth retrying.
func (c *Client) init() error {
	c.initOnce.Do(func() {
		c.httpClient = &http.Client{
			Timeout: embedTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     time.Minute,
				DisableKeepAlives:   false,
			},
		}
		if c.healthURL == "" {
			return
		}
		if err := c.healthCheck(); err != nil {
			c.initErr = fmt.Errorf("embedding service unavailable: %w", err)
			c.logger.Error().Err(c.initErr).Msg("embedding client initialization failed")
		}
	})
	return c.initErr
}

func (c *Client) healthCheck() error {
	resp, err := c.httpClient.Get(c.healthURL)
	if err != nil {
		return fmt.Errorf("can't reach embedding service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("embedding service returned %d", resp.StatusCode)
	}

	var health map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("can't decode health response: %w", err)
	}

	c.logger.Info().Interface("health", health).Msg("embedding service ready")
	return nil
}

// EmbedBatch maps texts to vectors, index-aligned. An empty input
// returns an empty output without touching the service at all.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	if err := c.init(); err != nil {
		return nil, err
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := c.embedOne(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("can't embed text %d: %w", i, err)
		}
		out[i] = embedding

		if i < len(texts)-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(batchPause):
			}
		}
	}

	return out, nil
}

func (c *Client) embedOne(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text is empty, can't embed")
	}

	if len(text) > maxTextLength {
		c.logger.Warn().Int("original_len", len(text)).Msg("text too long, truncating before embedding")
		text = text[:maxTextLength]
	}

	jsonData, err := json.Marshal(embedRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("can't marshal request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("can't create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("can't call embedding service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding service returned %d: %s", resp.StatusCode, string(body))
	}

	var embedResp embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("can't decode response: %w", err)
	}

	c.logger.Debug().
		Int32("dims", embedResp.Dims).
		Float32("service_ms", embedResp.ElapsedMS).
		Dur("total", time.Since(start)).
		Msg("got embedding")

	return embedResp.Embedding, nil
}
