// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/baselike/internal/likes"
)

// maxEntityBody bounds the entity response read into memory.
const maxEntityBody = 64 << 10

// entityResponse is the body served at {base}/{type}/{id}.
type entityResponse struct {
	Title string `json:"title"`
}

// HTTP resolves titles from an entity service.
type HTTP struct {
	baseURL        string
	client         *http.Client
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewHTTP creates a resolver for baseURL. A non-positive timeout means
// five seconds.
func NewHTTP(baseURL string, timeout time.Duration) (*HTTP, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid entity service URL %q", likes.ErrInvalidArgument, baseURL)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTP{
		baseURL:        strings.TrimRight(baseURL, "/"),
		client:         &http.Client{Timeout: timeout},
		maxRetries:     2,
		retryBaseDelay: 250 * time.Millisecond,
	}, nil
}

func (h *HTTP) entityURL(t likes.Target) string {
	return h.baseURL + "/" + url.PathEscape(t.Type) + "/" + url.PathEscape(t.ID)
}

// Resolve fetches the entity. 404 maps to likes.ErrEntityNotFound; an
// empty title falls back to "Type/ID".
func (h *HTTP) Resolve(ctx context.Context, t likes.Target) (e likes.Entity, err error) {
	start := time.Now()
	defer func() { observe("http", start, err) }()

	resp, err := h.doRequestWithRateLimit(ctx, h.entityURL(t))
	if err != nil {
		return likes.Entity{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return likes.Entity{}, fmt.Errorf("%w: %s", likes.ErrEntityNotFound, t)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return likes.Entity{}, fmt.Errorf("entity service returned HTTP %d for %s", resp.StatusCode, t)
	}

	var body entityResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxEntityBody)).Decode(&body); err != nil {
		return likes.Entity{}, fmt.Errorf("decode entity %s: %w", t, err)
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		title = t.String()
	}
	return likes.Entity{Target: t, Title: title}, nil
}

// doRequestWithRateLimit performs a GET, backing off exponentially on
// HTTP 429 and honoring Retry-After in seconds.
func (h *HTTP) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := h.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		_ = resp.Body.Close()

		if attempt >= h.maxRetries {
			return nil, fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", h.maxRetries)
		}

		delay := h.retryBaseDelay * time.Duration(1<<uint(attempt))
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs >= 0 {
				delay = time.Duration(secs) * time.Second
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}
