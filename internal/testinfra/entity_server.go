// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package testinfra

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
)

// EntityCapture represents a captured entity lookup.
type EntityCapture struct {
	Method string
	Path   string
	Header http.Header
}

// MockEntityServer serves entity titles at GET /{type}/{id} the way the
// HTTP resolver expects: 200 with {"title": "..."} or 404.
type MockEntityServer struct {
	Server *httptest.Server

	mu       sync.Mutex
	titles   map[string]string
	captures []EntityCapture

	// ResponseFunc, when set, replaces the default handler.
	ResponseFunc func(w http.ResponseWriter, r *http.Request)
}

// NewMockEntityServer starts a server knowing titles keyed "Type/ID". The
// server is closed when the test ends.
func NewMockEntityServer(t *testing.T, titles map[string]string) *MockEntityServer {
	t.Helper()

	m := &MockEntityServer{titles: make(map[string]string, len(titles))}
	for k, v := range titles {
		m.titles[k] = v
	}

	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.captures = append(m.captures, EntityCapture{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
		})
		fn := m.ResponseFunc
		title, ok := m.titles[strings.TrimPrefix(r.URL.Path, "/")]
		m.mu.Unlock()

		if fn != nil {
			fn(w, r)
			return
		}
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"title": title}) //nolint:errcheck
	}))
	t.Cleanup(m.Server.Close)

	return m
}

// URL returns the server URL.
func (m *MockEntityServer) URL() string {
	return m.Server.URL
}

// SetTitle adds or replaces a title.
func (m *MockEntityServer) SetTitle(key, title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.titles[key] = title
}

// SetResponseFunc replaces the default handler.
func (m *MockEntityServer) SetResponseFunc(fn func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResponseFunc = fn
}

// Captures returns all captured requests.
func (m *MockEntityServer) Captures() []EntityCapture {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EntityCapture, len(m.captures))
	copy(out, m.captures)
	return out
}
