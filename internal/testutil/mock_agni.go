// Package testutil provides a configurable mock AGNI server for tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// envelope mirrors the AGNI response wrapper.
type envelope struct {
	Error string `json:"error,omitempty"`
	Data  any    `json:"data"`
}

// MockAGNI is a configurable mock AGNI server.
type MockAGNI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc

	// Tracking
	RequestCount int
	LoginCount   int
	LastBodies   map[string][]json.RawMessage
}

// NewMockAGNI creates a mock server with a default key login handler that
// accepts any credentials and issues a token.
func NewMockAGNI() *MockAGNI {
	mock := &MockAGNI{
		handlers:   make(map[string]http.HandlerFunc),
		LastBodies: make(map[string][]json.RawMessage),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		if r.URL.Path == "/cvcue/keyLogin" {
			mock.LoginCount++
		}
		if r.Method == http.MethodPost {
			var raw json.RawMessage
			if err := json.NewDecoder(r.Body).Decode(&raw); err == nil {
				mock.LastBodies[r.URL.Path] = append(mock.LastBodies[r.URL.Path], raw)
			}
		}
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}
		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockAGNI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAGNI) Close() {
	m.server.Close()
}

// SetHandler installs a custom handler for a path.
func (m *MockAGNI) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// Bodies returns the decoded request bodies seen on a path.
func (m *MockAGNI) Bodies(path string) []json.RawMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]json.RawMessage(nil), m.LastBodies[path]...)
}

// Requests returns the number of requests made to the server.
func (m *MockAGNI) Requests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// WriteData writes a success envelope around data.
func WriteData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(envelope{Data: data})
}

// WriteAPIError writes a 200 response whose body carries an API-level error,
// the way AGNI reports query failures.
func WriteAPIError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(envelope{Error: msg})
}

// SessionPage builds a session.list data payload.
func SessionPage(cursor string, records ...map[string]any) map[string]any {
	if records == nil {
		records = []map[string]any{}
	}
	return map[string]any{"records": records, "cursor": cursor}
}

// defaultHandler answers login with a cookie plus token and everything else
// with an empty record set.
func (m *MockAGNI) defaultHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/cvcue/keyLogin":
		if r.URL.Query().Get("keyID") == "" || r.URL.Query().Get("keyValue") == "" {
			http.Error(w, `{"error":"missing key"}`, http.StatusUnauthorized)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "cvcue-session", Value: "mock-session"})
		WriteData(w, map[string]string{"token": "mock-token"})
	default:
		WriteData(w, SessionPage(""))
	}
}
