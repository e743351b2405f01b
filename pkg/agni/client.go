// Package agni provides the AGNI HTTP API client with key-based login,
// paced JSON queries, and error classification.
package agni

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for AGNI client operations.
var (
	agniRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agni_requests_total",
		Help: "Total AGNI requests by endpoint and status",
	}, []string{"endpoint", "status"})

	agniRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agni_request_duration_seconds",
		Help:    "AGNI request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"endpoint"})

	agniErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agni_errors_total",
		Help: "Total AGNI errors by class",
	}, []string{"class"})

	agniRecordsFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agni_records_fetched_total",
		Help: "Total records returned by AGNI by endpoint",
	}, []string{"endpoint"})
)

const (
	loginPath = "/cvcue/keyLogin"

	defaultRequestDelay = 200 * time.Millisecond
	defaultTimeout      = 60 * time.Second
)

// Record is one unit of data returned by the API. Attributes are not known
// ahead of time; the response shape is not guaranteed stable across windows,
// so records stay opaque key/value maps all the way to the CSV writer.
type Record map[string]any

// Config holds the client configuration.
type Config struct {
	// BaseURL is the AGNI cluster URL, e.g. "https://ag01c01.agni.arista.io".
	BaseURL string

	// KeyID, KeyValue are the long-lived API key credentials.
	KeyID    string
	KeyValue string

	// OrgID is the organization identifier sent with every query.
	OrgID string

	// RequestDelay is the flat delay between successive API calls
	// (default 200ms). Zero uses the default; negative disables pacing.
	RequestDelay time.Duration

	// Timeout per HTTP request (default 60s).
	Timeout time.Duration
}

// Client is the AGNI API client. It is used by one export run at a time;
// the only concurrent callers are enrichment workers, which share the pacer.
type Client struct {
	httpClient *http.Client
	baseURL    string
	orgID      string
	keyID      string
	keyValue   string
	token      string
	pace       *pacer
	logger     zerolog.Logger
	loggedIn   bool
}

// New creates a new AGNI client. All credential fields must be non-empty;
// their absence is a configuration error, not a runtime error.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, &APIError{Class: ErrorClassConfig, Message: "base URL is required"}
	}
	if cfg.KeyID == "" || cfg.KeyValue == "" {
		return nil, &APIError{Class: ErrorClassConfig, Message: "key ID and key value are required"}
	}
	if cfg.OrgID == "" {
		return nil, &APIError{Class: ErrorClassConfig, Message: "org ID is required"}
	}

	delay := cfg.RequestDelay
	if delay == 0 {
		delay = defaultRequestDelay
	} else if delay < 0 {
		delay = 0
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	// Login establishes a cookie session, so the client carries a jar.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		orgID:    cfg.OrgID,
		keyID:    cfg.KeyID,
		keyValue: cfg.KeyValue,
		pace:     newPacer(delay),
		logger:   log.With().Str("component", "agni-client").Logger(),
	}, nil
}

// loginResponse is the optional body of a successful key login. Some clusters
// return a bearer token alongside the session cookie.
type loginResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

// Login exchanges the API key for a session. One attempt, no retry: any
// non-success response or network failure is fatal to the run.
func (c *Client) Login(ctx context.Context) error {
	u := c.baseURL + loginPath + "?" + url.Values{
		"keyID":    {c.keyID},
		"keyValue": {c.keyValue},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	agniRequestDuration.WithLabelValues(loginPath).Observe(time.Since(start).Seconds())
	if err != nil {
		agniErrorsTotal.WithLabelValues(string(ErrorClassAuth)).Inc()
		agniRequestsTotal.WithLabelValues(loginPath, "network_error").Inc()
		return &APIError{Endpoint: loginPath, Class: ErrorClassAuth, Message: "login request failed", Err: err}
	}
	defer resp.Body.Close()

	agniRequestsTotal.WithLabelValues(loginPath, fmt.Sprintf("%d", resp.StatusCode)).Inc()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		agniErrorsTotal.WithLabelValues(string(ErrorClassAuth)).Inc()
		return &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   loginPath,
			Class:      ErrorClassAuth,
			Message:    "login rejected: " + resp.Status,
		}
	}

	// The session cookie is now in the jar. Pick up a bearer token too when
	// the cluster returns one.
	var lr loginResponse
	if body, err := io.ReadAll(resp.Body); err == nil && len(body) > 0 {
		if err := json.Unmarshal(body, &lr); err == nil && lr.Data.Token != "" {
			c.token = lr.Data.Token
		}
	}

	c.loggedIn = true
	c.logger.Info().Str("base_url", c.baseURL).Msg("Login successful")
	return nil
}

// envelope is the standard AGNI response wrapper. The error field is kept raw
// because the upstream is not consistent about its type.
type envelope struct {
	Error json.RawMessage `json:"error"`
	Data  json.RawMessage `json:"data"`
}

// errMessage reports whether the raw error field carries an actual error and,
// if so, its text. Null, empty string, and false all mean "no error".
func errMessage(raw json.RawMessage) (string, bool) {
	s := strings.TrimSpace(string(raw))
	switch s {
	case "", "null", `""`, "false", "{}":
		return "", false
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err == nil {
		return msg, true
	}
	return s, true
}

// postJSON issues one paced POST to an API endpoint and decodes the data
// envelope into out. There is no retry: any failure is surfaced to the caller,
// which decides whether it is fatal.
func (c *Client) postJSON(ctx context.Context, endpoint string, payload any, out any) error {
	if !c.loggedIn {
		return ErrNotAuthenticated
	}

	if err := c.pace.Wait(ctx); err != nil {
		return fmt.Errorf("request pacing: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug().Str("endpoint", endpoint).Msg("Executing AGNI request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	agniRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		agniErrorsTotal.WithLabelValues(string(ErrorClassFetch)).Inc()
		agniRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return &APIError{Endpoint: endpoint, Class: ErrorClassFetch, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	agniRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		agniErrorsTotal.WithLabelValues(string(ErrorClassFetch)).Inc()
		return &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Class:      ErrorClassFetch,
			Message:    resp.Status,
		}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		agniErrorsTotal.WithLabelValues(string(ErrorClassFetch)).Inc()
		return &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Class:      ErrorClassFetch,
			Message:    "decode response",
			Err:        err,
		}
	}

	if msg, isErr := errMessage(env.Error); isErr {
		agniErrorsTotal.WithLabelValues(string(ErrorClassFetch)).Inc()
		return &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Class:      ErrorClassFetch,
			Message:    "API returned error: " + msg,
		}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &APIError{
				StatusCode: resp.StatusCode,
				Endpoint:   endpoint,
				Class:      ErrorClassFetch,
				Message:    "decode data",
				Err:        err,
			}
		}
	}
	return nil
}

// SetHTTPClient swaps the underlying HTTP client (for testing). The cookie
// jar is preserved.
func (c *Client) SetHTTPClient(client *http.Client) {
	if client.Jar == nil {
		client.Jar = c.httpClient.Jar
	}
	c.httpClient = client
}
