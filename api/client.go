// Package api is the typed wrapper around the remote simulation REST API.
// It holds no state beyond the HTTP client; retries are the scheduler's
// concern (a failed poll is simply retried on the next tick).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/petrilab/petriscope/state"
)

// Error is a non-2xx response from the remote service.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (HTTP %d)", e.Message, e.Status)
}

// Client talks to the remote simulation service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service at baseURL.
// timeout 0 means no client-side timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// CommandResponse is the common shape of control command responses.
type CommandResponse struct {
	Status     string         `json:"status"`
	Message    string         `json:"message"`
	Generation int            `json:"generation"`
	Parameters map[string]any `json:"parameters"`
	Timestamp  string         `json:"timestamp"`
}

// Status is the run-state reported by the remote service.
type Status struct {
	IsRunning  bool `json:"is_running"`
	IsPaused   bool `json:"is_paused"`
	CurrentGen *int `json:"current_generation"`
	Gen        *int `json:"generation"`
}

// Generation returns the reported generation, preferring current_generation
// and falling back to generation.
func (s *Status) Generation() int {
	if s.CurrentGen != nil {
		return *s.CurrentGen
	}
	if s.Gen != nil {
		return *s.Gen
	}
	return 0
}

// Updates is the differential-fetch response.
type Updates struct {
	HasUpdates        bool            `json:"has_updates"`
	CurrentGeneration int             `json:"current_generation"`
	State             *state.Snapshot `json:"state,omitempty"`
	Stats             *state.Stats    `json:"stats,omitempty"`
}

// Health is the service health probe response.
type Health struct {
	Status            string `json:"status"`
	SimulationRunning bool   `json:"simulation_running"`
	CurrentGeneration int    `json:"current_generation"`
	Service           string `json:"service"`
	Version           string `json:"version"`
}

// Start begins a new simulation run. params may carry parameter overrides.
func (c *Client) Start(ctx context.Context, params map[string]any) (*CommandResponse, error) {
	var resp CommandResponse
	if err := c.post(ctx, "/api/simulation/start", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop halts the running simulation.
func (c *Client) Stop(ctx context.Context) (*CommandResponse, error) {
	var resp CommandResponse
	if err := c.post(ctx, "/api/simulation/stop", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Pause freezes the generation counter; the remote run stays alive.
func (c *Client) Pause(ctx context.Context) (*CommandResponse, error) {
	var resp CommandResponse
	if err := c.post(ctx, "/api/simulation/pause", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Resume continues a paused simulation.
func (c *Client) Resume(ctx context.Context) (*CommandResponse, error) {
	var resp CommandResponse
	if err := c.post(ctx, "/api/simulation/resume", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reset restores the simulation to its initial state.
func (c *Client) Reset(ctx context.Context) (*CommandResponse, error) {
	var resp CommandResponse
	if err := c.post(ctx, "/api/simulation/reset", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Step advances the simulation by one generation. The response carries the
// resulting generation number.
func (c *Client) Step(ctx context.Context) (*CommandResponse, error) {
	var resp CommandResponse
	if err := c.post(ctx, "/api/simulation/step", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Parameters fetches the current parameter set.
func (c *Client) Parameters(ctx context.Context) (map[string]any, error) {
	var params map[string]any
	if err := c.get(ctx, "/api/parameters", nil, &params); err != nil {
		return nil, err
	}
	return params, nil
}

// SetParameters pushes edited parameters. The response echoes the
// authoritative parameter set after the update.
func (c *Client) SetParameters(ctx context.Context, params map[string]any) (*CommandResponse, error) {
	var resp CommandResponse
	if err := c.post(ctx, "/api/parameters", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status fetches the remote run-state.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var st Status
	if err := c.get(ctx, "/api/simulation/status", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Updates performs the differential fetch: the remote side decides whether
// anything changed since generation since.
func (c *Client) Updates(ctx context.Context, since int, includeState, includeStats bool) (*Updates, error) {
	q := url.Values{}
	q.Set("since", strconv.Itoa(since))
	q.Set("state", strconv.FormatBool(includeState))
	q.Set("stats", strconv.FormatBool(includeStats))

	var upd Updates
	if err := c.get(ctx, "/api/simulation/updates", q, &upd); err != nil {
		return nil, err
	}
	if upd.State != nil {
		upd.State.Normalize()
	}
	return &upd, nil
}

// Stats fetches the slow-cadence statistics payload.
func (c *Client) Stats(ctx context.Context) (*state.Stats, error) {
	var st state.Stats
	if err := c.get(ctx, "/api/simulation/stats", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Health probes the service.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.get(ctx, "/api/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: errorMessage(data, resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// errorMessage extracts the machine-readable message from an error body,
// falling back to a generic "HTTP <status>".
func errorMessage(body []byte, status int) string {
	var payload struct {
		Err     string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Err != "" {
			return payload.Err
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}
