package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fitforge/internal/models"
	"github.com/meltforce/fitforge/internal/session"
)

// Client talks to the FitForge server's session API. It implements
// session.Persistence, so a live workout can mirror itself to the server.
// Writes are single-shot: a failed save is dropped and the next full
// snapshot catches the server up.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: *Client satisfies session.Persistence.
var _ session.Persistence = (*Client)(nil)

// New creates a client for the given server base URL.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// CreateSession registers a new session on the server and returns its ID.
func (c *Client) CreateSession(ctx context.Context, _ int, payload models.SessionPayload) (uuid.UUID, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/v1/sessions", payload)
	if err != nil {
		return uuid.Nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return uuid.Nil, fmt.Errorf("create session failed (status %d): %s", resp.StatusCode, body)
	}

	var out struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return uuid.Nil, fmt.Errorf("decoding create response: %w", err)
	}
	return out.ID, nil
}

// UpdateSession replaces the server copy of a session with the snapshot.
func (c *Client) UpdateSession(ctx context.Context, id uuid.UUID, payload models.SessionPayload) error {
	resp, err := c.do(ctx, http.MethodPatch, "/api/v1/sessions/"+id.String(), payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("update session failed (status %d): %s", resp.StatusCode, body)
	}
	return nil
}

// GetActiveSession fetches the in-progress session, if any. A 404 means no
// active session and is not an error.
func (c *Client) GetActiveSession(ctx context.Context, _ int) (*models.WorkoutSession, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/sessions/active", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("active session request failed (status %d): %s", resp.StatusCode, body)
	}

	var ws models.WorkoutSession
	if err := json.NewDecoder(resp.Body).Decode(&ws); err != nil {
		return nil, fmt.Errorf("decoding active session: %w", err)
	}
	return &ws, nil
}

// DeleteSession removes a session from the server.
func (c *Client) DeleteSession(ctx context.Context, id uuid.UUID) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/v1/sessions/"+id.String(), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete session failed (status %d): %s", resp.StatusCode, body)
	}
	return nil
}
