package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fitforge/internal/models"
	"github.com/meltforce/fitforge/internal/storage"
)

// HTTPClient implements DataSource by calling the FitForge REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// bucketToAgg maps MCP bucket values to REST API agg parameter values.
func bucketToAgg(bucket string) string {
	switch bucket {
	case "1 week":
		return "weekly"
	default:
		return "monthly"
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("httpclient: read body: %w", err)
	}

	return body, resp.StatusCode, nil
}

func (c *HTTPClient) getOK(ctx context.Context, path string, params url.Values) ([]byte, error) {
	body, status, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, status, body)
	}
	return body, nil
}

func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("start", start.Format(time.RFC3339))
	v.Set("end", end.Format(time.RFC3339))
	return v
}

func (c *HTTPClient) QuerySessions(ctx context.Context, start, end time.Time, _ int) ([]models.SessionRow, error) {
	body, err := c.getOK(ctx, "/api/v1/sessions", timeParams(start, end))
	if err != nil {
		return nil, err
	}

	var sessions []models.SessionRow
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("httpclient: decode sessions: %w", err)
	}
	return sessions, nil
}

func (c *HTTPClient) GetSession(ctx context.Context, id uuid.UUID, _ int) (*models.WorkoutSession, error) {
	body, err := c.getOK(ctx, "/api/v1/sessions/"+id.String(), nil)
	if err != nil {
		return nil, err
	}

	var ws models.WorkoutSession
	if err := json.Unmarshal(body, &ws); err != nil {
		return nil, fmt.Errorf("httpclient: decode session: %w", err)
	}
	return &ws, nil
}

func (c *HTTPClient) GetActiveSession(ctx context.Context, _ int) (*models.WorkoutSession, error) {
	body, status, err := c.get(ctx, "/api/v1/sessions/active", nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("httpclient: active session returned %d: %s", status, body)
	}

	var ws models.WorkoutSession
	if err := json.Unmarshal(body, &ws); err != nil {
		return nil, fmt.Errorf("httpclient: decode active session: %w", err)
	}
	return &ws, nil
}

func (c *HTTPClient) QueryExerciseSets(ctx context.Context, exercise string, start, end time.Time, _ int) ([]models.SessionSetRow, error) {
	path := "/api/v1/exercises/" + url.PathEscape(exercise) + "/sets"
	body, err := c.getOK(ctx, path, timeParams(start, end))
	if err != nil {
		return nil, err
	}

	var sets []models.SessionSetRow
	if err := json.Unmarshal(body, &sets); err != nil {
		return nil, fmt.Errorf("httpclient: decode exercise sets: %w", err)
	}
	return sets, nil
}

func (c *HTTPClient) GetVolumeSummary(ctx context.Context, start, end time.Time, bucket string, _ int) ([]storage.VolumeSummaryPeriod, error) {
	params := timeParams(start, end)
	params.Set("agg", bucketToAgg(bucket))

	body, err := c.getOK(ctx, "/api/v1/stats/volume", params)
	if err != nil {
		return nil, err
	}

	var periods []storage.VolumeSummaryPeriod
	if err := json.Unmarshal(body, &periods); err != nil {
		return nil, fmt.Errorf("httpclient: decode volume summary: %w", err)
	}
	return periods, nil
}

func (c *HTTPClient) GetDataStats(ctx context.Context, _ int) (*storage.DataStats, error) {
	body, err := c.getOK(ctx, "/api/v1/stats", nil)
	if err != nil {
		return nil, err
	}

	var stats storage.DataStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("httpclient: decode stats: %w", err)
	}
	return &stats, nil
}
