package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/barbell/internal/models"
	"github.com/claude/barbell/internal/records"
)

// HTTPClient implements DataSource by calling the Barbell REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

var errNotFound = errors.New("not found")

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) Plan(ctx context.Context) (models.TodaysPlan, error) {
	var plan models.TodaysPlan
	err := c.getJSON(ctx, "/api/v1/plan", nil, &plan)
	return plan, err
}

func (c *HTTPClient) History(ctx context.Context) ([]models.WorkoutLogEntry, error) {
	var entries []models.WorkoutLogEntry
	err := c.getJSON(ctx, "/api/v1/history", nil, &entries)
	return entries, err
}

func (c *HTTPClient) HistoryOn(ctx context.Context, date time.Time) (models.WorkoutLogEntry, bool, error) {
	var entry models.WorkoutLogEntry
	err := c.getJSON(ctx, "/api/v1/history", url.Values{"date": {date.Format("2006-01-02")}}, &entry)
	if errors.Is(err, errNotFound) {
		return models.WorkoutLogEntry{}, false, nil
	}
	if err != nil {
		return models.WorkoutLogEntry{}, false, err
	}
	return entry, true, nil
}

func (c *HTTPClient) PersonalRecord(ctx context.Context, kind models.ExerciseKind) (records.Record, bool, error) {
	var resp struct {
		PersonalRecord     *float64   `json:"personal_record"`
		EstimatedOneRepMax *float64   `json:"estimated_one_rep_max"`
		Date               *time.Time `json:"date"`
	}
	if err := c.getJSON(ctx, "/api/v1/records/"+kind.Slug(), nil, &resp); err != nil {
		return records.Record{}, false, err
	}
	if resp.PersonalRecord == nil {
		return records.Record{}, false, nil
	}
	rec := records.Record{Kind: kind, Weight: *resp.PersonalRecord}
	if resp.EstimatedOneRepMax != nil {
		rec.EstimatedOneRepMax = *resp.EstimatedOneRepMax
	}
	if resp.Date != nil {
		rec.Date = *resp.Date
	}
	return rec, true, nil
}

func (c *HTTPClient) Progression(ctx context.Context, kind models.ExerciseKind) ([]records.Point, error) {
	var points []records.Point
	err := c.getJSON(ctx, "/api/v1/progression/"+kind.Slug(), nil, &points)
	return points, err
}
