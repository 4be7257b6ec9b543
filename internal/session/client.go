package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/niche-finder/internal/models"
	"github.com/niche-finder/pkg/logger"
)

// APIError is a non-2xx answer, or a 2xx body that carries an error field
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("API error (status %d): %s: %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// nicheResponse covers both the success and the error envelope
type nicheResponse struct {
	Niches  []models.Niche `json:"niches"`
	Error   string         `json:"error"`
	Details string         `json:"details"`
}

// historyResponse is the /api/history body
type historyResponse struct {
	Searches []*models.SearchRecord `json:"searches"`
	Total    int64                  `json:"total"`
	Error    string                 `json:"error"`
}

// APIClient talks to a running niche-finder server
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewAPIClient creates a client for the server at baseURL
func NewAPIClient(baseURL string, timeout time.Duration, log *logger.Logger) *APIClient {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.WithComponent("api-client"),
	}
}

// Discover posts a query to /api/discover
func (c *APIClient) Discover(ctx context.Context, query string, platform models.Platform) ([]models.Niche, error) {
	payload, err := json.Marshal(map[string]string{
		"query":    query,
		"platform": string(platform),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	c.log.Debug().Str("query", query).Str("platform", string(platform)).Msg("Requesting niche discovery")

	var result nicheResponse
	status, err := c.do(ctx, http.MethodPost, "/api/discover", bytes.NewReader(payload), &result)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || result.Error != "" {
		return nil, &APIError{StatusCode: status, Message: result.Error, Details: result.Details}
	}
	return result.Niches, nil
}

// Trending fetches /api/trending
func (c *APIClient) Trending(ctx context.Context) ([]models.Niche, error) {
	var result nicheResponse
	status, err := c.do(ctx, http.MethodGet, "/api/trending", nil, &result)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || result.Error != "" {
		return nil, &APIError{StatusCode: status, Message: result.Error, Details: result.Details}
	}
	return result.Niches, nil
}

// History fetches the most recent search records
func (c *APIClient) History(ctx context.Context, limit int) ([]*models.SearchRecord, int64, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	path := "/api/history"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var result historyResponse
	status, err := c.do(ctx, http.MethodGet, path, nil, &result)
	if err != nil {
		return nil, 0, err
	}
	if status != http.StatusOK {
		return nil, 0, &APIError{StatusCode: status, Message: result.Error}
	}
	return result.Searches, result.Total, nil
}

// do sends a request and decodes any JSON body into out.
// Transport and decode failures are errors; HTTP statuses are returned.
func (c *APIClient) do(ctx context.Context, method, path string, body io.Reader, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
		}
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}

	c.log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("request_id", resp.Header.Get("X-Request-ID")).
		Msg("API call completed")

	return resp.StatusCode, nil
}
