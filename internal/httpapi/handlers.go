package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/niche-finder/internal/agent/discovery"
	"github.com/niche-finder/internal/models"
	"github.com/niche-finder/internal/storage"
)

// Error summaries shown to end users
const (
	msgDiscoverFailed = "Failed to analyze niche. Please try again."
	msgTrendingFailed = "Failed to fetch trending niches"
	msgInvalidBody    = "Invalid request body"
	msgHistoryOff     = "Search history is disabled"
)

// maxBodyBytes bounds a discover request body
const maxBodyBytes = 64 << 10

// DiscoverRequest is the POST /api/discover body
type DiscoverRequest struct {
	Query    string          `json:"query"`
	Platform models.Platform `json:"platform,omitempty"`
}

// ErrorResponse is the envelope for every non-2xx answer
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// HistoryResponse is the GET /api/history body
type HistoryResponse struct {
	Searches []*models.SearchRecord `json:"searches"`
	Total    int64                  `json:"total"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleDiscover(c echo.Context) error {
	var req DiscoverRequest
	body := io.LimitReader(c.Request().Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody, Details: err.Error()})
	}

	niches, err := s.pipeline.Discover(c.Request().Context(), req.Query, req.Platform)
	if err != nil {
		if discovery.IsValidation(err) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		}
		resp := ErrorResponse{Error: msgDiscoverFailed, Details: err.Error()}
		if s.devErrors {
			resp.Stack = errorChain(err)
		}
		return c.JSON(http.StatusInternalServerError, resp)
	}

	return c.JSON(http.StatusOK, models.NicheList{Niches: niches})
}

func (s *Server) handleTrending(c echo.Context) error {
	niches, err := s.pipeline.Trending(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgTrendingFailed, Details: err.Error()})
	}
	return c.JSON(http.StatusOK, models.NicheList{Niches: niches})
}

func (s *Server) handleHistory(c echo.Context) error {
	if s.repository == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: msgHistoryOff})
	}

	filter := storage.DefaultSearchFilter()
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be an integer"})
		}
		filter.Limit = storage.ClampLimit(limit)
	}
	if kind := models.SearchKind(c.QueryParam("kind")); kind != "" {
		if kind != models.SearchKindDiscover && kind != models.SearchKindTrending {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "kind must be discover or trending"})
		}
		filter.Kind = &kind
	}

	ctx := c.Request().Context()
	records, err := s.repository.ListSearches(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load search history", Details: err.Error()})
	}
	total, err := s.repository.CountSearches(ctx, storage.SearchFilter{Kind: filter.Kind})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load search history", Details: err.Error()})
	}

	if records == nil {
		records = []*models.SearchRecord{}
	}
	return c.JSON(http.StatusOK, HistoryResponse{Searches: records, Total: total})
}

// errorChain renders each wrapped layer of err, outermost first
func errorChain(err error) string {
	var b strings.Builder
	for depth := 0; err != nil; depth++ {
		fmt.Fprintf(&b, "%d: %T: %s\n", depth, err, err.Error())
		err = errors.Unwrap(err)
	}
	return strings.TrimRight(b.String(), "\n")
}
