// Package api provides HTTP API handlers for the Naagin game daemon.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ayusman/naagin/internal/store"
)

// ScoresHandler handles HTTP requests for the high-score list.
type ScoresHandler struct {
	store *store.Store
}

// NewScoresHandler creates a new ScoresHandler with the given store.
func NewScoresHandler(s *store.Store) *ScoresHandler {
	return &ScoresHandler{store: s}
}

// ServeHTTP implements the http.Handler interface.
func (h *ScoresHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.list(w, r)
}

// Response types

type scoreResponse struct {
	ID          string `json:"id"`
	Score       int    `json:"score"`
	SnakeLength int    `json:"snake_length"`
	DurationMs  int64  `json:"duration_ms"`
	CreatedAt   string `json:"created_at"`
}

type listScoresResponse struct {
	Scores []scoreResponse `json:"scores"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Score to a scoreResponse.
func toResponse(sc *store.Score) scoreResponse {
	return scoreResponse{
		ID:          sc.ID,
		Score:       sc.Score,
		SnakeLength: sc.SnakeLength,
		DurationMs:  sc.Duration.Milliseconds(),
		CreatedAt:   sc.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/scores?limit=N and returns the top scores.
func (h *ScoresHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	scores, err := h.store.Scores().Top(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list scores")
		return
	}

	response := listScoresResponse{Scores: make([]scoreResponse, 0, len(scores))}
	for _, sc := range scores {
		response.Scores = append(response.Scores, toResponse(sc))
	}

	writeJSON(w, http.StatusOK, response)
}
