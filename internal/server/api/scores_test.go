package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/naagin/internal/store"
	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedScore(t *testing.T, s *store.Store, points, length int) {
	t.Helper()
	err := s.Scores().Create(&store.Score{
		ID:          uuid.NewString(),
		Score:       points,
		SnakeLength: length,
		Duration:    42 * time.Second,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
}

func TestScoresHandler_List(t *testing.T) {
	s := newTestStore(t)
	seedScore(t, s, 5, 8)
	seedScore(t, s, 12, 15)
	seedScore(t, s, 3, 6)

	h := NewScoresHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/scores", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var response listScoresResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Scores) != 3 {
		t.Fatalf("got %d scores, want 3", len(response.Scores))
	}
	if response.Scores[0].Score != 12 {
		t.Errorf("top score = %d, want 12", response.Scores[0].Score)
	}
	if response.Scores[0].SnakeLength != 15 {
		t.Errorf("top snake_length = %d, want 15", response.Scores[0].SnakeLength)
	}
	if response.Scores[0].DurationMs != 42000 {
		t.Errorf("top duration_ms = %d, want 42000", response.Scores[0].DurationMs)
	}
}

func TestScoresHandler_Limit(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		seedScore(t, s, i, i+1)
	}

	h := NewScoresHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/scores?limit=2", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var response listScoresResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Scores) != 2 {
		t.Errorf("got %d scores, want 2", len(response.Scores))
	}
}

func TestScoresHandler_BadLimit(t *testing.T) {
	h := NewScoresHandler(newTestStore(t))

	for _, limit := range []string{"abc", "0", "-3"} {
		req := httptest.NewRequest(http.MethodGet, "/api/scores?limit="+limit, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit %q: status = %d, want %d", limit, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestScoresHandler_EmptyList(t *testing.T) {
	h := NewScoresHandler(newTestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/scores", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var response listScoresResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Scores == nil {
		t.Error("scores should encode as an empty array, not null")
	}
	if len(response.Scores) != 0 {
		t.Errorf("got %d scores, want 0", len(response.Scores))
	}
}

func TestScoresHandler_MethodNotAllowed(t *testing.T) {
	h := NewScoresHandler(newTestStore(t))

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/scores", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("method %s: status = %d, want %d", method, rec.Code, http.StatusMethodNotAllowed)
		}
	}
}
