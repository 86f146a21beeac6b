package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ayusman/naagin/internal/game"
)

// fakeController records control signals and serves a canned snapshot.
type fakeController struct {
	mu       sync.Mutex
	snap     game.Snapshot
	restarts int
	pauses   int
	resumes  int
	quits    int
	boost    bool
}

func (f *fakeController) Snapshot() game.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeController) Restart() { f.mu.Lock(); f.restarts++; f.mu.Unlock() }
func (f *fakeController) Pause()   { f.mu.Lock(); f.pauses++; f.mu.Unlock() }
func (f *fakeController) Resume()  { f.mu.Lock(); f.resumes++; f.mu.Unlock() }
func (f *fakeController) Quit()    { f.mu.Lock(); f.quits++; f.mu.Unlock() }

func (f *fakeController) SetBoost(on bool) {
	f.mu.Lock()
	f.boost = on
	f.mu.Unlock()
}

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		contentType := rec.Header().Get("Content-Type")
		if contentType != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", contentType)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}

		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		methods := []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

		for _, method := range methods {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	})
}

func TestServer_State(t *testing.T) {
	ctrl := &fakeController{
		snap: game.Snapshot{
			Phase:      game.PhaseRunning,
			Snake:      []game.Cell{{X: 5, Y: 5}, {X: 4, Y: 5}},
			Food:       game.Cell{X: 8, Y: 2},
			Score:      3,
			HeadingStr: "right",
			GridWidth:  20,
			GridHeight: 20,
		},
	}
	s := New(Config{Game: ctrl})

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var snap struct {
		Phase   string      `json:"phase"`
		Snake   []game.Cell `json:"snake"`
		Score   int         `json:"score"`
		Heading string      `json:"heading"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if snap.Phase != string(game.PhaseRunning) {
		t.Errorf("phase = %s, want %s", snap.Phase, game.PhaseRunning)
	}
	if len(snap.Snake) != 2 {
		t.Errorf("snake length = %d, want 2", len(snap.Snake))
	}
	if snap.Score != 3 {
		t.Errorf("score = %d, want 3", snap.Score)
	}
	if snap.Heading != "right" {
		t.Errorf("heading = %s, want right", snap.Heading)
	}
}

func TestServer_Control(t *testing.T) {
	post := func(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/api/control", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		return rec
	}

	t.Run("dispatches signals", func(t *testing.T) {
		ctrl := &fakeController{}
		s := New(Config{Game: ctrl})

		for _, signal := range []string{"restart", "pause", "resume", "boost_on", "boost_off"} {
			rec := post(t, s, `{"signal": "`+signal+`"}`)
			if rec.Code != http.StatusOK {
				t.Errorf("signal %s: status = %d, want %d", signal, rec.Code, http.StatusOK)
			}
		}

		ctrl.mu.Lock()
		defer ctrl.mu.Unlock()
		if ctrl.restarts != 1 || ctrl.pauses != 1 || ctrl.resumes != 1 {
			t.Errorf("calls = restart %d, pause %d, resume %d, want 1 each",
				ctrl.restarts, ctrl.pauses, ctrl.resumes)
		}
		if ctrl.boost {
			t.Error("boost left on after boost_off")
		}
	})

	t.Run("rejects unknown signal", func(t *testing.T) {
		ctrl := &fakeController{}
		s := New(Config{Game: ctrl})

		rec := post(t, s, `{"signal": "levitate"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects invalid body", func(t *testing.T) {
		ctrl := &fakeController{}
		s := New(Config{Game: ctrl})

		rec := post(t, s, `not json`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("only allows POST method", func(t *testing.T) {
		ctrl := &fakeController{}
		s := New(Config{Game: ctrl})

		req := httptest.NewRequest(http.MethodGet, "/api/control", nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
		}
	})
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestServer_StaticFiles(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "naagin-server-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	content := []byte("<html><body>naagin</body></html>")
	if err := os.WriteFile(filepath.Join(tmpDir, "index.html"), content, 0o644); err != nil {
		t.Fatalf("failed to write static file: %v", err)
	}

	s := New(Config{StaticDir: tmpDir})

	req := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), content) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
