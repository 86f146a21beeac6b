package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/naagin/internal/game"
	"github.com/ayusman/naagin/internal/store"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func TestAPI_ScoreWorkflow(t *testing.T) {
	// Setup
	tmpDir := t.TempDir()
	s, _ := store.New(filepath.Join(tmpDir, "test.db"))
	defer s.Close()

	ctrl := &fakeController{snap: game.Snapshot{Phase: game.PhaseGameOver, Score: 7}}
	srv := New(Config{Store: s, Game: ctrl})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. A finished session leaves a score behind
	err := s.Scores().Create(&store.Score{
		ID:          uuid.NewString(),
		Score:       7,
		SnakeLength: 10,
		Duration:    90 * time.Second,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// 2. The score list shows it
	resp, err := client.Get(ts.URL + "/api/scores")
	if err != nil {
		t.Fatalf("GET /api/scores error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var listed struct {
		Scores []struct {
			Score       int `json:"score"`
			SnakeLength int `json:"snake_length"`
		} `json:"scores"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	if len(listed.Scores) != 1 || listed.Scores[0].Score != 7 {
		t.Fatalf("listed scores = %+v, want one entry with score 7", listed.Scores)
	}

	// 3. State reflects the controller snapshot
	resp, _ = client.Get(ts.URL + "/api/state")
	var state struct {
		Phase string `json:"phase"`
		Score int    `json:"score"`
	}
	json.NewDecoder(resp.Body).Decode(&state)
	resp.Body.Close()

	if state.Phase != string(game.PhaseGameOver) || state.Score != 7 {
		t.Errorf("state = %+v, want game_over with score 7", state)
	}

	// 4. Restart signal reaches the controller
	resp, err = client.Post(ts.URL+"/api/control", "application/json",
		bytes.NewBufferString(`{"signal": "restart"}`))
	if err != nil {
		t.Fatalf("POST /api/control error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	ctrl.mu.Lock()
	restarts := ctrl.restarts
	ctrl.mu.Unlock()
	if restarts != 1 {
		t.Errorf("restarts = %d, want 1", restarts)
	}
}

func TestAPI_GameWebSocket(t *testing.T) {
	ctrl := &fakeController{snap: game.Snapshot{
		Tick:       12,
		Phase:      game.PhaseRunning,
		Snake:      []game.Cell{{X: 3, Y: 3}},
		HeadingStr: "up",
	}}
	srv := New(Config{Game: ctrl})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + ts.URL[len("http"):] + "/api/game"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}

	var snap struct {
		Tick    uint64 `json:"tick"`
		Phase   string `json:"phase"`
		Heading string `json:"heading"`
	}
	if err := json.Unmarshal(msg, &snap); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}
	if snap.Tick != 12 || snap.Phase != string(game.PhaseRunning) || snap.Heading != "up" {
		t.Errorf("snapshot = %+v, want tick 12 running up", snap)
	}
}
