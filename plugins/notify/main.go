// Package main provides a desktop notification hook.
// It posts a notification when a game ends or a new high score is set.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Request represents the input from the hook executor.
type Request struct {
	Event       string          `json:"event"`
	Score       int             `json:"score"`
	SnakeLength int             `json:"snake_length"`
	DurationMs  int64           `json:"duration_ms"`
	Config      json.RawMessage `json:"config"`
}

// Response represents the output to the hook executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func main() {
	// Read request from stdin
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	var message string
	switch req.Event {
	case "game_over":
		message = fmt.Sprintf("Game over! Score: %d, length: %d", req.Score, req.SnakeLength)
	case "new_high_score":
		message = fmt.Sprintf("New high score: %d!", req.Score)
	case "calibrated":
		message = "Calibration complete, game on"
	case "signal_lost":
		message = "Lost sight of you, game paused"
	default:
		writeErrorResponse(fmt.Sprintf("unknown event: %s", req.Event))
		return
	}

	if err := notify("Naagin", message); err != nil {
		writeErrorResponse(fmt.Sprintf("notification failed: %v", err))
		return
	}

	writeSuccessResponse()
}

// notify posts a desktop notification using the platform's native tool.
func notify(title, message string) error {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		return exec.Command("osascript", "-e", script).Run()
	default:
		return exec.Command("notify-send", title, message).Run()
	}
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	resp := Response{
		Success: false,
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	resp := Response{
		Success: true,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
