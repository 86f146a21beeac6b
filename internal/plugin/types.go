// Package plugin provides discovery and execution of game-event hook plugins.
// A hook is an external executable that receives a JSON event on stdin when
// something notable happens in a session (game over, new high score,
// calibration complete) and replies with a JSON response on stdout.
package plugin

import "encoding/json"

// Event names delivered to hooks.
const (
	EventGameOver     = "game_over"
	EventNewHighScore = "new_high_score"
	EventCalibrated   = "calibrated"
	EventSignalLost   = "signal_lost"
)

// Manifest describes a hook plugin's metadata and the events it subscribes to.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Events       []string        `json:"events"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Request represents a game event sent to a hook for execution.
type Request struct {
	Event       string          `json:"event"`
	Score       int             `json:"score"`
	SnakeLength int             `json:"snake_length"`
	DurationMs  int64           `json:"duration_ms"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Response represents the response from a hook execution.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered hook with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Subscribed reports whether the plugin wants the given event. An empty
// event list subscribes to everything.
func (p *Plugin) Subscribed(event string) bool {
	if len(p.Manifest.Events) == 0 {
		return true
	}
	for _, e := range p.Manifest.Events {
		if e == event {
			return true
		}
	}
	return false
}
