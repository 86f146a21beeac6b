package game

import (
	"github.com/ayusman/naagin/internal/control"
	"github.com/ayusman/naagin/internal/track"
)

// Snapshot is the read-only per-tick state handed to the rendering side.
type Snapshot struct {
	Tick       uint64            `json:"tick"`
	Phase      Phase             `json:"phase"`
	Snake      []Cell            `json:"snake"`
	Food       Cell              `json:"food"`
	Score      int               `json:"score"`
	Heading    control.Direction `json:"-"`
	HeadingStr string            `json:"heading"`
	GridWidth  int               `json:"grid_width"`
	GridHeight int               `json:"grid_height"`
	Boost      bool              `json:"boost"`

	// Head is the current smoothed head position, for on-screen feedback.
	// Nil while tracking is lost.
	Head *track.Position `json:"head,omitempty"`

	// CalibrationProgress is 0-100 and meaningful during calibration.
	CalibrationProgress int `json:"calibration_progress"`
}

// Snapshot returns a copy of the current game state. The Head and
// CalibrationProgress fields belong to the tracking side and are filled in
// by the pipeline before publishing.
func (e *Engine) Snapshot() Snapshot {
	snake := make([]Cell, len(e.snake))
	copy(snake, e.snake)

	return Snapshot{
		Tick:       e.tick,
		Phase:      e.phase,
		Snake:      snake,
		Food:       e.food,
		Score:      e.score,
		Heading:    e.heading,
		HeadingStr: e.heading.String(),
		GridWidth:  e.config.Width,
		GridHeight: e.config.Height,
		Boost:      e.boost,
	}
}
