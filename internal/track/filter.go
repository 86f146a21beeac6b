// Package track turns the raw head keypoint stream into a stable position
// signal: rolling-window smoothing and neutral-position calibration.
package track

import (
	"github.com/ayusman/naagin/internal/detector"
)

// Position is a smoothed head position in frame pixel coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FilterConfig holds configuration options for the position filter.
type FilterConfig struct {
	// Window is the number of accepted keypoints averaged together.
	Window int

	// MinConfidence is the keypoint confidence below which an observation
	// is treated as absent.
	MinConfidence float64

	// HoldTicks is how many consecutive absent updates the filter bridges
	// by repeating its last output before reporting absence itself.
	HoldTicks int
}

// DefaultFilterConfig returns a FilterConfig with sensible default values.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		Window:        5,
		MinConfidence: 0.3,
		HoldTicks:     10,
	}
}

// Filter maintains a smoothed head position from a jittery keypoint stream.
// Raw pose keypoints move by several pixels per frame even when the subject
// is still; the rolling average keeps the direction thresholds stable.
type Filter struct {
	config FilterConfig

	// fixed-capacity ring buffer of accepted positions
	ring  []Position
	next  int
	count int

	last    Position
	hasLast bool
	missed  int
}

// NewFilter creates a Filter with the given configuration.
// A non-positive window falls back to the default.
func NewFilter(config FilterConfig) *Filter {
	if config.Window <= 0 {
		config.Window = DefaultFilterConfig().Window
	}
	return &Filter{
		config: config,
		ring:   make([]Position, config.Window),
	}
}

// Update feeds one observation into the filter. A nil keypoint, or one below
// the confidence threshold, counts as absent. The returned bool is false only
// once an absence has lasted longer than HoldTicks; until then the last
// smoothed position is held so a transient dropout does not stall control.
func (f *Filter) Update(kp *detector.Keypoint) (Position, bool) {
	if kp == nil || kp.Confidence < f.config.MinConfidence {
		return f.absent()
	}

	f.ring[f.next] = Position{X: kp.X, Y: kp.Y}
	f.next = (f.next + 1) % len(f.ring)
	if f.count < len(f.ring) {
		f.count++
	}

	var sumX, sumY float64
	for i := 0; i < f.count; i++ {
		sumX += f.ring[i].X
		sumY += f.ring[i].Y
	}

	f.last = Position{X: sumX / float64(f.count), Y: sumY / float64(f.count)}
	f.hasLast = true
	f.missed = 0

	return f.last, true
}

func (f *Filter) absent() (Position, bool) {
	if !f.hasLast {
		return Position{}, false
	}

	f.missed++
	if f.missed > f.config.HoldTicks {
		return Position{}, false
	}

	// The window state is kept: tracking that resumes after a short
	// dropout continues from the same history.
	return f.last, true
}

// Reset clears the window and held state.
func (f *Filter) Reset() {
	f.next = 0
	f.count = 0
	f.hasLast = false
	f.missed = 0
}
