package control

import (
	"math"

	"github.com/ayusman/naagin/internal/track"
)

// ClassifierConfig holds the per-axis displacement thresholds in pixels.
type ClassifierConfig struct {
	// DeadZone is the inner radius: displacement below it reports no
	// movement on that axis.
	DeadZone float64

	// Activation is the outer radius: displacement beyond it positively
	// asserts a direction. Between DeadZone and Activation the previous
	// direction on the axis is held (hysteresis band).
	Activation float64
}

// DefaultClassifierConfig returns a ClassifierConfig with sensible default values.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		DeadZone:   18,
		Activation: 40,
	}
}

// Classifier maps head displacement from the calibrated baseline into a
// discrete direction. A single threshold would chatter under sensor noise
// whenever the displacement sits near the boundary; the two-threshold design
// holds the previously asserted direction while the displacement stays inside
// the hysteresis band, and releases it only below the dead-zone.
type Classifier struct {
	config ClassifierConfig

	// held per-axis state
	horiz Direction // None, Left or Right
	vert  Direction // None, Up or Down
}

// NewClassifier creates a Classifier with the given configuration.
func NewClassifier(config ClassifierConfig) *Classifier {
	if config.DeadZone <= 0 || config.Activation <= config.DeadZone {
		config = DefaultClassifierConfig()
	}
	return &Classifier{config: config}
}

// Classify maps the displacement of pos from baseline into a direction.
// When both axes are active, the one with the larger displacement wins;
// diagonal ambiguity is resolved by magnitude, not axis priority.
func (c *Classifier) Classify(pos, baseline track.Position) Direction {
	dx := pos.X - baseline.X
	dy := pos.Y - baseline.Y

	c.horiz = c.axis(dx, c.horiz, Left, Right)
	c.vert = c.axis(dy, c.vert, Up, Down)

	switch {
	case c.horiz == None:
		return c.vert
	case c.vert == None:
		return c.horiz
	}

	// Both axes held or active: larger displacement wins.
	if math.Abs(dx) >= math.Abs(dy) {
		return c.horiz
	}
	return c.vert
}

// axis runs the two-threshold state machine for one axis. neg is the
// direction for negative displacement (Left or Up), pos for positive.
func (c *Classifier) axis(d float64, prev, neg, pos Direction) Direction {
	abs := math.Abs(d)

	if abs < c.config.DeadZone {
		return None
	}

	cur := pos
	if d < 0 {
		cur = neg
	}

	if abs >= c.config.Activation {
		return cur
	}

	// Hysteresis band: hold the previous assertion, but only while the
	// displacement still points the same way.
	if prev == cur {
		return prev
	}
	return None
}

// Reset clears the held per-axis state.
func (c *Classifier) Reset() {
	c.horiz = None
	c.vert = None
}
