package track

import (
	"errors"
	"time"
)

// ErrCalibrationFailed is returned when the calibration window elapses with
// too few valid observations to establish a baseline.
var ErrCalibrationFailed = errors.New("calibration failed: too few valid observations")

// CalibratorConfig holds configuration options for calibration.
type CalibratorConfig struct {
	// Duration is the wall-clock length of the calibration window,
	// measured from the first observation.
	Duration time.Duration

	// MinSamples is the minimum number of valid observations required
	// within the window for calibration to succeed.
	MinSamples int
}

// DefaultCalibratorConfig returns a CalibratorConfig with sensible default values.
func DefaultCalibratorConfig() CalibratorConfig {
	return CalibratorConfig{
		Duration:   3 * time.Second,
		MinSamples: 15,
	}
}

// Result reports the calibration state after an observation.
type Result struct {
	// Done is true exactly once, on the observation that closes the window.
	Done bool

	// Baseline is the mean observed position; valid only when Done.
	Baseline Position

	// Progress is the fraction of the calibration window elapsed (0..1).
	Progress float64
}

// Calibrator establishes the neutral head position by averaging smoothed
// positions over a fixed wall-clock window. The baseline is immutable once
// reported; a failed window must be restarted with Reset.
type Calibrator struct {
	config   CalibratorConfig
	started  bool
	startAt  time.Time
	sumX     float64
	sumY     float64
	samples  int
	finished bool
}

// NewCalibrator creates a Calibrator with the given configuration.
func NewCalibrator(config CalibratorConfig) *Calibrator {
	if config.Duration <= 0 {
		config.Duration = DefaultCalibratorConfig().Duration
	}
	if config.MinSamples <= 0 {
		config.MinSamples = DefaultCalibratorConfig().MinSamples
	}
	return &Calibrator{config: config}
}

// Observe feeds one smoothed position into the calibration window. The
// window opens on the first call. When the window closes, the Result has
// Done set and carries the mean position as Baseline; if fewer than
// MinSamples observations arrived, ErrCalibrationFailed is returned instead
// and the caller restarts via Reset. Lost tracking shows up here simply as
// missing calls, so a subject who is invisible for most of the window fails
// the sample minimum rather than producing a degenerate baseline.
func (c *Calibrator) Observe(pos Position, now time.Time) (Result, error) {
	if c.finished {
		return Result{Done: true, Baseline: c.baseline(), Progress: 1}, nil
	}

	if !c.started {
		c.started = true
		c.startAt = now
	}

	c.sumX += pos.X
	c.sumY += pos.Y
	c.samples++

	elapsed := now.Sub(c.startAt)
	if elapsed < c.config.Duration {
		return Result{Progress: float64(elapsed) / float64(c.config.Duration)}, nil
	}

	if c.samples < c.config.MinSamples {
		return Result{Progress: 1}, ErrCalibrationFailed
	}

	c.finished = true
	return Result{Done: true, Baseline: c.baseline(), Progress: 1}, nil
}

// Expired reports whether the window has run out of time without a single
// valid observation closing it. It lets the caller fail a calibration where
// tracking disappeared entirely after the window opened.
func (c *Calibrator) Expired(now time.Time) bool {
	return c.started && !c.finished && now.Sub(c.startAt) >= c.config.Duration+c.config.Duration/2
}

// Done reports whether a baseline has been established.
func (c *Calibrator) Done() bool {
	return c.finished
}

// Baseline returns the established baseline. Valid only after Done.
func (c *Calibrator) Baseline() Position {
	return c.baseline()
}

func (c *Calibrator) baseline() Position {
	if c.samples == 0 {
		return Position{}
	}
	return Position{X: c.sumX / float64(c.samples), Y: c.sumY / float64(c.samples)}
}

// Progress returns the fraction of the calibration window elapsed (0..1).
func (c *Calibrator) Progress(now time.Time) float64 {
	if c.finished {
		return 1
	}
	if !c.started {
		return 0
	}
	p := float64(now.Sub(c.startAt)) / float64(c.config.Duration)
	if p > 1 {
		p = 1
	}
	return p
}

// Reset discards all window state so calibration can start over.
func (c *Calibrator) Reset() {
	c.started = false
	c.finished = false
	c.sumX = 0
	c.sumY = 0
	c.samples = 0
}
