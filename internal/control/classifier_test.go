package control

import (
	"testing"

	"github.com/ayusman/naagin/internal/track"
)

var testBaseline = track.Position{X: 320, Y: 240}

func testClassifier() *Classifier {
	return NewClassifier(ClassifierConfig{DeadZone: 10, Activation: 30})
}

func at(dx, dy float64) track.Position {
	return track.Position{X: testBaseline.X + dx, Y: testBaseline.Y + dy}
}

func TestClassifier_DeadZoneIsNone(t *testing.T) {
	c := testClassifier()

	// Any jitter inside the dead-zone radius stays None
	offsets := [][2]float64{{0, 0}, {5, 3}, {-9, 0}, {0, 9}, {-7, -7}, {9.9, -9.9}}
	for _, off := range offsets {
		if dir := c.Classify(at(off[0], off[1]), testBaseline); dir != None {
			t.Errorf("Classify(dx=%v, dy=%v) = %v, want none", off[0], off[1], dir)
		}
	}
}

func TestClassifier_SingleAxisActivation(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		want   Direction
	}{
		{name: "right", dx: 35, dy: 0, want: Right},
		{name: "left", dx: -35, dy: 0, want: Left},
		{name: "down", dx: 0, dy: 35, want: Down},
		{name: "up", dx: 0, dy: -35, want: Up},
		// Magnitude on the inactive axis does not matter while it stays
		// below activation
		{name: "right with vertical jitter", dx: 50, dy: 8, want: Right},
		{name: "up with horizontal jitter", dx: -9, dy: -50, want: Up},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClassifier()
			if dir := c.Classify(at(tt.dx, tt.dy), testBaseline); dir != tt.want {
				t.Errorf("Classify(dx=%v, dy=%v) = %v, want %v", tt.dx, tt.dy, dir, tt.want)
			}
		})
	}
}

func TestClassifier_HysteresisHoldsInBand(t *testing.T) {
	c := testClassifier()

	// Cross activation, then settle between dead-zone and activation:
	// the asserted direction must hold
	if dir := c.Classify(at(40, 0), testBaseline); dir != Right {
		t.Fatalf("activation step = %v, want right", dir)
	}
	if dir := c.Classify(at(20, 0), testBaseline); dir != Right {
		t.Errorf("in-band step = %v, want right held by hysteresis", dir)
	}
	if dir := c.Classify(at(12, 0), testBaseline); dir != Right {
		t.Errorf("in-band step near dead-zone = %v, want right still held", dir)
	}

	// Only falling below the dead-zone releases it
	if dir := c.Classify(at(5, 0), testBaseline); dir != None {
		t.Errorf("dead-zone step = %v, want none", dir)
	}
}

func TestClassifier_BandWithoutPriorActivationIsNone(t *testing.T) {
	c := testClassifier()

	// Entering the band from rest never asserts a direction
	if dir := c.Classify(at(20, 0), testBaseline); dir != None {
		t.Errorf("band entry from rest = %v, want none", dir)
	}
}

func TestClassifier_SignFlipInsideBandReleases(t *testing.T) {
	c := testClassifier()

	c.Classify(at(-40, 0), testBaseline) // assert left
	// Displacement swings to the other side but only into the band
	if dir := c.Classify(at(20, 0), testBaseline); dir != None {
		t.Errorf("sign flip into band = %v, want none (held left no longer matches)", dir)
	}
}

func TestClassifier_DiagonalResolvedByMagnitude(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		want   Direction
	}{
		{name: "horizontal dominates", dx: 60, dy: 40, want: Right},
		{name: "vertical dominates", dx: 40, dy: -60, want: Up},
		{name: "vertical dominates downward", dx: -35, dy: 80, want: Down},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClassifier()
			if dir := c.Classify(at(tt.dx, tt.dy), testBaseline); dir != tt.want {
				t.Errorf("Classify(dx=%v, dy=%v) = %v, want %v", tt.dx, tt.dy, dir, tt.want)
			}
		})
	}
}

func TestClassifier_Reset(t *testing.T) {
	c := testClassifier()

	c.Classify(at(40, 0), testBaseline)
	c.Reset()

	// Band displacement after reset has no held state to fall back on
	if dir := c.Classify(at(20, 0), testBaseline); dir != None {
		t.Errorf("band step after reset = %v, want none", dir)
	}
}

func TestDirection_Opposite(t *testing.T) {
	pairs := map[Direction]Direction{
		Up: Down, Down: Up, Left: Right, Right: Left, None: None,
	}
	for d, want := range pairs {
		if got := d.Opposite(); got != want {
			t.Errorf("%v.Opposite() = %v, want %v", d, got, want)
		}
	}
}

func TestDirection_Delta(t *testing.T) {
	tests := []struct {
		dir    Direction
		dx, dy int
	}{
		{Up, 0, -1},
		{Down, 0, 1},
		{Left, -1, 0},
		{Right, 1, 0},
		{None, 0, 0},
	}
	for _, tt := range tests {
		dx, dy := tt.dir.Delta()
		if dx != tt.dx || dy != tt.dy {
			t.Errorf("%v.Delta() = (%d, %d), want (%d, %d)", tt.dir, dx, dy, tt.dx, tt.dy)
		}
	}
}
