// Package control converts smoothed head positions into discrete game
// commands: direction classification with dead-zone/activation hysteresis,
// and a bridge that orders commands by tick and surfaces signal loss.
package control

// Direction is a discrete movement command.
type Direction uint8

const (
	None Direction = iota
	Up
	Down
	Left
	Right
)

// String returns the string representation of a direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// Opposite returns the 180-degree reverse of a direction.
// None is its own opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	default:
		return None
	}
}

// Delta returns the (dx, dy) grid offset for one step in this direction.
// Screen coordinates: Up decreases Y, Down increases Y.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}
