// Package game implements the snake game state machine driven by head-movement commands.
package game

import (
	"errors"
	"math/rand"
	"time"

	"github.com/ayusman/naagin/internal/control"
)

// ErrInvalidGridState indicates a corrupted board, such as duplicate snake
// cells. It points at a logic defect rather than external failure and is
// treated as fatal by the caller.
var ErrInvalidGridState = errors.New("invalid grid state")

// Phase is the lifecycle state of a game session.
type Phase string

const (
	PhaseCalibrating Phase = "calibrating"
	PhaseRunning     Phase = "running"
	PhasePaused      Phase = "paused"
	PhaseGameOver    Phase = "game_over"
)

// Cell is a single grid position.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Config holds configuration options for the game engine.
type Config struct {
	// Width and Height are the grid dimensions in cells.
	Width  int
	Height int

	// InitialLength is the starting snake length.
	InitialLength int

	// MoveEvery is how many ticks pass between snake steps. Direction
	// input is latched between steps.
	MoveEvery int

	// MoveEveryBoost replaces MoveEvery while boost is held.
	MoveEveryBoost int

	// LossTimeoutTicks is how many consecutive signal-lost ticks are
	// tolerated while running before the game pauses itself.
	LossTimeoutTicks int

	// Seed seeds food placement. Zero means time-based.
	Seed int64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Width:            20,
		Height:           20,
		InitialLength:    3,
		MoveEvery:        6,
		MoveEveryBoost:   3,
		LossTimeoutTicks: 30,
	}
}

// Engine owns all mutable game state. It is not safe for concurrent use;
// the pipeline drives it from a single tick goroutine.
type Engine struct {
	config Config
	rng    *rand.Rand

	phase       Phase
	snake       []Cell // head first
	heading     control.Direction
	pending     control.Direction
	food        Cell
	score       int
	tick        uint64
	boost       bool
	lostTicks   int
	moveCounter int
}

// New creates an Engine in the calibrating phase with the snake at the grid
// center heading right.
func New(config Config) *Engine {
	def := DefaultConfig()
	if config.Width <= 0 {
		config.Width = def.Width
	}
	if config.Height <= 0 {
		config.Height = def.Height
	}
	if config.InitialLength <= 0 {
		config.InitialLength = def.InitialLength
	}
	if config.MoveEvery <= 0 {
		config.MoveEvery = def.MoveEvery
	}
	if config.MoveEveryBoost <= 0 {
		config.MoveEveryBoost = def.MoveEveryBoost
	}
	if config.LossTimeoutTicks <= 0 {
		config.LossTimeoutTicks = def.LossTimeoutTicks
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &Engine{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
	}
	e.reset()
	return e
}

// reset reinitializes board state and returns to the calibrating phase.
func (e *Engine) reset() {
	cx := e.config.Width / 2
	cy := e.config.Height / 2

	e.snake = e.snake[:0]
	for i := 0; i < e.config.InitialLength; i++ {
		e.snake = append(e.snake, Cell{X: cx - i, Y: cy})
	}

	e.heading = control.Right
	e.pending = control.Right
	e.score = 0
	e.tick = 0
	e.boost = false
	e.lostTicks = 0
	e.moveCounter = 0
	e.phase = PhaseCalibrating
	e.spawnFood()
}

// CalibrationDone moves the game from calibrating to running.
func (e *Engine) CalibrationDone() {
	if e.phase == PhaseCalibrating {
		e.phase = PhaseRunning
	}
}

// Step advances one game tick with the given command. Commands are ignored
// outside the running phase. The only error is ErrInvalidGridState.
func (e *Engine) Step(cmd control.Command) error {
	if e.phase != PhaseRunning {
		return nil
	}

	e.tick++

	if cmd.Lost {
		e.lostTicks++
		if e.lostTicks >= e.config.LossTimeoutTicks {
			// Fail safe: with no control signal the snake must not
			// run uncontrolled into a wall.
			e.phase = PhasePaused
			return nil
		}
	} else {
		e.lostTicks = 0
		e.latch(cmd.Direction)
	}

	every := e.config.MoveEvery
	if e.boost {
		every = e.config.MoveEveryBoost
	}

	e.moveCounter++
	if e.moveCounter < every {
		return nil
	}
	e.moveCounter = 0

	return e.advance()
}

// latch records the direction for the next snake step. A None keeps the
// current heading (signal dropout must not stop the snake). A 180-degree
// reversal is ignored while the body is longer than one cell, since it
// would mean instant self-collision.
func (e *Engine) latch(dir control.Direction) {
	if dir == control.None {
		return
	}
	if len(e.snake) > 1 && dir == e.pending.Opposite() {
		return
	}
	e.pending = dir
}

// advance moves the head one cell, resolving collisions and food.
func (e *Engine) advance() error {
	e.heading = e.pending

	dx, dy := e.heading.Delta()
	head := e.snake[0]
	next := Cell{X: head.X + dx, Y: head.Y + dy}

	if next.X < 0 || next.X >= e.config.Width || next.Y < 0 || next.Y >= e.config.Height {
		e.phase = PhaseGameOver
		return nil
	}

	for _, c := range e.snake {
		if c == next {
			e.phase = PhaseGameOver
			return nil
		}
	}

	e.snake = append([]Cell{next}, e.snake...)

	if next == e.food {
		e.score++
		e.spawnFood()
	} else {
		e.snake = e.snake[:len(e.snake)-1]
	}

	return e.validate()
}

// spawnFood places food uniformly among free cells. A full board ends the game.
func (e *Engine) spawnFood() {
	occupied := make(map[Cell]bool, len(e.snake))
	for _, c := range e.snake {
		occupied[c] = true
	}

	free := make([]Cell, 0, e.config.Width*e.config.Height-len(e.snake))
	for y := 0; y < e.config.Height; y++ {
		for x := 0; x < e.config.Width; x++ {
			c := Cell{X: x, Y: y}
			if !occupied[c] {
				free = append(free, c)
			}
		}
	}

	if len(free) == 0 {
		e.food = Cell{X: -1, Y: -1}
		e.phase = PhaseGameOver
		return
	}

	e.food = free[e.rng.Intn(len(free))]
}

// validate checks board invariants after a move.
func (e *Engine) validate() error {
	seen := make(map[Cell]bool, len(e.snake))
	for _, c := range e.snake {
		if seen[c] {
			return ErrInvalidGridState
		}
		seen[c] = true
	}
	return nil
}

// Pause freezes a running game. Idempotent.
func (e *Engine) Pause() {
	if e.phase == PhaseRunning {
		e.phase = PhasePaused
	}
}

// Resume continues a paused game with state unchanged. Idempotent.
func (e *Engine) Resume() {
	if e.phase == PhasePaused {
		e.phase = PhaseRunning
		e.lostTicks = 0
	}
}

// Restart reinitializes the session and returns to calibration. Idempotent
// in the sense that repeated restarts land in the same initial state.
func (e *Engine) Restart() {
	e.reset()
}

// SetBoost switches between the normal and boosted move rate.
func (e *Engine) SetBoost(on bool) {
	e.boost = on
}

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Score returns the current score.
func (e *Engine) Score() int {
	return e.score
}

// Heading returns the snake's current heading.
func (e *Engine) Heading() control.Direction {
	return e.heading
}

// Tick returns the number of ticks stepped in the current session.
func (e *Engine) Tick() uint64 {
	return e.tick
}

// Length returns the current snake length.
func (e *Engine) Length() int {
	return len(e.snake)
}
