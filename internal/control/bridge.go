package control

import "errors"

// ErrStaleCommand is returned for commands whose tick is not newer than the
// last accepted tick. Out-of-order delivery from the asynchronous capture
// side is ignored rather than replayed.
var ErrStaleCommand = errors.New("stale command")

// Command is a direction stamped with the game tick it was accepted on.
type Command struct {
	Direction Direction
	Tick      uint64

	// Lost is set when the classifier has produced nothing but None for
	// longer than the configured limit. The engine treats it differently
	// from an intentional None: None keeps the current heading, Lost
	// eventually pauses the game.
	Lost bool
}

// BridgeConfig holds configuration options for the control bridge.
type BridgeConfig struct {
	// NoneLimit is the number of consecutive None submissions after which
	// the bridge reports signal loss instead of a no-op command.
	NoneLimit int
}

// DefaultBridgeConfig returns a BridgeConfig with sensible default values.
func DefaultBridgeConfig() BridgeConfig {
	return BridgeConfig{NoneLimit: 30}
}

// Bridge sits between the classifier and the game engine. It enforces
// single-command-per-tick ordering and converts a sustained run of None
// into an explicit signal-loss notification. Submit never blocks.
type Bridge struct {
	config   BridgeConfig
	lastTick uint64
	accepted bool
	noneRun  int
}

// NewBridge creates a Bridge with the given configuration.
func NewBridge(config BridgeConfig) *Bridge {
	if config.NoneLimit <= 0 {
		config.NoneLimit = DefaultBridgeConfig().NoneLimit
	}
	return &Bridge{config: config}
}

// Submit stamps the direction with the given tick. Ticks must be strictly
// increasing; a tick at or below the last accepted one returns
// ErrStaleCommand and has no effect on bridge state.
func (b *Bridge) Submit(dir Direction, tick uint64) (Command, error) {
	if b.accepted && tick <= b.lastTick {
		return Command{}, ErrStaleCommand
	}

	b.lastTick = tick
	b.accepted = true

	if dir == None {
		b.noneRun++
	} else {
		b.noneRun = 0
	}

	cmd := Command{Direction: dir, Tick: tick}
	if b.noneRun > b.config.NoneLimit {
		cmd.Lost = true
	}

	return cmd, nil
}

// Reset clears tick ordering and the None run, for use on game restart.
func (b *Bridge) Reset() {
	b.lastTick = 0
	b.accepted = false
	b.noneRun = 0
}
