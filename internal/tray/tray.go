// Package tray provides a macOS system tray interface for the Naagin game daemon.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the macOS system tray application.
type Tray struct {
	onPause   func(paused bool)
	onRestart func()
	onOpen    func()
	onQuit    func()
	paused    bool
	mu        sync.RWMutex

	// Menu items stored for later updates
	menuPause *systray.MenuItem
	menuScore *systray.MenuItem
}

// New creates a new Tray instance.
func New() *Tray {
	return &Tray{}
}

// OnPause sets the callback invoked when gameplay is paused or resumed.
func (t *Tray) OnPause(fn func(paused bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPause = fn
}

// OnRestart sets the callback invoked when a new game is requested.
func (t *Tray) OnRestart(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRestart = fn
}

// OnOpen sets the callback invoked when the open-game menu item is clicked.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback invoked when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Naagin")
	systray.SetTooltip("Naagin Head-Controlled Snake")

	t.menuScore = systray.AddMenuItem("Score: 0", "Current score")
	t.menuScore.Disable()
	systray.AddSeparator()

	t.menuPause = systray.AddMenuItem("Pause", "Pause or resume the game")
	menuRestart := systray.AddMenuItem("New Game", "Restart and recalibrate")
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open Game...", "Open the game in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Naagin")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuPause.ClickedCh:
				t.handlePause()
			case <-menuRestart.ClickedCh:
				t.handleRestart()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
	// Cleanup resources if needed
}

// handlePause handles the pause menu item click.
func (t *Tray) handlePause() {
	t.mu.Lock()
	t.paused = !t.paused
	paused := t.paused

	if paused {
		t.menuPause.SetTitle("Resume")
	} else {
		t.menuPause.SetTitle("Pause")
	}

	callback := t.onPause
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(paused)
	}
}

// handleRestart handles the new-game menu item click.
func (t *Tray) handleRestart() {
	t.mu.Lock()
	t.paused = false
	if t.menuPause != nil {
		t.menuPause.SetTitle("Pause")
	}
	callback := t.onRestart
	t.mu.Unlock()

	if callback != nil {
		callback()
	}
}

// handleOpen handles the open-game menu item click.
func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetScore updates the score display in the menu.
func (t *Tray) SetScore(score int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuScore != nil {
		t.menuScore.SetTitle(fmt.Sprintf("Score: %d", score))
	}
}

// IsPaused returns whether the tray last requested a pause.
func (t *Tray) IsPaused() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.paused
}
