// Package app wires the head-tracking pipeline to the snake game engine.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/naagin/internal/capture"
	"github.com/ayusman/naagin/internal/control"
	"github.com/ayusman/naagin/internal/detector"
	"github.com/ayusman/naagin/internal/game"
	"github.com/ayusman/naagin/internal/plugin"
	"github.com/ayusman/naagin/internal/store"
	"github.com/ayusman/naagin/internal/track"
)

// Pipeline timing constants.
const (
	// DefaultTickRate is the game tick frequency in ticks per second.
	DefaultTickRate = 30
	// HookTimeoutMs is how long an event hook may run.
	HookTimeoutMs = 5000
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	PluginDir    string
	CameraID     int
	TickRate     int
	MotionThresh float64

	Game       game.Config
	Filter     track.FilterConfig
	Calibrator track.CalibratorConfig
	Classifier control.ClassifierConfig
	Bridge     control.BridgeConfig
}

// App owns the two pipeline contexts: the capture/inference loop that
// produces head observations and the fixed-rate tick loop that drives the
// filter, calibrator, classifier, bridge and game engine.
type App struct {
	config Config

	camera   capture.Camera
	gate     *capture.ActivityGate
	detector detector.Detector

	filter     *track.Filter
	calibrator *track.Calibrator
	classifier *control.Classifier
	bridge     *control.Bridge
	engine     *game.Engine

	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor

	latest observationSlot

	// mu guards the engine, tracking state and the published snapshot.
	// Every engine mutation happens under it, so ticks stay sequential
	// even when control signals arrive from the HTTP side.
	mu           sync.RWMutex
	tick         uint64
	baseline     track.Position
	calibrated   bool
	snapshot     game.Snapshot
	sessionStart time.Time
	lastPhase    game.Phase

	stopCh chan struct{}
	doneCh chan struct{}
	quit   sync.Once
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.TickRate <= 0 {
		config.TickRate = DefaultTickRate
	}

	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		gate:       capture.NewActivityGate(motionThreshold),
		filter:     track.NewFilter(config.Filter),
		calibrator: track.NewCalibrator(config.Calibrator),
		classifier: control.NewClassifier(config.Classifier),
		bridge:     control.NewBridge(config.Bridge),
		engine:     game.New(config.Game),
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(HookTimeoutMs),
		doneCh:     make(chan struct{}),
	}
	a.snapshot = a.engine.Snapshot()
	a.lastPhase = a.engine.Phase()

	// Try the YOLOv8-pose sidecar first, fall back to mock detector
	if yp, err := detector.NewYOLOPoseDetector(detector.DefaultConfig()); err == nil {
		a.detector = yp
		log.Println("Using YOLOv8-pose head detection")
	} else {
		log.Printf("Pose service not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetDetector sets the pose detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// DiscoverPlugins scans the plugin directory and loads available event hooks.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// LoadSettings applies persisted tuning settings over the configured defaults.
func (a *App) LoadSettings() {
	if a.config.Store == nil {
		return
	}

	settings := a.config.Store.Settings()
	cc := control.DefaultClassifierConfig()
	cc.DeadZone = settings.GetFloat("dead_zone", a.config.Classifier.DeadZone)
	cc.Activation = settings.GetFloat("activation", a.config.Classifier.Activation)
	if cc.DeadZone > 0 && cc.Activation > cc.DeadZone {
		a.mu.Lock()
		a.classifier = control.NewClassifier(cc)
		a.mu.Unlock()
	}
}

// Start opens the camera and begins both pipeline loops.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.stopCh = make(chan struct{})
	go a.runCapture()
	go a.runTicks()

	log.Println("Pipeline started")
	return nil
}

// Stop halts both pipeline loops and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.gate.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Pipeline stopped")
}

// Quit stops the pipeline and signals Done. Idempotent.
func (a *App) Quit() {
	a.quit.Do(func() {
		a.Stop()
		close(a.doneCh)
	})
}

// Done is closed once Quit has been called.
func (a *App) Done() <-chan struct{} {
	return a.doneCh
}

// Snapshot returns the most recently published game state.
func (a *App) Snapshot() game.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot
}

// Restart reinitializes the session and returns to calibration. Idempotent.
func (a *App) Restart() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.engine.Restart()
	a.calibrator.Reset()
	a.filter.Reset()
	a.classifier.Reset()
	a.bridge.Reset()
	a.tick = 0
	a.calibrated = false
	a.lastPhase = a.engine.Phase()
	a.snapshot = a.engine.Snapshot()

	log.Println("Session restarted")
}

// Pause freezes a running game. Idempotent.
func (a *App) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.engine.Pause()
	// A deliberate pause is not a tracking loss; advance lastPhase so the
	// tick loop does not fire the signal-lost hook for it.
	a.lastPhase = a.engine.Phase()
}

// Resume continues a paused game. Idempotent.
func (a *App) Resume() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.engine.Resume()
	a.lastPhase = a.engine.Phase()
}

// SetBoost switches the snake between normal and boosted speed.
func (a *App) SetBoost(on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.engine.SetBoost(on)
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Detector returns the pose detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// PluginManager returns the event hook manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}
