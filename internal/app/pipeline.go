package app

import (
	"errors"
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
	"github.com/google/uuid"
)

// observationSlot is a single-slot latest-value exchange between the capture
// loop and the tick loop. Writes overwrite; there is no queue, so control
// latency stays bounded no matter how the two loop rates drift. A nil
// keypoint is a real observation meaning "looked, found nothing".
type observationSlot struct {
	mu sync.Mutex
	kp *detector.Keypoint
}

func (s *observationSlot) put(kp *detector.Keypoint) {
	s.mu.Lock()
	s.kp = kp
	s.mu.Unlock()
}

func (s *observationSlot) peek() *detector.Keypoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kp
}

// runCapture is the capture/inference loop. It reads frames at the camera
// rate, skips pose inference on static frames, and publishes the head
// keypoint of the best detection into the latest-value slot.
func (a *App) runCapture() {
	stopCh := a.stopChan()
	if stopCh == nil {
		return
	}

	fps := a.Camera().FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			frame, err := a.Camera().ReadFrame()
			if err != nil {
				// Camera dropout reads as absence upstream
				a.latest.put(nil)
				continue
			}

			// A static scene means the head has not moved; keep the
			// previous observation live instead of running inference.
			if changed, _ := a.gate.Changed(frame); !changed {
				frame.Close()
				continue
			}

			poses, err := a.Detector().Detect(frame)
			frame.Close()
			if err != nil {
				log.Printf("Error detecting pose: %v", err)
				continue
			}

			a.latest.put(headObservation(poses, a.keypointConfidence()))
		}
	}
}

// headObservation extracts the head keypoint from the first detected pose.
func headObservation(poses []detector.Pose, minConf float64) *detector.Keypoint {
	if len(poses) == 0 {
		return nil
	}
	kp, ok := poses[0].Head(minConf)
	if !ok {
		return nil
	}
	return &kp
}

func (a *App) keypointConfidence() float64 {
	if a.config.Filter.MinConfidence > 0 {
		return a.config.Filter.MinConfidence
	}
	return track.DefaultFilterConfig().MinConfidence
}

// runTicks is the fixed-rate game loop.
func (a *App) runTicks() {
	stopCh := a.stopChan()
	if stopCh == nil {
		return
	}

	ticker := time.NewTicker(time.Second / time.Duration(a.config.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if err := a.step(time.Now()); err != nil {
				// Only invariant violations surface here; they mean a
				// logic defect, not an external failure.
				log.Printf("Fatal engine state: %v", err)
				a.Quit()
				return
			}
		}
	}
}

func (a *App) stopChan() chan struct{} {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh
}

// step runs one game tick: filter the latest observation, feed the
// calibrator or classifier depending on phase, submit through the bridge,
// advance the engine, publish the snapshot and fire any event hooks.
func (a *App) step(now time.Time) error {
	obs := a.latest.peek()

	a.mu.Lock()
	defer a.mu.Unlock()

	pos, tracked := a.filter.Update(obs)

	var stepErr error
	switch a.engine.Phase() {
	case game.PhaseCalibrating:
		a.stepCalibrating(pos, tracked, now)
	case game.PhaseRunning, game.PhasePaused:
		stepErr = a.stepRunning(pos, tracked)
	}

	snap := a.engine.Snapshot()
	if tracked {
		head := pos
		snap.Head = &head
	}
	snap.CalibrationProgress = int(a.calibrator.Progress(now) * 100)
	a.snapshot = snap

	a.observePhase(snap.Phase)

	return stepErr
}

func (a *App) stepCalibrating(pos track.Position, tracked bool, now time.Time) {
	if !tracked {
		if a.calibrator.Expired(now) {
			log.Println("Calibration failed: subject not visible, restarting window")
			a.calibrator.Reset()
		}
		return
	}

	res, err := a.calibrator.Observe(pos, now)
	if errors.Is(err, track.ErrCalibrationFailed) {
		log.Println("Calibration failed: too few samples, restarting window")
		a.calibrator.Reset()
		return
	}

	if res.Done && !a.calibrated {
		a.baseline = res.Baseline
		a.calibrated = true
		a.sessionStart = now
		a.engine.CalibrationDone()
		log.Printf("Calibration complete: baseline (%.1f, %.1f)", res.Baseline.X, res.Baseline.Y)
		a.fireHooks(plugin.EventCalibrated)
	}
}

func (a *App) stepRunning(pos track.Position, tracked bool) error {
	dir := control.None
	if tracked && a.calibrated {
		dir = a.classifier.Classify(pos, a.baseline)
	}

	a.tick++
	cmd, err := a.bridge.Submit(dir, a.tick)
	if errors.Is(err, control.ErrStaleCommand) {
		log.Printf("Stale command dropped at tick %d", a.tick)
		return nil
	}

	return a.engine.Step(cmd)
}

// observePhase reacts to phase transitions produced by the last tick.
func (a *App) observePhase(phase game.Phase) {
	if phase == a.lastPhase {
		return
	}
	prev := a.lastPhase
	a.lastPhase = phase

	switch {
	case phase == game.PhaseGameOver && prev == game.PhaseRunning:
		a.finishSession()
	case phase == game.PhasePaused && prev == game.PhaseRunning:
		log.Println("Signal lost, game paused")
		a.fireHooks(plugin.EventSignalLost)
	}
}

// finishSession records the final score and fires game-over hooks.
func (a *App) finishSession() {
	snap := a.engine.Snapshot()
	duration := time.Duration(0)
	if !a.sessionStart.IsZero() {
		duration = time.Since(a.sessionStart)
	}

	log.Printf("Game over: score %d, length %d", snap.Score, len(snap.Snake))

	highScore := false
	if a.config.Store != nil {
		scores := a.config.Store.Scores()

		if best, err := scores.Best(); errors.Is(err, store.ErrNotFound) || (err == nil && snap.Score > best.Score) {
			highScore = true
		}

		err := scores.Create(&store.Score{
			ID:          uuid.NewString(),
			Score:       snap.Score,
			SnakeLength: len(snap.Snake),
			Duration:    duration,
		})
		if err != nil {
			log.Printf("Failed to record score: %v", err)
		}
	}

	a.fireHooks(plugin.EventGameOver)
	if highScore {
		a.fireHooks(plugin.EventNewHighScore)
	}
}

// fireHooks runs all hooks subscribed to the event. Execution is off the
// tick goroutine so a slow hook never stalls the game.
func (a *App) fireHooks(event string) {
	plugins := a.pluginMgr.ForEvent(event)
	if len(plugins) == 0 {
		return
	}

	snap := a.engine.Snapshot()
	req := &plugin.Request{
		Event:       event,
		Score:       snap.Score,
		SnakeLength: len(snap.Snake),
	}
	if !a.sessionStart.IsZero() {
		req.DurationMs = time.Since(a.sessionStart).Milliseconds()
	}

	for _, p := range plugins {
		go func(p *plugin.Plugin) {
			if _, err := a.pluginExec.Execute(p, req); err != nil {
				log.Printf("Hook %s failed: %v", p.Manifest.Name, err)
			}
		}(p)
	}
}
