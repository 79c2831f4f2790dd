package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/nebula/internal/control"
	"github.com/ayusman/nebula/internal/metrics"
)

// runPipeline is the main tracking loop that processes frames from the
// camera. It manages the transitions between idle and active rates based
// on motion detection.
//
// Pipeline logic:
// 1. Start at the idle rate
// 2. On motion detected, switch to the active rate
// 3. Run hand detection
// 4. Classify the first detected hand and feed the control session
// 5. After 2s without motion, switch back to the idle rate
func (a *App) runPipeline() {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(a.config.IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			// Skip processing if tracking is disabled
			if !a.IsEnabled() {
				continue
			}

			// Read a frame from the camera
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				// A dead feed cannot keep a grab alive.
				a.observeTransition(a.session.NoDetection(time.Now()))
				continue
			}

			// Step 1: Motion detection
			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				// Switch to active mode if not already
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(a.config.ActiveFPS)
					frameInterval = time.Second / time.Duration(a.config.ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				// Check if we should switch back to idle mode
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(a.config.IdleFPS)
					frameInterval = time.Second / time.Duration(a.config.IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			// Skip detection if not in active mode or no detector
			if !activeMode || a.Detector() == nil {
				frame.Close()
				continue
			}

			a.processFrame(frame)
		}
	}
}

// processFrame runs detection and classification on one frame and feeds
// the result to the control session.
func (a *App) processFrame(frame *gocv.Mat) {
	now := time.Now()

	metrics.RecordFrameProcessed()

	detectStart := time.Now()
	hands, err := a.Detector().Detect(frame)
	frame.Close() // Done with the frame
	metrics.RecordDetectLatency(float64(time.Since(detectStart).Milliseconds()))

	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		metrics.RecordDetectError()
		a.observeTransition(a.session.NoDetection(now))
		return
	}

	if len(hands) == 0 {
		a.observeTransition(a.session.NoDetection(now))
		return
	}

	metrics.RecordHandDetected()

	// Single-hand interaction: only the first detected hand drives the
	// session.
	hand := &hands[0]
	out := a.classify(hand)
	palm := hand.PalmCenter()

	if !out.Valid {
		metrics.RecordShapeRejected()
	}
	metrics.UpdateGrabStrength(out.GrabStrength)

	a.observeTransition(a.session.Observe(out, palm, now))

	if a.recorder != nil {
		if err := a.recorder.Record(out, palm, now); err != nil {
			log.Printf("Error recording frame: %v", err)
		}
	}
}

func (a *App) observeTransition(tr control.Transition) {
	switch tr {
	case control.TransitionGrab:
		metrics.RecordGrabTransition("grab")
		log.Println("Grab engaged")
	case control.TransitionRelease:
		metrics.RecordGrabTransition("release")
		log.Println("Grab released")
	}

	state := a.session.State()
	metrics.UpdateControlling(state == control.StateControlling)

	if tr == control.TransitionNone {
		return
	}
	a.mu.RLock()
	onState := a.onState
	a.mu.RUnlock()
	if onState != nil {
		// Outside the lock so the callback may call back into the app.
		onState(state)
	}
}
