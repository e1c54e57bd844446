package app

import (
	"log"
	"time"

	"github.com/ayusman/hasta/internal/capture"
	"github.com/ayusman/hasta/internal/gesture"
)

// runPipeline is the main loop that processes frames from the camera.
// It manages the state transitions between idle and active modes based
// on motion detection.
//
// Pipeline logic:
// 1. Start in idle mode (idleFPS=5)
// 2. On motion detected, switch to active mode (activeFPS=15)
// 3. Run hand detection on active frames
// 4. Classify each detected hand and publish the observations
// 5. After 2s without motion, switch back to idle mode
func (a *App) runPipeline(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			if !activeMode || a.Detector() == nil {
				frame.Close()
				continue
			}

			hands, err := a.Detector().Detect(frame)
			if err != nil {
				frame.Close()
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			if len(hands) == 0 {
				frame.Close()
				continue
			}

			// Keep a screenshot of the frame alongside the
			// observation so it can be staged as a test case.
			jpeg, err := capture.EncodeJPEG(frame)
			frame.Close()
			if err != nil {
				log.Printf("Error encoding frame: %v", err)
				jpeg = nil
			}

			now := time.Now()
			results := a.classifier.ClassifyAll(hands)
			for i, res := range results {
				if res.Label != gesture.Unknown {
					log.Printf("Gesture: %s (%s hand, confidence %.2f)",
						res.Label, hands[i].Handedness, res.Confidence)
				}
				a.publish(Observation{Hand: hands[i], Result: res, At: now}, jpeg)
			}
		}
	}
}
