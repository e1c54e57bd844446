// Package app wires the camera, the landmark detector and the gesture
// classifier into the live capture pipeline.
package app

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/hasta/internal/capture"
	"github.com/ayusman/hasta/internal/detector"
	"github.com/ayusman/hasta/internal/gesture"
	"github.com/ayusman/hasta/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active detection.
	ActiveFPS = 15
	// IdleTimeoutMs is the time in milliseconds to wait before switching back to idle mode.
	IdleTimeoutMs = 2000
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	MotionThresh float64
	// ImageDir is where staged sample screenshots are written.
	ImageDir string
	// Classifier holds the gesture threshold configuration.
	Classifier gesture.Config
}

// Observation is one classified hand from the live pipeline.
type Observation struct {
	Hand   detector.Hand  `json:"hand"`
	Result gesture.Result `json:"result"`
	At     time.Time      `json:"at"`
}

// App orchestrates frame capture, hand detection and classification.
// Classified observations fan out to subscribers (the WebSocket stream)
// and the most recent one is kept for sample staging.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	classifier *gesture.Classifier

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	doneCh  chan struct{}

	subMu   sync.Mutex
	subs    map[int]chan Observation
	nextSub int

	lastMu   sync.Mutex
	lastObs  *Observation
	lastJPEG []byte
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = capture.DefaultMotionThreshold
	}
	config.MotionThresh = motionThreshold

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		motion:     capture.NewMotionDetector(motionThreshold),
		classifier: gesture.New(config.Classifier),
		enabled:    true,
		subs:       make(map[int]chan Observation),
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables classification of captured frames.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether classification is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use. Must be called
// before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Classifier returns the gesture classifier.
func (a *App) Classifier() *gesture.Classifier {
	return a.classifier
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Store returns the staging store, which may be nil.
func (a *App) Store() *store.Store {
	return a.config.Store
}

// Subscribe registers a listener for classified observations. The
// returned channel drops observations when the listener falls behind.
// Call the cancel function to unsubscribe.
func (a *App) Subscribe() (<-chan Observation, func()) {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	id := a.nextSub
	a.nextSub++

	ch := make(chan Observation, 8)
	a.subs[id] = ch

	cancel := func() {
		a.subMu.Lock()
		defer a.subMu.Unlock()
		if c, ok := a.subs[id]; ok {
			delete(a.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// publish fans an observation out to all subscribers and records it as
// the latest one.
func (a *App) publish(obs Observation, jpeg []byte) {
	a.lastMu.Lock()
	a.lastObs = &obs
	if jpeg != nil {
		a.lastJPEG = jpeg
	}
	a.lastMu.Unlock()

	a.subMu.Lock()
	defer a.subMu.Unlock()
	for _, ch := range a.subs {
		select {
		case ch <- obs:
		default: // slow subscriber, drop
		}
	}
}

// LastObservation returns the most recent classified observation, or
// nil when no hand has been seen yet.
func (a *App) LastObservation() *Observation {
	a.lastMu.Lock()
	defer a.lastMu.Unlock()
	if a.lastObs == nil {
		return nil
	}
	obs := *a.lastObs
	return &obs
}

// StageSample stores the most recent observation in the staging
// database under the given gesture label, together with a screenshot
// when one was captured. The sample waits there until promoted into
// the evaluation corpus.
func (a *App) StageSample(label gesture.Label) (*store.Sample, error) {
	if a.config.Store == nil {
		return nil, fmt.Errorf("no staging store configured")
	}
	if !label.Valid() || label == gesture.Unknown {
		return nil, fmt.Errorf("invalid gesture label: %q", label)
	}

	a.lastMu.Lock()
	obs := a.lastObs
	jpeg := a.lastJPEG
	a.lastMu.Unlock()

	if obs == nil {
		return nil, fmt.Errorf("no hand observed yet")
	}

	id := uuid.New().String()
	imagePath := ""
	if len(jpeg) > 0 && a.config.ImageDir != "" {
		if err := os.MkdirAll(a.config.ImageDir, 0o755); err != nil {
			return nil, fmt.Errorf("create image dir: %w", err)
		}
		imagePath = filepath.Join(a.config.ImageDir, id+".jpg")
		if err := os.WriteFile(imagePath, jpeg, 0o644); err != nil {
			return nil, fmt.Errorf("write screenshot: %w", err)
		}
	}

	sample := &store.Sample{
		ID:         id,
		Gesture:    label,
		Hand:       obs.Hand,
		ImagePath:  imagePath,
		Predicted:  obs.Result.Label,
		Confidence: obs.Result.Confidence,
	}
	if err := a.config.Store.Samples().Create(sample); err != nil {
		return nil, err
	}

	log.Printf("Staged sample %s as %s (predicted %s, confidence %.2f)",
		sample.ID, sample.Gesture, sample.Predicted, sample.Confidence)
	return sample, nil
}

// Start begins the capture pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	log.Println("Capture pipeline started")
	return nil
}

// Stop halts the capture pipeline and releases resources. It does not
// return until the pipeline goroutine has exited.
func (a *App) Stop() {
	a.mu.Lock()
	stop, done := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Capture pipeline stopped")
}
