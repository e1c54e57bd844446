package app

import (
	"path/filepath"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/hasta/internal/capture"
	"github.com/ayusman/hasta/internal/detector"
	"github.com/ayusman/hasta/internal/gesture"
	"github.com/ayusman/hasta/internal/store"
)

// Feeds the pipeline alternating frames so motion keeps it in active
// mode, and checks that classified observations come out the other end.
func TestApp_Pipeline_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	black := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer black.Close()
	white := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	a := New(Config{
		Store:        s,
		MotionThresh: 0.5,
		ImageDir:     filepath.Join(tmpDir, "images"),
		Classifier:   gesture.DefaultConfig(),
	})
	a.SetCamera(capture.NewMockCamera([]*gocv.Mat{&black, &white}, true))

	mock := detector.NewMockDetector()
	mock.SetHands([]detector.Hand{detector.OpenPalmHand()})
	a.SetDetector(mock)

	ch, cancel := a.Subscribe()
	defer cancel()

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer a.Stop()

	select {
	case obs := <-ch:
		if obs.Result.Label != gesture.OpenPalm {
			t.Errorf("Label = %s, want OPEN_PALM", obs.Result.Label)
		}
		if obs.Hand.Handedness != "Right" {
			t.Errorf("Handedness = %s, want Right", obs.Hand.Handedness)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline produced no observation")
	}

	// The observation leaves a screenshot behind for staging
	if a.LastObservation() == nil {
		t.Error("LastObservation() should be set after the pipeline ran")
	}
	if _, err := a.StageSample(gesture.OpenPalm); err != nil {
		t.Errorf("StageSample() after pipeline run failed: %v", err)
	}
}

// Stop must not return until the pipeline goroutine has exited, so
// once it does, no further observations can be published.
func TestApp_StopWaitsForPipelineExit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	black := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer black.Close()
	white := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	a := New(Config{
		Store:        s,
		MotionThresh: 0.5,
		Classifier:   gesture.DefaultConfig(),
	})
	a.SetCamera(capture.NewMockCamera([]*gocv.Mat{&black, &white}, true))

	mock := detector.NewMockDetector()
	mock.SetHands([]detector.Hand{detector.FistHand()})
	a.SetDetector(mock)

	ch, cancel := a.Subscribe()
	defer cancel()

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline produced no observation")
	}

	a.Stop()

	// Drain anything published before Stop returned
	for {
		select {
		case <-ch:
			continue
		default:
		}
		break
	}

	// Several idle-rate ticks worth of silence
	select {
	case obs := <-ch:
		t.Errorf("observation published after Stop returned: %v", obs.Result.Label)
	case <-time.After(800 * time.Millisecond):
	}

	// A second Stop must be a no-op
	a.Stop()
}
