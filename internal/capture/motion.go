package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// DefaultMotionThreshold is the percentage of pixels that must change
// between frames before the pipeline leaves idle mode.
const DefaultMotionThreshold = 1.0

const (
	// Gaussian kernel size; smooths sensor noise out of the diff.
	blurKernel = 21
	// Per-pixel intensity delta that counts as a change.
	pixelDelta = 25
)

// MotionDetector decides whether anything is moving in front of the
// camera. Each frame is differenced against a blurred grayscale
// baseline; the pipeline uses the verdict to switch between the idle
// and active capture rates, so hand detection only runs when there is
// something to look at.
type MotionDetector struct {
	mu        sync.Mutex
	threshold float64
	baseline  gocv.Mat
	primed    bool
}

// NewMotionDetector creates a detector that reports motion once the
// given percentage of pixels changes between frames. Non-positive
// thresholds fall back to DefaultMotionThreshold.
func NewMotionDetector(threshold float64) *MotionDetector {
	if threshold <= 0 {
		threshold = DefaultMotionThreshold
	}
	return &MotionDetector{
		threshold: threshold,
		baseline:  gocv.NewMat(),
	}
}

// Detect reports whether the frame differs from the baseline, and the
// percentage of pixels that changed. The first frame after creation or
// Reset only primes the baseline and never counts as motion.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	smoothed := smooth(frame)
	defer smoothed.Close()

	if !m.primed {
		smoothed.CopyTo(&m.baseline)
		m.primed = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(smoothed, m.baseline, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, pixelDelta, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(mask)) / float64(mask.Rows()*mask.Cols()) * 100.0

	// The previous frame, not the first one, is the reference: a hand
	// that enters and then holds still should stop reading as motion.
	smoothed.CopyTo(&m.baseline)

	return changed > m.threshold, changed
}

// smooth converts a frame to blurred grayscale so compression
// artifacts and sensor noise do not read as motion.
func smooth(frame *gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	gocv.GaussianBlur(gray, &blurred, image.Pt(blurKernel, blurKernel), 0, 0, gocv.BorderDefault)
	return blurred
}

// Reset drops the baseline; the next frame primes a fresh one.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

// Close releases the baseline frame. The detector can still be reused
// afterwards, which keeps stop/start cycles of the pipeline simple.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

func (m *MotionDetector) release() {
	if !m.baseline.Empty() {
		m.baseline.Close()
		m.baseline = gocv.NewMat()
	}
	m.primed = false
}

// SetThreshold adjusts the change percentage required to report
// motion. Non-positive values are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.threshold = threshold
}
