// Package detector provides the hand landmark model and detection interfaces.
package detector

import (
	"errors"
	"fmt"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// ErrLandmarkCount is returned when a hand snapshot does not contain
// exactly 21 landmarks.
var ErrLandmarkCount = errors.New("hand must have exactly 21 landmarks")

// Landmark is a single normalized hand keypoint. X and Y are in [0,1]
// relative to the frame; Z is a camera-relative depth with no absolute
// unit. Visibility is optional: detectors that do not report it leave
// the field nil, which is valid and not an error.
type Landmark struct {
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Z          float64  `json:"z"`
	Visibility *float64 `json:"visibility"`
}

// VisibilityOr returns the landmark's visibility score, or def when the
// detector did not report one.
func (l Landmark) VisibilityOr(def float64) float64 {
	if l.Visibility == nil {
		return def
	}
	return *l.Visibility
}

// Hand is an immutable snapshot of one detected hand: a fixed ordered
// sequence of 21 landmarks plus handedness and the detector's confidence.
type Hand struct {
	Points     [NumLandmarks]Landmark `json:"points"`
	Handedness string                 `json:"handedness"` // "Left" or "Right"
	Score      float64                `json:"score"`
}

// HandFromSlice builds a Hand from a landmark slice, enforcing the
// 21-point invariant. Any other length is malformed input.
func HandFromSlice(points []Landmark, handedness string, score float64) (Hand, error) {
	if len(points) != NumLandmarks {
		return Hand{}, fmt.Errorf("%w: got %d", ErrLandmarkCount, len(points))
	}

	h := Hand{
		Handedness: handedness,
		Score:      score,
	}
	copy(h.Points[:], points)
	return h, nil
}

// Distance2D returns the Euclidean distance between two landmarks in the
// image plane. Depth is ignored: the z estimate from single-camera
// detectors is too noisy for joint-level geometry.
func Distance2D(a, b Landmark) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
