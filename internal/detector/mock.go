package detector

import (
	"math"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []Hand
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []Hand) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Synthetic hand builders.
//
// Each builder lays out finger joints so that every finger has an exact,
// known straightness ratio. A finger is three equal segments folded in a
// zigzag: alternating the fold angle t around the finger axis gives a
// direct MCP-to-TIP distance of seg*sqrt(1+8*cos^2(t)), so the ratio is
// sqrt(1+8*cos^2(t))/3 and any target ratio in [1/3, 1] can be hit by
// solving for cos(t).

const (
	fingerSeg = 0.06
	thumbSeg  = 0.07
)

// fingerChain returns the four joints (MCP, PIP, DIP, TIP) of a finger
// rooted at (bx, by), pointing along the unit axis (ax, ay), folded so
// the straightness ratio is exactly r.
func fingerChain(bx, by, ax, ay, seg, r float64) [4]Landmark {
	cos2 := (9*r*r - 1) / 8
	if cos2 < 0 {
		cos2 = 0
	} else if cos2 > 1 {
		cos2 = 1
	}
	cosT := math.Sqrt(cos2)
	sinT := math.Sqrt(1 - cos2)

	// Perpendicular to the axis; the fold alternates across it.
	px, py := -ay, ax

	d1x, d1y := ax*cosT+px*sinT, ay*cosT+py*sinT
	d2x, d2y := ax*cosT-px*sinT, ay*cosT-py*sinT

	var joints [4]Landmark
	joints[0] = Landmark{X: bx, Y: by}
	joints[1] = Landmark{X: bx + seg*d1x, Y: by + seg*d1y}
	joints[2] = Landmark{X: joints[1].X + seg*d2x, Y: joints[1].Y + seg*d2y}
	joints[3] = Landmark{X: joints[2].X + seg*d1x, Y: joints[2].Y + seg*d1y}
	return joints
}

// assembleHand places the wrist and copies per-finger joint chains into
// the fixed 21-point layout.
func assembleHand(thumb, index, middle, ring, pinky [4]Landmark) Hand {
	h := Hand{
		Handedness: "Right",
		Score:      0.95,
	}

	h.Points[Wrist] = Landmark{X: 0.50, Y: 0.85}

	copy(h.Points[ThumbCMC:ThumbTip+1], thumb[:])
	copy(h.Points[IndexMCP:IndexTip+1], index[:])
	copy(h.Points[MiddleMCP:MiddleTip+1], middle[:])
	copy(h.Points[RingMCP:RingTip+1], ring[:])
	copy(h.Points[PinkyMCP:PinkyTip+1], pinky[:])

	return h
}

// fourFingers builds index..pinky chains pointing up with the given
// straightness ratios. Bases are spaced 0.06 apart so extended tips end
// up clearly spread.
func fourFingers(rIndex, rMiddle, rRing, rPinky float64) (index, middle, ring, pinky [4]Landmark) {
	index = fingerChain(0.56, 0.60, 0, -1, fingerSeg, rIndex)
	middle = fingerChain(0.50, 0.59, 0, -1, fingerSeg, rMiddle)
	ring = fingerChain(0.44, 0.60, 0, -1, fingerSeg, rRing)
	pinky = fingerChain(0.38, 0.62, 0, -1, fingerSeg, rPinky)
	return
}

// curledThumb is tucked alongside the palm: low straightness ratio and
// the tip stays close to the index MCP in both axes.
func curledThumb(r float64) [4]Landmark {
	return fingerChain(0.57, 0.72, 0, -1, thumbSeg, r)
}

// raisedThumb points straight up with the tip well above the index MCP,
// as in a thumbs-up.
func raisedThumb() [4]Landmark {
	return fingerChain(0.56, 0.68, 0, -1, thumbSeg, 0.95)
}

// splayedThumb points diagonally out to the side, as in an open palm.
func splayedThumb() [4]Landmark {
	return fingerChain(0.58, 0.70, 0.8, -0.6, thumbSeg, 0.95)
}

// FistHand returns a hand with all five fingers tightly curled.
func FistHand() Hand {
	index, middle, ring, pinky := fourFingers(0.5, 0.5, 0.5, 0.5)
	return assembleHand(curledThumb(0.5), index, middle, ring, pinky)
}

// ThumbsUpHand returns a hand with the thumb raised and all other
// fingers curled.
func ThumbsUpHand() Hand {
	index, middle, ring, pinky := fourFingers(0.5, 0.5, 0.5, 0.5)
	return assembleHand(raisedThumb(), index, middle, ring, pinky)
}

// PointingHand returns a hand with a very straight index finger and
// everything else curled.
func PointingHand() Hand {
	index, middle, ring, pinky := fourFingers(0.995, 0.5, 0.5, 0.5)
	return assembleHand(curledThumb(0.5), index, middle, ring, pinky)
}

// PeaceHand returns a hand with index and middle extended.
func PeaceHand() Hand {
	index, middle, ring, pinky := fourFingers(0.95, 0.95, 0.5, 0.5)
	return assembleHand(curledThumb(0.5), index, middle, ring, pinky)
}

// OpenPalmHand returns a hand with all five fingers extended and spread,
// fingertips at equal depth.
func OpenPalmHand() Hand {
	index, middle, ring, pinky := fourFingers(0.95, 0.95, 0.95, 0.95)
	return assembleHand(splayedThumb(), index, middle, ring, pinky)
}

// RockOnHand returns a hand with thumb, index and pinky extended and
// middle and ring tightly curled.
func RockOnHand() Hand {
	index, middle, ring, pinky := fourFingers(0.95, 0.6, 0.6, 0.95)
	return assembleHand(splayedThumb(), index, middle, ring, pinky)
}

// CallMeHand returns a hand with thumb and pinky extended.
func CallMeHand() Hand {
	index, middle, ring, pinky := fourFingers(0.55, 0.55, 0.55, 0.95)
	return assembleHand(splayedThumb(), index, middle, ring, pinky)
}

// PointingVariantHand returns a pointing pose with the index at the
// given straightness ratio, for probing the rigidity requirement.
func PointingVariantHand(rIndex float64) Hand {
	index, middle, ring, pinky := fourFingers(rIndex, 0.5, 0.5, 0.5)
	return assembleHand(curledThumb(0.5), index, middle, ring, pinky)
}

// RockOnVariantHand returns a rock-on pose with middle and ring at the
// given straightness ratio instead of tightly curled.
func RockOnVariantHand(rCurled float64) Hand {
	index, middle, ring, pinky := fourFingers(0.95, rCurled, rCurled, 0.95)
	return assembleHand(splayedThumb(), index, middle, ring, pinky)
}

// TwoFingerGapHand returns index and ring extended with middle and pinky
// curled, a pose outside the recognition set.
func TwoFingerGapHand() Hand {
	index, middle, ring, pinky := fourFingers(0.95, 0.5, 0.95, 0.5)
	return assembleHand(curledThumb(0.5), index, middle, ring, pinky)
}

// AmbiguousHand returns a borderline pose: the index sits in the middle
// of the confidence band and the remaining fingers are only loosely
// curled, so no gesture should clear the confidence gate.
func AmbiguousHand() Hand {
	index, middle, ring, pinky := fourFingers(0.82, 0.6, 0.6, 0.6)
	return assembleHand(curledThumb(0.6), index, middle, ring, pinky)
}
