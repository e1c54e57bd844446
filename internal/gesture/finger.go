package gesture

import (
	"math"

	"github.com/ayusman/hasta/internal/detector"
)

// Finger identifies one of the five fingers.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers = 5
)

// String returns the lowercase finger name.
func (f Finger) String() string {
	switch f {
	case Thumb:
		return "thumb"
	case Index:
		return "index"
	case Middle:
		return "middle"
	case Ring:
		return "ring"
	case Pinky:
		return "pinky"
	}
	return "unknown"
}

// FingerState is the extended/curled classification of one finger with a
// confidence value and the raw straightness ratio it was derived from.
type FingerState struct {
	Finger       Finger  `json:"finger"`
	Extended     bool    `json:"extended"`
	Confidence   float64 `json:"confidence"`
	Straightness float64 `json:"straightness_ratio"`
}

// fingerJoints maps each finger to its joint chain, palm to tip. The
// thumb has no PIP/DIP; its chain runs CMC, MCP, IP, TIP.
var fingerJoints = [NumFingers][4]int{
	Thumb:  {detector.ThumbCMC, detector.ThumbMCP, detector.ThumbIP, detector.ThumbTip},
	Index:  {detector.IndexMCP, detector.IndexPIP, detector.IndexDIP, detector.IndexTip},
	Middle: {detector.MiddleMCP, detector.MiddlePIP, detector.MiddleDIP, detector.MiddleTip},
	Ring:   {detector.RingMCP, detector.RingPIP, detector.RingDIP, detector.RingTip},
	Pinky:  {detector.PinkyMCP, detector.PinkyPIP, detector.PinkyDIP, detector.PinkyTip},
}

// straightness returns the finger's straightness ratio: direct base-to-tip
// distance over the sum of the three joint segments. 1.0 is perfectly
// straight. The ratio is orientation-independent, so it works whether the
// finger points up, sideways, or toward the camera.
func straightness(hand detector.Hand, f Finger) float64 {
	j := fingerJoints[f]
	base := hand.Points[j[0]]
	tip := hand.Points[j[3]]

	direct := detector.Distance2D(base, tip)
	segments := detector.Distance2D(base, hand.Points[j[1]]) +
		detector.Distance2D(hand.Points[j[1]], hand.Points[j[2]]) +
		detector.Distance2D(hand.Points[j[2]], tip)

	// Degenerate chain, e.g. all joints at the origin
	if segments < 0.01 {
		return 0
	}
	return direct / segments
}

// ratioConfidence maps a straightness ratio to a confidence in [0,1]:
// zero at the band midpoint, rising linearly toward the saturation point
// on whichever side the ratio falls. The saturation points are
// asymmetric: extension saturates just past the extended threshold,
// while full curl confidence needs a much deeper curl.
func (c *Classifier) ratioConfidence(ratio float64, extended bool) float64 {
	mid := c.cfg.bandMidpoint()
	if extended {
		return clamp01((ratio - mid) / (c.cfg.ExtendedSaturation - mid))
	}
	return clamp01((mid - ratio) / (mid - c.cfg.CurledSaturation))
}

// visibilityFactor scales finger confidence by how visible its joints
// were to the detector. Missing visibility scores substitute the neutral
// default and leave the confidence untouched.
func (c *Classifier) visibilityFactor(hand detector.Hand, f Finger) float64 {
	neutral := c.cfg.NeutralVisibility
	if neutral <= 0 {
		return 1
	}

	var sum float64
	for _, idx := range fingerJoints[f] {
		sum += hand.Points[idx].VisibilityOr(neutral)
	}
	mean := sum / 4
	return clamp01(mean / neutral)
}

// fingerState classifies one of the four aligned fingers (not the thumb).
func (c *Classifier) fingerState(hand detector.Hand, f Finger) FingerState {
	ratio := straightness(hand, f)
	extended := ratio >= c.cfg.bandMidpoint()

	conf := c.ratioConfidence(ratio, extended)
	conf *= c.visibilityFactor(hand, f)

	return FingerState{
		Finger:       f,
		Extended:     extended,
		Confidence:   conf,
		Straightness: ratio,
	}
}

// thumbState classifies the thumb. The thumb's joint chain is not
// aligned like the other fingers, so the straightness ratio alone is
// unreliable: it must agree with at least one directional check
// (sideways reach or raised tip) before the thumb counts as extended.
func (c *Classifier) thumbState(hand detector.Hand) FingerState {
	ratio := straightness(hand, Thumb)
	ratioExtended := ratio >= c.cfg.bandMidpoint()
	ratioConf := c.ratioConfidence(ratio, ratioExtended)

	tip := hand.Points[detector.ThumbTip]
	indexMCP := hand.Points[detector.IndexMCP]

	// Positive when the thumb tip sits above the index knuckle
	vert := indexMCP.Y - tip.Y
	horiz := math.Abs(tip.X - indexMCP.X)

	// Sideways reach, rejected when the tip is curled under the palm
	horizExtended := horiz > c.cfg.ThumbHorizontalReach && vert >= c.cfg.ThumbCurlGuard
	vertExtended := vert > c.cfg.ThumbVerticalReach

	extended := ratioExtended && (horizExtended || vertExtended)

	var conf float64
	switch {
	case extended:
		var margin float64
		if vertExtended {
			margin = (vert - c.cfg.ThumbVerticalReach) / c.cfg.ThumbVerticalReach
		} else {
			margin = (horiz - c.cfg.ThumbHorizontalReach) / c.cfg.ThumbHorizontalReach
		}
		dirConf := math.Min(1, 0.5+margin)
		conf = (ratioConf + dirConf) / 2
	case !ratioExtended:
		// The chain itself is bent; the directional checks add nothing.
		conf = ratioConf
	default:
		// Straight chain but pointing nowhere a thumb extends to,
		// e.g. lying flat across the palm. Confidence comes from how
		// decisively the directional checks failed.
		maxReach := math.Max(horiz, vert)
		if maxReach < c.cfg.ThumbHorizontalReach/2 {
			conf = 1
		} else {
			conf = clamp01(0.5 + (c.cfg.ThumbHorizontalReach-maxReach)/c.cfg.ThumbHorizontalReach)
		}
	}
	conf *= c.visibilityFactor(hand, Thumb)

	return FingerState{
		Finger:       Thumb,
		Extended:     extended,
		Confidence:   conf,
		Straightness: ratio,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
