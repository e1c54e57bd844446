package gesture

import (
	"github.com/ayusman/hasta/internal/detector"
)

// Label is a gesture name from the closed recognition set.
type Label string

const (
	Fist     Label = "FIST"
	ThumbsUp Label = "THUMBS_UP"
	Pointing Label = "POINTING"
	Peace    Label = "PEACE"
	OpenPalm Label = "OPEN_PALM"
	RockOn   Label = "ROCK_ON"
	CallMe   Label = "CALL_ME"
	Unknown  Label = "UNKNOWN"
)

// Labels returns every label in fixed report order.
func Labels() []Label {
	return []Label{Fist, ThumbsUp, Pointing, Peace, OpenPalm, RockOn, CallMe, Unknown}
}

// Valid reports whether l is one of the recognized labels.
func (l Label) Valid() bool {
	for _, known := range Labels() {
		if l == known {
			return true
		}
	}
	return false
}

// Result is the classification of one hand: a label, a calibrated
// confidence, and the per-finger states that produced it, kept for
// diagnostics.
type Result struct {
	Label      Label                   `json:"label"`
	Confidence float64                 `json:"confidence"`
	Fingers    [NumFingers]FingerState `json:"fingers"`
}

// Classifier turns a 21-point hand snapshot into a Result. It is a pure
// function of its input and configuration: identical hands always yield
// identical results.
type Classifier struct {
	cfg Config
}

// New creates a Classifier with the given thresholds.
func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Config returns the thresholds the classifier was built with.
func (c *Classifier) Config() Config {
	return c.cfg
}

// pattern is one row of the decision table: the required extended state
// of each finger plus an optional whole-hand condition.
type pattern struct {
	label Label
	want  [NumFingers]bool // extended per finger, thumb first
	extra func(c *Classifier, hand detector.Hand, states [NumFingers]FingerState) bool
}

// The decision table. Every row constrains all five fingers; rows are
// mutually exclusive so order only matters for readability.
var patterns = []pattern{
	{label: Fist, want: [NumFingers]bool{false, false, false, false, false}},
	{label: ThumbsUp, want: [NumFingers]bool{true, false, false, false, false}},
	{
		label: Pointing,
		want:  [NumFingers]bool{false, true, false, false, false},
		extra: func(c *Classifier, _ detector.Hand, states [NumFingers]FingerState) bool {
			return states[Index].Straightness >= c.cfg.PointingMinStraightness
		},
	},
	{label: Peace, want: [NumFingers]bool{false, true, true, false, false}},
	{
		label: RockOn,
		want:  [NumFingers]bool{true, true, false, false, true},
		extra: func(c *Classifier, _ detector.Hand, states [NumFingers]FingerState) bool {
			return states[Middle].Straightness < c.cfg.RockOnMaxStraightness &&
				states[Ring].Straightness < c.cfg.RockOnMaxStraightness
		},
	},
	{label: CallMe, want: [NumFingers]bool{true, false, false, false, true}},
	{
		label: OpenPalm,
		want:  [NumFingers]bool{true, true, true, true, true},
		extra: func(c *Classifier, hand detector.Hand, states [NumFingers]FingerState) bool {
			for _, s := range states {
				if s.Straightness < c.cfg.PalmMinStraightness {
					return false
				}
			}
			return fingerSpread(hand) >= c.cfg.MinFingerSpread &&
				zSpread(hand) <= c.cfg.MaxZSpread
		},
	},
}

// FingerStates extracts all five finger states from a hand.
func (c *Classifier) FingerStates(hand detector.Hand) [NumFingers]FingerState {
	var states [NumFingers]FingerState
	states[Thumb] = c.thumbState(hand)
	for f := Index; f <= Pinky; f++ {
		states[f] = c.fingerState(hand, f)
	}
	return states
}

// Classify matches the hand's finger states against the decision table.
// A pose that matches no row, or whose aggregate confidence falls below
// the global gate, is reported as UNKNOWN; classification itself never
// fails.
func (c *Classifier) Classify(hand detector.Hand) Result {
	states := c.FingerStates(hand)

	for _, p := range patterns {
		if !statesMatch(states, p.want) {
			continue
		}
		if p.extra != nil && !p.extra(c, hand, states) {
			continue
		}

		// Aggregate confidence over the fingers the row constrains;
		// every row in this table constrains all five.
		var sum float64
		for _, s := range states {
			sum += s.Confidence
		}
		conf := sum / NumFingers

		label := p.label
		if conf < c.cfg.MinGestureConfidence {
			// Borderline pose: keep the true confidence, drop the label.
			label = Unknown
		}
		return Result{Label: label, Confidence: conf, Fingers: states}
	}

	return Result{Label: Unknown, Confidence: 0, Fingers: states}
}

// ClassifyAll classifies each hand independently; there is no cross-hand
// fusion or disambiguation.
func (c *Classifier) ClassifyAll(hands []detector.Hand) []Result {
	results := make([]Result, len(hands))
	for i, hand := range hands {
		results[i] = c.Classify(hand)
	}
	return results
}

func statesMatch(states [NumFingers]FingerState, want [NumFingers]bool) bool {
	for i, s := range states {
		if s.Extended != want[i] {
			return false
		}
	}
	return true
}

// fingerSpread is the mean distance between adjacent fingertip pairs
// (index-middle, middle-ring, ring-pinky). High when the fingers are
// deliberately splayed, low for a relaxed open hand.
func fingerSpread(hand detector.Hand) float64 {
	tips := []int{detector.IndexTip, detector.MiddleTip, detector.RingTip, detector.PinkyTip}
	var total float64
	for i := 0; i < len(tips)-1; i++ {
		total += detector.Distance2D(hand.Points[tips[i]], hand.Points[tips[i+1]])
	}
	return total / float64(len(tips)-1)
}

// zSpread is the depth range across all five fingertips, low when the
// palm squarely faces the camera.
func zSpread(hand detector.Hand) float64 {
	tips := []int{detector.ThumbTip, detector.IndexTip, detector.MiddleTip, detector.RingTip, detector.PinkyTip}
	min := hand.Points[tips[0]].Z
	max := min
	for _, t := range tips[1:] {
		z := hand.Points[t].Z
		if z < min {
			min = z
		}
		if z > max {
			max = z
		}
	}
	return max - min
}
