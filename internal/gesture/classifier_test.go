package gesture

import (
	"math"
	"testing"

	"github.com/ayusman/hasta/internal/detector"
)

const confTolerance = 1e-6

func TestClassify_KnownGestures(t *testing.T) {
	tests := []struct {
		name string
		hand detector.Hand
		want Label
	}{
		{name: "fist", hand: detector.FistHand(), want: Fist},
		{name: "thumbs up", hand: detector.ThumbsUpHand(), want: ThumbsUp},
		{name: "pointing", hand: detector.PointingHand(), want: Pointing},
		{name: "peace", hand: detector.PeaceHand(), want: Peace},
		{name: "open palm", hand: detector.OpenPalmHand(), want: OpenPalm},
		{name: "rock on", hand: detector.RockOnHand(), want: RockOn},
		{name: "call me", hand: detector.CallMeHand(), want: CallMe},
	}

	c := New(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Classify(tt.hand)
			if result.Label != tt.want {
				t.Errorf("Classify() = %s (confidence %.3f), want %s",
					result.Label, result.Confidence, tt.want)
			}
			if result.Confidence < 0 || result.Confidence > 1 {
				t.Errorf("confidence %.3f outside [0,1]", result.Confidence)
			}
		})
	}
}

func TestClassify_ResultAlwaysInClosedSet(t *testing.T) {
	hands := []detector.Hand{
		detector.FistHand(),
		detector.ThumbsUpHand(),
		detector.PointingHand(),
		detector.PeaceHand(),
		detector.OpenPalmHand(),
		detector.RockOnHand(),
		detector.CallMeHand(),
		detector.AmbiguousHand(),
		{}, // zero-value hand, all landmarks at the origin
	}

	c := New(DefaultConfig())
	for _, hand := range hands {
		result := c.Classify(hand)
		if !result.Label.Valid() {
			t.Errorf("Classify() produced label %q outside the closed set", result.Label)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := New(DefaultConfig())
	hand := detector.PeaceHand()

	first := c.Classify(hand)
	for i := 0; i < 10; i++ {
		again := c.Classify(hand)
		if again.Label != first.Label || again.Confidence != first.Confidence {
			t.Fatalf("run %d: got %s/%.6f, want %s/%.6f",
				i, again.Label, again.Confidence, first.Label, first.Confidence)
		}
	}
}

// A half-curled hand matches the FIST row of the table, but its
// aggregate confidence falls below the gate, so the label is withheld
// while the computed confidence is preserved.
func TestClassify_ConfidenceGate(t *testing.T) {
	c := New(DefaultConfig())
	result := c.Classify(detector.AmbiguousHand())

	if result.Label != Unknown {
		t.Errorf("Label = %s, want UNKNOWN", result.Label)
	}
	if result.Confidence >= c.Config().MinGestureConfidence {
		t.Errorf("confidence %.4f should be below the %.2f gate",
			result.Confidence, c.Config().MinGestureConfidence)
	}
	if result.Confidence == 0 {
		t.Error("gated result should keep the true confidence, not zero it")
	}

	// index at 0.82 sits just under the band midpoint: nearly zero
	// confidence either way
	idx := result.Fingers[Index]
	if idx.Extended {
		t.Error("index at ratio 0.82 should classify curled")
	}
	if idx.Confidence > 0.05 {
		t.Errorf("index confidence = %.4f, want near zero", idx.Confidence)
	}
}

func TestClassify_OpenPalmHighConfidence(t *testing.T) {
	c := New(DefaultConfig())
	result := c.Classify(detector.OpenPalmHand())

	if result.Label != OpenPalm {
		t.Fatalf("Label = %s, want OPEN_PALM", result.Label)
	}
	if result.Confidence < 0.9 {
		t.Errorf("confidence = %.3f, want >= 0.9 for a clean palm", result.Confidence)
	}
}

// Straight fingers without spread must not read as OPEN_PALM: the same
// finger states with the fingertips bunched together fail the spread
// check and fall through the table.
func TestClassify_RelaxedHandIsNotOpenPalm(t *testing.T) {
	hand := detector.OpenPalmHand()

	// Squeeze the four fingertip columns toward the middle finger
	tips := []int{detector.IndexTip, detector.MiddleTip, detector.RingTip, detector.PinkyTip}
	center := hand.Points[detector.MiddleTip].X
	for _, tip := range tips {
		hand.Points[tip].X = center + (hand.Points[tip].X-center)*0.3
	}

	c := New(DefaultConfig())
	result := c.Classify(hand)
	if result.Label == OpenPalm {
		t.Error("bunched fingertips should not classify OPEN_PALM")
	}
}

func TestClassify_RockOnRequiresDeepCurl(t *testing.T) {
	cfg := DefaultConfig()
	c := New(cfg)

	// Middle and ring in the ambiguous band classify curled, but not
	// deeply enough for ROCK_ON.
	hand := detector.RockOnVariantHand(0.78)
	result := c.Classify(hand)
	if result.Label == RockOn {
		t.Errorf("middle/ring at 0.78 should not satisfy ROCK_ON (max %.2f)",
			cfg.RockOnMaxStraightness)
	}
}

func TestClassify_PointingRequiresRigidIndex(t *testing.T) {
	c := New(DefaultConfig())

	// Index extended at 0.95 is clearly extended yet below the 0.99
	// rigidity bar, so the pose matches no row.
	hand := detector.PointingVariantHand(0.95)
	result := c.Classify(hand)
	if result.Label == Pointing {
		t.Error("index at 0.95 should not satisfy POINTING rigidity")
	}
	if result.Label != Unknown {
		t.Errorf("Label = %s, want UNKNOWN", result.Label)
	}
	if result.Confidence != 0 {
		t.Errorf("no-match confidence = %.3f, want 0", result.Confidence)
	}
}

func TestClassify_NoMatchIsUnknownZeroConfidence(t *testing.T) {
	// Index + ring extended matches no table row.
	hand := detector.TwoFingerGapHand()

	c := New(DefaultConfig())
	result := c.Classify(hand)
	if result.Label != Unknown {
		t.Errorf("Label = %s, want UNKNOWN", result.Label)
	}
	if result.Confidence != 0 {
		t.Errorf("confidence = %.3f, want 0 for a no-match pose", result.Confidence)
	}
}

func TestClassifyAll_PerHandIndependence(t *testing.T) {
	c := New(DefaultConfig())
	hands := []detector.Hand{detector.FistHand(), detector.OpenPalmHand()}

	results := c.ClassifyAll(hands)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Label != Fist {
		t.Errorf("results[0] = %s, want FIST", results[0].Label)
	}
	if results[1].Label != OpenPalm {
		t.Errorf("results[1] = %s, want OPEN_PALM", results[1].Label)
	}

	// Same hands classified alone must yield identical results.
	alone := c.Classify(hands[0])
	if alone.Label != results[0].Label || alone.Confidence != results[0].Confidence {
		t.Error("batch classification should match per-hand classification")
	}
}

func TestClassify_VisibilityDegradesConfidence(t *testing.T) {
	c := New(DefaultConfig())

	clear := detector.PeaceHand()
	murky := detector.PeaceHand()
	low := 0.2
	for i := range murky.Points {
		murky.Points[i].Visibility = &low
	}

	clearResult := c.Classify(clear)
	murkyResult := c.Classify(murky)

	if murkyResult.Confidence >= clearResult.Confidence {
		t.Errorf("low visibility confidence %.3f should be below %.3f",
			murkyResult.Confidence, clearResult.Confidence)
	}
}

func TestClassify_NilVisibilityIsNeutral(t *testing.T) {
	c := New(DefaultConfig())

	base := detector.PeaceHand() // fixtures carry nil visibility
	neutral := detector.PeaceHand()
	v := c.Config().NeutralVisibility
	for i := range neutral.Points {
		neutral.Points[i].Visibility = &v
	}

	a := c.Classify(base)
	b := c.Classify(neutral)
	if math.Abs(a.Confidence-b.Confidence) > confTolerance {
		t.Errorf("nil visibility (%.6f) should equal explicit neutral (%.6f)",
			a.Confidence, b.Confidence)
	}
}

func TestLabels_ClosedSet(t *testing.T) {
	labels := Labels()
	if len(labels) != 8 {
		t.Fatalf("got %d labels, want 8", len(labels))
	}
	for _, l := range labels {
		if !l.Valid() {
			t.Errorf("label %q should be valid", l)
		}
	}
	if Label("WAVE").Valid() {
		t.Error("WAVE should not be a valid label")
	}
}
