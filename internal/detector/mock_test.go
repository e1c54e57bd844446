package detector

import (
	"errors"
	"math"
	"testing"
)

func TestMockDetector_ReturnsConfiguredHands(t *testing.T) {
	mock := NewMockDetector()
	mock.SetHands([]Hand{FistHand(), OpenPalmHand()})

	hands, err := mock.Detect(nil)
	if err != nil {
		t.Fatalf("Detect() failed: %v", err)
	}
	if len(hands) != 2 {
		t.Errorf("got %d hands, want 2", len(hands))
	}
}

func TestMockDetector_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockDetector()
	wantErr := errors.New("camera unplugged")
	mock.SetError(wantErr)

	if _, err := mock.Detect(nil); !errors.Is(err, wantErr) {
		t.Errorf("Detect() error = %v, want %v", err, wantErr)
	}
}

// straightnessOf mirrors the classifier's ratio so the fixtures can be
// verified to hit their target ratios exactly.
func straightnessOf(hand Hand, joints [4]int) float64 {
	base := hand.Points[joints[0]]
	tip := hand.Points[joints[3]]
	direct := Distance2D(base, tip)
	segments := Distance2D(base, hand.Points[joints[1]]) +
		Distance2D(hand.Points[joints[1]], hand.Points[joints[2]]) +
		Distance2D(hand.Points[joints[2]], tip)
	return direct / segments
}

func TestFixtures_TargetRatios(t *testing.T) {
	indexChain := [4]int{IndexMCP, IndexPIP, IndexDIP, IndexTip}
	middleChain := [4]int{MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip}

	tests := []struct {
		name  string
		hand  Hand
		chain [4]int
		want  float64
	}{
		{name: "fist index", hand: FistHand(), chain: indexChain, want: 0.5},
		{name: "pointing index", hand: PointingHand(), chain: indexChain, want: 0.995},
		{name: "peace middle", hand: PeaceHand(), chain: middleChain, want: 0.95},
		{name: "open palm index", hand: OpenPalmHand(), chain: indexChain, want: 0.95},
		{name: "rock on middle", hand: RockOnHand(), chain: middleChain, want: 0.6},
		{name: "ambiguous index", hand: AmbiguousHand(), chain: indexChain, want: 0.82},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := straightnessOf(tt.hand, tt.chain)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ratio = %.12f, want %.12f", got, tt.want)
			}
		})
	}
}

func TestFixtures_AllHaveFullLandmarkSets(t *testing.T) {
	hands := []Hand{
		FistHand(), ThumbsUpHand(), PointingHand(), PeaceHand(),
		OpenPalmHand(), RockOnHand(), CallMeHand(), AmbiguousHand(),
	}

	for _, hand := range hands {
		if hand.Handedness != "Left" && hand.Handedness != "Right" {
			t.Errorf("fixture handedness = %q", hand.Handedness)
		}
		// Every named joint must be placed; the wrist anchors the hand
		// away from the origin.
		if hand.Points[Wrist].X == 0 && hand.Points[Wrist].Y == 0 {
			t.Error("fixture wrist left at the origin")
		}
	}
}
