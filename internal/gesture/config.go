// Package gesture classifies a single hand snapshot into a named gesture
// with a calibrated confidence score.
package gesture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config collects every numeric threshold used by the classifier, so
// tuning and tests can override them without touching logic.
type Config struct {
	// ExtendedThreshold is the straightness ratio at or above which a
	// finger is clearly extended.
	ExtendedThreshold float64 `yaml:"extended_threshold"`

	// CurledThreshold is the straightness ratio at or below which a
	// finger is clearly curled. Ratios between the two thresholds fall
	// in the ambiguous band and get degraded confidence.
	CurledThreshold float64 `yaml:"curled_threshold"`

	// ExtendedSaturation is the ratio at which extension confidence
	// reaches 1.0. It sits close above the extended threshold because
	// ratios compress near the geometric ceiling of 1.0.
	ExtendedSaturation float64 `yaml:"extended_saturation"`

	// CurledSaturation is the ratio at which curl confidence reaches
	// 1.0. It sits far below the curled threshold: only a deep curl is
	// unambiguous, a half-closed finger is not.
	CurledSaturation float64 `yaml:"curled_saturation"`

	// ThumbHorizontalReach is the minimum |tip.x - indexMCP.x| for the
	// thumb to count as extended sideways.
	ThumbHorizontalReach float64 `yaml:"thumb_horizontal_reach"`

	// ThumbVerticalReach is the minimum indexMCP.y - tip.y for the
	// thumb to count as raised.
	ThumbVerticalReach float64 `yaml:"thumb_vertical_reach"`

	// ThumbCurlGuard rejects a sideways thumb whose tip has dropped
	// under the palm: the vertical component must stay at or above it.
	ThumbCurlGuard float64 `yaml:"thumb_curl_guard"`

	// MinGestureConfidence is the global gate: any pattern match below
	// it is reported as UNKNOWN to suppress borderline false positives.
	MinGestureConfidence float64 `yaml:"min_gesture_confidence"`

	// MinFingerSpread is the minimum mean adjacent-fingertip distance
	// for OPEN_PALM, separating a deliberate palm from a relaxed hand.
	MinFingerSpread float64 `yaml:"min_finger_spread"`

	// MaxZSpread is the maximum fingertip depth range for OPEN_PALM;
	// low when the palm squarely faces the camera.
	MaxZSpread float64 `yaml:"max_z_spread"`

	// PalmMinStraightness is the minimum straightness ratio every
	// finger must reach for OPEN_PALM.
	PalmMinStraightness float64 `yaml:"palm_min_straightness"`

	// PointingMinStraightness is the minimum index straightness for
	// POINTING, stricter than plain extension.
	PointingMinStraightness float64 `yaml:"pointing_min_straightness"`

	// RockOnMaxStraightness is the maximum middle and ring straightness
	// for ROCK_ON; both must be strictly curled, not merely band-side.
	RockOnMaxStraightness float64 `yaml:"rock_on_max_straightness"`

	// NeutralVisibility substitutes for landmarks whose detector did
	// not report a visibility score.
	NeutralVisibility float64 `yaml:"neutral_visibility"`
}

// DefaultConfig returns the tuned production thresholds.
func DefaultConfig() Config {
	return Config{
		ExtendedThreshold:       0.9,
		CurledThreshold:         0.75,
		ExtendedSaturation:      0.93,
		CurledSaturation:        0.40,
		ThumbHorizontalReach:    0.1,
		ThumbVerticalReach:      0.1,
		ThumbCurlGuard:          -0.02,
		MinGestureConfidence:    0.45,
		MinFingerSpread:         0.052,
		MaxZSpread:              0.03,
		PalmMinStraightness:     0.93,
		PointingMinStraightness: 0.99,
		RockOnMaxStraightness:   0.75,
		NeutralVisibility:       0.5,
	}
}

// LoadConfig reads a YAML threshold file over the defaults, so a partial
// file overrides only the values it names.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// bandMidpoint is the center of the ambiguous straightness band.
func (c Config) bandMidpoint() float64 {
	return (c.CurledThreshold + c.ExtendedThreshold) / 2
}
