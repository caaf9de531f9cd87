package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Intent is an ICC rendering intent. Values match lcms2.
type Intent int

const (
	IntentPerceptual           Intent = 0
	IntentRelativeColorimetric Intent = 1
	IntentSaturation           Intent = 2
	IntentAbsoluteColorimetric Intent = 3
)

// ParseIntent converts an intent name or lcms2 intent number to an Intent.
func ParseIntent(s string) (Intent, error) {
	switch strings.ToLower(s) {
	case "perceptual", "p":
		return IntentPerceptual, nil
	case "relative", "r":
		return IntentRelativeColorimetric, nil
	case "saturation", "s":
		return IntentSaturation, nil
	case "absolute", "a":
		return IntentAbsoluteColorimetric, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: unknown rendering intent %q", ErrConfiguration, s)
	}
	// 10..15 are the lcms2 black-preserving intents.
	if (n >= 0 && n <= 3) || (n >= 10 && n <= 15) {
		return Intent(n), nil
	}
	return 0, fmt.Errorf("%w: unknown rendering intent %d", ErrConfiguration, n)
}

func (i Intent) String() string {
	switch i {
	case IntentPerceptual:
		return "perceptual"
	case IntentRelativeColorimetric:
		return "relative colorimetric"
	case IntentSaturation:
		return "saturation"
	case IntentAbsoluteColorimetric:
		return "absolute colorimetric"
	default:
		return fmt.Sprintf("intent %d", int(i))
	}
}

// PrecalcMode selects how the engine precalculates the transform.
type PrecalcMode int

const (
	PrecalcSkip    PrecalcMode = 0
	PrecalcDefault PrecalcMode = 1
	PrecalcHighRes PrecalcMode = 2
	PrecalcLowRes  PrecalcMode = 3
)

// ParsePrecalc validates a numeric precalc mode.
func ParsePrecalc(n int) (PrecalcMode, error) {
	if n < int(PrecalcSkip) || n > int(PrecalcLowRes) {
		return 0, fmt.Errorf("%w: unknown precalc mode '%d'", ErrConfiguration, n)
	}
	return PrecalcMode(n), nil
}

// TransformConfig carries every engine-facing knob of one conversion.
type TransformConfig struct {
	Intent      Intent
	ProofIntent Intent
	BlackPoint  bool // black-point compensation
	GamutCheck  bool
	Precalc     PrecalcMode
	SoftProof   bool
}

// EncodeParams configures the encode session. It is computed entirely in
// Go before the encoder is touched.
type EncodeParams struct {
	Width      int
	Height     int
	InSpace    CodecSpace // layout of the rows handed to the encoder
	JPEGSpace  CodecSpace // space stored in the file
	Components int
	Quality    int
	FullChroma bool // 1x1 sampling on every component
	WriteJFIF  bool
	WriteAdobe bool
	Density    Resolution
}
