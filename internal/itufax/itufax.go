// Package itufax implements the ITU T.42 fax Lab encoding and the 3-D
// lookup tables that carry it in and out of the ICC profile connection
// space.
package itufax

import "math"

// Lab is a CIE L*a*b* color.
type Lab struct {
	L, A, B float64
}

// Gamut is the chroma box a Lab value must fit in before encoding.
type Gamut struct {
	AMin, AMax float64
	BMin, BMax float64
}

// FaxGamut is the range the fax encoding can represent.
var FaxGamut = Gamut{AMin: -85, AMax: 85, BMin: -75, BMax: 125}

// Remapper moves a Lab value into a gamut box.
type Remapper func(Lab, Gamut) Lab

// Decode converts 16-bit fax codes to Lab.
func Decode(c [3]uint16) Lab {
	return Lab{
		L: float64(c[0]) / 655.35,
		A: 170 * (float64(c[1]) - 32768) / 65535,
		B: 200 * (float64(c[2]) - 24576) / 65535,
	}
}

// Encode remaps lab into FaxGamut and converts it to 16-bit fax codes.
// A nil remap encodes lab as given.
func Encode(lab Lab, remap Remapper) [3]uint16 {
	if remap != nil {
		lab = remap(lab, FaxGamut)
	}
	return [3]uint16{
		floorWord(lab.L / 100 * 65535),
		floorWord(lab.A/170*65535 + 32768),
		floorWord(lab.B/200*65535 + 24576),
	}
}

// PCSDecode converts a 16-bit ICC v4 Lab PCS value to Lab.
func PCSDecode(v [3]uint16) Lab {
	return Lab{
		L: float64(v[0]) / 655.35,
		A: float64(v[1])/257 - 128,
		B: float64(v[2])/257 - 128,
	}
}

// PCSEncode converts Lab to the 16-bit ICC v4 Lab PCS encoding, clamping
// to the encodable range first.
func PCSEncode(lab Lab) [3]uint16 {
	l := clamp(lab.L, 0, 100)
	a := clamp(lab.A, -128, 127)
	b := clamp(lab.B, -128, 127)
	return [3]uint16{
		saturateWord(l * 655.35),
		saturateWord((a + 128) * 257),
		saturateWord((b + 128) * 257),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// saturateWord rounds to the nearest 16-bit value.
func saturateWord(d float64) uint16 {
	d += 0.5
	if d <= 0 {
		return 0
	}
	if d >= 65535 {
		return 0xFFFF
	}
	return uint16(math.Floor(d))
}

// floorWord truncates toward negative infinity and saturates to 0..65535.
func floorWord(d float64) uint16 {
	d = math.Floor(d)
	if d <= 0 || math.IsNaN(d) {
		return 0
	}
	if d >= 65535 {
		return 0xFFFF
	}
	return uint16(d)
}
