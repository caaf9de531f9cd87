package color

/*
#cgo pkg-config: lcms2
#include <lcms2.h>
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/davesmith10/jpgicc/internal/ir"
)

// Lcms2Version returns the encoded CMM version from lcms2.
func Lcms2Version() int {
	return int(C.cmsGetEncodedCMMversion())
}

// lcms2 pixel types.
var pixelTypes = map[ir.ColorSpace]uint32{
	ir.ColorSpaceGray:  C.PT_GRAY,
	ir.ColorSpaceRGB:   C.PT_RGB,
	ir.ColorSpaceCMY:   C.PT_CMY,
	ir.ColorSpaceCMYK:  C.PT_CMYK,
	ir.ColorSpaceYCbCr: C.PT_YCbCr,
	ir.ColorSpaceYUV:   C.PT_YUV,
	ir.ColorSpaceXYZ:   C.PT_XYZ,
	ir.ColorSpaceLab:   C.PT_Lab,
}

// Format packs a pixel descriptor into an lcms2 format word
// (the TYPE_* macros).
func Format(f ir.PixelFormat) (uint32, error) {
	pt, ok := pixelTypes[f.Space]
	if !ok {
		return 0, fmt.Errorf("%w: no lcms2 pixel type for %s", ir.ErrFormat, f.Space)
	}
	if f.Channels < 1 || f.Channels > 15 || f.Bytes < 0 || f.Bytes > 7 || f.Extra < 0 || f.Extra > 7 {
		return 0, fmt.Errorf("%w: pixel format %v out of range", ir.ErrFormat, f)
	}

	v := pt<<16 | uint32(f.Extra)<<7 | uint32(f.Channels)<<3 | uint32(f.Bytes)
	if f.Planar {
		v |= 1 << 12
	}
	if f.Inverted {
		v |= 1 << 13
	}
	return v, nil
}

// lcms2 transform flags.
const (
	flagNoOptimize   uint32 = C.cmsFLAGS_NOOPTIMIZE
	flagGamutCheck   uint32 = C.cmsFLAGS_GAMUTCHECK
	flagBlackPoint   uint32 = C.cmsFLAGS_BLACKPOINTCOMPENSATION
	flagSoftProofing uint32 = C.cmsFLAGS_SOFTPROOFING
	flagHighRes      uint32 = C.cmsFLAGS_HIGHRESPRECALC
	flagLowRes       uint32 = C.cmsFLAGS_LOWRESPRECALC
)

func transformFlags(cfg ir.TransformConfig, proofing bool) uint32 {
	var flags uint32
	if cfg.BlackPoint {
		flags |= flagBlackPoint
	}
	switch cfg.Precalc {
	case ir.PrecalcSkip:
		flags |= flagNoOptimize
	case ir.PrecalcHighRes:
		flags |= flagHighRes
	case ir.PrecalcLowRes:
		flags |= flagLowRes
	}
	// Both need a proofing profile to act on.
	if proofing {
		if cfg.SoftProof {
			flags |= flagSoftProofing
		}
		if cfg.GamutCheck {
			flags |= flagGamutCheck
		}
	}
	return flags
}

// Transform performs ICC color transformations using lcms2.
type Transform struct {
	h       C.cmsHTRANSFORM
	in, out ir.PixelFormat
}

// NewTransform builds a transform from src to dst, optionally proofing
// through proof. dst is nil when src is a device link.
func NewTransform(src, dst, proof *Profile, in, out ir.PixelFormat, cfg ir.TransformConfig) (*Transform, error) {
	if src == nil || src.h == nil {
		return nil, fmt.Errorf("%w: no source profile", ir.ErrEngine)
	}
	inFmt, err := Format(in)
	if err != nil {
		return nil, err
	}
	outFmt, err := Format(out)
	if err != nil {
		return nil, err
	}

	var hDst, hProof C.cmsHPROFILE
	if dst != nil {
		hDst = dst.h
	}
	if proof != nil {
		hProof = proof.h
	}

	h := C.cmsCreateProofingTransform(
		src.h, C.cmsUInt32Number(inFmt),
		hDst, C.cmsUInt32Number(outFmt),
		hProof,
		C.cmsUInt32Number(cfg.Intent),
		C.cmsUInt32Number(cfg.ProofIntent),
		C.cmsUInt32Number(transformFlags(cfg, hProof != nil)),
	)
	if h == nil {
		return nil, fmt.Errorf("%w: lcms2: cannot transform by using the profiles", ir.ErrEngine)
	}

	t := &Transform{h: h, in: in, out: out}
	runtime.SetFinalizer(t, (*Transform).Close)
	return t, nil
}

// Apply transforms pixels samples from in into out.
func (t *Transform) Apply(in, out []byte, pixels int) error {
	if pixels == 0 {
		return nil
	}
	if need := t.in.RowBytes(pixels); len(in) < need {
		return fmt.Errorf("%w: input row has %d bytes, need %d", ir.ErrFormat, len(in), need)
	}
	if need := t.out.RowBytes(pixels); len(out) < need {
		return fmt.Errorf("%w: output row has %d bytes, need %d", ir.ErrFormat, len(out), need)
	}
	C.cmsDoTransform(t.h, unsafe.Pointer(&in[0]), unsafe.Pointer(&out[0]), C.cmsUInt32Number(pixels))
	return nil
}

// Close releases lcms2 resources.
func (t *Transform) Close() error {
	if t.h != nil {
		C.cmsDeleteTransform(t.h)
		t.h = nil
	}
	return nil
}
