// Package format maps between JPEG codec color spaces and the pixel
// descriptors handed to the color engine.
package format

import (
	"fmt"

	"github.com/davesmith10/jpgicc/internal/ir"
)

const (
	// LosslessQuality keeps the encoder in the input space to avoid a
	// destructive color conversion.
	LosslessQuality = 100
	// FullChromaQuality disables chroma subsampling.
	FullChromaQuality = 70
)

// Decode is the resolved input side of a conversion.
type Decode struct {
	Format   ir.PixelFormat
	OutSpace ir.CodecSpace // space the decoder is asked to produce
}

// Input derives the input pixel format from the decoded header. A fax
// image is Lab regardless of what the codec says; the decoder is then told
// to leave the samples untouched.
func Input(space ir.CodecSpace, sawAdobe, fax bool) (Decode, error) {
	d := Decode{Format: ir.PixelFormat{Bytes: 1}}

	switch {
	case fax:
		d.Format.Space = ir.ColorSpaceLab
		d.OutSpace = ir.CodecYCbCr
	case space == ir.CodecGrayscale:
		d.Format.Space = ir.ColorSpaceGray
		d.OutSpace = ir.CodecGrayscale
	case space == ir.CodecRGB, space == ir.CodecYCbCr:
		// libjpeg does the YCbCr conversion.
		d.Format.Space = ir.ColorSpaceRGB
		d.OutSpace = ir.CodecRGB
	case space == ir.CodecCMYK, space == ir.CodecYCCK:
		d.Format.Space = ir.ColorSpaceCMYK
		d.OutSpace = ir.CodecCMYK
		// Adobe writes CMYK inverted.
		d.Format.Inverted = sawAdobe
	default:
		return Decode{}, fmt.Errorf("%w: unsupported color space (0x%x)", ir.ErrFormat, int(space))
	}

	d.Format.Channels = d.Format.Space.Channels()
	return d, nil
}

// Encode computes the encoder parameters for an output color space.
// It fails for spaces the JPEG encoder cannot carry.
func Encode(space ir.ColorSpace, width, height, quality int) (ir.EncodeParams, error) {
	p := ir.EncodeParams{
		Width:   width,
		Height:  height,
		Quality: quality,
	}

	switch space {
	case ir.ColorSpaceGray:
		p.InSpace, p.JPEGSpace = ir.CodecGrayscale, ir.CodecGrayscale
	case ir.ColorSpaceRGB:
		p.InSpace, p.JPEGSpace = ir.CodecRGB, ir.CodecYCbCr
	case ir.ColorSpaceYCbCr:
		p.InSpace, p.JPEGSpace = ir.CodecYCbCr, ir.CodecYCbCr
	case ir.ColorSpaceCMYK:
		p.InSpace, p.JPEGSpace = ir.CodecCMYK, ir.CodecYCCK
	case ir.ColorSpaceLab:
		// Stored as-is; the codec must not convert fax Lab samples.
		p.InSpace, p.JPEGSpace = ir.CodecYCbCr, ir.CodecYCbCr
	default:
		return ir.EncodeParams{}, fmt.Errorf("%w: unsupported output color space %s", ir.ErrFormat, space)
	}
	p.Components = space.Channels()

	if quality >= LosslessQuality {
		p.JPEGSpace = p.InSpace
	}

	// Same segments jpeg_set_colorspace enables.
	switch p.JPEGSpace {
	case ir.CodecGrayscale, ir.CodecYCbCr:
		p.WriteJFIF = true
	case ir.CodecRGB, ir.CodecCMYK, ir.CodecYCCK:
		p.WriteAdobe = true
	}
	// CMYK output keeps a JFIF header so the density survives.
	if space == ir.ColorSpaceCMYK {
		p.WriteJFIF = true
	}

	p.FullChroma = quality >= FullChromaQuality
	return p, nil
}

// Output builds the descriptor of the rows the engine produces for the
// encoder. adobe is the encoder's WriteAdobe setting: CMYK written with
// an Adobe segment is stored inverted.
func Output(space ir.ColorSpace, adobe, planar bool) (ir.PixelFormat, error) {
	f := ir.PixelFormat{Space: space, Bytes: 1, Planar: planar}

	switch space {
	case ir.ColorSpaceGray,
		ir.ColorSpaceRGB, ir.ColorSpaceCMY, ir.ColorSpaceLab, ir.ColorSpaceYUV, ir.ColorSpaceYCbCr:
		f.Channels = space.Channels()
	case ir.ColorSpaceCMYK:
		f.Channels = 4
		f.Inverted = adobe
	default:
		return ir.PixelFormat{}, fmt.Errorf("%w: unsupported output color space %s", ir.ErrFormat, space)
	}
	return f, nil
}
