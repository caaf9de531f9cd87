package ir

import "fmt"

// ColorSpace is the semantic color space of a pixel buffer or a profile,
// independent of how the codec stores it.
type ColorSpace int

const (
	ColorSpaceUnknown ColorSpace = iota
	ColorSpaceGray
	ColorSpaceRGB
	ColorSpaceCMY
	ColorSpaceCMYK
	ColorSpaceYCbCr
	ColorSpaceYUV
	ColorSpaceXYZ
	ColorSpaceLab
)

func (cs ColorSpace) String() string {
	switch cs {
	case ColorSpaceGray:
		return "Gray"
	case ColorSpaceRGB:
		return "RGB"
	case ColorSpaceCMY:
		return "CMY"
	case ColorSpaceCMYK:
		return "CMYK"
	case ColorSpaceYCbCr:
		return "YCbCr"
	case ColorSpaceYUV:
		return "YUV"
	case ColorSpaceXYZ:
		return "XYZ"
	case ColorSpaceLab:
		return "Lab"
	default:
		return fmt.Sprintf("ColorSpace(%d)", int(cs))
	}
}

// Channels returns the number of color channels of cs, or 0 when the
// space has no fixed channel count in this program.
func (cs ColorSpace) Channels() int {
	switch cs {
	case ColorSpaceGray:
		return 1
	case ColorSpaceRGB, ColorSpaceCMY, ColorSpaceYCbCr, ColorSpaceYUV, ColorSpaceXYZ, ColorSpaceLab:
		return 3
	case ColorSpaceCMYK:
		return 4
	default:
		return 0
	}
}

// CodecSpace is a JPEG codec color space. Values match libjpeg's
// J_COLOR_SPACE enumeration.
type CodecSpace int

const (
	CodecUnknown CodecSpace = iota
	CodecGrayscale
	CodecRGB
	CodecYCbCr
	CodecCMYK
	CodecYCCK
)

func (cs CodecSpace) String() string {
	switch cs {
	case CodecUnknown:
		return "Unknown"
	case CodecGrayscale:
		return "Grayscale"
	case CodecRGB:
		return "RGB"
	case CodecYCbCr:
		return "YCbCr"
	case CodecCMYK:
		return "CMYK"
	case CodecYCCK:
		return "YCCK"
	default:
		return fmt.Sprintf("J_COLOR_SPACE(%d)", int(cs))
	}
}

// PixelFormat describes the memory layout of one scanline handed to the
// color engine. It is derived once per image and not modified afterwards.
type PixelFormat struct {
	Space    ColorSpace
	Channels int
	Bytes    int  // bytes per sample
	Extra    int  // extra (alpha) channels
	Planar   bool // planar instead of chunky layout
	Inverted bool // samples stored inverted (Adobe CMYK convention)
}

// RowBytes returns the size of one scanline of width pixels.
func (f PixelFormat) RowBytes(width int) int {
	return width * (f.Channels + f.Extra) * f.Bytes
}

func (f PixelFormat) String() string {
	s := fmt.Sprintf("%s/%dch/%dB", f.Space, f.Channels, f.Bytes)
	if f.Extra > 0 {
		s += fmt.Sprintf("+%dx", f.Extra)
	}
	if f.Planar {
		s += "/planar"
	}
	if f.Inverted {
		s += "/inverted"
	}
	return s
}
