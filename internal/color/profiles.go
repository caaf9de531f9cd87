package color

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strings"

	"seehuhn.de/go/icc"

	"github.com/davesmith10/jpgicc/internal/ir"
)

// ICC color space signatures.
const (
	sigGray  = 0x47524159 // 'GRAY'
	sigRGB   = 0x52474220 // 'RGB '
	sigCMY   = 0x434D5920 // 'CMY '
	sigCMYK  = 0x434D594B // 'CMYK'
	sigYCbCr = 0x59436272 // 'YCbr'
	sigLuv   = 0x4C757620 // 'Luv '
	sigXYZ   = 0x58595A20 // 'XYZ '
	sigLab   = 0x4C616220 // 'Lab '
)

// SRGB is the built-in sRGB profile used when no input or output profile
// is named.
var SRGB = icc.SRGBv4Profile

// Header contains metadata parsed from an ICC profile header.
type Header struct {
	Size       int
	Version    string
	ColorSpace string // "RGB ", "CMYK", etc.
	PCS        string // "XYZ ", "Lab "
	Class      string // "mntr", "prtr", "scnr", etc.
}

// ParseHeader reads ICC header metadata from raw profile bytes. It is
// used for reporting only; lcms2 alone decides whether a profile can be
// used in a conversion.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < 128 {
		return nil, errors.New("ICC profile too short (< 128 bytes)")
	}
	p, err := icc.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding ICC profile: %w", err)
	}

	return &Header{
		Size:       int(binary.BigEndian.Uint32(data[0:4])),
		Version:    fmt.Sprint(p.Version),
		ColorSpace: signature(uint32(p.ColorSpace)),
		PCS:        signature(uint32(p.PCS)),
		Class:      signature(uint32(p.Class)),
	}, nil
}

func signature(v uint32) string {
	return string(binary.BigEndian.AppendUint32(nil, v))
}

// LoadProfile reads an ICC profile file.
func LoadProfile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading ICC profile: %v", ir.ErrResource, err)
	}
	return data, nil
}

// SpaceOf maps an ICC color space signature to the program's color space.
func SpaceOf(sig uint32) ir.ColorSpace {
	switch sig {
	case sigGray:
		return ir.ColorSpaceGray
	case sigRGB:
		return ir.ColorSpaceRGB
	case sigCMY:
		return ir.ColorSpaceCMY
	case sigCMYK:
		return ir.ColorSpaceCMYK
	case sigYCbCr:
		return ir.ColorSpaceYCbCr
	case sigLuv:
		return ir.ColorSpaceYUV
	case sigXYZ:
		return ir.ColorSpaceXYZ
	case sigLab:
		return ir.ColorSpaceLab
	default:
		return ir.ColorSpaceUnknown
	}
}

// SpaceOfName maps a four-character signature such as "RGB " to a color
// space.
func SpaceOfName(sig string) ir.ColorSpace {
	if len(sig) != 4 {
		return ir.ColorSpaceUnknown
	}
	return SpaceOf(binary.BigEndian.Uint32([]byte(sig)))
}

// ColorSpaceName names an ICC color space signature, falling back to the
// trimmed signature for spaces this program does not convert.
func ColorSpaceName(sig string) string {
	if cs := SpaceOfName(sig); cs != ir.ColorSpaceUnknown {
		return cs.String()
	}
	return strings.TrimSpace(sig)
}

var profileClasses = map[string]string{
	"scnr": "input",
	"mntr": "display",
	"prtr": "output",
	"link": "device link",
	"spac": "color space",
	"abst": "abstract",
	"nmcl": "named color",
}

// ProfileClassName names an ICC profile class signature.
func ProfileClassName(sig string) string {
	if name, ok := profileClasses[sig]; ok {
		return name
	}
	return strings.TrimSpace(sig)
}
