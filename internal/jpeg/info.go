package jpeg

import (
	"github.com/davesmith10/jpgicc/internal/ir"
	"github.com/davesmith10/jpgicc/internal/markers"
)

// ImageInfo contains metadata about a JPEG file.
type ImageInfo struct {
	Width         int
	Height        int
	NumComponents int
	ColorSpace    ir.CodecSpace
	SawAdobe      bool
	Density       ir.Resolution
	Markers       []ir.Marker
	ICC           []byte // extracted ICC profile, nil if absent
	Fax           bool
	// Photoshop is the resolution from an APP13 block, if any.
	Photoshop *ir.Resolution
}

// GetInfo reads JPEG metadata and extracts any ICC profile without fully decoding the image.
func GetInfo(data []byte) (*ImageInfo, error) {
	dec, err := NewDecoder(data)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	hdr := dec.Header()
	ms := dec.Markers()

	// A profile with missing or inconsistent chunks is reported as absent.
	icc, err := markers.ExtractICC(ms)
	if err != nil {
		icc = nil
	}

	info := &ImageInfo{
		Width:         hdr.Width,
		Height:        hdr.Height,
		NumComponents: hdr.Components,
		ColorSpace:    hdr.Space,
		SawAdobe:      hdr.SawAdobe,
		Density:       hdr.Density,
		Markers:       ms,
		ICC:           icc,
		Fax:           markers.IsFax(ms),
	}
	if r, ok := markers.Resolution(ms); ok {
		info.Photoshop = &r
	}
	return info, nil
}
