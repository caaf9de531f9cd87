// Package markers inspects and rewrites the application segments saved by
// the JPEG decoder: ITU T.42 (G3FAX) identification, Photoshop resolution
// blocks, ICC profile chunks and the copy plan for the encoder.
package markers

import (
	"bytes"
	"encoding/binary"

	"github.com/davesmith10/jpgicc/internal/ir"
)

const (
	faxTag       = "G3FAX\x00"
	faxVersion   = 0x07CA // year of approval, 1994
	faxDensity   = 0x00C8 // 200 pels / 25.4 mm
	photoshopTag = "Photoshop"
	resourceTag  = "8BIM"

	// "Photoshop 3.0\x00" precedes the first resource block.
	photoshopHeaderLen = 14

	// ResolutionInfo resource: hRes(16.16) hResUnit widthUnit vRes(16.16) ...
	resolutionInfoID  = 0x03ED
	resolutionInfoLen = 16
)

// IsFax reports whether the image carries the ITU T.42 continuous-tone fax
// identification (an APP1 segment starting with "G3FAX\0").
func IsFax(ms []ir.Marker) bool {
	for _, m := range ms {
		if m.Code == ir.MarkerAPP1 && len(m.Data) > 5 && bytes.HasPrefix(m.Data, []byte(faxTag)) {
			return true
		}
	}
	return false
}

// FaxMarker returns the APP1 segment identifying a G3FAX Lab image with the
// default 200 dpi resolution.
func FaxMarker() ir.Marker {
	data := make([]byte, 0, len(faxTag)+4)
	data = append(data, faxTag...)
	data = binary.BigEndian.AppendUint16(data, faxVersion)
	data = binary.BigEndian.AppendUint16(data, faxDensity)
	return ir.Marker{Code: ir.MarkerAPP1, Data: data}
}

// IsPhotoshop reports whether m is a Photoshop image resource segment.
func IsPhotoshop(m ir.Marker) bool {
	return m.Code == ir.MarkerAPP13 && len(m.Data) > 9 && bytes.HasPrefix(m.Data, []byte(photoshopTag))
}

// Resolution looks for a ResolutionInfo resource in the Photoshop APP13
// segments and returns its densities in pixels per inch. Segments with a
// truncated or malformed resource list are skipped.
func Resolution(ms []ir.Marker) (ir.Resolution, bool) {
	for _, m := range ms {
		if !IsPhotoshop(m) {
			continue
		}
		if res, ok := photoshopResolution(m.Data); ok {
			return res, true
		}
	}
	return ir.Resolution{}, false
}

func photoshopResolution(data []byte) (ir.Resolution, bool) {
	i := photoshopHeaderLen
	for i+len(resourceTag) <= len(data) {
		if string(data[i:i+len(resourceTag)]) != resourceTag {
			break
		}
		i += len(resourceTag)

		if i+2 > len(data) {
			break
		}
		id := binary.BigEndian.Uint16(data[i:])
		i += 2

		// Pascal string, length byte included, padded to even size.
		if i >= len(data) {
			break
		}
		nameLen := int(data[i]) + 1
		i += nameLen + nameLen&1

		if i+4 > len(data) {
			break
		}
		size := int64(binary.BigEndian.Uint32(data[i:]))
		i += 4

		if int64(i)+size > int64(len(data)) {
			break
		}
		if id == resolutionInfoID && size >= resolutionInfoLen {
			block := data[i : i+resolutionInfoLen]
			return ir.Resolution{
				Unit: ir.DensityInch,
				X:    fixedToInt(block[0:4]),
				Y:    fixedToInt(block[8:12]),
			}, true
		}

		i += int(size) + int(size&1)
	}
	return ir.Resolution{}, false
}

// fixedToInt truncates a big-endian 16.16 fixed point value.
func fixedToInt(b []byte) uint16 {
	return binary.BigEndian.Uint16(b[0:2])
}
