package ir

import "fmt"

// JPEG marker codes (the byte following 0xFF).
const (
	MarkerAPP0  byte = 0xE0
	MarkerAPP1  byte = 0xE1
	MarkerAPP2  byte = 0xE2
	MarkerAPP13 byte = 0xED
	MarkerAPP14 byte = 0xEE
	MarkerAPP15 byte = 0xEF
	MarkerCOM   byte = 0xFE
)

// Marker is one saved application or comment segment. Data excludes the
// marker bytes and the 2-byte length field.
type Marker struct {
	Code byte
	Data []byte
}

// Len returns the payload length.
func (m Marker) Len() int { return len(m.Data) }

func (m Marker) String() string {
	if m.Code >= MarkerAPP0 && m.Code <= MarkerAPP15 {
		return fmt.Sprintf("APP%d (%d bytes)", m.Code-MarkerAPP0, len(m.Data))
	}
	if m.Code == MarkerCOM {
		return fmt.Sprintf("COM (%d bytes)", len(m.Data))
	}
	return fmt.Sprintf("0x%02X (%d bytes)", m.Code, len(m.Data))
}

// DensityUnit is the JFIF density unit.
type DensityUnit int

const (
	DensityNone DensityUnit = iota // aspect ratio only
	DensityInch
	DensityCm
)

func (u DensityUnit) String() string {
	switch u {
	case DensityNone:
		return "none"
	case DensityInch:
		return "dpi"
	case DensityCm:
		return "dpcm"
	default:
		return fmt.Sprintf("DensityUnit(%d)", int(u))
	}
}

// Resolution is the pixel density carried into the output file.
type Resolution struct {
	Unit DensityUnit
	X    uint16
	Y    uint16
}

// Header is what the decode session knows after reading the JPEG header.
type Header struct {
	Width      int
	Height     int
	Components int
	Space      CodecSpace
	SawAdobe   bool // an Adobe APP14 marker was present
	SawJFIF    bool
	Density    Resolution
}
