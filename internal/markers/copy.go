package markers

import (
	"bytes"

	"github.com/samber/lo"

	"github.com/davesmith10/jpgicc/internal/ir"
)

// Emits records which header segments the encoder writes on its own.
type Emits struct {
	JFIF  bool
	Adobe bool
}

// IsJFIF reports whether m is a JFIF APP0 segment.
func IsJFIF(m ir.Marker) bool {
	return m.Code == ir.MarkerAPP0 && len(m.Data) >= 5 && bytes.HasPrefix(m.Data, []byte("JFIF\x00"))
}

// IsAdobe reports whether m is an Adobe APP14 segment.
func IsAdobe(m ir.Marker) bool {
	return m.Code == ir.MarkerAPP14 && len(m.Data) >= 5 && bytes.HasPrefix(m.Data, []byte("Adobe"))
}

// CopyPlan returns the saved segments to re-emit, in source order, leaving
// out the JFIF and Adobe segments the encoder already writes itself.
// Payloads are shared with ms, not copied.
func CopyPlan(ms []ir.Marker, emit Emits) []ir.Marker {
	return lo.Filter(ms, func(m ir.Marker, _ int) bool {
		if emit.JFIF && IsJFIF(m) {
			return false
		}
		if emit.Adobe && IsAdobe(m) {
			return false
		}
		return true
	})
}
