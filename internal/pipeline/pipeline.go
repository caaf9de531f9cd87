// Package pipeline drives one JPEG color conversion: it picks the
// profiles, asks the engine for a transform and streams scanlines from the
// decoder through the transform into the encoder, carrying the source
// markers across.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/davesmith10/jpgicc/internal/ir"
	"github.com/davesmith10/jpgicc/internal/itufax"
)

// FaxToken selects the virtual fax Lab profile as input or output profile.
const FaxToken = "*Lab"

// DefaultProfile is used when no input or output profile is given.
const DefaultProfile = "*sRGB"

// Decoder is an open JPEG decode session. Header and Markers are valid
// as soon as the session exists.
type Decoder interface {
	Header() ir.Header
	Markers() []ir.Marker
	// Start begins decompression producing rows in out.
	Start(out ir.CodecSpace) error
	ReadRow(row []byte) error
	Finish() error
	Close() error
}

// Encoder is a JPEG encode session. Markers may only be written between
// Start and the first row.
type Encoder interface {
	Start(p ir.EncodeParams) error
	WriteMarker(m ir.Marker) error
	WriteRow(row []byte) error
	// Finish completes the stream and returns the encoded bytes.
	Finish() ([]byte, error)
	Close() error
}

// Profile is an open color profile.
type Profile interface {
	ColorSpace() ir.ColorSpace
	// PCS is the connection space; for a device link, its output space.
	PCS() ir.ColorSpace
	Info() ir.ProfileInfo
	Bytes() ([]byte, error)
	Close() error
}

// Transform converts one row of pixels.
type Transform interface {
	Apply(in, out []byte, pixels int) error
	Close() error
}

// Engine opens profiles and builds transforms.
type Engine interface {
	OpenProfile(data []byte) (Profile, error)
	// OpenNamed opens a profile file or a built-in '*' token.
	OpenNamed(name string) (Profile, error)
	// OpenFax builds the virtual fax Lab profile for dir.
	OpenFax(ctx context.Context, dir itufax.Direction) (Profile, error)
	// NewTransform builds a transform. dst is nil for a device link, proof
	// is nil when not proofing.
	NewTransform(src, dst, proof Profile, in, out ir.PixelFormat, cfg ir.TransformConfig) (Transform, error)
}

// Options controls one conversion.
type Options struct {
	InputProfile   string // file or token; empty uses the embedded profile or *sRGB
	OutputProfile  string // file or token; empty means *sRGB
	DeviceLink     string // replaces both input and output profiles
	ProofProfile   string // enables soft proofing
	IgnoreEmbedded bool
	SaveEmbedded   string // write the embedded profile to this file
	EmbedOutput    bool   // embed the output profile file in the result
	Quality        int    // JPEG quality, 0..100
	Transform      ir.TransformConfig
	Verbose        io.Writer // diagnostics; nil discards them
}

// Validate reports conflicting or out-of-range options.
func (o *Options) Validate() error {
	if o.DeviceLink != "" {
		if o.InputProfile != "" || o.OutputProfile != "" {
			return fmt.Errorf("%w: a device link cannot be combined with input or output profiles", ir.ErrConfiguration)
		}
		if o.EmbedOutput {
			return fmt.Errorf("%w: a device link has no output profile to embed", ir.ErrConfiguration)
		}
	}
	if o.Quality < 0 || o.Quality > 100 {
		return fmt.Errorf("%w: quality %d out of range 0..100", ir.ErrConfiguration, o.Quality)
	}
	if _, err := ir.ParsePrecalc(int(o.Transform.Precalc)); err != nil {
		return err
	}
	return nil
}

// IsFaxToken reports whether name selects the virtual fax profile.
func IsFaxToken(name string) bool {
	return strings.EqualFold(name, FaxToken)
}

// State is a stage of a conversion.
type State int

const (
	Idle State = iota
	FormatsResolved
	ProfilesOpened
	Validated
	TransformBuilt
	Streaming
	Finalized
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FormatsResolved:
		return "formats resolved"
	case ProfilesOpened:
		return "profiles opened"
	case Validated:
		return "validated"
	case TransformBuilt:
		return "transform built"
	case Streaming:
		return "streaming"
	case Finalized:
		return "finalized"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result describes a finished conversion.
type Result struct {
	Data     []byte // encoded JPEG
	Width    int
	Height   int
	Rows     int // scanlines written
	Input    ir.PixelFormat
	Output   ir.PixelFormat
	OutSpace ir.ColorSpace
	Encode   ir.EncodeParams
	Fax      bool // source carried the fax marker
	// ResolutionOverride is set when a Photoshop resolution block replaced
	// the source density.
	ResolutionOverride bool
	Copied             int // source markers re-emitted
	State              State
}
