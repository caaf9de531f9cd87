package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/davesmith10/jpgicc/internal/ir"
	"github.com/davesmith10/jpgicc/internal/itufax"
)

func codecChannels(cs ir.CodecSpace) int {
	switch cs {
	case ir.CodecGrayscale:
		return 1
	case ir.CodecRGB, ir.CodecYCbCr:
		return 3
	case ir.CodecCMYK, ir.CodecYCCK:
		return 4
	}
	return 0
}

type fakeDecoder struct {
	hdr     ir.Header
	markers []ir.Marker

	started  bool
	out      ir.CodecSpace
	read     int
	finished bool
	closed   bool
}

func (d *fakeDecoder) Header() ir.Header    { return d.hdr }
func (d *fakeDecoder) Markers() []ir.Marker { return d.markers }

func (d *fakeDecoder) Start(out ir.CodecSpace) error {
	d.started = true
	d.out = out
	return nil
}

func (d *fakeDecoder) ReadRow(row []byte) error {
	if !d.started {
		return errors.New("decoder not started")
	}
	if want := d.hdr.Width * codecChannels(d.out); len(row) != want {
		return fmt.Errorf("%w: row of %d bytes, decoder produces %d", ir.ErrFormat, len(row), want)
	}
	if d.read >= d.hdr.Height {
		return fmt.Errorf("%w: read past the last row", ir.ErrIO)
	}
	for i := range row {
		row[i] = byte(d.read)
	}
	d.read++
	return nil
}

func (d *fakeDecoder) Finish() error {
	d.finished = true
	return nil
}

func (d *fakeDecoder) Close() error {
	d.closed = true
	return nil
}

type fakeEncoder struct {
	params  ir.EncodeParams
	started bool
	markers []ir.Marker
	rows    int
	closed  bool
}

func (e *fakeEncoder) Start(p ir.EncodeParams) error {
	e.params = p
	e.started = true
	return nil
}

func (e *fakeEncoder) WriteMarker(m ir.Marker) error {
	if !e.started || e.rows > 0 {
		return errors.New("markers must be written before the first row")
	}
	e.markers = append(e.markers, m)
	return nil
}

func (e *fakeEncoder) WriteRow(row []byte) error {
	if want := e.params.Width * e.params.Components; len(row) != want {
		return fmt.Errorf("%w: row of %d bytes, want %d", ir.ErrFormat, len(row), want)
	}
	e.rows++
	return nil
}

func (e *fakeEncoder) Finish() ([]byte, error) {
	return []byte{0xFF, 0xD8, 0xFF, 0xD9}, nil
}

func (e *fakeEncoder) Close() error {
	e.closed = true
	return nil
}

type fakeProfile struct {
	space  ir.ColorSpace
	pcs    ir.ColorSpace
	desc   string
	closes int
}

func (p *fakeProfile) ColorSpace() ir.ColorSpace { return p.space }
func (p *fakeProfile) PCS() ir.ColorSpace        { return p.pcs }
func (p *fakeProfile) Info() ir.ProfileInfo      { return ir.ProfileInfo{Description: p.desc} }
func (p *fakeProfile) Bytes() ([]byte, error)    { return []byte(p.desc), nil }

func (p *fakeProfile) Close() error {
	p.closes++
	return nil
}

type fakeTransform struct {
	calls  int
	closes int
}

func (t *fakeTransform) Apply(in, out []byte, pixels int) error {
	t.calls++
	for i := range out {
		out[i] = in[0]
	}
	return nil
}

func (t *fakeTransform) Close() error {
	t.closes++
	return nil
}

// transformCall records the arguments of NewTransform.
type transformCall struct {
	src, dst, proof Profile
	in, out         ir.PixelFormat
	cfg             ir.TransformConfig
}

type fakeEngine struct {
	named    map[string]*fakeProfile
	embedded *fakeProfile
	fax      map[itufax.Direction]*fakeProfile

	openedEmbedded [][]byte
	openedNamed    []string
	faxBuilt       []itufax.Direction
	call           *transformCall
	xf             *fakeTransform
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		named: map[string]*fakeProfile{
			DefaultProfile: {space: ir.ColorSpaceRGB, pcs: ir.ColorSpaceXYZ, desc: "sRGB"},
		},
		fax: map[itufax.Direction]*fakeProfile{
			itufax.ToPCS:   {space: ir.ColorSpaceLab, pcs: ir.ColorSpaceLab, desc: "fax decode"},
			itufax.FromPCS: {space: ir.ColorSpaceLab, pcs: ir.ColorSpaceLab, desc: "fax encode"},
		},
	}
}

func (e *fakeEngine) OpenProfile(data []byte) (Profile, error) {
	e.openedEmbedded = append(e.openedEmbedded, data)
	if e.embedded == nil {
		return nil, fmt.Errorf("%w: no embedded profile configured", ir.ErrEngine)
	}
	return e.embedded, nil
}

func (e *fakeEngine) OpenNamed(name string) (Profile, error) {
	e.openedNamed = append(e.openedNamed, name)
	p, ok := e.named[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s not found", ir.ErrResource, name)
	}
	return p, nil
}

func (e *fakeEngine) OpenFax(ctx context.Context, dir itufax.Direction) (Profile, error) {
	e.faxBuilt = append(e.faxBuilt, dir)
	return e.fax[dir], nil
}

func (e *fakeEngine) NewTransform(src, dst, proof Profile, in, out ir.PixelFormat, cfg ir.TransformConfig) (Transform, error) {
	e.call = &transformCall{src: src, dst: dst, proof: proof, in: in, out: out, cfg: cfg}
	e.xf = &fakeTransform{}
	return e.xf, nil
}
