package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davesmith10/jpgicc/internal/format"
	"github.com/davesmith10/jpgicc/internal/ir"
	"github.com/davesmith10/jpgicc/internal/itufax"
	"github.com/davesmith10/jpgicc/internal/markers"
)

type conversion struct {
	ctx  context.Context
	dec  Decoder
	enc  Encoder
	eng  Engine
	opts Options
	log  io.Writer

	state    State
	hdr      ir.Header
	in       format.Decode
	fax      bool
	res      ir.Resolution
	override bool

	src, dst, proof Profile
	link            bool
	open            []Profile

	outSpace ir.ColorSpace
	params   ir.EncodeParams
	outFmt   ir.PixelFormat
	xf       Transform

	rows   int
	copied int
	data   []byte
}

// Run converts the image behind dec into enc. It owns dec and enc and
// closes them, along with every profile and transform it opens.
func Run(ctx context.Context, dec Decoder, enc Encoder, eng Engine, opts Options) (*Result, error) {
	defer dec.Close()
	defer enc.Close()

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	c := &conversion{ctx: ctx, dec: dec, enc: enc, eng: eng, opts: opts, log: opts.Verbose}
	if c.log == nil {
		c.log = io.Discard
	}
	defer c.release()

	steps := []struct {
		done State
		fn   func() error
	}{
		{FormatsResolved, c.resolveFormats},
		{ProfilesOpened, c.openProfiles},
		{Validated, c.validate},
		{TransformBuilt, c.buildTransform},
		{Streaming, c.stream},
		{Finalized, c.finalize},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return nil, err
		}
		c.state = s.done
	}

	return &Result{
		Data:               c.data,
		Width:              c.hdr.Width,
		Height:             c.hdr.Height,
		Rows:               c.rows,
		Input:              c.in.Format,
		Output:             c.outFmt,
		OutSpace:           c.outSpace,
		Encode:             c.params,
		Fax:                c.fax,
		ResolutionOverride: c.override,
		Copied:             c.copied,
		State:              c.state,
	}, nil
}

func (c *conversion) resolveFormats() error {
	c.hdr = c.dec.Header()
	ms := c.dec.Markers()

	c.fax = markers.IsFax(ms)
	c.res = c.hdr.Density
	if r, ok := markers.Resolution(ms); ok {
		c.res = r
		c.override = true
		fmt.Fprintf(c.log, "Photoshop resolution: %dx%d dpi\n", r.X, r.Y)
	}

	in, err := format.Input(c.hdr.Space, c.hdr.SawAdobe, c.fax)
	if err != nil {
		return err
	}
	c.in = in
	return nil
}

// track registers p for release.
func (c *conversion) track(p Profile) {
	c.open = append(c.open, p)
}

func (c *conversion) openProfiles() error {
	var err error

	if c.opts.DeviceLink != "" {
		c.link = true
		c.src, err = c.eng.OpenNamed(c.opts.DeviceLink)
		if err != nil {
			return fmt.Errorf("opening device link: %w", err)
		}
		c.track(c.src)
		c.describe("device link", c.src)
		return nil
	}

	if c.src, err = c.openSource(); err != nil {
		return err
	}
	c.track(c.src)
	c.describe("input profile", c.src)

	if c.dst, err = c.openDestination(); err != nil {
		return err
	}
	c.track(c.dst)
	c.describe("output profile", c.dst)

	if c.opts.ProofProfile != "" {
		c.proof, err = c.eng.OpenNamed(c.opts.ProofProfile)
		if err != nil {
			return fmt.Errorf("opening proof profile: %w", err)
		}
		c.track(c.proof)
		c.opts.Transform.SoftProof = true
		c.describe("proof profile", c.proof)
	}
	return nil
}

func (c *conversion) openSource() (Profile, error) {
	if !c.opts.IgnoreEmbedded {
		embedded, err := markers.ExtractICC(c.dec.Markers())
		if err != nil {
			// Unusable chunks count as no embedded profile.
			fmt.Fprintf(c.log, "ignoring embedded profile: %v\n", err)
			embedded = nil
		}
		if embedded != nil {
			fmt.Fprintf(c.log, "embedded profile found (%d bytes)\n", len(embedded))
			if c.opts.SaveEmbedded != "" {
				if err := os.WriteFile(c.opts.SaveEmbedded, embedded, 0o644); err != nil {
					return nil, fmt.Errorf("%w: saving embedded profile: %v", ir.ErrResource, err)
				}
			}
			p, err := c.eng.OpenProfile(embedded)
			if err != nil {
				return nil, fmt.Errorf("opening embedded profile: %w", err)
			}
			return p, nil
		}
	}

	name := c.opts.InputProfile
	if IsFaxToken(name) || (name == "" && c.in.Format.Space == ir.ColorSpaceLab) {
		return c.openFax(itufax.ToPCS)
	}
	if name == "" {
		name = DefaultProfile
	}
	p, err := c.eng.OpenNamed(name)
	if err != nil {
		return nil, fmt.Errorf("opening input profile: %w", err)
	}
	return p, nil
}

func (c *conversion) openDestination() (Profile, error) {
	name := c.opts.OutputProfile
	if IsFaxToken(name) {
		return c.openFax(itufax.FromPCS)
	}
	if name == "" {
		name = DefaultProfile
	}
	p, err := c.eng.OpenNamed(name)
	if err != nil {
		return nil, fmt.Errorf("opening output profile: %w", err)
	}
	return p, nil
}

func (c *conversion) openFax(dir itufax.Direction) (Profile, error) {
	fmt.Fprintf(c.log, "building virtual fax Lab %s profile\n", dir)
	p, err := c.eng.OpenFax(c.ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("fax %s profile: %w", dir, err)
	}
	return &virtualProfile{Profile: p}, nil
}

func (c *conversion) describe(role string, p Profile) {
	info := p.Info()
	fmt.Fprintf(c.log, "%s:\n", role)
	for _, f := range []struct{ name, value string }{
		{"Description", info.Description},
		{"Manufacturer", info.Manufacturer},
		{"Model", info.Model},
		{"Copyright", info.Copyright},
	} {
		if f.value != "" {
			fmt.Fprintf(c.log, "  %s: %s\n", f.name, f.value)
		}
	}
}

func (c *conversion) validate() error {
	if got, want := c.src.ColorSpace(), c.in.Format.Space; got != want {
		return fmt.Errorf("%w: input profile is %s but the image is %s", ir.ErrFormat, got, want)
	}
	return nil
}

func (c *conversion) buildTransform() error {
	if c.link {
		c.outSpace = c.src.PCS()
	} else {
		c.outSpace = c.dst.ColorSpace()
	}

	params, err := format.Encode(c.outSpace, c.hdr.Width, c.hdr.Height, c.opts.Quality)
	if err != nil {
		return err
	}
	c.params = params

	if c.outFmt, err = format.Output(c.outSpace, params.WriteAdobe, false); err != nil {
		return err
	}

	fmt.Fprintf(c.log, "transform %v -> %v, intent %v\n", c.in.Format, c.outFmt, c.opts.Transform.Intent)
	xf, err := c.eng.NewTransform(unwrap(c.src), unwrap(c.dst), unwrap(c.proof), c.in.Format, c.outFmt, c.opts.Transform)
	if err != nil {
		return fmt.Errorf("building transform: %w", err)
	}
	c.xf = xf

	// The transform holds its own copy of the virtual tables.
	c.closeVirtual()
	return nil
}

func (c *conversion) stream() error {
	c.params.Density = c.res

	if err := c.dec.Start(c.in.OutSpace); err != nil {
		return fmt.Errorf("starting decoder: %w", err)
	}
	if err := c.enc.Start(c.params); err != nil {
		return fmt.Errorf("starting encoder: %w", err)
	}

	if c.outSpace == ir.ColorSpaceLab {
		if err := c.enc.WriteMarker(markers.FaxMarker()); err != nil {
			return fmt.Errorf("writing fax marker: %w", err)
		}
	}
	if c.opts.EmbedOutput {
		if err := c.embedOutput(); err != nil {
			return err
		}
	}

	plan := markers.CopyPlan(c.dec.Markers(), markers.Emits{JFIF: c.params.WriteJFIF, Adobe: c.params.WriteAdobe})
	for _, m := range plan {
		if err := c.enc.WriteMarker(m); err != nil {
			return fmt.Errorf("copying %v: %w", m, err)
		}
	}
	c.copied = len(plan)

	inRow := make([]byte, c.in.Format.RowBytes(c.hdr.Width))
	outRow := make([]byte, c.outFmt.RowBytes(c.hdr.Width))
	for c.rows < c.hdr.Height {
		if err := c.ctx.Err(); err != nil {
			return err
		}
		if err := c.dec.ReadRow(inRow); err != nil {
			return fmt.Errorf("reading row %d: %w", c.rows, err)
		}
		if err := c.xf.Apply(inRow, outRow, c.hdr.Width); err != nil {
			return fmt.Errorf("transforming row %d: %w", c.rows, err)
		}
		if err := c.enc.WriteRow(outRow); err != nil {
			return fmt.Errorf("writing row %d: %w", c.rows, err)
		}
		c.rows++
	}
	return nil
}

// embedOutput stores the output profile file, byte for byte, as
// ICC_PROFILE segments. Built-in profiles and unreadable files are
// skipped.
func (c *conversion) embedOutput() error {
	name := c.opts.OutputProfile
	if name == "" || strings.HasPrefix(name, "*") {
		fmt.Fprintf(c.log, "not embedding built-in profile %s\n", orDefault(name))
		return nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		fmt.Fprintf(c.log, "not embedding %s: %v\n", name, err)
		return nil
	}
	chunks, err := markers.ChunkICC(data)
	if err != nil {
		return fmt.Errorf("%w: embedding %s: %v", ir.ErrFormat, name, err)
	}
	for _, m := range chunks {
		if err := c.enc.WriteMarker(m); err != nil {
			return fmt.Errorf("embedding output profile: %w", err)
		}
	}
	return nil
}

func orDefault(name string) string {
	if name == "" {
		return DefaultProfile
	}
	return name
}

func (c *conversion) finalize() error {
	if err := c.dec.Finish(); err != nil {
		return fmt.Errorf("finishing decoder: %w", err)
	}
	data, err := c.enc.Finish()
	if err != nil {
		return fmt.Errorf("finishing encoder: %w", err)
	}
	c.data = data
	return nil
}

func (c *conversion) closeVirtual() {
	kept := c.open[:0]
	for _, p := range c.open {
		if _, ok := p.(*virtualProfile); ok {
			p.Close()
			continue
		}
		kept = append(kept, p)
	}
	c.open = kept
}

func (c *conversion) release() {
	if c.xf != nil {
		c.xf.Close()
		c.xf = nil
	}
	for _, p := range c.open {
		p.Close()
	}
	c.open = nil
}

// virtualProfile marks a profile built by the fax factory.
type virtualProfile struct {
	Profile
}

func unwrap(p Profile) Profile {
	if v, ok := p.(*virtualProfile); ok {
		return v.Profile
	}
	return p
}
