package color

import (
	"context"
	"fmt"

	"github.com/davesmith10/jpgicc/internal/ir"
	"github.com/davesmith10/jpgicc/internal/itufax"
	"github.com/davesmith10/jpgicc/internal/pipeline"
)

// Engine is the lcms2 color engine.
type Engine struct{}

var _ pipeline.Engine = Engine{}

func (Engine) OpenProfile(data []byte) (pipeline.Profile, error) {
	p, err := OpenProfile(data)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (Engine) OpenNamed(name string) (pipeline.Profile, error) {
	p, err := OpenNamed(name)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (Engine) OpenFax(ctx context.Context, dir itufax.Direction) (pipeline.Profile, error) {
	p, err := NewITUProfile(ctx, dir)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (Engine) NewTransform(src, dst, proof pipeline.Profile, in, out ir.PixelFormat, cfg ir.TransformConfig) (pipeline.Transform, error) {
	s, err := lcmsProfile(src)
	if err != nil {
		return nil, err
	}
	d, err := lcmsProfile(dst)
	if err != nil {
		return nil, err
	}
	p, err := lcmsProfile(proof)
	if err != nil {
		return nil, err
	}
	t, err := NewTransform(s, d, p, in, out, cfg)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// lcmsProfile unwraps a profile opened by this engine. A nil profile
// stays nil.
func lcmsProfile(p pipeline.Profile) (*Profile, error) {
	if p == nil {
		return nil, nil
	}
	lp, ok := p.(*Profile)
	if !ok {
		return nil, fmt.Errorf("%w: profile %T was not opened by lcms2", ir.ErrEngine, p)
	}
	return lp, nil
}
