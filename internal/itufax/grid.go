package itufax

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// GridPoints is the number of nodes per axis of the fax lookup tables.
const GridPoints = 33

// Sampler computes the output of one grid node from its input coordinates.
// It must be a pure function of in.
type Sampler func(in [3]uint16) [3]uint16

// Direction selects which side of the fax encoding a table serves.
type Direction int

const (
	// ToPCS decodes fax codes into the PCS (an AToB0 table).
	ToPCS Direction = iota
	// FromPCS encodes PCS values into fax codes (a BToA0 table).
	FromPCS
)

func (d Direction) String() string {
	switch d {
	case ToPCS:
		return "decode"
	case FromPCS:
		return "encode"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Table is a sampled 3-in 3-out grid in lcms CLUT order: the first input
// varies slowest, the last fastest.
type Table struct {
	Points int
	Values []uint16 // Points³ × 3 entries
}

// Nodes returns the number of grid nodes.
func (t *Table) Nodes() int {
	return t.Points * t.Points * t.Points
}

// At returns the output stored for node (i, j, k).
func (t *Table) At(i, j, k int) [3]uint16 {
	n := ((i*t.Points+j)*t.Points + k) * 3
	return [3]uint16{t.Values[n], t.Values[n+1], t.Values[n+2]}
}

// NodeValue is the input coordinate of node i on an axis of points nodes.
func NodeValue(i, points int) uint16 {
	return saturateWord(float64(i) * 65535 / float64(points-1))
}

// SampleGrid evaluates s on every node of a points³ grid. Slabs along the
// first axis run concurrently; each writes only its own part of the table.
func SampleGrid(ctx context.Context, points int, s Sampler) (*Table, error) {
	if points < 2 || points > 255 {
		return nil, fmt.Errorf("invalid grid size %d", points)
	}

	t := &Table{Points: points, Values: make([]uint16, points*points*points*3)}
	slab := points * points * 3

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < points; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out := t.Values[i*slab : (i+1)*slab]
			in := [3]uint16{NodeValue(i, points)}
			n := 0
			for j := 0; j < points; j++ {
				in[1] = NodeValue(j, points)
				for k := 0; k < points; k++ {
					in[2] = NodeValue(k, points)
					v := s(in)
					copy(out[n:n+3], v[:])
					n += 3
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sample grid: %w", err)
	}
	return t, nil
}

// DecodeSampler maps fax codes to PCS Lab.
func DecodeSampler(in [3]uint16) [3]uint16 {
	return PCSEncode(Decode(in))
}

// EncodeSampler returns a sampler mapping PCS Lab to fax codes through
// remap.
func EncodeSampler(remap Remapper) Sampler {
	return func(in [3]uint16) [3]uint16 {
		return Encode(PCSDecode(in), remap)
	}
}

// Build samples the fax table for dir. remap is used only by FromPCS.
func Build(ctx context.Context, dir Direction, remap Remapper) (*Table, error) {
	switch dir {
	case ToPCS:
		return SampleGrid(ctx, GridPoints, DecodeSampler)
	case FromPCS:
		if remap == nil {
			return nil, fmt.Errorf("fax encode table needs a gamut remapper")
		}
		return SampleGrid(ctx, GridPoints, EncodeSampler(remap))
	}
	return nil, fmt.Errorf("unknown fax table direction %v", dir)
}
