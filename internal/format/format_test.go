package format

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/davesmith10/jpgicc/internal/ir"
)

func TestInputSupportedSpaces(t *testing.T) {
	cases := []struct {
		space    ir.CodecSpace
		want     ir.ColorSpace
		channels int
		out      ir.CodecSpace
	}{
		{ir.CodecGrayscale, ir.ColorSpaceGray, 1, ir.CodecGrayscale},
		{ir.CodecRGB, ir.ColorSpaceRGB, 3, ir.CodecRGB},
		{ir.CodecYCbCr, ir.ColorSpaceRGB, 3, ir.CodecRGB},
		{ir.CodecCMYK, ir.ColorSpaceCMYK, 4, ir.CodecCMYK},
		{ir.CodecYCCK, ir.ColorSpaceCMYK, 4, ir.CodecCMYK},
	}
	for _, c := range cases {
		d, err := Input(c.space, false, false)
		if err != nil {
			t.Errorf("Input(%s): %v", c.space, err)
			continue
		}
		want := ir.PixelFormat{Space: c.want, Channels: c.channels, Bytes: 1}
		if diff := cmp.Diff(want, d.Format); diff != "" {
			t.Errorf("Input(%s) format mismatch (-want +got):\n%s", c.space, diff)
		}
		if d.Format.Extra != 0 {
			t.Errorf("Input(%s) has %d extra channels", c.space, d.Format.Extra)
		}
		if d.OutSpace != c.out {
			t.Errorf("Input(%s) decodes to %s, want %s", c.space, d.OutSpace, c.out)
		}
	}
}

func TestInputFaxOverridesCodec(t *testing.T) {
	for _, space := range []ir.CodecSpace{ir.CodecYCbCr, ir.CodecRGB, ir.CodecCMYK, ir.CodecUnknown} {
		d, err := Input(space, true, true)
		if err != nil {
			t.Fatalf("Input(%s, fax): %v", space, err)
		}
		want := ir.PixelFormat{Space: ir.ColorSpaceLab, Channels: 3, Bytes: 1}
		if diff := cmp.Diff(want, d.Format); diff != "" {
			t.Errorf("fax format mismatch (-want +got):\n%s", diff)
		}
		if d.OutSpace != ir.CodecYCbCr {
			t.Errorf("fax decodes to %s, want YCbCr", d.OutSpace)
		}
	}
}

func TestInputAdobeFlavor(t *testing.T) {
	for _, space := range []ir.CodecSpace{ir.CodecCMYK, ir.CodecYCCK} {
		d, _ := Input(space, true, false)
		if !d.Format.Inverted {
			t.Errorf("%s with Adobe marker should be inverted", space)
		}
		d, _ = Input(space, false, false)
		if d.Format.Inverted {
			t.Errorf("%s without Adobe marker should not be inverted", space)
		}
	}
	// Only CMYK carries the flavor.
	d, _ := Input(ir.CodecRGB, true, false)
	if d.Format.Inverted {
		t.Error("RGB should never be inverted")
	}
}

func TestInputUnsupported(t *testing.T) {
	for _, space := range []ir.CodecSpace{ir.CodecUnknown, ir.CodecSpace(9)} {
		if _, err := Input(space, false, false); !errors.Is(err, ir.ErrFormat) {
			t.Errorf("Input(%s) error = %v, want ErrFormat", space, err)
		}
	}
}

func TestEncode(t *testing.T) {
	cases := []struct {
		name    string
		space   ir.ColorSpace
		quality int
		want    ir.EncodeParams
	}{
		{"rgb lossy", ir.ColorSpaceRGB, 75, ir.EncodeParams{
			InSpace: ir.CodecRGB, JPEGSpace: ir.CodecYCbCr, Components: 3,
			FullChroma: true, WriteJFIF: true,
		}},
		{"rgb lossless", ir.ColorSpaceRGB, 100, ir.EncodeParams{
			InSpace: ir.CodecRGB, JPEGSpace: ir.CodecRGB, Components: 3,
			FullChroma: true, WriteAdobe: true,
		}},
		{"rgb subsampled", ir.ColorSpaceRGB, 50, ir.EncodeParams{
			InSpace: ir.CodecRGB, JPEGSpace: ir.CodecYCbCr, Components: 3,
			WriteJFIF: true,
		}},
		{"cmyk", ir.ColorSpaceCMYK, 90, ir.EncodeParams{
			InSpace: ir.CodecCMYK, JPEGSpace: ir.CodecYCCK, Components: 4,
			FullChroma: true, WriteJFIF: true, WriteAdobe: true,
		}},
		{"cmyk lossless", ir.ColorSpaceCMYK, 100, ir.EncodeParams{
			InSpace: ir.CodecCMYK, JPEGSpace: ir.CodecCMYK, Components: 4,
			FullChroma: true, WriteJFIF: true, WriteAdobe: true,
		}},
		{"gray", ir.ColorSpaceGray, 69, ir.EncodeParams{
			InSpace: ir.CodecGrayscale, JPEGSpace: ir.CodecGrayscale, Components: 1,
			WriteJFIF: true,
		}},
		{"ycbcr", ir.ColorSpaceYCbCr, 70, ir.EncodeParams{
			InSpace: ir.CodecYCbCr, JPEGSpace: ir.CodecYCbCr, Components: 3,
			FullChroma: true, WriteJFIF: true,
		}},
		{"fax lab", ir.ColorSpaceLab, 75, ir.EncodeParams{
			InSpace: ir.CodecYCbCr, JPEGSpace: ir.CodecYCbCr, Components: 3,
			FullChroma: true, WriteJFIF: true,
		}},
	}
	for _, c := range cases {
		got, err := Encode(c.space, 640, 480, c.quality)
		if err != nil {
			t.Errorf("[%s] Encode: %v", c.name, err)
			continue
		}
		c.want.Width, c.want.Height, c.want.Quality = 640, 480, c.quality
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("[%s] Encode mismatch (-want +got):\n%s", c.name, diff)
		}
	}
}

func TestEncodeUnsupported(t *testing.T) {
	for _, space := range []ir.ColorSpace{ir.ColorSpaceCMY, ir.ColorSpaceYUV, ir.ColorSpaceXYZ, ir.ColorSpaceUnknown} {
		if _, err := Encode(space, 1, 1, 75); !errors.Is(err, ir.ErrFormat) {
			t.Errorf("Encode(%s) error = %v, want ErrFormat", space, err)
		}
	}
}

func TestOutput(t *testing.T) {
	cases := []struct {
		space    ir.ColorSpace
		adobe    bool
		channels int
		inverted bool
	}{
		{ir.ColorSpaceGray, true, 1, false},
		{ir.ColorSpaceRGB, true, 3, false},
		{ir.ColorSpaceCMY, false, 3, false},
		{ir.ColorSpaceLab, false, 3, false},
		{ir.ColorSpaceYUV, false, 3, false},
		{ir.ColorSpaceYCbCr, false, 3, false},
		{ir.ColorSpaceCMYK, false, 4, false},
		{ir.ColorSpaceCMYK, true, 4, true},
	}
	for _, c := range cases {
		f, err := Output(c.space, c.adobe, false)
		if err != nil {
			t.Errorf("Output(%s): %v", c.space, err)
			continue
		}
		if f.Channels != c.channels || f.Inverted != c.inverted || f.Bytes != 1 || f.Space != c.space {
			t.Errorf("Output(%s, adobe=%v) = %v", c.space, c.adobe, f)
		}
	}

	if _, err := Output(ir.ColorSpaceXYZ, false, false); !errors.Is(err, ir.ErrFormat) {
		t.Errorf("Output(XYZ) error = %v, want ErrFormat", err)
	}
}

func TestOutputFlavorFollowsEncoder(t *testing.T) {
	for _, q := range []int{50, 90, 100} {
		p, err := Encode(ir.ColorSpaceCMYK, 8, 8, q)
		if err != nil {
			t.Fatal(err)
		}
		f, err := Output(ir.ColorSpaceCMYK, p.WriteAdobe, false)
		if err != nil {
			t.Fatal(err)
		}
		if f.Inverted != p.WriteAdobe {
			t.Errorf("quality %d: inverted=%v, encoder writes Adobe=%v", q, f.Inverted, p.WriteAdobe)
		}
	}
}
