package markers

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/davesmith10/jpgicc/internal/ir"
)

func TestFaxMarkerBytes(t *testing.T) {
	m := FaxMarker()
	want := []byte{0x47, 0x33, 0x46, 0x41, 0x58, 0x00, 0x07, 0xCA, 0x00, 0xC8}
	if m.Code != ir.MarkerAPP1 {
		t.Errorf("code = 0x%02X, want APP1", m.Code)
	}
	if !bytes.Equal(m.Data, want) {
		t.Errorf("payload = % X, want % X", m.Data, want)
	}
}

func TestIsFax(t *testing.T) {
	cases := []struct {
		name string
		ms   []ir.Marker
		want bool
	}{
		{"empty", nil, false},
		{"fax marker", []ir.Marker{FaxMarker()}, true},
		{"fax after exif", []ir.Marker{
			{Code: ir.MarkerAPP1, Data: []byte("Exif\x00\x00MM")},
			FaxMarker(),
		}, true},
		{"wrong segment", []ir.Marker{{Code: ir.MarkerAPP2, Data: FaxMarker().Data}}, false},
		{"too short", []ir.Marker{{Code: ir.MarkerAPP1, Data: []byte("G3FAX")}}, false},
		{"not terminated", []ir.Marker{{Code: ir.MarkerAPP1, Data: []byte("G3FAXX\x07\xCA")}}, false},
	}
	for _, c := range cases {
		if got := IsFax(c.ms); got != c.want {
			t.Errorf("[%s] IsFax = %v, want %v", c.name, got, c.want)
		}
	}
}

// resource builds one 8BIM image resource block.
func resource(id uint16, name string, data []byte) []byte {
	var b []byte
	b = append(b, "8BIM"...)
	b = binary.BigEndian.AppendUint16(b, id)
	b = append(b, byte(len(name)))
	b = append(b, name...)
	if (len(name)+1)%2 == 1 {
		b = append(b, 0)
	}
	b = binary.BigEndian.AppendUint32(b, uint32(len(data)))
	b = append(b, data...)
	if len(data)%2 == 1 {
		b = append(b, 0)
	}
	return b
}

func photoshop(blocks ...[]byte) ir.Marker {
	data := []byte("Photoshop 3.0\x00")
	for _, b := range blocks {
		data = append(data, b...)
	}
	return ir.Marker{Code: ir.MarkerAPP13, Data: data}
}

func resolutionInfo(x, y float64) []byte {
	var b []byte
	b = binary.BigEndian.AppendUint32(b, uint32(x*65536))
	b = binary.BigEndian.AppendUint16(b, 1) // pixels per inch
	b = binary.BigEndian.AppendUint16(b, 1)
	b = binary.BigEndian.AppendUint32(b, uint32(y*65536))
	b = binary.BigEndian.AppendUint16(b, 1)
	b = binary.BigEndian.AppendUint16(b, 1)
	return b
}

func TestResolution(t *testing.T) {
	ms := []ir.Marker{photoshop(resource(0x03ED, "", resolutionInfo(300, 300)))}

	res, ok := Resolution(ms)
	if !ok {
		t.Fatal("resolution not found")
	}
	want := ir.Resolution{Unit: ir.DensityInch, X: 300, Y: 300}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("Resolution mismatch (-want +got):\n%s", diff)
	}
}

func TestResolutionSkipsOtherBlocks(t *testing.T) {
	ms := []ir.Marker{
		{Code: ir.MarkerAPP0, Data: []byte("JFIF\x00\x01\x02")},
		photoshop(
			resource(0x0404, "iptc", []byte{1, 2, 3}), // odd length, padded
			resource(0x0425, "x", bytes.Repeat([]byte{9}, 16)),
			resource(0x03ED, "", resolutionInfo(72.5, 144)),
		),
	}

	res, ok := Resolution(ms)
	if !ok {
		t.Fatal("resolution not found")
	}
	if res.X != 72 || res.Y != 144 || res.Unit != ir.DensityInch {
		t.Errorf("got %+v, want 72x144 dpi", res)
	}
}

func TestResolutionCorruptBlocks(t *testing.T) {
	valid := resource(0x03ED, "", resolutionInfo(300, 300))

	hugeLength := append(append([]byte{}, valid[:8]...), 0xFF, 0xFF, 0xFF, 0xF0)
	badSignature := append([]byte("8BIX"), valid[4:]...)

	cases := map[string]ir.Marker{
		"truncated data": photoshop(valid[:len(valid)-4]),
		"huge length":    photoshop(hugeLength),
		"short block":    photoshop(resource(0x03ED, "", resolutionInfo(300, 300)[:12])),
		"truncated name": photoshop([]byte("8BIM\x03\xED\x20ab")),
		"bad signature":  photoshop(badSignature),
		"header only":    photoshop(),
		"wrong segment":  {Code: ir.MarkerAPP0 + 12, Data: photoshop(valid).Data},
	}
	for name, m := range cases {
		if res, ok := Resolution([]ir.Marker{m}); ok {
			t.Errorf("[%s] expected no resolution, got %+v", name, res)
		}
	}
}

func TestResolutionFirstMatchingSegment(t *testing.T) {
	ms := []ir.Marker{
		photoshop(resource(0x0404, "", []byte{0, 0})),
		photoshop(resource(0x03ED, "", resolutionInfo(600, 600))),
		photoshop(resource(0x03ED, "", resolutionInfo(100, 100))),
	}
	res, ok := Resolution(ms)
	if !ok || res.X != 600 {
		t.Errorf("got %+v ok=%v, want 600 dpi from the second segment", res, ok)
	}
}

func TestCopyPlanDedup(t *testing.T) {
	jfif := ir.Marker{Code: ir.MarkerAPP0, Data: []byte("JFIF\x00\x01\x01\x00\x00\x48\x00\x48\x00\x00")}
	adobe := ir.Marker{Code: ir.MarkerAPP14, Data: []byte("Adobe\x00\x64\x00\x00\x00\x00\x02")}
	exif := ir.Marker{Code: ir.MarkerAPP1, Data: []byte("Exif\x00\x00II*\x00")}
	com := ir.Marker{Code: ir.MarkerCOM, Data: []byte("hello")}
	src := []ir.Marker{jfif, exif, adobe, com}

	got := CopyPlan(src, Emits{JFIF: true, Adobe: true})
	if diff := cmp.Diff([]ir.Marker{exif, com}, got); diff != "" {
		t.Errorf("CopyPlan mismatch (-want +got):\n%s", diff)
	}

	got = CopyPlan(src, Emits{})
	if diff := cmp.Diff(src, got); diff != "" {
		t.Errorf("CopyPlan without emits mismatch (-want +got):\n%s", diff)
	}

	got = CopyPlan(src, Emits{JFIF: true})
	if diff := cmp.Diff([]ir.Marker{exif, adobe, com}, got); diff != "" {
		t.Errorf("CopyPlan JFIF only mismatch (-want +got):\n%s", diff)
	}
}

func TestCopyPlanSingleJFIF(t *testing.T) {
	src := []ir.Marker{{Code: ir.MarkerAPP0, Data: []byte("JFIF\x00\x01\x02\x01\x01\x2c\x01\x2c\x00\x00")}}
	// The encoder writes its own JFIF header first.
	out := append([]ir.Marker{{Code: ir.MarkerAPP0, Data: []byte("JFIF\x00\x01\x01")}}, CopyPlan(src, Emits{JFIF: true})...)

	n := 0
	for _, m := range out {
		if IsJFIF(m) {
			n++
		}
	}
	if n != 1 {
		t.Errorf("found %d JFIF segments, want 1", n)
	}
}

func TestCopyPlanKeepsLookalikes(t *testing.T) {
	// JFXX extension and APP14 segments that are not Adobe must survive.
	src := []ir.Marker{
		{Code: ir.MarkerAPP0, Data: []byte("JFXX\x00\x10")},
		{Code: ir.MarkerAPP14, Data: []byte("Adob")},
		{Code: ir.MarkerAPP1, Data: []byte("JFIF\x00")},
	}
	got := CopyPlan(src, Emits{JFIF: true, Adobe: true})
	if len(got) != len(src) {
		t.Errorf("kept %d segments, want %d", len(got), len(src))
	}
}

func TestICCRoundTrip(t *testing.T) {
	profile := make([]byte, 150000)
	for i := range profile {
		profile[i] = byte(i * 7)
	}
	chunks, err := ChunkICC(profile)
	if err != nil {
		t.Fatalf("ChunkICC: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	// Reverse the order and interleave another segment.
	ms := []ir.Marker{chunks[2], {Code: ir.MarkerAPP1, Data: []byte("Exif")}, chunks[0], chunks[1]}
	got, err := ExtractICC(ms)
	if err != nil {
		t.Fatalf("ExtractICC: %v", err)
	}
	if !bytes.Equal(got, profile) {
		t.Error("reassembled profile differs from original")
	}
}

func TestICCSingleChunk(t *testing.T) {
	chunks, err := ChunkICC(bytes.Repeat([]byte{1}, 3144))
	if err != nil {
		t.Fatalf("ChunkICC: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	c := chunks[0]
	if c.Code != ir.MarkerAPP2 || c.Len() != 3144+14 || c.Data[12] != 1 || c.Data[13] != 1 {
		t.Errorf("unexpected chunk header: code=0x%02X len=%d seq=%d/%d", c.Code, c.Len(), c.Data[12], c.Data[13])
	}
}

func TestExtractICCErrors(t *testing.T) {
	if got, err := ExtractICC(nil); got != nil || err != nil {
		t.Errorf("no markers: got %v, %v", got, err)
	}

	chunks, _ := ChunkICC(make([]byte, 140000))
	if _, err := ExtractICC(chunks[:2]); err == nil {
		t.Error("expected error for missing chunk")
	}
	if _, err := ExtractICC([]ir.Marker{chunks[0], chunks[0], chunks[1]}); err == nil {
		t.Error("expected error for duplicate chunk")
	}
	if _, err := ChunkICC(nil); err == nil {
		t.Error("expected error for empty profile")
	}
}
