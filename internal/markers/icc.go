package markers

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/davesmith10/jpgicc/internal/ir"
)

const (
	iccMarkerTag     = "ICC_PROFILE\x00"
	iccHeaderLen     = 14    // tag + sequence number + chunk count
	maxChunkDataSize = 65519 // max APP2 payload minus 2-byte length = 65535 - 2 - 14 (tag + seq + count)
)

// IsICC reports whether m is one chunk of an embedded ICC profile.
func IsICC(m ir.Marker) bool {
	return m.Code == ir.MarkerAPP2 && len(m.Data) >= iccHeaderLen && string(m.Data[:12]) == iccMarkerTag
}

// ExtractICC reassembles an ICC profile from APP2 marker segments.
// It returns nil, nil when the image carries no profile.
func ExtractICC(ms []ir.Marker) ([]byte, error) {
	type chunk struct {
		seq  int
		data []byte
	}
	var chunks []chunk
	expectedCount := 0

	for _, m := range ms {
		if !IsICC(m) {
			continue
		}
		seq := int(m.Data[12])
		count := int(m.Data[13])
		if seq == 0 || seq > count {
			return nil, fmt.Errorf("invalid ICC chunk sequence %d/%d", seq, count)
		}
		if expectedCount == 0 {
			expectedCount = count
		} else if count != expectedCount {
			return nil, fmt.Errorf("inconsistent ICC chunk count: %d vs %d", count, expectedCount)
		}
		chunks = append(chunks, chunk{seq: seq, data: m.Data[iccHeaderLen:]})
	}

	if len(chunks) == 0 {
		return nil, nil
	}
	if len(chunks) != expectedCount {
		return nil, fmt.Errorf("expected %d ICC chunks, found %d", expectedCount, len(chunks))
	}

	sort.Slice(chunks, func(i, j int) bool { return chunks[i].seq < chunks[j].seq })
	for i, c := range chunks {
		if c.seq != i+1 {
			return nil, fmt.Errorf("duplicate ICC chunk %d", c.seq)
		}
	}

	var buf bytes.Buffer
	for _, c := range chunks {
		buf.Write(c.data)
	}
	return buf.Bytes(), nil
}

// ChunkICC splits an ICC profile into APP2 segments. Profiles up to
// 65519 bytes fit in a single segment.
func ChunkICC(profile []byte) ([]ir.Marker, error) {
	if len(profile) == 0 {
		return nil, errors.New("empty ICC profile")
	}

	numChunks := (len(profile) + maxChunkDataSize - 1) / maxChunkDataSize
	if numChunks > 255 {
		return nil, fmt.Errorf("ICC profile too large: needs %d chunks (max 255)", numChunks)
	}

	chunks := make([]ir.Marker, 0, numChunks)
	for i := 0; i < numChunks; i++ {
		start := i * maxChunkDataSize
		end := min(start+maxChunkDataSize, len(profile))

		data := make([]byte, 0, iccHeaderLen+end-start)
		data = append(data, iccMarkerTag...)
		data = append(data, byte(i+1), byte(numChunks))
		data = append(data, profile[start:end]...)
		chunks = append(chunks, ir.Marker{Code: ir.MarkerAPP2, Data: data})
	}
	return chunks, nil
}
