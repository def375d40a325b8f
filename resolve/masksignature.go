package resolve

import (
	"encoding/binary"

	"github.com/grailbio/resolvehits/arrow"
	"github.com/grailbio/resolvehits/hit"
)

// MaskSignature is the ordered list of segments formed by merging the
// segments of every hit in a mask set, in arrow order. It is used, together
// with an Arrow, as the memoisation key for MaskedBestsCache.
//
// Per the Design Notes, the mask's identity is this segment list itself
// (structural equality), never a string: the byte-key derived by key() is
// purely a map-lookup optimisation, not a semantic representation.
type MaskSignature struct {
	Segs []arrow.Seg
}

// NewMaskSignature builds a MaskSignature from a mask's hits, inserting
// each hit's segments in arrow order.
func NewMaskSignature(mask []hit.Hit) MaskSignature {
	var segs []arrow.Seg
	for _, h := range mask {
		segs = append(segs, h.Segments...)
	}
	// Sort by start arrow; mask hits are pairwise non-overlapping by
	// construction, so this also yields an unambiguous strictly-increasing
	// order.
	for i := 1; i < len(segs); i++ {
		for j := i; j > 0 && segs[j-1].Start > segs[j].Start; j-- {
			segs[j-1], segs[j] = segs[j], segs[j-1]
		}
	}
	return MaskSignature{Segs: segs}
}

// key returns a fixed-width byte encoding of the signature suitable for use
// as a Go map key.
func (m MaskSignature) key() string {
	buf := make([]byte, 8*len(m.Segs))
	for i, s := range m.Segs {
		binary.BigEndian.PutUint32(buf[i*8:], uint32(s.Start))
		binary.BigEndian.PutUint32(buf[i*8+4:], uint32(s.Stop))
	}
	return string(buf)
}

// Equal reports whether two signatures have the same ordered segment list.
func (m MaskSignature) Equal(o MaskSignature) bool {
	if len(m.Segs) != len(o.Segs) {
		return false
	}
	for i := range m.Segs {
		if m.Segs[i] != o.Segs[i] {
			return false
		}
	}
	return true
}
