package process

import (
	"strconv"
	"strings"

	"github.com/grailbio/resolvehits/arrow"
)

// segSpec is one segment rendered as 1-based inclusive residue bounds,
// inverting arrow.ArrowBeforeRes/arrow.ArrowAfterRes.
type segSpec struct {
	Start, Stop uint32
}

func toSegSpecs(segs []arrow.Seg) []segSpec {
	out := make([]segSpec, len(segs))
	for i, s := range segs {
		out[i] = segSpec{Start: uint32(s.Start.Index() + 1), Stop: uint32(s.Stop.Index())}
	}
	return out
}

// formatSegments renders segments as "start1-stop1,start2-stop2" (the same
// textual form parse.Raw accepts).
func formatSegments(segs []arrow.Seg) string {
	specs := toSegSpecs(segs)
	parts := make([]string, len(specs))
	for i, s := range specs {
		parts[i] = strconv.FormatUint(uint64(s.Start), 10) + "-" + strconv.FormatUint(uint64(s.Stop), 10)
	}
	return strings.Join(parts, ",")
}
