package process

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grailbio/resolvehits/arrow"
	"github.com/grailbio/resolvehits/hit"
	"github.com/grailbio/resolvehits/resolve"
	"github.com/grailbio/resolvehits/rhconfig"
	"github.com/grailbio/testutil/expect"
)

func sampleArch() resolve.ScoredArchitecture {
	return resolve.ScoredArchitecture{
		Score: 15,
		Hits: []hit.Hit{
			{Segments: []arrow.Seg{{Start: 0, Stop: 10}}, Score: 10},
			{Segments: []arrow.Seg{{Start: 19, Stop: 30}}, Score: 5},
		},
		Labels: []string{"a", "b"},
	}
}

func TestPlainTextRendersRows(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlainText(&buf)
	err := p.ProcessHitsForQuery("q", rhconfig.DefaultFilterSpec, nil, sampleArch())
	expect.NoError(t, err)
	expect.NoError(t, p.FinishWork())
	out := buf.String()
	expect.True(t, strings.Contains(out, "query-id"))
	expect.True(t, strings.Contains(out, "a"))
	expect.True(t, strings.Contains(out, "1-10"))
	expect.True(t, strings.Contains(out, "20-30"))
}
