package process

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/grailbio/resolvehits/rhconfig"
	"github.com/grailbio/testutil/expect"
)

func TestJSONRendersSortedByQueryID(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSON(&buf)
	expect.NoError(t, j.ProcessHitsForQuery("q2", rhconfig.DefaultFilterSpec, nil, sampleArch()))
	expect.NoError(t, j.ProcessHitsForQuery("q1", rhconfig.DefaultFilterSpec, nil, sampleArch()))
	expect.NoError(t, j.FinishWork())

	var queries []jsonQuery
	expect.NoError(t, json.Unmarshal(buf.Bytes(), &queries))
	expect.EQ(t, len(queries), 2)
	expect.EQ(t, queries[0].QueryID, "q1")
	expect.EQ(t, queries[1].QueryID, "q2")
	expect.EQ(t, len(queries[0].Hits), 2)
	expect.EQ(t, queries[0].Hits[0].Label, "a")
}
