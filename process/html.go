package process

import (
	"html/template"
	"io"
	"sort"
	"sync"

	"github.com/grailbio/resolvehits/hit"
	"github.com/grailbio/resolvehits/resolve"
	"github.com/grailbio/resolvehits/rhconfig"
)

// htmlRow is one surviving hit rendered as a table row.
type htmlRow struct {
	QueryID  string
	Label    string
	Score    float64
	Segments string
}

var htmlPageTemplate = template.Must(template.New("resolvehits").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>resolvehits</title></head>
<body>
<table border="1">
<tr><th>query-id</th><th>label</th><th>score</th><th>segments</th></tr>
{{range .}}<tr><td>{{.QueryID}}</td><td>{{.Label}}</td><td>{{.Score}}</td><td>{{.Segments}}</td></tr>
{{end}}</table>
</body>
</html>
`))

// HTML renders every query's resolved architecture as a single HTML table,
// written on FinishWork. html/template (rather than a third-party
// templating engine, which no example repo in the pack pulls in) is used
// for its automatic escaping of label and query-ID strings, which
// originate from attacker-controllable HMMER output.
type HTML struct {
	w io.Writer

	mu   sync.Mutex
	rows []htmlRow
}

// NewHTML returns an HTML processor writing the final table to w.
func NewHTML(w io.Writer) *HTML {
	return &HTML{w: w}
}

// ProcessHitsForQuery implements Processor.
func (h *HTML) ProcessHitsForQuery(queryID string, filterSpec rhconfig.FilterSpec, hitList *hit.HitList, arch resolve.ScoredArchitecture) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, hh := range arch.Hits {
		h.rows = append(h.rows, htmlRow{
			QueryID:  queryID,
			Label:    arch.Labels[i],
			Score:    hh.Score,
			Segments: formatSegments(hh.Segments),
		})
	}
	return nil
}

// FinishWork implements Processor, rendering the accumulated rows.
func (h *HTML) FinishWork() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	sort.SliceStable(h.rows, func(i, j int) bool { return h.rows[i].QueryID < h.rows[j].QueryID })
	return htmlPageTemplate.Execute(h.w, h.rows)
}
