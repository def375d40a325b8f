package parse

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/resolvehits/arrow"
	"github.com/grailbio/resolvehits/hit"
)

// Raw parses the raw whitespace-delimited format:
//
//	<query_id> <label> <score> <start1>-<stop1>[,<startN>-<stopN>]*
//
// Blank and whitespace-only lines are skipped. Bounds are 1-based inclusive
// residue indices, converted to half-open arrows.
func Raw(r io.Reader, emit Emitter) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return errors.E("parse.Raw: line", lineNo, ": expected 4 fields, got", len(fields))
		}
		queryID, label := fields[0], fields[1]
		score, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return errors.E(err, "parse.Raw: line", lineNo, ": bad score")
		}
		segs, err := parseSegList(fields[3])
		if err != nil {
			return errors.E(err, "parse.Raw: line", lineNo)
		}
		if err := emit(Record{
			QueryID: queryID,
			Hit: hit.RawHit{
				Label:    label,
				Segments: segs,
				RawScore: score,
			},
		}); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return errors.E(err, "parse.Raw")
	}
	return nil
}

// parseSegList parses "start1-stop1[,startN-stopN]*" into arrow.Segs,
// converting 1-based inclusive residue bounds to half-open arrows.
func parseSegList(s string) ([]arrow.Seg, error) {
	parts := strings.Split(s, ",")
	segs := make([]arrow.Seg, 0, len(parts))
	for _, p := range parts {
		dash := strings.IndexByte(p, '-')
		if dash < 0 {
			return nil, errors.E("bad segment", p)
		}
		start, err := strconv.ParseUint(p[:dash], 10, 32)
		if err != nil {
			return nil, errors.E(err, "bad segment start", p)
		}
		stop, err := strconv.ParseUint(p[dash+1:], 10, 32)
		if err != nil {
			return nil, errors.E(err, "bad segment stop", p)
		}
		segs = append(segs, arrow.Seg{
			Start: arrow.ArrowBeforeRes(uint32(start)),
			Stop:  arrow.ArrowAfterRes(uint32(stop)),
		})
	}
	return segs, nil
}
