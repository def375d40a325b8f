package parse

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/resolvehits/arrow"
	"github.com/grailbio/resolvehits/hit"
	"github.com/grailbio/resolvehits/rhconfig"
)

// summaryLineRE matches an hmmsearch per-domain summary row, e.g.
// "   1 !   45.2   0.1  1.2e-10  3.4e-09 ...". This is stdlib regexp, not a
// third-party parsing library, because the grammar is a fixed HMMER
// output format with no example repo in the pack pulling in a parser
// combinator library for anything like it.
var summaryLineRE = regexp.MustCompile(`^\s*\d+\s+[!?]`)

// Field offsets (0-based, after strings.Fields) within an hmmsearch
// summary row.
const (
	summaryBitscoreOff = 2
	summaryCondEOff    = 4
	summaryIndpEOff    = 5
	summaryAliFromOff  = 9
	summaryAliToOff    = 10
	summaryEnvFromOff  = 12
	summaryEnvToOff    = 13
)

// HmmsearchOpts configures HmmsearchPlain.
type HmmsearchOpts struct {
	// UseAliRange selects each hit's ali-from/ali-to columns instead of
	// env-from/env-to, mirroring DomTblOutOpts.UseAliRange.
	UseAliRange bool
	// Warn receives the one-time "skipped for non-positive bitscore"
	// notice. A nil Warn means no warning is emitted.
	Warn *rhconfig.WarnOnce
	// MinGapLength is the CLI-exposed threshold that would select which
	// runs of alignment dashes become interior segment boundaries.
	// Accepted here for CLI-surface completeness but currently unused:
	// see the gap-splitting note on HmmsearchPlain below.
	MinGapLength uint32
}

type hmmsearchSummary struct {
	bitscore               float64
	condEvalue, indpEvalue float64
	aliFrom, aliTo         uint32
	envFrom, envTo         uint32
}

// HmmsearchPlain parses HMMER plain hmmsearch output: blocks
// beginning ">> <query_id>", a per-hit summary table, and alignment
// sections beginning "  == domain ...". Each summary row's ali/env range
// (selected by opts.UseAliRange) becomes that hit's segment.
//
// The alignment body between "== domain" markers isn't replayed into
// interior segment boundaries: the upstream gap-splitting algorithm (which
// converts runs of alignment dashes at least min-gap-length long into
// separate segments) lives in a header that wasn't present in the
// retrieved source, so every hit here is emitted as a single contiguous
// segment spanning its reported ali/env range. See DESIGN.md.
func HmmsearchPlain(r io.Reader, opts HmmsearchOpts, emit Emitter) error {
	lines, err := readAllLines(r)
	if err != nil {
		return errors.E(err, "parse.HmmsearchPlain")
	}

	i := 0
	for i < len(lines) {
		line := lines[i]
		if !strings.HasPrefix(line, ">> ") {
			i++
			continue
		}
		fields := strings.Fields(line[3:])
		if len(fields) == 0 {
			return errors.E("parse.HmmsearchPlain: malformed block header at line", i+1)
		}
		queryID := fields[0]
		i++

		for i < len(lines) && !strings.Contains(lines[i], "c-Evalue") {
			if strings.HasPrefix(lines[i], ">> ") || strings.HasPrefix(lines[i], "Internal pipeline statistics") {
				break
			}
			i++
		}
		if i >= len(lines) || !strings.Contains(lines[i], "c-Evalue") {
			continue // no hits reported for this query
		}
		i++ // header line
		if i < len(lines) {
			i++ // "---- ----- ..." separator line
		}

		var summaries []hmmsearchSummary
		for i < len(lines) && summaryLineRE.MatchString(lines[i]) {
			s, err := parseHmmsearchSummaryLine(lines[i])
			if err != nil {
				return errors.E(err, "parse.HmmsearchPlain: line", i+1)
			}
			summaries = append(summaries, s)
			i++
		}

		summaryIdx := 0
		for i < len(lines) && !strings.HasPrefix(lines[i], ">> ") && !strings.HasPrefix(lines[i], "Internal pipeline statistics") {
			if !strings.HasPrefix(lines[i], "  == domain") {
				i++
				continue
			}
			if summaryIdx >= len(summaries) {
				return errors.E("parse.HmmsearchPlain: more alignments than summary rows near line", i+1)
			}
			s := summaries[summaryIdx]
			summaryIdx++

			label := queryID
			if i+1 < len(lines) {
				if fs := strings.Fields(lines[i+1]); len(fs) > 0 {
					label = fs[0]
				}
			}

			if s.bitscore <= 0 {
				if opts.Warn != nil {
					opts.Warn.Warn("hmmsearch-negative-bitscore",
						"skipping at least one hit (query %q, label %q) with bitscore %v: negative bitscores cannot currently be handled",
						queryID, label, s.bitscore)
				}
				i++
				continue
			}

			start, stop := s.envFrom, s.envTo
			if opts.UseAliRange {
				start, stop = s.aliFrom, s.aliTo
			}
			if err := emit(Record{
				QueryID: queryID,
				Hit: hit.RawHit{
					Label: label,
					Segments: []arrow.Seg{{
						Start: arrow.ArrowBeforeRes(start),
						Stop:  arrow.ArrowAfterRes(stop),
					}},
					RawScore: s.bitscore,
					Extras: hit.Extras{
						CondEvalue:  s.condEvalue,
						IndepEvalue: s.indpEvalue,
						HasEvalues:  true,
					},
				},
			}); err != nil {
				return err
			}
			i++
		}
	}
	return nil
}

func parseHmmsearchSummaryLine(line string) (hmmsearchSummary, error) {
	fields := strings.Fields(line)
	need := summaryEnvToOff + 1
	if len(fields) < need {
		return hmmsearchSummary{}, errors.E("malformed summary line: expected at least", need, "fields, got", len(fields))
	}
	bitscore, err := strconv.ParseFloat(fields[summaryBitscoreOff], 64)
	if err != nil {
		return hmmsearchSummary{}, errors.E(err, "bad bitscore")
	}
	condE, err := strconv.ParseFloat(fields[summaryCondEOff], 64)
	if err != nil {
		return hmmsearchSummary{}, errors.E(err, "bad conditional e-value")
	}
	indpE, err := strconv.ParseFloat(fields[summaryIndpEOff], 64)
	if err != nil {
		return hmmsearchSummary{}, errors.E(err, "bad independent e-value")
	}
	aliFrom, err := strconv.ParseUint(fields[summaryAliFromOff], 10, 32)
	if err != nil {
		return hmmsearchSummary{}, errors.E(err, "bad ali-from")
	}
	aliTo, err := strconv.ParseUint(fields[summaryAliToOff], 10, 32)
	if err != nil {
		return hmmsearchSummary{}, errors.E(err, "bad ali-to")
	}
	envFrom, err := strconv.ParseUint(fields[summaryEnvFromOff], 10, 32)
	if err != nil {
		return hmmsearchSummary{}, errors.E(err, "bad env-from")
	}
	envTo, err := strconv.ParseUint(fields[summaryEnvToOff], 10, 32)
	if err != nil {
		return hmmsearchSummary{}, errors.E(err, "bad env-to")
	}
	return hmmsearchSummary{
		bitscore:   bitscore,
		condEvalue: condE,
		indpEvalue: indpE,
		aliFrom:    uint32(aliFrom),
		aliTo:      uint32(aliTo),
		envFrom:    uint32(envFrom),
		envTo:      uint32(envTo),
	}, nil
}

func readAllLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
