package parse

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/resolvehits/arrow"
	"github.com/grailbio/resolvehits/hit"
	"github.com/grailbio/resolvehits/rhconfig"
)

// domtblout field indices (0-based) of the 1-based columns: target id
// (col 1), query id (col 4), conditional e-value (col 12), independent
// e-value (col 13), bitscore (col 14), ali-from/ali-to (cols 18/19),
// env-from/env-to (cols 20/21).
const (
	domtblTarget     = 0
	domtblQuery      = 3
	domtblCondEvalue = 11
	domtblIndpEvalue = 12
	domtblBitscore   = 13
	domtblAliFrom    = 17
	domtblAliTo      = 18
	domtblEnvFrom    = 19
	domtblEnvTo      = 20
	domtblMinFields  = 21
)

// DomTblOutOpts configures DomTblOut.
type DomTblOutOpts struct {
	// UseAliRange selects the ali-from/ali-to columns for the hit's segment
	// instead of env-from/env-to. A per-hit CATH-specific target-id
	// category classification could choose this more precisely, but that
	// classification sits outside this core's scope, so UseAliRange is a
	// single run-wide setting instead.
	UseAliRange bool
	// Warn receives the one-time "skipped for non-positive bitscore"
	// notice. A nil Warn means no warning is emitted.
	Warn *rhconfig.WarnOnce
}

// DomTblOut parses a HMMER --domtblout table. Comment lines
// (starting with '#') are skipped. Hits with non-positive bitscore are
// dropped with a one-time warning rather than failing the parse.
func DomTblOut(r io.Reader, opts DomTblOutOpts, emit Emitter) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < domtblMinFields {
			return errors.E("parse.DomTblOut: line", lineNo, ": expected at least", domtblMinFields, "fields, got", len(fields))
		}

		bitscore, err := strconv.ParseFloat(fields[domtblBitscore], 64)
		if err != nil {
			return errors.E(err, "parse.DomTblOut: line", lineNo, ": bad bitscore")
		}
		if bitscore <= 0 {
			if opts.Warn != nil {
				opts.Warn.Warn("domtblout-negative-bitscore",
					"skipping at least one hit (target %q, query %q) with bitscore %v: negative bitscores cannot currently be handled",
					fields[domtblTarget], fields[domtblQuery], bitscore)
			}
			continue
		}

		startField, stopField := domtblEnvFrom, domtblEnvTo
		if opts.UseAliRange {
			startField, stopField = domtblAliFrom, domtblAliTo
		}
		start, err := strconv.ParseUint(fields[startField], 10, 32)
		if err != nil {
			return errors.E(err, "parse.DomTblOut: line", lineNo, ": bad start residue")
		}
		stop, err := strconv.ParseUint(fields[stopField], 10, 32)
		if err != nil {
			return errors.E(err, "parse.DomTblOut: line", lineNo, ": bad stop residue")
		}
		condEvalue, err := strconv.ParseFloat(fields[domtblCondEvalue], 64)
		if err != nil {
			return errors.E(err, "parse.DomTblOut: line", lineNo, ": bad conditional e-value")
		}
		indpEvalue, err := strconv.ParseFloat(fields[domtblIndpEvalue], 64)
		if err != nil {
			return errors.E(err, "parse.DomTblOut: line", lineNo, ": bad independent e-value")
		}

		if err := emit(Record{
			QueryID: fields[domtblQuery],
			Hit: hit.RawHit{
				Label: fields[domtblTarget],
				Segments: []arrow.Seg{{
					Start: arrow.ArrowBeforeRes(uint32(start)),
					Stop:  arrow.ArrowAfterRes(uint32(stop)),
				}},
				RawScore: bitscore,
				Extras: hit.Extras{
					CondEvalue:  condEvalue,
					IndepEvalue: indpEvalue,
					HasEvalues:  true,
				},
			},
		}); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return errors.E(err, "parse.DomTblOut")
	}
	return nil
}
