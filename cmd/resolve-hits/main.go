// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

/*
resolve-hits reads a query's candidate hits from one of several external
formats, resolves each query's maximum-scoring non-overlapping architecture,
and renders the result through one or more output processors.
*/

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"regexp"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/resolvehits/parse"
	"github.com/grailbio/resolvehits/process"
	"github.com/grailbio/resolvehits/readproc"
	"github.com/grailbio/resolvehits/rhconfig"
)

// outputSpec is one "-output format=destination" flag occurrence.
type outputSpec struct {
	format, dest string
}

// outputSpecList collects repeated -output flags.
type outputSpecList []outputSpec

func (l *outputSpecList) String() string {
	parts := make([]string, len(*l))
	for i, o := range *l {
		parts[i] = o.format + "=" + o.dest
	}
	return strings.Join(parts, ",")
}

func (l *outputSpecList) Set(s string) error {
	eq := strings.IndexByte(s, '=')
	if eq < 0 {
		return errors.E("resolve-hits: -output must be of the form format=destination, got", s)
	}
	*l = append(*l, outputSpec{format: s[:eq], dest: s[eq+1:]})
	return nil
}

var (
	inputPath    = flag.String("input", "-", "Input file path, or \"-\" for stdin")
	inputFormat  = flag.String("input-format", "raw-with-scores", "Input format: raw-with-scores, raw-with-evalues, hmmer-domtblout, or hmmsearch-out")
	grouped      = flag.Bool("grouped", false, "Input hits for the same query id are contiguous; enables streaming async dispatch")
	minSegLength = flag.Uint("min-seg-length", 1, "Segments shorter than this (in residues) are dropped")
	overlapTrim  = flag.Float64("overlap-trim-fraction", 0, "Fraction trimmed off each segment end solely for DP overlap checks")
	minGapLength = flag.Uint("min-gap-length", 0, "Minimum alignment-dash run length for an interior segment gap (hmmsearch-out only); accepted but has no effect: every hmmsearch-out hit is parsed as one contiguous segment")
	useAliRange  = flag.Bool("use-ali-range", false, "Use the ali-from/ali-to columns instead of env-from/env-to (hmmer-domtblout, hmmsearch-out)")

	scoreKind   = flag.String("score-kind", "identity", "Score transform: identity, neg-log10-evalue, linear, or bitscore-divisor")
	scoreScale  = flag.Float64("score-scale", 1, "Scale for -score-kind=linear")
	scoreOffset = flag.Float64("score-offset", 0, "Offset for -score-kind=linear")
	bitscoreDiv = flag.Float64("bitscore-divisor", 1, "Base divisor for -score-kind=bitscore-divisor")

	minScore       = flag.Float64("min-score", 0, "Drop hits whose raw score is below this")
	hasMinScore    = flag.Bool("has-min-score", false, "Enable the -min-score filter")
	keepFailing    = flag.Bool("keep-failing-hits", false, "Pass hits failing -min-score through to processors instead of dropping them")
	queryIDs       = flag.String("query-ids", "", "Comma-separated allowlist of query ids to process; empty means all")
	queryIDPattern = flag.String("query-id-pattern", "", "Regexp query ids must match to be processed")
	maxQueries     = flag.Int("max-queries", 0, "Cap on the number of distinct queries processed; 0 means unlimited")
	keepDominated  = flag.Bool("keep-dominated-duplicates", false, "Disable pruning of strictly-dominated duplicate hits")

	naiveGreedy = flag.Bool("naive-greedy", false, "Use the naive greedy resolver instead of the optimal dynamic program")

	outputs outputSpecList
)

func init() {
	flag.Var(&outputs, "output", "format=destination output spec (format: plaintext, json, html; destination: path or \"-\" for stdout); may be repeated")
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Resolves the maximum-scoring non-overlapping architecture per query.\n\n")
	flag.PrintDefaults()
}

func openInput(ctx context.Context, path string) (io.ReadCloser, error) {
	if path == "-" {
		return ioutil.NopCloser(os.Stdin), nil
	}
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "resolve-hits: opening input", path)
	}
	return struct {
		io.Reader
		io.Closer
	}{f.Reader(ctx), closerFunc(func() error { return f.Close(ctx) })}, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func openOutput(ctx context.Context, dest string) (io.Writer, func() error, error) {
	if dest == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := file.Create(ctx, dest)
	if err != nil {
		return nil, nil, errors.E(err, "resolve-hits: creating output", dest)
	}
	return f.Writer(ctx), func() error { return f.Close(ctx) }, nil
}

func buildScoreSpec() rhconfig.ScoreSpec {
	spec := rhconfig.DefaultScoreSpec
	switch *scoreKind {
	case "identity":
		spec.Kind = rhconfig.ScoreIdentity
	case "neg-log10-evalue":
		spec.Kind = rhconfig.ScoreNegLog10Evalue
	case "linear":
		spec.Kind = rhconfig.ScoreLinear
		spec.Scale = *scoreScale
		spec.Offset = *scoreOffset
	case "bitscore-divisor":
		spec.Kind = rhconfig.ScoreBitscoreDivisor
		spec.BaseBitscoreDivisor = *bitscoreDiv
	default:
		log.Fatalf("resolve-hits: unknown -score-kind %q", *scoreKind)
	}
	return spec
}

func buildFilterSpec() rhconfig.FilterSpec {
	spec := rhconfig.FilterSpec{
		MinScore:                *minScore,
		HasMinScore:             *hasMinScore,
		MaxQueries:              *maxQueries,
		KeepDominatedDuplicates: *keepDominated,
		KeepFailingHits:         *keepFailing,
	}
	if *queryIDs != "" {
		spec.QueryIDAllowlist = make(map[string]bool)
		for _, id := range strings.Split(*queryIDs, ",") {
			spec.QueryIDAllowlist[id] = true
		}
	}
	if *queryIDPattern != "" {
		re, err := regexp.Compile(*queryIDPattern)
		if err != nil {
			log.Fatalf("resolve-hits: bad -query-id-pattern: %v", err)
		}
		spec.QueryIDPattern = re
	}
	return spec
}

func buildProcessors(ctx context.Context) ([]process.Processor, []func() error) {
	if len(outputs) == 0 {
		outputs = outputSpecList{{format: "plaintext", dest: "-"}}
	}
	var procs []process.Processor
	var closers []func() error
	for _, o := range outputs {
		w, closeFn, err := openOutput(ctx, o.dest)
		if err != nil {
			log.Fatalf("%v", err)
		}
		closers = append(closers, closeFn)
		switch o.format {
		case "plaintext":
			procs = append(procs, process.NewPlainText(w))
		case "json":
			procs = append(procs, process.NewJSON(w))
		case "html":
			procs = append(procs, process.NewHTML(w))
		default:
			log.Fatalf("resolve-hits: unknown -output format %q", o.format)
		}
	}
	return procs, closers
}

func runParser(in io.Reader, warn *rhconfig.WarnOnce, mgr *readproc.Manager) error {
	emit := func(rec parse.Record) error {
		mgr.AddHit(rec.QueryID, rec.Hit)
		return nil
	}
	switch *inputFormat {
	case "raw-with-scores", "raw-with-evalues":
		return parse.Raw(in, emit)
	case "hmmer-domtblout":
		return parse.DomTblOut(in, parse.DomTblOutOpts{UseAliRange: *useAliRange, Warn: warn}, emit)
	case "hmmsearch-out":
		return parse.HmmsearchPlain(in, parse.HmmsearchOpts{
			UseAliRange:  *useAliRange,
			Warn:         warn,
			MinGapLength: uint32(*minGapLength),
		}, emit)
	default:
		return errors.E("resolve-hits: unknown -input-format", *inputFormat)
	}
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()
	ctx := vcontext.Background()

	scoreSpec := buildScoreSpec()
	segSpec := rhconfig.SegSpec{MinSegLength: uint32(*minSegLength), OverlapTrimFraction: *overlapTrim}
	filterSpec := buildFilterSpec()
	procs, closers := buildProcessors(ctx)

	in, err := openInput(ctx, *inputPath)
	if err != nil {
		log.Error.Printf("%v", err)
		os.Exit(1)
	}

	mgr := readproc.NewManager(procs, filterSpec, scoreSpec, segSpec, *grouped, *naiveGreedy)
	warn := rhconfig.NewWarnOnce()

	parseErr := runParser(in, warn, mgr)
	closeErr := in.Close()
	if parseErr != nil {
		log.Error.Printf("resolve-hits: parse failure: %v", parseErr)
		os.Exit(1)
	}
	if closeErr != nil {
		log.Error.Printf("resolve-hits: closing input: %v", closeErr)
		os.Exit(1)
	}

	if err := mgr.ProcessAllOutstanding(); err != nil {
		log.Error.Printf("resolve-hits: %v", err)
		os.Exit(1)
	}
	for _, c := range closers {
		if err := c(); err != nil {
			log.Error.Printf("resolve-hits: closing output: %v", err)
			os.Exit(1)
		}
	}
}
