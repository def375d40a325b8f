// Package readproc implements the streaming read-and-process manager: it
// accumulates hits per query as a parser feeds them in, and, once a query
// is complete, resolves and renders it through every configured processor.
package readproc

import (
	"sort"
	"sync"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/resolvehits/hit"
	"github.com/grailbio/resolvehits/process"
	"github.com/grailbio/resolvehits/resolve"
	"github.com/grailbio/resolvehits/rhconfig"
)

// Manager accumulates hits per query id and, once each query's input is
// complete, resolves it and hands the result to every Processor.
//
// A Manager is not safe for concurrent AddHit calls from multiple
// goroutines; it expects to be fed by a single parser loop. Across queries,
// its own internal concurrency is limited to a single background worker;
// within one query, the processors run concurrently (see processQuery).
type Manager struct {
	processors     []process.Processor
	filterSpec     rhconfig.FilterSpec
	scoreSpec      rhconfig.ScoreSpec
	segSpec        rhconfig.SegSpec
	groupedInput   bool
	useNaiveGreedy bool

	builders    map[string][]hit.RawHit
	handedOff   map[string]bool
	lastQueryID string
	haveLast    bool
	seenQueries int

	worker workerSlot

	errMu sync.Mutex
	err   error
}

// NewManager returns a Manager dispatching resolved queries to processors.
// groupedInput enables the async single-query lookahead offload;
// useNaiveGreedy selects NaiveGreedyResolve over the optimal Resolver for
// every query.
func NewManager(processors []process.Processor, filterSpec rhconfig.FilterSpec, scoreSpec rhconfig.ScoreSpec, segSpec rhconfig.SegSpec, groupedInput, useNaiveGreedy bool) *Manager {
	return &Manager{
		processors:     processors,
		filterSpec:     filterSpec,
		scoreSpec:      scoreSpec,
		segSpec:        segSpec,
		groupedInput:   groupedInput,
		useNaiveGreedy: useNaiveGreedy,
		builders:       make(map[string][]hit.RawHit),
		handedOff:      make(map[string]bool),
	}
}

// AddHit inserts one parsed hit for queryID.
//
// Dropped silently if: the raw score fails filterSpec and
// filterSpec.KeepFailingHits is false, or queryID is rejected by
// filterSpec's allowlist/pattern/max-queries rules.
//
// Fatal (panics) if queryID was already handed off to async processing —
// this indicates the caller violated the grouped-input promise that a
// query id, once closed, never reappears.
func (m *Manager) AddHit(queryID string, raw hit.RawHit) {
	if m.handedOff[queryID] {
		panic("readproc: AddHit for query " + queryID + " after it was handed off to async processing")
	}
	if !m.filterSpec.PassesScore(raw.RawScore) && !m.filterSpec.KeepFailingHits {
		return
	}
	if _, exists := m.builders[queryID]; !exists {
		if !m.filterSpec.Allows(queryID, m.seenQueries) {
			return
		}
		m.seenQueries++
	}

	if m.groupedInput && m.haveLast && m.lastQueryID != queryID {
		m.dispatchAsync(m.lastQueryID)
	}

	m.builders[queryID] = append(m.builders[queryID], raw)
	m.lastQueryID = queryID
	m.haveLast = true
}

// dispatchAsync removes queryID's builder and resolves+processes it on the
// single background worker, joining any worker already in flight first.
func (m *Manager) dispatchAsync(queryID string) {
	raws := m.builders[queryID]
	delete(m.builders, queryID)
	m.handedOff[queryID] = true
	m.worker.spawn(func() {
		m.recordErr(m.processQuery(queryID, raws))
	})
}

// ProcessAllOutstanding joins any outstanding background work, then
// synchronously resolves and processes every query still held, in
// lexicographic-by-query-id order, signals FinishWork to every processor,
// and resets the Manager's state.
func (m *Manager) ProcessAllOutstanding() error {
	m.worker.join()

	ids := make([]string, 0, len(m.builders))
	for id := range m.builders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		m.recordErr(m.processQuery(id, m.builders[id]))
	}

	m.builders = make(map[string][]hit.RawHit)
	m.handedOff = make(map[string]bool)
	m.lastQueryID = ""
	m.haveLast = false
	m.seenQueries = 0

	for _, p := range m.processors {
		m.recordErr(p.FinishWork())
	}

	m.errMu.Lock()
	defer m.errMu.Unlock()
	err := m.err
	m.err = nil
	return err
}

// processQuery resolves one query's accumulated raw hits and fans the
// result out to every processor. The processors share no mutable state
// (each owns its own buffered output), so they are rendered concurrently
// via traverse.Each rather than the single-slot workerSlot used for
// cross-query dispatch above.
func (m *Manager) processQuery(queryID string, raws []hit.RawHit) error {
	hitList := hit.Build(raws, m.scoreSpec, m.segSpec)
	if !m.filterSpec.KeepDominatedDuplicates {
		hitList.Prune()
	}
	var arch resolve.ScoredArchitecture
	if m.useNaiveGreedy {
		arch = resolve.NaiveGreedyResolve(&hitList)
	} else {
		arch = resolve.NewResolver(&hitList).Resolve()
	}

	err := traverse.Each(len(m.processors), func(i int) error {
		return m.processors[i].ProcessHitsForQuery(queryID, m.filterSpec, &hitList, arch)
	})
	if err != nil {
		return errors.E(err, "readproc: processing query", queryID)
	}
	return nil
}

func (m *Manager) recordErr(err error) {
	if err == nil {
		return
	}
	m.errMu.Lock()
	defer m.errMu.Unlock()
	if m.err == nil {
		m.err = err
	}
}
