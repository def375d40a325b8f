package resolve

import "github.com/grailbio/resolvehits/arrow"

// cacheEntry is one (arrow, best-architecture) pair stored for a given
// mask signature.
type cacheEntry struct {
	at  arrow.Arrow
	sa  ScoredArch
}

// MaskedBestsCache memoises, for a given mask signature, the best
// architecture attainable in any region disjoint from that mask's
// segments, up to a given arrow. Each per-signature list of
// entries is kept sorted ascending by arrow; entries for a signature must
// be appended in non-decreasing arrow order (Store panics otherwise, since
// that can only mean the caller's scan order is broken).
type MaskedBestsCache struct {
	bySignature map[string][]cacheEntry
}

// NewMaskedBestsCache returns an empty cache.
func NewMaskedBestsCache() *MaskedBestsCache {
	return &MaskedBestsCache{bySignature: make(map[string][]cacheEntry)}
}

// GetBestForMasksUpToArrow returns the best architecture stored for sig at
// the greatest stored arrow <= a, or unknownArch if there is no such entry.
func (c *MaskedBestsCache) GetBestForMasksUpToArrow(sig MaskSignature, a arrow.Arrow) ScoredArch {
	entries := c.bySignature[sig.key()]
	// entries is sorted ascending by arrow; find the last one <= a via
	// linear scan from the end, since per-signature lists stay short (one
	// entry per cache_arrows boundary within a single DP scan).
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].at <= a {
			return entries[i].sa
		}
	}
	return unknownArch
}

// Store appends (a, sa) to sig's entry list.
//
// REQUIRES: a is >= every arrow previously stored for sig.
func (c *MaskedBestsCache) Store(sig MaskSignature, a arrow.Arrow, sa ScoredArch) {
	key := sig.key()
	entries := c.bySignature[key]
	if n := len(entries); n > 0 && entries[n-1].at > a {
		panic("resolve: MaskedBestsCache.Store called out of order")
	}
	c.bySignature[key] = append(entries, cacheEntry{at: a, sa: sa})
}
