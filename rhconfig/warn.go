package rhconfig

import (
	"sync"

	"github.com/grailbio/base/log"
)

// WarnOnce logs msg via log.Error the first time it is called for a given
// key and silently suppresses every subsequent call for that key, matching
// the "first encounter of a soft anomaly logs a single warning; subsequent
// occurrences are suppressed" policy for recoverable parse-time anomalies
// (e.g. a non-positive bitscore).
type WarnOnce struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewWarnOnce returns a ready-to-use WarnOnce.
func NewWarnOnce() *WarnOnce { return &WarnOnce{seen: make(map[string]bool)} }

// Warn logs msg under key if key hasn't been warned about before.
func (w *WarnOnce) Warn(key, msg string, args ...interface{}) {
	w.mu.Lock()
	already := w.seen[key]
	w.seen[key] = true
	w.mu.Unlock()
	if already {
		return
	}
	log.Error.Printf(msg, args...)
}
