package average

import "sync"

// Results is the shared result aggregator: a mapping from roll number to
// computed average, written by all workers under mutual exclusion.
//
// The pool coordinator owns the container and hands workers write access
// only. Within one invocation no two workers ever write the same key
// (queue semantics give each record to exactly one worker), but the lock
// still guards every write so concurrent writes to distinct keys cannot
// corrupt the map.
type Results struct {
	mu sync.Mutex
	m  map[string]Result
}

// NewResults returns an empty aggregator.
func NewResults() *Results {
	return &Results{m: make(map[string]Result)}
}

// Set records the result for one roll number.
func (r *Results) Set(rollNo string, res Result) {
	r.mu.Lock()
	r.m[rollNo] = res
	r.mu.Unlock()
}

// Len returns the number of results recorded so far.
func (r *Results) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}

// Snapshot returns a copy of the result map. The coordinator calls it
// once, after all workers have joined.
func (r *Results) Snapshot() map[string]Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]Result, len(r.m))
	for k, v := range r.m {
		out[k] = v
	}
	return out
}
