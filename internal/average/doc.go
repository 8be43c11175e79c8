// Package average implements the concurrent average-computation engine.
//
// One invocation of Engine.Compute takes a full snapshot of the record
// source, fills a bounded FIFO queue with it, and spawns a fixed pool of
// worker goroutines. Each worker drains the queue until empty: it parses
// the three score fields, computes the two-decimal arithmetic mean, and
// writes the result into a shared mutex-guarded map. The coordinator
// blocks on a WaitGroup barrier until every worker has terminated, then
// returns a copy of the result map.
//
// A record whose scores do not all parse as numbers is skipped with a
// logged warning — a per-record recoverable failure, never fatal to the
// pool. Only a failed snapshot read or a snapshot larger than the queue
// capacity fails the whole operation.
//
// The queue is filled once up front and never added to afterward, so an
// empty Take means the worker is done. Workers never block waiting for
// new items.
package average
