// Package config loads the gradebook YAML configuration.
//
// Load(path) reads the file, fills missing fields with defaults, and
// validates structural constraints (port range, positive pool sizing,
// required CSV path). Watch(ctx, path, onChange) hot-reloads the file on
// change via fsnotify; a failed reload keeps the previous config active.
//
// The compute section sizes the average engine: `workers` is the number of
// goroutines spawned per invocation and `queue_size` the work queue
// capacity. queue_size must be at least the number of stored records or
// the computation fails fast at request time.
package config
