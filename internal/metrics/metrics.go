// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Usuario lifecycle
	IncUsuarioCreated()
	IncUsuarioUpdated()
	IncUsuarioDeleted()

	// Read-through cache
	IncCacheHit()
	IncCacheMiss()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
