package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsuariosCreated uint64
	UsuariosUpdated uint64
	UsuariosDeleted uint64
	CacheHits       uint64
	CacheMisses     uint64
}

// InMemoryRecorder stores counters in memory. It backs the /metrics endpoint.
type InMemoryRecorder struct {
	usuariosCreated atomic.Uint64
	usuariosUpdated atomic.Uint64
	usuariosDeleted atomic.Uint64
	cacheHits       atomic.Uint64
	cacheMisses     atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsuariosCreated: m.usuariosCreated.Load(),
		UsuariosUpdated: m.usuariosUpdated.Load(),
		UsuariosDeleted: m.usuariosDeleted.Load(),
		CacheHits:       m.cacheHits.Load(),
		CacheMisses:     m.cacheMisses.Load(),
	}
}

// IncUsuarioCreated increments the created counter.
func (m *InMemoryRecorder) IncUsuarioCreated() { m.usuariosCreated.Add(1) }

// IncUsuarioUpdated increments the updated counter.
func (m *InMemoryRecorder) IncUsuarioUpdated() { m.usuariosUpdated.Add(1) }

// IncUsuarioDeleted increments the deleted counter.
func (m *InMemoryRecorder) IncUsuarioDeleted() { m.usuariosDeleted.Add(1) }

// IncCacheHit increments the cache hit counter.
func (m *InMemoryRecorder) IncCacheHit() { m.cacheHits.Add(1) }

// IncCacheMiss increments the cache miss counter.
func (m *InMemoryRecorder) IncCacheMiss() { m.cacheMisses.Add(1) }
