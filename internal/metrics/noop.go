package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncUsuarioCreated() {}
func (n *NoopRecorder) IncUsuarioUpdated() {}
func (n *NoopRecorder) IncUsuarioDeleted() {}
func (n *NoopRecorder) IncCacheHit()       {}
func (n *NoopRecorder) IncCacheMiss()      {}
