package recorder

// NoopRecorder is used when history persistence is unavailable.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordDecision(_ *Decision) error { return nil }
func (n *NoopRecorder) RecordAlert(_ *AlertRecord) error { return nil }
