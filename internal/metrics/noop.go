package metrics

// NoopRecorder discards all metric events.
type NoopRecorder struct{}

// NewNoop returns a Recorder that does nothing.
func NewNoop() *NoopRecorder {
	return &NoopRecorder{}
}

func (*NoopRecorder) IncUserRegistered() {}

func (*NoopRecorder) IncLoginSuccess() {}

func (*NoopRecorder) IncLoginFailure() {}

func (*NoopRecorder) IncAuthRequired() {}

func (*NoopRecorder) IncEntityCreated(entity string) {}

func (*NoopRecorder) IncEntityUpdated(entity string) {}

func (*NoopRecorder) IncEntityDeleted(entity string) {}
