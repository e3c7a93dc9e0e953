// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account and session metrics
	IncUserRegistered()
	IncLoginSuccess()
	IncLoginFailure()
	IncAuthRequired() // requests rejected by the session gate

	// Entity metrics; entity is "project" or "task"
	IncEntityCreated(entity string)
	IncEntityUpdated(entity string)
	IncEntityDeleted(entity string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
