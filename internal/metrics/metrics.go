// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncUserUpdated()
	IncUserDeleted()

	// Session metrics
	IncSessionCreated()
	IncSessionRevoked()
	IncAuthRejected(reason string) // reason: "missing", "invalid", "expired", "revoked"
	ObserveLoginDuration(duration time.Duration)

	// Task metrics
	IncTaskCreated()
	IncTaskUpdated()
	IncTaskDeleted()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
