package recorder

import "time"

// RunEvent is the audit row for one update check.
type RunEvent struct {
	At      time.Time
	AsOf    time.Time
	Outcome string // "proceed", "weekend", "holiday", "stale"
	Change  int
	YTD     int
	DryRun  bool
}

// Recorder persists run history for later inspection. Recording
// failures are logged by the caller, never fatal.
type Recorder interface {
	RecordRun(evt *RunEvent) error
	Close() error
}
