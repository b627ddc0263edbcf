// Package processing compiles a configured wizard session into a DQ job
// submission and tracks the resulting job to a terminal outcome.
package processing

// Status is a DQ job status reported by the engine.
type Status string

// Engine job statuses.
const (
	StatusQueued      Status = "QUEUED"
	StatusDispatched  Status = "DISPATCHED"
	StatusRunning     Status = "DQ_RUNNING"
	StatusNormalizing Status = "DQ_NORMALIZING"
	StatusFixed       Status = "DQ_FIXED"
	StatusComplete    Status = "DQ_COMPLETE"
	StatusFailed      Status = "DQ_FAILED"
	StatusRejected    Status = "DQ_REJECTED"
)

// TerminalSuccess reports whether the status ends the job successfully.
func (s Status) TerminalSuccess() bool {
	return s == StatusFixed || s == StatusComplete
}

// TerminalFailure reports whether the status ends the job in failure.
func (s Status) TerminalFailure() bool {
	return s == StatusFailed || s == StatusRejected
}

// Terminal reports whether the status ends the job either way.
func (s Status) Terminal() bool {
	return s.TerminalSuccess() || s.TerminalFailure()
}

// Message returns a human-readable description for display while polling.
func (s Status) Message() string {
	switch s {
	case StatusQueued:
		return "Queued for processing"
	case StatusDispatched:
		return "Dispatched to a worker"
	case StatusRunning:
		return "Running quality checks"
	case StatusNormalizing:
		return "Normalizing values"
	case StatusFixed:
		return "Processing complete, fixes applied"
	case StatusComplete:
		return "Processing complete"
	case StatusFailed:
		return "Processing failed"
	case StatusRejected:
		return "File rejected by the engine"
	default:
		return "Processing"
	}
}

// progressFloor maps each non-terminal status to the minimum synthetic
// progress shown for it. Actual progress never decreases and stays below
// 100 until a terminal status is observed.
func (s Status) progressFloor() int {
	switch s {
	case StatusQueued:
		return 10
	case StatusDispatched:
		return 25
	case StatusRunning:
		return 55
	case StatusNormalizing:
		return 80
	default:
		return 5
	}
}
