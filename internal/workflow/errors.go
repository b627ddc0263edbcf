package workflow

import "errors"

// Workflow execution errors.
var (
	ErrInvalidState = errors.New("workflow state is missing or malformed")
	ErrRunFailed    = errors.New("processing run did not complete successfully")
)
