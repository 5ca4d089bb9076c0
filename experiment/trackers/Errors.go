package trackers

import "errors"

// DiagnosticsError implements errors unique to computing diagnostics
// over trajectories
type DiagnosticsError struct {
	Op  string
	Err error
}

// Error satisfies the error interface
func (e *DiagnosticsError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *DiagnosticsError) Unwrap() error {
	return e.Err
}

var errInvalidInput = errors.New("invalid input")

// IsInvalidInput returns whether or not an error reports that
// diagnostics were requested over input for which they are undefined,
// such as an empty collection of trajectories.
func IsInvalidInput(err error) bool {
	return errors.Is(err, errInvalidInput)
}
