package recurrence

import (
	"fmt"
	"time"
)

// InvalidArgumentError is returned when Expand is given a request whose
// From or To is not a valid instant.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return "recurrence: invalid argument: " + e.Message
}

// RangeError is returned when a request's From is after its To.
type RangeError struct {
	From, To time.Time
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("recurrence: invalid range: from %s is after to %s",
		e.From.Format(time.RFC3339), e.To.Format(time.RFC3339))
}

// ParseFailureError indicates a wall-time string didn't match any of the
// compact, extended or bare-date forms ParseWallClock accepts. Per the error
// design, this is returned to the caller as "no instant" rather than
// propagated as a fatal error; callers decide how to proceed.
type ParseFailureError struct {
	Input string
}

func (e *ParseFailureError) Error() string {
	return fmt.Sprintf("recurrence: could not parse wall-time value %q", e.Input)
}
