package report

import "fmt"

// Message is what users see for any invalid report, whatever the cause.
const Message = "Could not retrieve weather information for the specified city."

// PresentError reports a payload that is not a displayable weather report.
// Reason is for logs only.
type PresentError struct {
	Reason string
}

func (e *PresentError) Error() string {
	return fmt.Sprintf("invalid weather report: %s", e.Reason)
}

func invalid(format string, args ...any) *PresentError {
	return &PresentError{Reason: fmt.Sprintf(format, args...)}
}
