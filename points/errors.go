package points

import "fmt"

// InvalidInputError reports malformed point-sample input: empty or
// too-small samples, missing labels, or mismatched coordinate dimensions.
// It indicates caller misuse and is raised before any density computation.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

func invalidf(format string, args ...interface{}) *InvalidInputError {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}
