package scoring

import "fmt"

// AnalysisError means the model response could not be turned into a report.
type AnalysisError struct {
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("analysis error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("analysis error: %s", e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}
