package polish

import (
	"errors"
	"fmt"
)

// SectionError describes why one section kept its original content.
// It is recorded in the result provenance and never returned from Polish.
type SectionError struct {
	Section string
	Cause   error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("polish %s: %v", e.Section, e.Cause)
}

func (e *SectionError) Unwrap() error {
	return e.Cause
}

var (
	errEmptyOutput = errors.New("model returned no usable content")
	errNotObject   = errors.New("model output is not a JSON object")
)

type countMismatchError struct {
	want, got int
}

func (e *countMismatchError) Error() string {
	return fmt.Sprintf("expected %d items, got %d", e.want, e.got)
}
