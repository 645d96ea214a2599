package niche

import "fmt"

// ReplicateCountError reports a non-positive randomization replicate count.
type ReplicateCountError struct {
	N int
}

func (e *ReplicateCountError) Error() string {
	return fmt.Sprintf("replicate count must be at least 1, got %d", e.N)
}

// GridMismatchError reports an attempt to compare niche grids built on
// different extents or resolutions.
type GridMismatchError struct {
	Reason string
}

func (e *GridMismatchError) Error() string {
	return "grid mismatch: " + e.Reason
}
