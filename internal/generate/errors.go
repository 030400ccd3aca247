package generate

import "fmt"

// InvalidConfigurationError indicates a generation option that fails
// structural validation (non-positive target count, tolerance outside
// [0,1), unknown category).
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// EmptySourceSetError indicates that a run was started with zero source
// cubes. The run aborts before any aggregation.
type EmptySourceSetError struct{}

func (e *EmptySourceSetError) Error() string {
	return "no source cubes provided"
}

// InsufficientCandidatesError indicates that the admissible candidate
// pool after filtering is smaller than the lower tolerance bound, so no
// cube within tolerance can be produced. The counts let the caller
// relax category, blacklist, or count settings.
type InsufficientCandidatesError struct {
	Admissible int // pool size after filtering
	Minimum    int // lower tolerance bound
	Target     int // nominal target count
}

func (e *InsufficientCandidatesError) Error() string {
	return fmt.Sprintf("only %d admissible candidates for a target of %d (minimum %d)",
		e.Admissible, e.Target, e.Minimum)
}
