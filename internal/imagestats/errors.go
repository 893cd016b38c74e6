package imagestats

import "fmt"

// Pipeline stage names carried by EmptyPopulationError.
const (
	StageMask       = "mask"
	StageBounds     = "bounds"
	StagePercentile = "percentile"
)

// EmptyPopulationError is returned when a filtering stage leaves no samples
// to compute a statistic over.
type EmptyPopulationError struct {
	Stage string
	// Size is the population size entering the stage.
	Size int
}

func (e *EmptyPopulationError) Error() string {
	return fmt.Sprintf("empty statistics population after %s stage (%d samples entered it)", e.Stage, e.Size)
}

// InvalidOptionsError reports an unusable pipeline option.
type InvalidOptionsError struct {
	Field  string
	Reason string
}

func (e *InvalidOptionsError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
