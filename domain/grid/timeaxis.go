package grid

import (
	"fmt"
	"time"
)

// TimeAxis is the ordered sequence of observation timestamps shared by
// every cell of a grid, stored as seconds since the Unix epoch.
type TimeAxis struct {
	Epochs []int64
}

// NewTimeAxis builds a time axis from epoch-second timestamps
func NewTimeAxis(epochs []int64) *TimeAxis {
	return &TimeAxis{Epochs: epochs}
}

// Len returns the number of time steps
func (a *TimeAxis) Len() int {
	return len(a.Epochs)
}

// Seconds returns the numeric regression abscissa: the axis as float64
// epoch seconds, one entry per time step.
func (a *TimeAxis) Seconds() []float64 {
	out := make([]float64, len(a.Epochs))
	for i, e := range a.Epochs {
		out[i] = float64(e)
	}
	return out
}

// Time returns the timestamp at index i as calendar time (UTC)
func (a *TimeAxis) Time(i int) time.Time {
	return time.Unix(a.Epochs[i], 0).UTC()
}

// Validate rejects empty or non-monotonic axes. The axis must be strictly
// increasing since it is the independent regression variable.
func (a *TimeAxis) Validate() error {
	if len(a.Epochs) == 0 {
		return fmt.Errorf("time axis is empty")
	}
	for i := 1; i < len(a.Epochs); i++ {
		if a.Epochs[i] <= a.Epochs[i-1] {
			return fmt.Errorf("time axis is not strictly increasing at index %d (%d <= %d)", i, a.Epochs[i], a.Epochs[i-1])
		}
	}
	return nil
}
