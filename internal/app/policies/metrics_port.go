package policies

import (
	"time"

	"loftcal/internal/domain/availability"
)

// BuildObserver receives the outcome of every matrix build.
type BuildObserver interface {
	ObserveBuild(result availability.Result, elapsed time.Duration)
}

type NopObserver struct{}

func (NopObserver) ObserveBuild(availability.Result, time.Duration) {}
