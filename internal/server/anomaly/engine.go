// Package anomaly scores a credential-valid login against the stored
// behavioral profile. It is pure: persistence is the caller's job.
package anomaly

import (
	"math"

	"github.com/dmitrijs2005/shadowshield/internal/server/models"
)

const (
	// DefaultThreshold is the combined keystroke distance above which a login
	// is flagged.
	DefaultThreshold = 0.2
	// DefaultVectorLen is the required length of hold and flight vectors.
	DefaultVectorLen = 4
)

// Engine evaluates login attempts. Baselines are seeded by the first valid
// sample and never updated afterwards.
type Engine struct {
	Threshold float64
	VectorLen int
}

// NewEngine returns an Engine, falling back to the defaults for
// non-positive arguments.
func NewEngine(threshold float64, vectorLen int) *Engine {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if vectorLen <= 0 {
		vectorLen = DefaultVectorLen
	}
	return &Engine{Threshold: threshold, VectorLen: vectorLen}
}

// Evaluate scores one attempt made at hour and returns the verdict together
// with the profile that must be persisted. The input profile is not modified.
func (e *Engine) Evaluate(hour int, hold, flight []float64, profile models.BehaviorProfile) (models.Decision, models.BehaviorProfile) {
	var d models.Decision
	next := profile.Clone()

	if next.HasHour() && *next.LastLoginHour != hour {
		d.TimeAnomaly = true
	}
	next.SetHour(hour)

	switch {
	case len(hold) != e.VectorLen || len(flight) != e.VectorLen:
		d.KeystrokeAnomaly = true
	case !next.HasBaseline():
		next.HoldBaseline = append([]float64(nil), hold...)
		next.FlightBaseline = append([]float64(nil), flight...)
	default:
		d.KeystrokeAnomaly = e.Score(hold, flight, next) > e.Threshold
	}

	return d, next
}

// Score returns the combined distance of a sample from the profile baselines.
func (e *Engine) Score(hold, flight []float64, profile models.BehaviorProfile) float64 {
	return (Distance(hold, profile.HoldBaseline) + Distance(flight, profile.FlightBaseline)) / 2
}

// Distance is the Euclidean distance between a and b divided by their length.
// Vectors of different or zero length are infinitely far apart.
func Distance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum) / float64(len(a))
}
