// Package models defines the server-side data models shared by the anomaly
// engine, the services and the storage backends.
package models

// BehaviorProfile is the behavioral baseline of the single known user. A
// fresh profile has every field absent. Hold and flight baselines are seeded
// together and are either both absent or both present.
type BehaviorProfile struct {
	// LastLoginHour is the local hour (0-23) of the last credential-valid login.
	LastLoginHour *int `json:"last_login_hour"`
	// HoldBaseline holds the seeded per-key hold times in seconds.
	HoldBaseline []float64 `json:"hold_avg"`
	// FlightBaseline holds the seeded inter-key flight times in seconds.
	FlightBaseline []float64 `json:"flight_avg"`
}

// HasHour reports whether a previous login hour is recorded.
func (p BehaviorProfile) HasHour() bool { return p.LastLoginHour != nil }

// HasBaseline reports whether keystroke baselines have been seeded.
func (p BehaviorProfile) HasBaseline() bool {
	return p.HoldBaseline != nil && p.FlightBaseline != nil
}

// SetHour records h as the last login hour.
func (p *BehaviorProfile) SetHour(h int) { p.LastLoginHour = &h }

// Clone returns a deep copy so callers can mutate it freely.
func (p BehaviorProfile) Clone() BehaviorProfile {
	out := BehaviorProfile{
		HoldBaseline:   cloneFloats(p.HoldBaseline),
		FlightBaseline: cloneFloats(p.FlightBaseline),
	}
	if p.LastLoginHour != nil {
		out.SetHour(*p.LastLoginHour)
	}
	return out
}

func cloneFloats(in []float64) []float64 {
	if in == nil {
		return nil
	}
	out := make([]float64, len(in))
	copy(out, in)
	return out
}
