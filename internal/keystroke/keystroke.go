// Package keystroke turns key press and release timestamps into the hold and
// flight vectors sent with a login request.
package keystroke

import "time"

// DefaultKeys is the number of key presses a usable sample must contain.
const DefaultKeys = 4

// Recorder collects press and release times for the characters of a typed
// secret. The zero value is ready to use.
type Recorder struct {
	down []time.Time
	up   []time.Time
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.down = r.down[:0]
	r.up = r.up[:0]
}

// KeyDown records a key press.
func (r *Recorder) KeyDown(t time.Time) { r.down = append(r.down, t) }

// KeyUp records a key release. Releases without a matching press are ignored.
func (r *Recorder) KeyUp(t time.Time) {
	if len(r.up) < len(r.down) {
		r.up = append(r.up, t)
	}
}

// Len reports the number of complete press/release pairs.
func (r *Recorder) Len() int { return min(len(r.down), len(r.up)) }

// Vectors builds the hold and flight vectors, in seconds, for a sample of
// exactly keys presses. Any other sample size yields two empty vectors, which
// the server scores as a keystroke anomaly.
//
//	hold[i]   = up[i] - down[i]
//	flight[0] = 0, flight[i] = down[i] - down[i-1]
func (r *Recorder) Vectors(keys int) (hold, flight []float64) {
	n := r.Len()
	if keys <= 0 || n != keys {
		return []float64{}, []float64{}
	}

	hold = make([]float64, n)
	flight = make([]float64, n)
	for i := 0; i < n; i++ {
		hold[i] = r.up[i].Sub(r.down[i]).Seconds()
		if i > 0 {
			flight[i] = r.down[i].Sub(r.down[i-1]).Seconds()
		}
	}
	return hold, flight
}
