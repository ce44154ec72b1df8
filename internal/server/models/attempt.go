package models

import (
	"math"
	"strconv"
	"strings"
)

// LoginAttempt is one submitted login. It is never persisted.
type LoginAttempt struct {
	Username string
	Password string
	Hold     []float64
	Flight   []float64
}

// Decision is the verdict for a credential-valid login attempt.
type Decision struct {
	TimeAnomaly      bool
	KeystrokeAnomaly bool
}

// AnomalyDetected reports whether any behavioral check fired.
func (d Decision) AnomalyDetected() bool { return d.TimeAnomaly || d.KeystrokeAnomaly }

// CoerceTimings converts a decoded JSON value into a timing vector. Numbers
// are taken as is, numeric strings are parsed, booleans count as 1 or 0. A
// single element that cannot be converted, a non-finite value, or a value that
// is not an array yields an empty vector.
func CoerceTimings(v any) []float64 {
	items, ok := v.([]any)
	if !ok {
		return []float64{}
	}

	out := make([]float64, 0, len(items))
	for _, item := range items {
		f, ok := coerceOne(item)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return []float64{}
		}
		out = append(out, f)
	}
	return out
}

func coerceOne(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
