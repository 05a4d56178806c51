package domain

import "fmt"

// Thresholds are the rate boundaries (percent) for color classification.
// A rate >= Excellent is excellent, >= Good is good, >= Medium is medium,
// anything below is low.
type Thresholds struct {
	Excellent float64
	Good      float64
	Medium    float64
}

// DefaultThresholds are the decree targets used when no configuration
// overrides them.
func DefaultThresholds() Thresholds {
	return Thresholds{Excellent: 95, Good: 85, Medium: 70}
}

// Validate rejects threshold sets that are out of [0,100] or not strictly
// descending. Invalid thresholds are a configuration error and fatal for
// the run.
func (t Thresholds) Validate() error {
	for _, v := range []float64{t.Excellent, t.Good, t.Medium} {
		if v < 0 || v > 100 {
			return fmt.Errorf("threshold %v out of range [0,100]", v)
		}
	}
	if t.Excellent <= t.Good || t.Good <= t.Medium {
		return fmt.Errorf("thresholds must be strictly descending: %v > %v > %v",
			t.Excellent, t.Good, t.Medium)
	}
	return nil
}
