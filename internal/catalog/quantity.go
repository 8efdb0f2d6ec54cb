package catalog

import (
	"fmt"
	"math"
)

const (
	stepTolerance = 1e-9
	roundEpsilon  = 1e-12
)

type QuantityConfig struct {
	Min   float64
	Step  float64
	Label string
}

func QuantityConfigFor(foodName, unit string) QuantityConfig {
	name := NormalizeName(foodName)
	if unit == "10g" || name == "almonds" || name == "walnuts" {
		return QuantityConfig{Min: 1, Step: 1, Label: "1 = 10g"}
	}
	if unit == "g" || unit == "ml" {
		return QuantityConfig{Min: 10, Step: 10, Label: "10 step"}
	}
	return QuantityConfig{Min: 0.5, Step: 0.5, Label: "0.5 step"}
}

// Validate checks quantity against the floor and the step. Values are never
// adjusted.
func (q QuantityConfig) Validate(quantity float64) error {
	if !finite(quantity) {
		return fmt.Errorf("%w: %g", ErrBadQuantity, quantity)
	}
	if quantity < q.Min {
		return fmt.Errorf("%w: %g is below %g", ErrBelowMinimum, quantity, q.Min)
	}
	if q.Step > 0 {
		ratio := quantity / q.Step
		if math.Abs(ratio-math.Round(ratio)) > stepTolerance {
			return fmt.Errorf("%w: %g is not a multiple of %g", ErrOffStep, quantity, q.Step)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Round2 rounds half-up to two decimals. The nudge is relative to the scaled
// value so 1.005 rounds up while 0.00499999999 still rounds down.
func Round2(v float64) float64 {
	if v < 0 {
		return -Round2(-v)
	}
	scaled := v * 100
	return math.Floor(scaled+0.5+scaled*roundEpsilon) / 100
}
