package models

import (
	"math"
	"strconv"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PredictRange predicts at n evenly spaced x in [min, max]. The first x is min, the last is max.
func PredictRange(m Model, min, max float64, n int) ([]Point, error) {
	if !finite(min) || !finite(max) {
		return nil, InvalidRange("bounds must be finite", []float64{min, max})
	}
	if max < min {
		return nil, InvalidRange("max must not be less than min", []float64{min, max})
	}
	if n < 1 {
		return nil, InvalidRange("points must be at least 1", n)
	}
	out := make([]Point, n)
	for i, x := range Linspace(min, max, n) {
		y := m.PredictOne(x)
		if !finite(y) {
			return nil, InvalidRange("prediction overflows at x="+strconv.FormatFloat(x, 'g', -1, 64), []float64{min, max})
		}
		out[i] = Point{X: x, Y: y}
	}
	return out, nil
}

// Linspace returns n evenly spaced values in [min, max], like PredictRange without a model.
func Linspace(min, max float64, n int) []float64 {
	if n < 1 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = min
		return out
	}
	// Weighted endpoints stay finite where max-min would overflow.
	for i := range out {
		t := float64(i) / float64(n-1)
		out[i] = min*(1-t) + max*t
	}
	out[0], out[n-1] = min, max
	return out
}

// Domain bounds the inputs the service accepts. It guards the presentation layer, the line itself
// is defined everywhere.
type Domain struct {
	Min float64
	Max float64
}

func DefaultDomain() Domain { return Domain{Min: 0, Max: 50} }

// Validate accepts Min <= x <= Max.
func (d Domain) Validate(x float64) error {
	if !finite(x) || x < d.Min || x > d.Max {
		return OutOfDomain("years", x, d.Min, d.Max)
	}
	return nil
}

func (d Domain) PredictOne(m Model, x float64) (float64, error) {
	if err := d.Validate(x); err != nil {
		return 0, err
	}
	return m.PredictOne(x), nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
