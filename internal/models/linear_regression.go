package models

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"salarypredictor/internal/data"
)

// LinearModel is the fitted line y = Slope*x + Intercept. It is never mutated after Fit.
type LinearModel struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

func (m LinearModel) Name() string { return "LinearRegression" }

func (m LinearModel) PredictOne(x float64) float64 { return m.Slope*x + m.Intercept }

func (m LinearModel) Predict(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = m.PredictOne(x)
	}
	return out
}

// Equation renders the model the way the dashboard shows it.
func (m LinearModel) Equation() string {
	return fmt.Sprintf("Salary = %.2f + %.2f × Years", m.Intercept, m.Slope)
}

// Fit computes the ordinary least squares line through train.
func Fit(train []data.Sample) (LinearModel, error) {
	if n := distinctX(train); n < 2 {
		return LinearModel{}, NewDegenerateFitError(len(train), n)
	}
	xs, ys := data.Xs(train), data.Ys(train)
	xMean, yMean := stat.Mean(xs, nil), stat.Mean(ys, nil)

	var sxy, sxx float64
	for i := range xs {
		dx := xs[i] - xMean
		sxy += dx * (ys[i] - yMean)
		sxx += dx * dx
	}
	if sxx == 0 {
		return LinearModel{}, NewDegenerateFitError(len(train), distinctX(train))
	}
	slope := sxy / sxx
	return LinearModel{Slope: slope, Intercept: yMean - slope*xMean}, nil
}

func distinctX(s []data.Sample) int {
	seen := make(map[float64]struct{}, len(s))
	for _, v := range s {
		seen[v.X] = struct{}{}
	}
	return len(seen)
}
