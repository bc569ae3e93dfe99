package models

// Model is a fitted single-feature regressor.
type Model interface {
	PredictOne(x float64) float64
	Predict(xs []float64) []float64
	Name() string
}
