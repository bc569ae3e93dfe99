package models

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"salarypredictor/internal/data"
)

// Scores are the regression errors of a prediction against the truth.
type Scores struct {
	MAE         float64
	MSE         float64
	RMSE        float64
	R2          float64
	R2Undefined bool // all targets equal, R2 reported as 0
}

// Metrics describe one training run. A new value is produced per run and never edited.
type Metrics struct {
	MAE         float64   `json:"mae"`
	MSE         float64   `json:"mse"`
	RMSE        float64   `json:"rmse"`
	R2          float64   `json:"r2"`
	R2Undefined bool      `json:"r2_undefined"`
	Slope       float64   `json:"slope"`
	Intercept   float64   `json:"intercept"`
	NTotal      int       `json:"n_total"`
	NTrain      int       `json:"n_train"`
	NTest       int       `json:"n_test"`
	TrainedAt   time.Time `json:"trained_at"`
}

// Score computes MAE, MSE, RMSE and R2. R2 uses the mean of yTrue as baseline.
func Score(yTrue, yPred []float64) (Scores, error) {
	n := len(yTrue)
	if n == 0 {
		return Scores{}, NewValidationError(KindMalformed, "y_true", "empty", n)
	}
	if len(yPred) != n {
		return Scores{}, NewValidationError(KindMalformed, "y_pred", "length differs from y_true", len(yPred))
	}

	mean := stat.Mean(yTrue, nil)

	var absSum, ssRes, ssTot float64
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		absSum += math.Abs(d)
		ssRes += d * d
		ssTot += (yTrue[i] - mean) * (yTrue[i] - mean)
	}
	s := Scores{
		MAE: absSum / float64(n),
		MSE: ssRes / float64(n),
	}
	s.RMSE = math.Sqrt(s.MSE)
	if ssTot == 0 {
		s.R2Undefined = true
	} else {
		s.R2 = 1 - ssRes/ssTot
	}
	return s, nil
}

// Evaluate scores m on the held-out samples. nTrain is recorded as given.
func Evaluate(m LinearModel, test []data.Sample, nTrain int) (Metrics, error) {
	s, err := Score(data.Ys(test), m.Predict(data.Xs(test)))
	if err != nil {
		return Metrics{}, err
	}
	return Metrics{
		MAE:         s.MAE,
		MSE:         s.MSE,
		RMSE:        s.RMSE,
		R2:          s.R2,
		R2Undefined: s.R2Undefined,
		Slope:       m.Slope,
		Intercept:   m.Intercept,
		NTotal:      nTrain + len(test),
		NTrain:      nTrain,
		NTest:       len(test),
		TrainedAt:   time.Now().UTC(),
	}, nil
}
