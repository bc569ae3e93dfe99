package training

import (
	"github.com/cockroachdb/errors"

	"salarypredictor/internal/data"
	"salarypredictor/internal/models"
	"salarypredictor/internal/store"
)

// Result is the outcome of one offline training run.
type Result struct {
	Dataset *data.Dataset
	Train   []data.Sample
	Test    []data.Sample
	Model   models.LinearModel
	Metrics models.Metrics
}

// Run splits ds with ratio and seed, fits on the train side and evaluates on the test side.
func Run(ds *data.Dataset, ratio float64, seed int64) (*Result, error) {
	train, test, err := models.Split(ds.Samples, ratio, seed)
	if err != nil {
		return nil, errors.Wrap(err, "split")
	}
	m, err := models.Fit(train)
	if err != nil {
		return nil, errors.Wrap(err, "fit")
	}
	met, err := models.Evaluate(m, test, len(train))
	if err != nil {
		return nil, errors.Wrap(err, "evaluate")
	}
	return &Result{Dataset: ds, Train: train, Test: test, Model: m, Metrics: met}, nil
}

func (r *Result) Snapshot() store.Snapshot {
	return store.Snapshot{
		Model:   r.Model,
		Metrics: r.Metrics,
		Data:    store.NewTrainingData(r.Dataset.Samples, r.Train, r.Test),
	}
}

// CurvePoint scores a model fitted on the first Size training samples.
type CurvePoint struct {
	Size  int
	Train models.Scores
	Test  models.Scores
}

// LearningCurve fits on growing prefixes of train and scores each fit on its prefix and on test.
// Sizes below 2 are skipped since no line can be fitted.
func LearningCurve(train, test []data.Sample, sizes []int) ([]CurvePoint, error) {
	out := make([]CurvePoint, 0, len(sizes))
	for _, s := range sizes {
		if s < 2 || s > len(train) {
			continue
		}
		sub := train[:s]
		m, err := models.Fit(sub)
		if errors.Is(err, models.ErrDegenerateFit) {
			continue
		}
		if err != nil {
			return nil, err
		}
		trScores, err := models.Score(data.Ys(sub), m.Predict(data.Xs(sub)))
		if err != nil {
			return nil, err
		}
		teScores, err := models.Score(data.Ys(test), m.Predict(data.Xs(test)))
		if err != nil {
			return nil, err
		}
		out = append(out, CurvePoint{Size: s, Train: trScores, Test: teScores})
	}
	return out, nil
}

// CurveSizes returns points sizes from min to total, evenly spaced and strictly increasing.
func CurveSizes(total, points, min int) []int {
	if points < 2 {
		points = 2
	}
	if min < 2 {
		min = 2
	}
	if min > total {
		min = total
	}
	sizes := make([]int, 0, points)
	last := 0
	for _, v := range models.Linspace(float64(min), float64(total), points) {
		s := int(v + 0.5)
		if s <= last {
			continue
		}
		sizes = append(sizes, s)
		last = s
	}
	return sizes
}
