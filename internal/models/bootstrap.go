package models

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"

	"salarypredictor/internal/data"
)

// Interval is a two-sided percentile interval.
type Interval struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// Bootstrap summarizes refits of the line on resamples of the training set.
type Bootstrap struct {
	Resamples int
	Level     float64
	Slope     Interval
	Intercept Interval
}

const DefaultResamples = 200

// BootstrapFit refits on n resamples drawn with replacement and reports percentile intervals at
// level (e.g. 0.95). Resamples that collapse to a single x are skipped.
func BootstrapFit(train []data.Sample, n int, level float64, seed int64) (Bootstrap, error) {
	if n < 1 {
		n = DefaultResamples
	}
	if !(level > 0 && level < 1) {
		return Bootstrap{}, NewValidationError(KindMalformed, "level", "must be in (0, 1)", level)
	}
	if _, err := Fit(train); err != nil {
		return Bootstrap{}, err
	}

	rnd := rand.New(rand.NewSource(seed))
	slopes := make([]float64, 0, n)
	intercepts := make([]float64, 0, n)
	sample := make([]data.Sample, len(train))
	for k := 0; k < n; k++ {
		for i := range sample {
			sample[i] = train[rnd.Intn(len(train))]
		}
		m, err := Fit(sample)
		if err != nil {
			continue
		}
		slopes = append(slopes, m.Slope)
		intercepts = append(intercepts, m.Intercept)
	}
	if len(slopes) == 0 {
		return Bootstrap{}, NewDegenerateFitError(len(train), 1)
	}

	return Bootstrap{
		Resamples: len(slopes),
		Level:     level,
		Slope:     percentileInterval(slopes, level),
		Intercept: percentileInterval(intercepts, level),
	}, nil
}

func percentileInterval(v []float64, level float64) Interval {
	sort.Float64s(v)
	tail := (1 - level) / 2
	return Interval{
		Lo: stat.Quantile(tail, stat.Empirical, v, nil),
		Hi: stat.Quantile(1-tail, stat.Empirical, v, nil),
	}
}
