package models

import (
	"math"
	"math/rand"

	"salarypredictor/internal/data"
)

const (
	DefaultTrainRatio = 0.8
	DefaultSeed       = 42
)

// Split partitions samples into train and test through a permutation seeded by seed.
// floor(ratio*n) samples go to train, the rest to test.
func Split(samples []data.Sample, ratio float64, seed int64) (train, test []data.Sample, err error) {
	train, test, _, _, err = SplitIndices(samples, ratio, seed)
	return train, test, err
}

// SplitIndices is Split that also reports which input positions landed on each side.
func SplitIndices(samples []data.Sample, ratio float64, seed int64) (train, test []data.Sample, trainIdx, testIdx []int, err error) {
	if math.IsNaN(ratio) || ratio <= 0 || ratio >= 1 {
		return nil, nil, nil, nil, NewValidationError(KindMalformed, "ratio", "must be in (0, 1)", ratio)
	}
	n := len(samples)
	nTrain := int(math.Floor(ratio*float64(n) + 1e-9))
	if nTrain == 0 || nTrain == n {
		return nil, nil, nil, nil, NewValidationError(KindMalformed, "samples", "too few samples to split into non-empty train and test", n)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	trainIdx, testIdx = perm[:nTrain], perm[nTrain:]
	train = make([]data.Sample, len(trainIdx))
	test = make([]data.Sample, len(testIdx))
	for i, j := range trainIdx {
		train[i] = samples[j]
	}
	for i, j := range testIdx {
		test[i] = samples[j]
	}
	return train, test, trainIdx, testIdx, nil
}
