package data

import (
	"encoding/csv"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

const (
	syntheticBase  = 25000.0
	syntheticSlope = 9400.0
	syntheticNoise = 5500.0
)

// GenerateSyntheticSalaries writes n YearsExperience,Salary rows. The same seed yields the same file.
func GenerateSyntheticSalaries(n int, seed int64, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"YearsExperience", "Salary"}); err != nil {
		return err
	}
	for _, s := range SyntheticSalaries(n, seed) {
		rec := []string{
			strconv.FormatFloat(s.X, 'f', 1, 64),
			strconv.FormatFloat(s.Y, 'f', 2, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// SyntheticSalaries spreads experience over roughly [1.1, 10.5] years with a noisy linear salary.
func SyntheticSalaries(n int, seed int64) []Sample {
	rnd := rand.New(rand.NewSource(seed))
	out := make([]Sample, n)
	for i := 0; i < n; i++ {
		x := 1.1 + 9.4*float64(i)/math.Max(1, float64(n-1))
		x = math.Round((x+rnd.Float64()*0.4-0.2)*10) / 10
		if x < 0 {
			x = 0
		}
		y := syntheticBase + syntheticSlope*x + rnd.NormFloat64()*syntheticNoise
		out[i] = Sample{X: x, Y: math.Round(y*100) / 100}
	}
	return out
}
