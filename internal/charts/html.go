package charts

import (
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"salarypredictor/internal/data"
	"salarypredictor/internal/models"
)

func scatterData(s []data.Sample) []opts.ScatterData {
	out := make([]opts.ScatterData, len(s))
	for i := range s {
		out[i] = opts.ScatterData{Value: []float64{s[i].X, s[i].Y}}
	}
	return out
}

// ModelChart builds the interactive version of ModelPNG.
func ModelChart(all, train, test []data.Sample, m models.LinearModel) (*charts.Scatter, error) {
	min, max := data.Bounds(all)
	pts, err := models.PredictRange(m, min, max, LinePoints)
	if err != nil {
		return nil, err
	}
	lineData := make([]opts.LineData, len(pts))
	for i, pt := range pts {
		lineData[i] = opts.LineData{Value: []float64{pt.X, pt.Y}}
	}

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Salary model"}),
		charts.WithTitleOpts(opts.Title{Title: "Salary vs Years of Experience", Subtitle: m.Equation()}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Years", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Salary ($)", Type: "value"}),
	)
	sc.AddSeries("Training data", scatterData(train)).
		AddSeries("Test data", scatterData(test))

	line := charts.NewLine()
	line.AddSeries("Regression line", lineData)
	sc.Overlap(line)
	return sc, nil
}

func ModelHTML(path string, all, train, test []data.Sample, m models.LinearModel) error {
	sc, err := ModelChart(all, train, test, m)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := sc.Render(f); err != nil {
		return err
	}
	return f.Close()
}
