package charts

import (
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"salarypredictor/internal/data"
	"salarypredictor/internal/models"
)

var (
	trainColor = color.RGBA{R: 0x5B, G: 0x7C, B: 0x99, A: 0xff}
	testColor  = color.RGBA{R: 0x7F, G: 0xA3, B: 0xC9, A: 0xff}
	lineColor  = color.RGBA{R: 0xE7, G: 0x4C, B: 0x3C, A: 0xff}
)

// LinePoints is how many points draw the regression line.
const LinePoints = 100

func toXYs(s []data.Sample) plotter.XYs {
	pts := make(plotter.XYs, len(s))
	for i := range s {
		pts[i].X, pts[i].Y = s[i].X, s[i].Y
	}
	return pts
}

// ModelPNG draws train and test samples with the fitted line across all samples.
func ModelPNG(path string, all, train, test []data.Sample, m models.LinearModel) error {
	p := plot.New()
	p.Title.Text = "Linear Regression: Salary vs Years of Experience"
	p.X.Label.Text = "Years of Experience"
	p.Y.Label.Text = "Salary ($)"
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	trSc, err := plotter.NewScatter(toXYs(train))
	if err != nil {
		return err
	}
	trSc.GlyphStyle.Color = trainColor
	trSc.GlyphStyle.Shape = draw.CircleGlyph{}
	trSc.GlyphStyle.Radius = vg.Points(4)

	teSc, err := plotter.NewScatter(toXYs(test))
	if err != nil {
		return err
	}
	teSc.GlyphStyle.Color = testColor
	teSc.GlyphStyle.Shape = draw.CircleGlyph{}
	teSc.GlyphStyle.Radius = vg.Points(4)

	min, max := data.Bounds(all)
	pts, err := models.PredictRange(m, min, max, LinePoints)
	if err != nil {
		return err
	}
	lineXY := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		lineXY[i].X, lineXY[i].Y = pt.X, pt.Y
	}
	ln, err := plotter.NewLine(lineXY)
	if err != nil {
		return err
	}
	ln.LineStyle.Color = lineColor
	ln.LineStyle.Width = vg.Points(3)

	p.Add(trSc, teSc, ln)
	p.Legend.Add("Training data", trSc)
	p.Legend.Add("Test data", teSc)
	p.Legend.Add("Regression line", ln)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

// CurvePNG draws train and test RMSE against training size.
func CurvePNG(path string, sizes []int, trainRMSE, testRMSE []float64) error {
	p := plot.New()
	p.Title.Text = "Learning Curve"
	p.X.Label.Text = "Training samples"
	p.Y.Label.Text = "RMSE"

	toXY := func(xs []int, ys []float64) plotter.XYs {
		pts := make(plotter.XYs, len(xs))
		for i := range xs {
			pts[i].X = float64(xs[i])
			pts[i].Y = ys[i]
		}
		return pts
	}
	if err := plotutil.AddLinePoints(p, "Train (RMSE)", toXY(sizes, trainRMSE), "Test (RMSE)", toXY(sizes, testRMSE)); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
