package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"salarypredictor/internal/charts"
	"salarypredictor/internal/data"
	"salarypredictor/internal/models"
	"salarypredictor/internal/store"
	"salarypredictor/internal/training"
	"salarypredictor/pkg/utils"
)

var exampleYears = []float64{1, 3, 5, 8, 10, 12, 15}

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	dataPath := flag.String("data", "data/SalaryData.csv", "Dataset CSV (YearsExperience,Salary)")
	regen := flag.Bool("regen", false, "Regenerate a synthetic dataset at -data before training")
	n := flag.Int("n", 30, "Rows of synthetic data when generating")
	ratio := flag.Float64("ratio", models.DefaultTrainRatio, "Share of samples used for training")
	seed := flag.Int64("seed", models.DefaultSeed, "Seed of the train/test split")
	modelDir := flag.String("model_dir", "model", "Directory of the persisted model")
	plotOut := flag.String("plot", "static/model_chart.png", "PNG chart output, empty to skip")
	htmlOut := flag.String("html", "static/model_chart.html", "Interactive HTML chart output, empty to skip")
	historyDB := flag.String("history", "", "Optional sqlite file recording every training run")
	resamples := flag.Int("bootstrap", models.DefaultResamples, "Bootstrap resamples for coefficient intervals, 0 to skip")
	flag.Parse()

	if _, err := os.Stat(*dataPath); *regen || errors.Is(err, os.ErrNotExist) {
		logger.Info("generating synthetic dataset", zap.Int("n", *n), zap.String("out", *dataPath))
		if err := data.GenerateSyntheticSalaries(*n, *seed, *dataPath); err != nil {
			logger.Fatal("generate dataset", zap.Error(err))
		}
	}

	ds, err := data.LoadCSV(*dataPath)
	if err != nil {
		logger.Fatal("load dataset", zap.Error(err))
	}
	logger.Info("dataset loaded",
		zap.Int("rows", ds.Len()),
		zap.Strings("columns", []string{ds.XName, ds.YName}),
	)

	res, err := training.Run(ds, *ratio, *seed)
	if err != nil {
		logger.Fatal("training failed", zap.Error(err))
	}
	m := res.Metrics
	logger.Info("model fitted",
		zap.String("model", res.Model.Name()),
		zap.Float64("slope", res.Model.Slope),
		zap.Float64("intercept", res.Model.Intercept),
		zap.Int("n_train", m.NTrain),
		zap.Int("n_test", m.NTest),
	)
	logger.Info("holdout metrics",
		zap.Float64("mae", m.MAE),
		zap.Float64("mse", m.MSE),
		zap.Float64("rmse", m.RMSE),
		zap.Float64("r2", m.R2),
		zap.Bool("r2_undefined", m.R2Undefined),
	)
	if m.R2Undefined {
		logger.Warn("all test targets are equal, r2 reported as 0")
	}

	if *resamples > 0 {
		b, err := models.BootstrapFit(res.Train, *resamples, 0.95, *seed)
		if err != nil {
			logger.Warn("bootstrap intervals", zap.Error(err))
		} else {
			logger.Info("coefficient intervals",
				zap.Float64("level", b.Level),
				zap.Int("resamples", b.Resamples),
				zap.Float64s("slope", []float64{b.Slope.Lo, b.Slope.Hi}),
				zap.Float64s("intercept", []float64{b.Intercept.Lo, b.Intercept.Hi}),
			)
		}
	}

	st := store.New(*modelDir)
	if err := st.Save(res.Snapshot()); err != nil {
		logger.Fatal("save model", zap.Error(err))
	}
	logger.Info("model saved", zap.String("dir", *modelDir))

	if *historyDB != "" {
		if err := recordHistory(*historyDB, m); err != nil {
			logger.Warn("record training history", zap.Error(err))
		}
	}

	if *plotOut != "" {
		if err := charts.ModelPNG(*plotOut, ds.Samples, res.Train, res.Test, res.Model); err != nil {
			logger.Warn("render png chart", zap.Error(err))
		} else {
			logger.Info("chart saved", zap.String("png", *plotOut))
		}
	}
	if *htmlOut != "" {
		if err := charts.ModelHTML(*htmlOut, ds.Samples, res.Train, res.Test, res.Model); err != nil {
			logger.Warn("render html chart", zap.Error(err))
		} else {
			logger.Info("chart saved", zap.String("html", *htmlOut))
		}
	}

	for _, y := range exampleYears {
		logger.Info("example prediction",
			zap.Float64("years", y),
			zap.String("salary", utils.Money(res.Model.PredictOne(y))),
		)
	}
	fmt.Println("Model:", res.Model.Equation())
}

func recordHistory(path string, m models.Metrics) error {
	h, err := store.OpenHistory(path)
	if err != nil {
		return err
	}
	defer h.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = h.Record(ctx, m)
	return err
}
