package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"salarypredictor/internal/charts"
	"salarypredictor/internal/data"
	"salarypredictor/internal/models"
	"salarypredictor/internal/training"
	"salarypredictor/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	dataPath := flag.String("data", "data/SalaryData.csv", "Dataset CSV")
	points := flag.Int("points", 8, "Points on the curve")
	minSize := flag.Int("min", 2, "Smallest training size")
	ratio := flag.Float64("ratio", models.DefaultTrainRatio, "Share of samples used for training")
	seed := flag.Int64("seed", models.DefaultSeed, "Seed of the train/test split")
	outImg := flag.String("out_img", "static/learning_curve.png", "PNG output")
	outCsv := flag.String("out_csv", "data/learning_curve.csv", "CSV output")
	flag.Parse()

	ds, err := data.LoadCSV(*dataPath)
	if err != nil {
		logger.Fatal("load dataset", zap.Error(err))
	}
	train, test, err := models.Split(ds.Samples, *ratio, *seed)
	if err != nil {
		logger.Fatal("split", zap.Error(err))
	}

	curve, err := training.LearningCurve(train, test, training.CurveSizes(len(train), *points, *minSize))
	if err != nil {
		logger.Fatal("learning curve", zap.Error(err))
	}
	if len(curve) == 0 {
		logger.Fatal("no curve point could be fitted", zap.Int("n_train", len(train)))
	}

	sizes := make([]int, len(curve))
	trainRMSE := make([]float64, len(curve))
	testRMSE := make([]float64, len(curve))
	for i, pt := range curve {
		sizes[i] = pt.Size
		trainRMSE[i] = pt.Train.RMSE
		testRMSE[i] = pt.Test.RMSE
		fmt.Printf("size=%d | train_rmse=%.2f | test_rmse=%.2f | test_r2=%.4f\n", pt.Size, pt.Train.RMSE, pt.Test.RMSE, pt.Test.R2)
	}

	if err := writeCSV(*outCsv, curve); err != nil {
		logger.Warn("save curve csv", zap.Error(err))
	} else {
		logger.Info("curve saved", zap.String("csv", *outCsv))
	}
	if err := charts.CurvePNG(*outImg, sizes, trainRMSE, testRMSE); err != nil {
		logger.Warn("save curve png", zap.Error(err))
	} else {
		logger.Info("curve saved", zap.String("png", *outImg))
	}
}

func writeCSV(path string, curve []training.CurvePoint) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"size", "train_rmse", "test_rmse", "train_r2", "test_r2"}); err != nil {
		return err
	}
	for _, pt := range curve {
		rec := []string{strconv.Itoa(pt.Size),
			fmt.Sprintf("%.6f", pt.Train.RMSE), fmt.Sprintf("%.6f", pt.Test.RMSE),
			fmt.Sprintf("%.6f", pt.Train.R2), fmt.Sprintf("%.6f", pt.Test.R2),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
