package server

import (
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"salarypredictor/internal/models"
	"salarypredictor/internal/store"
	"salarypredictor/pkg/utils"
)

type predictResponse struct {
	Years      float64 `json:"years"`
	Prediction float64 `json:"prediction"`
	Formatted  string  `json:"formatted"`
	Equation   string  `json:"equation"`
}

type rangeResponse struct {
	Xs []float64 `json:"xs"`
	Ys []float64 `json:"ys"`
}

type modelInfo struct {
	Available   bool    `json:"available"`
	Type        string  `json:"type"`
	Independent string  `json:"independent_variable"`
	Dependent   string  `json:"dependent_variable"`
	Slope       float64 `json:"slope"`
	Intercept   float64 `json:"intercept"`
	R2          float64 `json:"r2"`
	NTotal      int     `json:"n_total"`
	NTrain      int     `json:"n_train"`
	NTest       int     `json:"n_test"`
	Equation    string  `json:"equation"`
}

func (sc *ServingContext) requireSnapshot(c *gin.Context) (*store.Snapshot, bool) {
	snap := sc.Snapshot()
	if snap == nil {
		sc.fail(c, models.NewModelUnavailableError("run the trainer first"))
		return nil, false
	}
	return snap, true
}

func (sc *ServingContext) handlePredict(c *gin.Context) {
	snap, ok := sc.requireSnapshot(c)
	if !ok {
		return
	}
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sc.failBinding(c, err)
		return
	}
	y, err := sc.opts.Domain.PredictOne(snap.Model, *req.Years)
	if err != nil {
		sc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, predictResponse{
		Years:      *req.Years,
		Prediction: math.Round(y*100) / 100,
		Formatted:  utils.Money(y),
		Equation:   snap.Model.Equation(),
	})
}

func (sc *ServingContext) handlePredictRange(c *gin.Context) {
	snap, ok := sc.requireSnapshot(c)
	if !ok {
		return
	}
	// An empty body asks for the default range.
	var req predictRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		sc.failBinding(c, err)
		return
	}
	min, max, points := req.resolve()
	if points > sc.opts.MaxRangePoints {
		sc.fail(c, models.InvalidRange("points must not exceed "+strconv.Itoa(sc.opts.MaxRangePoints), points))
		return
	}
	pts, err := models.PredictRange(snap.Model, min, max, points)
	if err != nil {
		sc.fail(c, err)
		return
	}
	resp := rangeResponse{Xs: make([]float64, len(pts)), Ys: make([]float64, len(pts))}
	for i, p := range pts {
		resp.Xs[i], resp.Ys[i] = p.X, p.Y
	}
	c.JSON(http.StatusOK, resp)
}

func (sc *ServingContext) handleMetrics(c *gin.Context) {
	snap, ok := sc.requireSnapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snap.Metrics)
}

func (sc *ServingContext) handleData(c *gin.Context) {
	snap, ok := sc.requireSnapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snap.Data)
}

func (sc *ServingContext) handleModelInfo(c *gin.Context) {
	snap := sc.Snapshot()
	if snap == nil {
		c.JSON(http.StatusOK, gin.H{"available": false, "message": "the model has not been trained"})
		return
	}
	c.JSON(http.StatusOK, modelInfo{
		Available:   true,
		Type:        "Simple Linear Regression",
		Independent: "Years of Experience",
		Dependent:   "Salary",
		Slope:       snap.Model.Slope,
		Intercept:   snap.Model.Intercept,
		R2:          snap.Metrics.R2,
		NTotal:      snap.Metrics.NTotal,
		NTrain:      snap.Metrics.NTrain,
		NTest:       snap.Metrics.NTest,
		Equation:    snap.Model.Equation(),
	})
}

func (sc *ServingContext) handleHistory(c *gin.Context) {
	if sc.opts.History == nil {
		c.JSON(http.StatusNotFound, errorBody{Error: "history_disabled", Message: "training history is not configured"})
		return
	}
	limit := 20
	if q := c.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			sc.fail(c, models.NewValidationError(models.KindMalformed, "limit", "must be a positive integer", q))
			return
		}
		limit = n
	}
	runs, err := sc.opts.History.Recent(c.Request.Context(), limit)
	if err != nil {
		sc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (sc *ServingContext) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "model_available": sc.Snapshot() != nil})
}
