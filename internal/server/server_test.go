package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"salarypredictor/internal/data"
	"salarypredictor/internal/models"
	"salarypredictor/internal/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testSnapshot() *store.Snapshot {
	all := []data.Sample{{X: 1, Y: 27000}, {X: 2, Y: 29000}, {X: 3, Y: 31000}, {X: 4, Y: 33000}, {X: 5, Y: 35000}}
	return &store.Snapshot{
		Model: models.LinearModel{Slope: 2000, Intercept: 25000},
		Metrics: models.Metrics{
			R2: 1, Slope: 2000, Intercept: 25000,
			NTotal: 5, NTrain: 4, NTest: 1,
			TrainedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		Data: store.NewTrainingData(all, all[:4], all[4:]),
	}
}

func do(t *testing.T, sc *ServingContext, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	sc.Router().ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func TestPredict(t *testing.T) {
	sc := NewServingContext(testSnapshot(), Options{})
	code, out := do(t, sc, http.MethodPost, "/predict", `{"years": 5}`)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 5.0, out["years"])
	assert.Equal(t, 35000.0, out["prediction"])
	assert.Equal(t, "$35,000.00", out["formatted"])
	assert.Equal(t, "Salary = 25000.00 + 2000.00 × Years", out["equation"])
}

func TestPredictDomainBounds(t *testing.T) {
	sc := NewServingContext(testSnapshot(), Options{})
	cases := map[string]struct {
		body string
		code int
		kind string
	}{
		"zero":       {`{"years": 0}`, http.StatusOK, ""},
		"fifty":      {`{"years": 50}`, http.StatusOK, ""},
		"negative":   {`{"years": -0.1}`, http.StatusBadRequest, "out_of_domain"},
		"above max":  {`{"years": 50.1}`, http.StatusBadRequest, "out_of_domain"},
		"missing":    {`{}`, http.StatusBadRequest, "malformed"},
		"wrong type": {`{"years": "five"}`, http.StatusBadRequest, "malformed"},
		"bad json":   {`{"years": `, http.StatusBadRequest, "malformed"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			code, out := do(t, sc, http.MethodPost, "/predict", tc.body)
			assert.Equal(t, tc.code, code)
			if tc.kind != "" {
				assert.Equal(t, tc.kind, out["error"])
				assert.NotEmpty(t, out["message"])
			}
		})
	}
}

func TestPredictMissingFieldDetails(t *testing.T) {
	sc := NewServingContext(testSnapshot(), Options{})
	_, out := do(t, sc, http.MethodPost, "/predict", `{}`)

	details, ok := out["details"].([]interface{})
	require.True(t, ok)
	require.Len(t, details, 1)
	d := details[0].(map[string]interface{})
	assert.Equal(t, "years", d["field"])
	assert.Equal(t, "required", d["rule"])
}

func TestPredictCustomDomain(t *testing.T) {
	sc := NewServingContext(testSnapshot(), Options{Domain: &models.Domain{Min: 1, Max: 10}})
	code, _ := do(t, sc, http.MethodPost, "/predict", `{"years": 0}`)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, sc, http.MethodPost, "/predict", `{"years": 10}`)
	assert.Equal(t, http.StatusOK, code)
}

func TestPredictZeroWidthDomain(t *testing.T) {
	sc := NewServingContext(testSnapshot(), Options{Domain: &models.Domain{}})
	code, out := do(t, sc, http.MethodPost, "/predict", `{"years": 0}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 25000.0, out["prediction"])

	code, out = do(t, sc, http.MethodPost, "/predict", `{"years": 5}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "out_of_domain", out["error"])
}

func TestNoModel(t *testing.T) {
	sc := NewServingContext(nil, Options{})

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPost, "/predict", `{"years": 5}`},
		{http.MethodPost, "/predict_range", `{}`},
		{http.MethodGet, "/metrics", ""},
		{http.MethodGet, "/data", ""},
	} {
		code, out := do(t, sc, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusInternalServerError, code, tc.path)
		assert.Equal(t, "model_unavailable", out["error"], tc.path)
	}

	code, out := do(t, sc, http.MethodGet, "/model_info", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, out["available"])
	assert.NotEmpty(t, out["message"])

	code, out = do(t, sc, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, out["model_available"])
}

func TestPredictRange(t *testing.T) {
	sc := NewServingContext(testSnapshot(), Options{MaxRangePoints: 100})

	t.Run("explicit", func(t *testing.T) {
		code, out := do(t, sc, http.MethodPost, "/predict_range", `{"min": 0, "max": 10, "points": 3}`)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, []interface{}{0.0, 5.0, 10.0}, out["xs"])
		assert.Equal(t, []interface{}{25000.0, 35000.0, 45000.0}, out["ys"])
	})
	t.Run("defaults", func(t *testing.T) {
		for _, body := range []string{`{}`, ""} {
			code, out := do(t, sc, http.MethodPost, "/predict_range", body)
			require.Equal(t, http.StatusOK, code)
			xs := out["xs"].([]interface{})
			require.Len(t, xs, 50)
			assert.Equal(t, 0.0, xs[0])
			assert.Equal(t, 20.0, xs[49])
		}
	})
	t.Run("single point", func(t *testing.T) {
		code, out := do(t, sc, http.MethodPost, "/predict_range", `{"min": 4, "max": 9, "points": 1}`)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, []interface{}{4.0}, out["xs"])
	})

	for name, tc := range map[string]struct {
		body string
		kind string
	}{
		"inverted":     {`{"min": 10, "max": 5}`, "invalid_range"},
		"zero points":  {`{"points": 0}`, "malformed"},
		"above cap":    {`{"points": 101}`, "invalid_range"},
		"string value": {`{"min": "a"}`, "malformed"},
		"overflowing":  {`{"min": 0, "max": 1e306, "points": 2}`, "invalid_range"},
		"extreme":      {`{"min": -1e308, "max": 1e308, "points": 3}`, "invalid_range"},
	} {
		t.Run(name, func(t *testing.T) {
			code, out := do(t, sc, http.MethodPost, "/predict_range", tc.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tc.kind, out["error"])
		})
	}
}

func TestMetricsAndInfo(t *testing.T) {
	sc := NewServingContext(testSnapshot(), Options{})

	code, out := do(t, sc, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1.0, out["r2"])
	assert.Equal(t, 2000.0, out["slope"])
	assert.Equal(t, 4.0, out["n_train"])
	assert.Equal(t, false, out["r2_undefined"])

	code, out = do(t, sc, http.MethodGet, "/model_info", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["available"])
	assert.Equal(t, "Years of Experience", out["independent_variable"])
	assert.Equal(t, 25000.0, out["intercept"])
	assert.Equal(t, 5.0, out["n_total"])

	code, out = do(t, sc, http.MethodGet, "/data", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, out["x_train"], 4)
	assert.Len(t, out["y_all"], 5)
}

func TestUnknownRoute(t *testing.T) {
	sc := NewServingContext(testSnapshot(), Options{})
	code, out := do(t, sc, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", out["error"])
}

func TestDashboardIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Salary predictor</h1>"), 0o644))
	sc := NewServingContext(testSnapshot(), Options{StaticDir: dir})

	w := httptest.NewRecorder()
	sc.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Salary predictor")

	code, out := do(t, NewServingContext(testSnapshot(), Options{StaticDir: t.TempDir()}), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", out["error"])
}

func TestFavicon(t *testing.T) {
	sc := NewServingContext(nil, Options{})
	code, _ := do(t, sc, http.MethodGet, "/favicon.ico", "")
	assert.Equal(t, http.StatusNoContent, code)
}

func TestCORS(t *testing.T) {
	sc := NewServingContext(testSnapshot(), Options{AllowedOrigins: []string{"http://localhost:3000"}})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	sc.Router().ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHistory(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		code, out := do(t, NewServingContext(nil, Options{}), http.MethodGet, "/history", "")
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "history_disabled", out["error"])
	})

	t.Run("lists runs", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := NewMockHistoryReader(ctrl)
		h.EXPECT().Recent(gomock.Any(), 5).Return([]store.Run{{ID: 7, Metrics: models.Metrics{R2: 0.9}}}, nil)

		code, out := do(t, NewServingContext(nil, Options{History: h}), http.MethodGet, "/history?limit=5", "")
		require.Equal(t, http.StatusOK, code)
		runs := out["runs"].([]interface{})
		require.Len(t, runs, 1)
		assert.Equal(t, 7.0, runs[0].(map[string]interface{})["id"])
	})

	t.Run("bad limit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := NewMockHistoryReader(ctrl)
		code, out := do(t, NewServingContext(nil, Options{History: h}), http.MethodGet, "/history?limit=abc", "")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "malformed", out["error"])
	})

	t.Run("store failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := NewMockHistoryReader(ctrl)
		h.EXPECT().Recent(gomock.Any(), 20).Return(nil, errors.New("disk I/O error"))
		code, out := do(t, NewServingContext(nil, Options{History: h}), http.MethodGet, "/history", "")
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "internal", out["error"])
	})
}

func TestReload(t *testing.T) {
	first := testSnapshot()
	next := testSnapshot()
	next.Model.Slope = 3000

	t.Run("swaps snapshot", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		l := NewMockLoader(ctrl)
		l.EXPECT().Load().Return(next, true, nil)

		sc := NewServingContext(first, Options{})
		require.NoError(t, sc.Reload(l))
		assert.Same(t, next, sc.Snapshot())

		_, out := do(t, sc, http.MethodPost, "/predict", `{"years": 5}`)
		assert.Equal(t, 40000.0, out["prediction"])
	})
	t.Run("keeps current when absent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		l := NewMockLoader(ctrl)
		l.EXPECT().Load().Return(nil, false, nil)

		sc := NewServingContext(first, Options{})
		require.NoError(t, sc.Reload(l))
		assert.Same(t, first, sc.Snapshot())
	})
	t.Run("keeps current on error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		l := NewMockLoader(ctrl)
		l.EXPECT().Load().Return(nil, false, errors.New("decode linear_model.gob: unexpected EOF"))

		sc := NewServingContext(first, Options{})
		assert.Error(t, sc.Reload(l))
		assert.Same(t, first, sc.Snapshot())
	})
}

func TestWatchModelDir(t *testing.T) {
	dir := t.TempDir()
	st := store.New(dir)
	sc := NewServingContext(nil, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sc.WatchModelDir(ctx, dir, st) }()

	assert.Eventually(t, func() bool {
		if sc.Snapshot() != nil {
			return true
		}
		_ = st.Save(*testSnapshot())
		return false
	}, 5*time.Second, 400*time.Millisecond)
	assert.Equal(t, 2000.0, sc.Snapshot().Model.Slope)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
