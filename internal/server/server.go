package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salarypredictor/internal/models"
	"salarypredictor/internal/store"
)

//go:generate mockgen -source=server.go -destination=mock_server_test.go -package=server

// Loader yields the latest persisted snapshot. *store.Store satisfies it.
type Loader interface {
	Load() (*store.Snapshot, bool, error)
}

// HistoryReader lists past training runs. *store.History satisfies it.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]store.Run, error)
}

type Options struct {
	// Domain guards /predict. Nil means DefaultDomain.
	Domain         *models.Domain
	MaxRangePoints int
	StaticDir      string
	AllowedOrigins []string
	History        HistoryReader
	Logger         *zap.Logger
}

// ServingContext holds what the handlers read. The snapshot is swapped whole on reload and
// never modified, so requests read it without locking.
type ServingContext struct {
	snap atomic.Pointer[store.Snapshot]
	opts Options
	log  *zap.Logger
}

// NewServingContext builds a context serving snap. A nil snap means no model is available.
func NewServingContext(snap *store.Snapshot, opts Options) *ServingContext {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxRangePoints <= 0 {
		opts.MaxRangePoints = 1000
	}
	if opts.Domain == nil {
		d := models.DefaultDomain()
		opts.Domain = &d
	}
	sc := &ServingContext{opts: opts, log: opts.Logger}
	if snap != nil {
		sc.snap.Store(snap)
	}
	return sc
}

func (sc *ServingContext) Snapshot() *store.Snapshot { return sc.snap.Load() }

// Reload replaces the served snapshot with the loader's. On error or when the loader has nothing,
// the current snapshot stays in place.
func (sc *ServingContext) Reload(l Loader) error {
	snap, ok, err := l.Load()
	if err != nil {
		sc.log.Error("model reload failed", zap.Error(err))
		return err
	}
	if !ok {
		sc.log.Warn("model reload found no model, keeping current")
		return nil
	}
	sc.snap.Store(snap)
	sc.log.Info("model reloaded",
		zap.Float64("slope", snap.Model.Slope),
		zap.Float64("intercept", snap.Model.Intercept),
		zap.Time("trained_at", snap.Metrics.TrainedAt),
	)
	return nil
}

func (sc *ServingContext) Router() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(sc.log), gin.Recovery())
	if len(sc.opts.AllowedOrigins) > 0 {
		cfg := cors.DefaultConfig()
		if len(sc.opts.AllowedOrigins) == 1 && sc.opts.AllowedOrigins[0] == "*" {
			cfg.AllowAllOrigins = true
		} else {
			cfg.AllowOrigins = sc.opts.AllowedOrigins
		}
		r.Use(cors.New(cfg))
	}

	if sc.opts.StaticDir != "" {
		r.Static("/static", sc.opts.StaticDir)
		index := filepath.Join(sc.opts.StaticDir, "index.html")
		if _, err := os.Stat(index); err == nil {
			r.StaticFile("/", index)
		}
	}
	r.GET("/favicon.ico", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/health", sc.handleHealth)

	r.POST("/predict", sc.handlePredict)
	r.POST("/predict_range", sc.handlePredictRange)
	r.GET("/metrics", sc.handleMetrics)
	r.GET("/model_info", sc.handleModelInfo)
	r.GET("/data", sc.handleData)
	r.GET("/history", sc.handleHistory)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{Error: "not_found", Message: "route " + c.Request.URL.Path + " does not exist"})
	})
	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
