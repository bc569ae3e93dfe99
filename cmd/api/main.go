package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"salarypredictor/internal/config"
	"salarypredictor/internal/models"
	"salarypredictor/internal/server"
	"salarypredictor/internal/store"
	"salarypredictor/pkg/utils"
)

func main() {
	cfgPath := flag.String("config", "", "Optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		utils.Logger().Fatal("load config", zap.Error(err))
	}
	logger := utils.NewLogger(cfg.LogFile)
	defer logger.Sync()

	st := store.New(cfg.ModelDir)
	snap, ok, err := st.Load()
	if err != nil {
		logger.Fatal("load model", zap.String("dir", cfg.ModelDir), zap.Error(err))
	}
	if !ok {
		logger.Warn("model not found, run the trainer first; prediction endpoints answer 500 until then",
			zap.String("dir", cfg.ModelDir))
	} else {
		logger.Info("model loaded",
			zap.Float64("r2", snap.Metrics.R2),
			zap.Float64("rmse", snap.Metrics.RMSE),
			zap.Int("n_total", snap.Metrics.NTotal),
		)
	}

	opts := server.Options{
		Domain:         &models.Domain{Min: cfg.Domain.Min, Max: cfg.Domain.Max},
		MaxRangePoints: cfg.MaxRangePoints,
		StaticDir:      cfg.StaticDir,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	}
	if cfg.HistoryDB != "" {
		h, err := store.OpenHistory(cfg.HistoryDB)
		if err != nil {
			logger.Fatal("open history", zap.Error(err))
		}
		defer h.Close()
		opts.History = h
	}

	gin.SetMode(gin.ReleaseMode)
	sc := server.NewServingContext(snap, opts)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: sc.Router()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.Reload {
		if err := os.MkdirAll(cfg.ModelDir, 0o755); err != nil {
			logger.Fatal("create model dir", zap.Error(err))
		}
		g.Go(func() error { return sc.WatchModelDir(gctx, cfg.ModelDir, st) })
	}

	if err := g.Wait(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server stopped")
}
