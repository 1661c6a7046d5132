package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"meal_backend/internal/app/di"
	"meal_backend/internal/app/router"
	mealhandler "meal_backend/internal/feature/mealdetection/transport/handler"
	"meal_backend/internal/platform/config"
	"meal_backend/internal/platform/http/handler"
	"meal_backend/internal/platform/logging"
)

func main() {
	configFile := flag.String("config", "", "path to config file")
	flag.Parse()

	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg, err := config.NewLoader().Load(*configFile)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 検出器・キャッシュ・監査ログ
	meal, err := di.NewMealDetection(ctx, cfg, logger, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer func() {
		if err := meal.Close(); err != nil {
			logger.Error("failed to close clients", "error", err)
		}
	}()

	// Handler
	healthH := handler.NewHealthHandler(meal.Checks...)
	mealH := mealhandler.NewMealDetectionHandler(meal.Usecase, meal.RunLister(), cfg.Detection.MaxImageSize)

	// ルータ生成
	r := router.NewRouter(cfg, healthH, mealH, meal.Metrics, prometheus.DefaultGatherer)

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.Auth.Required && cfg.Auth.JWTSecret == "" {
		logger.Warn("JWT_SECRET is not set. /v1 will reject every request until a secret is configured.")
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
