package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"meal_backend/internal/feature/mealdetection/adapters/telemetry"
	mealhandler "meal_backend/internal/feature/mealdetection/transport/handler"
	"meal_backend/internal/platform/config"
	"meal_backend/internal/platform/http/handler"
	jwtmw "meal_backend/internal/platform/jwt"
)

// NewRouter は食事検出APIのルーティングを構築します。
// metrics が nil の場合は /metrics とリクエスト計測を無効にします。
func NewRouter(cfg *config.Config, health *handler.HealthHandler, meal *mealhandler.MealDetectionHandler,
	metrics *telemetry.PrometheusRecorder, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.Server.CORSOrigins) == 0 || (len(cfg.Server.CORSOrigins) == 1 && cfg.Server.CORSOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.Server.CORSOrigins
	}
	corsCfg.AddAllowHeaders("Authorization")
	r.Use(cors.New(corsCfg))

	if metrics != nil {
		r.Use(metrics.Middleware())
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// 認証不要
	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)
	r.OPTIONS("/healthz", health.Health)

	// 認証必須のルート
	v1 := r.Group("/v1")
	if cfg.Auth.Required {
		// → リクエストヘッダーに meals:detect スコープ付きの JWT が必要になる
		v1.Use(jwtmw.AuthRequired(cfg.Auth.JWTSecret, jwtmw.ScopeMealsDetect))
	}
	{
		v1.POST("/meals/detect", meal.Detect)
		v1.GET("/meals/detections", meal.ListDetections)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return r
}
