package telemetry

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"meal_backend/internal/feature/mealdetection/domain/entity"
	"meal_backend/internal/feature/mealdetection/usecase"
)

// PrometheusRecorder exports detection and HTTP metrics.
type PrometheusRecorder struct {
	detectionsTotal     *prometheus.CounterVec
	secondaryCallsTotal *prometheus.CounterVec
	fallbacksTotal      prometheus.Counter
	itemsDetected       *prometheus.HistogramVec
	detectionDuration   *prometheus.HistogramVec
	droppedItemsTotal   *prometheus.CounterVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var _ usecase.Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder registers the metrics on reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &PrometheusRecorder{
		detectionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mealscan_detections_total",
				Help: "Total number of meal detections",
			},
			[]string{"mode", "path"},
		),
		secondaryCallsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mealscan_secondary_calls_total",
				Help: "Total number of secondary detector calls",
			},
			[]string{"mode", "outcome"},
		),
		fallbacksTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "mealscan_primary_fallbacks_total",
				Help: "Total number of primary fallbacks in secondary-first mode",
			},
		),
		itemsDetected: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mealscan_items_detected",
				Help:    "Number of food items returned per detection",
				Buckets: []float64{0, 1, 2, 3, 4, 5, 6, 8},
			},
			[]string{"path"},
		),
		detectionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mealscan_detection_duration_seconds",
				Help:    "Detection pipeline duration in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2, 4, 8, 16},
			},
			[]string{"path"},
		),
		droppedItemsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mealscan_filtered_items_total",
				Help: "Total number of items dropped by the meal filter",
			},
			[]string{"reason"}, // reason: non_food, category, condiment
		),
		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mealscan_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mealscan_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
	}
}

// Record updates the detection metrics from res.
func (p *PrometheusRecorder) Record(_ context.Context, res *entity.DetectionResult) {
	if res == nil {
		return
	}
	d := res.Diagnostics
	path := string(res.Path)

	p.detectionsTotal.WithLabelValues(string(d.Mode), path).Inc()
	p.itemsDetected.WithLabelValues(path).Observe(float64(len(res.Items)))
	p.detectionDuration.WithLabelValues(path).Observe(d.Elapsed.Seconds())

	if d.SecondaryCalled {
		p.secondaryCallsTotal.WithLabelValues(string(d.Mode), string(d.SecondaryOutcome)).Inc()
	}
	if d.FallbackCalled {
		p.fallbacksTotal.Inc()
	}
	if d.Mode == entity.ModeSecondaryFirst {
		p.droppedItemsTotal.WithLabelValues("non_food").Add(float64(d.DroppedNonFood))
		p.droppedItemsTotal.WithLabelValues("category").Add(float64(d.DroppedCategory))
		p.droppedItemsTotal.WithLabelValues("condiment").Add(float64(d.DroppedCondiment))
	}
}

// Middleware records request counts and latencies per route template.
func (p *PrometheusRecorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		method := c.Request.Method
		p.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		p.httpRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	}
}
