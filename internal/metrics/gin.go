package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "resumesync",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP 请求耗时分布（秒）。",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route", "status"},
	)

	requestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "resumesync",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "当前正在处理的 HTTP 请求数量。",
		},
	)

	liveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "resumesync",
			Subsystem: "http",
			Name:      "live_preview_connections",
			Help:      "当前打开的实时预览 WebSocket 连接数。",
		},
	)
)

// GinMiddleware 记录每个路由的耗时与并发数。未匹配的路由统一归为 "unmatched"，避免标签爆炸。
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestsInFlight.Inc()
		defer requestsInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

// Handler 暴露 /metrics 端点。
func Handler() http.Handler {
	return promhttp.Handler()
}

// TrackLiveConnection 在连接建立时调用，返回的函数在连接关闭时调用。
func TrackLiveConnection() func() {
	liveConnections.Inc()
	return liveConnections.Dec
}
