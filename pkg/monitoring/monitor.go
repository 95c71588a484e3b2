package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// LedgerOperations 学习记录操作次数，按 op 与结果（success、already_completed、rejected、store_failure）计数
	LedgerOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aksara",
			Name:      "ledger_operations_total",
			Help:      "Total number of ledger operations by outcome",
		},
		[]string{"op", "outcome"},
	)

	// TintaGranted 按奖励类型累计发放的 tinta
	TintaGranted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aksara",
			Name:      "tinta_granted_total",
			Help:      "Total amount of tinta granted by reward kind",
		},
		[]string{"kind"},
	)
)

var collectors = []prometheus.Collector{
	RequestCounter,
	RequestDuration,
	LedgerOperations,
	TintaGranted,
}

// Init 注册指标，重复注册时忽略
func Init() {
	for _, c := range collectors {
		if err := prometheus.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				panic(err)
			}
		}
	}
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
