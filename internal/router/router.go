package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/medipoint/clinic-api/internal/middleware"
)

// Handler registers its routes on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	requestH     Handler
	appointmentH Handler
	doctorH      Handler
	healthH      Handler
	metrics      *routerMetrics
	config       Config
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

type Config struct {
	RateLimitEnabled  bool
	RequestsPerSecond float64
	Burst             int
	CORS              middleware.CORSConfig
	MetricsNamespace  string
}

func NewRouter(auth *middleware.AuthMiddleware, requestH, appointmentH, doctorH, healthH Handler, config Config) *Router {
	gin.SetMode(gin.ReleaseMode)

	r := &Router{
		engine:       gin.New(),
		auth:         auth,
		requestH:     requestH,
		appointmentH: appointmentH,
		doctorH:      doctorH,
		healthH:      healthH,
		metrics:      initRouterMetrics(config.MetricsNamespace),
		config:       config,
	}

	r.engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(config.CORS),
		r.metricsMiddleware(),
	)

	if config.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  rate.Limit(config.RequestsPerSecond),
			Burst: config.Burst,
		})
		r.engine.Use(limiter.RateLimit())
	}

	return r
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Setup wires all route groups.
func (r *Router) Setup() {
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.engine.Group("")
	r.healthH.RegisterRoutes(public)

	api := r.engine.Group("/api/v1")
	api.Use(r.auth.Authenticate())

	r.requestH.RegisterRoutes(api)
	r.appointmentH.RegisterRoutes(api)
	r.doctorH.RegisterRoutes(api)
}

func initRouterMetrics(namespace string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
