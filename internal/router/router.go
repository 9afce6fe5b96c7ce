package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/seikotsu/booking-api/internal/handler"
	adminhandler "github.com/seikotsu/booking-api/internal/handler/admin"
	authhandler "github.com/seikotsu/booking-api/internal/handler/auth"
	bookinghandler "github.com/seikotsu/booking-api/internal/handler/booking"
	cataloghandler "github.com/seikotsu/booking-api/internal/handler/catalog"
	profilehandler "github.com/seikotsu/booking-api/internal/handler/profile"
	"github.com/seikotsu/booking-api/internal/middleware"
	"github.com/seikotsu/booking-api/internal/model"
)

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	authH    *authhandler.Handler
	catalogH *cataloghandler.Handler
	profileH *profilehandler.Handler
	bookingH *bookinghandler.Handler
	adminH   *adminhandler.Handler
	h        *handler.Handler
	metrics  *routerMetrics
}

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
	CORSConfig     middleware.CORSConfig
	MetricsPrefix  string
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authhandler.Handler,
	catalogH *cataloghandler.Handler,
	profileH *profilehandler.Handler,
	bookingH *bookinghandler.Handler,
	adminH *adminhandler.Handler,
	h *handler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	model.RegisterValidators()
	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		authH:    authH,
		catalogH: catalogH,
		profileH: profileH,
		bookingH: bookingH,
		adminH:   adminH,
		h:        h,
		metrics:  initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.CORS(config.CORSConfig),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   config.RateLimitRPS,
		Burst: config.RateLimitBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	r.setup(config)
	return r
}

func (r *Router) setup(config Config) {
	api := r.engine.Group("/api/v1")

	r.setupHealthCheck(api)

	timeout := middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout})

	// Public routes
	public := api.Group("")
	public.Use(timeout)
	r.authH.RegisterRoutes(public)
	r.catalogH.RegisterRoutes(public)
	r.bookingH.RegisterPublicRoutes(public)

	// Authenticated routes
	protected := api.Group("")
	protected.Use(timeout, r.auth.Authenticate())
	r.authH.RegisterProtectedRoutes(protected)
	r.profileH.RegisterRoutes(protected)
	r.bookingH.RegisterRoutes(protected)

	// Admin routes. The change stream holds its connection open, so the
	// admin group skips the timeout middleware.
	admin := api.Group("")
	admin.Use(r.auth.Authenticate(), r.auth.RequireAdmin())
	r.adminH.RegisterRoutes(admin)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func initRouterMetrics(prefix string) *routerMetrics {
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
	prometheus.MustRegister(m.requestDuration, m.requestTotal, m.errorTotal)
	return m
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
