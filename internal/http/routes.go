package http

import (
	"time"

	"task_tracker/internal/http/handlers"
	"task_tracker/internal/http/middleware"
	"task_tracker/internal/service"
	"task_tracker/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	Version       string
	AllowedOrigin string

	// Limiter is nil or RateLimit <= 0 to disable rate limiting
	Limiter    middleware.Limiter
	RateLimit  int
	RateWindow time.Duration

	// Auth guards mutating routes and the feed when non-nil
	Auth *service.Authenticator

	// Hub serves /ws/tasks when non-nil
	Hub *ws.Hub
}

// NewRouter builds the gin engine with the standard middleware chain.
func NewRouter(tasks *service.TaskService, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(opts.AllowedOrigin))

	RegisterRoutes(r, tasks, opts)
	return r
}

func RegisterRoutes(r *gin.Engine, tasks *service.TaskService, opts Options) {
	h := handlers.NewHandler(tasks)
	healthHandler := handlers.NewHealthHandler(tasks, opts.Version)
	if opts.Hub != nil {
		healthHandler.WithFeed(opts.Hub.Count)
	}

	// Liveness and ops endpoints (no rate limiting)
	r.GET("/", h.Root)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var guard []gin.HandlerFunc
	var verify ws.TokenVerifier
	if opts.Auth != nil {
		guard = append(guard, middleware.JWT(opts.Auth))
		verify = opts.Auth.ParseJWT
	}
	write := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, guard...), handler)
	}

	api := r.Group("/tasks")
	api.Use(middleware.RateLimit(opts.Limiter, opts.RateLimit, opts.RateWindow))
	{
		api.GET("", h.ListTasks)
		api.POST("", write(h.CreateTask)...)
		api.GET("/:id", h.GetTask)
		api.PUT("/:id", write(h.UpdateTask)...)
		api.PATCH("/:id", write(h.UpdateTask)...)
		api.DELETE("/:id", write(h.DeleteTask)...)
	}

	if opts.Hub != nil {
		r.GET("/ws/tasks", ws.HandleWS(opts.Hub, opts.AllowedOrigin, verify))
	}
}
