package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/task-manager-api/internal/constants"
	"github.com/yukikurage/task-manager-api/internal/middleware"
	"github.com/yukikurage/task-manager-api/internal/observability"
	"github.com/yukikurage/task-manager-api/internal/repository"
	"github.com/yukikurage/task-manager-api/internal/services"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RouterDeps holds everything the HTTP layer is built from.
// Store metrics come from wrapping Store with repository.NewObservedStore.
type RouterDeps struct {
	Logger      *slog.Logger
	Store       repository.Store
	UserService *services.UserService
	TaskService *services.TaskService
	Prom        *observability.Prom
	Gatherer    prometheus.Gatherer
	Tracing     bool
}

// NewRouter wires middleware and routes
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	if deps.Tracing {
		r.Use(otelgin.Middleware(constants.ServiceName))
	}
	r.Use(middleware.RequestID())
	if deps.Logger != nil {
		r.Use(middleware.RequestLogger(deps.Logger))
	}
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	healthHandler := NewHealthHandler(deps.Store.Ping)
	r.GET("/health", healthHandler.Health)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	userHandler := NewUserHandler(deps.UserService)
	taskHandler := NewTaskHandler(deps.TaskService)
	requireAuth := middleware.RequireAuth(deps.UserService)

	// User routes
	users := r.Group("/users")
	{
		users.POST("", userHandler.Register)
		users.POST("/login", userHandler.Login)
		users.GET("/:id/avatar", userHandler.GetAvatar)

		users.POST("/logout", requireAuth, userHandler.Logout)
		users.POST("/logoutAll", requireAuth, userHandler.LogoutAll)
		users.GET("/me", requireAuth, userHandler.GetProfile)
		users.PATCH("/me", requireAuth, userHandler.UpdateProfile)
		users.DELETE("/me", requireAuth, userHandler.DeleteAccount)
		users.POST("/me/avatar", requireAuth, userHandler.UploadAvatar)
		users.DELETE("/me/avatar", requireAuth, userHandler.DeleteAvatar)
	}

	// Task routes (protected)
	tasks := r.Group("/tasks")
	tasks.Use(requireAuth)
	{
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("", taskHandler.ListTasks)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PATCH("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}

	return r
}
