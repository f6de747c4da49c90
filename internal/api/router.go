package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"task-tracker/internal/service"
)

// Options configures the HTTP surface.
type Options struct {
	Logger    *zap.SugaredLogger
	StaticDir string
	// Ping reports database reachability for the health endpoint.
	Ping func(ctx context.Context) error
	Now  func() time.Time
}

// NewRouter registers the REST API on a new gin engine.
func NewRouter(tasks *service.TaskService, categories *service.CategoryService, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	r := gin.New()
	SetupMiddleware(r, opts.Logger)

	taskController := NewTaskController(tasks, opts.Logger)
	categoryController := NewCategoryController(categories, opts.Logger)
	started := opts.Now()

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler(opts, started))

		api.GET("/tasks", taskController.List)
		api.DELETE("/tasks", taskController.ClearAll)
		api.GET("/tasks/stats", taskController.Stats)
		api.GET("/tasks/search", taskController.Search)
		api.GET("/tasks/today", taskController.Today)
		api.GET("/tasks/status/:status", taskController.ByStatus)
		api.GET("/tasks/category/:category", taskController.ByCategory)
		api.PUT("/tasks/bulk/update", taskController.BulkUpdate)
		api.DELETE("/tasks/bulk/delete", taskController.BulkDelete)
		api.GET("/tasks/:id", taskController.Get)
		api.POST("/tasks", taskController.Create)
		api.PUT("/tasks/:id", taskController.Update)
		api.DELETE("/tasks/:id", taskController.Delete)

		api.GET("/categories", categoryController.List)
		api.GET("/categories/with-count", categoryController.ListWithCount)
		api.DELETE("/categories/bulk/delete", categoryController.BulkDelete)
		api.GET("/categories/:id", categoryController.Get)
		api.POST("/categories", categoryController.Create)
		api.PUT("/categories/:id", categoryController.Update)
		api.DELETE("/categories/:id", categoryController.Delete)
		api.PATCH("/categories/:id/deactivate", categoryController.Deactivate)
	}

	var static http.Handler
	if opts.StaticDir != "" {
		static = http.FileServer(http.Dir(opts.StaticDir))
	}
	r.NoRoute(func(c *gin.Context) {
		if static != nil && c.Request.Method == http.MethodGet && !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			static.ServeHTTP(c.Writer, c.Request)
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return r
}

func healthHandler(opts Options, started time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		database := "Connected"
		if opts.Ping != nil {
			if err := opts.Ping(c.Request.Context()); err != nil {
				opts.Logger.Warnw("health ping failed", "error", err)
				database = "Disconnected"
			}
		}
		now := opts.Now()
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": now.UTC().Format(time.RFC3339),
			"database":  database,
			"uptime":    now.Sub(started).Seconds(),
		})
	}
}
