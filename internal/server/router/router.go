package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/internal/server/handlers"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Products  *handlers.ProductsHandler
	Logs      *handlers.LogsHandler
	Goals     *handlers.GoalsHandler
	Templates *handlers.TemplatesHandler
}

// New wires the Gin engine with required routes and middlewares. Everything
// except the health check sits behind API key authentication.
func New(h Handlers, apiKeys map[string]string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authed := r.Group("/", handlers.APIKeyAuth(apiKeys, logger))

	products := authed.Group("/products")
	{
		products.GET("/search", h.Products.Search)
		products.GET("/barcode/:code", h.Products.Barcode)
		products.POST("/manual", h.Products.CreateManual)
		products.GET("/:source/:id", h.Products.Resolve)
	}

	logs := authed.Group("/logs")
	{
		logs.POST("", h.Logs.Create)
		logs.GET("", h.Logs.List)
		logs.GET("/:id", h.Logs.Get)
		logs.PATCH("/:id", h.Logs.Update)
		logs.DELETE("/:id", h.Logs.Delete)
	}

	summary := authed.Group("/summary")
	{
		summary.GET("/daily/nutrition", h.Logs.DailyNutrition)
		summary.GET("/daily/hydration", h.Logs.DailyHydration)
		summary.GET("/range/nutrition", h.Logs.NutritionRange)
		summary.GET("/range/hydration", h.Logs.HydrationRange)
	}

	export := authed.Group("/export")
	{
		export.GET("/csv", h.Logs.ExportCSV)
		export.POST("/sheets", h.Logs.ExportSheet)
	}

	goals := authed.Group("/goals")
	{
		goals.GET("", h.Goals.Get)
		goals.PUT("", h.Goals.Update)
		goals.GET("/progress", h.Goals.Progress)
	}

	templates := authed.Group("/templates")
	{
		templates.POST("", h.Templates.Create)
		templates.GET("", h.Templates.List)
		templates.DELETE("/:id", h.Templates.Delete)
		templates.POST("/:id/log", h.Templates.Log)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
