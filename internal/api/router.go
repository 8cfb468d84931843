// Package api wires the HTTP handlers, middleware and routes.
package api

import (
	"net/http"

	"energy-lsmc/internal/api/handlers"
	"energy-lsmc/internal/api/middleware"
	"energy-lsmc/internal/config"
	"energy-lsmc/internal/data"
	"energy-lsmc/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the long-lived services shared by all handlers.
type Deps struct {
	Server  *config.ServerConfig
	Logger  *zap.Logger
	Store   *data.ResultStore
	Metrics *metrics.Metrics
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Server.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.CORS(d.Server.AllowedOrigins))
	router.Use(middleware.Logger(d.Logger, d.Metrics))
	router.Use(middleware.ErrorHandler(d.Logger))

	limits := handlers.Limits{Workers: d.Server.Workers, MaxScenarios: d.Server.MaxScenarios}

	// Initialize handlers
	contractHandler := handlers.NewContractHandler(d.Server.ContractDir, d.Logger)
	engineHandler := handlers.NewEngineHandler()
	valuationHandler := handlers.NewValuationHandler(d.Store, contractHandler, d.Metrics, d.Logger, limits)
	analysisHandler := handlers.NewAnalysisHandler(contractHandler, d.Logger, limits)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "stored_results": d.Store.Len()})
	})
	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/valuations/storage", valuationHandler.ValueStorage)
		api.POST("/valuations/swing", valuationHandler.ValueSwing)
		api.GET("/valuations/:id", valuationHandler.GetValuation)
		api.GET("/valuations/:id/path", valuationHandler.GetPath)

		api.POST("/analysis/sweep", analysisHandler.Sweep)
		api.POST("/analysis/decompose", analysisHandler.Decompose)

		api.GET("/contracts", contractHandler.ListContracts)
		api.GET("/engines", engineHandler.ListEngines)
	}

	router.NoRoute(middleware.NotFound())
	return router
}
