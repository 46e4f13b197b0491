// Package api assembles the HTTP surface of the scenario engine.
package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"property-financing/internal/api/handlers"
	"property-financing/internal/api/middleware"
	"property-financing/internal/cache"
	"property-financing/internal/engine"
	"property-financing/internal/store"
)

// Options configures NewRouter. Store is required.
type Options struct {
	Store       *store.StateStore
	Engine      *engine.Engine
	Cache       *cache.ResultCache
	Logger      *zap.Logger
	CORSOrigins []string
	StaticDir   string // optional built web client
}

func NewRouter(opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.CORS(opts.CORSOrigins...))
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler(log))

	eval := handlers.NewEvaluator(opts.Engine, opts.Cache, log)
	scenarioHandler := handlers.NewScenarioHandler(eval)
	stateHandler := handlers.NewStateHandler(opts.Store, eval, log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/evaluate", scenarioHandler.Evaluate)
		v1.POST("/compare", scenarioHandler.Compare)

		v1.GET("/defaults", handlers.Defaults)
		v1.GET("/metrics", handlers.ListMetrics)
		v1.POST("/convert", handlers.Convert)

		v1.GET("/state", stateHandler.GetState)
		v1.PUT("/state", stateHandler.PutState)
		v1.POST("/state/reset", stateHandler.ResetState)
		v1.POST("/state/copy", stateHandler.CopyScenario)
		v1.GET("/state/compare", stateHandler.CompareState)
		v1.GET("/state/export", stateHandler.ExportState)
		v1.POST("/state/scenarios/:key/emirate", stateHandler.ChangeEmirate)

		v1.GET("/scenarios/:key/cashflows.csv", stateHandler.Cashflows)
	}

	if opts.StaticDir != "" {
		if _, err := os.Stat(opts.StaticDir); err == nil {
			router.Static("/assets", opts.StaticDir+"/assets")
			router.StaticFile("/favicon.ico", opts.StaticDir+"/favicon.ico")
			// SPA routing: everything outside /api falls through to index.html.
			router.NoRoute(func(c *gin.Context) {
				if strings.HasPrefix(c.Request.URL.Path, "/api") {
					c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
					return
				}
				c.File(opts.StaticDir + "/index.html")
			})
			log.Info("serving static files", zap.String("dir", opts.StaticDir))
		} else {
			log.Warn("static directory not found, skipping static file serving", zap.String("dir", opts.StaticDir))
		}
	}

	return router
}
