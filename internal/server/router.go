package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prepdeck/prepdeck-backend/internal/handlers"
	"github.com/prepdeck/prepdeck-backend/internal/logger"
	"github.com/prepdeck/prepdeck-backend/internal/metrics"
	"github.com/prepdeck/prepdeck-backend/internal/middleware"
)

type RouterConfig struct {
	Log             *logger.Logger
	AllowOrigins    []string
	NoteHandler     *handlers.NoteHandler
	CompanyHandler  *handlers.CompanyHandler
	EmployeeHandler *handlers.EmployeeHandler
	RepoCardHandler *handlers.RepoCardHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLog(cfg.Log))

	// Cors
	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		// Notes
		api.POST("/notes", cfg.NoteHandler.Create)
		api.GET("/notes", cfg.NoteHandler.List)
		api.GET("/notes/:id", cfg.NoteHandler.Get)
		api.PUT("/notes/:id", cfg.NoteHandler.Update)
		api.DELETE("/notes/:id", cfg.NoteHandler.Delete)
		api.GET("/notes/:id/pdf", cfg.NoteHandler.DownloadPDF)

		// Companies
		api.POST("/companies", cfg.CompanyHandler.Create)
		api.GET("/companies", cfg.CompanyHandler.List)
		api.GET("/companies/:id", cfg.CompanyHandler.Get)
		api.PUT("/companies/:id", cfg.CompanyHandler.Update)
		api.DELETE("/companies/:id", cfg.CompanyHandler.Delete)

		// Employees
		api.POST("/employees", cfg.EmployeeHandler.Create)
		api.GET("/employees", cfg.EmployeeHandler.List)
		api.GET("/employees/:id", cfg.EmployeeHandler.Get)
		api.PUT("/employees/:id", cfg.EmployeeHandler.Update)
		api.DELETE("/employees/:id", cfg.EmployeeHandler.Delete)

		// Repo cards
		api.POST("/repos", cfg.RepoCardHandler.Create)
		api.GET("/repos", cfg.RepoCardHandler.List)
		api.GET("/repos/:id", cfg.RepoCardHandler.Get)
		api.DELETE("/repos/:id", cfg.RepoCardHandler.Delete)
	}

	return router
}
