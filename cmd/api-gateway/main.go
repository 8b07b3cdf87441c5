package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Kasms254/KASMS-sub002/api/swagger"
	"github.com/Kasms254/KASMS-sub002/internal/handler"
	"github.com/Kasms254/KASMS-sub002/internal/middleware"
	"github.com/Kasms254/KASMS-sub002/internal/models"
	"github.com/Kasms254/KASMS-sub002/internal/repository"
	"github.com/Kasms254/KASMS-sub002/internal/service"
	"github.com/Kasms254/KASMS-sub002/pkg/cache"
	"github.com/Kasms254/KASMS-sub002/pkg/config"
	"github.com/Kasms254/KASMS-sub002/pkg/database"
	"github.com/Kasms254/KASMS-sub002/pkg/export"
	"github.com/Kasms254/KASMS-sub002/pkg/logger"
	corsmiddleware "github.com/Kasms254/KASMS-sub002/pkg/middleware/cors"
	reqidmiddleware "github.com/Kasms254/KASMS-sub002/pkg/middleware/requestid"
)

// @title KASMS Results API
// @version 0.1.0
// @description Grade computation, reconciliation and reporting service
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Statistics.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, statistics cache disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Statistics.CacheTTL, logr, true)
		}
	}

	validate := validator.New()

	examRepo := repository.NewExamRepository(db)
	resultRepo := repository.NewResultRepository(db)
	editRequestRepo := repository.NewEditRequestRepository(db)
	statisticsRepo := repository.NewStatisticsRepository(db)

	resultSvc := service.NewResultService(resultRepo, examRepo, cacheSvc, metricsSvc, validate, logr)
	editRequestSvc := service.NewEditRequestService(editRequestRepo, resultRepo, examRepo,
		service.EditRequestConfig{MaxReasonLength: cfg.Grading.MaxReasonLength}, logr)
	statisticsSvc := service.NewStatisticsService(statisticsRepo, resultRepo, examRepo, cacheSvc, metricsSvc,
		service.StatisticsConfig{DefaultScale: cfg.Grading.DefaultScale, CacheTTL: cfg.Statistics.CacheTTL}, logr)
	exportSvc := service.NewExportService(statisticsSvc, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	resultHandler := handler.NewResultHandler(resultSvc)
	editRequestHandler := handler.NewEditRequestHandler(editRequestSvc)
	statisticsHandler := handler.NewStatisticsHandler(statisticsSvc)
	reportHandler := handler.NewReportHandler(exportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(cfg.JWT.Secret))

	staff := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleTeacher)
	reviewers := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)

	api.GET("/exams/:id/results", staff, resultHandler.List)
	api.POST("/exams/:id/results/bulk", staff, resultHandler.BulkSave)

	api.POST("/edit-requests", staff, editRequestHandler.Create)
	api.GET("/edit-requests", staff, editRequestHandler.List)
	api.POST("/edit-requests/:id/review", reviewers, editRequestHandler.Review)

	api.GET("/statistics/exams/:id", staff, statisticsHandler.ExamStatistics)
	api.GET("/statistics/classes/:id", staff, statisticsHandler.ClassStatistics)
	api.GET("/statistics/classes/:id/attendance-correlation", staff, statisticsHandler.AttendanceCorrelation)
	api.GET("/statistics/students/:id/trend", staff, statisticsHandler.StudentTrend)

	if cfg.Reports.Enabled {
		api.GET("/reports/exams/:id", staff, reportHandler.ExamReport)
		api.GET("/reports/classes/:id", staff, reportHandler.ClassReport)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
