package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/gradebook-api/api/swagger"
	"github.com/noah-isme/gradebook-api/internal/handler"
	"github.com/noah-isme/gradebook-api/internal/middleware"
	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/repository"
	"github.com/noah-isme/gradebook-api/internal/service"
	"github.com/noah-isme/gradebook-api/pkg/cache"
	"github.com/noah-isme/gradebook-api/pkg/config"
	"github.com/noah-isme/gradebook-api/pkg/database"
	"github.com/noah-isme/gradebook-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/gradebook-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/gradebook-api/pkg/middleware/requestid"
	"github.com/noah-isme/gradebook-api/pkg/storage"
)

// @title Gradebook API
// @version 1.0.0
// @description Weekly marks and analytics backend for a school gradebook
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Warn("redis unavailable, analytics cache runs in-memory only", zap.Error(err))
	} else {
		defer redisClient.Close() //nolint:errcheck
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Analytics.CacheTTL, logr)
	}

	studentRepo := repository.NewStudentRepository(db)
	weekRepo := repository.NewWeekRepository(db, logr)
	markRepo := repository.NewMarkRepository(db)
	userRepo := repository.NewUserRepository(db)

	var snapshotRepo service.AnalyticsSnapshotRepository
	if cfg.Analytics.StoreEnabled {
		snapshotRepo = repository.NewSnapshotRepository(db)
	}

	analyticsCache := service.NewAnalyticsCache(cacheSvc, cfg.Analytics.CacheTTL, cfg.Analytics.CachePrefix, logr)

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      "gradebook-api",
	})
	studentSvc := service.NewStudentService(studentRepo, nil, logr, cfg.Import.SheetName)
	weekSvc := service.NewWeekService(weekRepo, nil, logr)
	markSvc := service.NewMarkService(markRepo, studentRepo, weekRepo, nil, logr, cfg.Marks.MinScore, cfg.Marks.MaxScore)
	userSvc := service.NewUserService(userRepo, nil, logr)
	analyticsSvc := service.NewAnalyticsService(studentRepo, weekRepo, markRepo, snapshotRepo, analyticsCache, metricsSvc, logr, service.AnalyticsOptions{
		TopN:        cfg.Analytics.TopN,
		PassMark:    cfg.Analytics.PassMark,
		SnapshotCap: cfg.Analytics.SnapshotCap,
	})
	analyticsSvc.SetTeacherCounter(userRepo)
	exportSvc := service.NewExportService(analyticsSvc, cfg.Export.SchoolName, logr)
	if archive, err := storage.NewLocalStorage(cfg.Export.ArchiveDir); err != nil {
		logr.Warn("export archive disabled", zap.Error(err))
	} else {
		signer := storage.NewSignedURLSigner(cfg.JWT.Secret, cfg.Export.ArchiveTTL)
		exportSvc.SetArchive(archive, signer)
	}

	snapshotWorker := service.NewSnapshotWorker(analyticsSvc, exportSvc, cfg.Analytics.SnapshotInterval, cfg.Export.ArchiveTTL, logr)
	snapshotWorker.Start(context.Background())
	defer snapshotWorker.Stop()

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, cfg.Import.MaxFileSizeBytes)
	weekHandler := handler.NewWeekHandler(weekSvc)
	markHandler := handler.NewMarkHandler(markSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	userHandler := handler.NewUserHandler(userSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.GET("/auth/me", authHandler.Me)

	authed.GET("/students", studentHandler.List)
	authed.GET("/students/:id", studentHandler.Get)

	authed.GET("/weeks", weekHandler.List)
	authed.GET("/weeks/:id", weekHandler.Get)

	authed.GET("/marks/sheet", markHandler.Sheet)
	authed.POST("/marks/stage", markHandler.Stage)
	authed.DELETE("/marks/stage", markHandler.Discard)
	authed.POST("/marks/commit", middleware.Audit(logr, "commit", "marks"), markHandler.Commit)

	authed.GET("/analytics/overview", analyticsHandler.Overview)
	authed.GET("/analytics/statistics", analyticsHandler.ClassStatistics)
	authed.GET("/analytics/classes/:label/trend", analyticsHandler.ClassTrend)
	authed.GET("/analytics/dashboard", analyticsHandler.Dashboard)

	authed.GET("/exports/merit-list.csv", exportHandler.MeritListCSV)
	authed.GET("/exports/class-rankings.pdf", exportHandler.ClassRankingsPDF)
	authed.GET("/exports/archive", exportHandler.Archived)

	admin := authed.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))

	admin.POST("/students", middleware.Audit(logr, "create", "students"), studentHandler.Create)
	admin.DELETE("/students/:id", middleware.Audit(logr, "delete", "students"), studentHandler.Delete)
	admin.POST("/students/import", middleware.Audit(logr, "import", "students"), studentHandler.Import)

	admin.POST("/weeks", middleware.Audit(logr, "create", "weeks"), weekHandler.Create)
	admin.DELETE("/weeks/:id", middleware.Audit(logr, "delete", "weeks"), weekHandler.Delete)

	admin.POST("/analytics/regenerate", analyticsHandler.Regenerate)
	admin.POST("/analytics/snapshots", analyticsHandler.StoreSnapshot)
	admin.GET("/analytics/snapshots", analyticsHandler.StoredSnapshot)
	admin.DELETE("/analytics/snapshots", middleware.Audit(logr, "delete", "snapshots"), analyticsHandler.DeleteStoredSnapshot)
	admin.GET("/analytics/system", analyticsHandler.System)

	admin.GET("/teachers", userHandler.ListTeachers)
	admin.POST("/teachers", middleware.Audit(logr, "create", "teachers"), userHandler.CreateTeacher)
	admin.DELETE("/teachers/:id", middleware.Audit(logr, "delete", "teachers"), userHandler.DeleteTeacher)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}
