package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/parsamooz/school-api/api/swagger"
	"github.com/parsamooz/school-api/internal/handler"
	"github.com/parsamooz/school-api/internal/middleware"
	"github.com/parsamooz/school-api/internal/repository"
	"github.com/parsamooz/school-api/internal/service"
	"github.com/parsamooz/school-api/pkg/cache"
	"github.com/parsamooz/school-api/pkg/config"
	"github.com/parsamooz/school-api/pkg/database"
	"github.com/parsamooz/school-api/pkg/export"
	"github.com/parsamooz/school-api/pkg/jobs"
	"github.com/parsamooz/school-api/pkg/logger"
	corsmiddleware "github.com/parsamooz/school-api/pkg/middleware/cors"
	reqidmiddleware "github.com/parsamooz/school-api/pkg/middleware/requestid"
	"github.com/parsamooz/school-api/pkg/push"
	"github.com/parsamooz/school-api/pkg/storage"
)

// @title Parsamooz School API
// @version 1.0.0
// @description Class records, solar-calendar grade reports, exams and push notifications.
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	redisClient, err := cache.NewRedis(cfg.Redis)
	var cacheSvc *service.CacheService
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.Enabled)
	}

	// Repositories.
	recordRepo := repository.NewRecordRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	classRepo := repository.NewClassRepository(db)
	optionRepo := repository.NewAssessmentOptionRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	examRepo := repository.NewExamRepository(db)
	deviceTokenRepo := repository.NewDeviceTokenRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Services.
	dashboardSvc := service.NewDashboardService(dashboardRepo, cacheSvc, metricsSvc, logr, service.DashboardServiceConfig{
		CacheTTL: cfg.Dashboard.CacheTTL,
	})
	recordSvc := service.NewRecordService(recordRepo, optionRepo, dashboardSvc, logr)
	gradeReportSvc := service.NewGradeReportService(recordRepo, studentRepo, classRepo, optionRepo, logr)
	attendanceSvc := service.NewAttendanceService(recordRepo, studentRepo, logr)
	studentSvc := service.NewStudentService(studentRepo, logr)
	classSvc := service.NewClassService(classRepo, logr)

	sheetGen := export.NewAnswerSheetGenerator(cfg.Exams.QRBaseURL)
	examSvc := service.NewExamService(examRepo, studentRepo, sheetGen, cfg.Exams.DefaultChoiceCount, logr)

	// Report export pipeline.
	store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	exportSvc := service.NewExportService(gradeReportSvc, attendanceSvc, studentRepo, store, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.SignedURLTTL,
	}, logr, nil, nil)
	reportWorker := service.NewReportWorker(reportRepo, exportSvc, cfg.Reports.WorkerRetries, logr)
	reportQueue := jobs.NewQueue("reports", reportWorker.Handle, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		Logger:     logr,
	})
	reportQueue.Start(ctx)
	defer reportQueue.Stop()
	metricsSvc.RegisterQueueDepth("reports", reportQueue.Depth)
	reportSvc := service.NewReportService(reportRepo, reportQueue, exportSvc, logr, service.ReportServiceConfig{
		ResultTTL:       cfg.Reports.SignedURLTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
		MaxRetries:      cfg.Reports.WorkerRetries,
	})
	reportSvc.RecoverPendingJobs(ctx)
	reportSvc.StartCleanup(ctx)

	// Push notification pipeline. The queue handler closes over the service
	// variable because both sides reference each other.
	var notificationSvc *service.NotificationService
	pushQueue := jobs.NewQueue("push", func(ctx context.Context, job jobs.Job) error {
		return notificationSvc.HandleBatch(ctx, job)
	}, jobs.QueueConfig{
		Workers:    cfg.Push.WorkerConcurrency,
		MaxRetries: cfg.Push.WorkerRetries,
		Logger:     logr,
	})
	pushClient := push.NewClient(cfg.Push.Endpoint, cfg.Push.Timeout)
	notificationSvc = service.NewNotificationService(deviceTokenRepo, pushClient, pushQueue, cfg.Push.BatchSize, cfg.Push.WorkerRetries, logr)
	if cfg.Push.Enabled {
		pushQueue.Start(ctx)
		defer pushQueue.Stop()
		metricsSvc.RegisterQueueDepth("push", pushQueue.Depth)
	}

	// Handlers.
	recordHandler := handler.NewRecordHandler(recordSvc)
	reportHandler := handler.NewReportHandler(gradeReportSvc, reportSvc)
	examHandler := handler.NewExamHandler(examSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, attendanceSvc)
	classHandler := handler.NewClassHandler(classSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/records", recordHandler.List)
		api.PUT("/records", recordHandler.Upsert)
		api.GET("/assessment-options", recordHandler.ListAssessmentOptions)
		api.PUT("/assessment-options", recordHandler.SaveAssessmentOption)

		api.GET("/reports/monthly-grades", reportHandler.MonthlyGrades)
		api.GET("/reports/report-cards", reportHandler.ReportCards)
		api.POST("/reports/generate", reportHandler.Generate)
		api.GET("/reports/:id", reportHandler.Status)
		api.GET("/export/:token", reportHandler.Download)

		api.POST("/exams", examHandler.Create)
		api.GET("/exams", examHandler.List)
		api.POST("/exams/:id/answers", examHandler.SubmitAnswers)
		api.GET("/exams/:id/statistics", examHandler.Statistics)
		api.POST("/exams/:id/answer-sheets", examHandler.AnswerSheets)

		if cfg.Dashboard.Enabled {
			api.GET("/dashboard/class", dashboardHandler.Class)
		}

		api.GET("/students", studentHandler.List)
		api.GET("/students/:code", studentHandler.Get)
		api.GET("/students/:code/attendance", studentHandler.Attendance)

		api.GET("/classes", classHandler.List)
		api.GET("/classes/:code", classHandler.Get)

		if cfg.Push.Enabled {
			api.POST("/notifications/push", notificationHandler.Push)
			api.GET("/notifications/dispatches/:id", notificationHandler.Status)
		}

		api.GET("/system/metrics", metricsHandler.Snapshot)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
}
