package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/siolabs/learnhub-api/api/swagger"
	"github.com/siolabs/learnhub-api/internal/handler"
	"github.com/siolabs/learnhub-api/internal/middleware"
	"github.com/siolabs/learnhub-api/internal/repository"
	"github.com/siolabs/learnhub-api/internal/service"
	"github.com/siolabs/learnhub-api/pkg/cache"
	"github.com/siolabs/learnhub-api/pkg/config"
	"github.com/siolabs/learnhub-api/pkg/database"
	"github.com/siolabs/learnhub-api/pkg/jobs"
	"github.com/siolabs/learnhub-api/pkg/logger"
	corsmiddleware "github.com/siolabs/learnhub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/siolabs/learnhub-api/pkg/middleware/requestid"
	"github.com/siolabs/learnhub-api/pkg/storage"
)

// @title LearnHub API
// @version 1.0.0
// @description Two-tier e-learning platform: courses, lessons, progress tracking and live sessions
// @BasePath /api
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	reportJobRepo := repository.NewReportJobRepository(db)

	authSvc := service.NewAuthService(service.AuthServiceParams{
		Repo:      userRepo,
		Denylist:  cache.NewTokenDenylist(redisClient),
		Validator: validate,
		Logger:    logr,
		Config: service.AuthConfig{
			TokenSecret: cfg.JWT.Secret,
			TokenExpiry: cfg.JWT.Expiration,
		},
	})

	courseSvc := service.NewCourseService(service.CourseServiceParams{
		Courses:     courseRepo,
		Enrollments: enrollmentRepo,
		Progress:    progressRepo,
		Sessions:    sessionRepo,
		Metrics:     metricsSvc,
		Logger:      logr,
	})

	lessonSvc := service.NewLessonService(service.LessonServiceParams{
		Courses:     courseRepo,
		Enrollments: enrollmentRepo,
		Progress:    progressRepo,
		Validator:   validate,
		Metrics:     metricsSvc,
		Logger:      logr,
	})

	progressSvc := service.NewProgressService(service.ProgressServiceParams{
		Courses:     courseRepo,
		Enrollments: enrollmentRepo,
		Progress:    progressRepo,
		Metrics:     metricsSvc,
		Logger:      logr,
	})

	sessionSvc := service.NewSessionService(service.SessionServiceParams{
		Sessions:          sessionRepo,
		Enrollments:       enrollmentRepo,
		Courses:           courseRepo,
		DefaultWindowDays: cfg.Sessions.DefaultWindowDays,
		Logger:            logr,
	})

	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Courses:       courseSvc,
		Sessions:      sessionSvc,
		UpcomingLimit: cfg.Dashboard.UpcomingLimit,
		WindowDays:    cfg.Dashboard.WindowDays,
		Logger:        logr,
	})

	var reportSvc *service.ReportService
	var reportQueue *jobs.Queue
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exportSvc := service.NewExportService(progressSvc, store, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Reports.SignedURLTTL,
		}, logr, nil, nil)

		worker := service.NewReportWorker(reportJobRepo, exportSvc, metricsSvc, cfg.Reports.WorkerRetries, logr)
		reportQueue = jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			Logger:     logr,
		})
		reportQueue.Start(ctx)
		defer reportQueue.Stop()

		reportSvc = service.NewReportService(reportJobRepo, enrollmentRepo, reportQueue, exportSvc, logr, service.ReportServiceConfig{
			ResultTTL:  cfg.Reports.SignedURLTTL,
			MaxRetries: cfg.Reports.WorkerRetries,
		})
		reportSvc.RecoverPendingJobs(ctx)
		reportSvc.StartCleanup(ctx)
	}

	authHandler := handler.NewAuthHandler(authSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	lessonHandler := handler.NewLessonHandler(lessonSvc)
	progressHandler := handler.NewProgressHandler(progressSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
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

	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/health", metricsHandler.Health)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	authGuard := middleware.JWT(authSvc)
	auth.POST("/logout", authGuard, authHandler.Logout)
	auth.GET("/me", authGuard, authHandler.Me)

	protected := api.Group("")
	protected.Use(authGuard)
	protected.GET("/courses", courseHandler.List)
	protected.GET("/courses/:courseId", courseHandler.Get)
	protected.GET("/courses/:courseId/sessions", sessionHandler.ListByCourse)
	protected.GET("/modules/:moduleId", courseHandler.GetModule)
	protected.GET("/lessons/:lessonId", lessonHandler.Get)
	protected.POST("/lessons/:lessonId/complete", lessonHandler.Complete)
	protected.PUT("/lessons/:lessonId/video-progress", lessonHandler.VideoProgress)
	protected.GET("/progress", progressHandler.Overview)
	protected.GET("/progress/courses/:courseId", progressHandler.CourseDetail)
	protected.GET("/sessions", sessionHandler.Upcoming)
	protected.GET("/sessions/:sessionId", sessionHandler.Get)
	protected.GET("/dashboard", dashboardHandler.Get)

	if reportSvc != nil {
		reportHandler := handler.NewReportHandler(reportSvc)
		protected.POST("/reports", reportHandler.GenerateReport)
		protected.GET("/reports/:jobId", reportHandler.ReportStatus)
		// Download is token-authenticated, not JWT-authenticated.
		api.GET("/export/:token", reportHandler.DownloadReport)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
}
