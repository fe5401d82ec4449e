package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/solvelab/practice-api/api/swagger"
	"github.com/solvelab/practice-api/internal/generator"
	"github.com/solvelab/practice-api/internal/handler"
	"github.com/solvelab/practice-api/internal/middleware"
	"github.com/solvelab/practice-api/internal/repository"
	"github.com/solvelab/practice-api/internal/service"
	"github.com/solvelab/practice-api/pkg/cache"
	"github.com/solvelab/practice-api/pkg/config"
	"github.com/solvelab/practice-api/pkg/database"
	"github.com/solvelab/practice-api/pkg/logger"
	corsmiddleware "github.com/solvelab/practice-api/pkg/middleware/cors"
	reqidmiddleware "github.com/solvelab/practice-api/pkg/middleware/requestid"
)

// @title Math Practice API
// @version 0.1.0
// @description Practice problem solving, solve statistics and unit-exam codes
// @BasePath /
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

	var cacheRepo service.CacheRepository
	cacheEnabled := cfg.Stats.CacheEnabled
	if cacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, stats cache disabled", "error", err)
			cacheEnabled = false
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Stats.CacheTTL, logr, cacheEnabled)

	validate := validator.New()
	gen := generator.New(cfg.Generator, logr)

	solveRepo := repository.NewSolveRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	examRepo := repository.NewUnitExamRepository(db)
	teacherRepo := repository.NewTeacherAuthRepository(db)

	solveSvc := service.NewSolveService(solveRepo, unitRepo, gen, cacheSvc, validate, logr)
	statsSvc := service.NewStatsService(solveRepo, cacheSvc, metricsSvc, logr)
	unitSvc := service.NewUnitService(unitRepo, validate, logr)
	examSvc := service.NewUnitExamService(examRepo, unitRepo, gen, cfg.Exam, validate, logr)
	teacherSvc := service.NewTeacherAuthService(teacherRepo, validate, logr)

	solveHandler := handler.NewSolveHandler(solveSvc)
	statsHandler := handler.NewStatsHandler(statsSvc)
	unitHandler := handler.NewUnitHandler(unitSvc)
	examHandler := handler.NewUnitExamHandler(examSvc)
	teacherHandler := handler.NewTeacherAuthHandler(teacherSvc)

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
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		solves := api.Group("/solves")
		{
			solves.GET("", solveHandler.Generate)
			solves.POST("", solveHandler.Record)
			solves.GET("/history", statsHandler.History)
			solves.GET("/stats", statsHandler.AggregateByUnit)
			solves.GET("/stats/units", statsHandler.UnitStats)
			solves.GET("/stats/export", statsHandler.Export)
			solves.GET("/units/:unitId/samples", statsHandler.RecentSamples)
			solves.GET("/:id/help", statsHandler.HelpText)
		}

		api.POST("/unit", unitHandler.Create)
		api.GET("/units", unitHandler.List)

		exams := api.Group("/unit-exam")
		{
			exams.POST("/generate", examHandler.Generate)
			exams.POST("/verify", examHandler.Verify)
			exams.GET("/:code/questions", examHandler.Questions)
		}

		api.POST("/teacher", teacherHandler.Create)

		admin := api.Group("/admin")
		{
			admin.GET("/teacher", teacherHandler.ListPending)
			admin.POST("/teacher/:id/approve", teacherHandler.Approve)
			admin.POST("/teacher/:id/reject", teacherHandler.Reject)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
