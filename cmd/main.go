package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/shenikar/safe_route_system/internal/config"
	"github.com/shenikar/safe_route_system/internal/directions"
	v1 "github.com/shenikar/safe_route_system/internal/handler/http/v1"
	"github.com/shenikar/safe_route_system/internal/ingest"
	"github.com/shenikar/safe_route_system/internal/repository"
	"github.com/shenikar/safe_route_system/internal/service"
	"github.com/shenikar/safe_route_system/pkg/logger"
	"github.com/shenikar/safe_route_system/pkg/postgres"
	redisclient "github.com/shenikar/safe_route_system/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/safe_route_system/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Safe Route System API
// @version 1.0
// @description Area safety scoring and route risk evaluation API.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if cfg.StoreBackend == config.BackendPostgres {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			log.Fatalf("Failed to run database migrations: %v", err)
		}
	}

	// Подключение к хранилищу инцидентов
	backend, err := repository.OpenBackend(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to open incident store: %v", err)
	}
	defer func() {
		if err := backend.Close(context.Background()); err != nil {
			log.WithError(err).Error("Failed to close incident store")
		}
	}()

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Кеш оценок, SCORE_CACHE_TTL=0 отключает кеширование
	var scoreCache service.ScoreCache
	if cfg.ScoreCacheTTL > 0 {
		scoreCache = repository.NewRedisScoreCache(redisClient, cfg.ScoreCacheTTL)
	}

	// Инициализация очереди отчетов и воркера загрузки
	reportQueue := ingest.NewRedisReportQueue(redisClient)
	workerCtx, stopWorker := context.WithCancel(ctx)
	reportWorker := ingest.NewReportWorker(redisClient, backend.Writer, log, cfg)
	reportWorker.Start(workerCtx)

	// Провайдер маршрутов
	if cfg.GoogleMapsAPIKey == "" {
		log.Warn("GOOGLE_MAPS_API_KEY is not set, route planning will be unavailable")
	}
	directionsClient := directions.NewClient(cfg, log)

	// Инициализация сервисов
	scorer := service.NewSafetyScorer(backend.Store, scoreCache, log, cfg)
	evaluator := service.NewRouteRiskEvaluator(backend.Store, log, service.RoutePolicyFromConfig(cfg))
	routeService := service.NewRouteService(directionsClient, evaluator, log)
	incidentService := service.NewIncidentService(reportQueue, backend.Heatmap, log, cfg)

	// Инициализация хэндлеров
	handler := v1.NewHandler(scorer, routeService, incidentService, backend.Pinger, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Воркер дописывает текущий отчет или возвращает его в очередь
	stopWorker()
	reportWorker.Wait()

	log.Info("Server gracefully stopped")
}
