// Точка входа Ops Core — операционного ядра консоли логистики.
// Загружает конфигурацию, применяет миграции, подключается к PostgreSQL,
// создаёт клиент backend логистики и сервисный слой, запускает фоновые
// поллеры (присутствие, операции, непрочитанные), topologymetrics и
// HTTP-сервер с JWT middleware и graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/api/handlers"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/api/middleware"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/backend"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/config"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/database"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/poller"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/repository"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/server"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/service"
)

// backendDependency — имя backend в графе topologymetrics.
const backendDependency = "logistics-backend"

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Ops Core запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	if os.Getenv("OPS_DEPHEALTH_GROUP") == "" {
		logger.Warn("OPS_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode)
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Клиент backend логистики
	backendClient, err := backend.New(backend.Options{
		BaseURL:      cfg.BackendURL,
		Token:        cfg.BackendToken,
		TokenURL:     cfg.BackendTokenURL,
		ClientID:     cfg.BackendClientID,
		ClientSecret: cfg.BackendClientSecret,
		CACertPath:   cfg.BackendCACertPath,
		Timeout:      cfg.BackendTimeout,
		RPS:          cfg.BackendRPS,
		Burst:        cfg.BackendBurst,
		MaxRetries:   cfg.BackendMaxRetries,
	}, logger)
	if err != nil {
		logger.Error("Ошибка создания клиента backend", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Клиент backend создан", slog.String("url", backendClient.BaseURL()))

	// 6. Repositories
	settingsRepo := repository.NewSettingsRepository(pool)
	dismissalRepo := repository.NewAlertDismissalRepository(pool)
	transitionRepo := repository.NewDeliveryTransitionRepository(pool)

	// 7. Services
	registry := service.NewViewRegistry(logger)
	settingsSvc := service.NewSettingsService(settingsRepo, logger)
	alertSvc := service.NewAlertService(dismissalRepo, cfg.AlertDismissTTL, logger)

	presenceSvc := service.NewPresenceService(backendClient, settingsSvc, registry, service.PresenceOptions{
		Window:       cfg.PresenceWindow,
		Interval:     cfg.PresenceInterval,
		FetchTimeout: cfg.FetchTimeout,
	}, logger)

	operationsSvc := service.NewOperationsService(backendClient, alertSvc, registry, poller.AdaptiveStrategy{
		Base:   cfg.OperationsBaseInterval,
		Min:    cfg.OperationsMinInterval,
		Max:    cfg.OperationsMaxInterval,
		Growth: cfg.OperationsGrowth,
		Shrink: cfg.OperationsShrink,
	}, cfg.FetchTimeout, logger)

	deliverySvc := service.NewDeliveryService(backendClient, operationsSvc, transitionRepo, settingsSvc, cfg.EnforceTransitions, logger)

	messageSvc := service.NewMessageService(backendClient, registry, service.MessageOptions{
		UnreadInterval:       cfg.UnreadInterval,
		ConversationInterval: cfg.ConversationInterval,
		FetchTimeout:         cfg.FetchTimeout,
		CacheSize:            cfg.ConversationCacheSize,
		CacheTTL:             cfg.ConversationCacheTTL,
	}, logger)

	// 8. Запуск фоновых поллеров
	alertSvc.Start(ctx)
	for name, start := range map[string]func(context.Context) error{
		service.ViewPresence:   presenceSvc.Start,
		service.ViewOperations: operationsSvc.Start,
		service.ViewMessages:   messageSvc.Start,
	} {
		if err := start(ctx); err != nil {
			logger.Error("Ошибка запуска поллера", slog.String("view", name), slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// 9. topologymetrics — мониторинг зависимостей (PostgreSQL + backend)
	var healthReporter handlers.HealthReporter
	dephealthSvc, dephealthErr := service.NewDephealthService(service.DephealthOptions{
		ServiceID:         "ops-core",
		Group:             cfg.DephealthGroup,
		DB:                pgDB,
		PostgresURL:       cfg.DatabaseURL(),
		BackendURL:        cfg.BackendURL,
		BackendHealthPath: cfg.BackendHealthPath,
		CheckInterval:     cfg.DephealthCheckInterval,
		TLSSkipVerify:     cfg.BackendHealthTLSSkipVerify,
	}, logger)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
		dephealthSvc = nil
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics", slog.String("error", startErr.Error()))
		dephealthSvc = nil
	} else {
		healthReporter = dephealthSvc
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	// 10. Health и API handlers
	healthHandler := handlers.NewHealthHandler(
		database.NewReadinessChecker(pool),
		handlers.NewDependencyChecker(healthReporter, backendDependency),
	)
	apiHandler := handlers.NewAPIHandler(handlers.Deps{
		Health:     healthHandler,
		Presence:   presenceSvc,
		Operations: operationsSvc,
		Deliveries: deliverySvc,
		Messages:   messageSvc,
		Views:      registry,
		Settings:   settingsSvc,
	}, logger)

	// 11. JWT middleware
	jwtAuth, err := middleware.NewJWTAuth(
		cfg.JWTJWKSURL,
		cfg.JWTCACertPath,
		cfg.JWTIssuer,
		cfg.JWKSClientTimeout,
		cfg.JWKSRefreshInterval,
		cfg.JWTLeeway,
		logger,
	)
	if err != nil {
		logger.Error("Ошибка создания JWT middleware", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("JWT middleware инициализирован",
		slog.String("jwks_url", cfg.JWTJWKSURL),
		slog.String("issuer", cfg.JWTIssuer),
	)

	// 12. HTTP-сервер (маршруты и валидация по контракту OpenAPI)
	srv, runErr := server.New(cfg, logger, apiHandler, jwtAuth)
	if runErr == nil {
		runErr = srv.Run(ctx)
	}

	// 13. Остановка фоновых задач
	logger.Info("Останавливаем фоновые задачи...")
	cancel()
	registry.StopAll()
	messageSvc.Stop()
	operationsSvc.Stop()
	presenceSvc.Stop()
	alertSvc.Stop()
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	if runErr != nil {
		logger.Error("Ошибка сервера", slog.String("error", runErr.Error()))
		os.Exit(1)
	}
	logger.Info("Ops Core остановлен")
}
