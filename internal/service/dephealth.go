// dephealth.go — мониторинг зависимостей через topologymetrics SDK.
//
// Ops Core мониторит две зависимости:
//   - PostgreSQL — SQL checker через существующий pgxpool (connection pool mode, critical)
//   - backend логистики — HTTP checker (critical)
//
// Метрики доступны на /metrics вместе с остальными Prometheus-метриками:
//   - app_dependency_health — состояние зависимости (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds — задержка проверки
package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // HTTP checker для backend
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"     // PostgreSQL checker (pool mode)
	"github.com/prometheus/client_golang/prometheus"
)

// DephealthOptions — параметры мониторинга зависимостей.
type DephealthOptions struct {
	// Имя вершины графа текущего приложения
	ServiceID string
	// Имя группы в метриках (OPS_DEPHEALTH_GROUP)
	Group string
	// *sql.DB, полученный из pgxpool через stdlib.OpenDBFromPool()
	DB *sql.DB
	// URL PostgreSQL (для меток, не для подключения)
	PostgresURL string
	// Базовый URL backend логистики
	BackendURL string
	// Путь health check backend
	BackendHealthPath string
	CheckInterval     time.Duration
	// Пропуск проверки TLS для backend (self-signed в dev-среде)
	TLSSkipVerify bool
}

// DephealthService — сервис мониторинга зависимостей.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService создаёт сервис; метрики регистрируются в глобальном registry.
func NewDephealthService(opts DephealthOptions, logger *slog.Logger) (*DephealthService, error) {
	return newDephealthService(opts, logger)
}

// NewDephealthServiceWithRegisterer создаёт сервис с указанным Prometheus registerer.
// Используется в тестах для изоляции метрик.
func NewDephealthServiceWithRegisterer(
	opts DephealthOptions,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*DephealthService, error) {
	return newDephealthService(opts, logger, dephealth.WithRegisterer(registerer))
}

func newDephealthService(opts DephealthOptions, logger *slog.Logger, extraOpts ...dephealth.Option) (*DephealthService, error) {
	healthPath := opts.BackendHealthPath
	if healthPath == "" {
		healthPath = "/health"
	}

	httpOpts := []dephealth.DependencyOption{
		dephealth.FromURL(opts.BackendURL),
		dephealth.WithHTTPHealthPath(healthPath),
		dephealth.CheckInterval(opts.CheckInterval),
		dephealth.Critical(true),
	}
	if opts.TLSSkipVerify {
		httpOpts = append(httpOpts, dephealth.WithHTTPTLSSkipVerify(true))
	}

	dhOpts := []dephealth.Option{
		dephealth.WithLogger(logger),
		dephealth.AddDependency("postgresql", dephealth.TypePostgres,
			pgcheck.New(pgcheck.WithDB(opts.DB)),
			dephealth.FromURL(opts.PostgresURL),
			dephealth.CheckInterval(opts.CheckInterval),
			dephealth.Critical(true),
		),
		dephealth.HTTP("logistics-backend", httpOpts...),
	}
	dhOpts = append(dhOpts, extraOpts...)

	dh, err := dephealth.New(opts.ServiceID, opts.Group, dhOpts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает периодическую проверку зависимостей.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг зависимостей запущен (PostgreSQL + backend)")
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг зависимостей.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг зависимостей остановлен")
}

// Health возвращает состояние зависимостей: имя → ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}
