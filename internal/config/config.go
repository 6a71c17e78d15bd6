// Пакет config — загрузка и валидация конфигурации Ops Core
// из переменных окружения (префикс OPS_).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Ops Core.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL ---

	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- JWT операторов консоли ---

	// URL JWKS endpoint IdP
	JWTJWKSURL string
	// Ожидаемый issuer (пусто — не проверяется)
	JWTIssuer string
	// Путь к CA-сертификату для JWKS (опционально)
	JWTCACertPath string
	// Таймаут HTTP-клиента JWKS
	JWKSClientTimeout time.Duration
	// Интервал обновления JWKS-ключей
	JWKSRefreshInterval time.Duration
	// Допустимое отклонение времени при проверке JWT
	JWTLeeway time.Duration

	// --- Backend логистики ---

	// Базовый URL REST backend
	BackendURL string
	// Статический Bearer-токен сервиса
	BackendToken string
	// Token endpoint для client_credentials (приоритетнее BackendToken)
	BackendTokenURL     string
	BackendClientID     string
	BackendClientSecret string
	// Путь к CA-сертификату backend (опционально)
	BackendCACertPath string
	// Таймаут одного запроса к backend
	BackendTimeout time.Duration
	// Лимит запросов к backend в секунду
	BackendRPS float64
	// Burst лимитера
	BackendBurst int
	// Число повторов идемпотентных команд
	BackendMaxRetries int

	// --- Опрос ---

	// Окно эвристики последнего входа
	PresenceWindow time.Duration
	// Период опроса присутствия
	PresenceInterval time.Duration
	// Адаптивный опрос операций: базовый интервал, границы, множители
	OperationsBaseInterval time.Duration
	OperationsMinInterval  time.Duration
	OperationsMaxInterval  time.Duration
	OperationsGrowth       float64
	OperationsShrink       float64
	// Период опроса счётчиков непрочитанных
	UnreadInterval time.Duration
	// Период опроса открытой переписки
	ConversationInterval time.Duration
	// Размер и TTL кэша переписок
	ConversationCacheSize int
	ConversationCacheTTL  time.Duration
	// Таймаут одного запроса поллера
	FetchTimeout time.Duration

	// --- Доставки и оповещения ---

	// Проверять матрицу переходов статусов (false — разрешительный режим)
	EnforceTransitions bool
	// Срок действия скрытия оповещения
	AlertDismissTTL time.Duration

	// --- topologymetrics ---

	// Имя группы в метриках зависимостей
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration
	// Путь health check backend логистики
	BackendHealthPath string
	// Пропуск проверки TLS в health check backend (только dev)
	BackendHealthTLSSkipVerify bool

	// --- Graceful shutdown ---

	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// OPS_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("OPS_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("OPS_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("OPS_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// OPS_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("OPS_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("OPS_LOG_LEVEL: %w", err)
	}

	// OPS_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("OPS_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("OPS_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	if cfg.DBHost, err = getEnvRequired("OPS_DB_HOST"); err != nil {
		return nil, err
	}
	cfg.DBPort, err = getEnvInt("OPS_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("OPS_DB_PORT: %w", err)
	}
	if cfg.DBName, err = getEnvRequired("OPS_DB_NAME"); err != nil {
		return nil, err
	}
	if cfg.DBUser, err = getEnvRequired("OPS_DB_USER"); err != nil {
		return nil, err
	}
	if cfg.DBPassword, err = getEnvRequired("OPS_DB_PASSWORD"); err != nil {
		return nil, err
	}
	cfg.DBSSLMode = getEnvDefault("OPS_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("OPS_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- JWT ---

	if cfg.JWTJWKSURL, err = getEnvRequired("OPS_JWT_JWKS_URL"); err != nil {
		return nil, err
	}
	cfg.JWTIssuer = getEnvDefault("OPS_JWT_ISSUER", "")
	cfg.JWTCACertPath = getEnvDefault("OPS_JWT_CA_CERT_PATH", "")
	if cfg.JWKSClientTimeout, err = getEnvDuration("OPS_JWKS_CLIENT_TIMEOUT", 10*time.Second); err != nil {
		return nil, fmt.Errorf("OPS_JWKS_CLIENT_TIMEOUT: %w", err)
	}
	if cfg.JWKSRefreshInterval, err = getEnvDuration("OPS_JWKS_REFRESH_INTERVAL", 15*time.Minute); err != nil {
		return nil, fmt.Errorf("OPS_JWKS_REFRESH_INTERVAL: %w", err)
	}
	if cfg.JWTLeeway, err = getEnvDuration("OPS_JWT_LEEWAY", 5*time.Second); err != nil {
		return nil, fmt.Errorf("OPS_JWT_LEEWAY: %w", err)
	}

	// --- Backend ---

	if cfg.BackendURL, err = getEnvRequired("OPS_BACKEND_URL"); err != nil {
		return nil, err
	}
	if _, parseErr := url.ParseRequestURI(cfg.BackendURL); parseErr != nil {
		return nil, fmt.Errorf("OPS_BACKEND_URL: некорректный URL %q", cfg.BackendURL)
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")
	cfg.BackendToken = getEnvDefault("OPS_BACKEND_TOKEN", "")
	cfg.BackendTokenURL = getEnvDefault("OPS_BACKEND_TOKEN_URL", "")
	cfg.BackendClientID = getEnvDefault("OPS_BACKEND_CLIENT_ID", "")
	cfg.BackendClientSecret = getEnvDefault("OPS_BACKEND_CLIENT_SECRET", "")
	if err := validateBackendAuth(cfg); err != nil {
		return nil, err
	}
	cfg.BackendCACertPath = getEnvDefault("OPS_BACKEND_CA_CERT_PATH", "")
	if cfg.BackendTimeout, err = getEnvDuration("OPS_BACKEND_TIMEOUT", 12*time.Second); err != nil {
		return nil, fmt.Errorf("OPS_BACKEND_TIMEOUT: %w", err)
	}
	if cfg.BackendRPS, err = getEnvFloat("OPS_BACKEND_RPS", 10); err != nil {
		return nil, fmt.Errorf("OPS_BACKEND_RPS: %w", err)
	}
	if cfg.BackendRPS < 0 {
		return nil, fmt.Errorf("OPS_BACKEND_RPS: значение %v не может быть отрицательным", cfg.BackendRPS)
	}
	if cfg.BackendBurst, err = getEnvInt("OPS_BACKEND_BURST", 20); err != nil {
		return nil, fmt.Errorf("OPS_BACKEND_BURST: %w", err)
	}
	if cfg.BackendMaxRetries, err = getEnvInt("OPS_BACKEND_MAX_RETRIES", 2); err != nil {
		return nil, fmt.Errorf("OPS_BACKEND_MAX_RETRIES: %w", err)
	}
	if cfg.BackendMaxRetries < 0 || cfg.BackendMaxRetries > 5 {
		return nil, fmt.Errorf("OPS_BACKEND_MAX_RETRIES: значение %d вне допустимого диапазона 0-5", cfg.BackendMaxRetries)
	}

	// --- Опрос ---

	if cfg.PresenceWindow, err = getEnvDuration("OPS_PRESENCE_WINDOW", 5*time.Minute); err != nil {
		return nil, fmt.Errorf("OPS_PRESENCE_WINDOW: %w", err)
	}
	if cfg.PresenceWindow <= 0 {
		return nil, errors.New("OPS_PRESENCE_WINDOW: окно должно быть > 0")
	}
	if cfg.PresenceInterval, err = getEnvDuration("OPS_PRESENCE_INTERVAL", 30*time.Second); err != nil {
		return nil, fmt.Errorf("OPS_PRESENCE_INTERVAL: %w", err)
	}
	if cfg.OperationsBaseInterval, err = getEnvDuration("OPS_OPERATIONS_BASE_INTERVAL", 60*time.Second); err != nil {
		return nil, fmt.Errorf("OPS_OPERATIONS_BASE_INTERVAL: %w", err)
	}
	if cfg.OperationsMinInterval, err = getEnvDuration("OPS_OPERATIONS_MIN_INTERVAL", 45*time.Second); err != nil {
		return nil, fmt.Errorf("OPS_OPERATIONS_MIN_INTERVAL: %w", err)
	}
	if cfg.OperationsMaxInterval, err = getEnvDuration("OPS_OPERATIONS_MAX_INTERVAL", 180*time.Second); err != nil {
		return nil, fmt.Errorf("OPS_OPERATIONS_MAX_INTERVAL: %w", err)
	}
	if cfg.OperationsMinInterval <= 0 || cfg.OperationsMinInterval > cfg.OperationsBaseInterval ||
		cfg.OperationsBaseInterval > cfg.OperationsMaxInterval {
		return nil, fmt.Errorf("OPS_OPERATIONS_*_INTERVAL: требуется 0 < min (%s) <= base (%s) <= max (%s)",
			cfg.OperationsMinInterval, cfg.OperationsBaseInterval, cfg.OperationsMaxInterval)
	}
	if cfg.OperationsGrowth, err = getEnvFloat("OPS_OPERATIONS_GROWTH", 1.3); err != nil {
		return nil, fmt.Errorf("OPS_OPERATIONS_GROWTH: %w", err)
	}
	if cfg.OperationsGrowth < 1 {
		return nil, fmt.Errorf("OPS_OPERATIONS_GROWTH: значение %v должно быть >= 1", cfg.OperationsGrowth)
	}
	if cfg.OperationsShrink, err = getEnvFloat("OPS_OPERATIONS_SHRINK", 0.8); err != nil {
		return nil, fmt.Errorf("OPS_OPERATIONS_SHRINK: %w", err)
	}
	if cfg.OperationsShrink <= 0 || cfg.OperationsShrink >= 1 {
		return nil, fmt.Errorf("OPS_OPERATIONS_SHRINK: значение %v вне диапазона (0, 1)", cfg.OperationsShrink)
	}
	if cfg.UnreadInterval, err = getEnvDuration("OPS_UNREAD_INTERVAL", 30*time.Second); err != nil {
		return nil, fmt.Errorf("OPS_UNREAD_INTERVAL: %w", err)
	}
	if cfg.ConversationInterval, err = getEnvDuration("OPS_CONVERSATION_INTERVAL", 10*time.Second); err != nil {
		return nil, fmt.Errorf("OPS_CONVERSATION_INTERVAL: %w", err)
	}
	for name, d := range map[string]time.Duration{
		"OPS_PRESENCE_INTERVAL":     cfg.PresenceInterval,
		"OPS_UNREAD_INTERVAL":       cfg.UnreadInterval,
		"OPS_CONVERSATION_INTERVAL": cfg.ConversationInterval,
	} {
		if d < time.Second {
			return nil, fmt.Errorf("%s: интервал %s меньше 1s", name, d)
		}
	}
	if cfg.ConversationCacheSize, err = getEnvInt("OPS_CONVERSATION_CACHE_SIZE", 256); err != nil {
		return nil, fmt.Errorf("OPS_CONVERSATION_CACHE_SIZE: %w", err)
	}
	if cfg.ConversationCacheSize < 1 || cfg.ConversationCacheSize > 100000 {
		return nil, fmt.Errorf("OPS_CONVERSATION_CACHE_SIZE: значение %d вне допустимого диапазона 1-100000", cfg.ConversationCacheSize)
	}
	if cfg.ConversationCacheTTL, err = getEnvDuration("OPS_CONVERSATION_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, fmt.Errorf("OPS_CONVERSATION_CACHE_TTL: %w", err)
	}
	if cfg.FetchTimeout, err = getEnvDuration("OPS_FETCH_TIMEOUT", 12*time.Second); err != nil {
		return nil, fmt.Errorf("OPS_FETCH_TIMEOUT: %w", err)
	}

	// --- Доставки и оповещения ---

	if cfg.EnforceTransitions, err = getEnvBool("OPS_ENFORCE_TRANSITIONS", true); err != nil {
		return nil, fmt.Errorf("OPS_ENFORCE_TRANSITIONS: %w", err)
	}
	if cfg.AlertDismissTTL, err = getEnvDuration("OPS_ALERT_DISMISS_TTL", 24*time.Hour); err != nil {
		return nil, fmt.Errorf("OPS_ALERT_DISMISS_TTL: %w", err)
	}

	// --- topologymetrics ---

	cfg.DephealthGroup = getEnvDefault("OPS_DEPHEALTH_GROUP", "logistics")
	if cfg.DephealthCheckInterval, err = getEnvDuration("OPS_DEPHEALTH_CHECK_INTERVAL", 15*time.Second); err != nil {
		return nil, fmt.Errorf("OPS_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}
	cfg.BackendHealthPath = getEnvDefault("OPS_BACKEND_HEALTH_PATH", "/health")
	if !strings.HasPrefix(cfg.BackendHealthPath, "/") {
		return nil, fmt.Errorf("OPS_BACKEND_HEALTH_PATH: путь %q должен начинаться с /", cfg.BackendHealthPath)
	}
	if cfg.BackendHealthTLSSkipVerify, err = getEnvBool("OPS_BACKEND_HEALTH_TLS_SKIP_VERIFY", false); err != nil {
		return nil, fmt.Errorf("OPS_BACKEND_HEALTH_TLS_SKIP_VERIFY: %w", err)
	}

	// --- Graceful shutdown ---

	if cfg.ShutdownTimeout, err = getEnvDuration("OPS_SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return nil, fmt.Errorf("OPS_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// validateBackendAuth проверяет, что задан ровно один способ авторизации в backend.
func validateBackendAuth(cfg *Config) error {
	if cfg.BackendTokenURL != "" {
		if cfg.BackendClientID == "" || cfg.BackendClientSecret == "" {
			return errors.New("OPS_BACKEND_TOKEN_URL: требуются OPS_BACKEND_CLIENT_ID и OPS_BACKEND_CLIENT_SECRET")
		}
		return nil
	}
	if cfg.BackendToken == "" {
		return errors.New("OPS_BACKEND_TOKEN: обязательная переменная окружения не задана (или задайте OPS_BACKEND_TOKEN_URL)")
	}
	return nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL PostgreSQL (для golang-migrate и меток topologymetrics).
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvFloat возвращает значение float64 из переменной окружения или значение по умолчанию.
func getEnvFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное число: %q", val)
	}
	return f, nil
}

// getEnvBool возвращает логическое значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное логическое значение: %q (true/false)", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
