// health.go — обработчики health endpoints Ops Core.
// /health/live — liveness probe (процесс жив)
// /health/ready — readiness probe (PostgreSQL + backend логистики)
// /metrics — Prometheus метрики
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/config"
)

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusFail     = "fail"
	serviceName    = "ops-core"
)

// ReadinessChecker — интерфейс проверки готовности зависимости.
type ReadinessChecker interface {
	// CheckReady возвращает статус ("ok", "degraded", "fail") и сообщение.
	CheckReady() (status string, message string)
}

// HealthReporter — источник состояния зависимостей (dephealth).
type HealthReporter interface {
	Health() map[string]bool
}

// DependencyChecker — ReadinessChecker поверх состояния dephealth.
// Ключи Health() имеют вид "имя:хост:порт".
type DependencyChecker struct {
	reporter HealthReporter
	name     string
}

// NewDependencyChecker создаёт checker для зависимости с указанным именем.
func NewDependencyChecker(reporter HealthReporter, name string) *DependencyChecker {
	return &DependencyChecker{reporter: reporter, name: name}
}

// CheckReady возвращает состояние зависимости по последней проверке.
// До первой проверки — degraded.
func (c *DependencyChecker) CheckReady() (status, message string) {
	if c.reporter == nil {
		return statusDegraded, "мониторинг зависимостей не запущен"
	}
	found := false
	for key, healthy := range c.reporter.Health() {
		if key != c.name && !strings.HasPrefix(key, c.name+":") {
			continue
		}
		found = true
		if !healthy {
			return statusFail, c.name + " недоступен"
		}
	}
	if !found {
		return statusDegraded, "проверка " + c.name + " ещё не выполнена"
	}
	return statusOK, c.name + " доступен"
}

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	pgChecker      ReadinessChecker
	backendChecker ReadinessChecker
	promHandler    http.Handler
}

// NewHealthHandler создаёт обработчик health endpoints.
// nil-checker даёт "fail" для PostgreSQL и "degraded" для backend:
// без backend консоль отдаёт последние снимки.
func NewHealthHandler(pgChecker, backendChecker ReadinessChecker) *HealthHandler {
	return &HealthHandler{
		pgChecker:      pgChecker,
		backendChecker: backendChecker,
		promHandler:    promhttp.Handler(),
	}
}

type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type healthLiveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

type healthReadyResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
	Checks    struct {
		PostgreSQL healthCheckResult `json:"postgresql"`
		Backend    healthCheckResult `json:"backend"`
	} `json:"checks"`
}

// HealthLive — liveness probe. Возвращает 200 если процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthLiveResponse{
		Status:    statusOK,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	})
}

// HealthReady — readiness probe. Возвращает 200 (ok/degraded) или 503 (fail).
// Недоступный backend понижает статус до degraded, а не fail.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	resp := healthReadyResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	}

	if h.pgChecker != nil {
		st, msg := h.pgChecker.CheckReady()
		resp.Checks.PostgreSQL = healthCheckResult{Status: st, Message: msg}
	} else {
		resp.Checks.PostgreSQL = healthCheckResult{Status: statusFail, Message: "не инициализирован"}
	}

	if h.backendChecker != nil {
		st, msg := h.backendChecker.CheckReady()
		if st == statusFail {
			st = statusDegraded
		}
		resp.Checks.Backend = healthCheckResult{Status: st, Message: msg}
	} else {
		resp.Checks.Backend = healthCheckResult{Status: statusDegraded, Message: "не инициализирован"}
	}

	resp.Status = overallStatus(resp.Checks.PostgreSQL.Status, resp.Checks.Backend.Status)

	code := http.StatusOK
	if resp.Status == statusFail {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}

// overallStatus: fail, если есть fail; degraded, если есть degraded; иначе ok.
func overallStatus(statuses ...string) string {
	hasDegraded := false
	for _, s := range statuses {
		if s == statusFail {
			return statusFail
		}
		if s == statusDegraded {
			hasDegraded = true
		}
	}
	if hasDegraded {
		return statusDegraded
	}
	return statusOK
}
