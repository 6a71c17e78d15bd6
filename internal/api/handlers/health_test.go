package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeChecker struct {
	status, message string
}

func (f fakeChecker) CheckReady() (string, string) { return f.status, f.message }

type fakeReporter map[string]bool

func (f fakeReporter) Health() map[string]bool { return f }

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name       string
		pg         ReadinessChecker
		backend    ReadinessChecker
		wantStatus int
		wantOver   string
	}{
		{"всё доступно", fakeChecker{statusOK, ""}, fakeChecker{statusOK, ""}, http.StatusOK, statusOK},
		{"backend упал — degraded", fakeChecker{statusOK, ""}, fakeChecker{statusFail, "down"}, http.StatusOK, statusDegraded},
		{"PostgreSQL упал", fakeChecker{statusFail, "down"}, fakeChecker{statusOK, ""}, http.StatusServiceUnavailable, statusFail},
		{"без checkers", nil, nil, http.StatusServiceUnavailable, statusFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.pg, tt.backend)
			rec := httptest.NewRecorder()
			h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("статус = %d, хотели %d", rec.Code, tt.wantStatus)
			}
			resp := decode[healthReadyResponse](t, rec)
			if resp.Status != tt.wantOver {
				t.Errorf("итог = %s, хотели %s", resp.Status, tt.wantOver)
			}
		})
	}
}

func TestHealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(nil, nil).HealthLive(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	resp := decode[healthLiveResponse](t, rec)
	if rec.Code != http.StatusOK || resp.Service != "ops-core" {
		t.Errorf("ответ = %d %+v", rec.Code, resp)
	}
}

func TestDependencyChecker(t *testing.T) {
	tests := []struct {
		name     string
		reporter HealthReporter
		want     string
	}{
		{"без мониторинга", nil, statusDegraded},
		{"ещё не проверено", fakeReporter{}, statusDegraded},
		{"доступен", fakeReporter{"logistics-backend:api.example.com:443": true, "postgresql:db:5432": false}, statusOK},
		{"недоступен", fakeReporter{"logistics-backend:api.example.com:443": false}, statusFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewDependencyChecker(tt.reporter, "logistics-backend")
			if got, _ := c.CheckReady(); got != tt.want {
				t.Errorf("статус = %s, хотели %s", got, tt.want)
			}
		})
	}
}
