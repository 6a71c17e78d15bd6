// Пакет backend — HTTP-клиент REST backend логистики.
//
// Операции:
//   - GET /admin/drivers/sessions — активные сессии (присутствие, уровень 1)
//   - GET /admin/drivers — учётные записи (присутствие, уровень 2; список водителей)
//   - GET /admin/tracking/drivers, GET /admin/tracking/deliveries — снимки трекинга
//   - PUT /deliveries/admin/{id}/status, PUT /deliveries/admin/{id}/assign — команды
//   - GET /messages/contacts, GET /messages/conversations/{id},
//     POST /messages/send, GET /messages/unread — переписка
//
// Все запросы проходят через общий token-bucket лимитер (OPS_BACKEND_RPS).
// Идемпотентные PUT и запрос токена повторяются при временных ошибках
// (не более MaxRetries раз); фоновые GET не повторяются, повтор — следующий тик.
package backend

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
)

// maxErrorBody — сколько байт тела ошибки сохраняется в StatusError.
const maxErrorBody = 512

// Prometheus-метрики клиента backend.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ops_core_backend_requests_total",
		Help: "Количество запросов к backend по операциям и статусам",
	}, []string{"operation", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ops_core_backend_request_duration_seconds",
		Help:    "Длительность запросов к backend",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 12},
	}, []string{"operation"})

	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ops_core_backend_retries_total",
		Help: "Количество повторов запросов к backend",
	}, []string{"operation"})
)

// Options — параметры клиента.
type Options struct {
	// BaseURL — базовый URL backend (например, https://logistics.example.com/api)
	BaseURL string
	// Token — статический Bearer-токен сервиса (если TokenURL пуст)
	Token string
	// TokenURL — token endpoint для client_credentials (приоритетнее Token)
	TokenURL     string
	ClientID     string
	ClientSecret string //nolint:gosec // G101: поле структуры, не содержит секрет напрямую
	// CACertPath — путь к CA-сертификату (пустая строка — системный пул)
	CACertPath string
	// Timeout — таймаут одного HTTP-запроса
	Timeout time.Duration
	// RPS — лимит запросов в секунду (0 — без ограничения)
	RPS float64
	// Burst — размер burst лимитера
	Burst int
	// MaxRetries — число повторов для идемпотентных команд
	MaxRetries int
	// RetryBaseDelay — начальная задержка повтора
	RetryBaseDelay time.Duration
}

// Client — HTTP-клиент backend логистики.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     *tokenSource
	limiter    *rate.Limiter
	maxRetries uint64
	retryBase  time.Duration
	logger     *slog.Logger
}

// New создаёт клиент backend.
func New(opts Options, logger *slog.Logger) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("не задан базовый URL backend")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 12 * time.Second
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = 200 * time.Millisecond
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	httpClient := &http.Client{Timeout: opts.Timeout}
	if opts.CACertPath != "" {
		tlsConfig, err := buildTLSConfig(opts.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("загрузка CA-сертификата backend: %w", err)
		}
		httpClient.Transport = &http.Transport{
			TLSClientConfig: tlsConfig,
		}
		logger.Info("CA-сертификат backend добавлен в пул доверия",
			slog.String("ca_cert", opts.CACertPath),
		)
	}

	limit := rate.Inf
	burst := opts.Burst
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
		if burst <= 0 {
			burst = int(opts.RPS) + 1
		}
	}

	log := logger.With(slog.String("component", "backend_client"))

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		tokens: &tokenSource{
			static:       opts.Token,
			tokenURL:     opts.TokenURL,
			clientID:     opts.ClientID,
			clientSecret: opts.ClientSecret,
			httpClient:   httpClient,
			maxRetries:   uint64(opts.MaxRetries),
			retryBase:    opts.RetryBaseDelay,
			logger:       log,
		},
		limiter:    rate.NewLimiter(limit, burst),
		maxRetries: uint64(opts.MaxRetries),
		retryBase:  opts.RetryBaseDelay,
		logger:     log,
	}, nil
}

// BaseURL возвращает базовый URL backend (для health-проверок).
func (c *Client) BaseURL() string {
	return c.baseURL
}

// buildTLSConfig создаёт TLS-конфигурацию с кастомным CA.
func buildTLSConfig(caCertPath string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("чтение CA-сертификата: %w", err)
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	caCertPool.AppendCertsFromPEM(caCert)

	return &tls.Config{
		RootCAs: caCertPool,
	}, nil
}

// ListSessions возвращает активные сессии.
// GET /admin/drivers/sessions → { sessions: [...] }
func (c *Client) ListSessions(ctx context.Context) ([]model.Session, error) {
	var resp sessionsResponse
	if err := c.getJSON(ctx, "list_sessions", "/admin/drivers/sessions", &resp); err != nil {
		return nil, err
	}
	if resp.Sessions == nil {
		return nil, fmt.Errorf("list_sessions: нет поля sessions: %w", ErrMalformed)
	}
	return *resp.Sessions, nil
}

// ListAccounts возвращает учётные записи водителей и операторов.
// GET /admin/drivers → { data: [...] }
func (c *Client) ListAccounts(ctx context.Context) ([]model.Driver, error) {
	var resp accountsResponse
	if err := c.getJSON(ctx, "list_accounts", "/admin/drivers", &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("list_accounts: нет поля data: %w", ErrMalformed)
	}
	return *resp.Data, nil
}

// TrackingDrivers возвращает снимок трекинга водителей.
// GET /admin/tracking/drivers → { drivers: [...] }
func (c *Client) TrackingDrivers(ctx context.Context) ([]model.Driver, error) {
	var resp trackingDriversResponse
	if err := c.getJSON(ctx, "tracking_drivers", "/admin/tracking/drivers", &resp); err != nil {
		return nil, err
	}
	if resp.Drivers == nil {
		return nil, fmt.Errorf("tracking_drivers: нет поля drivers: %w", ErrMalformed)
	}
	return *resp.Drivers, nil
}

// TrackingDeliveries возвращает снимок доставок.
// GET /admin/tracking/deliveries → { deliveries: [...] }
func (c *Client) TrackingDeliveries(ctx context.Context) ([]model.Delivery, error) {
	var resp trackingDeliveriesResponse
	if err := c.getJSON(ctx, "tracking_deliveries", "/admin/tracking/deliveries", &resp); err != nil {
		return nil, err
	}
	if resp.Deliveries == nil {
		return nil, fmt.Errorf("tracking_deliveries: нет поля deliveries: %w", ErrMalformed)
	}
	return *resp.Deliveries, nil
}

// UpdateStatus меняет статус доставки.
// PUT /deliveries/admin/{id}/status { status }
func (c *Client) UpdateStatus(ctx context.Context, deliveryID string, status model.DeliveryStatus) error {
	path := "/deliveries/admin/" + url.PathEscape(deliveryID) + "/status"
	return c.putIdempotent(ctx, "update_status", path, statusRequest{Status: status})
}

// AssignDriver назначает водителя на доставку.
// PUT /deliveries/admin/{id}/assign { driverId }
func (c *Client) AssignDriver(ctx context.Context, deliveryID, driverID string) error {
	path := "/deliveries/admin/" + url.PathEscape(deliveryID) + "/assign"
	return c.putIdempotent(ctx, "assign_driver", path, assignRequest{DriverID: driverID})
}

// Contacts возвращает список собеседников.
// GET /messages/contacts → { contacts, teamMembers, drivers }
func (c *Client) Contacts(ctx context.Context) (*model.Contacts, error) {
	var resp model.Contacts
	if err := c.getJSON(ctx, "contacts", "/messages/contacts", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Conversation возвращает сообщения переписки с собеседником.
// GET /messages/conversations/{id} → { messages: [...] }
func (c *Client) Conversation(ctx context.Context, partnerID string) ([]model.Message, error) {
	var resp conversationResponse
	path := "/messages/conversations/" + url.PathEscape(partnerID)
	if err := c.getJSON(ctx, "conversation", path, &resp); err != nil {
		return nil, err
	}
	if resp.Messages == nil {
		return nil, fmt.Errorf("conversation: нет поля messages: %w", ErrMalformed)
	}
	return *resp.Messages, nil
}

// SendMessage отправляет сообщение водителю. Не повторяется: POST не идемпотентен.
// POST /messages/send { driverId, content }
func (c *Client) SendMessage(ctx context.Context, driverID, content string) (*model.Message, error) {
	body, err := c.do(ctx, "send_message", http.MethodPost, "/messages/send", sendRequest{DriverID: driverID, Content: content})
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var resp sendResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("send_message: %w", errors.Join(ErrMalformed, err))
	}
	return resp.Message, nil
}

// UnreadCounts возвращает счётчики непрочитанных сообщений.
// GET /messages/unread → { partnerId: count }
func (c *Client) UnreadCounts(ctx context.Context) (map[string]int, error) {
	var resp map[string]int
	if err := c.getJSON(ctx, "unread_counts", "/messages/unread", &resp); err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("unread_counts: пустой ответ: %w", ErrMalformed)
	}
	return resp, nil
}

// getJSON выполняет GET без повторов и декодирует ответ.
func (c *Client) getJSON(ctx context.Context, operation, path string, out any) error {
	body, err := c.do(ctx, operation, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrMalformed, err))
	}
	return nil
}

// putIdempotent выполняет PUT с повторами при временных ошибках.
func (c *Client) putIdempotent(ctx context.Context, operation, path string, payload any) error {
	attempt := 0
	op := func() error {
		if attempt > 0 {
			retriesTotal.WithLabelValues(operation).Inc()
		}
		attempt++
		_, err := c.do(ctx, operation, http.MethodPut, path, payload)
		if err != nil && !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("Повтор запроса к backend",
			slog.String("operation", operation),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()),
		)
	}
	return backoff.RetryNotify(op, newRetryPolicy(ctx, c.retryBase, c.maxRetries), notify)
}

// do выполняет один запрос: лимитер, авторизация, классификация статуса.
func (c *Client) do(ctx context.Context, operation, method, path string, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: ожидание лимитера: %w", operation, err)
	}

	var reqBody io.Reader = http.NoBody
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: сериализация запроса: %w", operation, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("создание запроса %s: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение токена для %s: %w", operation, err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req) //nolint:gosec // G704: URL из конфигурации
	requestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(operation, "error").Inc()
		return nil, fmt.Errorf("запрос %s к backend: %w", operation, err)
	}
	defer resp.Body.Close()
	requestsTotal.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if resp.StatusCode == http.StatusUnauthorized {
			c.tokens.Invalidate()
		}
		return nil, classifyStatus(operation, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("чтение ответа %s: %w", operation, err)
	}
	return body, nil
}
