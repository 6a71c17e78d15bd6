package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// tokenExpiryMargin — запас до истечения токена, после которого он обновляется.
const tokenExpiryMargin = 30 * time.Second

// tokenInfo — закэшированный токен с временем истечения.
type tokenInfo struct {
	accessToken string
	expiresAt   time.Time
}

// tokenSource — источник Bearer-токена для запросов к backend:
// статический токен или client_credentials grant с кэшем до exp - 30s.
type tokenSource struct {
	static       string
	tokenURL     string
	clientID     string
	clientSecret string //nolint:gosec // G101: поле структуры, не содержит секрет напрямую
	httpClient   *http.Client
	maxRetries   uint64
	retryBase    time.Duration
	logger       *slog.Logger

	// Кэш токена (thread-safe)
	mu    sync.RWMutex
	token *tokenInfo
}

// Token возвращает токен. Для client_credentials использует кэш:
// если токен ещё валиден (exp - 30s), возвращает закэшированный.
func (s *tokenSource) Token(ctx context.Context) (string, error) {
	if s.tokenURL == "" {
		return s.static, nil
	}

	s.mu.RLock()
	if s.token != nil && time.Now().Before(s.token.expiresAt) {
		token := s.token.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check после получения write lock
	if s.token != nil && time.Now().Before(s.token.expiresAt) {
		return s.token.accessToken, nil
	}

	var token *tokenInfo
	op := func() error {
		t, err := s.requestToken(ctx)
		if err != nil {
			if !IsTransient(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		token = t
		return nil
	}
	if err := backoff.Retry(op, newRetryPolicy(ctx, s.retryBase, s.maxRetries)); err != nil {
		return "", err
	}

	s.token = token
	return token.accessToken, nil
}

// Invalidate сбрасывает кэш после 401 от backend.
func (s *tokenSource) Invalidate() {
	if s.tokenURL == "" {
		return
	}
	s.mu.Lock()
	s.token = nil
	s.mu.Unlock()
}

// requestToken запрашивает новый токен через client_credentials grant.
// Вызывается под write lock.
func (s *tokenSource) requestToken(ctx context.Context) (*tokenInfo, error) {
	data := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {s.clientID},
		"client_secret": {s.clientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("создание запроса token: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req) //nolint:gosec // G704: URL из конфигурации
	if err != nil {
		return nil, fmt.Errorf("запрос token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, classifyStatus("token", resp.StatusCode, string(body))
	}

	var tokenResp struct {
		Token     string `json:"access_token"` //nolint:gosec // G117: JSON-маппинг OAuth2 ответа
		ExpiresIn int    `json:"expires_in"`
		TokenType string `json:"token_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("декодирование token response: %w", errors.Join(ErrMalformed, err))
	}
	if tokenResp.Token == "" {
		return nil, fmt.Errorf("пустой access_token: %w", ErrMalformed)
	}

	// Кэшируем токен с запасом 30 секунд до истечения
	expiresAt := time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - tokenExpiryMargin)

	s.logger.Debug("Токен backend получен",
		slog.Int("expires_in", tokenResp.ExpiresIn),
	)

	return &tokenInfo{accessToken: tokenResp.Token, expiresAt: expiresAt}, nil
}

// newRetryPolicy — экспоненциальные повторы: не более maxRetries, с учётом ctx.
func newRetryPolicy(ctx context.Context, base time.Duration, maxRetries uint64) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = base
	exp.Multiplier = 2
	exp.MaxInterval = 8 * base
	exp.MaxElapsedTime = 0
	exp.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(exp, maxRetries), ctx)
}
