// Пакет poller — фоновый опрос источника данных с адаптивным интервалом.
//
// Правила:
//   - не более одного обновления одновременно (слот-канал ёмкостью 1);
//     тик или Trigger во время активного обновления — no-op
//   - скрытое представление (SetVisible(false)): тики идут по расписанию,
//     обновление пропускается без накопления очереди; при возврате
//     видимости выполняется не более одного немедленного обновления,
//     и только если был пропущен хотя бы один тик
//   - интервал определяет Strategy по отпечатку результата; первое
//     обновление только фиксирует базовый отпечаток
//   - после возврата Stop не начинается ни одно обновление и не вызывается Apply;
//     контекст текущего запроса отменяется, запрос не дожидается
//   - каждый запрос ограничен таймаутом; ошибки и panic логируются,
//     следующий тик повторяет попытку
//
// Prometheus-метрики:
//   - ops_core_poller_refresh_total — обновления по результату (ok, error, timeout, panic)
//   - ops_core_poller_skipped_ticks_total — пропущенные тики (hidden, in_flight)
//   - ops_core_poller_interval_seconds — текущий интервал
//   - ops_core_poller_fetch_duration_seconds — длительность запроса
package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultTimeout — таймаут одного запроса по умолчанию.
const DefaultTimeout = 12 * time.Second

// Prometheus-метрики опроса.
var (
	refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ops_core_poller_refresh_total",
		Help: "Количество обновлений по результату",
	}, []string{"poller", "result"})

	skippedTicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ops_core_poller_skipped_ticks_total",
		Help: "Количество пропущенных тиков",
	}, []string{"poller", "reason"}) // reason: hidden, in_flight

	intervalSeconds = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ops_core_poller_interval_seconds",
		Help: "Текущий интервал опроса в секундах",
	}, []string{"poller"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ops_core_poller_fetch_duration_seconds",
		Help:    "Длительность запроса данных",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 12, 15},
	}, []string{"poller"})
)

// errPanic — Fetch завершился panic.
var errPanic = errors.New("panic в fetch")

// Config — параметры поллера.
type Config[T any] struct {
	// Name — имя поллера (метка метрик, логи)
	Name string
	// Fetch — запрос данных; получает контекст с таймаутом
	Fetch func(ctx context.Context) (T, error)
	// Fingerprint — дешёвый отпечаток результата (nil — данные считаются неизменными)
	Fingerprint func(T) uint64
	// Apply — применение результата к кэшу; не должен вызывать Stop
	Apply func(T)
	// Strategy — политика интервала (по умолчанию DefaultAdaptive)
	Strategy Strategy
	// Timeout — таймаут запроса (по умолчанию DefaultTimeout)
	Timeout time.Duration
	// Logger — логгер
	Logger *slog.Logger
}

// Status — состояние поллера для API представлений.
type Status struct {
	Name        string     `json:"name"`
	Running     bool       `json:"running"`
	Visible     bool       `json:"visible"`
	InFlight    bool       `json:"inFlight"`
	IntervalMs  int64      `json:"intervalMs"`
	Refreshes   uint64     `json:"refreshes"`
	Skipped     uint64     `json:"skippedTicks"`
	LastRefresh *time.Time `json:"lastRefresh,omitempty"`
	LastError   string     `json:"lastError,omitempty"`
}

// Poller — фоновый опрос одного источника данных.
type Poller[T any] struct {
	name        string
	fetch       func(ctx context.Context) (T, error)
	fingerprint func(T) uint64
	apply       func(T)
	strategy    Strategy
	timeout     time.Duration
	logger      *slog.Logger

	inflight chan struct{} // слот активного обновления
	applyMu  sync.Mutex    // Apply и Stop взаимно исключены

	mu          sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	timer       *time.Timer
	started     bool
	stopped     bool
	visible     bool
	missed      bool
	interval    time.Duration
	hasBaseline bool
	lastFP      uint64
	refreshes   uint64
	skipped     uint64
	lastRefresh time.Time
	lastErr     string
}

// New создаёт поллер. Fetch и Apply обязательны.
func New[T any](cfg Config[T]) (*Poller[T], error) {
	if cfg.Fetch == nil || cfg.Apply == nil {
		return nil, fmt.Errorf("поллер %q: Fetch и Apply обязательны", cfg.Name)
	}
	if cfg.Strategy == nil {
		cfg.Strategy = DefaultAdaptive()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	interval := cfg.Strategy.Initial()
	if interval <= 0 {
		return nil, fmt.Errorf("поллер %q: интервал должен быть > 0, получено %s", cfg.Name, interval)
	}

	return &Poller[T]{
		name:        cfg.Name,
		fetch:       cfg.Fetch,
		fingerprint: cfg.Fingerprint,
		apply:       cfg.Apply,
		strategy:    cfg.Strategy,
		timeout:     cfg.Timeout,
		logger:      cfg.Logger.With(slog.String("component", "poller"), slog.String("poller", cfg.Name)),
		inflight:    make(chan struct{}, 1),
		visible:     true,
		interval:    interval,
	}, nil
}

// Name возвращает имя поллера.
func (p *Poller[T]) Name() string { return p.name }

// Start запускает опрос: первое обновление — сразу, далее по расписанию.
// Повторный вызов и вызов после Stop игнорируются.
func (p *Poller[T]) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.stopped {
		return
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.started = true
	intervalSeconds.WithLabelValues(p.name).Set(p.interval.Seconds())
	p.scheduleLocked(0)

	p.logger.Info("Опрос запущен", slog.String("interval", p.interval.String()))
}

// Stop останавливает опрос. После возврата не начинается ни одно
// обновление и не вызывается Apply. Текущий запрос отменяется и не дожидается.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	if p.timer != nil {
		p.timer.Stop()
	}
	if p.cancel != nil {
		p.cancel()
	}
	wasStarted := p.started
	p.mu.Unlock()

	// Дожидаемся завершения Apply, начатого до установки stopped.
	p.applyMu.Lock()
	p.applyMu.Unlock() //nolint:staticcheck // SA2001: барьер для текущего Apply

	if wasStarted {
		p.logger.Info("Опрос остановлен")
	}
}

// SetVisible переключает видимость представления.
// Возврат видимости после пропущенных тиков запускает одно немедленное обновление.
func (p *Poller[T]) SetVisible(visible bool) {
	p.mu.Lock()
	wasVisible := p.visible
	p.visible = visible
	resume := visible && !wasVisible && p.missed && p.started && !p.stopped
	if visible {
		p.missed = false
	}
	p.mu.Unlock()

	if resume {
		p.logger.Debug("Видимость восстановлена, немедленное обновление")
		go p.RefreshNow()
	}
}

// Trigger запрашивает немедленное обновление в фоне.
// Для скрытого представления обновление откладывается до возврата видимости.
func (p *Poller[T]) Trigger() {
	p.mu.Lock()
	if !p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	if !p.visible {
		p.missed = true
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	go p.RefreshNow()
}

// RefreshNow синхронно выполняет обновление, если поллер запущен,
// видим и не занят другим обновлением. Возвращает false, если обновление
// не выполнялось.
func (p *Poller[T]) RefreshNow() bool {
	select {
	case p.inflight <- struct{}{}:
	default:
		p.countSkip("in_flight")
		return false
	}
	defer func() { <-p.inflight }()

	p.mu.Lock()
	if !p.started || p.stopped || !p.visible {
		p.mu.Unlock()
		return false
	}
	ctx := p.ctx
	p.mu.Unlock()

	p.refresh(ctx)
	return true
}

// Status возвращает текущее состояние поллера.
func (p *Poller[T]) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := Status{
		Name:       p.name,
		Running:    p.started && !p.stopped,
		Visible:    p.visible,
		InFlight:   len(p.inflight) > 0,
		IntervalMs: p.interval.Milliseconds(),
		Refreshes:  p.refreshes,
		Skipped:    p.skipped,
		LastError:  p.lastErr,
	}
	if !p.lastRefresh.IsZero() {
		t := p.lastRefresh
		st.LastRefresh = &t
	}
	return st
}

// Interval возвращает текущий интервал.
func (p *Poller[T]) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

// onTick — срабатывание таймера.
func (p *Poller[T]) onTick() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	// Следующий тик планируется сразу, чтобы зависший запрос не остановил расписание.
	p.scheduleLocked(p.interval)
	if !p.visible {
		p.missed = true
		p.mu.Unlock()
		p.countSkip("hidden")
		return
	}
	p.mu.Unlock()

	p.RefreshNow()
}

// refresh выполняет запрос, вычисляет интервал и применяет результат.
// Вызывается только при занятом слоте inflight.
func (p *Poller[T]) refresh(parent context.Context) {
	started := time.Now()
	ctx, cancel := context.WithTimeout(parent, p.timeout)
	defer cancel()

	value, err := p.safeFetch(ctx)
	fetchDuration.WithLabelValues(p.name).Observe(time.Since(started).Seconds())
	if err != nil {
		p.recordError(parent, err)
		return
	}

	var fp uint64
	if p.fingerprint != nil {
		fp = p.fingerprint(value)
	}

	p.applyMu.Lock()
	defer p.applyMu.Unlock()

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	first := !p.hasBaseline
	changed := !first && fp != p.lastFP
	p.lastFP = fp
	p.hasBaseline = true
	if !first {
		p.interval = p.strategy.Next(p.interval, changed)
	}
	p.scheduleLocked(p.interval)
	p.refreshes++
	p.lastRefresh = time.Now().UTC()
	p.lastErr = ""
	interval := p.interval
	p.mu.Unlock()

	intervalSeconds.WithLabelValues(p.name).Set(interval.Seconds())

	if err := p.safeApply(value); err != nil {
		refreshTotal.WithLabelValues(p.name, "panic").Inc()
		p.logger.Error("Panic при применении результата", slog.String("error", err.Error()))
		return
	}
	refreshTotal.WithLabelValues(p.name, "ok").Inc()

	p.logger.Debug("Обновление выполнено",
		slog.Bool("changed", changed),
		slog.String("interval", interval.String()),
		slog.Duration("duration", time.Since(started)),
	)
}

// safeFetch выполняет Fetch в отдельной горутине. При отмене контекста
// результат не дожидается: горутина завершится сама, ответ будет отброшен.
func (p *Poller[T]) safeFetch(ctx context.Context) (T, error) {
	type result struct {
		value T
		err   error
	}
	ch := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("%w: %v", errPanic, r)}
			}
		}()
		v, err := p.fetch(ctx)
		ch <- result{value: v, err: err}
	}()

	select {
	case r := <-ch:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (p *Poller[T]) safeApply(value T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic в apply: %v", r)
		}
	}()
	p.apply(value)
	return nil
}

func (p *Poller[T]) recordError(parent context.Context, err error) {
	// Остановка поллера — не ошибка опроса.
	if parent.Err() != nil {
		return
	}

	result := "error"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		result = "timeout"
	case errors.Is(err, errPanic):
		result = "panic"
	}
	refreshTotal.WithLabelValues(p.name, result).Inc()

	p.mu.Lock()
	p.lastErr = err.Error()
	p.mu.Unlock()

	p.logger.Warn("Ошибка обновления, повтор на следующем тике",
		slog.String("result", result),
		slog.String("error", err.Error()),
	)
}

func (p *Poller[T]) countSkip(reason string) {
	skippedTicksTotal.WithLabelValues(p.name, reason).Inc()
	p.mu.Lock()
	p.skipped++
	p.mu.Unlock()
}

// scheduleLocked перепланирует следующий тик. Вызывается под p.mu.
func (p *Poller[T]) scheduleLocked(d time.Duration) {
	if p.stopped {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(d, p.onTick)
}
