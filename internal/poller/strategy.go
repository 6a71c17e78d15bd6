package poller

import (
	"math"
	"time"
)

// Strategy — политика интервала опроса.
// Next вызывается после каждого завершённого обновления, кроме первого
// (первое только фиксирует базовый отпечаток).
type Strategy interface {
	// Initial возвращает стартовый интервал.
	Initial() time.Duration
	// Next возвращает следующий интервал по текущему и признаку изменения данных.
	Next(current time.Duration, changed bool) time.Duration
}

// FixedStrategy — постоянный период без адаптации.
type FixedStrategy struct {
	Period time.Duration
}

// Initial возвращает период.
func (s FixedStrategy) Initial() time.Duration { return s.Period }

// Next возвращает период независимо от изменений.
func (s FixedStrategy) Next(time.Duration, bool) time.Duration { return s.Period }

// Параметры адаптивного опроса по умолчанию.
const (
	DefaultBaseInterval = 60 * time.Second
	DefaultMinInterval  = 45 * time.Second
	DefaultMaxInterval  = 180 * time.Second
	DefaultGrowthFactor = 1.3
	DefaultShrinkFactor = 0.8
)

// AdaptiveStrategy — интервал растёт при неизменных данных и
// сокращается при изменениях, в пределах [Min, Max].
type AdaptiveStrategy struct {
	Base   time.Duration
	Min    time.Duration
	Max    time.Duration
	Growth float64
	Shrink float64
}

// DefaultAdaptive возвращает стратегию 60s, ×1.3 до 180s, ×0.8 до 45s.
func DefaultAdaptive() AdaptiveStrategy {
	return AdaptiveStrategy{
		Base:   DefaultBaseInterval,
		Min:    DefaultMinInterval,
		Max:    DefaultMaxInterval,
		Growth: DefaultGrowthFactor,
		Shrink: DefaultShrinkFactor,
	}
}

// Initial возвращает базовый интервал, приведённый к границам.
func (s AdaptiveStrategy) Initial() time.Duration {
	return s.clamp(s.Base)
}

// Next: unchanged → min(Max, current×Growth), changed → max(Min, current×Shrink).
// Результат округляется до наносекунды: после N шагов отклонение от
// Base×Growth^N не превышает N/2 нс.
func (s AdaptiveStrategy) Next(current time.Duration, changed bool) time.Duration {
	factor := s.Growth
	if changed {
		factor = s.Shrink
	}
	next := time.Duration(math.Round(float64(current) * factor))
	return s.clamp(next)
}

func (s AdaptiveStrategy) clamp(d time.Duration) time.Duration {
	if s.Max > 0 && d > s.Max {
		return s.Max
	}
	if d < s.Min {
		return s.Min
	}
	return d
}
