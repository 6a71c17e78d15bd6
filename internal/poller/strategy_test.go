package poller

import (
	"math"
	"testing"
	"time"
)

// TestAdaptiveStrategy_Backoff проверяет рост интервала при неизменных данных:
// после N тиков интервал равен min(Max, Base × Growth^N).
func TestAdaptiveStrategy_Backoff(t *testing.T) {
	s := DefaultAdaptive()
	interval := s.Initial()
	if interval != 60*time.Second {
		t.Fatalf("Initial() = %s, ожидалось 60s", interval)
	}

	for n := 1; n <= 10; n++ {
		interval = s.Next(interval, false)
		want := math.Min(float64(s.Max), float64(s.Base)*math.Pow(s.Growth, float64(n)))
		if diff := math.Abs(float64(interval) - want); diff > float64(n) {
			t.Errorf("после %d тиков интервал %s, ожидалось ≈%s", n, interval, time.Duration(want))
		}
		if interval > s.Max {
			t.Errorf("интервал %s превышает Max %s", interval, s.Max)
		}
	}
	if interval != s.Max {
		t.Errorf("после 10 тиков ожидался Max, получено %s", interval)
	}
}

// TestAdaptiveStrategy_NoDrift: базовый интервал не кратен миллисекунде,
// интервал после N шагов совпадает с Base × Growth^N с точностью до N нс.
func TestAdaptiveStrategy_NoDrift(t *testing.T) {
	s := AdaptiveStrategy{
		Base:   1234567891 * time.Nanosecond,
		Min:    time.Millisecond,
		Max:    time.Hour,
		Growth: 1.3,
		Shrink: 0.8,
	}
	interval := s.Initial()
	for n := 1; n <= 15; n++ {
		interval = s.Next(interval, false)
		want := float64(s.Base) * math.Pow(s.Growth, float64(n))
		if diff := math.Abs(float64(interval) - want); diff > float64(n) {
			t.Fatalf("после %d шагов интервал %s, ожидалось %s (отклонение %.0f нс)",
				n, interval, time.Duration(want), diff)
		}
	}

	interval = s.Initial()
	for n := 1; n <= 5; n++ {
		interval = s.Next(interval, true)
		want := float64(s.Base) * math.Pow(s.Shrink, float64(n))
		if diff := math.Abs(float64(interval) - want); diff > float64(n) {
			t.Fatalf("после %d сокращений интервал %s, ожидалось %s", n, interval, time.Duration(want))
		}
	}
}

// TestAdaptiveStrategy_SpeedUp проверяет сокращение интервала при изменениях.
func TestAdaptiveStrategy_SpeedUp(t *testing.T) {
	s := DefaultAdaptive()
	interval := s.Max

	for n := 0; n < 20; n++ {
		next := s.Next(interval, true)
		if next < s.Min {
			t.Fatalf("интервал %s ниже Min %s", next, s.Min)
		}
		if interval > s.Min && next >= interval {
			t.Errorf("интервал должен строго уменьшаться: %s → %s", interval, next)
		}
		interval = next
	}
	if interval != s.Min {
		t.Errorf("ожидался Min, получено %s", interval)
	}

	if got := s.Next(60*time.Second, true); got != 48*time.Second {
		t.Errorf("Next(60s, changed) = %s, ожидалось 48s", got)
	}
	if got := s.Next(60*time.Second, false); got != 78*time.Second {
		t.Errorf("Next(60s, unchanged) = %s, ожидалось 78s", got)
	}
}

// TestFixedStrategy проверяет постоянный период.
func TestFixedStrategy(t *testing.T) {
	s := FixedStrategy{Period: 30 * time.Second}
	if s.Initial() != 30*time.Second || s.Next(time.Second, true) != 30*time.Second || s.Next(time.Hour, false) != 30*time.Second {
		t.Error("FixedStrategy должна возвращать постоянный период")
	}
}
