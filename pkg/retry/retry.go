// Package retry политика ограниченного backoff для условной записи.
// Ожидание и случайность подменяются в тестах.
package retry

import (
	"context"
	"math/rand/v2"
	"time"
)

// Значения по умолчанию для цикла optimistic concurrency
const (
	DefaultMaxAttempts = 10
	DefaultBaseDelay   = 30 * time.Millisecond
	DefaultStep        = 25 * time.Millisecond
	DefaultJitter      = 25 * time.Millisecond
)

// Sleeper ждет d или отмены ctx
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RandSource возвращает значение в [0, n)
type RandSource interface {
	Int64N(n int64) int64
}

// Policy задержка перед попыткой N (N >= 1): Base + N*Step + rand[0, Jitter)
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Step        time.Duration
	Jitter      time.Duration

	Sleeper Sleeper
	Rand    RandSource
}

// DefaultPolicy возвращает политику для production
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Step:        DefaultStep,
		Jitter:      DefaultJitter,
		Sleeper:     TimerSleeper{},
		Rand:        GlobalRand{},
	}
}

// WithDefaults берет MaxAttempts, Sleeper и Rand из DefaultPolicy, если они не заданы; отрицательные задержки обнуляются
func (p Policy) WithDefaults() Policy {
	d := DefaultPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.BaseDelay < 0 {
		p.BaseDelay = 0
	}
	if p.Step < 0 {
		p.Step = 0
	}
	if p.Jitter < 0 {
		p.Jitter = 0
	}
	if p.Sleeper == nil {
		p.Sleeper = d.Sleeper
	}
	if p.Rand == nil {
		p.Rand = d.Rand
	}
	return p
}

// Delay возвращает паузу перед попыткой (попытка 0 не ждет)
func (p Policy) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	d := p.BaseDelay + time.Duration(attempt)*p.Step
	if p.Jitter > 0 && p.Rand != nil {
		d += time.Duration(p.Rand.Int64N(int64(p.Jitter)))
	}
	return d
}

// Wait ждет перед попыткой
func (p Policy) Wait(ctx context.Context, attempt int) error {
	d := p.Delay(attempt)
	if d <= 0 {
		return ctx.Err()
	}
	return p.Sleeper.Sleep(ctx, d)
}

// TimerSleeper ждет на реальном таймере
type TimerSleeper struct{}

func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// GlobalRand использует потокобезопасный глобальный источник math/rand/v2
type GlobalRand struct{}

func (GlobalRand) Int64N(n int64) int64 {
	return rand.Int64N(n)
}
