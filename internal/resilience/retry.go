// Package resilience retries catalog reads that fail for transient reasons.
package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net"
	"net/textproto"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Policy controls retry attempts and exponential backoff.
type Policy struct {
	// Attempts is the total number of tries, including the first. Default 3.
	Attempts int
	// Backoff is the delay before the first retry. Default 500ms.
	Backoff time.Duration
	// MaxBackoff caps each delay. Default 10s.
	MaxBackoff time.Duration
	// Retryable overrides IsTransient.
	Retryable func(error) bool
}

func (p Policy) withDefaults() Policy {
	if p.Attempts <= 0 {
		p.Attempts = 3
	}
	if p.Backoff <= 0 {
		p.Backoff = 500 * time.Millisecond
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = 10 * time.Second
	}
	if p.Retryable == nil {
		p.Retryable = IsTransient
	}
	return p
}

// Do runs fn until it succeeds, returns a permanent error, runs out of
// attempts, or ctx is done. The last error is returned.
func Do(ctx context.Context, op string, p Policy, fn func(context.Context) error) error {
	_, err := DoVal(ctx, op, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoVal is Do for functions that return a value.
func DoVal[T any](ctx context.Context, op string, p Policy, fn func(context.Context) (T, error)) (T, error) {
	p = p.withDefaults()

	var zero T
	for attempt := 0; ; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		if ctx.Err() != nil || !p.Retryable(err) || attempt+1 >= p.Attempts {
			return zero, err
		}

		delay := backoff(attempt, p)
		zap.L().Warn("resilience: retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return zero, err
		case <-t.C:
		}
	}
}

// backoff doubles per attempt up to MaxBackoff, with up to 25% jitter either way.
func backoff(attempt int, p Policy) time.Duration {
	d := math.Min(float64(p.Backoff)*math.Pow(2, float64(attempt)), float64(p.MaxBackoff))
	d += d * 0.25 * (rand.Float64()*2 - 1)
	return time.Duration(math.Max(d, 0))
}

// IsTransient reports whether err is worth retrying: network timeouts,
// refused or reset connections, and FTP 4xx replies.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	// FTP uses 4xx for "try again later" (421 service unavailable, 425 and
	// 426 data connection problems, 450-452 file busy or out of space).
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		return tpErr.Code >= 400 && tpErr.Code < 500
	}
	return false
}
