package resilience

import (
	"context"
	"errors"
	"fmt"
	"net/textproto"
	"syscall"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

var fast = Policy{Attempts: 3, Backoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}

func TestDo_SucceedsAfterTransient(t *testing.T) {
	calls := 0
	err := Do(context.Background(), "test", fast, func(context.Context) error {
		calls++
		if calls < 3 {
			return syscall.ECONNRESET
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnPermanent(t *testing.T) {
	calls := 0
	perm := errors.New("550 file not found")
	err := Do(context.Background(), "test", fast, func(context.Context) error {
		calls++
		return perm
	})
	assert.ErrorIs(t, err, perm)
	assert.Equal(t, 1, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), "test", fast, func(context.Context) error {
		calls++
		return syscall.ECONNREFUSED
	})
	assert.ErrorIs(t, err, syscall.ECONNREFUSED)
	assert.Equal(t, 3, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, "test", Policy{Attempts: 5, Backoff: time.Hour}, func(context.Context) error {
		calls++
		cancel()
		return syscall.ECONNRESET
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoVal(t *testing.T) {
	calls := 0
	v, err := DoVal(context.Background(), "test", fast, func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", &textproto.Error{Code: 421, Msg: "service not available"}
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestDo_CustomRetryable(t *testing.T) {
	calls := 0
	p := fast
	p.Retryable = func(error) bool { return true }
	_ = Do(context.Background(), "test", p, func(context.Context) error {
		calls++
		return errors.New("anything")
	})
	assert.Equal(t, 3, calls)
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.True(t, IsTransient(timeoutErr{}))
	assert.True(t, IsTransient(fmt.Errorf("dial: %w", syscall.ECONNREFUSED)))
	assert.True(t, IsTransient(eris.Wrap(&textproto.Error{Code: 450, Msg: "busy"}, "ftp retrieve")))
	assert.False(t, IsTransient(&textproto.Error{Code: 550, Msg: "no such file"}))
	assert.False(t, IsTransient(&textproto.Error{Code: 530, Msg: "login incorrect"}))
	assert.False(t, IsTransient(errors.New("boom")))
}

func TestBackoff(t *testing.T) {
	p := Policy{Backoff: 100 * time.Millisecond, MaxBackoff: time.Second}.withDefaults()
	for attempt, base := range []time.Duration{100, 200, 400, 800, 1000, 1000} {
		d := backoff(attempt, p)
		want := base * time.Millisecond
		assert.InDelta(t, float64(want), float64(d), float64(want)*0.25+1, "attempt %d", attempt)
	}
}
