package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend down")

func fail(ctx context.Context) error { return errBackend }
func ok(ctx context.Context) error   { return nil }

func TestOpensAfterFailureThreshold(t *testing.T) {
	cb := New("test", WithFailureThreshold(3))

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, cb.Execute(context.Background(), fail), errBackend)
		assert.True(t, cb.IsClosed())
	}

	assert.ErrorIs(t, cb.Execute(context.Background(), fail), errBackend)
	assert.True(t, cb.IsOpen())

	// While open, calls are rejected without reaching the backend.
	called := false
	err := cb.Execute(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestHalfOpenRecovery(t *testing.T) {
	cb := New("test",
		WithFailureThreshold(1),
		WithSuccessThreshold(1),
		WithTimeout(20*time.Millisecond),
	)

	require.ErrorIs(t, cb.Execute(context.Background(), fail), errBackend)
	require.True(t, cb.IsOpen())

	time.Sleep(30 * time.Millisecond)

	// First probe after the timeout is allowed and closes the circuit.
	require.NoError(t, cb.Execute(context.Background(), ok))
	assert.True(t, cb.IsClosed())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cb := New("test",
		WithFailureThreshold(1),
		WithTimeout(20*time.Millisecond),
	)

	require.ErrorIs(t, cb.Execute(context.Background(), fail), errBackend)
	time.Sleep(30 * time.Millisecond)

	require.ErrorIs(t, cb.Execute(context.Background(), fail), errBackend)
	assert.True(t, cb.IsOpen())
}

func TestIsFailurePredicate(t *testing.T) {
	miss := errors.New("cache miss")
	cb := New("test",
		WithFailureThreshold(2),
		WithIsFailure(func(err error) bool { return !errors.Is(err, miss) }),
	)

	// Misses flow through without tripping the breaker.
	for i := 0; i < 10; i++ {
		assert.ErrorIs(t, cb.Execute(context.Background(), func(ctx context.Context) error { return miss }), miss)
	}
	assert.True(t, cb.IsClosed())

	require.ErrorIs(t, cb.Execute(context.Background(), fail), errBackend)
	require.ErrorIs(t, cb.Execute(context.Background(), fail), errBackend)
	assert.True(t, cb.IsOpen())
}

func TestExecuteWithFallback(t *testing.T) {
	cb := New("test", WithFailureThreshold(1))
	require.ErrorIs(t, cb.Execute(context.Background(), fail), errBackend)
	require.True(t, cb.IsOpen())

	err := cb.ExecuteWithFallback(context.Background(), ok, func(err error) error {
		assert.ErrorIs(t, err, ErrCircuitOpen)
		return nil
	})
	assert.NoError(t, err)
}

func TestOnStateChangeCallback(t *testing.T) {
	var transitions []string
	cb := New("test",
		WithFailureThreshold(1),
		WithOnStateChange(func(name string, from, to State) {
			transitions = append(transitions, from.String()+">"+to.String())
		}),
	)

	require.ErrorIs(t, cb.Execute(context.Background(), fail), errBackend)
	assert.Equal(t, []string{"closed>open"}, transitions)
}

func TestReset(t *testing.T) {
	cb := New("test", WithFailureThreshold(1))
	require.ErrorIs(t, cb.Execute(context.Background(), fail), errBackend)
	require.True(t, cb.IsOpen())

	cb.Reset()
	assert.True(t, cb.IsClosed())
	assert.Equal(t, Counts{}, cb.Counts())
}
