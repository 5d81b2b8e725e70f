package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryAcquire(t *testing.T) {
	l := New(3, time.Minute)

	assert.True(t, l.TryAcquire())
	assert.True(t, l.TryAcquire())
	assert.True(t, l.TryAcquire())
	assert.False(t, l.TryAcquire(), "fourth call must be rejected inside the window")
	assert.Equal(t, 3, l.Admitted())
}

func TestWindowExpiry(t *testing.T) {
	l := New(2, time.Minute)

	current := time.Unix(1000, 0)
	l.now = func() time.Time { return current }

	admitted, _ := l.tryAdmit()
	require.True(t, admitted)
	admitted, _ = l.tryAdmit()
	require.True(t, admitted)

	admitted, wait := l.tryAdmit()
	require.False(t, admitted)
	assert.Greater(t, wait, time.Duration(0))

	// Slide past the window; both stamps expire.
	current = current.Add(time.Minute + time.Second)
	assert.Equal(t, 0, l.Admitted())

	admitted, _ = l.tryAdmit()
	assert.True(t, admitted)
}

func TestAcquireBlocksUntilAdmission(t *testing.T) {
	l := New(1, 50*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx))

	start := time.Now()
	require.NoError(t, l.Acquire(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond,
		"second admission must wait for the window to slide")
}

func TestAcquireHonorsContext(t *testing.T) {
	l := New(1, time.Hour)
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx)
	require.Error(t, err, "admission cannot outlive the context deadline")
}

func TestConcurrentAdmission(t *testing.T) {
	l := New(100, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, l.Acquire(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, l.Admitted())
}
