package timer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualSchedulerTicksUntilCancelled(t *testing.T) {
	m := NewManualScheduler()
	calls := 0
	cancel := m.Every(time.Second, func() { calls++ })

	m.Tick(3)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, m.Active())

	cancel()
	cancel()
	m.Tick(2)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 0, m.Active())
	assert.Equal(t, 1, m.Cancelled())
}

func TestManualSchedulerCancelFromCallback(t *testing.T) {
	m := NewManualScheduler()
	calls := 0
	var cancel func()
	cancel = m.Every(time.Second, func() {
		calls++
		cancel()
	})

	m.Tick(4)
	assert.Equal(t, 1, calls)
}

func TestTickerSchedulerStopsAfterCancel(t *testing.T) {
	var calls atomic.Int32
	cancel := NewTickerScheduler().Every(5*time.Millisecond, func() { calls.Add(1) })

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()
	cancel()

	// allow an in-flight tick to land
	time.Sleep(20 * time.Millisecond)
	settled := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, calls.Load())
}
