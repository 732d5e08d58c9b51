package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountdownExpiresExactlyOnce(t *testing.T) {
	c := NewCountdown(3)

	assert.False(t, c.Tick())
	assert.False(t, c.Tick())
	assert.True(t, c.Tick())
	assert.Equal(t, Expired, c.State())
	assert.Equal(t, 0, c.Remaining())

	for i := 0; i < 5; i++ {
		assert.False(t, c.Tick(), "expired countdown must not re-fire")
	}
	assert.Equal(t, 0, c.Remaining())
	assert.Equal(t, 3, c.Elapsed())
}

func TestCountdownPauseResume(t *testing.T) {
	c := NewCountdown(10)
	c.Tick()

	assert.True(t, c.Pause())
	assert.False(t, c.Pause())
	assert.Equal(t, Paused, c.State())

	assert.False(t, c.Tick())
	assert.Equal(t, 9, c.Remaining(), "paused countdown must not move")

	assert.True(t, c.Resume())
	assert.False(t, c.Resume())
	c.Tick()
	assert.Equal(t, 8, c.Remaining())
}

func TestCountdownNoWayOutOfExpired(t *testing.T) {
	c := NewCountdown(1)
	assert.True(t, c.Tick())

	assert.False(t, c.Pause())
	assert.False(t, c.Resume())
	assert.Equal(t, Expired, c.State())
}

func TestCountdownNonPositiveStartsExpired(t *testing.T) {
	c := NewCountdown(0)
	assert.Equal(t, Expired, c.State())
	assert.False(t, c.Tick())
	assert.Equal(t, 0, c.Remaining())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "paused", Paused.String())
	assert.Equal(t, "expired", Expired.String())
}
