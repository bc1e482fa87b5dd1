package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFetchGuardSingleFlight(t *testing.T) {
	g := NewFetchGuard(100 * time.Millisecond)
	assert.True(t, g.TryAcquire())
	assert.False(t, g.TryAcquire(), "second acquire while busy must fail")
	g.Release()
}

func TestFetchGuardDebounce(t *testing.T) {
	clock := time.Now()
	g := NewFetchGuard(800 * time.Millisecond)
	g.now = func() time.Time { return clock }

	assert.True(t, g.TryAcquire())
	g.Release()

	clock = clock.Add(200 * time.Millisecond)
	assert.False(t, g.TryAcquire(), "retrigger inside the debounce window must be rejected")

	clock = clock.Add(700 * time.Millisecond)
	assert.True(t, g.TryAcquire(), "acquire after the window must succeed")
	g.Release()
}
