package runtime

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corrreia/gostrike-utils/internal/bridge/bridgetest"
)

func TestNextFrameRunsOnFollowingTick(t *testing.T) {
	s := NewScheduler()
	var order []string

	s.NextFrame(func() {
		order = append(order, "a")
		// Queued during a tick: must wait for the next one
		s.NextFrame(func() { order = append(order, "c") })
	})
	s.NextFrame(func() { order = append(order, "b") })
	assert.Equal(t, 2, s.PendingFrames())

	s.Tick(0.1)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 1, s.PendingFrames())

	s.Tick(0.1)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestTimerFiresAfterInterval(t *testing.T) {
	s := NewScheduler()
	fired := 0
	id := s.CreateTimer(0.25, false, func() { fired++ })
	require.NotZero(t, id)

	s.Tick(0.1)
	s.Tick(0.1)
	assert.Equal(t, 0, fired)
	s.Tick(0.1)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, s.TimerCount())

	s.Tick(1)
	assert.Equal(t, 1, fired, "one-shot timer must not fire twice")
}

func TestTimersFireInCreationOrder(t *testing.T) {
	s := NewScheduler()
	var order []int
	for i := 1; i <= 5; i++ {
		i := i
		s.CreateTimer(0.1, false, func() { order = append(order, i) })
	}
	s.Tick(1)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, order)
}

func TestRepeatingTimerAndStop(t *testing.T) {
	s := NewScheduler()
	fired := 0
	id := s.CreateTimer(0.5, true, func() { fired++ })

	s.Tick(0.5)
	s.Tick(0.5)
	assert.Equal(t, 2, fired)

	s.StopTimer(id)
	s.Tick(0.5)
	assert.Equal(t, 2, fired)
	assert.Equal(t, 0, s.TimerCount())
}

func TestTimerStoppedByEarlierCallbackInSameTick(t *testing.T) {
	s := NewScheduler()
	var second uint64
	secondFired := false
	s.CreateTimer(0.1, false, func() { s.StopTimer(second) })
	second = s.CreateTimer(0.1, false, func() { secondFired = true })

	s.Tick(0.2)
	assert.False(t, secondFired)
}

func TestCreateTimerRejectsInvalidArguments(t *testing.T) {
	s := NewScheduler()
	assert.Zero(t, s.CreateTimer(0, false, func() {}))
	assert.Zero(t, s.CreateTimer(-1, false, func() {}))
	assert.Zero(t, s.CreateTimer(1, false, nil))
	assert.Equal(t, 0, s.TimerCount())
}

func TestPanickingCallbackIsRecovered(t *testing.T) {
	h := bridgetest.New(t)
	s := NewScheduler()
	after := false
	s.NextFrame(func() { panic("boom") })
	s.NextFrame(func() { after = true })

	require.NotPanics(t, func() { s.Tick(0.1) })
	assert.True(t, after)
	require.NotEmpty(t, h.Logs)
	assert.Equal(t, "PANIC", h.Logs[0].Tag)
}

func TestClear(t *testing.T) {
	s := NewScheduler()
	fired := false
	s.CreateTimer(0.1, true, func() { fired = true })
	s.NextFrame(func() { fired = true })

	s.Clear()
	s.Tick(1)
	assert.False(t, fired)
}

func TestSafeCallWithError(t *testing.T) {
	bridgetest.New(t)

	want := errors.New("plain")
	assert.Equal(t, want, SafeCallWithError("test", func() error { return want }))

	err := SafeCallWithError("test", func() error { panic("bad") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in test")
}
