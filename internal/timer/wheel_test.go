package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleFiresOnce(t *testing.T) {
	w := NewWheel()
	n := 0
	tm := w.Schedule(3*time.Second, func() { n++ })
	assert.True(t, tm.IsAlive())

	assert.Zero(t, w.Advance(2*time.Second))
	assert.Equal(t, 1, w.Advance(time.Second))
	assert.Equal(t, 1, n)
	assert.False(t, tm.IsAlive())
	assert.Zero(t, w.Advance(10*time.Second))
	assert.Equal(t, 13*time.Second, w.Now())
}

func TestStopBeforeDue(t *testing.T) {
	w := NewWheel()
	fired := false
	tm := w.Schedule(time.Second, func() { fired = true })
	require.True(t, tm.Stop())
	assert.False(t, tm.Stop())
	w.Advance(time.Minute)
	assert.False(t, fired)
	assert.Zero(t, w.Len())
}

func TestRepeat(t *testing.T) {
	w := NewWheel()
	var at []time.Duration
	tm := w.Repeat(5*time.Second, func() { at = append(at, w.Now()) })

	w.Advance(12 * time.Second)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, at)
	assert.True(t, tm.IsAlive())

	tm.Stop()
	w.Advance(time.Minute)
	assert.Len(t, at, 2)
}

func TestOrderAndReentrancy(t *testing.T) {
	w := NewWheel()
	var order []string
	var second *Timer
	w.Schedule(time.Second, func() {
		order = append(order, "a")
		second.Stop()
		w.Schedule(0, func() { order = append(order, "c") })
	})
	second = w.Schedule(time.Second, func() { order = append(order, "b") })
	w.Schedule(2*time.Second, func() { order = append(order, "d") })

	w.Advance(2 * time.Second)
	assert.Equal(t, []string{"a", "c", "d"}, order)
}

func TestRepeatStoppedFromOwnCallback(t *testing.T) {
	w := NewWheel()
	n := 0
	var tm *Timer
	tm = w.Repeat(time.Second, func() {
		n++
		if n == 3 {
			tm.Stop()
		}
	})
	w.Advance(10 * time.Second)
	assert.Equal(t, 3, n)
	assert.False(t, tm.IsAlive())
}

func TestClear(t *testing.T) {
	w := NewWheel()
	a := w.Schedule(time.Second, func() {})
	b := w.Repeat(time.Second, func() {})
	w.Clear()
	assert.False(t, a.IsAlive())
	assert.False(t, b.IsAlive())
	assert.Zero(t, w.Advance(time.Minute))
}
