// Package timer schedules game-time callbacks for one region. A Wheel never
// starts goroutines: callbacks run inside Advance, on the caller's tick.
package timer

import (
	"container/heap"
	"time"
)

// Timer is a scheduled callback. A stopped or fired one-shot timer is dead.
type Timer struct {
	wheel    *Wheel
	due      time.Duration
	interval time.Duration
	seq      uint64
	fn       func()
	index    int // heap index, -1 when not queued
}

// IsAlive reports whether the timer will still fire.
func (t *Timer) IsAlive() bool { return t != nil && t.index >= 0 }

// Stop cancels the timer. Returns false if it was already dead.
func (t *Timer) Stop() bool {
	if !t.IsAlive() {
		return false
	}
	heap.Remove(&t.wheel.queue, t.index)
	return true
}

// Due is the game time of the next firing.
func (t *Timer) Due() time.Duration { return t.due }

// Wheel orders timers by due time, then by scheduling order.
type Wheel struct {
	now   time.Duration
	seq   uint64
	queue queue
}

func NewWheel() *Wheel {
	return &Wheel{queue: make(queue, 0, 64)}
}

// Now is the game time reached by the last Advance.
func (w *Wheel) Now() time.Duration { return w.now }

// Len returns the number of live timers.
func (w *Wheel) Len() int { return len(w.queue) }

// Schedule runs fn once after delay.
func (w *Wheel) Schedule(delay time.Duration, fn func()) *Timer {
	return w.add(delay, 0, fn)
}

// Repeat runs fn every interval, first after one interval, until stopped.
func (w *Wheel) Repeat(interval time.Duration, fn func()) *Timer {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return w.add(interval, interval, fn)
}

func (w *Wheel) add(delay, interval time.Duration, fn func()) *Timer {
	if delay < 0 {
		delay = 0
	}
	w.seq++
	t := &Timer{wheel: w, due: w.now + delay, interval: interval, seq: w.seq, fn: fn, index: -1}
	heap.Push(&w.queue, t)
	return t
}

// Advance moves game time forward by dt and fires every timer that falls
// due, in order. Callbacks may stop or schedule timers. Returns how many
// callbacks ran.
func (w *Wheel) Advance(dt time.Duration) int {
	target := w.now + dt
	fired := 0
	for len(w.queue) > 0 && w.queue[0].due <= target {
		t := heap.Pop(&w.queue).(*Timer)
		w.now = t.due
		if t.interval > 0 {
			t.due += t.interval
			w.seq++
			t.seq = w.seq
			heap.Push(&w.queue, t)
		}
		t.fn()
		fired++
	}
	w.now = target
	return fired
}

// Clear stops every timer.
func (w *Wheel) Clear() {
	for _, t := range w.queue {
		t.index = -1
	}
	w.queue = w.queue[:0]
}

type queue []*Timer

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q queue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *queue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
