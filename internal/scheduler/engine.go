// Package scheduler fires named alarms at wall-clock instants.
package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidFireTime = errors.New("scheduler: invalid fire time")
	ErrInvalidName     = errors.New("scheduler: alarm name required")
	ErrStopped         = errors.New("scheduler: engine stopped")
)

// Alarm is a one-shot wake-up. At most one alarm per Name is pending.
type Alarm struct {
	Name   string
	FireAt time.Time
}

type alarmQueue []Alarm

func (q alarmQueue) Len() int { return len(q) }

func (q alarmQueue) Less(i, j int) bool {
	return q[i].FireAt.Before(q[j].FireAt)
}

func (q alarmQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *alarmQueue) Push(x any) {
	*q = append(*q, x.(Alarm))
}

func (q *alarmQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

type Engine struct {
	mu      sync.Mutex
	queue   alarmQueue
	out     chan Alarm
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped atomic.Uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(alarmQueue, 0),
		out:    make(chan Alarm, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// C delivers fired alarms. It is closed after Stop.
func (e *Engine) C() <-chan Alarm {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule arms a, replacing any pending alarm with the same name.
func (e *Engine) Schedule(a Alarm) error {
	if a.Name == "" {
		return ErrInvalidName
	}
	if a.FireAt.IsZero() {
		return ErrInvalidFireTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}

	e.removeLocked(a.Name)
	heap.Push(&e.queue, a)
	e.signalWakeup()
	return nil
}

// Cancel disarms the pending alarm called name and reports whether one existed.
func (e *Engine) Cancel(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	removed := e.removeLocked(name)
	if removed {
		e.signalWakeup()
	}
	return removed
}

// Next returns the pending alarm called name.
func (e *Engine) Next(name string) (Alarm, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, a := range e.queue {
		if a.Name == name {
			return a, true
		}
	}
	return Alarm{}, false
}

func (e *Engine) Dropped() uint64 {
	return e.dropped.Load()
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.FireAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, a := range e.popDue(time.Now()) {
				select {
				case e.out <- a:
				default:
					e.dropped.Add(1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			stopTimer(timer)
			return
		}
	}
}

func (e *Engine) removeLocked(name string) bool {
	for i, a := range e.queue {
		if a.Name == name {
			heap.Remove(&e.queue, i)
			return true
		}
	}
	return false
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (Alarm, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return Alarm{}, false
	}
	return e.queue[0], true
}

func (e *Engine) popDue(now time.Time) []Alarm {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []Alarm
	for len(e.queue) > 0 {
		if e.queue[0].FireAt.After(now) {
			break
		}
		out = append(out, heap.Pop(&e.queue).(Alarm))
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
