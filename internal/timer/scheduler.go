package timer

import (
	"sync"
	"time"
)

// Scheduler runs fn repeatedly, once per interval, until the returned cancel
// function is called. Calls to fn from one schedule never overlap. cancel is
// idempotent and never blocks on an in-flight fn.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (cancel func())
}

// TickerScheduler drives schedules from time.Ticker, one goroutine per schedule.
type TickerScheduler struct{}

func NewTickerScheduler() TickerScheduler {
	return TickerScheduler{}
}

func (TickerScheduler) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	stop := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				select {
				case <-stop:
					return
				default:
				}
				fn()
			}
		}
	}()

	return func() {
		once.Do(func() { close(stop) })
	}
}

// ManualScheduler delivers ticks only when Tick is called, which makes
// simulated time deterministic.
type ManualScheduler struct {
	mu        sync.Mutex
	next      int
	schedules map[int]func()
	cancelled int
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{schedules: make(map[int]func())}
}

func (m *ManualScheduler) Every(_ time.Duration, fn func()) func() {
	m.mu.Lock()
	id := m.next
	m.next++
	m.schedules[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.schedules, id)
			m.cancelled++
			m.mu.Unlock()
		})
	}
}

// Tick fires every live schedule n times, in registration order.
func (m *ManualScheduler) Tick(n int) {
	for i := 0; i < n; i++ {
		for _, fn := range m.snapshot() {
			fn()
		}
	}
}

// Active returns the number of schedules not yet cancelled.
func (m *ManualScheduler) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.schedules)
}

// Cancelled returns how many schedules have been cancelled.
func (m *ManualScheduler) Cancelled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancelled
}

func (m *ManualScheduler) snapshot() []func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	fns := make([]func(), 0, len(m.schedules))
	for id := 0; id < m.next; id++ {
		if fn, ok := m.schedules[id]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}
