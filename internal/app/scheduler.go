package app

import (
	"sort"
	"sync"
	"time"
)

// Task is a handle to a pending deferred callback.
type Task interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the task before it fired.
	Stop() bool
}

// Scheduler runs single-shot deferred callbacks.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Task
}

// ClockScheduler schedules callbacks on the wall clock.
type ClockScheduler struct{}

func (ClockScheduler) AfterFunc(d time.Duration, fn func()) Task {
	return time.AfterFunc(d, fn)
}

// ManualScheduler fires callbacks only when Advance moves its clock past their
// deadline. Used in tests for deterministic timing.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	s       *ManualScheduler
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTask{s: s, at: s.now + d, seq: s.seq, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Advance moves the clock forward and runs every task that came due, in
// deadline order. Callbacks run on the caller's goroutine without the
// scheduler lock held.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	now := s.now
	s.mu.Unlock()

	for {
		s.mu.Lock()
		sort.SliceStable(s.tasks, func(i, j int) bool {
			if s.tasks[i].at != s.tasks[j].at {
				return s.tasks[i].at < s.tasks[j].at
			}
			return s.tasks[i].seq < s.tasks[j].seq
		})
		var next *manualTask
		for i, t := range s.tasks {
			if t.at > now {
				break
			}
			next = t
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
		if next == nil {
			s.mu.Unlock()
			return
		}
		run := !next.stopped
		next.fired = true
		s.mu.Unlock()

		if run {
			next.fn()
		}
	}
}

// Pending reports how many tasks are scheduled and not stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (t *manualTask) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
