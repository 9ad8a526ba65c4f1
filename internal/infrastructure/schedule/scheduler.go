// Package schedule runs delayed tasks in single-slot, cancel-replace lanes.
//
// Each label owns at most one pending task. Scheduling under a label that
// already has a pending task cancels it first, so only the most recent one
// ever fires. The search debounce and toast expiry are both built on this.
package schedule

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the scheduler needs.
type Timer interface {
	Stop() bool
}

// AfterFunc arms a timer that calls f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithAfterFunc replaces the timer source.
func WithAfterFunc(fn AfterFunc) Option {
	return func(s *Scheduler) {
		s.afterFunc = fn
	}
}

type task struct {
	timer Timer
	fn    func()
}

// Scheduler is safe for concurrent use.
type Scheduler struct {
	mu        sync.Mutex
	afterFunc AfterFunc
	tasks     map[string]*task
}

// New creates a scheduler backed by time.AfterFunc unless overridden.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		afterFunc: realAfterFunc,
		tasks:     make(map[string]*task),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule arms fn to run after d under label, replacing any pending task for that label.
func (s *Scheduler) Schedule(label string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.tasks[label]; ok {
		prev.timer.Stop()
	}

	t := &task{fn: fn}
	s.tasks[label] = t
	t.timer = s.afterFunc(d, func() { s.fire(label, t) })
}

// fire runs t only if it is still the current task for label.
func (s *Scheduler) fire(label string, t *task) {
	s.mu.Lock()
	if s.tasks[label] != t {
		s.mu.Unlock()
		return
	}
	delete(s.tasks, label)
	s.mu.Unlock()

	t.fn()
}

// Cancel drops the pending task for label. It reports whether one was pending.
func (s *Scheduler) Cancel(label string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[label]
	if !ok {
		return false
	}
	t.timer.Stop()
	delete(s.tasks, label)
	return true
}

// Flush runs the pending task for label now instead of waiting for its timer.
func (s *Scheduler) Flush(label string) bool {
	s.mu.Lock()
	t, ok := s.tasks[label]
	if ok {
		t.timer.Stop()
		delete(s.tasks, label)
	}
	s.mu.Unlock()

	if ok {
		t.fn()
	}
	return ok
}

// Pending reports whether label has a task waiting.
func (s *Scheduler) Pending(label string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[label]
	return ok
}

// Stop cancels every pending task.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for label, t := range s.tasks {
		t.timer.Stop()
		delete(s.tasks, label)
	}
}
