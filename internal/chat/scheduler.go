package chat

import (
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Scheduler runs fn once after delay. Implementations must not call fn while
// holding any lock fn might need.
type Scheduler interface {
	After(delay time.Duration, fn func())
}

// TimerScheduler paces messages with real timers.
type TimerScheduler struct {
	mu      sync.Mutex
	timers  map[uint64]*time.Timer
	nextID  uint64
	stopped bool
}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{timers: make(map[uint64]*time.Timer)}
}

func (s *TimerScheduler) After(delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.nextID++
	id := s.nextID
	s.timers[id] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
		fn()
	})
}

// Pending is the number of timers that have not fired yet.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending timer and refuses new ones.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.stopped = true
	log.Debug().Msg("chat: timer scheduler stopped")
}

// InlineScheduler runs fn immediately, ignoring the delay.
type InlineScheduler struct{}

func (InlineScheduler) After(_ time.Duration, fn func()) { fn() }

// ManualScheduler queues work on a virtual clock that only moves when told to.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []manualTask
}

type manualTask struct {
	due time.Duration
	seq int
	fn  func()
}

func (s *ManualScheduler) After(delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.tasks = append(s.tasks, manualTask{due: s.now + delay, seq: s.seq, fn: fn})
}

// Pending is the number of queued tasks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Advance moves the clock by d, running everything that falls due in order,
// including work scheduled by the tasks themselves.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		task, ok := s.next(target)
		if !ok {
			break
		}
		task.fn()
	}

	s.mu.Lock()
	s.now = target
	s.mu.Unlock()
}

// Flush runs every queued task regardless of its delay.
func (s *ManualScheduler) Flush() {
	for s.Pending() > 0 {
		s.Advance(time.Hour)
	}
}

func (s *ManualScheduler) next(target time.Duration) (manualTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.tasks) == 0 {
		return manualTask{}, false
	}
	slices.SortStableFunc(s.tasks, func(a, b manualTask) int {
		if a.due != b.due {
			if a.due < b.due {
				return -1
			}
			return 1
		}
		return a.seq - b.seq
	})
	t := s.tasks[0]
	if t.due > target {
		return manualTask{}, false
	}
	s.tasks = s.tasks[1:]
	s.now = t.due
	return t, true
}
