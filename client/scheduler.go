package client

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Trigger names the reason a sync task runs.
type Trigger string

const (
	TriggerPeriodic Trigger = "periodic"
	TriggerVisible  Trigger = "visible"
	TriggerFocus    Trigger = "focus"
	TriggerMutation Trigger = "mutation"
)

const (
	defaultSyncInterval  = 10 * time.Second
	defaultSyncDebounce  = 500 * time.Millisecond
	defaultMutationDelay = 300 * time.Millisecond
)

// SchedulerOptions tune the trigger timings; zero values take the
// defaults above.
type SchedulerOptions struct {
	Interval      time.Duration // periodic background sync
	Debounce      time.Duration // visibility/focus flap suppression
	MutationDelay time.Duration // delay before the post-mutation re-read
}

// Scheduler turns UI events and the wall clock into sync task runs.
// Visibility and focus triggers are debounced — retriggering inside the
// window reschedules, so only the last one fires. Mutation triggers wait
// a short moment for the background write to land before re-reading.
type Scheduler struct {
	run  func(context.Context, Trigger)
	opts SchedulerOptions
	log  zerolog.Logger

	mu      sync.Mutex
	timers  map[Trigger]*time.Timer
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
}

func NewScheduler(run func(context.Context, Trigger), opts SchedulerOptions, log zerolog.Logger) *Scheduler {
	if opts.Interval == 0 {
		opts.Interval = defaultSyncInterval
	}
	if opts.Debounce == 0 {
		opts.Debounce = defaultSyncDebounce
	}
	if opts.MutationDelay == 0 {
		opts.MutationDelay = defaultMutationDelay
	}
	return &Scheduler{
		run:    run,
		opts:   opts,
		log:    log,
		timers: make(map[Trigger]*time.Timer),
	}
}

// Start launches the periodic tick. Calling Start twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(s.opts.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.run(s.ctx, TriggerPeriodic)
			}
		}
	}()
}

// Stop cancels the periodic tick and any pending debounced trigger.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	s.cancel()
	for trigger, timer := range s.timers {
		timer.Stop()
		delete(s.timers, trigger)
	}
}

// Visible is the foreground-regain trigger.
func (s *Scheduler) Visible() { s.schedule(TriggerVisible, s.opts.Debounce) }

// Focus is the focus-regain trigger, debounced independently.
func (s *Scheduler) Focus() { s.schedule(TriggerFocus, s.opts.Debounce) }

// Mutated schedules the follow-up read after a local create/update/delete.
func (s *Scheduler) Mutated() { s.schedule(TriggerMutation, s.opts.MutationDelay) }

func (s *Scheduler) schedule(trigger Trigger, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	if timer, ok := s.timers[trigger]; ok {
		timer.Stop()
	}
	ctx := s.ctx
	s.timers[trigger] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, trigger)
		s.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		s.run(ctx, trigger)
	})
}
