// Package clock runs the per-event countdown tasks. Each LIVE or READY
// event gets one supervised task that polls the event document, publishes
// a tick every interval, and ends the event when the deadline passes.
package clock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/hypehammer/auctioncore/go/internal/auction"
	"github.com/hypehammer/auctioncore/go/internal/auction/events"
	"github.com/hypehammer/auctioncore/go/internal/models"
	"github.com/hypehammer/auctioncore/go/internal/notify"
)

// EventSource is the read side the countdown needs: the current event
// document, fetched fresh each tick so extensions and pauses take
// effect without signalling.
type EventSource interface {
	GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

// Lifecycle ends an event when its countdown expires. EndExpired
// re-validates under the engine's event lock and reports false without
// transitioning when the event is no longer running or the deadline has
// moved, so a stale countdown can never override a pause or extension.
type Lifecycle interface {
	EndExpired(ctx context.Context, eventID uuid.UUID) (*auction.EventSnapshot, bool, error)
}

// Config tunes the countdown tasks.
type Config struct {
	// TickInterval is how often remaining time is recomputed and
	// published.
	TickInterval time.Duration
	// MaxReadFailures is how many consecutive store read failures a
	// task tolerates before giving up.
	MaxReadFailures int
	// OnFatal, if set, is invoked when a task gives up on an event.
	OnFatal func(eventID uuid.UUID, err error)
}

// DefaultConfig returns the standard countdown settings.
func DefaultConfig() Config {
	return Config{
		TickInterval:    time.Second,
		MaxReadFailures: 5,
	}
}

type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Registry supervises one countdown task per event. Start replaces any
// running task for the event; Stop cancels it. Cancellation is by
// context, so a cancelled task publishes nothing after Stop returns and
// its context is observed.
type Registry struct {
	events    EventSource
	lifecycle Lifecycle
	notifier  notify.Notifier
	clock     clockwork.Clock
	cfg       Config

	mu    sync.Mutex
	tasks map[uuid.UUID]*task
	wg    sync.WaitGroup
}

// NewRegistry creates a countdown registry.
func NewRegistry(events EventSource, lifecycle Lifecycle, notifier notify.Notifier, clock clockwork.Clock, cfg Config) *Registry {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.MaxReadFailures <= 0 {
		cfg.MaxReadFailures = 5
	}
	return &Registry{
		events:    events,
		lifecycle: lifecycle,
		notifier:  notifier,
		clock:     clock,
		cfg:       cfg,
		tasks:     make(map[uuid.UUID]*task),
	}
}

// Start launches the countdown for an event, replacing any task already
// running for it. The replaced task is cancelled but not joined, so
// Start is safe to call from inside a lifecycle operation.
func (r *Registry) Start(eventID uuid.UUID) {
	ctx, cancel := context.WithCancel(context.Background())
	t := &task{cancel: cancel, done: make(chan struct{})}

	r.mu.Lock()
	if prev, ok := r.tasks[eventID]; ok {
		prev.cancel()
	}
	r.tasks[eventID] = t
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer close(t.done)
		r.run(ctx, eventID)
		r.remove(eventID, t)
	}()

	log.Debug().Str("event_id", eventID.String()).Msg("countdown started")
}

// Stop cancels the countdown for an event if one is running.
func (r *Registry) Stop(eventID uuid.UUID) {
	r.mu.Lock()
	t, ok := r.tasks[eventID]
	if ok {
		delete(r.tasks, eventID)
	}
	r.mu.Unlock()

	if ok {
		t.cancel()
		log.Debug().Str("event_id", eventID.String()).Msg("countdown stopped")
	}
}

// Shutdown cancels every countdown and waits for the tasks to exit.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	for id, t := range r.tasks {
		t.cancel()
		delete(r.tasks, id)
	}
	r.mu.Unlock()
	r.wg.Wait()
}

// remove clears the registry entry, but only if it still points at this
// task. A replacement started meanwhile must not be evicted.
func (r *Registry) remove(eventID uuid.UUID, t *task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.tasks[eventID]; ok && cur == t {
		delete(r.tasks, eventID)
	}
}

// run is the countdown loop. It holds no lock while sleeping: each
// iteration re-reads the event, publishes a tick, and waits one
// interval or cancellation, whichever comes first.
func (r *Registry) run(ctx context.Context, eventID uuid.UUID) {
	failures := 0
	for {
		if ctx.Err() != nil {
			return
		}

		event, err := r.events.GetEvent(ctx, eventID)
		if err != nil {
			failures++
			log.Error().
				Err(err).
				Str("event_id", eventID.String()).
				Int("consecutive_failures", failures).
				Msg("countdown failed to read event")
			if failures >= r.cfg.MaxReadFailures {
				log.Error().Str("event_id", eventID.String()).Msg("countdown giving up after repeated read failures")
				if r.cfg.OnFatal != nil {
					r.cfg.OnFatal(eventID, err)
				}
				return
			}
			if !r.sleep(ctx) {
				return
			}
			continue
		}
		failures = 0

		if event.State != models.EventStateLive && event.State != models.EventStateReady {
			log.Debug().
				Str("event_id", eventID.String()).
				Str("state", string(event.State)).
				Msg("countdown exiting, event no longer running")
			return
		}

		now := r.clock.Now().UTC()
		remaining := event.EndTime.Sub(now)
		if remaining <= 0 {
			r.expire(ctx, eventID)
			return
		}

		r.publish(ctx, eventID, events.TypeTimerTick, events.TimerTickPayload{
			EventID:          eventID.String(),
			RemainingSeconds: int64(remaining / time.Second),
			ServerTime:       now,
		})

		if !r.sleep(ctx) {
			return
		}
	}
}

// expire hands the end-of-auction transition to the lifecycle. The
// remaining time was computed from a read that may already be stale, so
// a cancelled task must not transition, and the lifecycle re-validates
// state and deadline under the event lock before ending.
func (r *Registry) expire(ctx context.Context, eventID uuid.UUID) {
	if ctx.Err() != nil {
		return
	}
	_, ended, err := r.lifecycle.EndExpired(ctx, eventID)
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID.String()).Msg("failed to end expired event")
		return
	}
	if !ended {
		log.Debug().Str("event_id", eventID.String()).Msg("expiry superseded, event no longer running or deadline moved")
		return
	}
	log.Info().Str("event_id", eventID.String()).Msg("countdown expired")
}

// sleep waits one tick interval. Returns false if the task was
// cancelled while waiting.
func (r *Registry) sleep(ctx context.Context) bool {
	timer := r.clock.NewTimer(r.cfg.TickInterval)
	select {
	case <-timer.Chan():
		return true
	case <-ctx.Done():
		stopAndDrainTimer(timer)
		return false
	}
}

// stopAndDrainTimer stops a timer and drains its channel so a fired
// timer does not leak a buffered value.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}

func (r *Registry) publish(ctx context.Context, eventID uuid.UUID, eventType string, payload any) {
	if ctx.Err() != nil {
		return
	}
	if err := r.notifier.Publish(ctx, notify.EventTopic(eventID), eventType, payload); err != nil {
		log.Error().
			Err(err).
			Str("event_id", eventID.String()).
			Str("event_type", eventType).
			Msg("failed to publish countdown notification")
	}
}
