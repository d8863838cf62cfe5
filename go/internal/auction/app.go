// Package auction implements the live auction coordination engine: the
// event lifecycle state machine, serialized bid arbitration against a
// single current-price/leader value, budget-constrained settlement, and
// the queries layered on the append-only bid log. The server-driven
// countdown lives in the clock subpackage.
package auction

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/hypehammer/auctioncore/go/internal/notify"
)

// ClockControl is what the engine needs from the countdown registry.
// Start replaces any running clock for the event; Stop cancels it and
// waits for the task to exit.
type ClockControl interface {
	Start(eventID uuid.UUID)
	Stop(eventID uuid.UUID)
}

// App is the auction engine. All state-mutating commands serialize on a
// per-event mutex; read-only queries go straight to the store and may
// return a slightly stale snapshot.
type App struct {
	repo     *Repository
	ledger   *Ledger
	notifier notify.Notifier
	clock    clockwork.Clock
	clocks   ClockControl
	locks    *keyedLocks
}

// NewApp creates the auction engine. The countdown registry is attached
// afterwards via SetClockControl since it needs the engine to end
// expired events.
func NewApp(repo *Repository, notifier notify.Notifier, clock clockwork.Clock) *App {
	return &App{
		repo:     repo,
		ledger:   NewLedger(repo, clock),
		notifier: notifier,
		clock:    clock,
		locks:    newKeyedLocks(),
	}
}

// SetClockControl attaches the countdown registry. Without one, timer
// start/stop requests are ignored, which is what unit tests want.
func (a *App) SetClockControl(c ClockControl) {
	a.clocks = c
}

func (a *App) startClock(eventID uuid.UUID) {
	if a.clocks != nil {
		a.clocks.Start(eventID)
	}
}

func (a *App) stopClock(eventID uuid.UUID) {
	if a.clocks != nil {
		a.clocks.Stop(eventID)
	}
}

// publish fans a state change out to a topic. Delivery failures are
// logged, not returned: the store write already succeeded and the
// notifier is at-least-once, so observers catch up on the next change
// or by reading the snapshot.
func (a *App) publish(ctx context.Context, topic, eventType string, payload any) {
	if err := a.notifier.Publish(ctx, topic, eventType, payload); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("event_type", eventType).
			Msg("failed to publish notification")
	}
}
