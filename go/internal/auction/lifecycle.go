package auction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hypehammer/auctioncore/go/internal/auction/auctionerrors"
	"github.com/hypehammer/auctioncore/go/internal/auction/events"
	"github.com/hypehammer/auctioncore/go/internal/models"
	"github.com/hypehammer/auctioncore/go/internal/notify"
)

// InitializeEvent sets up the auction state for an event: READY state,
// populated lot queue, empty live-lot slate. Fails with
// ErrPreconditionFailed if no approved operator exists for the event.
func (a *App) InitializeEvent(ctx context.Context, req InitializeEventRequest) (*EventSnapshot, error) {
	lock := a.locks.forEvent(req.EventID)
	lock.Lock()
	defer lock.Unlock()

	approved, err := a.repo.HasApprovedOperator(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, fmt.Errorf("no approved operator for event %s: %w",
			req.EventID, auctionerrors.ErrPreconditionFailed)
	}

	now := a.clock.Now().UTC()
	event := &models.Event{
		ID:            req.EventID,
		State:         models.EventStateReady,
		DisplayStatus: models.DisplayStatusSetup,
		StartTime:     req.Schedule.StartTime,
		EndTime:       req.Schedule.EndTime,
		LotQueue:      append([]uuid.UUID(nil), req.LotQueue...),
		CompletedLots: []uuid.UUID{},
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := a.repo.SaveEvent(ctx, event); err != nil {
		return nil, err
	}

	log.Info().Str("event_id", event.ID.String()).Int("queued_lots", len(event.LotQueue)).Msg("auction initialized")
	a.publish(ctx, notify.EventTopic(event.ID), events.TypeAuctionInitialized, lifecyclePayload(event, now))
	return snapshotOf(event), nil
}

// StartEvent moves the event to LIVE and starts its countdown clock.
func (a *App) StartEvent(ctx context.Context, eventID uuid.UUID) (*EventSnapshot, error) {
	lock := a.locks.forEvent(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := a.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State == models.EventStateEnded {
		return nil, fmt.Errorf("event %s already ended: %w", eventID, auctionerrors.ErrInvalidTransition)
	}
	if event.State == models.EventStateLive {
		return nil, fmt.Errorf("event %s already live: %w", eventID, auctionerrors.ErrInvalidTransition)
	}

	now := a.clock.Now().UTC()
	event.State = models.EventStateLive
	event.StartedAt = &now
	a.touch(event, now)

	if err := a.repo.SaveEvent(ctx, event); err != nil {
		return nil, err
	}

	log.Info().Str("event_id", eventID.String()).Msg("auction started")
	a.publish(ctx, notify.EventTopic(eventID), events.TypeAuctionStarted, lifecyclePayload(event, now))
	a.startClock(eventID)
	return snapshotOf(event), nil
}

// PauseEvent freezes a LIVE event. Pausing an event that is not LIVE is
// a no-op returning the current snapshot, except that pausing an ENDED
// event signals ErrInvalidTransition.
func (a *App) PauseEvent(ctx context.Context, eventID uuid.UUID) (*EventSnapshot, error) {
	lock := a.locks.forEvent(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := a.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State == models.EventStateEnded {
		return nil, fmt.Errorf("event %s already ended: %w", eventID, auctionerrors.ErrInvalidTransition)
	}
	if event.State != models.EventStateLive {
		return snapshotOf(event), nil
	}

	now := a.clock.Now().UTC()
	event.State = models.EventStatePaused
	event.PausedAt = &now
	a.touch(event, now)

	if err := a.repo.SaveEvent(ctx, event); err != nil {
		return nil, err
	}

	log.Info().Str("event_id", eventID.String()).Msg("auction paused")
	a.publish(ctx, notify.EventTopic(eventID), events.TypeAuctionPaused, lifecyclePayload(event, now))
	a.stopClock(eventID)
	return snapshotOf(event), nil
}

// ResumeEvent puts a PAUSED event back to LIVE and restarts the clock.
// Resuming an event that is not PAUSED is a no-op returning the current
// snapshot, except for ENDED which signals ErrInvalidTransition.
func (a *App) ResumeEvent(ctx context.Context, eventID uuid.UUID) (*EventSnapshot, error) {
	lock := a.locks.forEvent(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := a.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State == models.EventStateEnded {
		return nil, fmt.Errorf("event %s already ended: %w", eventID, auctionerrors.ErrInvalidTransition)
	}
	if event.State != models.EventStatePaused {
		return snapshotOf(event), nil
	}

	now := a.clock.Now().UTC()
	event.State = models.EventStateLive
	event.ResumedAt = &now
	a.touch(event, now)

	if err := a.repo.SaveEvent(ctx, event); err != nil {
		return nil, err
	}

	log.Info().Str("event_id", eventID.String()).Msg("auction resumed")
	a.publish(ctx, notify.EventTopic(eventID), events.TypeAuctionResumed, lifecyclePayload(event, now))
	a.startClock(eventID)
	return snapshotOf(event), nil
}

// EndEvent terminates the event. Always permitted and idempotent:
// ending an ENDED event returns its snapshot without re-stamping or
// re-publishing.
func (a *App) EndEvent(ctx context.Context, eventID uuid.UUID) (*EventSnapshot, error) {
	lock := a.locks.forEvent(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := a.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State == models.EventStateEnded {
		return snapshotOf(event), nil
	}

	now := a.clock.Now().UTC()
	event.State = models.EventStateEnded
	event.EndedAt = &now
	a.touch(event, now)

	if err := a.repo.SaveEvent(ctx, event); err != nil {
		return nil, err
	}

	log.Info().Str("event_id", eventID.String()).Msg("auction ended")
	a.publish(ctx, notify.EventTopic(eventID), events.TypeAuctionEnded, lifecyclePayload(event, now))
	a.stopClock(eventID)
	return snapshotOf(event), nil
}

// EndExpired ends an event whose countdown has run out. Unlike
// EndEvent it re-validates under the event lock before transitioning:
// nothing happens if the event is no longer running or the deadline has
// been moved past the current time, so a pause or extension that raced
// the countdown always wins. Reports whether the event was ended.
func (a *App) EndExpired(ctx context.Context, eventID uuid.UUID) (*EventSnapshot, bool, error) {
	lock := a.locks.forEvent(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := a.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, false, err
	}
	if event.State != models.EventStateLive && event.State != models.EventStateReady {
		return snapshotOf(event), false, nil
	}
	now := a.clock.Now().UTC()
	if event.EndTime.After(now) {
		return snapshotOf(event), false, nil
	}

	event.State = models.EventStateEnded
	event.EndedAt = &now
	a.touch(event, now)

	if err := a.repo.SaveEvent(ctx, event); err != nil {
		return nil, false, err
	}

	log.Info().Str("event_id", eventID.String()).Msg("auction ended on expiry")
	a.publish(ctx, notify.EventTopic(eventID), events.TypeTimerExpired, events.TimerExpiredPayload{
		EventID:   eventID.String(),
		ExpiredAt: now,
	})
	a.publish(ctx, notify.EventTopic(eventID), events.TypeAuctionEnded, lifecyclePayload(event, now))
	a.stopClock(eventID)
	return snapshotOf(event), true, nil
}

// ExtendTimer pushes the event's end time out by the given number of
// minutes and restarts the countdown so the new deadline takes effect
// immediately. Extending an ENDED event signals ErrInvalidTransition.
func (a *App) ExtendTimer(ctx context.Context, eventID uuid.UUID, minutes int) (*EventSnapshot, error) {
	lock := a.locks.forEvent(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := a.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State == models.EventStateEnded {
		return nil, fmt.Errorf("event %s already ended: %w", eventID, auctionerrors.ErrInvalidTransition)
	}

	now := a.clock.Now().UTC()
	event.EndTime = event.EndTime.Add(time.Duration(minutes) * time.Minute)
	a.touch(event, now)

	if err := a.repo.SaveEvent(ctx, event); err != nil {
		return nil, err
	}

	log.Info().
		Str("event_id", eventID.String()).
		Int("minutes", minutes).
		Time("new_end_time", event.EndTime).
		Msg("auction timer extended")
	a.publish(ctx, notify.EventTopic(eventID), events.TypeTimerExtended, events.TimerExtendedPayload{
		EventID:    eventID.String(),
		NewEndTime: event.EndTime,
		ByMinutes:  minutes,
	})
	// Restart replaces any running clock so two countdowns never race
	// to end the same event.
	if event.State == models.EventStateLive || event.State == models.EventStateReady {
		a.startClock(eventID)
	}
	return snapshotOf(event), nil
}

func (a *App) touch(event *models.Event, now time.Time) {
	event.Version++
	event.UpdatedAt = now
}

func lifecyclePayload(event *models.Event, ts time.Time) events.LifecyclePayload {
	return events.LifecyclePayload{
		EventID:   event.ID.String(),
		State:     string(event.State),
		Timestamp: ts,
	}
}
