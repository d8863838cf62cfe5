package auction

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hypehammer/auctioncore/go/internal/auction/auctionerrors"
	"github.com/hypehammer/auctioncore/go/internal/auction/events"
	"github.com/hypehammer/auctioncore/go/internal/models"
)

func TestInitializeEventRequiresApprovedOperator(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	req := InitializeEventRequest{
		EventID: uuid.New(),
		Schedule: Schedule{
			StartTime: testStart,
			EndTime:   testStart.Add(time.Hour),
		},
	}
	_, err := e.app.InitializeEvent(ctx, req)
	assert.ErrorIs(t, err, auctionerrors.ErrPreconditionFailed)

	// A rejected assignment does not satisfy the precondition either.
	_, err = e.app.ApproveOperator(ctx, req.EventID, uuid.New(), false)
	require.NoError(t, err)
	_, err = e.app.InitializeEvent(ctx, req)
	assert.ErrorIs(t, err, auctionerrors.ErrPreconditionFailed)

	_, err = e.app.ApproveOperator(ctx, req.EventID, uuid.New(), true)
	require.NoError(t, err)
	snap, err := e.app.InitializeEvent(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.EventStateReady, snap.State)
	assert.Len(t, e.notifier.ByType(events.TypeAuctionInitialized), 1)
}

func TestStartEvent(t *testing.T) {
	e := newTestEngine(t)
	spy := &clockSpy{}
	e.app.SetClockControl(spy)
	ctx := context.Background()

	eventID := e.initializedEvent(t)
	snap, err := e.app.StartEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStateLive, snap.State)
	assert.Equal(t, 1, spy.startCount())

	// Starting a LIVE event is a lifecycle violation.
	_, err = e.app.StartEvent(ctx, eventID)
	assert.ErrorIs(t, err, auctionerrors.ErrInvalidTransition)
	assert.Equal(t, 1, spy.startCount())
}

func TestPauseResumeCycle(t *testing.T) {
	e := newTestEngine(t)
	spy := &clockSpy{}
	e.app.SetClockControl(spy)
	ctx := context.Background()

	eventID := e.liveEvent(t)

	snap, err := e.app.PauseEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatePaused, snap.State)
	assert.Equal(t, 1, spy.stopCount())

	// Pausing again is a no-op, not an error.
	snap, err = e.app.PauseEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatePaused, snap.State)
	assert.Equal(t, 1, spy.stopCount())
	assert.Len(t, e.notifier.ByType(events.TypeAuctionPaused), 1)

	snap, err = e.app.ResumeEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStateLive, snap.State)
	assert.Equal(t, 2, spy.startCount())

	// Resuming a LIVE event is a no-op.
	snap, err = e.app.ResumeEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStateLive, snap.State)
	assert.Equal(t, 2, spy.startCount())
}

func TestEndEventIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	eventID := e.liveEvent(t)
	snap, err := e.app.EndEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStateEnded, snap.State)

	snap, err = e.app.EndEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStateEnded, snap.State)
	assert.Len(t, e.notifier.ByType(events.TypeAuctionEnded), 1)
}

func TestEndedEventRejectsTransitions(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	eventID := e.liveEvent(t)
	_, err := e.app.EndEvent(ctx, eventID)
	require.NoError(t, err)

	_, err = e.app.StartEvent(ctx, eventID)
	assert.ErrorIs(t, err, auctionerrors.ErrInvalidTransition)
	_, err = e.app.PauseEvent(ctx, eventID)
	assert.ErrorIs(t, err, auctionerrors.ErrInvalidTransition)
	_, err = e.app.ResumeEvent(ctx, eventID)
	assert.ErrorIs(t, err, auctionerrors.ErrInvalidTransition)
	_, err = e.app.ExtendTimer(ctx, eventID, 5)
	assert.ErrorIs(t, err, auctionerrors.ErrInvalidTransition)
}

func TestExtendTimerRestartsClock(t *testing.T) {
	e := newTestEngine(t)
	spy := &clockSpy{}
	e.app.SetClockControl(spy)
	ctx := context.Background()

	eventID := e.liveEvent(t)
	before, err := e.app.GetState(ctx, eventID)
	require.NoError(t, err)
	startsBefore := spy.startCount()

	snap, err := e.app.ExtendTimer(ctx, eventID, 10)
	require.NoError(t, err)
	assert.Equal(t, before.EndTime.Add(10*time.Minute), snap.EndTime)
	assert.Equal(t, startsBefore+1, spy.startCount())
	assert.Len(t, e.notifier.ByType(events.TypeTimerExtended), 1)
}

func TestEndExpired(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	eventID := e.liveEvent(t)

	// Deadline not reached: nothing happens.
	snap, ended, err := e.app.EndExpired(ctx, eventID)
	require.NoError(t, err)
	assert.False(t, ended)
	assert.Equal(t, models.EventStateLive, snap.State)

	e.clock.Advance(2 * time.Hour)
	snap, ended, err = e.app.EndExpired(ctx, eventID)
	require.NoError(t, err)
	assert.True(t, ended)
	assert.Equal(t, models.EventStateEnded, snap.State)
	assert.Len(t, e.notifier.ByType(events.TypeTimerExpired), 1)
	assert.Len(t, e.notifier.ByType(events.TypeAuctionEnded), 1)

	// Idempotent against a second stale countdown.
	_, ended, err = e.app.EndExpired(ctx, eventID)
	require.NoError(t, err)
	assert.False(t, ended)
	assert.Len(t, e.notifier.ByType(events.TypeAuctionEnded), 1)
}

func TestEndExpiredLosesToPause(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	eventID := e.liveEvent(t)
	e.clock.Advance(2 * time.Hour)
	_, err := e.app.PauseEvent(ctx, eventID)
	require.NoError(t, err)

	// A countdown that read the event before the pause still loses.
	snap, ended, err := e.app.EndExpired(ctx, eventID)
	require.NoError(t, err)
	assert.False(t, ended)
	assert.Equal(t, models.EventStatePaused, snap.State)
	assert.Empty(t, e.notifier.ByType(events.TypeAuctionEnded))
}

func TestEndExpiredLosesToExtension(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	eventID := e.liveEvent(t)
	e.clock.Advance(2 * time.Hour)
	_, err := e.app.ExtendTimer(ctx, eventID, 120)
	require.NoError(t, err)

	// The extension moved the deadline past now; the stale expiry is a
	// no-op and the event keeps running.
	snap, ended, err := e.app.EndExpired(ctx, eventID)
	require.NoError(t, err)
	assert.False(t, ended)
	assert.Equal(t, models.EventStateLive, snap.State)
	assert.Empty(t, e.notifier.ByType(events.TypeAuctionEnded))
}

func TestUnknownEventReturnsNotFound(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.app.StartEvent(context.Background(), uuid.New())
	assert.ErrorIs(t, err, auctionerrors.ErrNotFound)
}
