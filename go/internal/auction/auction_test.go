package auction

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/hypehammer/auctioncore/go/internal/models"
	"github.com/hypehammer/auctioncore/go/internal/notify"
	"github.com/hypehammer/auctioncore/go/internal/store"
)

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type testEngine struct {
	app      *App
	repo     *Repository
	notifier *notify.MemoryNotifier
	clock    *clockwork.FakeClock
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	repo := NewRepository(store.NewMemoryStore())
	notifier := notify.NewMemoryNotifier()
	fc := clockwork.NewFakeClockAt(testStart)
	return &testEngine{
		app:      NewApp(repo, notifier, fc),
		repo:     repo,
		notifier: notifier,
		clock:    fc,
	}
}

func (e *testEngine) seedBidder(t *testing.T, name string, budget int64) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := e.repo.SaveBidder(context.Background(), &models.BidderAccount{
		ID:              id,
		Name:            name,
		TotalBudget:     decimal.NewFromInt(budget),
		RemainingBudget: decimal.NewFromInt(budget),
		CreatedAt:       testStart,
		UpdatedAt:       testStart,
	})
	require.NoError(t, err)
	return id
}

func (e *testEngine) seedLot(t *testing.T, name string, basePrice int64) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := e.repo.SaveLot(context.Background(), &models.Lot{
		ID:        id,
		Name:      name,
		BasePrice: decimal.NewFromInt(basePrice),
		Status:    models.LotStatusPending,
		CreatedAt: testStart,
		UpdatedAt: testStart,
	})
	require.NoError(t, err)
	return id
}

// initializedEvent approves an operator and initializes an event with
// the given lot queue. The schedule runs one hour from the fake clock's
// current time.
func (e *testEngine) initializedEvent(t *testing.T, lots ...uuid.UUID) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	eventID := uuid.New()
	_, err := e.app.ApproveOperator(ctx, eventID, uuid.New(), true)
	require.NoError(t, err)
	_, err = e.app.InitializeEvent(ctx, InitializeEventRequest{
		EventID: eventID,
		Schedule: Schedule{
			StartTime: e.clock.Now(),
			EndTime:   e.clock.Now().Add(time.Hour),
		},
		LotQueue: lots,
	})
	require.NoError(t, err)
	return eventID
}

func (e *testEngine) liveEvent(t *testing.T, lots ...uuid.UUID) uuid.UUID {
	t.Helper()
	eventID := e.initializedEvent(t, lots...)
	_, err := e.app.StartEvent(context.Background(), eventID)
	require.NoError(t, err)
	return eventID
}

// clockSpy records Start/Stop calls from the engine.
type clockSpy struct {
	mu     sync.Mutex
	starts []uuid.UUID
	stops  []uuid.UUID
}

func (c *clockSpy) Start(eventID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starts = append(c.starts, eventID)
}

func (c *clockSpy) Stop(eventID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stops = append(c.stops, eventID)
}

func (c *clockSpy) startCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.starts)
}

func (c *clockSpy) stopCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.stops)
}
