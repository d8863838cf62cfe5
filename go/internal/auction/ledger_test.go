package auction

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hypehammer/auctioncore/go/internal/auction/auctionerrors"
)

func TestLedgerReserveAndCommit(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	bidderID := e.seedBidder(t, "Team A", 2000)
	lotID := uuid.New()

	err := e.app.ledger.ReserveAndCommit(ctx, bidderID, lotID, decimal.NewFromInt(800))
	require.NoError(t, err)

	bidder, err := e.repo.GetBidder(ctx, bidderID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1200).Equal(bidder.RemainingBudget))
	assert.True(t, decimal.NewFromInt(2000).Equal(bidder.TotalBudget))
	assert.Equal(t, []uuid.UUID{lotID}, bidder.WonLots)
}

func TestLedgerRejectsOverBudgetCommit(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	bidderID := e.seedBidder(t, "Team A", 1000)

	err := e.app.ledger.ReserveAndCommit(ctx, bidderID, uuid.New(), decimal.NewFromInt(1001))
	assert.ErrorIs(t, err, auctionerrors.ErrInsufficientFunds)

	bidder, err := e.repo.GetBidder(ctx, bidderID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(bidder.RemainingBudget))
	assert.Empty(t, bidder.WonLots)
}

func TestLedgerCanSpendEntireBudget(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	bidderID := e.seedBidder(t, "Team A", 1000)

	err := e.app.ledger.ReserveAndCommit(ctx, bidderID, uuid.New(), decimal.NewFromInt(1000))
	require.NoError(t, err)

	bidder, err := e.repo.GetBidder(ctx, bidderID)
	require.NoError(t, err)
	assert.True(t, bidder.RemainingBudget.IsZero())
}

func TestLedgerUnknownBidder(t *testing.T) {
	e := newTestEngine(t)
	err := e.app.ledger.ReserveAndCommit(context.Background(), uuid.New(), uuid.New(), decimal.NewFromInt(100))
	assert.ErrorIs(t, err, auctionerrors.ErrNotFound)
}
