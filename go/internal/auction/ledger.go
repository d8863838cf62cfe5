package auction

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/hypehammer/auctioncore/go/internal/auction/auctionerrors"
)

// Ledger is the budget ledger: the only code path that decreases a
// bidder's remaining budget. Funds are never held between bid placement
// and settlement, so the commit re-validates against the remaining
// budget even though the winning bid passed validation earlier.
type Ledger struct {
	repo  *Repository
	clock clockwork.Clock
}

// NewLedger creates a budget ledger over the repository.
func NewLedger(repo *Repository, clock clockwork.Clock) *Ledger {
	return &Ledger{repo: repo, clock: clock}
}

// ReserveAndCommit settles a won lot against the bidder's budget:
// deducts amount from the remaining budget and appends the lot to the
// bidder's won list. Fails with ErrInsufficientFunds if the budget no
// longer covers the amount at commit time.
func (l *Ledger) ReserveAndCommit(ctx context.Context, bidderID, lotID uuid.UUID, amount decimal.Decimal) error {
	bidder, err := l.repo.GetBidder(ctx, bidderID)
	if err != nil {
		return err
	}

	if amount.GreaterThan(bidder.RemainingBudget) {
		return fmt.Errorf("settle lot %s for %s (remaining %s): %w",
			lotID, amount, bidder.RemainingBudget, auctionerrors.ErrInsufficientFunds)
	}

	bidder.RemainingBudget = bidder.RemainingBudget.Sub(amount)
	won := false
	for _, id := range bidder.WonLots {
		if id == lotID {
			won = true
			break
		}
	}
	if !won {
		bidder.WonLots = append(bidder.WonLots, lotID)
	}
	bidder.UpdatedAt = l.clock.Now().UTC()

	if err := l.repo.SaveBidder(ctx, bidder); err != nil {
		return err
	}

	log.Info().
		Str("bidder_id", bidderID.String()).
		Str("lot_id", lotID.String()).
		Str("amount", amount.String()).
		Str("remaining", bidder.RemainingBudget.String()).
		Msg("settlement committed")
	return nil
}
