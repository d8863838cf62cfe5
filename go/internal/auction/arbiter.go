package auction

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/hypehammer/auctioncore/go/internal/auction/auctionerrors"
	"github.com/hypehammer/auctioncore/go/internal/auction/events"
	"github.com/hypehammer/auctioncore/go/internal/models"
	"github.com/hypehammer/auctioncore/go/internal/notify"
)

// OpenLot puts a lot on the block at its base price and opens bidding.
// Fails with ErrConflict if another lot is already open or the lot has
// already been settled.
func (a *App) OpenLot(ctx context.Context, eventID, lotID uuid.UUID) (*EventSnapshot, error) {
	lock := a.locks.forEvent(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := a.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State != models.EventStateLive {
		return nil, fmt.Errorf("event %s is %s, not LIVE: %w", eventID, event.State, auctionerrors.ErrInvalidState)
	}
	if event.LiveLot.BiddingOpen {
		return nil, fmt.Errorf("lot %s already open on event %s: %w",
			event.LiveLot.LotID, eventID, auctionerrors.ErrConflict)
	}

	lot, err := a.repo.GetLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot.Status.Terminal() {
		return nil, fmt.Errorf("lot %s already settled as %s: %w", lotID, lot.Status, auctionerrors.ErrConflict)
	}

	now := a.clock.Now().UTC()
	lot.Status = models.LotStatusUnderBid
	lot.UpdatedAt = now
	if err := a.repo.SaveLot(ctx, lot); err != nil {
		return nil, err
	}

	id := lot.ID
	event.LiveLot = models.LiveLotState{
		LotID:        &id,
		LotName:      lot.Name,
		CurrentPrice: lot.BasePrice,
		BiddingOpen:  true,
		History:      []models.BidEntry{},
		OpenedAt:     &now,
	}
	a.touch(event, now)
	if err := a.repo.SaveEvent(ctx, event); err != nil {
		return nil, err
	}

	log.Info().
		Str("event_id", eventID.String()).
		Str("lot_id", lotID.String()).
		Str("base_price", lot.BasePrice.String()).
		Msg("lot opened for bidding")
	a.publish(ctx, notify.EventTopic(eventID), events.TypeLotOpened, events.LotOpenedPayload{
		EventID:   eventID.String(),
		LotID:     lotID.String(),
		LotName:   lot.Name,
		BasePrice: lot.BasePrice,
		OpenedAt:  now,
	})
	return snapshotOf(event), nil
}

// PlaceBid validates and records a bid against the currently open lot.
// Validation order: event LIVE, bidding open, amount strictly above the
// current price, bidder exists, amount within the bidder's remaining
// budget. The per-event lock makes acceptance exactly-once: of two
// concurrent bids at the same amount, the second observes the first and
// is rejected low.
func (a *App) PlaceBid(ctx context.Context, eventID, bidderID uuid.UUID, amount decimal.Decimal) (*EventSnapshot, error) {
	lock := a.locks.forEvent(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := a.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State != models.EventStateLive {
		return nil, fmt.Errorf("event %s is %s, not LIVE: %w", eventID, event.State, auctionerrors.ErrInvalidState)
	}
	if !event.LiveLot.BiddingOpen {
		return nil, fmt.Errorf("no lot open for bidding on event %s: %w", eventID, auctionerrors.ErrInvalidState)
	}
	if !amount.GreaterThan(event.LiveLot.CurrentPrice) {
		return nil, fmt.Errorf("bid %s does not beat current price %s: %w",
			amount, event.LiveLot.CurrentPrice, auctionerrors.ErrRejectedLow)
	}

	bidder, err := a.repo.GetBidder(ctx, bidderID)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(bidder.RemainingBudget) {
		return nil, fmt.Errorf("bid %s exceeds remaining budget %s for bidder %s: %w",
			amount, bidder.RemainingBudget, bidderID, auctionerrors.ErrInsufficientFunds)
	}

	now := a.clock.Now().UTC()
	leader := bidder.ID
	event.LiveLot.CurrentPrice = amount
	event.LiveLot.LeadingBidder = &leader
	event.LiveLot.LeadingName = bidder.Name
	event.LiveLot.LastBidAt = &now
	event.LiveLot.History = append(event.LiveLot.History, models.BidEntry{
		BidderID:   bidder.ID,
		BidderName: bidder.Name,
		Amount:     amount,
		PlacedAt:   now,
	})
	a.touch(event, now)
	if err := a.repo.SaveEvent(ctx, event); err != nil {
		return nil, err
	}

	record := &models.BidRecord{
		ID:         uuid.New(),
		EventID:    eventID,
		LotID:      *event.LiveLot.LotID,
		BidderID:   bidder.ID,
		BidderName: bidder.Name,
		Amount:     amount,
		PlacedAt:   now,
	}
	// The saved event is the accepted state; the audit record is
	// best-effort, so a failed append must not report the bid as rejected.
	if err := a.repo.AppendBid(ctx, record); err != nil {
		log.Error().Err(err).
			Str("event_id", eventID.String()).
			Str("bidder_id", bidderID.String()).
			Msg("failed to append bid record")
	}

	log.Info().
		Str("event_id", eventID.String()).
		Str("lot_id", event.LiveLot.LotID.String()).
		Str("bidder_id", bidderID.String()).
		Str("amount", amount.String()).
		Msg("bid accepted")
	a.publish(ctx, notify.EventTopic(eventID), events.TypeBidPlaced, events.BidPlacedPayload{
		EventID:    eventID.String(),
		LotID:      event.LiveLot.LotID.String(),
		BidderID:   bidderID.String(),
		BidderName: bidder.Name,
		Amount:     amount,
		PlacedAt:   now,
	})
	return snapshotOf(event), nil
}

// CloseLot settles the currently open lot. With sold=true and a leading
// bidder, the winner's budget is charged and the lot is marked SOLD;
// otherwise the lot goes UNSOLD. Either way the lot moves to the
// completed list and the live slate resets. Fails with ErrInvalidState
// when no lot is open, so a double close can never charge twice.
func (a *App) CloseLot(ctx context.Context, eventID uuid.UUID, sold bool) (*EventSnapshot, error) {
	lock := a.locks.forEvent(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := a.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.LiveLot.BiddingOpen || event.LiveLot.LotID == nil {
		return nil, fmt.Errorf("no lot open on event %s: %w", eventID, auctionerrors.ErrInvalidState)
	}

	lotID := *event.LiveLot.LotID
	lot, err := a.repo.GetLot(ctx, lotID)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now().UTC()
	soldToLeader := sold && event.LiveLot.LeadingBidder != nil

	payload := events.LotClosedPayload{
		EventID:  eventID.String(),
		LotID:    lotID.String(),
		LotName:  lot.Name,
		Sold:     soldToLeader,
		ClosedAt: now,
	}

	if soldToLeader {
		winnerID := *event.LiveLot.LeadingBidder
		finalPrice := event.LiveLot.CurrentPrice
		if err := a.ledger.ReserveAndCommit(ctx, winnerID, lotID, finalPrice); err != nil {
			return nil, err
		}
		lot.Status = models.LotStatusSold
		lot.WinningBidderID = &winnerID
		price := finalPrice
		lot.WinningPrice = &price
		lot.SoldAt = &now
		payload.FinalAmount = finalPrice
		payload.WinnerID = winnerID.String()
		payload.WinnerName = event.LiveLot.LeadingName
	} else {
		lot.Status = models.LotStatusUnsold
	}
	lot.UpdatedAt = now
	if err := a.repo.SaveLot(ctx, lot); err != nil {
		return nil, err
	}

	event.LotQueue = removeLot(event.LotQueue, lotID)
	event.CompletedLots = append(event.CompletedLots, lotID)
	event.LiveLot = models.LiveLotState{}
	a.touch(event, now)
	if err := a.repo.SaveEvent(ctx, event); err != nil {
		return nil, err
	}

	log.Info().
		Str("event_id", eventID.String()).
		Str("lot_id", lotID.String()).
		Bool("sold", soldToLeader).
		Msg("lot closed")
	a.publish(ctx, notify.EventTopic(eventID), events.TypeLotClosed, payload)
	return snapshotOf(event), nil
}

func removeLot(queue []uuid.UUID, lotID uuid.UUID) []uuid.UUID {
	out := queue[:0]
	for _, id := range queue {
		if id != lotID {
			out = append(out, id)
		}
	}
	return out
}
