package auction

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hypehammer/auctioncore/go/internal/models"
	"github.com/hypehammer/auctioncore/go/internal/status"
)

// GetState returns the current public snapshot of an event.
func (a *App) GetState(ctx context.Context, eventID uuid.UUID) (*EventSnapshot, error) {
	event, err := a.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return snapshotOf(event), nil
}

// BidHistory returns the audit log of accepted bids for an event,
// optionally narrowed to one lot.
func (a *App) BidHistory(ctx context.Context, eventID uuid.UUID, lotID *uuid.UUID) ([]models.BidRecord, error) {
	return a.repo.ListBids(ctx, eventID, lotID)
}

// HighestBid returns the highest accepted bid for a lot, or nil if the
// lot has no bids.
func (a *App) HighestBid(ctx context.Context, eventID, lotID uuid.UUID) (*models.BidRecord, error) {
	bids, err := a.repo.ListBids(ctx, eventID, &lotID)
	if err != nil {
		return nil, err
	}
	var highest *models.BidRecord
	for i := range bids {
		if highest == nil || bids[i].Amount.GreaterThan(highest.Amount) {
			highest = &bids[i]
		}
	}
	return highest, nil
}

// ReportStatus derives the display status of an event from its lots and
// bid history. When the derived status differs from the stored one, the
// stored copy is repaired in place before returning.
func (a *App) ReportStatus(ctx context.Context, eventID uuid.UUID) (models.DisplayStatus, error) {
	lock := a.locks.forEvent(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := a.repo.GetEvent(ctx, eventID)
	if err != nil {
		return "", err
	}

	lotIDs := append(append([]uuid.UUID(nil), event.LotQueue...), event.CompletedLots...)
	lots, err := a.repo.ListLots(ctx, lotIDs)
	if err != nil {
		return "", err
	}
	history, err := a.repo.ListBids(ctx, eventID, nil)
	if err != nil {
		return "", err
	}

	scheduled := event.StartTime
	derived, changed := status.Reconcile(event.DisplayStatus, &scheduled, lots, history, a.clock.Now().UTC())
	if changed {
		event.DisplayStatus = derived
		a.touch(event, a.clock.Now().UTC())
		if err := a.repo.SaveEvent(ctx, event); err != nil {
			return "", err
		}
		log.Info().
			Str("event_id", eventID.String()).
			Str("display_status", string(derived)).
			Msg("display status repaired")
	}
	return derived, nil
}
