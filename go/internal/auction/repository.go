package auction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hypehammer/auctioncore/go/internal/auction/auctionerrors"
	"github.com/hypehammer/auctioncore/go/internal/models"
	"github.com/hypehammer/auctioncore/go/internal/store"
)

// Repository implements auction data access on top of the document
// store. It is the only layer that knows collection names and document
// shapes; everything above works with models.
type Repository struct {
	store store.Store
}

// NewRepository creates a new auction repository.
func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

// GetEvent retrieves an auction event by ID.
func (r *Repository) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.store.Get(ctx, store.CollectionEvents, id.String(), &event); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("event %s: %w", id, auctionerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get event %s: %w", id, err)
	}
	return &event, nil
}

// SaveEvent writes an event document back to the store.
func (r *Repository) SaveEvent(ctx context.Context, event *models.Event) error {
	if err := r.store.Set(ctx, store.CollectionEvents, event.ID.String(), event); err != nil {
		return fmt.Errorf("save event %s: %w", event.ID, err)
	}
	return nil
}

// GetLot retrieves a lot by ID.
func (r *Repository) GetLot(ctx context.Context, id uuid.UUID) (*models.Lot, error) {
	var lot models.Lot
	if err := r.store.Get(ctx, store.CollectionLots, id.String(), &lot); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("lot %s: %w", id, auctionerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get lot %s: %w", id, err)
	}
	return &lot, nil
}

// SaveLot writes a lot document back to the store.
func (r *Repository) SaveLot(ctx context.Context, lot *models.Lot) error {
	if err := r.store.Set(ctx, store.CollectionLots, lot.ID.String(), lot); err != nil {
		return fmt.Errorf("save lot %s: %w", lot.ID, err)
	}
	return nil
}

// GetBidder retrieves a bidder account by ID.
func (r *Repository) GetBidder(ctx context.Context, id uuid.UUID) (*models.BidderAccount, error) {
	var bidder models.BidderAccount
	if err := r.store.Get(ctx, store.CollectionBidders, id.String(), &bidder); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("bidder %s: %w", id, auctionerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get bidder %s: %w", id, err)
	}
	return &bidder, nil
}

// SaveBidder writes a bidder account back to the store.
func (r *Repository) SaveBidder(ctx context.Context, bidder *models.BidderAccount) error {
	if err := r.store.Set(ctx, store.CollectionBidders, bidder.ID.String(), bidder); err != nil {
		return fmt.Errorf("save bidder %s: %w", bidder.ID, err)
	}
	return nil
}

// AppendBid appends an immutable bid record to the audit log.
func (r *Repository) AppendBid(ctx context.Context, bid *models.BidRecord) error {
	if err := r.store.Set(ctx, store.CollectionBids, bid.ID.String(), bid); err != nil {
		return fmt.Errorf("append bid %s: %w", bid.ID, err)
	}
	return nil
}

// ListBids returns all bid records for an event, optionally narrowed to
// one lot. The store has no secondary indexes, so the collection is
// scanned and filtered here.
func (r *Repository) ListBids(ctx context.Context, eventID uuid.UUID, lotID *uuid.UUID) ([]models.BidRecord, error) {
	raw, err := r.store.List(ctx, store.CollectionBids)
	if err != nil {
		return nil, fmt.Errorf("list bids for event %s: %w", eventID, err)
	}

	var bids []models.BidRecord
	for _, doc := range raw {
		var bid models.BidRecord
		if err := json.Unmarshal(doc, &bid); err != nil {
			return nil, fmt.Errorf("list bids for event %s: unmarshal: %w", eventID, err)
		}
		if bid.EventID != eventID {
			continue
		}
		if lotID != nil && bid.LotID != *lotID {
			continue
		}
		bids = append(bids, bid)
	}
	return bids, nil
}

// ListLots resolves the given lot IDs, skipping any that are missing.
func (r *Repository) ListLots(ctx context.Context, ids []uuid.UUID) ([]models.Lot, error) {
	lots := make([]models.Lot, 0, len(ids))
	for _, id := range ids {
		lot, err := r.GetLot(ctx, id)
		if err != nil {
			if errors.Is(err, auctionerrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		lots = append(lots, *lot)
	}
	return lots, nil
}

// SaveAssignment writes an operator assignment.
func (r *Repository) SaveAssignment(ctx context.Context, assignment *models.OperatorAssignment) error {
	if err := r.store.Set(ctx, store.CollectionAssignments, assignment.ID, assignment); err != nil {
		return fmt.Errorf("save assignment %s: %w", assignment.ID, err)
	}
	return nil
}

// HasApprovedOperator reports whether at least one approved operator
// assignment exists for the event.
func (r *Repository) HasApprovedOperator(ctx context.Context, eventID uuid.UUID) (bool, error) {
	raw, err := r.store.List(ctx, store.CollectionAssignments)
	if err != nil {
		return false, fmt.Errorf("list assignments for event %s: %w", eventID, err)
	}
	for _, doc := range raw {
		var assignment models.OperatorAssignment
		if err := json.Unmarshal(doc, &assignment); err != nil {
			return false, fmt.Errorf("list assignments for event %s: unmarshal: %w", eventID, err)
		}
		if assignment.EventID == eventID && assignment.Status == models.AssignmentStatusApproved {
			return true, nil
		}
	}
	return false, nil
}
