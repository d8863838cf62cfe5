package auction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hypehammer/auctioncore/go/internal/models"
)

// Schedule is the planned start/end window of an auction event.
type Schedule struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// InitializeEventRequest carries everything needed to set up an event.
type InitializeEventRequest struct {
	EventID  uuid.UUID   `json:"event_id"`
	Schedule Schedule    `json:"schedule"`
	LotQueue []uuid.UUID `json:"lot_queue"`
}

// LiveLotSnapshot is the public view of the lot currently under bid.
type LiveLotSnapshot struct {
	LotID         *uuid.UUID        `json:"lot_id,omitempty"`
	LotName       string            `json:"lot_name,omitempty"`
	CurrentPrice  decimal.Decimal   `json:"current_price"`
	LeadingBidder *uuid.UUID        `json:"leading_bidder,omitempty"`
	LeadingName   string            `json:"leading_name,omitempty"`
	BiddingOpen   bool              `json:"bidding_open"`
	History       []models.BidEntry `json:"history,omitempty"`
}

// EventSnapshot is the public state returned by every command. All
// participants observe the same snapshot shape.
type EventSnapshot struct {
	EventID       uuid.UUID         `json:"event_id"`
	State         models.EventState `json:"state"`
	StartTime     time.Time         `json:"start_time"`
	EndTime       time.Time         `json:"end_time"`
	LotQueue      []uuid.UUID       `json:"lot_queue"`
	CompletedLots []uuid.UUID       `json:"completed_lots"`
	LiveLot       LiveLotSnapshot   `json:"live_lot"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func snapshotOf(event *models.Event) *EventSnapshot {
	return &EventSnapshot{
		EventID:       event.ID,
		State:         event.State,
		StartTime:     event.StartTime,
		EndTime:       event.EndTime,
		LotQueue:      append([]uuid.UUID(nil), event.LotQueue...),
		CompletedLots: append([]uuid.UUID(nil), event.CompletedLots...),
		LiveLot: LiveLotSnapshot{
			LotID:         event.LiveLot.LotID,
			LotName:       event.LiveLot.LotName,
			CurrentPrice:  event.LiveLot.CurrentPrice,
			LeadingBidder: event.LiveLot.LeadingBidder,
			LeadingName:   event.LiveLot.LeadingName,
			BiddingOpen:   event.LiveLot.BiddingOpen,
			History:       append([]models.BidEntry(nil), event.LiveLot.History...),
		},
		UpdatedAt: event.UpdatedAt,
	}
}
