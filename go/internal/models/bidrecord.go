package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BidRecord is an immutable audit log entry for an accepted bid.
// Records are append-only and never mutated or deleted.
type BidRecord struct {
	ID         uuid.UUID       `json:"id"`
	EventID    uuid.UUID       `json:"event_id"`
	LotID      uuid.UUID       `json:"lot_id"`
	BidderID   uuid.UUID       `json:"bidder_id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
	PlacedAt   time.Time       `json:"placed_at"`
}
