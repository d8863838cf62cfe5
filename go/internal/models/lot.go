package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LotStatus defines the per-lot auction status.
type LotStatus string

const (
	LotStatusPending  LotStatus = "PENDING"
	LotStatusUnderBid LotStatus = "UNDER_BID"
	LotStatusSold     LotStatus = "SOLD"
	LotStatusUnsold   LotStatus = "UNSOLD"
)

// Terminal reports whether the lot has been settled. A settled lot can
// never re-enter UNDER_BID.
func (s LotStatus) Terminal() bool {
	return s == LotStatusSold || s == LotStatusUnsold
}

// Lot represents an auctionable item (a player) within an event.
type Lot struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	BasePrice       decimal.Decimal  `json:"base_price"`
	Status          LotStatus        `json:"status"`
	WinningBidderID *uuid.UUID       `json:"winning_bidder_id,omitempty"`
	WinningPrice    *decimal.Decimal `json:"winning_price,omitempty"`
	SoldAt          *time.Time       `json:"sold_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
