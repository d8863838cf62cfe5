// Package events defines the payload types published to auction topics.
// They are shared between the auction core and any fanout consumer.
package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event type names carried in the notification envelope.
const (
	TypeAuctionInitialized = "AuctionInitialized"
	TypeAuctionStarted     = "AuctionStarted"
	TypeAuctionPaused      = "AuctionPaused"
	TypeAuctionResumed     = "AuctionResumed"
	TypeAuctionEnded       = "AuctionEnded"
	TypeLotOpened          = "LotOpened"
	TypeBidPlaced          = "BidPlaced"
	TypeLotClosed          = "LotClosed"
	TypeTimerTick          = "TimerTick"
	TypeTimerExtended      = "TimerExtended"
	TypeTimerExpired       = "TimerExpired"
	TypeOperatorApproved   = "OperatorApproved"
)

// LifecyclePayload is published on every lifecycle transition.
type LifecyclePayload struct {
	EventID   string    `json:"event_id"`
	State     string    `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}

// LotOpenedPayload is published when a lot goes under bid.
type LotOpenedPayload struct {
	EventID   string          `json:"event_id"`
	LotID     string          `json:"lot_id"`
	LotName   string          `json:"lot_name"`
	BasePrice decimal.Decimal `json:"base_price"`
	OpenedAt  time.Time       `json:"opened_at"`
}

// BidPlacedPayload is published on every accepted bid. Everyone observes
// the same leader and price.
type BidPlacedPayload struct {
	EventID    string          `json:"event_id"`
	LotID      string          `json:"lot_id"`
	BidderID   string          `json:"bidder_id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
	PlacedAt   time.Time       `json:"placed_at"`
}

// LotClosedPayload is published when bidding closes, sold or unsold.
type LotClosedPayload struct {
	EventID     string          `json:"event_id"`
	LotID       string          `json:"lot_id"`
	LotName     string          `json:"lot_name"`
	Sold        bool            `json:"sold"`
	FinalAmount decimal.Decimal `json:"final_amount"`
	WinnerID    string          `json:"winner_id,omitempty"`
	WinnerName  string          `json:"winner_name,omitempty"`
	ClosedAt    time.Time       `json:"closed_at"`
}

// TimerTickPayload is published every clock interval while the event
// runs, so all dashboards count down from the same server time.
type TimerTickPayload struct {
	EventID          string    `json:"event_id"`
	RemainingSeconds int64     `json:"remaining_seconds"`
	ServerTime       time.Time `json:"server_time"`
}

// TimerExtendedPayload is published when an operator extends the clock.
type TimerExtendedPayload struct {
	EventID    string    `json:"event_id"`
	NewEndTime time.Time `json:"new_end_time"`
	ByMinutes  int       `json:"by_minutes"`
}

// TimerExpiredPayload is published once when the countdown reaches zero,
// immediately before the event is ended.
type TimerExpiredPayload struct {
	EventID   string    `json:"event_id"`
	ExpiredAt time.Time `json:"expired_at"`
}

// OperatorApprovedPayload is delivered on the operator's subscriber
// topic when their assignment is decided.
type OperatorApprovedPayload struct {
	EventID    string    `json:"event_id"`
	OperatorID string    `json:"operator_id"`
	Approved   bool      `json:"approved"`
	DecidedAt  time.Time `json:"decided_at"`
}
