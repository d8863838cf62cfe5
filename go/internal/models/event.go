package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventState defines the lifecycle state of an auction event.
type EventState string

const (
	EventStateSetup  EventState = "SETUP"
	EventStateReady  EventState = "READY"
	EventStateLive   EventState = "LIVE"
	EventStatePaused EventState = "PAUSED"
	EventStateEnded  EventState = "ENDED"
)

// DisplayStatus is the coarse reporting status derived for dashboards.
// It is stored alongside the lifecycle state and reconciled lazily via
// read-repair, never pushed.
type DisplayStatus string

const (
	DisplayStatusSetup     DisplayStatus = "SETUP"
	DisplayStatusOngoing   DisplayStatus = "ONGOING"
	DisplayStatusCompleted DisplayStatus = "COMPLETED"
)

// BidEntry is a single entry in the live lot's in-flight bid history.
type BidEntry struct {
	BidderID   uuid.UUID       `json:"bidder_id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
	PlacedAt   time.Time       `json:"placed_at"`
}

// LiveLotState is the ephemeral state of the lot currently under bid.
// It is reset whenever a lot is opened or closed.
type LiveLotState struct {
	LotID         *uuid.UUID      `json:"lot_id,omitempty"`
	LotName       string          `json:"lot_name,omitempty"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	LeadingBidder *uuid.UUID      `json:"leading_bidder,omitempty"`
	LeadingName   string          `json:"leading_name,omitempty"`
	BiddingOpen   bool            `json:"bidding_open"`
	History       []BidEntry      `json:"history,omitempty"`
	OpenedAt      *time.Time      `json:"opened_at,omitempty"`
	LastBidAt     *time.Time      `json:"last_bid_at,omitempty"`
}

// Event represents one auction run with its own clock and lot queue.
type Event struct {
	ID            uuid.UUID     `json:"id"`
	State         EventState    `json:"state"`
	DisplayStatus DisplayStatus `json:"display_status"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
	LotQueue      []uuid.UUID   `json:"lot_queue"`
	CompletedLots []uuid.UUID   `json:"completed_lots"`
	LiveLot       LiveLotState  `json:"live_lot"`

	StartedAt *time.Time `json:"started_at,omitempty"`
	PausedAt  *time.Time `json:"paused_at,omitempty"`
	ResumedAt *time.Time `json:"resumed_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`

	// Version is bumped on every write so stale read-modify-write
	// cycles can be detected at the store boundary.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
