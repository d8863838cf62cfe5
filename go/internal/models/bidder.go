package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BidderAccount represents a team competing for lots under a budget.
// RemainingBudget is mutated only at settlement, never at bid placement,
// and must always satisfy 0 <= remaining <= total.
type BidderAccount struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	TotalBudget     decimal.Decimal `json:"total_budget"`
	RemainingBudget decimal.Decimal `json:"remaining_budget"`
	WonLots         []uuid.UUID     `json:"won_lots"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
