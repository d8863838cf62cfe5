package models

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentStatus defines the approval state of an operator assignment.
type AssignmentStatus string

const (
	AssignmentStatusPending  AssignmentStatus = "pending"
	AssignmentStatusApproved AssignmentStatus = "approved"
	AssignmentStatusRejected AssignmentStatus = "rejected"
)

// OperatorAssignment links an operator (auctioneer) to an event. An event
// cannot be initialized until at least one assignment is approved.
type OperatorAssignment struct {
	ID         string           `json:"id"`
	EventID    uuid.UUID        `json:"event_id"`
	OperatorID uuid.UUID        `json:"operator_id"`
	Status     AssignmentStatus `json:"status"`
	ApprovedAt *time.Time       `json:"approved_at,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}
