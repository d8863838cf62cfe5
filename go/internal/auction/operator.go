package auction

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hypehammer/auctioncore/go/internal/auction/events"
	"github.com/hypehammer/auctioncore/go/internal/models"
	"github.com/hypehammer/auctioncore/go/internal/notify"
)

// RequestOperator files a pending operator assignment for an event.
func (a *App) RequestOperator(ctx context.Context, eventID, operatorID uuid.UUID) (*models.OperatorAssignment, error) {
	now := a.clock.Now().UTC()
	assignment := &models.OperatorAssignment{
		ID:         assignmentID(eventID, operatorID),
		EventID:    eventID,
		OperatorID: operatorID,
		Status:     models.AssignmentStatusPending,
		CreatedAt:  now,
	}
	if err := a.repo.SaveAssignment(ctx, assignment); err != nil {
		return nil, err
	}
	log.Info().
		Str("event_id", eventID.String()).
		Str("operator_id", operatorID.String()).
		Msg("operator assignment requested")
	return assignment, nil
}

// ApproveOperator approves or rejects an operator assignment and
// notifies the operator on their subscriber topic. An approved
// assignment is the precondition InitializeEvent checks.
func (a *App) ApproveOperator(ctx context.Context, eventID, operatorID uuid.UUID, approved bool) (*models.OperatorAssignment, error) {
	now := a.clock.Now().UTC()
	decision := models.AssignmentStatusRejected
	if approved {
		decision = models.AssignmentStatusApproved
	}
	assignment := &models.OperatorAssignment{
		ID:         assignmentID(eventID, operatorID),
		EventID:    eventID,
		OperatorID: operatorID,
		Status:     decision,
		CreatedAt:  now,
	}
	if approved {
		assignment.ApprovedAt = &now
	}
	if err := a.repo.SaveAssignment(ctx, assignment); err != nil {
		return nil, err
	}

	log.Info().
		Str("event_id", eventID.String()).
		Str("operator_id", operatorID.String()).
		Bool("approved", approved).
		Msg("operator assignment decided")
	a.publish(ctx, notify.SubscriberTopic(operatorID), events.TypeOperatorApproved, events.OperatorApprovedPayload{
		EventID:    eventID.String(),
		OperatorID: operatorID.String(),
		Approved:   approved,
		DecidedAt:  now,
	})
	return assignment, nil
}

func assignmentID(eventID, operatorID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", eventID, operatorID)
}
