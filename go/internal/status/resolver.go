// Package status derives the display status of an auction event from
// stored state and observed activity. Resolve is pure; callers write
// the derived status back when it differs (read-repair).
package status

import (
	"time"

	"github.com/hypehammer/auctioncore/go/internal/models"
)

// Resolve reconciles a stored display status against the facts on the
// ground. Rules apply in order:
//
//  1. COMPLETED is sticky.
//  2. All lots settled (and at least one lot exists) means COMPLETED.
//  3. Schedule in the past plus any activity (stored ONGOING, a sold
//     lot, or bid history) means ONGOING.
//  4. Schedule in the past with no activity stays SETUP.
//  5. Missing or future schedule stays SETUP, regardless of stored
//     status.
func Resolve(stored models.DisplayStatus, scheduledAt *time.Time, lots []models.Lot, history []models.BidRecord, now time.Time) models.DisplayStatus {
	if stored == models.DisplayStatusCompleted {
		return models.DisplayStatusCompleted
	}

	settled := 0
	anySold := false
	for _, lot := range lots {
		if lot.Status.Terminal() {
			settled++
		}
		if lot.Status == models.LotStatusSold {
			anySold = true
		}
	}
	if len(lots) > 0 && settled == len(lots) {
		return models.DisplayStatusCompleted
	}

	if scheduledAt != nil && scheduledAt.Before(now) {
		if stored == models.DisplayStatusOngoing || anySold || len(history) > 0 {
			return models.DisplayStatusOngoing
		}
		return models.DisplayStatusSetup
	}

	return models.DisplayStatusSetup
}

// Reconcile resolves the display status and reports whether the stored
// value needs repairing. Callers write the derived status back only
// when changed is true.
func Reconcile(stored models.DisplayStatus, scheduledAt *time.Time, lots []models.Lot, history []models.BidRecord, now time.Time) (derived models.DisplayStatus, changed bool) {
	derived = Resolve(stored, scheduledAt, lots, history, now)
	return derived, derived != stored
}
