// Package auctionerrors defines the caller-facing error taxonomy of the
// auction core. Every error here is recoverable and returned
// synchronously to the command issuer; none is retried automatically.
package auctionerrors

import "errors"

var (
	// ErrNotFound signals an unknown event, lot, or bidder.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition signals a lifecycle rule violation.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")

	// ErrInvalidState signals an operation whose preconditions
	// (event LIVE, bidding open) are unmet.
	ErrInvalidState = errors.New("invalid auction state")

	// ErrRejectedLow signals a bid not strictly above the current price.
	ErrRejectedLow = errors.New("bid not above current price")

	// ErrInsufficientFunds signals a bid or settlement exceeding the
	// bidder's remaining budget.
	ErrInsufficientFunds = errors.New("insufficient budget")

	// ErrConflict signals that a lot is already open, or that a settled
	// lot was asked to reopen.
	ErrConflict = errors.New("conflicting lot state")

	// ErrPreconditionFailed signals initialization without an approved
	// operator.
	ErrPreconditionFailed = errors.New("precondition failed")
)
