package model

import (
	"time"

	"github.com/google/uuid"

	"accessrating-backend/internal/domains/access"
)

// State is the stored workflow state.
type State string

const (
	StateDraft           State = access.StatusDraft
	StatePendingApproval State = "pending_approval"
	StateApproved        State = access.StatusApproved
	StateRejected        State = "rejected"
)

// StatusExpired is never stored. An approved assessment reads as expired
// once its business is past its re-assessment date.
const StatusExpired = "expired"

// transitions lists the explicit moves; expiry is derived, not a move.
var transitions = map[State][]State{
	StateDraft:           {StatePendingApproval},
	StatePendingApproval: {StateApproved, StateRejected},
}

// CanTransition reports whether from -> to is a legal workflow move.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal is true for states with no outgoing moves.
func (s State) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Assessment is one evaluation cycle for a business. Rows are never
// deleted except by cascade from their business.
type Assessment struct {
	ID              uuid.UUID
	BusinessID      uuid.UUID
	ProposedRating  *int
	Report          string
	SubmittedBy     uuid.UUID
	State           State
	ApprovedBy      *uuid.UUID
	RejectedBy      *uuid.UUID
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	SubmittedAt     *time.Time
	ApprovedAt      *time.Time
	RejectedAt      *time.Time
}

func (a *Assessment) Resource() access.Resource {
	return access.Assessment(a.SubmittedBy, string(a.State))
}

// Status is State with expiry applied using the business's due date.
func (a *Assessment) Status(nextDue *time.Time, now time.Time) string {
	if a.State == StateApproved && nextDue != nil && !now.Before(*nextDue) {
		return StatusExpired
	}
	return string(a.State)
}

// Complete reports whether the assessment carries what submission needs.
func (a *Assessment) Complete() bool {
	return a.ProposedRating != nil && hasText(a.Report)
}
