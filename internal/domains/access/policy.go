package access

import (
	"github.com/google/uuid"

	"accessrating-backend/internal/shared/apperror"
)

// Action is what a caller wants to do to a resource.
type Action string

const (
	ActionView              Action = "view"
	ActionCreate            Action = "create"
	ActionEdit              Action = "edit"
	ActionClaim             Action = "claim"
	ActionDelete            Action = "delete"
	ActionApproveAssessment Action = "approve_assessment"
	ActionVote              Action = "vote"
	ActionFavorite          Action = "favorite"
)

type ResourceKind string

const (
	KindBusiness   ResourceKind = "business"
	KindReview     ResourceKind = "review"
	KindAssessment ResourceKind = "assessment"
	KindFavorite   ResourceKind = "favorite"
)

// Assessment lifecycle names as stored; Resource.Status carries one of these.
const (
	StatusDraft    = "draft"
	StatusApproved = "approved"
)

// Resource describes the instance being acted on. Only the fields relevant
// to Kind are consulted.
type Resource struct {
	Kind ResourceKind

	// OwnerID is the claiming business owner; uuid.Nil when unclaimed.
	OwnerID uuid.UUID

	// AuthorID is the expert who authored an assessment.
	AuthorID uuid.UUID

	// Status is the stored assessment state.
	Status string
}

func Business(ownerID *uuid.UUID) Resource {
	r := Resource{Kind: KindBusiness}
	if ownerID != nil {
		r.OwnerID = *ownerID
	}
	return r
}

func Assessment(authorID uuid.UUID, status string) Resource {
	return Resource{Kind: KindAssessment, AuthorID: authorID, Status: status}
}

// Claimed reports whether a business resource already has an owner.
func (r Resource) Claimed() bool {
	return r.OwnerID != uuid.Nil
}

type Reason string

const (
	ReasonAdmin          Reason = "admin"
	ReasonPublicRead     Reason = "public_read"
	ReasonAuthenticated  Reason = "authenticated"
	ReasonOwner          Reason = "owner"
	ReasonAuthor         Reason = "author"
	ReasonRoleHolder     Reason = "role_holder"
	ReasonAnonymous      Reason = "anonymous"
	ReasonNotPublished   Reason = "not_published"
	ReasonAlreadyClaimed Reason = "already_claimed"
	ReasonMissingRole    Reason = "missing_role"
	ReasonNotOwner       Reason = "not_owner"
	ReasonNotAuthor      Reason = "not_author"
	ReasonNotDraft       Reason = "not_draft"
	ReasonAdminOnly      Reason = "admin_only"
	ReasonNoRule         Reason = "no_rule"
)

// Decision is the outcome of Authorize. Callers must branch on Allowed.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow(r Reason) Decision { return Decision{Allowed: true, Reason: r} }
func deny(r Reason) Decision  { return Decision{Allowed: false, Reason: r} }

// Authorize evaluates the policy table top to bottom; the first matching
// rule decides. It has no side effects.
func Authorize(id *Identity, action Action, res Resource) Decision {
	// 1. administrators may do anything
	if id != nil && id.Admin {
		return allow(ReasonAdmin)
	}

	switch {
	// 2. public reads; assessments only once approved (or by their author)
	case action == ActionView:
		return authorizeView(id, res)

	// 3. any authenticated identity may list a new, unclaimed business
	case action == ActionCreate && res.Kind == KindBusiness:
		return requireIdentity(id, ReasonAuthenticated)

	// 4. claiming needs an unclaimed business and the owner facet
	case action == ActionClaim && res.Kind == KindBusiness:
		if id == nil {
			return deny(ReasonAnonymous)
		}
		if res.Claimed() {
			return deny(ReasonAlreadyClaimed)
		}
		if !id.HasRole(RoleBusinessOwner) {
			return deny(ReasonMissingRole)
		}
		return allow(ReasonRoleHolder)

	// 5. only the claimed owner edits business fields
	case action == ActionEdit && res.Kind == KindBusiness:
		if id == nil {
			return deny(ReasonAnonymous)
		}
		if res.Claimed() && id.Is(res.OwnerID) {
			return allow(ReasonOwner)
		}
		return deny(ReasonNotOwner)

	// 6. experts create assessments and edit their own drafts
	case (action == ActionCreate || action == ActionEdit) && res.Kind == KindAssessment:
		if id == nil {
			return deny(ReasonAnonymous)
		}
		if !id.HasRole(RoleAccessibilityExpert) {
			return deny(ReasonMissingRole)
		}
		if action == ActionCreate {
			return allow(ReasonRoleHolder)
		}
		if !id.Is(res.AuthorID) {
			return deny(ReasonNotAuthor)
		}
		if res.Status != StatusDraft {
			return deny(ReasonNotDraft)
		}
		return allow(ReasonAuthor)

	// 7. approval is reserved to administrators (handled by rule 1)
	case action == ActionApproveAssessment:
		if id == nil {
			return deny(ReasonAnonymous)
		}
		return deny(ReasonAdminOnly)

	// 8. reviews and helpful votes need an identity
	case action == ActionCreate && res.Kind == KindReview, action == ActionVote:
		return requireIdentity(id, ReasonAuthenticated)

	// 9. favorites need an identity
	case action == ActionFavorite:
		return requireIdentity(id, ReasonAuthenticated)
	}

	// 10. everything else is denied
	if id == nil {
		return deny(ReasonAnonymous)
	}
	if action == ActionDelete {
		return deny(ReasonAdminOnly)
	}
	return deny(ReasonNoRule)
}

func authorizeView(id *Identity, res Resource) Decision {
	switch res.Kind {
	case KindBusiness, KindReview:
		return allow(ReasonPublicRead)
	case KindAssessment:
		if res.Status == StatusApproved {
			return allow(ReasonPublicRead)
		}
		if id.Is(res.AuthorID) {
			return allow(ReasonAuthor)
		}
		return deny(ReasonNotPublished)
	case KindFavorite:
		return requireIdentity(id, ReasonAuthenticated)
	}
	return deny(ReasonNoRule)
}

func requireIdentity(id *Identity, reason Reason) Decision {
	if id == nil {
		return deny(ReasonAnonymous)
	}
	return allow(reason)
}

// Err converts a denial into the application error taxonomy: anonymous
// callers get Unauthenticated, a lost claim race gets Conflict, and every
// other denial is a Permission error. An allowed decision returns nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonAnonymous:
		return apperror.Unauthenticated(apperror.CodeUnauthenticated, "authentication required")
	case ReasonAlreadyClaimed:
		return apperror.Conflict(CodeAlreadyClaimed, "business is already claimed")
	case ReasonNotPublished:
		return apperror.NotFound(CodeNotVisible, "resource not found")
	}
	return apperror.Permission(apperror.CodeForbidden, "not allowed: "+string(d.Reason)).
		WithDetails(map[string]string{"reason": string(d.Reason)})
}

// Check is shorthand for Authorize(...).Err().
func Check(id *Identity, action Action, res Resource) error {
	return Authorize(id, action, res).Err()
}

// Reason codes surfaced by the policy itself.
const (
	CodeAlreadyClaimed = "BUS004"
	CodeNotVisible     = "ASM001"
)
