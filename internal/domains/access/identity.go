package access

import (
	"context"

	"github.com/google/uuid"
)

// Role is a facet a principal may hold in addition to being a plain user.
type Role string

const (
	RoleBusinessOwner       Role = "business_owner"
	RoleAccessibilityExpert Role = "accessibility_expert"
)

// IsValid reports whether r is a known facet.
func (r Role) IsValid() bool {
	switch r {
	case RoleBusinessOwner, RoleAccessibilityExpert:
		return true
	}
	return false
}

// Identity is an authenticated principal resolved outside this service.
// A nil *Identity means the caller is anonymous.
type Identity struct {
	ID    uuid.UUID
	Admin bool
	roles map[Role]struct{}
}

// NewIdentity builds an identity; unknown role tags are ignored.
func NewIdentity(id uuid.UUID, admin bool, roles ...Role) *Identity {
	set := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		if r.IsValid() {
			set[r] = struct{}{}
		}
	}
	return &Identity{ID: id, Admin: admin, roles: set}
}

// HasRole is nil-safe.
func (i *Identity) HasRole(r Role) bool {
	if i == nil {
		return false
	}
	_, ok := i.roles[r]
	return ok
}

// Roles returns the role facets in a stable order.
func (i *Identity) Roles() []Role {
	if i == nil {
		return nil
	}
	out := make([]Role, 0, len(i.roles))
	for _, r := range []Role{RoleBusinessOwner, RoleAccessibilityExpert} {
		if _, ok := i.roles[r]; ok {
			out = append(out, r)
		}
	}
	return out
}

// IsAnonymous is nil-safe.
func (i *Identity) IsAnonymous() bool {
	return i == nil
}

// Is reports whether i refers to the principal with the given id.
func (i *Identity) Is(id uuid.UUID) bool {
	return i != nil && id != uuid.Nil && i.ID == id
}

type identityKey struct{}

// WithIdentity stores the caller on ctx.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the caller stored on ctx, or nil for anonymous.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}
