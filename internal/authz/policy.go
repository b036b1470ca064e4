// Package authz holds the three composable authorization checks: the
// static role gate, the dynamic ownership gate, and the content-visibility
// gate. All three are pure functions of (subject role, object metadata);
// only ownership needs a store round-trip, made through a narrow resolver
// interface so content packages never depend back on this one.
package authz

import (
	"context"
	"errors"
	"fmt"

	"inkwell.dev/internal/auth"
)

var (
	// ErrForbidden means the resource exists but the principal may not
	// act on it. Distinct from ErrNotFound on purpose: handlers may
	// collapse both into a generic denial, the audit trail must not.
	ErrForbidden = errors.New("authz: forbidden")
	ErrNotFound  = errors.New("authz: not found")
)

// ResourceKind enumerates the owned resource types. The set is closed:
// NewPolicy refuses construction unless every kind has a resolver, so an
// unregistered kind is a startup error rather than a silent deny.
type ResourceKind int

const (
	KindPost ResourceKind = iota
	KindComment
	KindUser
)

var allKinds = []ResourceKind{KindPost, KindComment, KindUser}

func (k ResourceKind) String() string {
	switch k {
	case KindPost:
		return "post"
	case KindComment:
		return "comment"
	case KindUser:
		return "user"
	default:
		return fmt.Sprintf("resource(%d)", int(k))
	}
}

// OwnerResolver reports the owning principal of a resource, or ErrNotFound.
type OwnerResolver interface {
	OwnerID(ctx context.Context, resourceID int64) (int64, error)
}

// OwnerResolverFunc adapts a function to the OwnerResolver interface.
type OwnerResolverFunc func(ctx context.Context, resourceID int64) (int64, error)

func (f OwnerResolverFunc) OwnerID(ctx context.Context, resourceID int64) (int64, error) {
	return f(ctx, resourceID)
}

// Policy evaluates ownership checks through a per-kind resolver table.
type Policy struct {
	resolvers map[ResourceKind]OwnerResolver
}

// NewPolicy builds a Policy. Every ResourceKind must be bound.
func NewPolicy(resolvers map[ResourceKind]OwnerResolver) (*Policy, error) {
	for _, kind := range allKinds {
		if resolvers[kind] == nil {
			return nil, fmt.Errorf("authz: no owner resolver for kind %s", kind)
		}
	}
	table := make(map[ResourceKind]OwnerResolver, len(allKinds))
	for _, kind := range allKinds {
		table[kind] = resolvers[kind]
	}
	return &Policy{resolvers: table}, nil
}

// RequireOwner passes when the principal owns the resource or holds admin.
// Returns ErrNotFound when the resource does not exist and ErrForbidden
// when it exists but belongs to someone else.
func (p *Policy) RequireOwner(ctx context.Context, principal auth.Principal, kind ResourceKind, resourceID int64) error {
	if principal.Role == auth.RoleAdmin {
		return nil
	}
	resolver, ok := p.resolvers[kind]
	if !ok {
		return fmt.Errorf("authz: unregistered resource kind %s", kind)
	}
	ownerID, err := resolver.OwnerID(ctx, resourceID)
	if err != nil {
		return err
	}
	if ownerID != principal.UserID {
		return fmt.Errorf("%w: %s %d is not owned by principal %d", ErrForbidden, kind, resourceID, principal.UserID)
	}
	return nil
}

// RoleAllowed is the static gate: the principal's role must be in the
// endpoint's declared set.
func RoleAllowed(role auth.Role, required ...auth.Role) bool {
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}

// CanRead is the content-visibility gate. A nil minimum read role means
// public, anonymous included. A set minimum requires an authenticated
// principal whose role dominates or equals it.
func CanRead(minRole *auth.Role, principal *auth.Principal) bool {
	if minRole == nil {
		return true
	}
	if principal == nil {
		return false
	}
	return principal.Role.AtLeast(*minRole)
}

// CanSetReadRole is the mirror check for create/update: a principal may
// only set or keep a minimum read role at or below its own role, and
// anonymous callers may not write at all.
func CanSetReadRole(minRole *auth.Role, principal *auth.Principal) bool {
	if principal == nil {
		return false
	}
	if minRole == nil {
		return true
	}
	return principal.Role.AtLeast(*minRole)
}
