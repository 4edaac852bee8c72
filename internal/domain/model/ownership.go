package model

import "github.com/google/uuid"

// Owned is implemented by every resource gated by an ownership check.
// Implementations must tolerate nil receivers and return uuid.Nil.
type Owned interface {
	OwnerRef() uuid.UUID
}

// IsOwnedBy reports whether principal owns resource.
//
// Both ids are compared in their canonical textual form. A nil resource, a
// resource without an owner, or a nil principal never authorize; callers map
// a missing resource to not-found before asking.
func IsOwnedBy(resource Owned, principal uuid.UUID) bool {
	if resource == nil {
		return false
	}
	owner := resource.OwnerRef()
	if owner == uuid.Nil || principal == uuid.Nil {
		return false
	}
	return canonicalID(owner) == canonicalID(principal)
}

func canonicalID(id uuid.UUID) string {
	return id.String()
}
