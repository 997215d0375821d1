package domain

// Actor is the authenticated caller of an operation. Every mutating service
// method takes the actor as an explicit parameter; there is no request-global
// current user.
type Actor interface {
	ActorID() uint
	ActorRole() Role
}

// RequireRole fails with ErrForbidden when the actor's role is not in the
// allowed set. Admins get no special treatment here: an admin passes only
// when RoleAdmin is listed.
func RequireRole(actor Actor, allowed ...Role) error {
	role := actor.ActorRole()
	for _, r := range allowed {
		if role == r {
			return nil
		}
	}
	return ErrForbidden
}

// RequireOwner fails with ErrForbidden unless the actor owns the record
// identified by ownerID. Admins bypass ownership checks.
func RequireOwner(actor Actor, ownerID uint) error {
	if actor.ActorRole() == RoleAdmin {
		return nil
	}
	if actor.ActorID() != ownerID {
		return ErrForbidden
	}
	return nil
}

// IsParty reports whether the actor is one of the two given parties.
func IsParty(actor Actor, a, b uint) bool {
	id := actor.ActorID()
	return id == a || id == b
}
