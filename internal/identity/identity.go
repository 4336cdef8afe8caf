package identity

import "errors"

// ErrCannotCreateRootIdentity is returned when a caller tries to build an
// identity for user id 0, which is reserved for the internal root principal.
var ErrCannotCreateRootIdentity = errors.New("cannot create root identity")

// Identity is the principal attached to an authenticated request. It is an
// immutable value type carrying only the author's id.
type Identity struct {
	userID int64
}

// New builds an identity for a real author. User id 0 is rejected so the
// root principal can never originate from untrusted input.
func New(userID int64) (Identity, error) {
	if userID == 0 {
		return Identity{}, ErrCannotCreateRootIdentity
	}
	return Identity{userID: userID}, nil
}

// Root is the internal system principal used by seeding and maintenance
// tooling. It bypasses author-scoped checks and must never be handed to
// request-handling code.
func Root() Identity {
	return Identity{userID: 0}
}

func (i Identity) UserID() int64 {
	return i.userID
}

func (i Identity) IsRoot() bool {
	return i.userID == 0
}
