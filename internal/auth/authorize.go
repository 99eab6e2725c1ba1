// Package auth holds the identity extracted from a session and the single role check
// used by every protected route.
package auth

import (
	"github.com/google/uuid"

	"go-pos-inventory/internal/model"
)

// Identity is the authenticated operator behind a request
type Identity struct {
	UserID   uuid.UUID
	Username string
	Email    string
	Name     string
	Role     string
}

type Decision int

const (
	// Unauthenticated means the identity is missing or the account could not be resolved.
	Unauthenticated Decision = iota
	// Forbidden means the identity is valid but its role is not allowed.
	Forbidden
	Allowed
)

func (d Decision) Allowed() bool {
	return d == Allowed
}

// Authorize checks identity against the allowed roles. An empty role list admits any
// authenticated identity. Admins pass every role check.
func Authorize(identity *Identity, roles ...string) Decision {
	if identity == nil || identity.UserID == uuid.Nil {
		return Unauthenticated
	}
	if len(roles) == 0 || identity.Role == model.RoleAdmin {
		return Allowed
	}
	for _, r := range roles {
		if identity.Role == r {
			return Allowed
		}
	}
	return Forbidden
}
