package service

import "github.com/noah-isme/moonbase-api/internal/models"

// Actor is the resolved identity of the caller, passed explicitly to every
// operation.
type Actor struct {
	ID       uint
	Username string
	Role     models.Role
}

// Is reports whether the actor holds role.
func (a Actor) Is(role models.Role) bool {
	return a.ID != 0 && a.Role == role
}

// Authenticated reports whether the actor maps to a stored user.
func (a Actor) Authenticated() bool {
	return a.ID != 0
}
