package domain

import "time"

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// ValidRole reports whether r is one of the known account roles.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}

// Account models a registered user of the catalog.
type Account struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Role      string    `json:"role"`
	Superuser bool      `json:"-"`
	// LastLogin changes whenever a confirmation code is exchanged for a
	// token, which retires any code derived from the previous state.
	LastLogin time.Time `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Elevated reports whether the account holds admin rights, either through
// the admin role or the superuser flag.
func (a *Account) Elevated() bool {
	return a.Role == RoleAdmin || a.Superuser
}

// Actor identifies the caller of an operation for permission checks.
// The zero value is an anonymous actor.
type Actor struct {
	Username  string
	Role      string
	Superuser bool
}

// ActorFor builds an Actor from an account.
func ActorFor(a *Account) Actor {
	return Actor{Username: a.Username, Role: a.Role, Superuser: a.Superuser}
}

// Anonymous reports whether the actor is unauthenticated.
func (a Actor) Anonymous() bool {
	return a.Username == ""
}

// Elevated reports whether the actor holds admin rights.
func (a Actor) Elevated() bool {
	return a.Role == RoleAdmin || a.Superuser
}
