package domain

// Action is a capability an actor may exercise on a resource.
type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

// ResourceKind classifies what an actor is acting on.
type ResourceKind string

const (
	// ResourceCatalog covers titles, genres and categories.
	ResourceCatalog ResourceKind = "catalog"
	ResourceReview  ResourceKind = "review"
	ResourceComment ResourceKind = "comment"
	ResourceProfile ResourceKind = "profile"
)

// Resource is the target of a permission check. Owner is the author username
// for reviews and comments, or the account username for profiles; it is
// unused for catalog resources.
type Resource struct {
	Kind  ResourceKind
	Owner string
}

// Allowed is the access policy:
//
//	catalog          read: everyone        write: admin/superuser
//	review, comment  read: everyone        write: author, moderator, admin/superuser
//	profile          read/write: owner or admin/superuser (role changes are
//	                 restricted further by the account service)
func Allowed(actor Actor, action Action, res Resource) bool {
	switch res.Kind {
	case ResourceCatalog:
		return action == ActionRead || actor.Elevated()
	case ResourceReview, ResourceComment:
		if action == ActionRead {
			return true
		}
		if actor.Anonymous() {
			return false
		}
		return actor.Username == res.Owner ||
			actor.Role == RoleModerator ||
			actor.Elevated()
	case ResourceProfile:
		if actor.Anonymous() {
			return false
		}
		return actor.Username == res.Owner || actor.Elevated()
	}
	return false
}
