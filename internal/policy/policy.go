// Package policy decides which role may perform which action.
//
// Every (role, action) pair maps to a Scope. Authorize answers the coarse
// question "may this role ever do this", AuthorizeOwned additionally checks
// that an own-scoped action targets a resource owned by the caller.
// Nothing here performs I/O.
package policy

// Role is the system-wide role of an account.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleStoreOwner Role = "store_owner"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleUser, RoleStoreOwner}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleStoreOwner:
		return true
	}
	return false
}

// Action is a coarse-grained operation guarded by the policy.
type Action string

const (
	ActionManageUsers           Action = "manage_users"
	ActionManageStores          Action = "manage_stores"
	ActionViewAllStats          Action = "view_all_stats"
	ActionSubmitRating          Action = "submit_rating"
	ActionViewOwnRatings        Action = "view_own_ratings"
	ActionViewOwnedStoreRatings Action = "view_owned_store_ratings"
	ActionUpdateOwnProfile      Action = "update_own_profile"
	ActionBrowseStores          Action = "browse_stores"
)

// Scope is how far a grant reaches.
type Scope int

const (
	ScopeNone Scope = iota // never allowed
	ScopeOwn               // only on resources owned by the caller
	ScopeAny               // on any resource
)

func (s Scope) String() string {
	switch s {
	case ScopeOwn:
		return "own"
	case ScopeAny:
		return "any"
	}
	return "none"
}

// Decision is the outcome of a policy check.
type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

func (d Decision) String() string {
	if d {
		return "allow"
	}
	return "deny"
}

// grants is the whole access-control contract. Missing entries mean ScopeNone.
// Admins do not rate stores.
var grants = map[Role]map[Action]Scope{
	RoleAdmin: {
		ActionManageUsers:           ScopeAny,
		ActionManageStores:          ScopeAny,
		ActionViewAllStats:          ScopeAny,
		ActionViewOwnRatings:        ScopeAny,
		ActionViewOwnedStoreRatings: ScopeAny,
		ActionUpdateOwnProfile:      ScopeOwn,
		ActionBrowseStores:          ScopeAny,
	},
	RoleUser: {
		ActionSubmitRating:     ScopeOwn,
		ActionViewOwnRatings:   ScopeOwn,
		ActionUpdateOwnProfile: ScopeOwn,
		ActionBrowseStores:     ScopeAny,
	},
	RoleStoreOwner: {
		ActionViewOwnedStoreRatings: ScopeOwn,
		ActionUpdateOwnProfile:      ScopeOwn,
		ActionBrowseStores:          ScopeAny,
	},
}

// ScopeOf returns the scope granted to role for action.
func ScopeOf(role Role, action Action) Scope {
	return grants[role][action]
}

// Authorize answers whether role may perform action at all.
func Authorize(role Role, action Action) Decision {
	return ScopeOf(role, action) != ScopeNone
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID int64
	Role   Role
}

// Can is shorthand for Authorize(p.Role, action).
func (p Principal) Can(action Action) bool {
	return bool(Authorize(p.Role, action))
}

// AuthorizeOwned checks action against a resource whose owner is ownerID.
// A nil ownerID (unowned or unresolved resource) only passes ScopeAny, so a
// missing resource and a foreign one are indistinguishable to the caller.
func AuthorizeOwned(p Principal, action Action, ownerID *int64) Decision {
	switch ScopeOf(p.Role, action) {
	case ScopeAny:
		return Allow
	case ScopeOwn:
		return Decision(ownerID != nil && *ownerID == p.UserID)
	}
	return Deny
}
