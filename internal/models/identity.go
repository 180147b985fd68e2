package models

// Role is a user's access level.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleSeller   Role = "SELLER"
	RoleAdmin    Role = "ADMIN"
)

// ValidRole reports whether r is a known role value.
func ValidRole(r Role) bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// Identity is the request-scoped caller identity produced once at the
// boundary and passed by value into every operation. The zero value is an
// anonymous caller.
type Identity struct {
	UserID string
	Role   Role
}

// IsAnonymous reports whether no verified caller is present.
func (i Identity) IsAnonymous() bool {
	return i.UserID == ""
}

// IsAdmin reports whether the caller holds the administrative role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
