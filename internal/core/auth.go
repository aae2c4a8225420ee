package core

// Role names are fixed; EnsureRoles creates both at startup.
const (
	RoleAdmin    = "Admin"
	RoleReadOnly = "ReadOnly"
)

// AuthContext identifies the caller of a mutating operation. It is built
// fresh per request by the transport layer (no ambient current-user state),
// so role checks always see the request's latest membership.
type AuthContext struct {
	UserID string
	Roles  []string
}

// HasRole reports whether the caller holds the named role.
func (a AuthContext) HasRole(name string) bool {
	for _, r := range a.Roles {
		if r == name {
			return true
		}
	}
	return false
}
