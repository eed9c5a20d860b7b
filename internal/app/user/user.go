/*
Package user contains the identity types the messaging layer reads: users, their
roles and account status, and the reserved support identity.
*/
package user

// Role is the closed set of platform roles.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAgency Role = "agency"
	RoleTalent Role = "talent"
	RoleClient Role = "client"
)

// roleRank orders roles from most to least privileged. A role satisfies every
// requirement at or below its own rank.
var roleRank = map[Role]int{
	RoleAdmin:  4,
	RoleAgency: 3,
	RoleTalent: 2,
	RoleClient: 1,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// IsAdmin reports whether r is the admin role.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Satisfies reports whether r is allowed wherever required is allowed.
func (r Role) Satisfies(required Role) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	return have >= roleRank[required]
}

// Status is the account status.
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// User is a platform account as seen by the messaging layer.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	Role         Role   `json:"role"`
	Status       Status `json:"status"`
	PasswordHash string `json:"-"`
}
