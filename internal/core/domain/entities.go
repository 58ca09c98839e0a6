package domain

// Role represents staff role in the system
type Role string

const (
	RoleOfficer Role = "OFFICER"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether the role is one of the known staff roles
func (r Role) Valid() bool {
	return r == RoleOfficer || r == RoleAdmin
}
