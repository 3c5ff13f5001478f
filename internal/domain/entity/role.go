package entity

// Role names carried on users and in access token claims
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// IsValidRole reports whether name is a known role
func IsValidRole(name string) bool {
	return name == RoleAdmin || name == RoleUser
}
