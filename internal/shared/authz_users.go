package shared

// User and profile permissions.
const (
	PermViewOwnProfile = "view:own-profile"
	PermEditOwnProfile = "edit:own-profile"

	PermViewUsers   = "view:users"
	PermManageUsers = "manage:users"
)

// UserScopes lists all permissions related to users and profiles.
func UserScopes() []string {
	return []string{
		PermViewOwnProfile,
		PermEditOwnProfile,
		PermViewUsers,
		PermManageUsers,
	}
}
