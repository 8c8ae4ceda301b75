package shared

// Analytics and reporting permissions.
const (
	PermViewAnalytics   = "view:analytics"
	PermExportAnalytics = "export:analytics"

	PermViewRoles       = "view:roles"
	PermViewPermissions = "view:permissions"
)

// AnalyticsScopes lists all permissions related to analytics.
func AnalyticsScopes() []string {
	return []string{
		PermViewAnalytics,
		PermExportAnalytics,
	}
}

// AdminScopes lists permissions for authorization introspection.
func AdminScopes() []string {
	return []string{
		PermViewRoles,
		PermViewPermissions,
	}
}
