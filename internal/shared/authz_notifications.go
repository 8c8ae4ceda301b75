package shared

// Notification permissions.
const (
	PermViewOwnNotifications = "view:own-notifications"
	PermSendNotifications    = "send:notifications"
)

// NotificationScopes lists all permissions related to notifications.
func NotificationScopes() []string {
	return []string{
		PermViewOwnNotifications,
		PermSendNotifications,
	}
}
