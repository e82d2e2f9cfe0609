package models

// User represents a Telegram user of the bot
type User struct {
	ID                   int64  `json:"user_id" db:"user_id"` // Telegram user ID
	Username             string `json:"username" db:"username"`
	Timezone             string `json:"tz" db:"tz"`
	NotificationHour     int    `json:"notification_hour" db:"notification_hour"` // hour of day (0-23)
	NotificationsEnabled bool   `json:"notifications_enabled" db:"notifications_enabled"`
	CreatedAt            string `json:"created_at" db:"created_at"`
}
