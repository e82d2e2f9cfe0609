package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/englishboss/pkg/models"
)

// DefaultTimezone is used for users who never set one.
const DefaultTimezone = "America/Chicago"

// UserRepository handles database operations for users
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new repository instance
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert registers a user on first contact and refreshes the username on
// later ones. Notification settings keep their stored values.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	if user.Timezone == "" {
		user.Timezone = DefaultTimezone
	}
	query := r.db.Rebind(`
		INSERT INTO users (user_id, username, tz, notification_hour, notifications_enabled, created_at)
		VALUES (?, ?, ?, 9, true, ?)
		ON CONFLICT (user_id) DO UPDATE SET username = excluded.username
	`)
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Timezone, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetByID returns a single user
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	query := r.db.Rebind(`
		SELECT user_id, COALESCE(username, '') AS username, COALESCE(tz, '') AS tz,
		       notification_hour, notifications_enabled, COALESCE(created_at, '') AS created_at
		FROM users WHERE user_id = ?
	`)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return &user, nil
}

// GetForNotificationHour returns users who want reminders at the given hour.
func (r *UserRepository) GetForNotificationHour(ctx context.Context, hour int) ([]models.User, error) {
	query := r.db.Rebind(`
		SELECT user_id, COALESCE(username, '') AS username, COALESCE(tz, '') AS tz,
		       notification_hour, notifications_enabled, COALESCE(created_at, '') AS created_at
		FROM users
		WHERE notifications_enabled = true AND notification_hour = ?
	`)
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, hour); err != nil {
		return nil, fmt.Errorf("failed to get users for hour %d: %w", hour, err)
	}
	return users, nil
}
