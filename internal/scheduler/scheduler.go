package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/englishboss/pkg/models"
)

// Default window for reminder delivery.
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Notifier sends the due-review reminder to a user.
type Notifier interface {
	SendDueReminder(userID int64, count int) error
}

// UserSource lists the users wanting a reminder at a given hour.
type UserSource interface {
	GetForNotificationHour(ctx context.Context, hour int) ([]models.User, error)
}

// DueCounter counts a user's currently due words.
type DueCounter interface {
	CountDue(ctx context.Context, userID int64) (int, error)
}

// Scheduler runs the hourly reminder job.
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	users     UserSource
	reviews   DueCounter
}

// New creates a scheduler instance
func New(notifier Notifier, users UserSource, reviews DueCounter) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		notifier:  notifier,
		users:     users,
		reviews:   reviews,
	}
}

// Start begins the hourly reminder checks without blocking.
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders notifies every user whose notification hour matches
// the current hour and who has words due. A failure for one user never
// blocks the rest.
func (s *Scheduler) checkAndSendReminders() {
	currentHour := time.Now().Hour()

	startHour := envHour("NOTIFICATION_START_HOUR", DefaultNotificationStartHour)
	endHour := envHour("NOTIFICATION_END_HOUR", DefaultNotificationEndHour)

	if currentHour < startHour || currentHour > endHour {
		return
	}

	ctx := context.Background()
	users, err := s.users.GetForNotificationHour(ctx, currentHour)
	if err != nil {
		log.Printf("Error getting users for notification: %v", err)
		return
	}

	for _, user := range users {
		count, err := s.reviews.CountDue(ctx, user.ID)
		if err != nil {
			log.Printf("Error counting due words for user %d: %v", user.ID, err)
			continue
		}
		if count == 0 {
			continue
		}
		if err := s.notifier.SendDueReminder(user.ID, count); err != nil {
			log.Printf("Error sending reminder to user %d: %v", user.ID, err)
		}
	}
}

// RunManualCheck forces a reminder check for one user.
func (s *Scheduler) RunManualCheck(ctx context.Context, userID int64) error {
	count, err := s.reviews.CountDue(ctx, userID)
	if err != nil {
		return err
	}
	if count > 0 {
		return s.notifier.SendDueReminder(userID, count)
	}
	return nil
}

func envHour(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
