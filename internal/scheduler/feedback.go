package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/domain"
)

// reminderBatchSize bounds one sweep so a backlog drains over several
// ticks instead of holding a connection for minutes.
const reminderBatchSize = 100

type BookingReminderStore interface {
	ListReviewEligible(ctx context.Context, now time.Time, limit int) ([]domain.BookingRecord, error)
	MarkReminderSent(ctx context.Context, bookingID string) error
}

type ActivityGetter interface {
	GetActivity(ctx context.Context, id string) (*domain.Activity, error)
}

type UserGetter interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

type ReminderMailer interface {
	SendFeedbackReminder(to, guestName, activityTitle, date, slotLabel string) error
}

// FeedbackReminderJob emails travelers whose feedback window opened: slot
// end plus a day, no feedback yet, not yet reminded. The sent flag flips
// only after a successful send, so a failed email is retried next tick.
type FeedbackReminderJob struct {
	bookings   BookingReminderStore
	activities ActivityGetter
	users      UserGetter
	mailer     ReminderMailer
	interval   time.Duration
	log        *slog.Logger
	now        func() time.Time
}

func NewFeedbackReminderJob(
	bookings BookingReminderStore,
	activities ActivityGetter,
	users UserGetter,
	mailer ReminderMailer,
	interval time.Duration,
	log *slog.Logger,
) *FeedbackReminderJob {
	if interval <= 0 {
		interval = time.Hour
	}

	if log == nil {
		log = slog.Default()
	}

	return &FeedbackReminderJob{
		bookings:   bookings,
		activities: activities,
		users:      users,
		mailer:     mailer,
		interval:   interval,
		log:        log,
		now:        time.Now,
	}
}

func (j *FeedbackReminderJob) Name() string            { return "feedback-reminder" }
func (j *FeedbackReminderJob) Interval() time.Duration { return j.interval }

func (j *FeedbackReminderJob) Run(ctx context.Context) error {
	const op = "scheduler.FeedbackReminderJob.Run"

	due, err := j.bookings.ListReviewEligible(ctx, j.now(), reminderBatchSize)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	for _, b := range due {
		if err := j.remind(ctx, &b); err != nil {
			j.log.Warn("feedback reminder failed",
				"booking_id", b.ID, "user_id", b.UserID, "error", err)
		}
	}

	return nil
}

func (j *FeedbackReminderJob) remind(ctx context.Context, b *domain.BookingRecord) error {
	act, err := j.activities.GetActivity(ctx, b.ActivityID)
	if err != nil {
		return err
	}

	user, err := j.users.GetUser(ctx, b.UserID)
	if err != nil {
		return err
	}

	label := domain.SlotDisplayLabel(act, b.SlotID)

	if err := j.mailer.SendFeedbackReminder(
		user.Email, user.Name, act.Title, b.Date.Format(domain.DateLayout), label,
	); err != nil {
		return err
	}

	return j.bookings.MarkReminderSent(ctx, b.ID)
}
