package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/domain"
)

type ActivityExpiryStore interface {
	ListListed(ctx context.Context) ([]domain.Activity, error)
	UnlistIfListed(ctx context.Context, id string) (bool, error)
}

type CapacityReader interface {
	ReadDay(ctx context.Context, activityID string, day time.Time) (*domain.DayCapacity, error)
}

// ExpiredActivitiesJob takes activities off the storefront once nothing
// bookable remains: the calendar has passed, or on the final day every
// remaining slot is gone or the day quota is spent.
type ExpiredActivitiesJob struct {
	activities ActivityExpiryStore
	capacity   CapacityReader
	buffer     time.Duration
	interval   time.Duration
	log        *slog.Logger
	now        func() time.Time
}

func NewExpiredActivitiesJob(
	activities ActivityExpiryStore,
	capacity CapacityReader,
	buffer time.Duration,
	interval time.Duration,
	log *slog.Logger,
) *ExpiredActivitiesJob {
	if buffer <= 0 {
		buffer = 30 * time.Minute
	}

	if interval <= 0 {
		interval = 15 * time.Minute
	}

	if log == nil {
		log = slog.Default()
	}

	return &ExpiredActivitiesJob{
		activities: activities,
		capacity:   capacity,
		buffer:     buffer,
		interval:   interval,
		log:        log,
		now:        time.Now,
	}
}

func (j *ExpiredActivitiesJob) Name() string            { return "expired-activities" }
func (j *ExpiredActivitiesJob) Interval() time.Duration { return j.interval }

func (j *ExpiredActivitiesJob) Run(ctx context.Context) error {
	const op = "scheduler.ExpiredActivitiesJob.Run"

	acts, err := j.activities.ListListed(ctx)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	now := j.now().In(domain.PKT)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, domain.PKT)

	for _, act := range acts {
		expired, err := j.isExpired(ctx, &act, today, now)
		if err != nil {
			j.log.Warn("expiry check failed", "activity_id", act.ID, "error", err)
			continue
		}

		if !expired {
			continue
		}

		changed, err := j.activities.UnlistIfListed(ctx, act.ID)
		if err != nil {
			j.log.Warn("unlist failed", "activity_id", act.ID, "error", err)
			continue
		}

		if changed {
			j.log.Info("activity unlisted, calendar exhausted", "activity_id", act.ID)
		}
	}

	return nil
}

func (j *ExpiredActivitiesJob) isExpired(ctx context.Context, act *domain.Activity, today, now time.Time) (bool, error) {
	end := time.Date(act.EndDate.Year(), act.EndDate.Month(), act.EndDate.Day(), 0, 0, 0, 0, domain.PKT)

	if today.After(end) {
		return true, nil
	}

	if !today.Equal(end) {
		return false, nil
	}

	// Final calendar day: expire once no slot can still be booked.
	slots, err := domain.DeriveSlots(act)
	if err != nil {
		return false, err
	}

	upcoming := domain.FilterUpcoming(slots, today, now, j.buffer)
	if len(upcoming) == 0 {
		return true, nil
	}

	cap, err := j.capacity.ReadDay(ctx, act.ID, today)
	if err != nil {
		return false, err
	}

	if cap.TotalGuestsForDay >= act.MaxGuestsPerDay {
		return true, nil
	}

	for _, s := range upcoming {
		if cap.Slots[s.ID] < act.MaxGuestsPerTime {
			return false, nil
		}
	}

	return true, nil
}
