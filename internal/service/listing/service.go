// Package listing owns the List -> UnList transition: an activity leaves
// the storefront once every calendar day it offers is fully booked.
package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/domain"
	redisx "github.com/AlinaTheCoder/TouristGuide-Backend/internal/redis"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/repository"
)

type ActivityStore interface {
	GetActivity(ctx context.Context, id string) (*domain.Activity, error)
	UnlistIfListed(ctx context.Context, id string) (bool, error)
}

type CoverageStore interface {
	FullyBookedDayCount(ctx context.Context, activityID string, from, to time.Time, dayCap int) (int, error)
}

type Service struct {
	activities ActivityStore
	coverage   CoverageStore
	pubsub     *redisx.ActivitiesPubSub
	log        *slog.Logger
}

func New(activities ActivityStore, coverage CoverageStore, pubsub *redisx.ActivitiesPubSub, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		activities: activities,
		coverage:   coverage,
		pubsub:     pubsub,
		log:        log,
	}
}

// Reevaluate unlists the activity when every day in its calendar has
// reached the day cap. Only a currently listed activity is touched: the
// transition never reverses, and Deactivate is the host's own state that
// this sweep must not overwrite. Safe to call after every commit and from
// re-runs; an already unlisted activity is a no-op.
func (s *Service) Reevaluate(ctx context.Context, activityID string) error {
	const op = "service.listing.Reevaluate"

	act, err := s.activities.GetActivity(ctx, activityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
		}
		return fmt.Errorf("%s:%w", op, err)
	}

	if act.ListingStatus != domain.ListingList {
		return nil
	}

	from := dayOf(act.StartDate)
	to := dayOf(act.EndDate)

	days := domain.DaySpan(from, to)
	if days == 0 {
		return nil
	}

	full, err := s.coverage.FullyBookedDayCount(ctx, activityID, from, to, act.MaxGuestsPerDay)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if full < days {
		return nil
	}

	changed, err := s.activities.UnlistIfListed(ctx, activityID)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if changed {
		s.log.Info("activity unlisted, calendar fully booked",
			"activity_id", activityID, "days", days)

		if s.pubsub != nil {
			if err := s.pubsub.PublishListingChanged(ctx, activityID); err != nil {
				s.log.Warn("listing change publish failed",
					"activity_id", activityID, "error", err)
			}
		}
	}

	return nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, domain.PKT)
}
