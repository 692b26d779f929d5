// Package schedule serves the host side: listing a host's live
// activities and editing an activity's bookable configuration.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/domain"
	redisx "github.com/AlinaTheCoder/TouristGuide-Backend/internal/redis"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/repository"
	postgresrepo "github.com/AlinaTheCoder/TouristGuide-Backend/internal/repository/postgres"
	redisrepo "github.com/AlinaTheCoder/TouristGuide-Backend/internal/repository/redis"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/uow"
)

var ErrActivityNotFound = errors.New("activity not found")

type Config struct {
	HostScheduleTTL time.Duration
}

type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisx.ActivitiesPubSub
	uow    *uow.UoW
	cfg    Config
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.ActivitiesPubSub,
	cfg Config,
) *Service {
	if cfg.HostScheduleTTL <= 0 {
		cfg.HostScheduleTTL = time.Minute
	}

	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.NewUoW(store),
		cfg:    cfg,
	}
}

// HostActivities returns a host's approved, currently listed activities.
func (s *Service) HostActivities(ctx context.Context, hostID string) ([]domain.Activity, error) {
	const op = "service.schedule.HostActivities"

	load := func(ctx context.Context) ([]domain.Activity, error) {
		return s.store.Activities().
			ListByHost(ctx, hostID, domain.ModerationAccepted, domain.ListingList)
	}

	if s.cache == nil {
		acts, err := load(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		return acts, nil
	}

	acts, err := redisrepo.GetOrSetJSON(
		ctx, s.cache,
		redisx.KeyHostSchedule(hostID),
		s.cfg.HostScheduleTTL,
		load,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return acts, nil
}

// GetActivity returns one activity's schedule configuration.
//
// Returns:
//   - error: schedule.ErrActivityNotFound if the activity does not exist.
func (s *Service) GetActivity(ctx context.Context, activityID string) (*domain.Activity, error) {
	const op = "service.schedule.GetActivity"

	act, err := s.store.Activities().GetActivity(ctx, activityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrActivityNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return act, nil
}

// UpdateSchedule applies a partial edit to an activity's schedule. The
// caches that quoted the old configuration are dropped after commit;
// already committed bookings keep their original slot keys.
func (s *Service) UpdateSchedule(ctx context.Context, activityID string, upd domain.ActivityUpdate) (*domain.Activity, error) {
	const op = "service.schedule.UpdateSchedule"

	var hostID string

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		act, err := s.store.Activities().With(tx).GetActivity(ctx, activityID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrActivityNotFound)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		hostID = act.HostID

		if err := s.store.Activities().With(tx).UpdateSchedule(ctx, activityID, upd); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			if s.cache != nil {
				_ = s.cache.Del(ctx, redisx.KeyActivity(activityID))
				_ = s.cache.InvalidateHostSchedule(ctx, hostID)
			}
			if s.pubsub != nil {
				_ = s.pubsub.PublishListingChanged(ctx, activityID)
			}
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	act, err := s.store.Activities().GetActivity(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return act, nil
}
