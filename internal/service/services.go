package service

import (
	"log/slog"

	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/mail"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/payment"
	redisx "github.com/AlinaTheCoder/TouristGuide-Backend/internal/redis"
	postgres "github.com/AlinaTheCoder/TouristGuide-Backend/internal/repository/postgres"
	redis "github.com/AlinaTheCoder/TouristGuide-Backend/internal/repository/redis"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/service/booking"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/service/earnings"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/service/listing"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/service/schedule"
)

type Services struct {
	Booking  *booking.Service
	Listing  *listing.Service
	Schedule *schedule.Service
	Earnings *earnings.Service
}

type Config struct {
	Booking  booking.Config
	Schedule schedule.Config
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redisx.ActivitiesPubSub,
	limiter *redis.SlidingWindowLimiter,
	gate *payment.Gate,
	mailer *mail.Mailer,
	cfg Config,
	log *slog.Logger,
) *Services {
	listingSvc := listing.New(store.Activities(), store.Capacity(), pubsub, log)

	return &Services{
		Booking: booking.New(
			store.Activities(),
			store.Users(),
			store.Bookings(),
			store.Capacity(),
			gate,
			mailer,
			listingSvc,
			cache,
			pubsub,
			limiter,
			cfg.Booking,
			log,
		),
		Listing:  listingSvc,
		Schedule: schedule.New(store, cache, pubsub, cfg.Schedule),
		Earnings: earnings.New(store),
	}
}
