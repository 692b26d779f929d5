// Package booking implements the traveler-facing reservation flow: quote
// a day's slot availability, open a payment intent, and commit a booking
// against the activity's capacity ceilings.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/domain"
	redisx "github.com/AlinaTheCoder/TouristGuide-Backend/internal/redis"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/repository"
	redisrepo "github.com/AlinaTheCoder/TouristGuide-Backend/internal/repository/redis"
)

// acceptedIntentStatuses are the payment oracle states that permit a
// commit. Anything else is rejected before the ledger is touched.
var acceptedIntentStatuses = map[string]struct{}{
	"succeeded":        {},
	"processing":       {},
	"requires_capture": {},
}

type ActivityStore interface {
	GetActivity(ctx context.Context, id string) (*domain.Activity, error)
}

type UserStore interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

type BookingStore interface {
	ListByUser(ctx context.Context, userID string) ([]domain.BookingRecord, error)
	MarkFeedback(ctx context.Context, bookingID string) error
}

// Ledger is the capacity authority. CommitReservation applies both
// ceilings and persists the booking atomically.
type Ledger interface {
	ReadDay(ctx context.Context, activityID string, day time.Time) (*domain.DayCapacity, error)
	CommitReservation(ctx context.Context, act *domain.Activity, day time.Time, slotID string, guests int, rec *domain.BookingRecord) error
}

type PaymentGate interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (*domain.PaymentIntent, error)
	GetStatus(ctx context.Context, id string) (string, error)
}

type Mailer interface {
	SendBookingConfirmation(to, guestName, activityTitle, date, slotLabel string, guests int) error
	SendHostBookingNotice(to, hostName, activityTitle, date, slotLabel string, guests int) error
}

// Relister re-evaluates an activity's listing state after its committed
// coverage changed.
type Relister interface {
	Reevaluate(ctx context.Context, activityID string) error
}

type Config struct {
	SameDayBuffer   time.Duration
	Currency        string
	AvailabilityTTL time.Duration
}

type Service struct {
	activities ActivityStore
	users      UserStore
	bookings   BookingStore
	ledger     Ledger
	gate       PaymentGate
	mailer     Mailer
	relister   Relister

	cache   *redisrepo.Cache
	pubsub  *redisx.ActivitiesPubSub
	limiter *redisrepo.SlidingWindowLimiter

	cfg Config
	log *slog.Logger
	now func() time.Time
}

func New(
	activities ActivityStore,
	users UserStore,
	bookings BookingStore,
	ledger Ledger,
	gate PaymentGate,
	mailer Mailer,
	relister Relister,
	cache *redisrepo.Cache,
	pubsub *redisx.ActivitiesPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
	log *slog.Logger,
) *Service {
	if cfg.SameDayBuffer <= 0 {
		cfg.SameDayBuffer = 30 * time.Minute
	}

	if cfg.Currency == "" {
		cfg.Currency = "pkr"
	}

	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = 30 * time.Second
	}

	if log == nil {
		log = slog.Default()
	}

	return &Service{
		activities: activities,
		users:      users,
		bookings:   bookings,
		ledger:     ledger,
		gate:       gate,
		mailer:     mailer,
		relister:   relister,
		cache:      cache,
		pubsub:     pubsub,
		limiter:    limiter,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

// SlotQuote is one slot's availability on the requested day. Remaining is
// the slot's own headroom; the day ceiling is reported separately and
// re-checked at commit.
type SlotQuote struct {
	SlotID    string `json:"slotId"`
	Display   string `json:"display"`
	Booked    int    `json:"totalGuestsBooked"`
	Remaining int    `json:"remaining"`
}

// Availability is the answer to "what can I still book on this day". When
// TimeSlots comes back empty, Reason tells the caller why.
type Availability struct {
	ActivityID        string      `json:"activityId"`
	Date              string      `json:"date"`
	TimeSlots         []SlotQuote `json:"timeSlots"`
	TotalGuestsForDay int         `json:"totalGuestsForDay"`
	RemainingDay      int         `json:"remainingDayCapacity"`
	MaxGuestsPerDay   int         `json:"maxGuestsPerDay"`
	DayFullyBooked    bool        `json:"dayFullyBooked"`
	Reason            string      `json:"noSlotsReason,omitempty"`
	Message           string      `json:"noSlotsMessage,omitempty"`
}

const (
	reasonFullyBooked = "fully_booked"
	reasonPastTime    = "past_time"
)

// AvailableSlots quotes the bookable slots of one activity-day. Slots
// already started (with the same-day buffer applied) and slots without
// room for requestedGuests are filtered out. The quote is advisory; the
// commit re-checks everything.
func (s *Service) AvailableSlots(
	ctx context.Context,
	activityID, date string,
	requestedGuests int,
) (*Availability, error) {
	const op = "service.booking.AvailableSlots"

	act, err := s.activities.GetActivity(ctx, activityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrActivityNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	day, err := time.ParseInLocation(domain.DateLayout, date, domain.PKT)
	if err != nil {
		return nil, fmt.Errorf("%s: bad date %q: %w", op, date, err)
	}

	if day.Before(truncateDay(act.StartDate)) || day.After(truncateDay(act.EndDate)) {
		return nil, fmt.Errorf("%s:%w", op, ErrDateOutOfRange)
	}

	slots, err := domain.DeriveSlots(act)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	cap, err := s.readDay(ctx, activityID, date, day)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	dayRemaining := act.MaxGuestsPerDay - cap.TotalGuestsForDay
	if dayRemaining < 0 {
		dayRemaining = 0
	}

	avail := &Availability{
		ActivityID:        activityID,
		Date:              date,
		TimeSlots:         []SlotQuote{},
		TotalGuestsForDay: cap.TotalGuestsForDay,
		RemainingDay:      dayRemaining,
		MaxGuestsPerDay:   act.MaxGuestsPerDay,
	}

	if cap.TotalGuestsForDay >= act.MaxGuestsPerDay {
		avail.DayFullyBooked = true
		avail.Reason = reasonFullyBooked
		avail.Message = "This date is fully booked. Please choose another date."
		return avail, nil
	}

	upcoming := domain.FilterUpcoming(slots, day, s.now(), s.cfg.SameDayBuffer)
	if len(upcoming) == 0 {
		avail.DayFullyBooked = true
		avail.Reason = reasonPastTime
		avail.Message = "No more time slots remain today. Please pick another date."
		return avail, nil
	}

	for _, sl := range upcoming {
		booked := cap.Slots[sl.ID]

		remaining := act.MaxGuestsPerTime - booked
		if remaining < 0 {
			remaining = 0
		}

		// The hint narrows the list for the caller's party size, but it
		// never changes the day verdict: dayFullyBooked tracks only the
		// day aggregate.
		if requestedGuests > 0 && remaining < requestedGuests {
			continue
		}

		avail.TimeSlots = append(avail.TimeSlots, SlotQuote{
			SlotID:    sl.ID,
			Display:   sl.Display,
			Booked:    booked,
			Remaining: remaining,
		})
	}

	return avail, nil
}

// readDay loads the committed counters, through the quote cache when one
// is wired. The cache entry is dropped on every commit, so a short TTL
// only bounds staleness across processes.
func (s *Service) readDay(ctx context.Context, activityID, date string, day time.Time) (*domain.DayCapacity, error) {
	if s.cache == nil {
		return s.ledger.ReadDay(ctx, activityID, day)
	}

	cap, err := redisrepo.GetOrSetJSON(
		ctx, s.cache,
		redisx.KeyAvailability(activityID, date),
		s.cfg.AvailabilityTTL,
		func(ctx context.Context) (domain.DayCapacity, error) {
			c, err := s.ledger.ReadDay(ctx, activityID, day)
			if err != nil {
				return domain.DayCapacity{}, err
			}
			return *c, nil
		},
	)
	if err != nil {
		return nil, err
	}

	if cap.Slots == nil {
		cap.Slots = map[string]int{}
	}

	return &cap, nil
}

// CreatePaymentIntent opens an intent for pricePerGuest x guests in minor
// units. The booking coordinates ride along as metadata so the later
// commit (and any dashboard inspection) can tie the intent back.
func (s *Service) CreatePaymentIntent(
	ctx context.Context,
	activityID, userID, date, slotID string,
	guests int,
) (*domain.PaymentIntent, error) {
	const op = "service.booking.CreatePaymentIntent"

	if guests <= 0 {
		return nil, fmt.Errorf("%s: guests must be positive", op)
	}

	if s.limiter != nil && userID != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s:%w: retry in %s", op, ErrRateLimited, retry)
		}
	}

	act, err := s.activities.GetActivity(ctx, activityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrActivityNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if _, ok := domain.SlotByID(act, slotID); !ok {
		return nil, fmt.Errorf("%s:%w", op, ErrUnknownSlot)
	}

	amount := domain.BookingAmountMinor(act.PricePerGuest, guests)

	intent, err := s.gate.CreateIntent(ctx, amount, s.cfg.Currency, map[string]string{
		"activityId":      activityID,
		"userId":          userID,
		"date":            date,
		"slotId":          slotID,
		"requestedGuests": fmt.Sprintf("%d", guests),
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return intent, nil
}

type BookRequest struct {
	ActivityID      string
	UserID          string
	Date            string
	SlotID          string
	Guests          int
	PaymentIntentID string
}

type BookResult struct {
	BookingID      string `json:"bookingId"`
	GuestEmailSent bool   `json:"guestEmailSent"`
	HostEmailSent  bool   `json:"hostEmailSent"`
}

// Book verifies the payment state and commits the reservation. Capacity
// is enforced by the ledger inside one atomic check-and-increment, so two
// racing bookings for the last seats can never both land.
func (s *Service) Book(ctx context.Context, req BookRequest) (*BookResult, error) {
	const op = "service.booking.Book"

	if req.ActivityID == "" || req.UserID == "" || req.Date == "" ||
		req.SlotID == "" || req.PaymentIntentID == "" || req.Guests <= 0 {
		return nil, fmt.Errorf("%s: missing required fields", op)
	}

	// Payment state gates everything. An unpaid intent must not consume
	// capacity, even transiently.
	status, err := s.gate.GetStatus(ctx, req.PaymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if _, ok := acceptedIntentStatuses[status]; !ok {
		return nil, fmt.Errorf("%s:%w", op, &PaymentStateError{Status: status})
	}

	act, err := s.activities.GetActivity(ctx, req.ActivityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrActivityNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	day, err := time.ParseInLocation(domain.DateLayout, req.Date, domain.PKT)
	if err != nil {
		return nil, fmt.Errorf("%s: bad date %q: %w", op, req.Date, err)
	}

	if day.Before(truncateDay(act.StartDate)) || day.After(truncateDay(act.EndDate)) {
		return nil, fmt.Errorf("%s:%w", op, ErrDateOutOfRange)
	}

	if _, ok := domain.SlotByID(act, req.SlotID); !ok {
		return nil, fmt.Errorf("%s:%w", op, ErrUnknownSlot)
	}

	amount := domain.BookingAmountMinor(act.PricePerGuest, req.Guests)
	hostShare, platformFee := domain.EarningsSplit(amount)

	eligibleAt, err := domain.ReviewEligibleAt(act, day, req.SlotID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	rec := &domain.BookingRecord{
		ID:               uuid.NewString(),
		ActivityID:       act.ID,
		HostID:           act.HostID,
		UserID:           req.UserID,
		Date:             day,
		SlotID:           req.SlotID,
		RequestedGuests:  req.Guests,
		PaymentIntentID:  req.PaymentIntentID,
		AmountMinor:      amount,
		HostShareMinor:   hostShare,
		PlatformFeeMinor: platformFee,
		ReviewEligibleAt: eligibleAt,
		CreatedAt:        s.now(),
	}

	err = s.ledger.CommitReservation(ctx, act, day, req.SlotID, req.Guests, rec)
	if err != nil {
		if errors.Is(err, domain.ErrSlotCapacity) || errors.Is(err, domain.ErrDayCapacity) {
			return nil, fmt.Errorf("%s:%w", op, ErrSlotFullyBooked)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	s.afterCommit(ctx, act, req.Date)

	res := &BookResult{BookingID: rec.ID}
	s.sendBookingEmails(ctx, act, rec, res)

	return res, nil
}

// afterCommit runs the side effects of a landed booking. All best-effort:
// the booking is durable regardless.
func (s *Service) afterCommit(ctx context.Context, act *domain.Activity, date string) {
	if s.cache != nil {
		if err := s.cache.InvalidateAvailability(ctx, act.ID, date); err != nil {
			s.log.Warn("availability cache invalidation failed",
				"activity_id", act.ID, "date", date, "error", err)
		}
	}

	if s.pubsub != nil {
		if err := s.pubsub.PublishAvailabilityChanged(ctx, act.ID, date); err != nil {
			s.log.Warn("availability publish failed",
				"activity_id", act.ID, "date", date, "error", err)
		}
	}

	if s.relister != nil {
		if err := s.relister.Reevaluate(ctx, act.ID); err != nil {
			s.log.Warn("listing re-evaluation failed",
				"activity_id", act.ID, "error", err)
		}
	}
}

func (s *Service) sendBookingEmails(ctx context.Context, act *domain.Activity, rec *domain.BookingRecord, res *BookResult) {
	if s.mailer == nil {
		return
	}

	label := domain.SlotDisplayLabel(act, rec.SlotID)
	date := rec.Date.Format(domain.DateLayout)

	if guest, err := s.users.GetUser(ctx, rec.UserID); err == nil {
		if err := s.mailer.SendBookingConfirmation(
			guest.Email, guest.Name, act.Title, date, label, rec.RequestedGuests,
		); err != nil {
			s.log.Warn("guest confirmation email failed", "booking_id", rec.ID, "error", err)
		} else {
			res.GuestEmailSent = true
		}
	} else {
		s.log.Warn("guest lookup failed for email", "user_id", rec.UserID, "error", err)
	}

	if host, err := s.users.GetUser(ctx, act.HostID); err == nil {
		if err := s.mailer.SendHostBookingNotice(
			host.Email, act.HostName, act.Title, date, label, rec.RequestedGuests,
		); err != nil {
			s.log.Warn("host notice email failed", "booking_id", rec.ID, "error", err)
		} else {
			res.HostEmailSent = true
		}
	} else {
		s.log.Warn("host lookup failed for email", "host_id", act.HostID, "error", err)
	}
}

// Trips returns a traveler's bookings, newest first.
func (s *Service) Trips(ctx context.Context, userID string) ([]domain.BookingRecord, error) {
	const op = "service.booking.Trips"

	recs, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return recs, nil
}

// MarkFeedback flags a booking as reviewed, which also excludes it from
// the reminder sweep.
func (s *Service) MarkFeedback(ctx context.Context, bookingID string) error {
	const op = "service.booking.MarkFeedback"

	if err := s.bookings.MarkFeedback(ctx, bookingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
		}
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, domain.PKT)
}
