package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/domain"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/repository"
)

const (
	morningSlot   = "9-00_am_-_11-00_am"
	afternoonSlot = "11-00_am_-_1-00_pm"
)

type fakeActivities struct {
	acts map[string]*domain.Activity
}

func (f *fakeActivities) GetActivity(_ context.Context, id string) (*domain.Activity, error) {
	a, ok := f.acts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

type fakeUsers struct {
	users map[string]domain.User
}

func (f *fakeUsers) GetUser(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

type fakeBookings struct {
	mu       sync.Mutex
	byUser   map[string][]domain.BookingRecord
	feedback map[string]bool
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{byUser: map[string][]domain.BookingRecord{}, feedback: map[string]bool{}}
}

func (f *fakeBookings) ListByUser(_ context.Context, userID string) ([]domain.BookingRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.BookingRecord(nil), f.byUser[userID]...), nil
}

func (f *fakeBookings) MarkFeedback(_ context.Context, bookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedback[bookingID] = true
	return nil
}

// fakeLedger enforces the same capacity rules as the real one, guarded by
// a mutex so concurrent commits serialize the check-and-increment.
type fakeLedger struct {
	mu      sync.Mutex
	days    map[string]*domain.DayCapacity
	commits int
	recs    []domain.BookingRecord
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{days: map[string]*domain.DayCapacity{}}
}

func (f *fakeLedger) dayKey(activityID string, day time.Time) string {
	return activityID + "|" + day.Format(domain.DateLayout)
}

func (f *fakeLedger) ReadDay(_ context.Context, activityID string, day time.Time) (*domain.DayCapacity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := domain.DayCapacity{Slots: map[string]int{}}
	if c, ok := f.days[f.dayKey(activityID, day)]; ok {
		cp.TotalGuestsForDay = c.TotalGuestsForDay
		for k, v := range c.Slots {
			cp.Slots[k] = v
		}
	}
	return &cp, nil
}

func (f *fakeLedger) CommitReservation(
	_ context.Context,
	act *domain.Activity,
	day time.Time,
	slotID string,
	guests int,
	rec *domain.BookingRecord,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.commits++

	key := f.dayKey(act.ID, day)
	c, ok := f.days[key]
	if !ok {
		c = &domain.DayCapacity{Slots: map[string]int{}}
		f.days[key] = c
	}

	if err := domain.CheckCapacity(act, c.Slots[slotID], c.TotalGuestsForDay, guests); err != nil {
		return err
	}

	c.Slots[slotID] += guests
	c.TotalGuestsForDay += guests
	f.recs = append(f.recs, *rec)
	return nil
}

type fakeGate struct {
	mu          sync.Mutex
	statuses    map[string]string
	created     []int64
	statusCalls int
}

func (f *fakeGate) CreateIntent(_ context.Context, amountMinor int64, currency string, _ map[string]string) (*domain.PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.created = append(f.created, amountMinor)
	return &domain.PaymentIntent{
		ID:           fmt.Sprintf("pi_test_%d", len(f.created)),
		ClientSecret: "secret",
		Status:       "requires_payment_method",
		AmountMinor:  amountMinor,
		Currency:     currency,
	}, nil
}

func (f *fakeGate) GetStatus(_ context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.statusCalls++
	st, ok := f.statuses[id]
	if !ok {
		return "", errors.New("no such intent")
	}
	return st, nil
}

type fakeMailer struct {
	mu          sync.Mutex
	guestEmails int
	hostEmails  int
	failGuest   bool
}

func (f *fakeMailer) SendBookingConfirmation(_, _, _, _, _ string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGuest {
		return errors.New("smtp down")
	}
	f.guestEmails++
	return nil
}

func (f *fakeMailer) SendHostBookingNotice(_, _, _, _, _ string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hostEmails++
	return nil
}

type fakeRelister struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeRelister) Reevaluate(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil
}

func testActivity() *domain.Activity {
	return &domain.Activity{
		ID:               "act-1",
		HostID:           "host-1",
		HostName:         "Ayesha",
		Title:            "Old City Food Walk",
		StartTime:        "09:00",
		EndTime:          "13:00",
		DurationHours:    2,
		StartDate:        time.Date(2026, 5, 10, 0, 0, 0, 0, domain.PKT),
		EndDate:          time.Date(2026, 5, 20, 0, 0, 0, 0, domain.PKT),
		MaxGuestsPerTime: 5,
		MaxGuestsPerDay:  10,
		PricePerGuest:    1500,
		ListingStatus:    domain.ListingList,
		Status:           domain.ModerationAccepted,
	}
}

type fixture struct {
	svc      *Service
	ledger   *fakeLedger
	gate     *fakeGate
	mailer   *fakeMailer
	relister *fakeRelister
	bookings *fakeBookings
}

func newFixture(t *testing.T, act *domain.Activity) *fixture {
	t.Helper()

	f := &fixture{
		ledger:   newFakeLedger(),
		gate:     &fakeGate{statuses: map[string]string{}},
		mailer:   &fakeMailer{},
		relister: &fakeRelister{},
		bookings: newFakeBookings(),
	}

	users := &fakeUsers{users: map[string]domain.User{
		"user-1": {ID: "user-1", Name: "Bilal", Email: "bilal@example.com"},
		"user-2": {ID: "user-2", Name: "Sara", Email: "sara@example.com"},
		"host-1": {ID: "host-1", Name: "Ayesha", Email: "ayesha@example.com"},
	}}

	f.svc = New(
		&fakeActivities{acts: map[string]*domain.Activity{act.ID: act}},
		users,
		f.bookings,
		f.ledger,
		f.gate,
		f.mailer,
		f.relister,
		nil, nil, nil,
		Config{},
		slog.New(slog.DiscardHandler),
	)

	// Quotes and bookings target 2026-05-14; pin now well before it so the
	// same-day filter stays out of the way unless a test moves the clock.
	f.svc.now = func() time.Time {
		return time.Date(2026, 5, 1, 10, 0, 0, 0, domain.PKT)
	}

	return f
}

func (f *fixture) book(t *testing.T, userID, slotID string, guests int) (*BookResult, error) {
	t.Helper()

	intentID := fmt.Sprintf("pi_%s_%s_%d", userID, slotID, guests)
	f.gate.mu.Lock()
	f.gate.statuses[intentID] = "succeeded"
	f.gate.mu.Unlock()

	return f.svc.Book(context.Background(), BookRequest{
		ActivityID:      "act-1",
		UserID:          userID,
		Date:            "2026-05-14",
		SlotID:          slotID,
		Guests:          guests,
		PaymentIntentID: intentID,
	})
}

func TestBook_Succeeds(t *testing.T) {
	f := newFixture(t, testActivity())

	res, err := f.book(t, "user-1", morningSlot, 3)
	require.NoError(t, err)
	require.NotEmpty(t, res.BookingID)
	assert.True(t, res.GuestEmailSent)
	assert.True(t, res.HostEmailSent)

	require.Len(t, f.ledger.recs, 1)
	rec := f.ledger.recs[0]
	assert.Equal(t, int64(450000), rec.AmountMinor) // 1500 x 3 guests x 100
	assert.Equal(t, int64(360000), rec.HostShareMinor)
	assert.Equal(t, int64(90000), rec.PlatformFeeMinor)

	wantEligible := time.Date(2026, 5, 15, 11, 0, 0, 0, domain.PKT)
	assert.True(t, rec.ReviewEligibleAt.Equal(wantEligible),
		"got %s, want %s", rec.ReviewEligibleAt, wantEligible)

	assert.Equal(t, 1, f.relister.calls)
}

func TestBook_ConcurrentOverbookRace(t *testing.T) {
	// Slot cap 5; two racing bookings of 3 guests each. Exactly one may land.
	f := newFixture(t, testActivity())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.book(t, fmt.Sprintf("user-%d", i+1), morningSlot, 3)
		}(i)
	}
	wg.Wait()

	var ok, full int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrSlotFullyBooked):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, full)

	cap, err := f.ledger.ReadDay(context.Background(), "act-1", time.Date(2026, 5, 14, 0, 0, 0, 0, domain.PKT))
	require.NoError(t, err)
	assert.Equal(t, 3, cap.Slots[morningSlot])
	assert.Equal(t, 3, cap.TotalGuestsForDay)
}

func TestBook_DayCapBindsAcrossSlots(t *testing.T) {
	act := testActivity()
	act.MaxGuestsPerTime = 8
	act.MaxGuestsPerDay = 10
	f := newFixture(t, act)

	_, err := f.book(t, "user-1", morningSlot, 6)
	require.NoError(t, err)

	// 5 more would fit the afternoon slot's own cap but bust the day total.
	_, err = f.book(t, "user-2", afternoonSlot, 5)
	require.ErrorIs(t, err, ErrSlotFullyBooked)

	_, err = f.book(t, "user-2", afternoonSlot, 4)
	require.NoError(t, err)
}

func TestBook_RejectsUnpaidIntentBeforeLedger(t *testing.T) {
	f := newFixture(t, testActivity())
	f.gate.statuses["pi_unpaid"] = "requires_payment_method"

	_, err := f.svc.Book(context.Background(), BookRequest{
		ActivityID:      "act-1",
		UserID:          "user-1",
		Date:            "2026-05-14",
		SlotID:          morningSlot,
		Guests:          2,
		PaymentIntentID: "pi_unpaid",
	})

	var pse *PaymentStateError
	require.ErrorAs(t, err, &pse)
	assert.Equal(t, "requires_payment_method", pse.Status)
	assert.Zero(t, f.ledger.commits, "unpaid intent must not reach the ledger")
}

func TestBook_AcceptedStatuses(t *testing.T) {
	for _, status := range []string{"succeeded", "processing", "requires_capture"} {
		t.Run(status, func(t *testing.T) {
			f := newFixture(t, testActivity())
			f.gate.statuses["pi_x"] = status

			_, err := f.svc.Book(context.Background(), BookRequest{
				ActivityID:      "act-1",
				UserID:          "user-1",
				Date:            "2026-05-14",
				SlotID:          morningSlot,
				Guests:          1,
				PaymentIntentID: "pi_x",
			})
			require.NoError(t, err)
		})
	}
}

func TestBook_UnknownSlot(t *testing.T) {
	f := newFixture(t, testActivity())

	_, err := f.book(t, "user-1", "2-00_pm_-_4-00_pm", 1)
	require.ErrorIs(t, err, ErrUnknownSlot)
	assert.Zero(t, f.ledger.commits)
}

func TestBook_DateOutOfRange(t *testing.T) {
	f := newFixture(t, testActivity())
	f.gate.statuses["pi_late"] = "succeeded"

	_, err := f.svc.Book(context.Background(), BookRequest{
		ActivityID:      "act-1",
		UserID:          "user-1",
		Date:            "2026-06-01",
		SlotID:          morningSlot,
		Guests:          1,
		PaymentIntentID: "pi_late",
	})
	require.ErrorIs(t, err, ErrDateOutOfRange)
}

func TestBook_EmailFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t, testActivity())
	f.mailer.failGuest = true

	res, err := f.book(t, "user-1", morningSlot, 2)
	require.NoError(t, err)
	assert.False(t, res.GuestEmailSent)
	assert.True(t, res.HostEmailSent)
}

func TestAvailableSlots_RemainingCounts(t *testing.T) {
	f := newFixture(t, testActivity())

	_, err := f.book(t, "user-1", morningSlot, 3)
	require.NoError(t, err)

	avail, err := f.svc.AvailableSlots(context.Background(), "act-1", "2026-05-14", 0)
	require.NoError(t, err)
	require.Len(t, avail.TimeSlots, 2)

	bySlot := map[string]SlotQuote{}
	for _, q := range avail.TimeSlots {
		bySlot[q.SlotID] = q
	}

	assert.Equal(t, 2, bySlot[morningSlot].Remaining)
	assert.Equal(t, 3, bySlot[morningSlot].Booked)
	assert.Equal(t, 5, bySlot[afternoonSlot].Remaining)
	assert.Equal(t, 3, avail.TotalGuestsForDay)
	assert.Equal(t, 7, avail.RemainingDay)
	assert.False(t, avail.DayFullyBooked)
}

func TestAvailableSlots_GuestFilter(t *testing.T) {
	f := newFixture(t, testActivity())

	_, err := f.book(t, "user-1", morningSlot, 3)
	require.NoError(t, err)

	// Asking for 4 guests leaves only the untouched afternoon slot.
	avail, err := f.svc.AvailableSlots(context.Background(), "act-1", "2026-05-14", 4)
	require.NoError(t, err)
	require.Len(t, avail.TimeSlots, 1)
	assert.Equal(t, afternoonSlot, avail.TimeSlots[0].SlotID)
}

func TestAvailableSlots_GuestFilterNeverMarksDayFull(t *testing.T) {
	f := newFixture(t, testActivity())

	_, err := f.book(t, "user-1", morningSlot, 3)
	require.NoError(t, err)
	_, err = f.book(t, "user-2", afternoonSlot, 3)
	require.NoError(t, err)

	// Neither slot can seat a party of 4, yet the day still has room.
	avail, err := f.svc.AvailableSlots(context.Background(), "act-1", "2026-05-14", 4)
	require.NoError(t, err)
	require.NotNil(t, avail.TimeSlots)
	assert.Empty(t, avail.TimeSlots)
	assert.False(t, avail.DayFullyBooked)
	assert.Empty(t, avail.Reason)
	assert.Equal(t, 6, avail.TotalGuestsForDay)
	assert.Equal(t, 4, avail.RemainingDay)
}

func TestAvailableSlots_SlotAtCapStillListed(t *testing.T) {
	f := newFixture(t, testActivity())

	_, err := f.book(t, "user-1", morningSlot, 5)
	require.NoError(t, err)

	avail, err := f.svc.AvailableSlots(context.Background(), "act-1", "2026-05-14", 0)
	require.NoError(t, err)
	require.Len(t, avail.TimeSlots, 2)

	bySlot := map[string]SlotQuote{}
	for _, q := range avail.TimeSlots {
		bySlot[q.SlotID] = q
	}

	assert.Equal(t, 0, bySlot[morningSlot].Remaining)
	assert.Equal(t, 5, bySlot[morningSlot].Booked)
	assert.Equal(t, 5, bySlot[afternoonSlot].Remaining)
	assert.False(t, avail.DayFullyBooked)
}

func TestAvailableSlots_FullyBookedReason(t *testing.T) {
	f := newFixture(t, testActivity())

	_, err := f.book(t, "user-1", morningSlot, 5)
	require.NoError(t, err)
	_, err = f.book(t, "user-2", afternoonSlot, 5)
	require.NoError(t, err)

	avail, err := f.svc.AvailableSlots(context.Background(), "act-1", "2026-05-14", 0)
	require.NoError(t, err)
	assert.Empty(t, avail.TimeSlots)
	assert.True(t, avail.DayFullyBooked)
	assert.Equal(t, "fully_booked", avail.Reason)
	assert.Zero(t, avail.RemainingDay)
}

func TestAvailableSlots_SameDayBufferExcludesStartedSlots(t *testing.T) {
	f := newFixture(t, testActivity())

	// 11:50 local with a 30-minute buffer: the 11:00 slot has started and
	// the 9:00 one is long gone.
	f.svc.now = func() time.Time {
		return time.Date(2026, 5, 14, 11, 50, 0, 0, domain.PKT)
	}

	avail, err := f.svc.AvailableSlots(context.Background(), "act-1", "2026-05-14", 0)
	require.NoError(t, err)
	assert.Empty(t, avail.TimeSlots)
	assert.True(t, avail.DayFullyBooked)
	assert.Equal(t, "past_time", avail.Reason)
}

func TestAvailableSlots_BufferKeepsNotYetStartedSlot(t *testing.T) {
	f := newFixture(t, testActivity())

	f.svc.now = func() time.Time {
		return time.Date(2026, 5, 14, 10, 29, 0, 0, domain.PKT)
	}

	avail, err := f.svc.AvailableSlots(context.Background(), "act-1", "2026-05-14", 0)
	require.NoError(t, err)
	require.Len(t, avail.TimeSlots, 1)
	assert.Equal(t, afternoonSlot, avail.TimeSlots[0].SlotID)
}

func TestAvailableSlots_UnknownActivity(t *testing.T) {
	f := newFixture(t, testActivity())

	_, err := f.svc.AvailableSlots(context.Background(), "nope", "2026-05-14", 0)
	require.ErrorIs(t, err, ErrActivityNotFound)
}

func TestCreatePaymentIntent_AmountAndCurrency(t *testing.T) {
	f := newFixture(t, testActivity())

	intent, err := f.svc.CreatePaymentIntent(context.Background(), "act-1", "user-1", "2026-05-14", morningSlot, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(450000), intent.AmountMinor)
	assert.Equal(t, "pkr", intent.Currency)
}

func TestCreatePaymentIntent_UnknownSlot(t *testing.T) {
	f := newFixture(t, testActivity())

	_, err := f.svc.CreatePaymentIntent(context.Background(), "act-1", "user-1", "2026-05-14", "bogus", 2)
	require.ErrorIs(t, err, ErrUnknownSlot)
	assert.Empty(t, f.gate.created)
}
