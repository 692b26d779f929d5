package listing

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/domain"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/repository"
)

type fakeStore struct {
	act        *domain.Activity
	fullDays   int
	unlisted   int
	coverageIn struct {
		from, to time.Time
		dayCap   int
	}
}

func (f *fakeStore) GetActivity(_ context.Context, id string) (*domain.Activity, error) {
	if f.act == nil || f.act.ID != id {
		return nil, repository.ErrNotFound
	}
	cp := *f.act
	return &cp, nil
}

func (f *fakeStore) UnlistIfListed(_ context.Context, id string) (bool, error) {
	if f.act == nil || f.act.ID != id {
		return false, nil
	}
	if f.act.ListingStatus != domain.ListingList {
		return false, nil
	}
	f.act.ListingStatus = domain.ListingUnList
	f.unlisted++
	return true, nil
}

func (f *fakeStore) FullyBookedDayCount(_ context.Context, _ string, from, to time.Time, dayCap int) (int, error) {
	f.coverageIn.from = from
	f.coverageIn.to = to
	f.coverageIn.dayCap = dayCap
	return f.fullDays, nil
}

func threeDayActivity() *domain.Activity {
	return &domain.Activity{
		ID:              "act-1",
		StartDate:       time.Date(2026, 5, 10, 0, 0, 0, 0, domain.PKT),
		EndDate:         time.Date(2026, 5, 12, 0, 0, 0, 0, domain.PKT),
		MaxGuestsPerDay: 10,
		ListingStatus:   domain.ListingList,
		Status:          domain.ModerationAccepted,
	}
}

func newService(store *fakeStore) *Service {
	return New(store, store, nil, slog.New(slog.DiscardHandler))
}

func TestReevaluate_UnlistsWhenAllDaysFull(t *testing.T) {
	store := &fakeStore{act: threeDayActivity(), fullDays: 3}
	svc := newService(store)

	require.NoError(t, svc.Reevaluate(context.Background(), "act-1"))
	assert.Equal(t, domain.ListingUnList, store.act.ListingStatus)
	assert.Equal(t, 10, store.coverageIn.dayCap)
}

func TestReevaluate_OneOpenDayKeepsListed(t *testing.T) {
	store := &fakeStore{act: threeDayActivity(), fullDays: 2}
	svc := newService(store)

	require.NoError(t, svc.Reevaluate(context.Background(), "act-1"))
	assert.Equal(t, domain.ListingList, store.act.ListingStatus)
	assert.Zero(t, store.unlisted)
}

func TestReevaluate_Idempotent(t *testing.T) {
	store := &fakeStore{act: threeDayActivity(), fullDays: 3}
	svc := newService(store)

	require.NoError(t, svc.Reevaluate(context.Background(), "act-1"))
	require.NoError(t, svc.Reevaluate(context.Background(), "act-1"))
	assert.Equal(t, 1, store.unlisted)
}

func TestReevaluate_SkipsDeactivated(t *testing.T) {
	act := threeDayActivity()
	act.ListingStatus = domain.ListingDeactivate
	store := &fakeStore{act: act, fullDays: 3}
	svc := newService(store)

	require.NoError(t, svc.Reevaluate(context.Background(), "act-1"))
	assert.Equal(t, domain.ListingDeactivate, store.act.ListingStatus)
}

func TestReevaluate_UnknownActivity(t *testing.T) {
	svc := newService(&fakeStore{})

	err := svc.Reevaluate(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
