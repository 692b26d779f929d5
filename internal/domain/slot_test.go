package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testActivity() *Activity {
	return &Activity{
		ID:               "act-1",
		StartTime:        "09:00",
		EndTime:          "13:00",
		DurationHours:    2,
		MaxGuestsPerTime: 5,
		MaxGuestsPerDay:  10,
	}
}

func TestDeriveSlots_TwoHourWindow(t *testing.T) {
	slots, err := DeriveSlots(testActivity())
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, "9:00 a.m. - 11:00 a.m.", slots[0].Display)
	assert.Equal(t, "9-00_am_-_11-00_am", slots[0].ID)
	assert.Equal(t, "11:00 a.m. - 1:00 p.m.", slots[1].Display)
	assert.Equal(t, "11-00_am_-_1-00_pm", slots[1].ID)
}

func TestDeriveSlots_DropsTrailingPartial(t *testing.T) {
	a := testActivity()
	a.EndTime = "14:00" // 09-14 with 2h slots: 9-11, 11-13, 13-15 overflows

	slots, err := DeriveSlots(a)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "11-00_am_-_1-00_pm", slots[1].ID)
}

func TestDeriveSlots_Deterministic(t *testing.T) {
	a := testActivity()

	first, err := DeriveSlots(a)
	require.NoError(t, err)
	second, err := DeriveSlots(a)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Display, second[i].Display)
	}
}

func TestDeriveSlots_RFC3339StoredTimes(t *testing.T) {
	a := testActivity()
	a.StartTime = "2024-01-01T06:00:00+05:00"
	a.EndTime = "2024-01-01T10:00:00+05:00"

	slots, err := DeriveSlots(a)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "6:00 a.m. - 8:00 a.m.", slots[0].Display)
}

func TestDeriveSlots_InvalidConfig(t *testing.T) {
	a := testActivity()
	a.DurationHours = 0
	_, err := DeriveSlots(a)
	require.Error(t, err)

	b := testActivity()
	b.StartTime = "not a time"
	_, err = DeriveSlots(b)
	require.Error(t, err)
}

func TestSlotByID_RoundTrip(t *testing.T) {
	a := testActivity()
	a.StartTime = "06:00"
	a.EndTime = "22:00"
	a.DurationHours = 2

	slots, err := DeriveSlots(a)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for _, s := range slots {
		got, ok := SlotByID(a, s.ID)
		require.True(t, ok, "slot %s must round-trip", s.ID)
		assert.Equal(t, s.Display, got.Display)
		assert.Equal(t, s.EndOn(time.Now()), got.EndOn(time.Now()))
	}

	_, ok := SlotByID(a, "9-00_am_-_11-00_am_bogus")
	assert.False(t, ok)
}

func TestEncodeSlotID(t *testing.T) {
	assert.Equal(t, "9-00_am_-_11-00_am", EncodeSlotID("9:00 a.m. - 11:00 a.m."))
	assert.Equal(t, "12-00_pm_-_2-00_pm", EncodeSlotID("12:00 p.m. - 2:00 p.m."))
}

func TestFilterUpcoming_SameDayBuffer(t *testing.T) {
	a := &Activity{StartTime: "11:00", EndTime: "12:00", DurationHours: 1}
	slots, err := DeriveSlots(a)
	require.NoError(t, err)
	require.Len(t, slots, 1)

	date := time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC)

	// 11:50 local: the 11:00 slot starts before 12:20 and is dropped.
	now := time.Date(2026, 5, 14, 11, 50, 0, 0, PKT)
	assert.Empty(t, FilterUpcoming(slots, date, now, 30*time.Minute))

	// 10:29 local: cutoff is 10:59, the 11:00 slot survives.
	earlier := time.Date(2026, 5, 14, 10, 29, 0, 0, PKT)
	assert.Len(t, FilterUpcoming(slots, date, earlier, 30*time.Minute), 1)

	// A future date is never filtered.
	tomorrow := date.AddDate(0, 0, 1)
	assert.Len(t, FilterUpcoming(slots, tomorrow, now, 30*time.Minute), 1)
}

func TestReviewEligibleAt(t *testing.T) {
	a := testActivity()
	date := time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC)

	at, err := ReviewEligibleAt(a, date, "11-00_am_-_1-00_pm")
	require.NoError(t, err)

	want := time.Date(2026, 5, 15, 13, 0, 0, 0, PKT)
	assert.True(t, at.Equal(want), "got %s want %s", at, want)

	_, err = ReviewEligibleAt(a, date, "no_such_slot")
	require.Error(t, err)
}

func TestDaySpan(t *testing.T) {
	d := func(s string) time.Time {
		t2, err := time.Parse(DateLayout, s)
		require.NoError(t, err)
		return t2
	}

	assert.Equal(t, 1, DaySpan(d("2026-05-14"), d("2026-05-14")))
	assert.Equal(t, 3, DaySpan(d("2026-05-14"), d("2026-05-16")))
	assert.Equal(t, 0, DaySpan(d("2026-05-14"), d("2026-05-13")))
}
