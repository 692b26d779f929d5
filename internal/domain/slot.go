package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// PKT is the deployment region's clock. Kept as a fixed offset on purpose:
// the region observes no DST and the stored review timestamps must not
// move if the tz database changes.
var PKT = time.FixedZone("PKT", 5*60*60)

// Slot is a derived half-open interval within an activity's operating
// window. It is never stored; ID is the only key used to address it.
type Slot struct {
	ID       string
	Display  string
	startMin int
	endMin   int
}

// StartOn anchors the slot's start to a calendar date in region time.
func (s Slot) StartOn(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), s.startMin/60, s.startMin%60, 0, 0, PKT)
}

// EndOn anchors the slot's end to a calendar date in region time.
func (s Slot) EndOn(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), s.endMin/60, s.endMin%60, 0, 0, PKT)
}

var (
	reWhitespace  = regexp.MustCompile(`\s+`)
	reUnderscores = regexp.MustCompile(`__+`)
)

// EncodeSlotID turns a display label into its storage key: strip periods,
// whitespace runs to single underscores, colons to hyphens, collapse
// repeated underscores. Quote and commit must produce identical keys, so
// this is the only place the encoding lives.
func EncodeSlotID(label string) string {
	k := strings.ReplaceAll(label, ".", "")
	k = reWhitespace.ReplaceAllString(k, "_")
	k = strings.ReplaceAll(k, ":", "-")
	return reUnderscores.ReplaceAllString(k, "_")
}

func clockLabel(min int) string {
	h := min / 60 % 24
	m := min % 60

	suffix := "a.m."
	if h >= 12 {
		suffix = "p.m."
	}

	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}

	return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}

// ParseClock extracts minutes-since-midnight from a stored time-of-day
// value. Hosts created through older clients stored full timestamps, newer
// ones store bare clock strings; both shapes survive in the database.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)

	for _, layout := range []string{"15:04", "15:04:05", "3:04 PM"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Hour()*60 + t.Minute(), nil
	}

	return 0, fmt.Errorf("unrecognized time of day %q", s)
}

// DeriveSlots carves the activity's operating window into consecutive
// intervals of DurationHours. A trailing partial interval is dropped. Pure
// function of the activity's configuration.
func DeriveSlots(a *Activity) ([]Slot, error) {
	start, err := ParseClock(a.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	end, err := ParseClock(a.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}

	if a.DurationHours <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d", a.DurationHours)
	}

	step := a.DurationHours * 60

	var slots []Slot
	for cur := start; cur < end; {
		slotEnd := cur + step
		if slotEnd > end {
			break
		}

		label := clockLabel(cur) + " - " + clockLabel(slotEnd)
		slots = append(slots, Slot{
			ID:       EncodeSlotID(label),
			Display:  label,
			startMin: cur,
			endMin:   slotEnd,
		})

		cur = slotEnd
	}

	return slots, nil
}

// SameDay reports whether date (a civil date) is now's calendar day in
// region time.
func SameDay(date, now time.Time) bool {
	n := now.In(PKT)
	return date.Year() == n.Year() && date.Month() == n.Month() && date.Day() == n.Day()
}

// FilterUpcoming drops slots whose start on date falls before now+buffer.
// Only applies when date is today; other dates pass through untouched.
func FilterUpcoming(slots []Slot, date, now time.Time, buffer time.Duration) []Slot {
	if !SameDay(date, now) {
		return slots
	}

	cutoff := now.Add(buffer)

	kept := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if !s.StartOn(date).Before(cutoff) {
			kept = append(kept, s)
		}
	}

	return kept
}

// SlotByID recovers a slot from its storage key by regenerating the
// activity's slots and matching ids. Linear, but the per-day slot count is
// single digits.
func SlotByID(a *Activity, slotID string) (Slot, bool) {
	slots, err := DeriveSlots(a)
	if err != nil {
		return Slot{}, false
	}

	for _, s := range slots {
		if s.ID == slotID {
			return s, true
		}
	}

	return Slot{}, false
}

// SlotDisplayLabel recomputes the label for a stored slot id, or "" when
// the id no longer matches the activity's configuration.
func SlotDisplayLabel(a *Activity, slotID string) string {
	if s, ok := SlotByID(a, slotID); ok {
		return s.Display
	}
	return ""
}

// ReviewEligibleAt is the instant a booking becomes eligible for feedback:
// the slot's end on the booked date, plus 24 hours.
func ReviewEligibleAt(a *Activity, date time.Time, slotID string) (time.Time, error) {
	s, ok := SlotByID(a, slotID)
	if !ok {
		return time.Time{}, fmt.Errorf("slot %q does not match activity %s", slotID, a.ID)
	}

	return s.EndOn(date).Add(24 * time.Hour), nil
}

// DaySpan counts calendar days in [from, to] inclusive.
func DaySpan(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}
