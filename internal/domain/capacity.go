package domain

import "errors"

var (
	ErrSlotCapacity = errors.New("slot guest cap exceeded")
	ErrDayCapacity  = errors.New("day guest cap exceeded")
)

// CheckCapacity applies both guest ceilings against committed counters.
// The caps are independent: the day ceiling can close out a date even when
// the slot itself has room. Must only be evaluated against state read
// inside the same transaction that commits the increment.
func CheckCapacity(a *Activity, slotBooked, dayTotal, requested int) error {
	if slotBooked+requested > a.MaxGuestsPerTime {
		return ErrSlotCapacity
	}

	if dayTotal+requested > a.MaxGuestsPerDay {
		return ErrDayCapacity
	}

	return nil
}

// BookingAmountMinor converts a per-guest price in whole rupees to the
// total charge in paisa.
func BookingAmountMinor(pricePerGuest int64, guests int) int64 {
	return pricePerGuest * int64(guests) * 100
}

// EarningsSplit divides a charge into the host's 80% share and the
// platform fee. The fee takes the rounding remainder.
func EarningsSplit(amountMinor int64) (hostShare, platformFee int64) {
	hostShare = amountMinor * 80 / 100
	platformFee = amountMinor - hostShare
	return hostShare, platformFee
}
