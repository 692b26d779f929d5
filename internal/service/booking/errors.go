package booking

import (
	"errors"
	"fmt"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrDateOutOfRange   = errors.New("date outside the activity's calendar")
	ErrUnknownSlot      = errors.New("slot does not match the activity's schedule")
	ErrSlotFullyBooked  = errors.New("slot fully booked")
	ErrRateLimited      = errors.New("too many payment attempts")
)

// PaymentStateError reports an intent whose status does not permit a
// commit. Carried as a typed error so the transport can echo the status.
type PaymentStateError struct {
	Status string
}

func (e *PaymentStateError) Error() string {
	return fmt.Sprintf("payment not completed, current status: %s", e.Status)
}
