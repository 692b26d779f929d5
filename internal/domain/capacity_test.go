package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCapacity_SlotCap(t *testing.T) {
	a := &Activity{MaxGuestsPerTime: 5, MaxGuestsPerDay: 100}

	require.NoError(t, CheckCapacity(a, 2, 2, 3))
	assert.ErrorIs(t, CheckCapacity(a, 3, 3, 3), ErrSlotCapacity)
	assert.ErrorIs(t, CheckCapacity(a, 5, 5, 1), ErrSlotCapacity)
}

func TestCheckCapacity_DayCapIndependent(t *testing.T) {
	// Two slots capped at 8, day capped at 10: after 6 guests in slot A,
	// 5 more in slot B must be rejected even though B alone has room.
	a := &Activity{MaxGuestsPerTime: 8, MaxGuestsPerDay: 10}

	require.NoError(t, CheckCapacity(a, 0, 0, 6))
	assert.ErrorIs(t, CheckCapacity(a, 0, 6, 5), ErrDayCapacity)
	require.NoError(t, CheckCapacity(a, 0, 6, 4))
}

func TestBookingAmountMinor(t *testing.T) {
	assert.Equal(t, int64(150000), BookingAmountMinor(500, 3))
}

func TestEarningsSplit(t *testing.T) {
	host, fee := EarningsSplit(150000)
	assert.Equal(t, int64(120000), host)
	assert.Equal(t, int64(30000), fee)

	// Fee takes the rounding remainder; the two always sum to the amount.
	host, fee = EarningsSplit(101)
	assert.Equal(t, int64(101), host+fee)
	assert.Equal(t, int64(80), host)
}
