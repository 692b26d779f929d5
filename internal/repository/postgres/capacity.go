package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/domain"
)

// maxCommitAttempts bounds the optimistic-concurrency retry loop. A
// serialization loss is retried transparently; a cap rejection is terminal.
const maxCommitAttempts = 10

type CapacityRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CapacityRepo) With(db DB) *CapacityRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CapacityRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// ReadDay returns the committed counters for one activity-day. A day with
// no bookings yet reads as all zeroes.
func (r *CapacityRepo) ReadDay(ctx context.Context, activityID string, day time.Time) (*domain.DayCapacity, error) {
	const op = "postgres.CapacityRepo.ReadDay"

	db := r.handle()

	cap := &domain.DayCapacity{Slots: map[string]int{}}

	err := db.QueryRow(ctx,
		`SELECT total_guests_for_day
       	 FROM capacity_days
      	 WHERE activity_id = $1 AND day = $2`,
		activityID, day,
	).Scan(&cap.TotalGuestsForDay)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	rows, err := db.Query(ctx,
		`SELECT slot_id, total_guests_booked
       	 FROM capacity_slots
      	 WHERE activity_id = $1 AND day = $2`,
		activityID, day,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	for rows.Next() {
		var slotID string
		var booked int
		if err := rows.Scan(&slotID, &booked); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		cap.Slots[slotID] = booked
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return cap, nil
}

// CommitReservation atomically admits rec against the activity's caps: it
// reads the committed counters, applies both ceilings, and on acceptance
// increments slot and day counters, inserts the booking record, and writes
// the payment side ledger (idempotent on intent id) in one serializable
// transaction. Lost serialization races are retried; a cap rejection is
// returned as domain.ErrSlotCapacity / domain.ErrDayCapacity and never
// retried.
func (r *CapacityRepo) CommitReservation(
	ctx context.Context,
	act *domain.Activity,
	day time.Time,
	slotID string,
	guests int,
	rec *domain.BookingRecord,
) error {
	const op = "postgres.CapacityRepo.CommitReservation"

	if r.db != nil {
		if err := r.commitCore(ctx, r.db, act, day, slotID, guests, rec); err != nil {
			return fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		return nil
	}

	var lastErr error
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		err := r.commitOnce(ctx, act, day, slotID, guests, rec)
		if err == nil {
			return nil
		}

		if IsRetryable(err) {
			lastErr = err
			continue
		}

		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return fmt.Errorf("%s: commit contention not resolved: %w", op, translateDBErr(lastErr))
}

func (r *CapacityRepo) commitOnce(
	ctx context.Context,
	act *domain.Activity,
	day time.Time,
	slotID string,
	guests int,
	rec *domain.BookingRecord,
) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}

	defer tx.Rollback(ctx)

	if err := r.commitCore(ctx, tx, act, day, slotID, guests, rec); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *CapacityRepo) commitCore(
	ctx context.Context,
	db DB,
	act *domain.Activity,
	day time.Time,
	slotID string,
	guests int,
	rec *domain.BookingRecord,
) error {
	if _, err := db.Exec(ctx,
		`INSERT INTO capacity_days(activity_id, day, total_guests_for_day)
       	 VALUES ($1, $2, 0)
         ON CONFLICT (activity_id, day) DO NOTHING`,
		act.ID, day,
	); err != nil {
		return err
	}

	if _, err := db.Exec(ctx,
		`INSERT INTO capacity_slots(activity_id, day, slot_id, total_guests_booked)
       	 VALUES ($1, $2, $3, 0)
         ON CONFLICT (activity_id, day, slot_id) DO NOTHING`,
		act.ID, day, slotID,
	); err != nil {
		return err
	}

	var dayTotal, slotBooked int
	if err := db.QueryRow(ctx,
		`SELECT d.total_guests_for_day, s.total_guests_booked
       	 FROM capacity_days d
       	 JOIN capacity_slots s
           ON s.activity_id = d.activity_id AND s.day = d.day
      	 WHERE d.activity_id = $1 AND d.day = $2 AND s.slot_id = $3`,
		act.ID, day, slotID,
	).Scan(&dayTotal, &slotBooked); err != nil {
		return err
	}

	if err := domain.CheckCapacity(act, slotBooked, dayTotal, guests); err != nil {
		return err
	}

	if _, err := db.Exec(ctx,
		`UPDATE capacity_slots
         SET total_guests_booked = total_guests_booked + $4
      	 WHERE activity_id = $1 AND day = $2 AND slot_id = $3`,
		act.ID, day, slotID, guests,
	); err != nil {
		return err
	}

	if _, err := db.Exec(ctx,
		`UPDATE capacity_days
         SET total_guests_for_day = total_guests_for_day + $3
      	 WHERE activity_id = $1 AND day = $2`,
		act.ID, day, guests,
	); err != nil {
		return err
	}

	if _, err := db.Exec(ctx,
		`INSERT INTO booking_records(
            id, activity_id, host_id, user_id, day, slot_id,
            requested_guests, payment_intent_id, amount_minor,
            host_share_minor, platform_fee_minor, review_eligible_at,
            has_feedback, reminder_sent, created_at)
       	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, false, false, $13)`,
		rec.ID, rec.ActivityID, rec.HostID, rec.UserID, day, slotID,
		guests, rec.PaymentIntentID, rec.AmountMinor,
		rec.HostShareMinor, rec.PlatformFeeMinor, rec.ReviewEligibleAt,
		rec.CreatedAt,
	); err != nil {
		return err
	}

	// Side ledger keyed by intent id. A replayed commit with the same
	// intent finds the row already present and skips it.
	if _, err := db.Exec(ctx,
		`INSERT INTO payment_records(
            payment_intent_id, booking_id, activity_id, host_id, user_id,
            amount_minor, host_share_minor, platform_fee_minor, created_at)
       	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
         ON CONFLICT (payment_intent_id) DO NOTHING`,
		rec.PaymentIntentID, rec.ID, rec.ActivityID, rec.HostID, rec.UserID,
		rec.AmountMinor, rec.HostShareMinor, rec.PlatformFeeMinor, rec.CreatedAt,
	); err != nil {
		return err
	}

	return nil
}

// FullyBookedDayCount counts days in [from, to] whose committed aggregate
// has reached dayCap. Days with no capacity row never count.
func (r *CapacityRepo) FullyBookedDayCount(
	ctx context.Context,
	activityID string,
	from, to time.Time,
	dayCap int,
) (int, error) {
	const op = "postgres.CapacityRepo.FullyBookedDayCount"

	db := r.handle()

	var n int
	err := db.QueryRow(ctx,
		`SELECT count(*)
       	 FROM capacity_days
      	 WHERE activity_id = $1
        	AND day BETWEEN $2 AND $3
        	AND total_guests_for_day >= $4`,
		activityID, from, to, dayCap,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return n, nil
}
