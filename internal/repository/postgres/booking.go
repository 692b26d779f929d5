package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/domain"
)

type BookingRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *BookingRepo) With(db DB) *BookingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BookingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const bookingColumns = `id, activity_id, host_id, user_id, day, slot_id,
	requested_guests, payment_intent_id, amount_minor, host_share_minor,
	platform_fee_minor, review_eligible_at, has_feedback, reminder_sent,
	created_at`

func scanBooking(row pgx.Row) (*domain.BookingRecord, error) {
	var b domain.BookingRecord
	err := row.Scan(
		&b.ID, &b.ActivityID, &b.HostID, &b.UserID, &b.Date, &b.SlotID,
		&b.RequestedGuests, &b.PaymentIntentID, &b.AmountMinor,
		&b.HostShareMinor, &b.PlatformFeeMinor, &b.ReviewEligibleAt,
		&b.HasFeedback, &b.ReminderSent, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByUser returns a traveler's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]domain.BookingRecord, error) {
	const op = "postgres.BookingRepo.ListByUser"

	rows, err := r.handle().Query(ctx,
		`SELECT `+bookingColumns+`
       	 FROM booking_records
      	 WHERE user_id = $1
      	 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.BookingRecord
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return out, nil
}

// ListReviewEligible returns bookings whose feedback window has opened and
// that have neither feedback nor a reminder yet.
func (r *BookingRepo) ListReviewEligible(ctx context.Context, now time.Time, limit int) ([]domain.BookingRecord, error) {
	const op = "postgres.BookingRepo.ListReviewEligible"

	rows, err := r.handle().Query(ctx,
		`SELECT `+bookingColumns+`
       	 FROM booking_records
      	 WHERE review_eligible_at <= $1
        	AND NOT has_feedback
        	AND NOT reminder_sent
      	 ORDER BY review_eligible_at
      	 LIMIT $2`,
		now, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.BookingRecord
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return out, nil
}

// MarkReminderSent flips the reminder flag so a booking is reminded at
// most once.
func (r *BookingRepo) MarkReminderSent(ctx context.Context, bookingID string) error {
	const op = "postgres.BookingRepo.MarkReminderSent"

	tag, err := r.handle().Exec(ctx,
		`UPDATE booking_records SET reminder_sent = true WHERE id = $1`,
		bookingID,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, translateDBErr(pgx.ErrNoRows))
	}

	return nil
}

// MarkFeedback records that the traveler submitted feedback.
func (r *BookingRepo) MarkFeedback(ctx context.Context, bookingID string) error {
	const op = "postgres.BookingRepo.MarkFeedback"

	tag, err := r.handle().Exec(ctx,
		`UPDATE booking_records SET has_feedback = true WHERE id = $1`,
		bookingID,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, translateDBErr(pgx.ErrNoRows))
	}

	return nil
}
