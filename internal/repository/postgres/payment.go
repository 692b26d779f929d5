package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/domain"
)

type PaymentRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *PaymentRepo) With(db DB) *PaymentRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *PaymentRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// SummarizeHost aggregates a host's payment records into earnings totals.
func (r *PaymentRepo) SummarizeHost(ctx context.Context, hostID string) (*domain.HostEarnings, error) {
	const op = "postgres.PaymentRepo.SummarizeHost"

	db := r.handle()

	e := &domain.HostEarnings{}
	if err := db.QueryRow(ctx,
		`SELECT count(*),
            coalesce(sum(amount_minor), 0),
            coalesce(sum(host_share_minor), 0),
            coalesce(sum(platform_fee_minor), 0)
       	 FROM payment_records
      	 WHERE host_id = $1`,
		hostID,
	).Scan(&e.Bookings, &e.GrossMinor, &e.HostShareMinor, &e.PlatformFeeMinor); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	rows, err := db.Query(ctx,
		`SELECT payment_intent_id, booking_id, activity_id, host_id, user_id,
            amount_minor, host_share_minor, platform_fee_minor, created_at
       	 FROM payment_records
      	 WHERE host_id = $1
      	 ORDER BY created_at DESC
      	 LIMIT 50`,
		hostID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	for rows.Next() {
		var p domain.PaymentRecord
		if err := rows.Scan(
			&p.PaymentIntentID, &p.BookingID, &p.ActivityID, &p.HostID, &p.UserID,
			&p.AmountMinor, &p.HostShareMinor, &p.PlatformFeeMinor, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		e.Payments = append(e.Payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return e, nil
}
