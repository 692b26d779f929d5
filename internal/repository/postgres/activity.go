package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/domain"
)

type ActivityRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ActivityRepo) With(db DB) *ActivityRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ActivityRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const activityColumns = `id, host_id, host_name, title, address, city,
	start_time, end_time, duration_hours, start_date, end_date,
	max_guests_per_time, max_guests_per_day, price_per_guest,
	listing_status, status, created_at`

func scanActivity(row pgx.Row) (*domain.Activity, error) {
	var a domain.Activity
	err := row.Scan(
		&a.ID, &a.HostID, &a.HostName, &a.Title, &a.Address, &a.City,
		&a.StartTime, &a.EndTime, &a.DurationHours, &a.StartDate, &a.EndDate,
		&a.MaxGuestsPerTime, &a.MaxGuestsPerDay, &a.PricePerGuest,
		&a.ListingStatus, &a.Status, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetActivity returns one activity.
//
// Returns:
//   - error: repository.ErrNotFound if the activity does not exist.
func (r *ActivityRepo) GetActivity(ctx context.Context, id string) (*domain.Activity, error) {
	const op = "postgres.ActivityRepo.GetActivity"

	a, err := scanActivity(r.handle().QueryRow(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return a, nil
}

// ListByHost returns a host's activities filtered by moderation and
// listing state.
func (r *ActivityRepo) ListByHost(
	ctx context.Context,
	hostID string,
	status domain.ModerationStatus,
	listing domain.ListingStatus,
) ([]domain.Activity, error) {
	const op = "postgres.ActivityRepo.ListByHost"

	rows, err := r.handle().Query(ctx,
		`SELECT `+activityColumns+`
       	 FROM activities
      	 WHERE host_id = $1 AND status = $2 AND listing_status = $3
      	 ORDER BY created_at DESC`,
		hostID, status, listing,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return out, nil
}

// ListListed returns every activity currently visible to travelers. Used
// by the maintenance sweep; activity counts are moderate.
func (r *ActivityRepo) ListListed(ctx context.Context) ([]domain.Activity, error) {
	const op = "postgres.ActivityRepo.ListListed"

	rows, err := r.handle().Query(ctx,
		`SELECT `+activityColumns+`
       	 FROM activities
      	 WHERE listing_status = $1`,
		domain.ListingList,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return out, nil
}

// UnlistIfListed flips listing_status List -> UnList. Reports whether the
// row actually changed; already-unlisted activities are a no-op, which
// keeps the transition idempotent under re-runs.
func (r *ActivityRepo) UnlistIfListed(ctx context.Context, id string) (bool, error) {
	const op = "postgres.ActivityRepo.UnlistIfListed"

	tag, err := r.handle().Exec(ctx,
		`UPDATE activities
         SET listing_status = $2
      	 WHERE id = $1 AND listing_status = $3`,
		id, domain.ListingUnList, domain.ListingList,
	)
	if err != nil {
		return false, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return tag.RowsAffected() > 0, nil
}

// UpdateSchedule applies a partial schedule edit. Nil fields are left
// untouched, mirroring how host clients send only what changed.
func (r *ActivityRepo) UpdateSchedule(ctx context.Context, id string, upd domain.ActivityUpdate) error {
	const op = "postgres.ActivityRepo.UpdateSchedule"

	set := make([]string, 0, 11)
	args := []any{id}

	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.StartDate != nil {
		add("start_date", *upd.StartDate)
	}
	if upd.EndDate != nil {
		add("end_date", *upd.EndDate)
	}
	if upd.StartTime != nil {
		add("start_time", *upd.StartTime)
	}
	if upd.EndTime != nil {
		add("end_time", *upd.EndTime)
	}
	if upd.DurationHours != nil {
		add("duration_hours", *upd.DurationHours)
	}
	if upd.MaxGuestsPerTime != nil {
		add("max_guests_per_time", *upd.MaxGuestsPerTime)
	}
	if upd.MaxGuestsPerDay != nil {
		add("max_guests_per_day", *upd.MaxGuestsPerDay)
	}
	if upd.PricePerGuest != nil {
		add("price_per_guest", *upd.PricePerGuest)
	}
	if upd.ListingStatus != nil {
		add("listing_status", *upd.ListingStatus)
	}
	if upd.Address != nil {
		add("address", *upd.Address)
	}
	if upd.City != nil {
		add("city", *upd.City)
	}

	if len(set) == 0 {
		return fmt.Errorf("%s: no fields to update", op)
	}

	sql := "UPDATE activities SET " + strings.Join(set, ", ") + " WHERE id = $1"

	tag, err := r.handle().Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, translateDBErr(pgx.ErrNoRows))
	}

	return nil
}
