package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/domain"
)

type UserRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *UserRepo) With(db DB) *UserRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *UserRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// GetUser returns one user.
//
// Returns:
//   - error: repository.ErrNotFound if the user does not exist.
func (r *UserRepo) GetUser(ctx context.Context, id string) (*domain.User, error) {
	const op = "postgres.UserRepo.GetUser"

	var u domain.User
	err := r.handle().QueryRow(ctx,
		`SELECT id, name, email FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &u, nil
}
