// Package earnings summarizes a host's booking revenue from the payment
// side ledger.
package earnings

import (
	"context"
	"fmt"

	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/domain"
	postgresrepo "github.com/AlinaTheCoder/TouristGuide-Backend/internal/repository/postgres"
)

type Service struct {
	store *postgresrepo.Store
}

func New(store *postgresrepo.Store) *Service {
	return &Service{store: store}
}

// HostEarnings aggregates a host's gross, share, and platform fee, plus
// their most recent payment records.
func (s *Service) HostEarnings(ctx context.Context, hostID string) (*domain.HostEarnings, error) {
	const op = "service.earnings.HostEarnings"

	sum, err := s.store.Payments().SummarizeHost(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return sum, nil
}
