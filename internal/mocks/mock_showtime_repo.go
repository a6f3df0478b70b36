package mocks

import (
	"context"

	"github.com/MarlonMora23/API-Calinema/internal/domain"
)

type MockShowtimeRepo struct {
	domain.ShowtimeRepository
	CreateBatchFunc func(ctx context.Context, showtimes []domain.Showtime) error
	GetAllFunc      func(ctx context.Context, filters domain.ShowtimeFilters) ([]*domain.Showtime, *domain.Metadata, error)
}

func (m *MockShowtimeRepo) CreateBatch(ctx context.Context, showtimes []domain.Showtime) error {
	return m.CreateBatchFunc(ctx, showtimes)
}

func (m *MockShowtimeRepo) GetAll(ctx context.Context, filters domain.ShowtimeFilters) ([]*domain.Showtime, *domain.Metadata, error) {
	return m.GetAllFunc(ctx, filters)
}
