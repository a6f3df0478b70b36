package mocks

import (
	"context"

	"github.com/MarlonMora23/API-Calinema/internal/domain"
)

type MockMovieRepo struct {
	domain.MovieRepository
	CreateBatchFunc         func(ctx context.Context, movies []domain.Movie) error
	GetAllFunc              func(ctx context.Context, filters domain.MovieFilters) ([]*domain.Movie, *domain.Metadata, error)
	GetByIdFunc             func(ctx context.Context, id int) (*domain.Movie, error)
	GetByTitleAndCinemaFunc func(ctx context.Context, title, cinemaName string) (*domain.Movie, error)
}

func (m *MockMovieRepo) CreateBatch(ctx context.Context, movies []domain.Movie) error {
	return m.CreateBatchFunc(ctx, movies)
}

func (m *MockMovieRepo) GetAll(ctx context.Context, filters domain.MovieFilters) ([]*domain.Movie, *domain.Metadata, error) {
	return m.GetAllFunc(ctx, filters)
}

func (m *MockMovieRepo) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockMovieRepo) GetByTitleAndCinema(ctx context.Context, title, cinemaName string) (*domain.Movie, error) {
	return m.GetByTitleAndCinemaFunc(ctx, title, cinemaName)
}
