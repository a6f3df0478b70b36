package domain

import (
	"context"
	"time"
)

// Showtime is one scheduled screening of a movie at a cinema. Title carries
// the scraped movie title until the showtime is resolved against a persisted
// movie; only MovieID is stored.
type Showtime struct {
	ID         int
	MovieID    int
	Title      string `validate:"required,max=100"`
	CinemaName string `validate:"required,max=100"`
	Room       string `validate:"required,max=100"`
	Format     string `validate:"required,max=100"`
	Date       time.Time
	Schedule   string `validate:"required,schedule"`
	Url        string `validate:"required,url"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ShowtimeFilters struct {
	Date     time.Time
	Page     int
	PageSize int
}

func (f ShowtimeFilters) Limit() int {
	return f.PageSize
}

func (f ShowtimeFilters) Offset() int {
	return (f.Page - 1) * f.PageSize
}

type ShowtimeRepository interface {
	CreateBatch(ctx context.Context, showtimes []Showtime) error
	GetAll(ctx context.Context, filters ShowtimeFilters) ([]*Showtime, *Metadata, error)
}
