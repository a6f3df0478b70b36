package domain

import (
	"context"
	"strings"
	"time"
)

type Movie struct {
	ID             int
	Title          string `validate:"required,max=100"`
	Duration       string `validate:"required,max=50"`
	Classification string `validate:"required,max=50"`
	CinemaName     string `validate:"required,max=100"`
	Genres         []string
	OriginalTitle  string `validate:"max=100"`
	CountryOrigin  string `validate:"max=100"`
	Director       string `validate:"max=100"`
	Actors         string `validate:"max=200"`
	Language       string `validate:"max=100"`
	Synopsis       string
	ImageUrl       string `validate:"omitempty,url,max=200"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Metadata struct {
	CurrentPage  int
	FirstPage    int
	LastPage     int
	PageSize     int
	TotalRecords int
}

func NewMetadata(totalRecords, page, pageSize int) *Metadata {
	return &Metadata{
		CurrentPage:  page,
		FirstPage:    1,
		LastPage:     (totalRecords + pageSize - 1) / pageSize,
		PageSize:     pageSize,
		TotalRecords: totalRecords,
	}
}

type MovieFilters struct {
	Page     int
	PageSize int
	Term     string
	Sort     string
}

func (f MovieFilters) SortColumn() string {
	return strings.TrimPrefix(f.Sort, "-")
}

func (f MovieFilters) SortDirection() string {
	if strings.HasPrefix(f.Sort, "-") {
		return "DESC"
	}

	return "ASC"
}

func (f MovieFilters) Limit() int {
	return f.PageSize
}

func (f MovieFilters) Offset() int {
	return (f.Page - 1) * f.PageSize
}

type MovieRepository interface {
	CreateBatch(ctx context.Context, movies []Movie) error
	GetAll(ctx context.Context, filters MovieFilters) ([]*Movie, *Metadata, error)
	GetById(ctx context.Context, id int) (*Movie, error)
	GetByTitleAndCinema(ctx context.Context, title, cinemaName string) (*Movie, error)
}
