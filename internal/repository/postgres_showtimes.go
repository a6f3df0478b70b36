package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MarlonMora23/API-Calinema/internal/domain"
)

type PostgresShowtimeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowtimeRepository(db *pgxpool.Pool) *PostgresShowtimeRepository {
	return &PostgresShowtimeRepository{
		db: db,
	}
}

// CreateBatch stores one adapter's screenings in a single transaction.
// Re-scraping the same day replaces nothing; the unique index on
// (movie_id, room, format, date, schedule) makes repeated runs idempotent.
func (p *PostgresShowtimeRepository) CreateBatch(ctx context.Context, showtimes []domain.Showtime) error {
	query := `INSERT INTO cinema_showtimes (movie_id, room, format, date, schedule, url)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (movie_id, room, format, date, schedule) DO UPDATE SET
			url = EXCLUDED.url,
			updated_at = now()`

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, showtime := range showtimes {
		batch.Queue(query,
			showtime.MovieID,
			showtime.Room,
			showtime.Format,
			showtime.Date,
			showtime.Schedule,
			showtime.Url,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range showtimes {
		if _, err := results.Exec(); err != nil {
			results.Close()

			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
				return domain.ErrMovieNotFound
			}

			return err
		}
	}
	if err := results.Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (p *PostgresShowtimeRepository) GetAll(ctx context.Context, filters domain.ShowtimeFilters) ([]*domain.Showtime, *domain.Metadata, error) {
	query := `SELECT count(*) OVER(), s.id, s.movie_id, m.title, m.cinema_name,
			s.room, s.format, s.date, s.schedule, s.url, s.created_at, s.updated_at
		FROM cinema_showtimes s
		INNER JOIN movies m ON m.id = s.movie_id
		WHERE (s.date = $1 OR $1 = '0001-01-01'::date)
		ORDER BY m.cinema_name ASC, m.title ASC, s.schedule ASC, s.id ASC
		LIMIT $2 OFFSET $3`

	rows, err := p.db.Query(ctx, query, filters.Date, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	showtimes := []*domain.Showtime{}

	for rows.Next() {
		var showtime domain.Showtime

		err := rows.Scan(
			&totalRecords,
			&showtime.ID,
			&showtime.MovieID,
			&showtime.Title,
			&showtime.CinemaName,
			&showtime.Room,
			&showtime.Format,
			&showtime.Date,
			&showtime.Schedule,
			&showtime.Url,
			&showtime.CreatedAt,
			&showtime.UpdatedAt,
		)

		if err != nil {
			return nil, nil, err
		}

		showtimes = append(showtimes, &showtime)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, filters.Page, filters.PageSize)

	return showtimes, metadata, nil
}
