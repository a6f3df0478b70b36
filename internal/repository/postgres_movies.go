package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MarlonMora23/API-Calinema/internal/domain"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

// CreateBatch stores one adapter's billboard in a single transaction. A
// movie already present for the same cinema is refreshed in place, so
// repeated runs converge instead of piling up duplicates.
func (p *PostgresMovieRepository) CreateBatch(ctx context.Context, movies []domain.Movie) error {
	query := `INSERT INTO movies (title, duration, classification, cinema_name, genres,
			original_title, country_origin, director, actors, language, synopsis, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (title, cinema_name) DO UPDATE SET
			duration = EXCLUDED.duration,
			classification = EXCLUDED.classification,
			genres = EXCLUDED.genres,
			original_title = EXCLUDED.original_title,
			country_origin = EXCLUDED.country_origin,
			director = EXCLUDED.director,
			actors = EXCLUDED.actors,
			language = EXCLUDED.language,
			synopsis = EXCLUDED.synopsis,
			image_url = EXCLUDED.image_url,
			updated_at = now()`

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, movie := range movies {
		batch.Queue(query,
			movie.Title,
			movie.Duration,
			movie.Classification,
			movie.CinemaName,
			movie.Genres,
			movie.OriginalTitle,
			movie.CountryOrigin,
			movie.Director,
			movie.Actors,
			movie.Language,
			movie.Synopsis,
			movie.ImageUrl,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range movies {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return err
		}
	}
	if err := results.Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (p *PostgresMovieRepository) GetAll(ctx context.Context, filters domain.MovieFilters) ([]*domain.Movie, *domain.Metadata, error) {
	query := fmt.Sprintf(`SELECT count(*) OVER(), id, title, duration, classification, cinema_name,
			genres, original_title, country_origin, director, actors, language, synopsis, image_url,
			created_at, updated_at
		FROM movies
		WHERE (to_tsvector('spanish', title) @@ plainto_tsquery('spanish', $1) OR $1 = '')
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3`, filters.SortColumn(), filters.SortDirection())

	rows, err := p.db.Query(ctx, query, filters.Term, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	movies := []*domain.Movie{}

	for rows.Next() {
		var movie domain.Movie

		err := rows.Scan(
			&totalRecords,
			&movie.ID,
			&movie.Title,
			&movie.Duration,
			&movie.Classification,
			&movie.CinemaName,
			&movie.Genres,
			&movie.OriginalTitle,
			&movie.CountryOrigin,
			&movie.Director,
			&movie.Actors,
			&movie.Language,
			&movie.Synopsis,
			&movie.ImageUrl,
			&movie.CreatedAt,
			&movie.UpdatedAt,
		)

		if err != nil {
			return nil, nil, err
		}

		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, filters.Page, filters.PageSize)

	return movies, metadata, nil
}

func (p *PostgresMovieRepository) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	query := `SELECT id, title, duration, classification, cinema_name, genres, original_title,
			country_origin, director, actors, language, synopsis, image_url, created_at, updated_at
		FROM movies
		WHERE id = $1`

	var movie domain.Movie

	err := p.db.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Duration,
		&movie.Classification,
		&movie.CinemaName,
		&movie.Genres,
		&movie.OriginalTitle,
		&movie.CountryOrigin,
		&movie.Director,
		&movie.Actors,
		&movie.Language,
		&movie.Synopsis,
		&movie.ImageUrl,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &movie, nil
}

// GetByTitleAndCinema looks a movie up by its scraped identity, the pair a
// showtime carries before it is resolved.
func (p *PostgresMovieRepository) GetByTitleAndCinema(ctx context.Context, title, cinemaName string) (*domain.Movie, error) {
	query := `SELECT id, title, duration, classification, cinema_name, genres, original_title,
			country_origin, director, actors, language, synopsis, image_url, created_at, updated_at
		FROM movies
		WHERE title = $1 AND cinema_name = $2
		ORDER BY id ASC
		LIMIT 1`

	var movie domain.Movie

	err := p.db.QueryRow(ctx, query, title, cinemaName).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Duration,
		&movie.Classification,
		&movie.CinemaName,
		&movie.Genres,
		&movie.OriginalTitle,
		&movie.CountryOrigin,
		&movie.Director,
		&movie.Actors,
		&movie.Language,
		&movie.Synopsis,
		&movie.ImageUrl,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &movie, nil
}
