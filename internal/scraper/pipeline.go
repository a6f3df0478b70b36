package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MarlonMora23/API-Calinema/internal/domain"
)

// Movies runs the extraction pipeline for one adapter: acquire and extract
// raw records, dedupe by title, format each, drop the invalid ones. A fetch
// failure returns an error with no partial output; an empty valid set is
// reported and returned as empty.
func Movies(ctx context.Context, logger *slog.Logger, a Adapter) ([]domain.Movie, error) {
	raws, err := a.ExtractMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("extracting %s movies: %w", a.CinemaName(), err)
	}

	raws = DedupeByTitle(raws)

	movies := make([]domain.Movie, 0, len(raws))
	for _, raw := range raws {
		movie, err := a.FormatMovie(raw)
		if err != nil {
			logger.Warn("dropping movie record",
				"cinema", a.CinemaName(), "title", raw["title"], "error", err)
			continue
		}

		movies = append(movies, movie)
	}

	if len(movies) == 0 {
		logger.Warn("no movies found", "cinema", a.CinemaName())
	}

	return movies, nil
}

// Showtimes is the same pipeline for the showtime artifact type. Showtimes
// are not deduplicated: the same film legitimately screens many times.
func Showtimes(ctx context.Context, logger *slog.Logger, a Adapter) ([]domain.Showtime, error) {
	raws, err := a.ExtractShowtimes(ctx)
	if err != nil {
		return nil, fmt.Errorf("extracting %s showtimes: %w", a.CinemaName(), err)
	}

	showtimes := make([]domain.Showtime, 0, len(raws))
	for _, raw := range raws {
		showtime, err := a.FormatShowtime(raw)
		if err != nil {
			logger.Warn("dropping showtime record",
				"cinema", a.CinemaName(), "title", raw["title"], "schedule", raw["schedule"], "error", err)
			continue
		}

		showtimes = append(showtimes, showtime)
	}

	if len(showtimes) == 0 {
		logger.Warn("no showtimes found", "cinema", a.CinemaName())
	}

	return showtimes, nil
}

// DedupeByTitle keeps the first occurrence of every title and drops items
// with no title at all. Listings often repeat a film once per screening
// format; the first DOM occurrence wins.
func DedupeByTitle(raws []RawRecord) []RawRecord {
	seen := make(map[string]bool, len(raws))
	deduped := make([]RawRecord, 0, len(raws))

	for _, raw := range raws {
		title := raw["title"]
		if title == "" || seen[title] {
			continue
		}

		seen[title] = true
		deduped = append(deduped, raw)
	}

	return deduped
}
