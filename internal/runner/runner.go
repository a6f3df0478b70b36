// Package runner orchestrates full scraping runs: every configured adapter
// is executed, its records validated and submitted, and the outcome tallied
// into a run summary. A run always finishes; a failing adapter is isolated
// and reported alongside the results of the others.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MarlonMora23/API-Calinema/internal/domain"
	"github.com/MarlonMora23/API-Calinema/internal/scraper"
	appvalidator "github.com/MarlonMora23/API-Calinema/internal/validator"
)

type Runner struct {
	adapters  []scraper.Adapter
	movies    domain.MovieRepository
	showtimes domain.ShowtimeRepository
	validate  *validator.Validate
	logger    *slog.Logger
}

func New(
	adapters []scraper.Adapter,
	movies domain.MovieRepository,
	showtimes domain.ShowtimeRepository,
	validate *validator.Validate,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		adapters:  adapters,
		movies:    movies,
		showtimes: showtimes,
		validate:  validate,
		logger:    logger,
	}
}

type adapterResult struct {
	report    domain.AdapterReport
	submitted int
	dropped   int
}

// UpdateMovies scrapes, validates and stores the current billboard of every
// cinema. Adapters run concurrently; each one's failure is confined to its
// own report.
func (r *Runner) UpdateMovies(ctx context.Context) domain.RunSummary {
	return r.run(ctx, func(ctx context.Context, a scraper.Adapter) adapterResult {
		return r.runMovies(ctx, a)
	})
}

// UpdateShowtimes scrapes today's screenings. Each showtime is resolved
// against an already stored movie by title and cinema; unresolved showtimes
// are dropped, so movies should be updated first.
func (r *Runner) UpdateShowtimes(ctx context.Context) domain.RunSummary {
	return r.run(ctx, func(ctx context.Context, a scraper.Adapter) adapterResult {
		return r.runShowtimes(ctx, a)
	})
}

// UpdateAll refreshes movies and then showtimes in one pass, merging both
// phases into a single summary.
func (r *Runner) UpdateAll(ctx context.Context) domain.RunSummary {
	movies := r.UpdateMovies(ctx)
	showtimes := r.UpdateShowtimes(ctx)

	merged := domain.RunSummary{
		ID:         movies.ID,
		StartedAt:  movies.StartedAt,
		FinishedAt: showtimes.FinishedAt,
		Submitted:  movies.Submitted + showtimes.Submitted,
		Dropped:    movies.Dropped + showtimes.Dropped,
		Errors:     append(movies.Errors, showtimes.Errors...),
	}

	reports := make(map[string]domain.AdapterReport, len(movies.Adapters))
	for _, report := range movies.Adapters {
		reports[report.CinemaName] = report
	}
	for _, report := range showtimes.Adapters {
		merged_ := reports[report.CinemaName]
		merged_.CinemaName = report.CinemaName
		merged_.Showtimes = report.Showtimes
		if report.Error != "" {
			if merged_.Error != "" {
				merged_.Error += "; "
			}
			merged_.Error += report.Error
		}
		reports[report.CinemaName] = merged_
	}
	for _, a := range r.adapters {
		merged.Adapters = append(merged.Adapters, reports[a.CinemaName()])
	}

	return merged
}

func (r *Runner) run(ctx context.Context, fn func(context.Context, scraper.Adapter) adapterResult) domain.RunSummary {
	summary := domain.RunSummary{
		ID:        uuid.New(),
		StartedAt: time.Now().UTC(),
	}

	results := make([]adapterResult, len(r.adapters))

	var wg sync.WaitGroup
	for i, a := range r.adapters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.safely(ctx, a, fn)
		}()
	}
	wg.Wait()

	for _, result := range results {
		summary.Adapters = append(summary.Adapters, result.report)
		summary.Submitted += result.submitted
		summary.Dropped += result.dropped
		if result.report.Error != "" {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %s", result.report.CinemaName, result.report.Error))
		}
	}

	summary.FinishedAt = time.Now().UTC()

	return summary
}

// safely runs one adapter and converts a panic inside it into an adapter
// error, keeping the other adapters and the run alive.
func (r *Runner) safely(ctx context.Context, a scraper.Adapter, fn func(context.Context, scraper.Adapter) adapterResult) (result adapterResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("adapter panicked", "cinema", a.CinemaName(), "panic", rec)
			result = adapterResult{report: domain.AdapterReport{
				CinemaName: a.CinemaName(),
				Error:      fmt.Sprintf("panic: %v", rec),
			}}
		}
	}()

	return fn(ctx, a)
}

func (r *Runner) runMovies(ctx context.Context, a scraper.Adapter) adapterResult {
	report := domain.AdapterReport{CinemaName: a.CinemaName()}

	movies, err := scraper.Movies(ctx, r.logger, a)
	if err != nil {
		report.Error = err.Error()
		return adapterResult{report: report}
	}

	submitted, rejected, err := r.submitMovies(ctx, a.CinemaName(), movies)
	if err != nil {
		report.Error = fmt.Sprintf("storing movies: %s", err)
	}

	report.Movies = submitted

	return adapterResult{report: report, submitted: submitted, dropped: rejected}
}

func (r *Runner) submitMovies(ctx context.Context, cinemaName string, movies []domain.Movie) (submitted, rejected int, err error) {
	valid := make([]domain.Movie, 0, len(movies))

	for _, movie := range movies {
		if fields := r.check(movie); fields != nil {
			rejected++
			r.logger.Warn("rejecting movie", "cinema", cinemaName, "title", movie.Title, "fields", fields)
			continue
		}
		valid = append(valid, movie)
	}

	if len(valid) == 0 {
		return 0, rejected, nil
	}

	if err := r.movies.CreateBatch(ctx, valid); err != nil {
		r.logger.Error("storing movies failed", "cinema", cinemaName, "error", err)
		return 0, rejected + len(valid), err
	}

	return len(valid), rejected, nil
}

func (r *Runner) runShowtimes(ctx context.Context, a scraper.Adapter) adapterResult {
	report := domain.AdapterReport{CinemaName: a.CinemaName()}

	showtimes, err := scraper.Showtimes(ctx, r.logger, a)
	if err != nil {
		report.Error = err.Error()
		return adapterResult{report: report}
	}

	resolved, unresolved := r.resolve(ctx, a.CinemaName(), showtimes)
	submitted, rejected, err := r.submitShowtimes(ctx, a.CinemaName(), resolved)
	if err != nil {
		report.Error = fmt.Sprintf("storing showtimes: %s", err)
	}

	report.Showtimes = submitted

	return adapterResult{report: report, submitted: submitted, dropped: unresolved + rejected}
}

// resolve attaches each showtime to its stored movie. A showtime whose title
// matches no movie of the same cinema cannot be stored and is dropped.
func (r *Runner) resolve(ctx context.Context, cinemaName string, showtimes []domain.Showtime) (resolved []domain.Showtime, dropped int) {
	resolved = make([]domain.Showtime, 0, len(showtimes))

	for _, showtime := range showtimes {
		movie, err := r.movies.GetByTitleAndCinema(ctx, showtime.Title, showtime.CinemaName)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				dropped++
				r.logger.Warn("showtime has no matching movie",
					"cinema", cinemaName, "title", showtime.Title)
				continue
			}

			dropped++
			r.logger.Error("movie lookup failed", "cinema", cinemaName, "title", showtime.Title, "error", err)
			continue
		}

		showtime.MovieID = movie.ID
		resolved = append(resolved, showtime)
	}

	return resolved, dropped
}

func (r *Runner) submitShowtimes(ctx context.Context, cinemaName string, showtimes []domain.Showtime) (submitted, rejected int, err error) {
	valid := make([]domain.Showtime, 0, len(showtimes))

	for _, showtime := range showtimes {
		if fields := r.check(showtime); fields != nil {
			rejected++
			r.logger.Warn("rejecting showtime",
				"cinema", cinemaName, "title", showtime.Title, "fields", fields)
			continue
		}
		valid = append(valid, showtime)
	}

	if len(valid) == 0 {
		return 0, rejected, nil
	}

	if err := r.showtimes.CreateBatch(ctx, valid); err != nil {
		r.logger.Error("storing showtimes failed", "cinema", cinemaName, "error", err)
		return 0, rejected + len(valid), err
	}

	return len(valid), rejected, nil
}

// check validates one record and returns its field errors, nil when valid.
// A failing record never affects its siblings.
func (r *Runner) check(record any) map[string]string {
	err := r.validate.Struct(record)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return map[string]string{"record": err.Error()}
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fields[fieldErr.Field()] = appvalidator.ValidationMessage(fieldErr)
	}

	return fields
}
