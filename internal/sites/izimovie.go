package sites

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MarlonMora23/API-Calinema/internal/domain"
	"github.com/MarlonMora23/API-Calinema/internal/fetch"
	"github.com/MarlonMora23/API-Calinema/internal/scraper"
)

// IziMovie scrapes izi.movie, a single theater in the Aquarela complex. Both
// listings are client rendered. The movie cards expose their metadata as a
// flat list of labelled option rows, addressed by position.
type IziMovie struct {
	cinemaName   string
	moviesURL    string
	showtimesURL string
	room         string

	// options maps the positional .movie__option rows of a movie card.
	options struct {
		genres         int
		classification int
		synopsis       int
	}

	browser fetch.SessionRunner
	logger  *slog.Logger
}

func NewIziMovie(logger *slog.Logger, browser fetch.SessionRunner) *IziMovie {
	a := &IziMovie{
		cinemaName:   "IziMovie",
		moviesURL:    "https://izi.movie/programacion.php",
		showtimesURL: "https://izi.movie/",
		room:         "Aquarela",
		browser:      browser,
		logger:       logger,
	}
	a.options.genres = 0
	a.options.classification = 1
	a.options.synopsis = 4

	return a
}

func (c *IziMovie) CinemaName() string {
	return c.cinemaName
}

func (c *IziMovie) ExtractMovies(ctx context.Context) ([]scraper.RawRecord, error) {
	var raws []scraper.RawRecord

	err := c.browser.WithSession(ctx, c.moviesURL, func(s fetch.Session) error {
		items, err := s.WaitAll(".movie")
		if err != nil {
			return fmt.Errorf("movie listing: %w", err)
		}

		for _, item := range items {
			raw, ok := c.rawMovie(item)
			if !ok {
				continue
			}
			raws = append(raws, raw)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return raws, nil
}

func (c *IziMovie) rawMovie(item fetch.Element) (scraper.RawRecord, bool) {
	titleEl, err := item.El(".movie__title")
	if err != nil {
		return nil, false
	}

	title := textOf(titleEl)
	if title == "" {
		return nil, false
	}

	raw := scraper.RawRecord{
		"title":       title,
		"cinema_name": c.cinemaName,
	}

	if el, err := item.El(".movie__time"); err == nil {
		raw["duration"] = textOf(el)
	}

	options, err := item.All(".movie__option")
	if err == nil {
		texts := make([]string, len(options))
		for i, opt := range options {
			texts[i] = textOf(opt)
		}
		raw["genres"] = line(texts, c.options.genres)
		raw["classification"] = line(texts, c.options.classification)
		raw["synopsis"] = line(texts, c.options.synopsis)
	}

	if wrap, err := item.El(".movie__images"); err == nil {
		if img, err := wrap.El("img"); err == nil {
			raw["image_url"], _ = img.Attr("src")
		}
	}

	return raw, true
}

func (c *IziMovie) FormatMovie(raw scraper.RawRecord) (domain.Movie, error) {
	if err := scraper.RequireFields(raw, "title"); err != nil {
		return domain.Movie{}, err
	}

	duration := raw["duration"]
	if duration != "" {
		duration = scraper.TitleCase(duration) + "utos"
	}

	var genres []string
	if g := lastAfter(raw["genres"], "Género: "); g != "" {
		genres = []string{g}
	}

	return domain.Movie{
		Title:          scraper.TitleCase(raw["title"]),
		Duration:       duration,
		Classification: c.formatClassification(raw["classification"]),
		CinemaName:     raw["cinema_name"],
		Genres:         genres,
		Synopsis:       lastAfter(raw["synopsis"], "Sinopsis: "),
		ImageUrl:       raw["image_url"],
	}, nil
}

func (c *IziMovie) formatClassification(text string) string {
	code := strings.TrimSpace(lastAfter(text, "Clasificación: "))

	switch {
	case strings.Contains(code, "7"):
		return scraper.AgeRating(7)
	case strings.Contains(code, "12"):
		return scraper.AgeRating(12)
	case strings.Contains(code, "15"):
		return scraper.AgeRating(15)
	case strings.Contains(code, "18"):
		return scraper.AgeRating(18)
	default:
		return scraper.AllAudiences
	}
}

func (c *IziMovie) ExtractShowtimes(ctx context.Context) ([]scraper.RawRecord, error) {
	var raws []scraper.RawRecord

	err := c.browser.WithSession(ctx, c.showtimesURL, func(s fetch.Session) error {
		items, err := s.WaitAll(".movie--time")
		if err != nil {
			return fmt.Errorf("showtime listing: %w", err)
		}

		for _, item := range items {
			raws = append(raws, c.rawShowtimes(item)...)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return raws, nil
}

func (c *IziMovie) rawShowtimes(item fetch.Element) []scraper.RawRecord {
	titleEl, err := item.El(".movie__title")
	if err != nil {
		return nil
	}

	title := textOf(titleEl)
	if title == "" {
		return nil
	}

	url, _ := titleEl.Attr("href")

	format := ""
	if options, err := item.All(".movie__option"); err == nil && len(options) > 0 {
		format = textOf(options[0])
	}

	times, err := item.All(".time-select__item")
	if err != nil {
		return nil
	}

	var raws []scraper.RawRecord

	for _, t := range times {
		schedule := textOf(t)
		if schedule == "" {
			continue
		}

		raws = append(raws, scraper.RawRecord{
			"title":       title,
			"cinema_name": c.cinemaName,
			"room":        c.room,
			"format":      format,
			"schedule":    schedule,
			"url":         url,
		})
	}

	return raws
}

func (c *IziMovie) FormatShowtime(raw scraper.RawRecord) (domain.Showtime, error) {
	if err := scraper.RequireFields(raw, "title", "room", "format", "schedule", "url"); err != nil {
		return domain.Showtime{}, err
	}

	schedule, err := scraper.Schedule(raw["schedule"])
	if err != nil {
		return domain.Showtime{}, err
	}

	return domain.Showtime{
		Title:      scraper.TitleCase(raw["title"]),
		CinemaName: raw["cinema_name"],
		Room:       raw["room"],
		Format:     strings.TrimSpace(lastAfter(raw["format"], "Tipo: ")),
		Date:       scraper.Today(),
		Schedule:   schedule,
		Url:        raw["url"],
	}, nil
}
