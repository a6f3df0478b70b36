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

// RoyalFilms scrapes royal-films.com. The site is an Angular app that opens
// on a city chooser; the adapter drives the chooser to Cali before reading
// the billboard. Movie data lives on per-movie pages as blocks of newline
// separated text, addressed by line position.
type RoyalFilms struct {
	cinemaName string
	url        string
	baseURL    string
	city       string

	// infoLines and detailLines map the positional text lines of the two
	// blocks on a movie page.
	infoLines struct {
		title    int
		language int
		genres   int
	}
	detailLines struct {
		synopsis       int
		originalTitle  int
		classification int
		actors         int
		director       int
	}

	browser fetch.SessionRunner
	logger  *slog.Logger
}

func NewRoyalFilms(logger *slog.Logger, browser fetch.SessionRunner) *RoyalFilms {
	a := &RoyalFilms{
		cinemaName: "RoyalFilms",
		url:        "https://royal-films.com/cartelera/cali",
		baseURL:    "https://royal-films.com",
		city:       "Cali",
		browser:    browser,
		logger:     logger,
	}
	a.infoLines.title = 0
	a.infoLines.language = 1
	a.infoLines.genres = 2
	a.detailLines.synopsis = 1
	a.detailLines.originalTitle = 2
	a.detailLines.classification = 3
	a.detailLines.actors = 4
	a.detailLines.director = 5

	return a
}

func (c *RoyalFilms) CinemaName() string {
	return c.cinemaName
}

// selectCity drives the city chooser that covers the billboard. Any missing
// piece of the chooser is logged and skipped; the page may already be on
// the right city.
func (c *RoyalFilms) selectCity(s fetch.Session) {
	card, err := s.Wait(".card")
	if err != nil {
		c.logger.Debug("city chooser not shown", "cinema", c.cinemaName)
		return
	}

	dropdown, err := card.El(".current")
	if err != nil {
		c.logger.Warn("city chooser without dropdown", "cinema", c.cinemaName)
		return
	}
	if err := dropdown.Click(); err != nil {
		c.logger.Warn("city dropdown not clickable", "cinema", c.cinemaName, "error", err)
		return
	}

	list, err := card.El(".list")
	if err != nil {
		c.logger.Warn("city chooser without list", "cinema", c.cinemaName)
		return
	}

	items, err := list.All("li")
	if err != nil {
		return
	}

	found := false
	for _, item := range items {
		if textOf(item) == c.city {
			if err := item.Click(); err == nil {
				found = true
			}
			break
		}
	}
	if !found {
		c.logger.Warn("city not present in chooser", "cinema", c.cinemaName, "city", c.city)
	}

	if btn, err := card.El(".btn"); err == nil {
		if err := btn.Click(); err != nil {
			c.logger.Warn("city chooser not confirmed", "cinema", c.cinemaName, "error", err)
		}
	}
}

func (c *RoyalFilms) movieLinks(s fetch.Session) ([]string, error) {
	boxes, err := s.WaitAll(".prs_upcom_movie_box_wrapper")
	if err != nil {
		return nil, fmt.Errorf("billboard listing: %w", err)
	}

	var links []string
	seen := make(map[string]bool)

	for _, box := range boxes {
		a, err := box.El("a")
		if err != nil {
			continue
		}
		href, _ := a.Attr("href")
		if href == "" {
			continue
		}
		link := absoluteURL(c.baseURL, href)
		if seen[link] {
			continue
		}
		seen[link] = true
		links = append(links, link)
	}

	return links, nil
}

func (c *RoyalFilms) ExtractMovies(ctx context.Context) ([]scraper.RawRecord, error) {
	var raws []scraper.RawRecord

	err := c.browser.WithSession(ctx, c.url, func(s fetch.Session) error {
		c.selectCity(s)

		links, err := c.movieLinks(s)
		if err != nil {
			return err
		}

		for _, link := range links {
			raw, err := c.rawMovie(s, link)
			if err != nil {
				c.logger.Warn("movie page unavailable", "cinema", c.cinemaName, "url", link, "error", err)
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

func (c *RoyalFilms) rawMovie(s fetch.Session, link string) (scraper.RawRecord, error) {
	if err := s.Navigate(link); err != nil {
		return nil, err
	}

	info, err := s.Wait(".st_video_slide_sec")
	if err != nil {
		return nil, err
	}
	infoText, _ := info.Text()
	infoLines := strings.Split(infoText, "\n")

	raw := scraper.RawRecord{
		"title":       line(infoLines, c.infoLines.title),
		"cinema_name": c.cinemaName,
		"language":    line(infoLines, c.infoLines.language),
		"genres":      line(infoLines, c.infoLines.genres),
		"url":         link,
	}

	if el, err := s.Wait(".st_video_slide_social_right.float_left"); err == nil {
		raw["duration"] = textOf(el)
	}

	if details, err := s.Wait(".prs_syn_cont_wrapper"); err == nil {
		detailText, _ := details.Text()
		detailLines := strings.Split(detailText, "\n")
		raw["synopsis"] = line(detailLines, c.detailLines.synopsis)
		raw["original_title"] = line(detailLines, c.detailLines.originalTitle)
		raw["classification"] = line(detailLines, c.detailLines.classification)
		raw["actors"] = line(detailLines, c.detailLines.actors)
		raw["director"] = line(detailLines, c.detailLines.director)
	}

	if wrap, err := s.Wait(".prs_syn_img_wrapper.ng-star-inserted"); err == nil {
		if img, err := wrap.El("img"); err == nil {
			raw["image_url"], _ = img.Attr("src")
		}
	}

	return raw, nil
}

func (c *RoyalFilms) FormatMovie(raw scraper.RawRecord) (domain.Movie, error) {
	if err := scraper.RequireFields(raw, "title"); err != nil {
		return domain.Movie{}, err
	}

	duration := raw["duration"]
	if duration != "" {
		duration = strings.Replace(strings.ToLower(duration), "mins", "Minutos", 1)
	}

	var genres []string
	for _, g := range strings.Split(raw["genres"], "|") {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, scraper.TitleCase(g))
		}
	}

	return domain.Movie{
		Title:          scraper.TitleCase(raw["title"]),
		Duration:       duration,
		Classification: c.formatClassification(raw["classification"]),
		CinemaName:     raw["cinema_name"],
		Genres:         genres,
		OriginalTitle:  scraper.TitleCase(strings.TrimPrefix(raw["original_title"], "Nombre original: ")),
		Director:       scraper.TitleCase(strings.TrimPrefix(raw["director"], "Director: ")),
		Actors:         scraper.TitleCase(strings.TrimPrefix(raw["actors"], "Reparto: ")),
		Language:       scraper.Capitalize(raw["language"]),
		Synopsis:       raw["synopsis"],
		ImageUrl:       raw["image_url"],
	}, nil
}

func (c *RoyalFilms) formatClassification(text string) string {
	switch {
	case strings.Contains(text, "+7"):
		return scraper.AgeRating(7)
	case strings.Contains(text, "+12"):
		return scraper.AgeRating(12)
	case strings.Contains(text, "+15"):
		return scraper.AgeRating(15)
	case strings.Contains(text, "+18"):
		return scraper.AgeRating(18)
	default:
		return scraper.AllAudiences
	}
}

func (c *RoyalFilms) ExtractShowtimes(ctx context.Context) ([]scraper.RawRecord, error) {
	var raws []scraper.RawRecord

	err := c.browser.WithSession(ctx, c.url, func(s fetch.Session) error {
		c.selectCity(s)

		links, err := c.movieLinks(s)
		if err != nil {
			return err
		}

		for _, link := range links {
			items, err := c.rawShowtimes(s, link)
			if err != nil {
				c.logger.Warn("showtime page unavailable", "cinema", c.cinemaName, "url", link, "error", err)
				continue
			}
			raws = append(raws, items...)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return raws, nil
}

func (c *RoyalFilms) rawShowtimes(s fetch.Session, link string) ([]scraper.RawRecord, error) {
	if err := s.Navigate(link); err != nil {
		return nil, err
	}

	info, err := s.Wait(".st_video_slide_sec")
	if err != nil {
		return nil, err
	}
	infoText, _ := info.Text()
	title := line(strings.Split(infoText, "\n"), c.infoLines.title)

	rooms, err := s.WaitAll(".panel.panel-default.sidebar_pannel.ng-star-inserted")
	if err != nil {
		return nil, err
	}

	var raws []scraper.RawRecord

	for i, room := range rooms {
		nameEl, err := room.El(".panel-title")
		if err != nil {
			continue
		}
		roomName := textOf(nameEl)

		// The first room panel opens expanded; the rest need a click.
		if i > 0 {
			if err := nameEl.Click(); err != nil {
				c.logger.Debug("room panel not expandable", "cinema", c.cinemaName, "room", roomName)
				continue
			}
		}

		formats, err := room.All(".st_calender_asc")
		if err != nil {
			continue
		}

		for _, formatEl := range formats {
			format := ""
			if h3, err := formatEl.El("h3"); err == nil {
				format = textOf(h3)
			}

			times, err := formatEl.All("a")
			if err != nil {
				continue
			}

			for _, t := range times {
				schedule := textOf(t)
				if schedule == "" {
					continue
				}

				raws = append(raws, scraper.RawRecord{
					"title":       title,
					"cinema_name": c.cinemaName,
					"room":        roomName,
					"format":      format,
					"schedule":    schedule,
					"url":         link,
				})
			}
		}
	}

	return raws, nil
}

func (c *RoyalFilms) FormatShowtime(raw scraper.RawRecord) (domain.Showtime, error) {
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
		Format:     raw["format"],
		Date:       scraper.Today(),
		Schedule:   schedule,
		Url:        raw["url"],
	}, nil
}
