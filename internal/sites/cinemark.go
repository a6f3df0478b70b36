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

// CineMark scrapes cinemark.com.co for the Pacific Mall theater. The whole
// site is client rendered, so every page goes through a browser session.
// Detail pages lack stable classes for several fields; those are reached
// by XPath instead.
type CineMark struct {
	cinemaName string
	url        string
	baseURL    string
	room       string

	detailXPath cinemarkXPaths

	browser fetch.SessionRunner
	logger  *slog.Logger
}

type cinemarkXPaths struct {
	originalTitle  string
	actors         string
	image          string
	synopsisToggle string
	synopsis       string
}

func NewCineMark(logger *slog.Logger, browser fetch.SessionRunner) *CineMark {
	return &CineMark{
		cinemaName: "CineMark",
		url:        "https://www.cinemark.com.co/ciudad/cali/pacific-mall",
		baseURL:    "https://www.cinemark.com.co",
		room:       "Pacific Mall",
		detailXPath: cinemarkXPaths{
			originalTitle:  "//h4[text()='título original']/following-sibling::p",
			actors:         "//h4[text()='reparto']/following-sibling::p",
			image:          "//div[contains(@class,'detailMovie__container')]//img",
			synopsisToggle: "//div[contains(@class,'detailMovie__container')]//p/span[2]",
			synopsis:       "//div[contains(@class,'detailMovie__container')]//p/span[1]",
		},
		browser: browser,
		logger:  logger,
	}
}

func (c *CineMark) CinemaName() string {
	return c.cinemaName
}

func (c *CineMark) ExtractMovies(ctx context.Context) ([]scraper.RawRecord, error) {
	var raws []scraper.RawRecord

	err := c.browser.WithSession(ctx, c.url, func(s fetch.Session) error {
		badges, err := s.WaitAll(".section-detail__information-badge")
		if err != nil {
			return fmt.Errorf("billboard listing: %w", err)
		}

		var links []string
		seen := make(map[string]bool)

		for _, badge := range badges {
			raw, ok := c.rawListing(badge)
			if !ok {
				continue
			}
			raws = append(raws, raw)

			link := ""
			if a, err := badge.El("a"); err == nil {
				href, _ := a.Attr("href")
				link = absoluteURL(c.baseURL, href)
			}
			if seen[link] {
				link = ""
			}
			seen[link] = true
			links = append(links, link)
		}

		// Detail pages are visited after the listing pass so the billboard
		// elements are not invalidated by navigation.
		for i, link := range links {
			if link == "" {
				continue
			}
			c.enrichFromDetail(s, raws[i], link)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return raws, nil
}

func (c *CineMark) rawListing(badge fetch.Element) (scraper.RawRecord, bool) {
	titleEl, err := badge.El(".section-detail__title--bold")
	if err != nil {
		return nil, false
	}

	title := textOf(titleEl)
	if title == "" {
		return nil, false
	}

	raw := scraper.RawRecord{
		"title":          title,
		"cinema_name":    c.cinemaName,
		"classification": textOf(badge),
	}

	if el, err := badge.El(".clasification--TIME"); err == nil {
		raw["duration"] = textOf(el)
	}

	return raw, true
}

func (c *CineMark) enrichFromDetail(s fetch.Session, raw scraper.RawRecord, link string) {
	if err := s.Navigate(link); err != nil {
		c.logger.Warn("movie detail page unavailable", "cinema", c.cinemaName, "url", link, "error", err)
		return
	}

	if _, err := s.Wait(".detailMovie__container"); err != nil {
		c.logger.Warn("movie detail not rendered", "cinema", c.cinemaName, "url", link, "error", err)
		return
	}

	if el, err := s.WaitX(c.detailXPath.originalTitle); err == nil {
		raw["original_title"] = textOf(el)
	}
	if el, err := s.WaitX(c.detailXPath.actors); err == nil {
		raw["actors"] = textOf(el)
	}
	if el, err := s.WaitX(c.detailXPath.image); err == nil {
		raw["image_url"], _ = el.Attr("src")
	}

	// The synopsis is truncated behind a "ver más" toggle.
	if toggle, err := s.WaitX(c.detailXPath.synopsisToggle); err == nil {
		if err := toggle.Click(); err != nil {
			c.logger.Debug("synopsis toggle not clickable", "cinema", c.cinemaName, "url", link)
		}
	}
	if el, err := s.WaitX(c.detailXPath.synopsis); err == nil {
		raw["synopsis"] = textOf(el)
	}
}

func (c *CineMark) FormatMovie(raw scraper.RawRecord) (domain.Movie, error) {
	if err := scraper.RequireFields(raw, "title"); err != nil {
		return domain.Movie{}, err
	}

	return domain.Movie{
		Title:          scraper.TitleCase(raw["title"]),
		Duration:       scraper.TitleCase(raw["duration"]),
		Classification: c.formatClassification(raw["classification"]),
		CinemaName:     raw["cinema_name"],
		OriginalTitle:  scraper.TitleCase(raw["original_title"]),
		Actors:         raw["actors"],
		Synopsis:       raw["synopsis"],
		ImageUrl:       raw["image_url"],
	}, nil
}

func (c *CineMark) formatClassification(text string) string {
	switch {
	case strings.Contains(text, "+ 7"):
		return scraper.AgeRating(7)
	case strings.Contains(text, "+ 12"):
		return scraper.AgeRating(12)
	case strings.Contains(text, "+ 15"):
		return scraper.AgeRating(15)
	case strings.Contains(text, "+ 18"):
		return scraper.AgeRating(18)
	default:
		return scraper.AllAudiences
	}
}

func (c *CineMark) ExtractShowtimes(ctx context.Context) ([]scraper.RawRecord, error) {
	var raws []scraper.RawRecord

	err := c.browser.WithSession(ctx, c.url, func(s fetch.Session) error {
		sections, err := s.WaitAll(".section-detail__schedule")
		if err != nil {
			return fmt.Errorf("schedule listing: %w", err)
		}

		for _, section := range sections {
			raws = append(raws, c.rawShowtimes(section)...)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return raws, nil
}

func (c *CineMark) rawShowtimes(section fetch.Element) []scraper.RawRecord {
	titleEl, err := section.El(".section-detail__title")
	if err != nil {
		return nil
	}

	title := textOf(titleEl)
	if title == "" {
		return nil
	}

	url := ""
	if a, err := section.El("a"); err == nil {
		href, _ := a.Attr("href")
		url = absoluteURL(c.baseURL, href)
	}

	containers, err := section.All(".theater-detail__container--principal__co")
	if err != nil {
		return nil
	}

	var raws []scraper.RawRecord

	for _, container := range containers {
		var formatParts []string
		if items, err := container.All(".formats__item"); err == nil {
			for _, item := range items {
				if t := textOf(item); t != "" {
					formatParts = append(formatParts, t)
				}
			}
		}
		format := strings.Join(formatParts, " ")

		buttons, err := container.All(".sessions__button--runtime")
		if err != nil {
			continue
		}

		for _, btn := range buttons {
			schedule := textOf(btn)
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
	}

	return raws
}

func (c *CineMark) FormatShowtime(raw scraper.RawRecord) (domain.Showtime, error) {
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
		Format:     scraper.TitleCase(raw["format"]),
		Date:       scraper.Today(),
		Schedule:   schedule,
		Url:        raw["url"],
	}, nil
}
