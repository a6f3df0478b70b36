package sites

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/MarlonMora23/API-Calinema/internal/domain"
	"github.com/MarlonMora23/API-Calinema/internal/fetch"
	"github.com/MarlonMora23/API-Calinema/internal/scraper"
)

// CineColombia scrapes cinecolombia.com. The billboard renders server side,
// so the movie listing and each detail page are fetched statically; the
// showtime widgets are Javascript driven and need a browser session.
type CineColombia struct {
	cinemaName string
	url        string
	baseURL    string

	// detailFields maps the positional div.movie-details__block paragraphs
	// on a detail page to record fields.
	detailFields []string

	static  *fetch.Client
	browser fetch.SessionRunner
	logger  *slog.Logger
}

func NewCineColombia(logger *slog.Logger, static *fetch.Client, browser fetch.SessionRunner) *CineColombia {
	return &CineColombia{
		cinemaName: "CineColombia",
		url:        "https://www.cinecolombia.com/cali/cartelera",
		baseURL:    "https://www.cinecolombia.com",
		detailFields: []string{
			"synopsis",
			"original_title",
			"country_origin",
			"director",
			"actors",
			"language",
		},
		static:  static,
		browser: browser,
		logger:  logger,
	}
}

func (c *CineColombia) CinemaName() string {
	return c.cinemaName
}

func (c *CineColombia) ExtractMovies(ctx context.Context) ([]scraper.RawRecord, error) {
	doc, err := c.static.Document(ctx, c.url)
	if err != nil {
		return nil, err
	}

	var raws []scraper.RawRecord

	doc.Find("a.movie-item").Each(func(_ int, item *goquery.Selection) {
		title := strings.TrimSpace(item.Find("h2.movie-item__title").Text())
		if title == "" {
			return
		}

		raw := scraper.RawRecord{
			"title":       title,
			"cinema_name": c.cinemaName,
		}

		item.Find("span.movie-item__meta").Each(func(_ int, meta *goquery.Selection) {
			text := strings.TrimSpace(meta.Text())
			switch {
			case strings.HasPrefix(text, "Género"):
				raw["genres"] = text
			case strings.HasPrefix(text, "Duración"):
				raw["duration"] = strings.TrimSpace(strings.TrimPrefix(text, "Duración:"))
			case strings.HasPrefix(text, "Clasificación"):
				raw["classification"] = strings.TrimSpace(strings.TrimPrefix(text, "Clasificación:"))
			}
		})

		// Some cards carry duration and classification as plain tags instead.
		item.Find("span.tag").Each(func(_ int, tag *goquery.Selection) {
			text := strings.TrimSpace(tag.Text())
			switch {
			case strings.Contains(text, "Min"):
				raw["duration"] = text
			case text != "" && raw["classification"] == "":
				raw["classification"] = text
			}
		})

		raw["image_url"] = item.Find("img").AttrOr("data-src", "")

		if href, ok := item.Attr("href"); ok {
			c.enrichFromDetail(ctx, raw, absoluteURL(c.baseURL, href))
		}

		raws = append(raws, raw)
	})

	return raws, nil
}

// enrichFromDetail fills the fields only present on a movie's own page. A
// failing detail page costs those fields, not the whole record.
func (c *CineColombia) enrichFromDetail(ctx context.Context, raw scraper.RawRecord, url string) {
	doc, err := c.static.Document(ctx, url)
	if err != nil {
		c.logger.Warn("movie detail page unavailable", "cinema", c.cinemaName, "url", url, "error", err)
		return
	}

	doc.Find("div.movie-details__block").Each(func(i int, block *goquery.Selection) {
		if i >= len(c.detailFields) {
			return
		}

		text := strings.Join(strings.Fields(block.Find("p").First().Text()), " ")
		if text != "" {
			raw[c.detailFields[i]] = text
		}
	})
}

func (c *CineColombia) FormatMovie(raw scraper.RawRecord) (domain.Movie, error) {
	if err := scraper.RequireFields(raw, "title"); err != nil {
		return domain.Movie{}, err
	}

	duration := raw["duration"]
	if duration != "" {
		duration += "utos"
	}

	return domain.Movie{
		Title:          raw["title"],
		Duration:       duration,
		Classification: scraper.Capitalize(raw["classification"]),
		CinemaName:     raw["cinema_name"],
		Genres:         scraper.Genres(strings.TrimPrefix(raw["genres"], "Género:"), ","),
		OriginalTitle:  raw["original_title"],
		CountryOrigin:  raw["country_origin"],
		Director:       raw["director"],
		Actors:         raw["actors"],
		Language:       raw["language"],
		Synopsis:       raw["synopsis"],
		ImageUrl:       raw["image_url"],
	}, nil
}

func (c *CineColombia) ExtractShowtimes(ctx context.Context) ([]scraper.RawRecord, error) {
	var raws []scraper.RawRecord

	err := c.browser.WithSession(ctx, c.url, func(s fetch.Session) error {
		movies, err := s.WaitAll("a.movie-item")
		if err != nil {
			return fmt.Errorf("movie listing: %w", err)
		}

		c.dismissCookieModal(s)

		var links []string
		for _, movie := range movies {
			href, err := movie.Attr("href")
			if err != nil || href == "" {
				continue
			}
			links = append(links, absoluteURL(c.baseURL, href))
		}

		for _, link := range links {
			items, err := c.showtimesFromDetail(s, link)
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

// dismissCookieModal closes the consent dialog that covers the showtime
// widgets on a fresh session. Its absence is normal.
func (c *CineColombia) dismissCookieModal(s fetch.Session) {
	modal, err := s.Wait(".cookie-modal")
	if err != nil {
		c.logger.Debug("no cookie modal shown", "cinema", c.cinemaName)
		return
	}

	btn, err := modal.El("button")
	if err != nil {
		c.logger.Debug("cookie modal without button", "cinema", c.cinemaName)
		return
	}

	if err := btn.Click(); err != nil {
		c.logger.Debug("cookie modal not dismissed", "cinema", c.cinemaName, "error", err)
	}
}

func (c *CineColombia) showtimesFromDetail(s fetch.Session, link string) ([]scraper.RawRecord, error) {
	if err := s.Navigate(link); err != nil {
		return nil, err
	}

	titleEl, err := s.Wait(".ezstring-field")
	if err != nil {
		return nil, err
	}
	title := textOf(titleEl)

	rooms, err := s.WaitAll(".collapsible")
	if err != nil {
		return nil, err
	}

	var raws []scraper.RawRecord

	for _, room := range rooms {
		nameEl, err := room.El(".show-times-collapse__title")
		if err != nil {
			continue
		}
		roomName := textOf(nameEl)

		// Each room section is collapsed until clicked.
		if err := room.Click(); err != nil {
			c.logger.Debug("room section not expandable", "cinema", c.cinemaName, "room", roomName)
			continue
		}

		groups, err := room.All(".show-times-group")
		if err != nil {
			continue
		}

		for _, group := range groups {
			formatEl, err := group.El(".show-times-group__attrs")
			if err != nil {
				continue
			}
			format := textOf(formatEl)

			times, err := group.All(".show-times-group__times a")
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

func (c *CineColombia) FormatShowtime(raw scraper.RawRecord) (domain.Showtime, error) {
	if err := scraper.RequireFields(raw, "title", "room", "format", "schedule", "url"); err != nil {
		return domain.Showtime{}, err
	}

	schedule, err := scraper.Schedule(raw["schedule"])
	if err != nil {
		return domain.Showtime{}, err
	}

	return domain.Showtime{
		Title:      raw["title"],
		CinemaName: raw["cinema_name"],
		Room:       raw["room"],
		Format:     strings.Join(strings.Fields(raw["format"]), " "),
		Date:       scraper.Today(),
		Schedule:   schedule,
		Url:        raw["url"],
	}, nil
}
