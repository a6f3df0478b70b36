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

// Cinepolis scrapes cinepolis.com.co. The city billboard is an Angular app,
// so listings go through a browser session; synopsis pages render server
// side and are fetched statically.
type Cinepolis struct {
	cinemaName string
	url        string
	detailURL  string

	// locations maps the element id prefix of a billboard entry to the
	// theater it belongs to. Entries outside these prefixes are other
	// cities sharing the same page.
	locations []cinepolisLocation

	synopsisSelector string

	static  *fetch.Client
	browser fetch.SessionRunner
	logger  *slog.Logger
}

type cinepolisLocation struct {
	idPrefix string
	room     string
}

func NewCinepolis(logger *slog.Logger, static *fetch.Client, browser fetch.SessionRunner) *Cinepolis {
	return &Cinepolis{
		cinemaName: "Cinepolis",
		url:        "https://cinepolis.com.co/cartelera/cali-colombia",
		detailURL:  "https://cinepolis.com.co/pelicula/",
		locations: []cinepolisLocation{
			{idPrefix: "cinepolis-limonar-cali-", room: "Limonar"},
			{idPrefix: "cinepolis-vip-limonar-cali-", room: "VIP Limonar"},
		},
		synopsisSelector: "p#ContentPlaceHolder1_ctl_sinopsis_ctl_sinopsis",
		static:           static,
		browser:          browser,
		logger:           logger,
	}
}

func (c *Cinepolis) CinemaName() string {
	return c.cinemaName
}

// slugFromId extracts the movie slug out of a billboard element id such as
// "cinepolis-limonar-cali-la-monja", along with the theater the id belongs
// to. Both are empty for ids of other cities.
func (c *Cinepolis) slugFromId(id string) (slug, room string) {
	for _, loc := range c.locations {
		if strings.Contains(id, loc.idPrefix) {
			parts := strings.Split(id, loc.idPrefix)
			return parts[len(parts)-1], loc.room
		}
	}

	return "", ""
}

func (c *Cinepolis) ExtractMovies(ctx context.Context) ([]scraper.RawRecord, error) {
	var raws []scraper.RawRecord

	err := c.browser.WithSession(ctx, c.url, func(s fetch.Session) error {
		items, err := s.WaitAll(".tituloPelicula")
		if err != nil {
			return fmt.Errorf("billboard listing: %w", err)
		}

		for _, item := range items {
			raw, ok := c.rawMovie(ctx, item)
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

func (c *Cinepolis) rawMovie(ctx context.Context, item fetch.Element) (scraper.RawRecord, bool) {
	titleEl, err := item.El(".datalayer-movie")
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

	if el, err := item.El(".duracion"); err == nil {
		raw["duration"] = textOf(el)
	}
	if el, err := item.El(".clasificacion"); err == nil {
		raw["classification"] = textOf(el)
	}

	// The datalayer node carries the structured metadata as attributes.
	if details, err := item.El(".data-layer"); err == nil {
		raw["genres"], _ = details.Attr("data-genero")
		raw["director"], _ = details.Attr("data-director")
		raw["actors"], _ = details.Attr("data-actor")
		raw["original_title"], _ = details.Attr("data-titulooriginal")
	}

	if img, err := item.El("img"); err == nil {
		raw["image_url"], _ = img.Attr("src")
	}

	if id, err := titleEl.Attr("id"); err == nil {
		if slug, _ := c.slugFromId(id); slug != "" {
			raw["url"] = c.detailURL + slug
			raw["synopsis"] = c.fetchSynopsis(ctx, raw["url"])
		}
	}

	return raw, true
}

// fetchSynopsis pulls the synopsis from a movie's own page. The billboard
// never carries it.
func (c *Cinepolis) fetchSynopsis(ctx context.Context, url string) string {
	doc, err := c.static.Document(ctx, url)
	if err != nil {
		c.logger.Warn("synopsis page unavailable", "cinema", c.cinemaName, "url", url, "error", err)
		return ""
	}

	return strings.TrimSpace(doc.Find(c.synopsisSelector).Text())
}

func (c *Cinepolis) FormatMovie(raw scraper.RawRecord) (domain.Movie, error) {
	if err := scraper.RequireFields(raw, "title"); err != nil {
		return domain.Movie{}, err
	}

	duration := raw["duration"]
	if duration != "" {
		duration = scraper.TitleCase(duration) + "utos"
	}

	var genres []string
	if g := scraper.Capitalize(raw["genres"]); g != "" {
		genres = []string{g}
	}

	actors := strings.NewReplacer(`"`, "", "[", "", "]", "").Replace(raw["actors"])

	return domain.Movie{
		Title:          raw["title"],
		Duration:       duration,
		Classification: c.formatClassification(raw["classification"]),
		CinemaName:     raw["cinema_name"],
		Genres:         genres,
		OriginalTitle:  raw["original_title"],
		Director:       raw["director"],
		Actors:         actors,
		Synopsis:       raw["synopsis"],
		ImageUrl:       raw["image_url"],
	}, nil
}

func (c *Cinepolis) formatClassification(code string) string {
	switch strings.TrimSpace(code) {
	case "A7":
		return scraper.AgeRating(7)
	case "A12":
		return scraper.AgeRating(12)
	case "A15":
		return scraper.AgeRating(15)
	case "A18":
		return scraper.AgeRating(18)
	default:
		return scraper.AllAudiences
	}
}

func (c *Cinepolis) ExtractShowtimes(ctx context.Context) ([]scraper.RawRecord, error) {
	var raws []scraper.RawRecord

	err := c.browser.WithSession(ctx, c.url, func(s fetch.Session) error {
		items, err := s.WaitAll(".tituloPelicula")
		if err != nil {
			return fmt.Errorf("billboard listing: %w", err)
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

func (c *Cinepolis) rawShowtimes(item fetch.Element) []scraper.RawRecord {
	titleEl, err := item.El(".datalayer-movie")
	if err != nil {
		return nil
	}

	title := textOf(titleEl)
	if title == "" {
		return nil
	}

	id, _ := titleEl.Attr("id")
	slug, room := c.slugFromId(id)
	if slug == "" {
		return nil
	}
	url := c.detailURL + slug

	groups, err := item.All(".horarioExp")
	if err != nil {
		return nil
	}

	var raws []scraper.RawRecord

	for _, group := range groups {
		formatEl, err := group.El(".col3.cf.ng-binding")
		if err != nil {
			continue
		}
		format := textOf(formatEl)

		buttons, err := group.All(".btnhorario")
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
				"room":        room,
				"format":      format,
				"schedule":    schedule,
				"url":         url,
			})
		}
	}

	return raws
}

func (c *Cinepolis) FormatShowtime(raw scraper.RawRecord) (domain.Showtime, error) {
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
		Format:     scraper.TitleCase(strings.Join(strings.Fields(raw["format"]), " ")),
		Date:       scraper.Today(),
		Schedule:   schedule,
		Url:        raw["url"],
	}, nil
}
