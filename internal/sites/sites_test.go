package sites

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarlonMora23/API-Calinema/internal/domain"
	"github.com/MarlonMora23/API-Calinema/internal/fetch"
	"github.com/MarlonMora23/API-Calinema/internal/mocks"
	"github.com/MarlonMora23/API-Calinema/internal/scraper"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAll(t *testing.T) {
	adapters := All(discardLogger(), fetch.NewClient(time.Second), &mocks.MockBrowser{})

	require.Len(t, adapters, 5)

	names := make(map[string]bool)
	for _, a := range adapters {
		names[a.CinemaName()] = true
	}
	for _, want := range []string{"CineColombia", "Cinepolis", "CineMark", "IziMovie", "RoyalFilms"} {
		assert.True(t, names[want], "missing adapter %s", want)
	}
}

func TestCineColombiaExtractMovies(t *testing.T) {
	detail := `<html><body>
		<div class="movie-details__block"><p>Una monja investiga  un convento.</p></div>
		<div class="movie-details__block"><p>The Nun II</p></div>
		<div class="movie-details__block"><p>Estados Unidos</p></div>
		<div class="movie-details__block"><p>Michael Chaves</p></div>
		<div class="movie-details__block"><p>Taissa Farmiga</p></div>
		<div class="movie-details__block"><p>Español</p></div>
	</body></html>`

	listing := `<html><body>
		<a class="movie-item" href="/cali/la-monja-2">
			<h2 class="movie-item__title">La Monja II</h2>
			<span class="movie-item__meta">Género: Terror, Suspenso</span>
			<span class="movie-item__meta">Duración: 110 Min</span>
			<span class="movie-item__meta">Clasificación: Mayores de 15 años</span>
			<img data-src="https://img.example.com/monja.jpg">
		</a>
		<a class="movie-item" href="/cali/sin-titulo">
			<h2 class="movie-item__title"></h2>
		</a>
	</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cali/cartelera":
			io.WriteString(w, listing)
		case "/cali/la-monja-2":
			io.WriteString(w, detail)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	adapter := NewCineColombia(discardLogger(), fetch.NewClient(5*time.Second), &mocks.MockBrowser{})
	adapter.url = srv.URL + "/cali/cartelera"
	adapter.baseURL = srv.URL

	raws, err := adapter.ExtractMovies(context.Background())
	require.NoError(t, err)
	require.Len(t, raws, 1)

	want := scraper.RawRecord{
		"title":          "La Monja II",
		"cinema_name":    "CineColombia",
		"genres":         "Género: Terror, Suspenso",
		"duration":       "110 Min",
		"classification": "Mayores de 15 años",
		"image_url":      "https://img.example.com/monja.jpg",
		"synopsis":       "Una monja investiga un convento.",
		"original_title": "The Nun II",
		"country_origin": "Estados Unidos",
		"director":       "Michael Chaves",
		"actors":         "Taissa Farmiga",
		"language":       "Español",
	}
	if diff := cmp.Diff(want, raws[0]); diff != "" {
		t.Errorf("unexpected record (-want +got):\n%s", diff)
	}
}

func TestCineColombiaFormatMovie(t *testing.T) {
	adapter := NewCineColombia(discardLogger(), nil, nil)

	movie, err := adapter.FormatMovie(scraper.RawRecord{
		"title":          "La Monja II",
		"cinema_name":    "CineColombia",
		"duration":       "110 Min",
		"classification": "MAYORES DE 15 AÑOS",
		"genres":         "Género: Terror, Suspenso",
		"original_title": "The Nun II",
	})
	require.NoError(t, err)

	want := domain.Movie{
		Title:          "La Monja II",
		Duration:       "110 Minutos",
		Classification: "Mayores de 15 años",
		CinemaName:     "CineColombia",
		Genres:         []string{"Terror", "Suspenso"},
		OriginalTitle:  "The Nun II",
	}
	if diff := cmp.Diff(want, movie, cmpopts.IgnoreFields(domain.Movie{}, "CreatedAt", "UpdatedAt")); diff != "" {
		t.Errorf("unexpected movie (-want +got):\n%s", diff)
	}

	_, err = adapter.FormatMovie(scraper.RawRecord{"cinema_name": "CineColombia"})
	assert.ErrorIs(t, err, scraper.ErrInvalidRecord)
}

func TestCineColombiaExtractShowtimes(t *testing.T) {
	timeEl := func(text string) *mocks.MockElement {
		return &mocks.MockElement{TextValue: text}
	}

	detailPage := &mocks.MockPage{
		Elements: map[string][]*mocks.MockElement{
			".ezstring-field": {{TextValue: "La Monja II"}},
			".collapsible": {
				{
					Children: map[string][]*mocks.MockElement{
						".show-times-collapse__title": {{TextValue: "Chipichape"}},
						".show-times-group": {
							{
								Children: map[string][]*mocks.MockElement{
									".show-times-group__attrs":   {{TextValue: "2D  DOBLADA"}},
									".show-times-group__times a": {timeEl("7:30 PM"), timeEl("9:45 PM")},
								},
							},
						},
					},
				},
			},
		},
	}

	listingPage := &mocks.MockPage{
		Elements: map[string][]*mocks.MockElement{
			"a.movie-item": {
				{Attrs: map[string]string{"href": "https://www.cinecolombia.com/cali/la-monja-2"}},
			},
			".cookie-modal": {
				{Children: map[string][]*mocks.MockElement{"button": {{}}}},
			},
		},
	}

	browser := &mocks.MockBrowser{
		Pages: map[string]*mocks.MockPage{
			"https://www.cinecolombia.com/cali/cartelera":  listingPage,
			"https://www.cinecolombia.com/cali/la-monja-2": detailPage,
		},
	}

	adapter := NewCineColombia(discardLogger(), nil, browser)

	raws, err := adapter.ExtractShowtimes(context.Background())
	require.NoError(t, err)
	require.Len(t, raws, 2)

	assert.Equal(t, "La Monja II", raws[0]["title"])
	assert.Equal(t, "Chipichape", raws[0]["room"])
	assert.Equal(t, "2D  DOBLADA", raws[0]["format"])
	assert.Equal(t, "7:30 PM", raws[0]["schedule"])
	assert.Equal(t, "9:45 PM", raws[1]["schedule"])

	// The consent dialog was dismissed before reading the listing.
	assert.True(t, listingPage.Elements[".cookie-modal"][0].Children["button"][0].Clicked)
}

func TestCineColombiaFormatShowtime(t *testing.T) {
	adapter := NewCineColombia(discardLogger(), nil, nil)

	showtime, err := adapter.FormatShowtime(scraper.RawRecord{
		"title":       "La Monja II",
		"cinema_name": "CineColombia",
		"room":        "Chipichape",
		"format":      "2D  DOBLADA",
		"schedule":    "7:30 PM",
		"url":         "https://www.cinecolombia.com/cali/la-monja-2",
	})
	require.NoError(t, err)

	assert.Equal(t, "19:30", showtime.Schedule)
	assert.Equal(t, "2D DOBLADA", showtime.Format)
	assert.Equal(t, scraper.Today(), showtime.Date)

	_, err = adapter.FormatShowtime(scraper.RawRecord{
		"title": "La Monja II", "room": "Chipichape", "format": "2D", "url": "x",
	})
	assert.ErrorIs(t, err, scraper.ErrInvalidRecord)
}

func TestCinepolisFormatMovie(t *testing.T) {
	adapter := NewCinepolis(discardLogger(), nil, nil)

	movie, err := adapter.FormatMovie(scraper.RawRecord{
		"title":          "La Monja II",
		"cinema_name":    "Cinepolis",
		"duration":       "1 HR 50 MIN",
		"classification": "A15",
		"genres":         "TERROR",
		"actors":         `["Taissa Farmiga","Bonnie Aarons"]`,
		"director":       "Michael Chaves",
	})
	require.NoError(t, err)

	assert.Equal(t, "1 Hr 50 Minutos", movie.Duration)
	assert.Equal(t, "Exclusiva para mayores de 15 años", movie.Classification)
	assert.Equal(t, []string{"Terror"}, movie.Genres)
	assert.Equal(t, "Taissa Farmiga,Bonnie Aarons", movie.Actors)
}

func TestCinepolisClassification(t *testing.T) {
	adapter := NewCinepolis(discardLogger(), nil, nil)

	tests := []struct {
		code string
		want string
	}{
		{code: "TP", want: scraper.AllAudiences},
		{code: "A7", want: scraper.AgeRating(7)},
		{code: "A12", want: scraper.AgeRating(12)},
		{code: "A15", want: scraper.AgeRating(15)},
		{code: "A18", want: scraper.AgeRating(18)},
		{code: "", want: scraper.AllAudiences},
		{code: "B99", want: scraper.AllAudiences},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, adapter.formatClassification(tt.code), "code %q", tt.code)
	}
}

func TestCinepolisExtractShowtimes(t *testing.T) {
	item := func(id, title string, groups ...*mocks.MockElement) *mocks.MockElement {
		return &mocks.MockElement{
			Children: map[string][]*mocks.MockElement{
				".datalayer-movie": {{TextValue: title, Attrs: map[string]string{"id": id}}},
				".horarioExp":      groups,
			},
		}
	}
	group := func(format string, times ...string) *mocks.MockElement {
		buttons := make([]*mocks.MockElement, len(times))
		for i, t := range times {
			buttons[i] = &mocks.MockElement{TextValue: t}
		}
		return &mocks.MockElement{
			Children: map[string][]*mocks.MockElement{
				".col3.cf.ng-binding": {{TextValue: "DIGITAL ESP"}},
				".btnhorario":         buttons,
			},
		}
	}
	browser := &mocks.MockBrowser{
		Pages: map[string]*mocks.MockPage{
			"https://cinepolis.com.co/cartelera/cali-colombia": {
				Elements: map[string][]*mocks.MockElement{
					".tituloPelicula": {
						item("cinepolis-limonar-cali-la-monja-2", "La Monja II", group("DIGITAL ESP", "3:20 PM", "8:10 PM")),
						item("cinepolis-vip-limonar-cali-la-monja-2", "La Monja II", group("DIGITAL ESP", "9:00 PM")),
						item("cinepolis-bogota-otra-pelicula", "Otra Película", group("DIGITAL ESP", "4:00 PM")),
					},
				},
			},
		},
	}

	adapter := NewCinepolis(discardLogger(), nil, browser)

	raws, err := adapter.ExtractShowtimes(context.Background())
	require.NoError(t, err)

	// The Bogotá entry shares the page but belongs to no configured theater.
	require.Len(t, raws, 3)
	assert.Equal(t, "Limonar", raws[0]["room"])
	assert.Equal(t, "Limonar", raws[1]["room"])
	assert.Equal(t, "VIP Limonar", raws[2]["room"])
	assert.Equal(t, "https://cinepolis.com.co/pelicula/la-monja-2", raws[0]["url"])
}

func TestCineMarkFormatMovie(t *testing.T) {
	adapter := NewCineMark(discardLogger(), nil)

	movie, err := adapter.FormatMovie(scraper.RawRecord{
		"title":          "LA MONJA II",
		"cinema_name":    "CineMark",
		"duration":       "1H 50MIN",
		"classification": "+ 15 AÑOS",
		"original_title": "THE NUN II",
	})
	require.NoError(t, err)

	assert.Equal(t, "La Monja II", movie.Title)
	assert.Equal(t, "1H 50Min", movie.Duration)
	assert.Equal(t, scraper.AgeRating(15), movie.Classification)
	assert.Equal(t, "The Nun II", movie.OriginalTitle)

	movie, err = adapter.FormatMovie(scraper.RawRecord{
		"title":          "PAW PATROL",
		"cinema_name":    "CineMark",
		"classification": "RECOMENDADA",
	})
	require.NoError(t, err)
	assert.Equal(t, scraper.AllAudiences, movie.Classification)
}

func TestCineMarkExtractShowtimes(t *testing.T) {
	browser := &mocks.MockBrowser{
		Pages: map[string]*mocks.MockPage{
			"https://www.cinemark.com.co/ciudad/cali/pacific-mall": {
				Elements: map[string][]*mocks.MockElement{
					".section-detail__schedule": {
						{
							Children: map[string][]*mocks.MockElement{
								".section-detail__title": {{TextValue: "LA MONJA II"}},
								"a":                      {{Attrs: map[string]string{"href": "/pelicula/la-monja-2"}}},
								".theater-detail__container--principal__co": {
									{
										Children: map[string][]*mocks.MockElement{
											".formats__item":            {{TextValue: "2D"}, {TextValue: "DOB"}},
											".sessions__button--runtime": {{TextValue: "6:40 PM"}},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}

	adapter := NewCineMark(discardLogger(), browser)

	raws, err := adapter.ExtractShowtimes(context.Background())
	require.NoError(t, err)
	require.Len(t, raws, 1)

	assert.Equal(t, "LA MONJA II", raws[0]["title"])
	assert.Equal(t, "Pacific Mall", raws[0]["room"])
	assert.Equal(t, "2D DOB", raws[0]["format"])
	assert.Equal(t, "6:40 PM", raws[0]["schedule"])
	assert.Equal(t, "https://www.cinemark.com.co/pelicula/la-monja-2", raws[0]["url"])
}

func TestIziMovieExtractMovies(t *testing.T) {
	browser := &mocks.MockBrowser{
		Pages: map[string]*mocks.MockPage{
			"https://izi.movie/programacion.php": {
				Elements: map[string][]*mocks.MockElement{
					".movie": {
						{
							Children: map[string][]*mocks.MockElement{
								".movie__title": {{TextValue: "LA MONJA II"}},
								".movie__time":  {{TextValue: "110 MIN"}},
								".movie__option": {
									{TextValue: "Género: Terror"},
									{TextValue: "Clasificación: 15 años"},
									{TextValue: "Idioma: Español"},
									{TextValue: "Formato: 2D"},
									{TextValue: "Sinopsis: Una monja investiga."},
								},
								".movie__images": {
									{Children: map[string][]*mocks.MockElement{
										"img": {{Attrs: map[string]string{"src": "https://izi.movie/img/monja.jpg"}}},
									}},
								},
							},
						},
					},
				},
			},
		},
	}

	adapter := NewIziMovie(discardLogger(), browser)

	raws, err := adapter.ExtractMovies(context.Background())
	require.NoError(t, err)
	require.Len(t, raws, 1)

	assert.Equal(t, "LA MONJA II", raws[0]["title"])
	assert.Equal(t, "110 MIN", raws[0]["duration"])
	assert.Equal(t, "Género: Terror", raws[0]["genres"])
	assert.Equal(t, "Clasificación: 15 años", raws[0]["classification"])
	assert.Equal(t, "Sinopsis: Una monja investiga.", raws[0]["synopsis"])
	assert.Equal(t, "https://izi.movie/img/monja.jpg", raws[0]["image_url"])
}

func TestIziMovieFormatMovie(t *testing.T) {
	adapter := NewIziMovie(discardLogger(), nil)

	movie, err := adapter.FormatMovie(scraper.RawRecord{
		"title":          "LA MONJA II",
		"cinema_name":    "IziMovie",
		"duration":       "110 MIN",
		"classification": "Clasificación: 15 años",
		"genres":         "Género: Terror",
		"synopsis":       "Sinopsis: Una monja investiga.",
	})
	require.NoError(t, err)

	assert.Equal(t, "La Monja II", movie.Title)
	assert.Equal(t, "110 Minutos", movie.Duration)
	assert.Equal(t, scraper.AgeRating(15), movie.Classification)
	assert.Equal(t, []string{"Terror"}, movie.Genres)
	assert.Equal(t, "Una monja investiga.", movie.Synopsis)
}

func TestIziMovieClassification(t *testing.T) {
	adapter := NewIziMovie(discardLogger(), nil)

	tests := []struct {
		text string
		want string
	}{
		{text: "Clasificación: Todo Publico", want: scraper.AllAudiences},
		{text: "Clasificación: 7 años", want: scraper.AgeRating(7)},
		{text: "Clasificación: 12 años", want: scraper.AgeRating(12)},
		{text: "Clasificación: 18 años", want: scraper.AgeRating(18)},
		{text: "", want: scraper.AllAudiences},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, adapter.formatClassification(tt.text), "text %q", tt.text)
	}
}

func TestIziMovieFormatShowtime(t *testing.T) {
	adapter := NewIziMovie(discardLogger(), nil)

	showtime, err := adapter.FormatShowtime(scraper.RawRecord{
		"title":       "LA MONJA II",
		"cinema_name": "IziMovie",
		"room":        "Aquarela",
		"format":      "Tipo: 2D Doblada",
		"schedule":    "20:30*",
		"url":         "https://izi.movie/pelicula.php?id=7",
	})
	require.NoError(t, err)

	assert.Equal(t, "La Monja II", showtime.Title)
	assert.Equal(t, "2D Doblada", showtime.Format)
	assert.Equal(t, "20:30", showtime.Schedule)
}

func TestRoyalFilmsFormatMovie(t *testing.T) {
	adapter := NewRoyalFilms(discardLogger(), nil)

	movie, err := adapter.FormatMovie(scraper.RawRecord{
		"title":          "LA MONJA II",
		"cinema_name":    "RoyalFilms",
		"duration":       "110 MINS",
		"classification": "+15 años",
		"genres":         "TERROR | SUSPENSO",
		"original_title": "Nombre original: THE NUN II",
		"director":       "Director: MICHAEL CHAVES",
		"actors":         "Reparto: TAISSA FARMIGA",
		"language":       "ESPAÑOL",
	})
	require.NoError(t, err)

	assert.Equal(t, "La Monja II", movie.Title)
	assert.Equal(t, "110 Minutos", movie.Duration)
	assert.Equal(t, scraper.AgeRating(15), movie.Classification)
	assert.Equal(t, []string{"Terror", "Suspenso"}, movie.Genres)
	assert.Equal(t, "The Nun II", movie.OriginalTitle)
	assert.Equal(t, "Michael Chaves", movie.Director)
	assert.Equal(t, "Taissa Farmiga", movie.Actors)
	assert.Equal(t, "Español", movie.Language)
}

func TestRoyalFilmsExtractShowtimes(t *testing.T) {
	roomPanel := func(name string, times ...string) *mocks.MockElement {
		timeEls := make([]*mocks.MockElement, len(times))
		for i, tm := range times {
			timeEls[i] = &mocks.MockElement{TextValue: tm}
		}
		return &mocks.MockElement{
			Children: map[string][]*mocks.MockElement{
				".panel-title": {{TextValue: name}},
				".st_calender_asc": {
					{
						Children: map[string][]*mocks.MockElement{
							"h3": {{TextValue: "2D Doblada"}},
							"a":  timeEls,
						},
					},
				},
			},
		}
	}

	browser := &mocks.MockBrowser{
		Pages: map[string]*mocks.MockPage{
			"https://royal-films.com/cartelera/cali": {
				Elements: map[string][]*mocks.MockElement{
					".prs_upcom_movie_box_wrapper": {
						{Children: map[string][]*mocks.MockElement{
							"a": {{Attrs: map[string]string{"href": "/pelicula/la-monja-2/cali"}}},
						}},
						// Duplicate card for the same film.
						{Children: map[string][]*mocks.MockElement{
							"a": {{Attrs: map[string]string{"href": "/pelicula/la-monja-2/cali"}}},
						}},
					},
				},
			},
			"https://royal-films.com/pelicula/la-monja-2/cali": {
				Elements: map[string][]*mocks.MockElement{
					".st_video_slide_sec": {{TextValue: "LA MONJA II\nESPAÑOL\nTERROR"}},
					".panel.panel-default.sidebar_pannel.ng-star-inserted": {
						roomPanel("Unicentro", "2:30 p. m.", "7:00 p. m."),
						roomPanel("Centenario", "8:15 p. m."),
					},
				},
			},
		},
	}

	adapter := NewRoyalFilms(discardLogger(), browser)

	raws, err := adapter.ExtractShowtimes(context.Background())
	require.NoError(t, err)
	require.Len(t, raws, 3)

	assert.Equal(t, "LA MONJA II", raws[0]["title"])
	assert.Equal(t, "Unicentro", raws[0]["room"])
	assert.Equal(t, "2D Doblada", raws[0]["format"])
	assert.Equal(t, "2:30 p. m.", raws[0]["schedule"])
	assert.Equal(t, "Centenario", raws[2]["room"])
}

func TestRoyalFilmsFormatShowtime(t *testing.T) {
	adapter := NewRoyalFilms(discardLogger(), nil)

	showtime, err := adapter.FormatShowtime(scraper.RawRecord{
		"title":       "LA MONJA II",
		"cinema_name": "RoyalFilms",
		"room":        "Unicentro",
		"format":      "2D Doblada",
		"schedule":    "2:30 p. m.",
		"url":         "https://royal-films.com/pelicula/la-monja-2/cali",
	})
	require.NoError(t, err)

	assert.Equal(t, "La Monja II", showtime.Title)
	assert.Equal(t, "14:30", showtime.Schedule)
	assert.Equal(t, scraper.Today(), showtime.Date)
}
