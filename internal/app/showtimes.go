package app

import (
	"errors"
	"net/http"

	"github.com/MarlonMora23/API-Calinema/api"
	"github.com/MarlonMora23/API-Calinema/internal/domain"
	"github.com/MarlonMora23/API-Calinema/internal/scraper"
)

func (app *application) GetShowtimes(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	var filters domain.ShowtimeFilters

	var err error
	if filters.Date, err = readDate(qs, "date", scraper.Today()); err != nil {
		app.badRequestResponse(w, r, errors.New("date "+err.Error()))
		return
	}
	if filters.Page, err = readInt(qs, "page", DefaultPage); err != nil {
		app.badRequestResponse(w, r, errors.New("page "+err.Error()))
		return
	}
	if filters.PageSize, err = readInt(qs, "page_size", DefaultPageSize); err != nil {
		app.badRequestResponse(w, r, errors.New("page_size "+err.Error()))
		return
	}

	if filters.Page < 1 || filters.PageSize < 1 || filters.PageSize > MaxPageSize {
		app.badRequestResponse(w, r, errors.New("page must be positive and page_size between 1 and 100"))
		return
	}

	showtimes, metadata, err := app.showtimeRepo.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ShowtimeListResponse{
		Showtimes: toApiShowtimes(showtimes),
		Metadata:  toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiShowtimes(showtimes []*domain.Showtime) []api.Showtime {
	result := make([]api.Showtime, len(showtimes))
	for i, showtime := range showtimes {
		result[i] = api.Showtime{
			Id:         showtime.ID,
			MovieId:    showtime.MovieID,
			Title:      showtime.Title,
			CinemaName: showtime.CinemaName,
			Room:       showtime.Room,
			Format:     showtime.Format,
			Date:       showtime.Date.Format("2006-01-02"),
			Schedule:   showtime.Schedule,
			Url:        showtime.Url,
		}
	}

	return result
}
