package app

import (
	"errors"
	"net/http"
	"slices"

	"github.com/MarlonMora23/API-Calinema/api"
	"github.com/MarlonMora23/API-Calinema/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	DefaultSort     = "id"

	MaxPageSize = 100
)

var movieSortSafelist = []string{
	"id", "title", "cinema_name", "updated_at",
	"-id", "-title", "-cinema_name", "-updated_at",
}

func (app *application) GetMovies(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	filters := domain.MovieFilters{
		Term: readString(qs, "term", ""),
		Sort: readString(qs, "sort", DefaultSort),
	}

	var err error
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
	if !slices.Contains(movieSortSafelist, filters.Sort) {
		app.badRequestResponse(w, r, errors.New("unsupported sort value"))
		return
	}

	movies, metadata, err := app.movieRepo.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.MovieListResponse{
		Movies:   toApiMovies(movies),
		Metadata: toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIdParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiMovie(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiMovies(movies []*domain.Movie) []api.Movie {
	result := make([]api.Movie, len(movies))
	for i, movie := range movies {
		result[i] = toApiMovie(movie)
	}

	return result
}

func toApiMovie(movie *domain.Movie) api.Movie {
	if movie == nil {
		return api.Movie{}
	}

	return api.Movie{
		Id:             movie.ID,
		Title:          movie.Title,
		Duration:       movie.Duration,
		Classification: movie.Classification,
		CinemaName:     movie.CinemaName,
		Genres:         movie.Genres,
		OriginalTitle:  movie.OriginalTitle,
		CountryOrigin:  movie.CountryOrigin,
		Director:       movie.Director,
		Actors:         movie.Actors,
		Language:       movie.Language,
		Synopsis:       movie.Synopsis,
		ImageUrl:       movie.ImageUrl,
		UpdatedAt:      movie.UpdatedAt,
	}
}

func toApiMetadata(metadata *domain.Metadata) *api.Metadata {
	if metadata == nil {
		return nil
	}

	return &api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}
