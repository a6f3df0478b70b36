package domain

import "errors"

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrMovieNotFound  = errors.New("movie not found for showtime")
)
