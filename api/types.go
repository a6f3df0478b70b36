// Package api defines the JSON shapes of the HTTP surface.
package api

import "time"

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validation_errors"`
	RequestId        string            `json:"request_id,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

type Movie struct {
	Id             int       `json:"id"`
	Title          string    `json:"title"`
	Duration       string    `json:"duration"`
	Classification string    `json:"classification"`
	CinemaName     string    `json:"cinema_name"`
	Genres         []string  `json:"genres"`
	OriginalTitle  string    `json:"original_title,omitempty"`
	CountryOrigin  string    `json:"country_origin,omitempty"`
	Director       string    `json:"director,omitempty"`
	Actors         string    `json:"actors,omitempty"`
	Language       string    `json:"language,omitempty"`
	Synopsis       string    `json:"synopsis,omitempty"`
	ImageUrl       string    `json:"image_url,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type MovieListResponse struct {
	Movies   []Movie   `json:"movies"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

type Showtime struct {
	Id         int    `json:"id"`
	MovieId    int    `json:"movie_id"`
	Title      string `json:"title"`
	CinemaName string `json:"cinema_name"`
	Room       string `json:"room"`
	Format     string `json:"format"`
	Date       string `json:"date"`
	Schedule   string `json:"schedule"`
	Url        string `json:"url"`
}

type ShowtimeListResponse struct {
	Showtimes []Showtime `json:"showtimes"`
	Metadata  *Metadata  `json:"metadata,omitempty"`
}

type Metadata struct {
	CurrentPage  int `json:"current_page"`
	FirstPage    int `json:"first_page"`
	LastPage     int `json:"last_page"`
	PageSize     int `json:"page_size"`
	TotalRecords int `json:"total_records"`
}

type Run struct {
	Id         string          `json:"id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Adapters   []AdapterReport `json:"adapters"`
	Submitted  int             `json:"submitted"`
	Dropped    int             `json:"dropped"`
	Errors     []string        `json:"errors,omitempty"`
}

type AdapterReport struct {
	CinemaName string `json:"cinema_name"`
	Movies     int    `json:"movies"`
	Showtimes  int    `json:"showtimes"`
	Error      string `json:"error,omitempty"`
}

// RunResponse wraps the summary of a scraping run.
type RunResponse struct {
	Run Run `json:"run"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"system_info"`
}
