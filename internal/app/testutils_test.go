package app

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/MarlonMora23/API-Calinema/internal/mocks"
	"github.com/MarlonMora23/API-Calinema/internal/validator"
)

func newTestApplication(opts ...func(*application)) *application {
	app := &application{
		validator:    validator.NewValidator(),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		movieRepo:    &mocks.MockMovieRepo{},
		showtimeRepo: &mocks.MockShowtimeRepo{},
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func executeRequest(t *testing.T, app *application, method, url string) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(method, url, nil)
	w := httptest.NewRecorder()

	app.routes().ServeHTTP(w, r)

	return w
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var resp T
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	return resp
}

func checkStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()

	if w.Code != want {
		t.Errorf("Expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

