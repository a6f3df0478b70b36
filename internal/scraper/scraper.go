// Package scraper holds the multi-site extraction engine: the adapter
// contract every cinema chain implements, the shared extraction pipeline,
// and the normalization utilities that turn loosely formatted source text
// into the canonical record shape.
package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/MarlonMora23/API-Calinema/internal/domain"
)

// RawRecord is the untyped field mapping read straight off a page. It makes
// no validity guarantees and is discarded as soon as it has been formatted.
type RawRecord map[string]string

// ErrInvalidRecord invalidates a single record during formatting. It never
// affects sibling records, the adapter, or the run.
var ErrInvalidRecord = errors.New("invalid record")

// Adapter is one cinema chain: extraction locates listing items and reads
// raw text, formatting maps raw strings to canonical values. Formatting
// must be pure; extraction owns whatever transient page or session state a
// single call needs, and nothing survives between calls.
type Adapter interface {
	CinemaName() string

	ExtractMovies(ctx context.Context) ([]RawRecord, error)
	FormatMovie(raw RawRecord) (domain.Movie, error)

	ExtractShowtimes(ctx context.Context) ([]RawRecord, error)
	FormatShowtime(raw RawRecord) (domain.Showtime, error)
}

// RequireFields reports ErrInvalidRecord naming the first empty field. Every
// showtime formatter runs this before converting anything.
func RequireFields(raw RawRecord, fields ...string) error {
	for _, field := range fields {
		if raw[field] == "" {
			return fmt.Errorf("%w: missing %s", ErrInvalidRecord, field)
		}
	}

	return nil
}
