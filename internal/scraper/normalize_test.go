package scraper

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "afternoon 12 hour", input: "9:30 PM", want: "21:30"},
		{name: "morning 12 hour", input: "9:30 AM", want: "09:30"},
		{name: "noon", input: "12:00 PM", want: "12:00"},
		{name: "midnight", input: "12:00 AM", want: "00:00"},
		{name: "no space before meridiem", input: "7:15PM", want: "19:15"},
		{name: "already 24 hour", input: "14:45", want: "14:45"},
		{name: "spanish lowercase meridiem", input: "9:30 p. m.", want: "21:30"},
		{name: "spanish uppercase meridiem", input: "10:15 A. M.", want: "10:15"},
		{name: "dotted meridiem", input: "8:00 p.m.", want: "20:00"},
		{name: "subtitled marker", input: "6:20 PM *", want: "18:20"},
		{name: "surrounding whitespace", input: "  3:05 pm\n", want: "15:05"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "Sala 4", wantErr: true},
		{name: "out of range", input: "25:61", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Schedule(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidRecord)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "LA MONJA II", want: "La Monja II"},
		{input: "digimon adventure", want: "Digimon Adventure"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TitleCase(tt.input))
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "TERROR", want: "Terror"},
		{input: "comedia", want: "Comedia"},
		{input: "2D ESPAÑOL", want: "2D español"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Capitalize(tt.input))
	}
}

func TestGenres(t *testing.T) {
	tests := []struct {
		name  string
		input string
		sep   string
		want  []string
	}{
		{name: "comma separated", input: "Terror, Suspenso", sep: ",", want: []string{"Terror", "Suspenso"}},
		{name: "single", input: "Drama", sep: ",", want: []string{"Drama"}},
		{name: "empty parts dropped", input: "Drama, , Comedia,", sep: ",", want: []string{"Drama", "Comedia"}},
		{name: "empty input", input: "", sep: ",", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Genres(tt.input, tt.sep)); diff != "" {
				t.Errorf("unexpected genres (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAgeRating(t *testing.T) {
	assert.Equal(t, "Exclusiva para mayores de 15 años", AgeRating(15))
}

func TestToday(t *testing.T) {
	got := Today()

	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, 0, got.Minute())
	assert.Equal(t, time.Now().Day(), got.Day())
}

func TestRequireFields(t *testing.T) {
	raw := RawRecord{"title": "Dune", "schedule": ""}

	require.NoError(t, RequireFields(raw, "title"))

	err := RequireFields(raw, "title", "schedule")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRecord))
	assert.Contains(t, err.Error(), "schedule")
}
