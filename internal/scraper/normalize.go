package scraper

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AllAudiences is the default classification bucket: anything that does not
// map to an age restriction falls back to it.
const AllAudiences = "Para todo el público"

// AgeRating is the restricted classification bucket for the given age.
func AgeRating(years int) string {
	return fmt.Sprintf("Exclusiva para mayores de %d años", years)
}

// TitleCase uppercases the first letter of every word, for sites whose
// source text is in capitals.
func TitleCase(s string) string {
	return cases.Title(language.Spanish).String(s)
}

// Capitalize uppercases the first letter and lowercases the rest.
func Capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			break
		}
	}

	return string(runes)
}

// Genres splits a delimited genre string into a clean ordered list.
func Genres(s, sep string) []string {
	parts := strings.Split(s, sep)
	genres := make([]string, 0, len(parts))
	for _, part := range parts {
		if g := strings.TrimSpace(part); g != "" {
			genres = append(genres, g)
		}
	}

	return genres
}

// Today stamps records whose source has no explicit date.
func Today() time.Time {
	now := time.Now()

	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
}

// Spanish pages write meridiems as "a. m." / "p. m."; asterisks mark
// subtitled screenings on some sites.
var scheduleReplacer = strings.NewReplacer(
	"a. m.", "AM",
	"p. m.", "PM",
	"A. M.", "AM",
	"P. M.", "PM",
	"a.m.", "AM",
	"p.m.", "PM",
	"\n", " ",
	"*", "",
)

var scheduleLayouts = []string{"3:04 PM", "3:04PM", "15:04"}

// Schedule converts a scraped screening time into a zero-padded 24-hour
// "HH:MM" string. Unparseable input returns ErrInvalidRecord: a schedule is
// never guessed or defaulted.
func Schedule(s string) (string, error) {
	cleaned := strings.ToUpper(strings.TrimSpace(scheduleReplacer.Replace(s)))
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	for _, layout := range scheduleLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Format("15:04"), nil
		}
	}

	return "", fmt.Errorf("%w: unparseable schedule %q", ErrInvalidRecord, s)
}
