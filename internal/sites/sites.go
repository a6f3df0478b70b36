// Package sites implements one scraper.Adapter per cinema chain. Each
// adapter knows the markup of its own site: which selectors hold each field,
// which modals or selectors stand between the landing page and the listing,
// and how that site's raw text maps to canonical values. Positional field
// maps and location labels are plain struct fields so a markup change on one
// site never touches shared engine code.
package sites

import (
	"log/slog"
	"strings"

	"github.com/MarlonMora23/API-Calinema/internal/fetch"
	"github.com/MarlonMora23/API-Calinema/internal/scraper"
)

// All returns the configured adapters in their run order.
func All(logger *slog.Logger, static *fetch.Client, browser fetch.SessionRunner) []scraper.Adapter {
	return []scraper.Adapter{
		NewCineColombia(logger, static, browser),
		NewCinepolis(logger, static, browser),
		NewCineMark(logger, browser),
		NewIziMovie(logger, browser),
		NewRoyalFilms(logger, browser),
	}
}

func absoluteURL(base, href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}

	return base + href
}

func textOf(el fetch.Element) string {
	text, err := el.Text()
	if err != nil {
		return ""
	}

	return strings.TrimSpace(text)
}

// line returns the i-th line of a block of element text, or "" when the
// block is shorter than expected.
func line(lines []string, i int) string {
	if i < 0 || i >= len(lines) {
		return ""
	}

	return strings.TrimSpace(lines[i])
}

// lastAfter returns the part of s after the final occurrence of prefix;
// s unchanged when the prefix is absent.
func lastAfter(s, prefix string) string {
	parts := strings.Split(s, prefix)

	return parts[len(parts)-1]
}
