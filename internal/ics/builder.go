package ics

import (
	"fmt"
	"strings"
	"time"

	"github.com/davorg/films/internal/domain"
)

const (
	uidPrefix    = "tmdb"
	uidNamespace = "film-release-tracker"
	productName  = "Film Release Tracker"

	dateLayout  = "2006-01-02"
	dayLayout   = "20060102"
	stampLayout = "20060102T150405Z"
)

// escaper applies calendar text-value escaping in a single pass.
var escaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

// EscapeText escapes backslash, semicolon, comma and newline for use inside
// calendar text values.
func EscapeText(value string) string {
	return escaper.Replace(value)
}

// Timestamp formats t as the UTC stamp shared by every event in one document.
func Timestamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}

// Build renders a calendar document with one all-day event per movie, in the
// order given. Movies without a release date cannot be rendered and are
// skipped. The user identifier personalizes the document headers and event
// identifiers; an empty user produces a generic document.
func Build(movies []domain.Movie, timestampUTC string, user string) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		prodID(user),
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"X-WR-CALNAME:" + EscapeText(calendarName(user)),
		"X-WR-CALDESC:" + EscapeText(calendarDescription(user)),
	}

	for _, movie := range movies {
		if movie.ReleaseDate == nil {
			continue
		}
		start, err := time.Parse(dateLayout, *movie.ReleaseDate)
		if err != nil {
			continue
		}
		end := start.AddDate(0, 0, 1)

		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+EscapeText(eventUID(movie.TMDBID, user)),
			"DTSTAMP:"+timestampUTC,
			"DTSTART;VALUE=DATE:"+start.Format(dayLayout),
			"DTEND;VALUE=DATE:"+end.Format(dayLayout),
			"SUMMARY:"+EscapeText(movie.Title+" (UK theatrical release)"),
			"DESCRIPTION:"+EscapeText("TMDb: "+movie.TMDBURL),
			"STATUS:CONFIRMED",
			"TRANSP:TRANSPARENT",
			"END:VEVENT",
		)
	}

	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\n") + "\n"
}

func prodID(user string) string {
	if user == "" {
		return fmt.Sprintf("PRODID:-//%s//EN", productName)
	}
	return fmt.Sprintf("PRODID:-//%s//%s//EN", productName, user)
}

func calendarName(user string) string {
	if user == "" {
		return "Film Releases"
	}
	return fmt.Sprintf("%s's Film Releases", user)
}

func calendarDescription(user string) string {
	if user == "" {
		return "UK theatrical releases"
	}
	return "UK theatrical releases tracked by " + user
}

func eventUID(id int64, user string) string {
	if user == "" {
		return fmt.Sprintf("%s-%d@%s", uidPrefix, id, uidNamespace)
	}
	return fmt.Sprintf("%s-%d-%s@%s", uidPrefix, id, user, uidNamespace)
}
