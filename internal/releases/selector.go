package releases

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/davorg/films/internal/catalog"
	"github.com/davorg/films/internal/domain"
)

// DefaultRegion is the release region the tracker follows.
const DefaultRegion = "GB"

const dateLayout = "2006-01-02"

// Selector picks the authoritative theatrical release date for one region
// out of a region-tagged release-dates payload.
type Selector struct {
	region string
	logger *slog.Logger
}

// NewSelector builds a selector for the given region; empty defaults to GB.
func NewSelector(region string, logger *slog.Logger) *Selector {
	if region == "" {
		region = DefaultRegion
	}
	return &Selector{region: region, logger: logger}
}

// Select returns the chosen date as YYYY-MM-DD plus its bucket. The earliest
// theatrical date on or after today wins as upcoming; with none in the
// future, the earliest overall is released. No usable date returns ("", "").
// Today is caller-supplied so the outcome is deterministic.
func (s *Selector) Select(payload catalog.ReleaseDatesResponse, today time.Time) (string, domain.Bucket) {
	var entries []catalog.ReleaseDateEntry
	for _, region := range payload.Results {
		if region.Region == s.region {
			entries = region.ReleaseDates
			break
		}
	}

	var days []time.Time
	for _, entry := range entries {
		if entry.Type != catalog.ReleaseTypeTheatrical {
			continue
		}
		day, err := parseReleaseDay(entry.ReleaseDate)
		if err != nil {
			s.warn("skipping unparseable release date", "region", s.region, "value", entry.ReleaseDate)
			continue
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return "", ""
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	ref := today.UTC().Truncate(24 * time.Hour)
	for _, day := range days {
		if !day.Before(ref) {
			return day.Format(dateLayout), domain.BucketUpcoming
		}
	}
	return days[0].Format(dateLayout), domain.BucketReleased
}

// parseReleaseDay reads a catalog date string, ignoring any time suffix.
func parseReleaseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if len(value) > len(dateLayout) {
		value = value[:len(dateLayout)]
	}
	return time.Parse(dateLayout, value)
}

func (s *Selector) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
