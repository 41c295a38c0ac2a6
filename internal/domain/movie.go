package domain

import (
	"sort"
	"strings"
)

// Movie is a classified watchlist title ready for feed and calendar output.
// Pointer fields marshal to JSON null when the value is unknown.
type Movie struct {
	TMDBID      int64   `json:"tmdb_id"`
	Title       string  `json:"title"`
	ReleaseDate *string `json:"release_date"`
	PosterURL   *string `json:"poster_url"`
	TMDBURL     string  `json:"tmdb_url"`
}

// Bucket classifies a movie's UK theatrical status for one run. The zero
// value means the selector found nothing; callers file it under TBD.
type Bucket string

const (
	BucketUpcoming Bucket = "upcoming"
	BucketReleased Bucket = "released"
	BucketTBD      Bucket = "tbd"
)

// WatchlistEntry is one tracked title inside a user's watchlist file.
type WatchlistEntry struct {
	TMDBID    int64  `json:"tmdb_id"`
	TitleHint string `json:"title_hint"`
}

// Feed is the per-user releases.json document.
type Feed struct {
	Username    string  `json:"username"`
	GeneratedAt string  `json:"generated_at"`
	Upcoming    []Movie `json:"upcoming"`
	TBD         []Movie `json:"tbd"`
	Released    []Movie `json:"released"`
}

// NewFeed builds a feed whose buckets marshal as empty arrays rather than null.
func NewFeed(username, generatedAt string) Feed {
	return Feed{
		Username:    username,
		GeneratedAt: generatedAt,
		Upcoming:    []Movie{},
		TBD:         []Movie{},
		Released:    []Movie{},
	}
}

// Add appends the movie to the bucket it was classified into.
func (f *Feed) Add(bucket Bucket, movie Movie) {
	switch bucket {
	case BucketUpcoming:
		f.Upcoming = append(f.Upcoming, movie)
	case BucketReleased:
		f.Released = append(f.Released, movie)
	default:
		f.TBD = append(f.TBD, movie)
	}
}

// Sort orders the buckets for presentation: upcoming soonest first, released
// most recent first, TBD alphabetically by lowercased title. ISO date strings
// compare correctly as plain strings; ties keep watchlist order.
func (f *Feed) Sort() {
	sort.SliceStable(f.Upcoming, func(i, j int) bool {
		return releaseDay(f.Upcoming[i]) < releaseDay(f.Upcoming[j])
	})
	sort.SliceStable(f.Released, func(i, j int) bool {
		return releaseDay(f.Released[i]) > releaseDay(f.Released[j])
	})
	sort.SliceStable(f.TBD, func(i, j int) bool {
		return strings.ToLower(f.TBD[i].Title) < strings.ToLower(f.TBD[j].Title)
	})
}

func releaseDay(m Movie) string {
	if m.ReleaseDate == nil {
		return ""
	}
	return *m.ReleaseDate
}
