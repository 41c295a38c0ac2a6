package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func strptr(s string) *string { return &s }

func TestNewFeedMarshalsEmptyBuckets(t *testing.T) {
	t.Parallel()

	feed := NewFeed("alice", "2026-01-01T00:00:00Z")
	raw, err := json.Marshal(feed)
	if err != nil {
		t.Fatalf("marshal feed: %v", err)
	}

	for _, want := range []string{`"upcoming":[]`, `"tbd":[]`, `"released":[]`} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("expected %s in %s", want, raw)
		}
	}
	if !strings.Contains(string(raw), `"username":"alice"`) {
		t.Fatalf("missing username in %s", raw)
	}
}

func TestFeedAdd(t *testing.T) {
	t.Parallel()

	feed := NewFeed("bob", "2026-01-01T00:00:00Z")
	feed.Add(BucketUpcoming, Movie{TMDBID: 1})
	feed.Add(BucketReleased, Movie{TMDBID: 2})
	feed.Add(BucketTBD, Movie{TMDBID: 3})
	feed.Add("", Movie{TMDBID: 4})

	if len(feed.Upcoming) != 1 || feed.Upcoming[0].TMDBID != 1 {
		t.Fatalf("unexpected upcoming bucket: %+v", feed.Upcoming)
	}
	if len(feed.Released) != 1 || feed.Released[0].TMDBID != 2 {
		t.Fatalf("unexpected released bucket: %+v", feed.Released)
	}
	if len(feed.TBD) != 2 {
		t.Fatalf("expected unclassified movies in tbd, got %+v", feed.TBD)
	}
}

func TestFeedSort(t *testing.T) {
	t.Parallel()

	feed := NewFeed("carol", "2026-01-01T00:00:00Z")
	feed.Add(BucketUpcoming, Movie{TMDBID: 1, ReleaseDate: strptr("2026-09-01")})
	feed.Add(BucketUpcoming, Movie{TMDBID: 2, ReleaseDate: strptr("2026-03-15")})
	feed.Add(BucketReleased, Movie{TMDBID: 3, ReleaseDate: strptr("2020-05-01")})
	feed.Add(BucketReleased, Movie{TMDBID: 4, ReleaseDate: strptr("2023-11-20")})
	feed.Add(BucketTBD, Movie{TMDBID: 5, Title: "zebra"})
	feed.Add(BucketTBD, Movie{TMDBID: 6, Title: "Aardvark"})

	feed.Sort()

	if feed.Upcoming[0].TMDBID != 2 || feed.Upcoming[1].TMDBID != 1 {
		t.Fatalf("upcoming not ascending by date: %+v", feed.Upcoming)
	}
	if feed.Released[0].TMDBID != 4 || feed.Released[1].TMDBID != 3 {
		t.Fatalf("released not descending by date: %+v", feed.Released)
	}
	if feed.TBD[0].TMDBID != 6 || feed.TBD[1].TMDBID != 5 {
		t.Fatalf("tbd not alphabetical: %+v", feed.TBD)
	}
}

func TestMovieMarshalsNullFields(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(Movie{TMDBID: 42, Title: "Mystery", TMDBURL: "https://www.themoviedb.org/movie/42"})
	if err != nil {
		t.Fatalf("marshal movie: %v", err)
	}

	if !strings.Contains(string(raw), `"release_date":null`) {
		t.Fatalf("expected null release_date in %s", raw)
	}
	if !strings.Contains(string(raw), `"poster_url":null`) {
		t.Fatalf("expected null poster_url in %s", raw)
	}
}
