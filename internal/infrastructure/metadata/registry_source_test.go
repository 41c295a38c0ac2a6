package metadata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/davorg/films/internal/catalog"
	"github.com/davorg/films/internal/config"
)

func testSource(t *testing.T, handler http.HandlerFunc) *RegistrySource {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.CatalogConfig{
		BaseURL:               server.URL,
		ImageBaseURL:          "https://img.example.org/t/p/w342",
		APIKey:                "test-key",
		Language:              "en-GB",
		RequestTimeoutSeconds: 5,
	}

	registry := catalog.NewRegistry()
	registry.Register(NewTMDBCatalog(server.Client(), cfg))
	return NewRegistrySource(registry, "tmdb", nil)
}

func TestFetchAggregatesRecord(t *testing.T) {
	t.Parallel()

	source := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/movie/603":
			_, _ = w.Write([]byte(detailsBody))
		case "/movie/603/release_dates":
			_, _ = w.Write([]byte(releaseDatesBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	record, err := source.Fetch(context.Background(), 603)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if record.Details.Title != "The Matrix" {
		t.Fatalf("unexpected title: %s", record.Details.Title)
	}
	if len(record.Releases.Results) != 2 {
		t.Fatalf("unexpected regions: %d", len(record.Releases.Results))
	}
	if record.PosterURL != "https://img.example.org/t/p/w342/matrix.jpg" {
		t.Fatalf("unexpected poster url: %s", record.PosterURL)
	}
	if record.CatalogURL != "https://www.themoviedb.org/movie/603" {
		t.Fatalf("unexpected catalog url: %s", record.CatalogURL)
	}
}

func TestFetchRejectsMissingResultsKey(t *testing.T) {
	t.Parallel()

	source := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/movie/603":
			_, _ = w.Write([]byte(detailsBody))
		case "/movie/603/release_dates":
			_, _ = w.Write([]byte(`{"id": 603}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	_, err := source.Fetch(context.Background(), 603)
	if !errors.Is(err, catalog.ErrMissingResults) {
		t.Fatalf("expected ErrMissingResults, got %v", err)
	}
}

func TestFetchAcceptsEmptyResults(t *testing.T) {
	t.Parallel()

	source := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/movie/603":
			_, _ = w.Write([]byte(detailsBody))
		case "/movie/603/release_dates":
			_, _ = w.Write([]byte(`{"id": 603, "results": []}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	record, err := source.Fetch(context.Background(), 603)
	if err != nil {
		t.Fatalf("empty results must be valid, got %v", err)
	}
	if record.Releases.Results == nil || len(record.Releases.Results) != 0 {
		t.Fatalf("expected empty region list, got %+v", record.Releases.Results)
	}
}

func TestFetchPropagatesDetailsFailure(t *testing.T) {
	t.Parallel()

	source := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_message": "not found"}`))
	})

	_, err := source.Fetch(context.Background(), 42)
	if err == nil {
		t.Fatalf("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected wrapped *APIError, got %v", err)
	}
}

func TestFetchUnknownStrategy(t *testing.T) {
	t.Parallel()

	source := NewRegistrySource(catalog.NewRegistry(), "imdb", nil)

	_, err := source.Fetch(context.Background(), 1)
	if !errors.Is(err, catalog.ErrUnknownCatalog) {
		t.Fatalf("expected ErrUnknownCatalog, got %v", err)
	}
}

func TestFetchSkipsPosterWhenAbsent(t *testing.T) {
	t.Parallel()

	source := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/movie/7":
			_, _ = w.Write([]byte(`{"id": 7, "title": "Posterless", "original_title": "Posterless"}`))
		case "/movie/7/release_dates":
			_, _ = w.Write([]byte(`{"id": 7, "results": []}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	record, err := source.Fetch(context.Background(), 7)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if record.PosterURL != "" {
		t.Fatalf("expected empty poster url, got %s", record.PosterURL)
	}
}
