package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/davorg/films/internal/catalog"
	"github.com/davorg/films/internal/config"
)

const tmdbSiteURL = "https://www.themoviedb.org"

// maxErrorBody bounds how much of an error payload is read for diagnostics.
const maxErrorBody = 4096

// APIError describes a non-2xx response from the catalog API.
type APIError struct {
	StatusCode    int
	StatusMessage string
}

func (e *APIError) Error() string {
	if e.StatusMessage != "" {
		return fmt.Sprintf("catalog api: status %d: %s", e.StatusCode, e.StatusMessage)
	}
	return fmt.Sprintf("catalog api: status %d", e.StatusCode)
}

// TMDBCatalog reads movie metadata from the TMDb v3 API.
type TMDBCatalog struct {
	client       *http.Client
	baseURL      string
	imageBaseURL string
	apiKey       string
	language     string
}

var _ catalog.Catalog = (*TMDBCatalog)(nil)

// NewTMDBCatalog wires an HTTP client; a nil client gets the configured
// per-request deadline.
func NewTMDBCatalog(client *http.Client, cfg config.CatalogConfig) *TMDBCatalog {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout()}
	}
	return &TMDBCatalog{
		client:       client,
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimSuffix(cfg.ImageBaseURL, "/"),
		apiKey:       cfg.APIKey,
		language:     cfg.Language,
	}
}

// Name identifies the strategy inside the registry.
func (t *TMDBCatalog) Name() string {
	return "tmdb"
}

// Details fetches the movie details document for one title.
func (t *TMDBCatalog) Details(ctx context.Context, id int64) (catalog.MovieDetails, error) {
	endpoint, err := t.buildEndpoint(fmt.Sprintf("/movie/%d", id), true)
	if err != nil {
		return catalog.MovieDetails{}, err
	}

	var details catalog.MovieDetails
	if err := t.getJSON(ctx, endpoint, &details); err != nil {
		return catalog.MovieDetails{}, err
	}
	return details, nil
}

// ReleaseDates fetches the region-tagged release date document for one title.
func (t *TMDBCatalog) ReleaseDates(ctx context.Context, id int64) (catalog.ReleaseDatesResponse, error) {
	endpoint, err := t.buildEndpoint(fmt.Sprintf("/movie/%d/release_dates", id), false)
	if err != nil {
		return catalog.ReleaseDatesResponse{}, err
	}

	var payload catalog.ReleaseDatesResponse
	if err := t.getJSON(ctx, endpoint, &payload); err != nil {
		return catalog.ReleaseDatesResponse{}, err
	}
	return payload, nil
}

// PosterURL resolves a poster path against the configured image base.
func (t *TMDBCatalog) PosterURL(path string) string {
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return t.imageBaseURL + path
}

// CatalogURL returns the public page for a movie id.
func (t *TMDBCatalog) CatalogURL(id int64) string {
	return fmt.Sprintf("%s/movie/%d", tmdbSiteURL, id)
}

func (t *TMDBCatalog) buildEndpoint(path string, withLanguage bool) (string, error) {
	parsed, err := url.Parse(t.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("invalid catalog url %s: %w", t.baseURL+path, err)
	}

	query := parsed.Query()
	query.Set("api_key", t.apiKey)
	if withLanguage && t.language != "" {
		query.Set("language", t.language)
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func (t *TMDBCatalog) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "films/1.0")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("request catalog: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// checkResponse maps non-2xx statuses to *APIError, pulling the catalog's
// status_message out of the body when one is present.
func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && len(body) > 0 {
		var payload struct {
			StatusMessage string `json:"status_message"`
		}
		if json.Unmarshal(body, &payload) == nil {
			apiErr.StatusMessage = payload.StatusMessage
		}
	}
	return apiErr
}
