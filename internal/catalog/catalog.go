package catalog

import (
	"context"
	"errors"
	"fmt"
)

// Release types carried by the catalog's release_dates payload. Only the
// theatrical type drives classification; the rest are listed for reference.
const (
	ReleaseTypePremiere          = 1
	ReleaseTypeTheatricalLimited = 2
	ReleaseTypeTheatrical        = 3
	ReleaseTypeDigital           = 4
	ReleaseTypePhysical          = 5
	ReleaseTypeTV                = 6
)

// ErrMissingResults reports a release-dates payload without a results key.
var ErrMissingResults = errors.New("release dates payload has no results")

// ErrUnknownCatalog reports a strategy name absent from the registry.
var ErrUnknownCatalog = errors.New("catalog is not registered")

// MovieDetails mirrors the subset of the movie details payload the tracker uses.
type MovieDetails struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	OriginalTitle string `json:"original_title"`
	PosterPath    string `json:"poster_path"`
}

// ReleaseDateEntry is a single dated release inside one region block.
type ReleaseDateEntry struct {
	Certification string `json:"certification"`
	ReleaseDate   string `json:"release_date"`
	Type          int    `json:"type"`
}

// RegionReleaseDates groups release entries under one ISO 3166-1 region code.
type RegionReleaseDates struct {
	Region       string             `json:"iso_3166_1"`
	ReleaseDates []ReleaseDateEntry `json:"release_dates"`
}

// ReleaseDatesResponse mirrors the catalog's release_dates payload. A nil
// Results slice means the payload carried no results key at all, which is
// distinct from an empty region list.
type ReleaseDatesResponse struct {
	ID      int64                `json:"id"`
	Results []RegionReleaseDates `json:"results"`
}

// MovieRecord aggregates the two per-title catalog reads plus resolved links.
type MovieRecord struct {
	Details    MovieDetails
	Releases   ReleaseDatesResponse
	PosterURL  string
	CatalogURL string
}

// Catalog captures a single metadata-source strategy (TMDb, a mirror, etc.).
type Catalog interface {
	Name() string
	Details(ctx context.Context, id int64) (MovieDetails, error)
	ReleaseDates(ctx context.Context, id int64) (ReleaseDatesResponse, error)
	PosterURL(path string) string
	CatalogURL(id int64) string
}

// Registry keeps a mapping from catalog names to their implementations.
type Registry struct {
	catalogs map[string]Catalog
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{catalogs: map[string]Catalog{}}
}

// Register adds or replaces a catalog implementation.
func (r *Registry) Register(catalog Catalog) {
	if r.catalogs == nil {
		r.catalogs = map[string]Catalog{}
	}
	r.catalogs[catalog.Name()] = catalog
}

// Resolve returns a catalog by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Catalog, error) {
	if catalog, ok := r.catalogs[name]; ok {
		return catalog, nil
	}
	return nil, fmt.Errorf("%s: %w", name, ErrUnknownCatalog)
}
