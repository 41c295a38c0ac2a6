package metadata

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/davorg/films/internal/catalog"
	"github.com/davorg/films/internal/ports"
)

// RegistrySource implements MetadataSource via registered catalog strategies.
// It owns the aggregation of the two per-title reads and the payload shape
// checks the fetch boundary leaves to its caller.
type RegistrySource struct {
	registry *catalog.Registry
	name     string
	logger   *slog.Logger
}

var _ ports.MetadataSource = (*RegistrySource)(nil)

// NewRegistrySource wires the catalog registry with the configured strategy name.
func NewRegistrySource(reg *catalog.Registry, name string, log *slog.Logger) *RegistrySource {
	return &RegistrySource{
		registry: reg,
		name:     name,
		logger:   log,
	}
}

// Fetch aggregates the details and release-dates reads for one title.
func (s *RegistrySource) Fetch(ctx context.Context, tmdbID int64) (catalog.MovieRecord, error) {
	if s.registry == nil {
		return catalog.MovieRecord{}, fmt.Errorf("catalog registry is not configured")
	}

	strategy, err := s.registry.Resolve(s.name)
	if err != nil {
		return catalog.MovieRecord{}, err
	}

	s.debug("fetch movie", "catalog", s.name, "tmdb_id", tmdbID)

	details, err := strategy.Details(ctx, tmdbID)
	if err != nil {
		return catalog.MovieRecord{}, fmt.Errorf("movie %d details: %w", tmdbID, err)
	}

	releaseDates, err := strategy.ReleaseDates(ctx, tmdbID)
	if err != nil {
		return catalog.MovieRecord{}, fmt.Errorf("movie %d release dates: %w", tmdbID, err)
	}
	if releaseDates.Results == nil {
		return catalog.MovieRecord{}, fmt.Errorf("movie %d release dates: %w", tmdbID, catalog.ErrMissingResults)
	}

	record := catalog.MovieRecord{
		Details:    details,
		Releases:   releaseDates,
		CatalogURL: strategy.CatalogURL(tmdbID),
	}
	if details.PosterPath != "" {
		record.PosterURL = strategy.PosterURL(details.PosterPath)
	}

	s.debug("movie fetched", "tmdb_id", tmdbID, "title", details.Title, "regions", len(releaseDates.Results))
	return record, nil
}

func (s *RegistrySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
