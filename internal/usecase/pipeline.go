package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/davorg/films/internal/catalog"
	"github.com/davorg/films/internal/domain"
	"github.com/davorg/films/internal/ics"
	"github.com/davorg/films/internal/ports"
	"github.com/davorg/films/internal/releases"
)

// PipelineDeps wires all driven adapters into the refresh pipeline.
type PipelineDeps struct {
	Source     ports.MetadataSource
	Watchlists ports.WatchlistSource
	Writer     ports.SiteWriter
	Notifier   ports.Notifier
	Selector   *releases.Selector
	Logger     *slog.Logger
}

// Pipeline implements the watchlist-refresh workflow.
type Pipeline struct {
	source     ports.MetadataSource
	watchlists ports.WatchlistSource
	writer     ports.SiteWriter
	notifier   ports.Notifier
	selector   *releases.Selector
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:     deps.Source,
		watchlists: deps.Watchlists,
		writer:     deps.Writer,
		notifier:   deps.Notifier,
		selector:   deps.Selector,
		logger:     deps.Logger,
	}
}

// Run refreshes every user's outputs: it loads each watchlist, resolves
// release metadata per movie, classifies the buckets and writes the site
// tree. Users with unreadable watchlists are skipped, failed movie lookups
// drop only that movie, and write failures abort the run. A cancelled
// context aborts the run with its error before the next write.
func (p *Pipeline) Run(ctx context.Context, now time.Time) error {
	if p.source == nil || p.watchlists == nil || p.writer == nil || p.selector == nil {
		return fmt.Errorf("pipeline is missing required dependencies")
	}

	users, err := p.watchlists.Users(ctx)
	if err != nil {
		return fmt.Errorf("discover users: %w", err)
	}

	stamp := ics.Timestamp(now)
	generatedAt := now.UTC().Format(time.RFC3339)

	processed := make([]string, 0, len(users))
	summaries := make([]userSummary, 0, len(users))

	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("refresh interrupted: %w", err)
		}

		entries, err := p.watchlists.Load(ctx, user)
		if err != nil {
			p.warn("skipping user, watchlist unreadable", "user", user, "error", err)
			continue
		}

		feed, err := p.processUser(ctx, user, entries, generatedAt, now)
		if err != nil {
			return fmt.Errorf("refresh interrupted: %w", err)
		}
		calendar := ics.Build(feed.Upcoming, stamp, user)
		if err := p.writer.WriteUser(ctx, user, feed, calendar); err != nil {
			return fmt.Errorf("write outputs for %s: %w", user, err)
		}

		processed = append(processed, user)
		summaries = append(summaries, summarize(user, feed))
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("refresh interrupted: %w", err)
	}
	if err := p.writer.WriteIndex(ctx, processed); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	if p.notifier != nil && len(summaries) > 0 {
		if err := p.notifier.PublishDigest(ctx, buildDigestMessage(summaries)); err != nil {
			p.warn("digest not delivered", "error", err)
		}
	}

	p.info("refresh complete", "users", len(processed))
	return nil
}

// processUser resolves one watchlist into a sorted feed. Entries without a
// positive TMDb id are ignored, duplicates are processed but logged. A
// cancelled context aborts between lookups; the partial feed is returned
// with the context error and must not be written.
func (p *Pipeline) processUser(ctx context.Context, user string, entries []domain.WatchlistEntry, generatedAt string, now time.Time) (domain.Feed, error) {
	feed := domain.NewFeed(user, generatedAt)
	seen := make(map[int64]bool, len(entries))

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return feed, err
		}
		if entry.TMDBID <= 0 {
			continue
		}
		if seen[entry.TMDBID] {
			p.warn("duplicate watchlist entry", "user", user, "tmdb_id", entry.TMDBID)
		}
		seen[entry.TMDBID] = true

		record, err := p.source.Fetch(ctx, entry.TMDBID)
		if err != nil {
			if ctx.Err() != nil {
				return feed, ctx.Err()
			}
			p.logError("movie lookup failed", "user", user, "tmdb_id", entry.TMDBID, "error", err)
			continue
		}

		date, bucket := p.selector.Select(record.Releases, now)
		feed.Add(bucket, buildMovie(entry, record, date))
	}

	feed.Sort()
	return feed, nil
}

func buildMovie(entry domain.WatchlistEntry, record catalog.MovieRecord, date string) domain.Movie {
	movie := domain.Movie{
		TMDBID:  entry.TMDBID,
		Title:   resolveTitle(entry, record.Details),
		TMDBURL: record.CatalogURL,
	}
	if date != "" {
		movie.ReleaseDate = &date
	}
	if record.PosterURL != "" {
		movie.PosterURL = &record.PosterURL
	}
	return movie
}

func resolveTitle(entry domain.WatchlistEntry, details catalog.MovieDetails) string {
	switch {
	case details.Title != "":
		return details.Title
	case details.OriginalTitle != "":
		return details.OriginalTitle
	case entry.TitleHint != "":
		return entry.TitleHint
	default:
		return fmt.Sprintf("TMDb %d", entry.TMDBID)
	}
}

type userSummary struct {
	user     string
	upcoming int
	tbd      int
	released int
	next     string
}

func summarize(user string, feed domain.Feed) userSummary {
	summary := userSummary{
		user:     user,
		upcoming: len(feed.Upcoming),
		tbd:      len(feed.TBD),
		released: len(feed.Released),
	}
	if len(feed.Upcoming) > 0 && feed.Upcoming[0].ReleaseDate != nil {
		summary.next = fmt.Sprintf("%s on %s", feed.Upcoming[0].Title, *feed.Upcoming[0].ReleaseDate)
	}
	return summary
}

func buildDigestMessage(summaries []userSummary) string {
	if len(summaries) == 0 {
		return ""
	}

	formatted := "Film release update\n"
	for _, summary := range summaries {
		formatted += fmt.Sprintf("- %s: %d upcoming, %d released, %d TBD\n",
			summary.user,
			summary.upcoming,
			summary.released,
			summary.tbd)
		if summary.next != "" {
			formatted += fmt.Sprintf("  next: %s\n", summary.next)
		}
	}

	return formatted
}

func (p *Pipeline) info(msg string, args ...interface{}) {
	if p.logger == nil {
		return
	}
	p.logger.Info(msg, args...)
}

func (p *Pipeline) warn(msg string, args ...interface{}) {
	if p.logger == nil {
		return
	}
	p.logger.Warn(msg, args...)
}

func (p *Pipeline) logError(msg string, args ...interface{}) {
	if p.logger == nil {
		return
	}
	p.logger.Error(msg, args...)
}
