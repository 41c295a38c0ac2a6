package ports

import (
	"context"
	"time"

	"github.com/davorg/films/internal/catalog"
	"github.com/davorg/films/internal/domain"
)

// MetadataSource resolves one watchlist entry into aggregated catalog metadata.
type MetadataSource interface {
	Fetch(ctx context.Context, tmdbID int64) (catalog.MovieRecord, error)
}

// WatchlistSource lists tracked users and loads their watchlist entries.
type WatchlistSource interface {
	Users(ctx context.Context) ([]string, error)
	Load(ctx context.Context, user string) ([]domain.WatchlistEntry, error)
}

// SiteWriter persists per-user outputs and the site index.
type SiteWriter interface {
	WriteUser(ctx context.Context, user string, feed domain.Feed, calendar string) error
	WriteIndex(ctx context.Context, users []string) error
}

// Notifier streams run digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when refresh runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
