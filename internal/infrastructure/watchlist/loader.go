package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/davorg/films/internal/domain"
	"github.com/davorg/films/internal/ports"
)

const (
	legacyFileName  = "watchlist.json"
	defaultListName = "default.json"
)

// ErrNoWatchlists reports a watchlists directory without any user files.
var ErrNoWatchlists = errors.New("no watchlist files found")

// Loader reads per-user watchlist files from a directory. File stems double
// as user names.
type Loader struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger
}

var _ ports.WatchlistSource = (*Loader)(nil)

// NewLoader wires a filesystem with the watchlists directory.
func NewLoader(fs afero.Fs, dir string, logger *slog.Logger) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Loader{fs: fs, dir: dir, logger: logger}
}

// Users returns the names with a watchlist file, sorted alphabetically.
func (l *Loader) Users(ctx context.Context) ([]string, error) {
	if err := l.migrateLegacy(); err != nil {
		return nil, err
	}

	matches, err := afero.Glob(l.fs, filepath.Join(l.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list watchlists: %w", err)
	}

	users := make([]string, 0, len(matches))
	for _, match := range matches {
		name := strings.TrimSuffix(filepath.Base(match), ".json")
		if name == "" {
			continue
		}
		users = append(users, name)
	}
	sort.Strings(users)

	if len(users) == 0 {
		return nil, fmt.Errorf("%s: %w", l.dir, ErrNoWatchlists)
	}
	return users, nil
}

// Load parses one user's watchlist file into entries.
func (l *Loader) Load(ctx context.Context, user string) ([]domain.WatchlistEntry, error) {
	path := filepath.Join(l.dir, user+".json")
	raw, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read watchlist %s: %w", path, err)
	}

	var entries []domain.WatchlistEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse watchlist %s: %w", path, err)
	}
	return entries, nil
}

// migrateLegacy creates the watchlists directory on first run, adopting a
// pre-multi-user watchlist.json sitting beside it as default.json.
func (l *Loader) migrateLegacy() error {
	exists, err := afero.DirExists(l.fs, l.dir)
	if err != nil {
		return fmt.Errorf("check watchlists dir: %w", err)
	}
	if exists {
		return nil
	}

	if err := l.fs.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create watchlists dir: %w", err)
	}

	legacy := filepath.Join(filepath.Dir(l.dir), legacyFileName)
	ok, err := afero.Exists(l.fs, legacy)
	if err != nil {
		return fmt.Errorf("check legacy watchlist: %w", err)
	}
	if !ok {
		return nil
	}

	target := filepath.Join(l.dir, defaultListName)
	if err := l.fs.Rename(legacy, target); err != nil {
		return fmt.Errorf("migrate legacy watchlist: %w", err)
	}

	l.info("migrated legacy watchlist", "from", legacy, "to", target)
	return nil
}

func (l *Loader) info(msg string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Info(msg, args...)
	}
}
