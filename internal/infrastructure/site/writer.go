package site

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/davorg/films/internal/domain"
	"github.com/davorg/films/internal/ports"
)

//go:embed templates/*.tmpl assets/styles.css
var content embed.FS

const (
	feedFileName     = "releases.json"
	calendarFileName = "releases.ics"
	pageFileName     = "index.html"
	stylesFileName   = "styles.css"
)

// Writer renders the static site tree under the configured output directory.
// Each user gets a subdirectory with their feed, calendar and HTML page, and
// the root holds the landing page plus the shared stylesheet.
type Writer struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger

	indexTmpl *template.Template
	userTmpl  *template.Template
}

var _ ports.SiteWriter = (*Writer)(nil)

// NewWriter creates a site writer rooted at dir. A nil fs falls back to the
// host filesystem.
func NewWriter(fs afero.Fs, dir string, logger *slog.Logger) *Writer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Writer{
		fs:        fs,
		dir:       dir,
		logger:    logger,
		indexTmpl: template.Must(template.ParseFS(content, "templates/index.html.tmpl")),
		userTmpl:  template.Must(template.ParseFS(content, "templates/user.html.tmpl")),
	}
}

// WriteUser persists one user's releases.json, releases.ics and HTML page
// under <dir>/<user>/.
func (w *Writer) WriteUser(ctx context.Context, user string, feed domain.Feed, calendar string) error {
	userDir := filepath.Join(w.dir, user)
	if err := w.fs.MkdirAll(userDir, 0o755); err != nil {
		return fmt.Errorf("create user directory: %w", err)
	}

	encoded, err := json.MarshalIndent(feed, "", "  ")
	if err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}
	encoded = append(encoded, '\n')
	if err := afero.WriteFile(w.fs, filepath.Join(userDir, feedFileName), encoded, 0o644); err != nil {
		return fmt.Errorf("write feed: %w", err)
	}

	if err := afero.WriteFile(w.fs, filepath.Join(userDir, calendarFileName), []byte(calendar), 0o644); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}

	var page bytes.Buffer
	if err := w.userTmpl.Execute(&page, feed); err != nil {
		return fmt.Errorf("render user page: %w", err)
	}
	if err := afero.WriteFile(w.fs, filepath.Join(userDir, pageFileName), page.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write user page: %w", err)
	}

	w.info("wrote user outputs",
		"user", user,
		"upcoming", len(feed.Upcoming),
		"tbd", len(feed.TBD),
		"released", len(feed.Released))
	return nil
}

// WriteIndex renders the landing page listing users alphabetically and drops
// the shared stylesheet next to it.
func (w *Writer) WriteIndex(ctx context.Context, users []string) error {
	if err := w.fs.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	sorted := append([]string(nil), users...)
	sort.Strings(sorted)

	var page bytes.Buffer
	if err := w.indexTmpl.Execute(&page, indexData{Users: sorted}); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	if err := afero.WriteFile(w.fs, filepath.Join(w.dir, pageFileName), page.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	styles, err := content.ReadFile("assets/" + stylesFileName)
	if err != nil {
		return fmt.Errorf("read stylesheet: %w", err)
	}
	if err := afero.WriteFile(w.fs, filepath.Join(w.dir, stylesFileName), styles, 0o644); err != nil {
		return fmt.Errorf("write stylesheet: %w", err)
	}

	w.info("wrote site index", "users", len(sorted))
	return nil
}

type indexData struct {
	Users []string
}

func (w *Writer) info(msg string, args ...interface{}) {
	if w.logger == nil {
		return
	}
	w.logger.Info(msg, args...)
}
