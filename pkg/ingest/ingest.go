// Package ingest turns source files into page-addressed documents.
//
// Supported formats:
//   - .pdf          text extraction via pdfcpu (cross-reference + stream decoding)
//   - .txt, .md     plain text, pages split on form feed
//   - .html, .htm   main-content extraction via goquery
//
// Per-page extraction failures degrade to an empty page; only an unreadable
// or unparseable file fails the whole document.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/docalyze/docalyze/internal/models"
)

// Error marks a document as unreadable or unparseable. It is fatal for the
// document but never for a batch.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Config configures the ingestor.
type Config struct {
	// MaxFileSize is the maximum file size to process (default: 100 MB).
	MaxFileSize int64

	// Logger for debug/error messages.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 100 * 1024 * 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Ingestor reads source files into models.Document values.
type Ingestor struct {
	config Config
	logger *slog.Logger
}

// NewWithConfig creates an Ingestor with the given configuration.
func NewWithConfig(config Config) *Ingestor {
	config.defaults()
	return &Ingestor{config: config, logger: config.Logger}
}

// New creates an Ingestor with default configuration.
func New() *Ingestor {
	return NewWithConfig(Config{})
}

// Ingest reads one file and extracts its text page by page.
func (g *Ingestor) Ingest(ctx context.Context, path string) (*models.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	if info.Size() > g.config.MaxFileSize {
		return nil, &Error{Path: path, Err: fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), g.config.MaxFileSize)}
	}

	ext := strings.ToLower(filepath.Ext(path))
	g.logger.Debug("ingesting document", "path", path, "format", ext)

	var pages []models.Page
	var quality *models.ExtractionQuality

	switch ext {
	case ".pdf":
		pages, quality, err = extractPDF(path)
	case ".txt", ".md", ".text", ".markdown":
		pages, err = extractText(path)
	case ".html", ".htm":
		pages, err = extractHTML(path)
	default:
		err = fmt.Errorf("unsupported format: %q", ext)
	}
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}

	return &models.Document{
		Filename: filepath.Base(path),
		Path:     path,
		NumPages: len(pages),
		Pages:    pages,
		Quality:  quality,
	}, nil
}

// IngestAll ingests several files, skipping the ones that fail. The error
// slice is parallel to the paths; results keep input order.
func (g *Ingestor) IngestAll(ctx context.Context, paths []string) ([]*models.Document, []error) {
	docs := make([]*models.Document, 0, len(paths))
	errs := make([]error, len(paths))
	for i, p := range paths {
		doc, err := g.Ingest(ctx, p)
		if err != nil {
			g.logger.Warn("skipping document", "path", p, "error", err)
			errs[i] = err
			continue
		}
		docs = append(docs, doc)
	}
	return docs, errs
}

// SupportedFormats returns all supported file extensions.
func SupportedFormats() []string {
	return []string{".pdf", ".txt", ".md", ".html", ".htm"}
}
