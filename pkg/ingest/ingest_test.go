package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestIngestTextSinglePage(t *testing.T) {
	g := New()
	path := writeFile(t, "doc.txt", "ligne un\nligne deux\n")

	doc, err := g.Ingest(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "doc.txt", doc.Filename)
	assert.Equal(t, 1, doc.NumPages)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, 1, doc.Pages[0].Number)
	assert.Equal(t, "ligne un\nligne deux", doc.Pages[0].Text)
}

func TestIngestTextFormFeedPages(t *testing.T) {
	g := New()
	path := writeFile(t, "doc.md", "page une\fpage deux\fpage trois")

	doc, err := g.Ingest(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.NumPages)
	assert.Equal(t, "page deux", doc.Pages[1].Text)
	assert.Equal(t, 3, doc.Pages[2].Number)
}

func TestIngestHTML(t *testing.T) {
	g := New()
	html := `<html><body>
		<nav>menu to ignore</nav>
		<main>
			<h1>Titre Principal</h1>
			<p>Premier paragraphe du document.</p>
			<p>Deuxième    paragraphe avec espaces.</p>
		</main>
	</body></html>`
	path := writeFile(t, "page.html", html)

	doc, err := g.Ingest(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)
	assert.Contains(t, doc.Pages[0].Text, "Titre Principal\n")
	assert.Contains(t, doc.Pages[0].Text, "Deuxième paragraphe avec espaces.")
	assert.NotContains(t, doc.Pages[0].Text, "menu to ignore")
}

func TestIngestUnsupportedFormat(t *testing.T) {
	g := New()
	path := writeFile(t, "doc.docx", "whatever")

	_, err := g.Ingest(context.Background(), path)
	require.Error(t, err)

	var ingestErr *Error
	require.True(t, errors.As(err, &ingestErr))
	assert.Equal(t, path, ingestErr.Path)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestIngestMissingFile(t *testing.T) {
	g := New()
	_, err := g.Ingest(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)

	var ingestErr *Error
	assert.True(t, errors.As(err, &ingestErr))
}

func TestIngestFileTooLarge(t *testing.T) {
	g := NewWithConfig(Config{MaxFileSize: 4})
	path := writeFile(t, "doc.txt", "this is larger than four bytes")

	_, err := g.Ingest(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file too large")
}

func TestIngestAllSkipsFailures(t *testing.T) {
	g := New()
	good := writeFile(t, "ok.txt", "contenu")
	bad := filepath.Join(t.TempDir(), "missing.txt")

	docs, errs := g.IngestAll(context.Background(), []string{good, bad})
	require.Len(t, docs, 1)
	assert.Equal(t, "ok.txt", docs[0].Filename)
	require.Len(t, errs, 2)
	assert.NoError(t, errs[0])
	assert.Error(t, errs[1])
}

func TestSupportedFormats(t *testing.T) {
	assert.Contains(t, SupportedFormats(), ".pdf")
	assert.Contains(t, SupportedFormats(), ".txt")
	assert.Contains(t, SupportedFormats(), ".html")
}
