package ingest

import (
	"os"
	"strings"

	"github.com/docalyze/docalyze/internal/models"
)

// extractText reads a plain text or markdown file. Form feeds act as page
// breaks; a file without any yields a single page.
func extractText(path string) ([]models.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	parts := strings.Split(text, "\f")

	pages := make([]models.Page, 0, len(parts))
	for i, part := range parts {
		pages = append(pages, models.Page{
			Number: i + 1,
			Text:   strings.Trim(part, "\n"),
		})
	}
	return pages, nil
}
