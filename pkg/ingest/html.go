package ingest

import (
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/docalyze/docalyze/internal/models"
)

// mainContentSelectors are tried in order; the first match wins.
var mainContentSelectors = []string{
	"main",
	"article",
	".content",
	"#content",
	".documentation",
	"#documentation",
}

// extractHTML reads an HTML file as a single-page document. Block elements
// become lines so heading heuristics still apply downstream.
func extractHTML(path string) ([]models.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, err
	}

	root := doc.Find("body")
	for _, selector := range mainContentSelectors {
		if selected := doc.Find(selector); selected.Length() > 0 {
			root = selected
			break
		}
	}

	var lines []string
	root.Find("h1, h2, h3, h4, h5, h6, p, li, td, pre").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			lines = append(lines, strings.Join(strings.Fields(text), " "))
		}
	})
	if len(lines) == 0 {
		if text := strings.TrimSpace(root.Text()); text != "" {
			lines = append(lines, strings.Join(strings.Fields(text), " "))
		}
	}

	return []models.Page{{
		Number: 1,
		Text:   strings.Join(lines, "\n"),
	}}, nil
}
