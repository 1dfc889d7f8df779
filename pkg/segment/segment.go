// Package segment splits a document into titled sections using heading
// heuristics, with an optional external text-structuring path.
package segment

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/docalyze/docalyze/internal/models"
	"github.com/docalyze/docalyze/pkg/llm"
)

var headingPatterns = []*regexp.Regexp{
	// 1. Title / I. Title / a) Title
	regexp.MustCompile(`(?i)^(?:[0-9]{1,2}|[ivxlcdm]{1,4}|[a-z])\s*[\.)\-]\s+.+$`),
	// Canonical article headings, French or English.
	regexp.MustCompile(`(?i)^(introduction|méthodes?|methods?|résultats?|results?|discussion|conclusion|références?)$`),
	// Canonical contract headings.
	regexp.MustCompile(`(?i)^(parties|objet\s+du\s+contrat|durée|prix|paiement|obligations?|résiliation|pénalités?)$`),
}

// fallbackTitle names the implicit section used when no heading exists.
const fallbackTitle = "Document"

// Config configures the segmenter.
type Config struct {
	MaxHeadingLen  int // upper/title-case lines longer than this are body text (default 80)
	LLMSampleChars int // bounded sample sent to the LLM (default 10000)
	MaxSections    int // cap on externally produced sections (default 25)
	MaxTitleLen    int // cap on externally produced titles (default 120)
	MaxPagesPerSec int // cap on externally produced page lists (default 10)
	LLM            *llm.Client
	Logger         *slog.Logger
}

func (c *Config) defaults() {
	if c.MaxHeadingLen <= 0 {
		c.MaxHeadingLen = 80
	}
	if c.LLMSampleChars <= 0 {
		c.LLMSampleChars = 10000
	}
	if c.MaxSections <= 0 {
		c.MaxSections = 25
	}
	if c.MaxTitleLen <= 0 {
		c.MaxTitleLen = 120
	}
	if c.MaxPagesPerSec <= 0 {
		c.MaxPagesPerSec = 10
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Segmenter splits documents into ordered sections.
type Segmenter struct {
	config Config
}

// NewWithConfig creates a Segmenter with the given configuration.
func NewWithConfig(config Config) *Segmenter {
	config.defaults()
	return &Segmenter{config: config}
}

// New creates a Segmenter without an external text-structuring path.
func New() *Segmenter {
	return NewWithConfig(Config{})
}

// Segment returns at least one section for any document. Every page number
// of the document appears in at least one section's page list.
func (s *Segmenter) Segment(ctx context.Context, doc *models.Document) []models.Section {
	if sections, ok := s.segmentLLM(ctx, doc); ok {
		return sections
	}

	var sections []models.Section
	var current *models.Section

	for _, page := range doc.Pages {
		for _, line := range strings.Split(page.Text, "\n") {
			if s.isHeading(line) {
				if current != nil {
					sections = append(sections, *current)
				}
				current = &models.Section{
					Title: strings.TrimSpace(line),
					Pages: []int{page.Number},
				}
				continue
			}
			if current == nil {
				current = &models.Section{
					Title: fallbackTitle,
					Pages: []int{page.Number},
				}
			}
			current.Content += line + "\n"
			if !containsPage(current.Pages, page.Number) {
				current.Pages = append(current.Pages, page.Number)
			}
		}
	}

	if current != nil {
		sections = append(sections, *current)
	}

	// A blank document still yields one section covering all pages.
	if len(sections) == 0 {
		pages := make([]int, 0, len(doc.Pages))
		texts := make([]string, 0, len(doc.Pages))
		for _, p := range doc.Pages {
			pages = append(pages, p.Number)
			texts = append(texts, p.Text)
		}
		sections = []models.Section{{
			Title:   fallbackTitle,
			Content: strings.Join(texts, "\n"),
			Pages:   pages,
		}}
	}

	return sections
}

// isHeading applies the line-level heading heuristics: a short line entirely
// in upper case or in title case, or one of the canonical heading patterns.
func (s *Segmenter) isHeading(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if len([]rune(trimmed)) <= s.config.MaxHeadingLen && (isUpper(trimmed) || isTitle(trimmed)) {
		return true
	}
	for _, pat := range headingPatterns {
		if pat.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// isUpper reports whether s contains at least one cased rune and none of its
// cased runes are lower case.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// isTitle reports whether every cased word starts upper case and continues
// lower case.
func isTitle(s string) bool {
	cased := false
	prevCased := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased = true
			cased = true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			cased = true
		default:
			prevCased = false
		}
	}
	return cased
}

func containsPage(pages []int, n int) bool {
	for _, p := range pages {
		if p == n {
			return true
		}
	}
	return false
}

type llmSections struct {
	Sections []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Pages   []int  `json:"pages"`
	} `json:"sections"`
}

func (s *Segmenter) segmentLLM(ctx context.Context, doc *models.Document) ([]models.Section, bool) {
	if !s.config.LLM.Available() {
		return nil, false
	}

	sample := s.llmSample(doc)
	if strings.TrimSpace(sample) == "" {
		return nil, false
	}

	req := llm.Request{
		System: "You split documents into logical sections and answer in strict JSON.",
		Prompt: "Return strict JSON: {\"sections\": [{\"title\": string, \"content\": string, \"pages\": [integer]}]}\n" +
			"Use plausible titles for the document kind (article: Introduction, Methods...; contract: Parties, Duration...).\n\n" +
			"Text:\n" + sample,
	}

	resp, ok := llm.Structured(ctx, s.config.LLM, req, func(r *llmSections) bool {
		return len(r.Sections) > 0
	})
	if !ok {
		return nil, false
	}

	raw := resp.Sections
	if len(raw) > s.config.MaxSections {
		raw = raw[:s.config.MaxSections]
	}
	cleaned := make([]models.Section, 0, len(raw))
	for _, sec := range raw {
		title := strings.TrimSpace(sec.Title)
		if title == "" {
			title = "Section"
		}
		if len([]rune(title)) > s.config.MaxTitleLen {
			title = string([]rune(title)[:s.config.MaxTitleLen])
		}
		pages := sec.Pages
		if len(pages) > s.config.MaxPagesPerSec {
			pages = pages[:s.config.MaxPagesPerSec]
		}
		if len(pages) == 0 {
			pages = []int{1}
		}
		cleaned = append(cleaned, models.Section{
			Title:   title,
			Content: strings.TrimSpace(sec.Content),
			Pages:   pages,
		})
	}
	return cleaned, true
}

// llmSample concatenates page texts with page markers up to the configured
// character cap.
func (s *Segmenter) llmSample(doc *models.Document) string {
	var buf []string
	total := 0
	for _, p := range doc.Pages {
		t := p.Text
		if t == "" {
			continue
		}
		if total+len(t) > s.config.LLMSampleChars {
			t = t[:max(0, s.config.LLMSampleChars-total)]
		}
		buf = append(buf, fmt.Sprintf("[Page %d]\n%s", p.Number, t))
		total += len(t)
		if total >= s.config.LLMSampleChars {
			break
		}
	}
	return strings.Join(buf, "\n\n")
}
