// Package extract pulls type-specific structured fields out of segmented
// documents using regex and keyword heuristics, with an optional external
// structured-generation path per type.
package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/docalyze/docalyze/internal/models"
	"github.com/docalyze/docalyze/pkg/llm"
)

// Config configures the extractor. The numeric fields are heuristic tuning
// values kept configurable for behavioral compatibility.
type Config struct {
	MaxKeywords       int // keywords kept per document (default 7)
	KeywordPool       int // frequency ranking pool for articles (default 15)
	GenericPool       int // frequency ranking pool for the generic variant (default 20)
	MaxGenericPoints  int // points_cles cap (default 10)
	MaxSectionTitles  int // sections_principales cap (default 10)
	MaxParties        int // contract parties cap (default 5)
	MaxAmounts        int // contract amounts cap (default 10)
	FirstSectionChars int // article fallback cut of the first section (default 500)
	RawPagesChars     int // article fallback cut of the raw page text (default 600)
	SamplePages       int // pages used when no section has text (default 3)
	LLM               *llm.Client
	Logger            *slog.Logger
}

func (c *Config) defaults() {
	if c.MaxKeywords <= 0 {
		c.MaxKeywords = 7
	}
	if c.KeywordPool <= 0 {
		c.KeywordPool = 15
	}
	if c.GenericPool <= 0 {
		c.GenericPool = 20
	}
	if c.MaxGenericPoints <= 0 {
		c.MaxGenericPoints = 10
	}
	if c.MaxSectionTitles <= 0 {
		c.MaxSectionTitles = 10
	}
	if c.MaxParties <= 0 {
		c.MaxParties = 5
	}
	if c.MaxAmounts <= 0 {
		c.MaxAmounts = 10
	}
	if c.FirstSectionChars <= 0 {
		c.FirstSectionChars = 500
	}
	if c.RawPagesChars <= 0 {
		c.RawPagesChars = 600
	}
	if c.SamplePages <= 0 {
		c.SamplePages = 3
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Extractor dispatches on the document type.
type Extractor struct {
	config Config
}

// NewWithConfig creates an Extractor with the given configuration.
func NewWithConfig(config Config) *Extractor {
	config.defaults()
	return &Extractor{config: config}
}

// New creates an Extractor without an external structured-generation path.
func New() *Extractor {
	return NewWithConfig(Config{})
}

// Extract returns the variant matching docType with every schema field
// present, possibly empty. Resume and course documents use the generic
// variant; they have no dedicated schema.
func (e *Extractor) Extract(ctx context.Context, docType models.DocumentType, sections []models.Section, doc *models.Document) models.ExtractedInfo {
	switch docType {
	case models.TypeArticle:
		if info, ok := e.articleLLM(ctx, sections); ok {
			return models.NewArticleInfo(info)
		}
		return models.NewArticleInfo(e.extractArticle(sections, doc))
	case models.TypeContract:
		if info, ok := e.contractLLM(ctx, sections); ok {
			return models.NewContractInfo(info)
		}
		return models.NewContractInfo(e.extractContract(sections))
	case models.TypeResume, models.TypeCourse, models.TypeOther:
		if info, ok := e.genericLLM(ctx, sections); ok {
			return models.NewGenericInfo(docType, info)
		}
		return models.NewGenericInfo(docType, e.extractGeneric(sections))
	default:
		return models.NewGenericInfo(models.TypeOther, e.extractGeneric(sections))
	}
}

// concatSections renders sections as one text blob with marked titles.
func concatSections(sections []models.Section) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, "## "+s.Title+"\n"+s.Content)
	}
	return strings.Join(parts, "\n\n")
}

// samplePagesText joins the text of at most n leading pages.
func samplePagesText(doc *models.Document, n int) string {
	if doc == nil {
		return ""
	}
	pages := doc.Pages
	if len(pages) > n {
		pages = pages[:n]
	}
	texts := make([]string, 0, len(pages))
	for _, p := range pages {
		texts = append(texts, p.Text)
	}
	return strings.Join(texts, " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
