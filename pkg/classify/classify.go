// Package classify assigns a document type and a confidence score.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/docalyze/docalyze/internal/models"
	"github.com/docalyze/docalyze/pkg/llm"
)

var articleHints = compileHints(
	`\babstract\b`,
	`\bintroduction\b`,
	`\bmethods?\b|\bméthodes\b`,
	`\bresults?\b|\brésultats\b`,
	`\bdiscussion\b`,
	`\bconclusions?\b`,
	`\breferences?\b|\bréférences\b`,
)

var contractHints = compileHints(
	`\ble\s+présent\s+contrat\b`,
	`\bcontrat\b|\bconditions\s+générales\b`,
	`\bles\s+parties\b|\bentre\b`,
	`\bdurée\b|\bdate\b|\bentrée\s+en\s+vigueur\b`,
	`\bobligations?\b|\bs'engage(nt)?\b|\bdoit\b`,
	`\brésiliation\b|\brésilier\b`,
	// pénalité ends on an accented rune, which RE2 \b does not treat as a
	// word character; match it without the trailing boundary.
	`pénalités?|\b(amende|dommages)\b`,
	`\bprix\b|\bpaiement\b|\bfacturation\b|\bmontants?\b|€|eur|euros?`,
)

var resumeHints = compileHints(
	`\bcurriculum\s+vitae\b|\bcv\b`,
	`\bexpérience\b|\bexperience\b`,
	`\bformation\b|\beducation\b`,
	`\bcompétences\b|\bskills\b`,
	`\bemail\b|\be-mail\b|\b@\w+`,
	`\btél(\.|ephone|éphone)?\b|\bphone\b|\+?\d{1,3}[\s.-]?\d{2,}`,
	`\blangues?\b|\blanguages?\b`,
)

var courseHints = compileHints(
	`\bcours\b|\bcourse\b|\bsyllabus\b`,
	`\bchapitre\b|\bchapter\b`,
	`\bexercices?\b|\bexercises?\b|\btd\b|\btp\b`,
	`\bprofesseur\b|\benseignant\b|\blecture\b`,
	`université|\buniversity\b|faculté`,
	`\bobjectifs?\s+pédagogiques\b|\blearning\s+outcomes\b`,
)

func compileHints(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// hintSets pairs each classifiable type with its vocabulary, in priority
// order; earlier entries win ties.
var hintSets = []struct {
	docType models.DocumentType
	hints   []*regexp.Regexp
}{
	{models.TypeArticle, articleHints},
	{models.TypeContract, contractHints},
	{models.TypeResume, resumeHints},
	{models.TypeCourse, courseHints},
}

// Config configures the classifier.
type Config struct {
	SamplePages int // pages drawn into the sample (default 3)
	SampleChars int // sample size cap in characters (default 3000)
	LLMChars    int // portion of the sample sent to the LLM (default 2000)
	LLM         *llm.Client
	Logger      *slog.Logger
}

func (c *Config) defaults() {
	if c.SamplePages <= 0 {
		c.SamplePages = 3
	}
	if c.SampleChars <= 0 {
		c.SampleChars = 3000
	}
	if c.LLMChars <= 0 {
		c.LLMChars = 2000
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Classifier scores type-specific vocabulary over a text sample.
type Classifier struct {
	config Config
}

// NewWithConfig creates a Classifier with the given configuration.
func NewWithConfig(config Config) *Classifier {
	config.defaults()
	return &Classifier{config: config}
}

// New creates a Classifier without an external text-generation path.
func New() *Classifier {
	return NewWithConfig(Config{})
}

// Classify returns the document type and a confidence in [0.4, 0.95] when
// heuristic, [0.5, 1] when the external path answered. It is deterministic
// for a given sample whenever the external path is disabled.
func (c *Classifier) Classify(ctx context.Context, doc *models.Document) (models.DocumentType, float64) {
	sample := c.sampleText(doc)

	if t, conf, ok := c.classifyLLM(ctx, sample); ok {
		return t, conf
	}

	bestType := models.TypeOther
	bestHits := 0
	for _, set := range hintSets {
		hits := 0
		for _, pat := range set.hints {
			// A pattern contributes at most once however often it matches.
			if pat.MatchString(sample) {
				hits++
			}
		}
		if hits > bestHits {
			bestType = set.docType
			bestHits = hits
		}
	}

	if bestHits == 0 {
		return models.TypeOther, 0.4
	}

	conf := 0.55 + 0.05*float64(bestHits)
	if conf > 0.95 {
		conf = 0.95
	}
	return bestType, conf
}

// sampleText lower-cases up to SampleChars characters from the first
// SamplePages pages.
func (c *Classifier) sampleText(doc *models.Document) string {
	var buf []string
	total := 0
	pages := doc.Pages
	if len(pages) > c.config.SamplePages {
		pages = pages[:c.config.SamplePages]
	}
	for _, page := range pages {
		t := page.Text
		if t == "" {
			continue
		}
		if total+len(t) > c.config.SampleChars {
			t = t[:max(0, c.config.SampleChars-total)]
		}
		buf = append(buf, t)
		total += len(t)
		if total >= c.config.SampleChars {
			break
		}
	}
	return strings.ToLower(strings.Join(buf, "\n"))
}

type llmClassification struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

func (c *Classifier) classifyLLM(ctx context.Context, sample string) (models.DocumentType, float64, bool) {
	if !c.config.LLM.Available() || strings.TrimSpace(sample) == "" {
		return "", 0, false
	}

	text := sample
	if len(text) > c.config.LLMChars {
		text = text[:c.config.LLMChars]
	}
	req := llm.Request{
		System: "You classify documents.",
		Prompt: fmt.Sprintf(
			"Classify this document as strict JSON: {\"type\": \"article|contract|resume|course|other\", \"confidence\": 0.8}\n\nText:\n%s",
			text),
	}

	resp, ok := llm.Structured(ctx, c.config.LLM, req, func(r *llmClassification) bool {
		return models.DocumentType(strings.TrimSpace(r.Type)).Valid() &&
			r.Confidence >= 0 && r.Confidence <= 1
	})
	if !ok {
		return "", 0, false
	}

	conf := resp.Confidence
	if conf < 0.5 {
		conf = 0.5
	}
	return models.DocumentType(strings.TrimSpace(resp.Type)), conf, true
}
