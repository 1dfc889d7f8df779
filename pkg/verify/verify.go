// Package verify grounds each synthesized key point back into the document
// pages with fuzzy token-set matching. It is fully deterministic and never
// calls an external model.
package verify

import (
	"fmt"
	"log/slog"
	"sort"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/docalyze/docalyze/internal/models"
)

// Config holds the matching thresholds on the 0-100 token-set-ratio scale.
type Config struct {
	SupportThreshold int // minimum score for a page to count as a reference (default 40)
	StrongThreshold  int // minimum best score for strong support (default 70)
	MaxPageRefs      int // page references kept per key point (default 2)
	ExcerptRunes     int // key point excerpt length in alerts (default 60)
	Logger           *slog.Logger
}

func (c *Config) defaults() {
	if c.SupportThreshold <= 0 {
		c.SupportThreshold = 40
	}
	if c.StrongThreshold <= 0 {
		c.StrongThreshold = 70
	}
	if c.MaxPageRefs <= 0 {
		c.MaxPageRefs = 2
	}
	if c.ExcerptRunes <= 0 {
		c.ExcerptRunes = 60
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Verifier scores key points against page text.
type Verifier struct {
	config Config
}

// NewWithConfig creates a Verifier with the given configuration.
func NewWithConfig(config Config) *Verifier {
	config.defaults()
	return &Verifier{config: config}
}

// New creates a Verifier with default thresholds.
func New() *Verifier {
	return NewWithConfig(Config{})
}

// Verify annotates every key point with its best-supported pages and a
// support level, and raises an alert for each point no page supports. The
// summary passes through unchanged.
func (v *Verifier) Verify(synthesis models.Synthesis, doc *models.Document) models.VerificationResult {
	result := models.VerificationResult{
		AnnotatedSummary: synthesis.Summary,
		KeyPoints:        []models.AnnotatedKeyPoint{},
		Alerts:           []string{},
	}

	var pages []models.Page
	if doc != nil {
		pages = doc.Pages
	}

	for _, point := range synthesis.KeyPoints {
		annotated := v.annotate(point, pages)
		result.KeyPoints = append(result.KeyPoints, annotated)
		if annotated.Support == models.SupportUncertain {
			result.Alerts = append(result.Alerts, fmt.Sprintf(
				"Point non clairement supporté: '%s...'", excerpt(point, v.config.ExcerptRunes)))
		}
	}

	return result
}

type pageScore struct {
	page  int
	score int
}

func (v *Verifier) annotate(point string, pages []models.Page) models.AnnotatedKeyPoint {
	scores := make([]pageScore, 0, len(pages))
	for _, p := range pages {
		scores = append(scores, pageScore{
			page:  p.Number,
			score: fuzzy.TokenSetRatio(point, p.Text),
		})
	}

	// Stable sort keeps page order among equal scores.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	annotated := models.AnnotatedKeyPoint{
		Text:     point,
		PageRefs: []int{},
		Support:  models.SupportUncertain,
	}

	best := 0
	for _, ps := range scores {
		if ps.score < v.config.SupportThreshold {
			break
		}
		annotated.PageRefs = append(annotated.PageRefs, ps.page)
		if ps.score > best {
			best = ps.score
		}
		if len(annotated.PageRefs) >= v.config.MaxPageRefs {
			break
		}
	}

	switch {
	case best >= v.config.StrongThreshold:
		annotated.Support = models.SupportStrong
	case best >= v.config.SupportThreshold:
		annotated.Support = models.SupportMedium
	}

	return annotated
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
