// Package synthesize turns extracted fields into a prose summary and key
// points through deterministic per-type templates, with an optional external
// text-generation path.
package synthesize

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/docalyze/docalyze/internal/models"
	"github.com/docalyze/docalyze/pkg/llm"
)

// Config holds the template truncation lengths. Values are heuristic tuning
// constants kept configurable for behavioral compatibility.
type Config struct {
	ProblemChars    int // article problem cut in the summary (default 400)
	FieldChars      int // methods/results/conclusion cut (default 250)
	KeyPointChars   int // per key point cut (default 150)
	SummaryKeywords int // keywords promoted to key points (default 5)
	PartyChars      int // contract party excerpt cut (default 120)
	AmountsShown    int // contract amounts listed (default 3)
	TitlesShown     int // generic section titles listed (default 5)
	DegradedChars   int // raw-text cut of the degraded summary (default 600)
	LLM             *llm.Client
	Logger          *slog.Logger
}

func (c *Config) defaults() {
	if c.ProblemChars <= 0 {
		c.ProblemChars = 400
	}
	if c.FieldChars <= 0 {
		c.FieldChars = 250
	}
	if c.KeyPointChars <= 0 {
		c.KeyPointChars = 150
	}
	if c.SummaryKeywords <= 0 {
		c.SummaryKeywords = 5
	}
	if c.PartyChars <= 0 {
		c.PartyChars = 120
	}
	if c.AmountsShown <= 0 {
		c.AmountsShown = 3
	}
	if c.TitlesShown <= 0 {
		c.TitlesShown = 5
	}
	if c.DegradedChars <= 0 {
		c.DegradedChars = 600
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Synthesizer builds narrative output from extracted fields.
type Synthesizer struct {
	config Config
}

// NewWithConfig creates a Synthesizer with the given configuration.
func NewWithConfig(config Config) *Synthesizer {
	config.defaults()
	return &Synthesizer{config: config}
}

// New creates a Synthesizer without an external text-generation path.
func New() *Synthesizer {
	return NewWithConfig(Config{})
}

// Synthesize builds the summary, key points and, for contracts, risk remarks
// from the extracted variant. The document only serves the degraded summary
// when every extracted field is empty.
func (s *Synthesizer) Synthesize(ctx context.Context, extracted models.ExtractedInfo, doc *models.Document) models.Synthesis {
	if synth, ok := s.synthesizeLLM(ctx, extracted); ok {
		return *synth
	}

	switch extracted.Type {
	case models.TypeArticle:
		return s.articleTemplate(extracted.Article, doc)
	case models.TypeContract:
		return s.contractTemplate(extracted.Contract)
	case models.TypeResume, models.TypeCourse, models.TypeOther:
		return s.genericTemplate(extracted.Generic)
	default:
		return s.genericTemplate(extracted.Generic)
	}
}

func (s *Synthesizer) articleTemplate(info *models.ArticleInfo, doc *models.Document) models.Synthesis {
	synth := models.Synthesis{KeyPoints: []string{}, RisksOrRemarks: []string{}}
	if info == nil {
		info = &models.ArticleInfo{}
	}

	var parts []string
	if info.Problem != "" {
		parts = append(parts, "Contexte: "+truncate(info.Problem, s.config.ProblemChars))
	}
	if info.Methods != "" {
		parts = append(parts, "Méthodes: "+truncate(info.Methods, s.config.FieldChars))
	}
	if info.MainResults != "" {
		parts = append(parts, "Résultats: "+truncate(info.MainResults, s.config.FieldChars))
	}
	if info.Conclusion != "" {
		parts = append(parts, "Conclusion: "+truncate(info.Conclusion, s.config.FieldChars))
	}

	if len(parts) > 0 {
		synth.Summary = strings.Join(parts, "\n\n")
	} else {
		// Degraded summary straight from the page text.
		var texts []string
		for _, p := range pages(doc, 2) {
			texts = append(texts, truncate(p.Text, 1000))
		}
		raw := strings.Join(texts, "\n")
		synth.Summary = fmt.Sprintf("Document scientifique analysé. Contenu: %s...", truncate(raw, s.config.DegradedChars))
	}

	if info.Objectives != "" {
		synth.KeyPoints = append(synth.KeyPoints, "Objectifs: "+truncate(info.Objectives, s.config.KeyPointChars))
	}
	if info.Methods != "" {
		synth.KeyPoints = append(synth.KeyPoints, "Méthodes: "+truncate(info.Methods, s.config.KeyPointChars))
	}
	if info.MainResults != "" {
		synth.KeyPoints = append(synth.KeyPoints, "Résultats: "+truncate(info.MainResults, s.config.KeyPointChars))
	}
	for _, k := range capped(info.Keywords, s.config.SummaryKeywords) {
		synth.KeyPoints = append(synth.KeyPoints, "Mot-clé: "+k)
	}
	if len(synth.KeyPoints) == 0 {
		synth.KeyPoints = append(synth.KeyPoints, "Analyse heuristique: structure de document scientifique détectée")
	}

	return synth
}

func (s *Synthesizer) contractTemplate(info *models.ContractInfo) models.Synthesis {
	synth := models.Synthesis{
		Summary: "Synthèse du contrat: parties principales mentionnées, dates clés si disponibles, " +
			"durée et obligations résumées.",
		KeyPoints:      []string{},
		RisksOrRemarks: []string{},
	}
	if info == nil {
		info = &models.ContractInfo{}
	}

	if len(info.Parties) > 0 {
		synth.KeyPoints = append(synth.KeyPoints, "Parties (extraits): "+truncate(info.Parties[0], s.config.PartyChars))
	}
	if info.Dates != (models.ContractDates{}) {
		synth.KeyPoints = append(synth.KeyPoints, fmt.Sprintf(
			"Dates (sig/début/fin): %s / %s / %s", info.Dates.Signature, info.Dates.Start, info.Dates.End))
	}
	if info.Duration != "" {
		synth.KeyPoints = append(synth.KeyPoints, "Durée: "+info.Duration)
	}
	if len(info.Amounts) > 0 {
		synth.KeyPoints = append(synth.KeyPoints, "Montants (extraits): "+strings.Join(capped(info.Amounts, s.config.AmountsShown), ", "))
	}
	if len(info.Obligations) > 0 {
		synth.KeyPoints = append(synth.KeyPoints, "Obligations: présentées (extraits)")
	}
	if len(info.TerminationClauses) > 0 {
		synth.KeyPoints = append(synth.KeyPoints, "Résiliation: clauses identifiées (extraits)")
	}
	if len(info.Penalties) > 0 {
		synth.KeyPoints = append(synth.KeyPoints, "Pénalités: mentions détectées (extraits)")
	}

	if info.Dates.End == "" {
		synth.RisksOrRemarks = append(synth.RisksOrRemarks, "Date de fin non claire ou absente.")
	}
	if len(info.Obligations) == 0 {
		synth.RisksOrRemarks = append(synth.RisksOrRemarks, "Obligations principales peu explicites.")
	}

	return synth
}

func (s *Synthesizer) genericTemplate(info *models.GenericInfo) models.Synthesis {
	synth := models.Synthesis{
		Summary:        "Résumé générique: sections détectées et points saillants extraits de manière heuristique.",
		KeyPoints:      []string{},
		RisksOrRemarks: []string{},
	}
	if info == nil {
		info = &models.GenericInfo{}
	}

	if titles := capped(info.MainSections, s.config.TitlesShown); len(titles) > 0 {
		synth.KeyPoints = append(synth.KeyPoints, "Sections principales: "+strings.Join(titles, ", "))
	}
	for _, k := range capped(info.Keywords, s.config.SummaryKeywords) {
		synth.KeyPoints = append(synth.KeyPoints, "Mot-clé: "+k)
	}

	return synth
}

func (s *Synthesizer) synthesizeLLM(ctx context.Context, extracted models.ExtractedInfo) (*models.Synthesis, bool) {
	if !s.config.LLM.Available() {
		return nil, false
	}

	blob, err := json.Marshal(extracted)
	if err != nil {
		return nil, false
	}
	req := llm.Request{
		System: "You write clear executive summaries from structured information and answer in strict JSON.",
		Prompt: fmt.Sprintf(
			"Return strict JSON: {\"summary\": string, \"key_points\": [string], \"risks_or_remarks\": [string]}\n\n"+
				"Type: %s\n\nExtracted info:\n%s", extracted.Type, blob),
	}

	synth, ok := llm.Structured(ctx, s.config.LLM, req, func(r *models.Synthesis) bool {
		return r.Summary != ""
	})
	if !ok {
		return nil, false
	}
	if synth.KeyPoints == nil {
		synth.KeyPoints = []string{}
	}
	if synth.RisksOrRemarks == nil {
		synth.RisksOrRemarks = []string{}
	}
	return synth, true
}

func pages(doc *models.Document, n int) []models.Page {
	if doc == nil {
		return nil
	}
	if len(doc.Pages) > n {
		return doc.Pages[:n]
	}
	return doc.Pages
}

func capped(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
