package extract

import (
	"context"
	"strings"

	"github.com/docalyze/docalyze/internal/models"
	"github.com/docalyze/docalyze/pkg/llm"
)

// Title keyword lists per article field; first matching section wins, search
// order is fixed.
var (
	problemKeys    = []string{"introduction", "background", "contexte"}
	abstractKeys   = []string{"abstract", "résumé"}
	objectiveKeys  = []string{"objectif", "objectifs", "goal", "aim"}
	methodKeys     = []string{"méthode", "méthodes", "method", "methods"}
	resultKeys     = []string{"résultats", "results"}
	conclusionKeys = []string{"conclusion", "discussion"}
)

func (e *Extractor) extractArticle(sections []models.Section, doc *models.Document) *models.ArticleInfo {
	info := &models.ArticleInfo{}

	info.Problem = findSection(sections, problemKeys)
	if info.Problem == "" {
		info.Problem = findSection(sections, abstractKeys)
	}
	info.Objectives = findSection(sections, objectiveKeys)
	info.Methods = findSection(sections, methodKeys)
	info.MainResults = findSection(sections, resultKeys)
	info.Conclusion = findSection(sections, conclusionKeys)

	// No matching section: use the first section's content.
	if info.Problem == "" && len(sections) > 0 {
		info.Problem = truncate(sections[0].Content, e.config.FirstSectionChars)
	}

	// Absolute fallback: raw page text with synthetic placeholders.
	if info.Problem == "" && doc != nil {
		pagesText := samplePagesText(doc, 2)
		if strings.TrimSpace(pagesText) != "" {
			info.Problem = truncate(pagesText, e.config.RawPagesChars)
			info.Objectives = "Analyse du document (extraction heuristique)"
			info.Methods = "Extraction par reconnaissance de structure"
		}
	}

	info.Keywords = e.documentKeywords(sections, doc, e.config.MaxKeywords, e.config.KeywordPool)
	return info
}

// findSection returns the content of the first section whose title contains
// one of the keys, case-insensitively.
func findSection(sections []models.Section, keys []string) string {
	for _, s := range sections {
		title := strings.ToLower(s.Title)
		for _, k := range keys {
			if strings.Contains(title, k) {
				return strings.TrimSpace(s.Content)
			}
		}
	}
	return ""
}

// documentKeywords ranks the pool of most frequent tokens over the full
// section text (or the leading pages when sections are empty) and keeps n.
func (e *Extractor) documentKeywords(sections []models.Section, doc *models.Document, n, pool int) []string {
	text := concatSections(sections)
	if strings.TrimSpace(text) == "" && doc != nil {
		text = samplePagesText(doc, e.config.SamplePages)
	}
	common := topKeywords(text, pool)
	if len(common) > n {
		common = common[:n]
	}
	return common
}

func (e *Extractor) articleLLM(ctx context.Context, sections []models.Section) (*models.ArticleInfo, bool) {
	if !e.config.LLM.Available() {
		return nil, false
	}
	req := llm.Request{
		System: "You extract structured information from scientific articles and answer in strict JSON.",
		Prompt: "Extract strict JSON: {\"probleme\": string, \"objectifs\": string, \"methodes\": string, " +
			"\"resultats_principaux\": string, \"conclusion\": string, \"mots_cles\": [string]}\n" +
			"Do not put stop words in mots_cles.\n\nSections:\n" + concatSections(sections),
	}
	return llm.Structured(ctx, e.config.LLM, req, func(a *models.ArticleInfo) bool {
		return a.Problem != "" || a.Conclusion != "" || len(a.Keywords) > 0
	})
}
