package extract

import (
	"context"
	"strings"

	"github.com/docalyze/docalyze/internal/models"
	"github.com/docalyze/docalyze/pkg/llm"
)

func (e *Extractor) extractGeneric(sections []models.Section) *models.GenericInfo {
	info := &models.GenericInfo{}

	for _, s := range sections {
		info.MainSections = append(info.MainSections, strings.TrimSpace(s.Title))
		if len(info.MainSections) >= e.config.MaxSectionTitles {
			break
		}
	}

	common := topKeywords(concatSections(sections), e.config.GenericPool)
	info.KeyPoints = capped(common, e.config.MaxGenericPoints)
	info.Keywords = capped(common, e.config.MaxKeywords)
	return info
}

func capped(items []string, n int) []string {
	if len(items) > n {
		items = items[:n]
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}

func (e *Extractor) genericLLM(ctx context.Context, sections []models.Section) (*models.GenericInfo, bool) {
	if !e.config.LLM.Available() {
		return nil, false
	}
	req := llm.Request{
		System: "You extract structured information from documents and answer in strict JSON.",
		Prompt: "Extract strict JSON: {\"sections_principales\": [string], \"points_cles\": [string], \"mots_cles\": [string]}\n\n" +
			"Sections:\n" + concatSections(sections),
	}
	return llm.Structured(ctx, e.config.LLM, req, func(g *models.GenericInfo) bool {
		return len(g.MainSections) > 0
	})
}
