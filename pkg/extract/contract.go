package extract

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/docalyze/docalyze/internal/models"
	"github.com/docalyze/docalyze/pkg/llm"
)

var (
	// DD-MM-YYYY, DD/MM/YYYY and ISO YYYY-MM-DD.
	datePattern = regexp.MustCompile(`\b(\d{1,2}[\-/]\d{1,2}[\-/]\d{2,4}|\d{4}-\d{2}-\d{2})\b`)

	// A numeric amount adjacent to a currency symbol or word.
	amountPattern = regexp.MustCompile(`(?i)(?:€\s?|eur\s?|euro[s]?\s?)?\b\d{1,3}(?:[\s.,]\d{3})*(?:[.,]\d{2})?\s*(?:€|eur|euro[s]?)\b`)

	// Integer plus a duration unit.
	durationPattern = regexp.MustCompile(`(?i)\b(\d+\s*(?:jour[s]?|mois|année[s]?|an[s]?))\b`)

	// Lines worth keeping as party mentions. Words ending on accented runes
	// are matched without RE2's ASCII-only trailing \b.
	partyLinePattern = regexp.MustCompile(`(?i)\b(parties|entre|client|fournisseur)\b|dénommé|dénomination|société`)
)

var (
	obligationKeys  = []string{"doit", "s'engage", "obligation", "tenu de"}
	terminationKeys = []string{"résiliation", "résilier"}
	penaltyKeys     = []string{"pénalité", "pénalités", "amende", "dommage"}
)

func (e *Extractor) extractContract(sections []models.Section) *models.ContractInfo {
	info := &models.ContractInfo{}
	text := concatSections(sections)

	for _, line := range strings.Split(text, "\n") {
		if partyLinePattern.MatchString(line) {
			info.Parties = append(info.Parties, strings.TrimSpace(line))
		}
	}
	if len(info.Parties) > e.config.MaxParties {
		info.Parties = info.Parties[:e.config.MaxParties]
	}

	// Dates are positional: first, second, third match in document order.
	dates := datePattern.FindAllString(text, -1)
	if len(dates) >= 1 {
		info.Dates.Signature = dates[0]
	}
	if len(dates) >= 2 {
		info.Dates.Start = dates[1]
	}
	if len(dates) >= 3 {
		info.Dates.End = dates[2]
	}

	if m := durationPattern.FindString(text); m != "" {
		info.Duration = m
	}

	seen := make(map[string]struct{})
	for _, m := range amountPattern.FindAllString(text, -1) {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		info.Amounts = append(info.Amounts, m)
		if len(info.Amounts) >= e.config.MaxAmounts {
			break
		}
	}

	// A sentence may land in several lists if it matches several keyword sets.
	for _, sentence := range splitSentences(text) {
		low := strings.ToLower(sentence)
		trimmed := strings.TrimSpace(sentence)
		if containsAny(low, obligationKeys) {
			info.Obligations = append(info.Obligations, trimmed)
		}
		if containsAny(low, terminationKeys) {
			info.TerminationClauses = append(info.TerminationClauses, trimmed)
		}
		if containsAny(low, penaltyKeys) {
			info.Penalties = append(info.Penalties, trimmed)
		}
	}

	return info
}

// splitSentences cuts text after sentence-ending punctuation followed by
// whitespace.
func splitSentences(text string) []string {
	var out []string
	var cur strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		cur.WriteRune(runes[i])
		if (runes[i] == '.' || runes[i] == '!' || runes[i] == '?') &&
			i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			out = append(out, cur.String())
			cur.Reset()
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
			}
		}
	}
	if strings.TrimSpace(cur.String()) != "" {
		out = append(out, cur.String())
	}
	return out
}

func containsAny(s string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func (e *Extractor) contractLLM(ctx context.Context, sections []models.Section) (*models.ContractInfo, bool) {
	if !e.config.LLM.Available() {
		return nil, false
	}
	req := llm.Request{
		System: "You extract structured information from contracts and answer in strict JSON.",
		Prompt: "Extract strict JSON: {\"parties\": [string], \"dates\": {\"signature\": string, \"debut\": string, \"fin\": string}, " +
			"\"duree\": string, \"montants\": [string], \"obligations_principales\": [string], " +
			"\"clauses_resiliation\": [string], \"penalites\": [string]}\n\nSections:\n" + concatSections(sections),
	}
	return llm.Structured(ctx, e.config.LLM, req, func(c *models.ContractInfo) bool {
		return len(c.Parties) > 0 || c.Dates != (models.ContractDates{}) || len(c.Obligations) > 0
	})
}
