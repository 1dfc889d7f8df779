package synthesize

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docalyze/docalyze/internal/models"
)

func TestSynthesizeArticle(t *testing.T) {
	s := New()
	extracted := models.NewArticleInfo(&models.ArticleInfo{
		Problem:     "La segmentation de documents reste difficile.",
		Objectives:  "Évaluer des heuristiques simples.",
		Methods:     "Analyse de lignes et motifs de titres.",
		MainResults: "La couverture atteint toutes les pages.",
		Conclusion:  "L'approche est suffisante en pratique.",
		Keywords:    []string{"segmentation", "heuristique"},
	})

	synth := s.Synthesize(context.Background(), extracted, nil)

	parts := strings.Split(synth.Summary, "\n\n")
	require.Len(t, parts, 4)
	assert.True(t, strings.HasPrefix(parts[0], "Contexte: "))
	assert.True(t, strings.HasPrefix(parts[1], "Méthodes: "))
	assert.True(t, strings.HasPrefix(parts[2], "Résultats: "))
	assert.True(t, strings.HasPrefix(parts[3], "Conclusion: "))

	assert.Contains(t, synth.KeyPoints, "Objectifs: Évaluer des heuristiques simples.")
	assert.Contains(t, synth.KeyPoints, "Mot-clé: segmentation")
	assert.Contains(t, synth.KeyPoints, "Mot-clé: heuristique")
}

func TestSynthesizeArticleTruncation(t *testing.T) {
	s := New()
	extracted := models.NewArticleInfo(&models.ArticleInfo{
		Problem: strings.Repeat("p", 600),
		Methods: strings.Repeat("m", 600),
	})

	synth := s.Synthesize(context.Background(), extracted, nil)
	parts := strings.Split(synth.Summary, "\n\n")
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], len("Contexte: ")+400)
	assert.Len(t, parts[1], len("Méthodes: ")+250)

	// Key points use their own, shorter cut.
	for _, kp := range synth.KeyPoints {
		if strings.HasPrefix(kp, "Méthodes: ") {
			assert.Len(t, kp, len("Méthodes: ")+150)
		}
	}
}

func TestSynthesizeArticleDegraded(t *testing.T) {
	s := New()
	doc := &models.Document{
		NumPages: 1,
		Pages:    []models.Page{{Number: 1, Text: "contenu brut de la page"}},
	}

	synth := s.Synthesize(context.Background(), models.NewArticleInfo(&models.ArticleInfo{}), doc)
	assert.True(t, strings.HasPrefix(synth.Summary, "Document scientifique analysé. Contenu: "))
	assert.Contains(t, synth.Summary, "contenu brut")
	assert.Equal(t, []string{"Analyse heuristique: structure de document scientifique détectée"}, synth.KeyPoints)
}

func TestSynthesizeContract(t *testing.T) {
	s := New()
	extracted := models.NewContractInfo(&models.ContractInfo{
		Parties: []string{"Entre la société Acme et le client Dupont."},
		Dates: models.ContractDates{
			Signature: "2024-01-15",
			Start:     "01/02/2024",
			End:       "31/12/2024",
		},
		Duration:    "12 mois",
		Amounts:     []string{"500 EUR", "600 EUR", "700 EUR", "800 EUR"},
		Obligations: []string{"Le prestataire doit livrer chaque mois."},
	})

	synth := s.Synthesize(context.Background(), extracted, nil)

	assert.Contains(t, synth.KeyPoints, "Dates (sig/début/fin): 2024-01-15 / 01/02/2024 / 31/12/2024")
	assert.Contains(t, synth.KeyPoints, "Durée: 12 mois")
	assert.Contains(t, synth.KeyPoints, "Montants (extraits): 500 EUR, 600 EUR, 700 EUR")
	assert.Contains(t, synth.KeyPoints, "Obligations: présentées (extraits)")

	// End date and obligations are both present: no risks raised.
	assert.Empty(t, synth.RisksOrRemarks)
}

func TestSynthesizeContractRisks(t *testing.T) {
	s := New()
	extracted := models.NewContractInfo(&models.ContractInfo{
		Dates: models.ContractDates{Signature: "2024-01-15"},
	})

	synth := s.Synthesize(context.Background(), extracted, nil)
	assert.Contains(t, synth.RisksOrRemarks, "Date de fin non claire ou absente.")
	assert.Contains(t, synth.RisksOrRemarks, "Obligations principales peu explicites.")
}

func TestSynthesizeGeneric(t *testing.T) {
	s := New()
	extracted := models.NewGenericInfo(models.TypeOther, &models.GenericInfo{
		MainSections: []string{"Un", "Deux", "Trois", "Quatre", "Cinq", "Six"},
		Keywords:     []string{"alpha", "beta"},
	})

	synth := s.Synthesize(context.Background(), extracted, nil)
	assert.Equal(t, "Résumé générique: sections détectées et points saillants extraits de manière heuristique.", synth.Summary)
	// Only the first five titles are listed.
	assert.Contains(t, synth.KeyPoints, "Sections principales: Un, Deux, Trois, Quatre, Cinq")
	assert.Contains(t, synth.KeyPoints, "Mot-clé: alpha")
}
