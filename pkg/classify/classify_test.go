package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docalyze/docalyze/internal/models"
)

func docFromPages(texts ...string) *models.Document {
	doc := &models.Document{Filename: "test.pdf", NumPages: len(texts)}
	for i, t := range texts {
		doc.Pages = append(doc.Pages, models.Page{Number: i + 1, Text: t})
	}
	return doc
}

func TestClassifyArticle(t *testing.T) {
	c := New()
	doc := docFromPages(
		"Abstract\nWe study segmentation.\nIntroduction\nPrior work...",
		"Methods\nWe apply heuristics.\nResults\nAccuracy improved.",
	)

	docType, conf := c.Classify(context.Background(), doc)
	assert.Equal(t, models.TypeArticle, docType)
	// Four distinct hint patterns matched: abstract, introduction, methods, results.
	assert.InDelta(t, 0.75, conf, 1e-9)
}

func TestClassifyContract(t *testing.T) {
	c := New()
	doc := docFromPages(
		"Le présent contrat est conclu entre les parties.\n" +
			"Durée: 12 mois. Le client doit payer un montant de 5 000 EUR.\n" +
			"Résiliation possible avec préavis. Pénalités de retard applicables.",
	)

	docType, conf := c.Classify(context.Background(), doc)
	assert.Equal(t, models.TypeContract, docType)
	assert.Greater(t, conf, 0.55)
	assert.LessOrEqual(t, conf, 0.95)
}

func TestClassifyNoHits(t *testing.T) {
	c := New()
	doc := docFromPages("zzz qqq xxx")

	docType, conf := c.Classify(context.Background(), doc)
	assert.Equal(t, models.TypeOther, docType)
	assert.Equal(t, 0.4, conf)
}

func TestClassifyEmptyDocument(t *testing.T) {
	c := New()
	doc := docFromPages("")

	docType, conf := c.Classify(context.Background(), doc)
	assert.Equal(t, models.TypeOther, docType)
	assert.Equal(t, 0.4, conf)
}

func TestClassifyTieKeepsPriorityOrder(t *testing.T) {
	c := New()
	// One article hint and one course hint: the earlier set wins the tie.
	doc := docFromPages("introduction au chapitre")

	docType, _ := c.Classify(context.Background(), doc)
	assert.Equal(t, models.TypeArticle, docType)
}

func TestClassifyDeterministic(t *testing.T) {
	c := New()
	doc := docFromPages("Abstract\nIntroduction\nConclusion")

	t1, c1 := c.Classify(context.Background(), doc)
	t2, c2 := c.Classify(context.Background(), doc)
	assert.Equal(t, t1, t2)
	assert.Equal(t, c1, c2)
}

func TestSampleTextRespectsCaps(t *testing.T) {
	c := NewWithConfig(Config{SamplePages: 2, SampleChars: 10})
	doc := docFromPages("abcdefgh", "ijklmnop", "should never appear")

	sample := c.sampleText(doc)
	assert.LessOrEqual(t, len(sample), 11) // 10 chars plus the page separator
	assert.NotContains(t, sample, "appear")
}

func TestAccentedContractVocabulary(t *testing.T) {
	c := New()
	// Words ending on accented runes must still count as hints.
	doc := docFromPages("Le présent contrat prévoit des pénalités en cas de retard. Résiliation sous 30 jours.")

	docType, _ := c.Classify(context.Background(), doc)
	assert.Equal(t, models.TypeContract, docType)
}
