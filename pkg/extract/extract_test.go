package extract

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docalyze/docalyze/internal/models"
)

func TestExtractContract(t *testing.T) {
	e := New()
	sections := []models.Section{{
		Title: "Contrat de prestation",
		Content: "Entre la société Acme et le client Dupont.\n" +
			"Signé le 2024-01-15. Début le 01/02/2024. Fin le 31/12/2024.\n" +
			"Le contrat est conclu pour 30 jours renouvelables. " +
			"Le prestataire doit livrer chaque mois. " +
			"La résiliation est possible avec préavis. " +
			"Une pénalité de 10 000 EUR s'applique en cas de retard.",
		Pages: []int{1},
	}}

	info := e.Extract(context.Background(), models.TypeContract, sections, nil)
	require.Equal(t, models.TypeContract, info.Type)
	c := info.Contract
	require.NotNil(t, c)

	// Dates are positional: first match is the signature, then start, then end.
	assert.Equal(t, "2024-01-15", c.Dates.Signature)
	assert.Equal(t, "01/02/2024", c.Dates.Start)
	assert.Equal(t, "31/12/2024", c.Dates.End)

	assert.Equal(t, "30 jours", c.Duration)
	require.NotEmpty(t, c.Amounts)
	assert.Contains(t, c.Amounts[0], "10 000")

	require.NotEmpty(t, c.Parties)
	assert.Contains(t, c.Parties[0], "société Acme")

	require.NotEmpty(t, c.Obligations)
	assert.Contains(t, c.Obligations[0], "doit livrer")
	require.NotEmpty(t, c.TerminationClauses)
	require.NotEmpty(t, c.Penalties)
	assert.Contains(t, c.Penalties[0], "pénalité")
}

func TestExtractContractAmountDedup(t *testing.T) {
	e := New()
	sections := []models.Section{{
		Title:   "Prix",
		Content: "Montant de 500 EUR. Encore 500 EUR. Puis 600 EUR.",
		Pages:   []int{1},
	}}

	info := e.Extract(context.Background(), models.TypeContract, sections, nil)
	require.NotNil(t, info.Contract)
	assert.Len(t, info.Contract.Amounts, 2)
}

func TestExtractArticleFromSections(t *testing.T) {
	e := New()
	sections := []models.Section{
		{Title: "Introduction", Content: "Le problème étudié est la segmentation.", Pages: []int{1}},
		{Title: "Méthodes", Content: "Nous utilisons des heuristiques simples.", Pages: []int{1}},
		{Title: "Résultats", Content: "La précision augmente nettement.", Pages: []int{2}},
		{Title: "Conclusion", Content: "La méthode fonctionne.", Pages: []int{2}},
	}

	info := e.Extract(context.Background(), models.TypeArticle, sections, nil)
	require.Equal(t, models.TypeArticle, info.Type)
	a := info.Article
	require.NotNil(t, a)
	assert.Equal(t, "Le problème étudié est la segmentation.", a.Problem)
	assert.Equal(t, "Nous utilisons des heuristiques simples.", a.Methods)
	assert.Equal(t, "La précision augmente nettement.", a.MainResults)
	assert.Equal(t, "La méthode fonctionne.", a.Conclusion)
	assert.LessOrEqual(t, len(a.Keywords), 7)
}

func TestExtractArticleFirstSectionFallback(t *testing.T) {
	e := New()
	long := strings.Repeat("contenu sans titre reconnu. ", 40)
	sections := []models.Section{{Title: "Préambule", Content: long, Pages: []int{1}}}

	info := e.Extract(context.Background(), models.TypeArticle, sections, nil)
	a := info.Article
	require.NotNil(t, a)
	assert.NotEmpty(t, a.Problem)
	assert.LessOrEqual(t, len([]rune(a.Problem)), 500)
}

func TestExtractArticleRawPagesFallback(t *testing.T) {
	e := New()
	doc := &models.Document{
		NumPages: 1,
		Pages:    []models.Page{{Number: 1, Text: "texte brut sans aucune section."}},
	}

	info := e.Extract(context.Background(), models.TypeArticle, nil, doc)
	a := info.Article
	require.NotNil(t, a)
	assert.Contains(t, a.Problem, "texte brut")
	assert.Equal(t, "Analyse du document (extraction heuristique)", a.Objectives)
	assert.Equal(t, "Extraction par reconnaissance de structure", a.Methods)
}

func TestExtractGenericCaps(t *testing.T) {
	e := New()
	var sections []models.Section
	for i := 0; i < 15; i++ {
		sections = append(sections, models.Section{
			Title:   "Section " + strings.Repeat("x", i+1),
			Content: "contenu générique avec des mots variés numéro " + strings.Repeat("y", i+1),
			Pages:   []int{1},
		})
	}

	info := e.Extract(context.Background(), models.TypeOther, sections, nil)
	require.Equal(t, models.TypeOther, info.Type)
	g := info.Generic
	require.NotNil(t, g)
	assert.Len(t, g.MainSections, 10)
	assert.LessOrEqual(t, len(g.KeyPoints), 10)
	assert.LessOrEqual(t, len(g.Keywords), 7)
}

func TestExtractResumeUsesGenericVariant(t *testing.T) {
	e := New()
	sections := []models.Section{{Title: "Expérience", Content: "développeur backend pendant cinq années", Pages: []int{1}}}

	info := e.Extract(context.Background(), models.TypeResume, sections, nil)
	assert.Equal(t, models.TypeResume, info.Type)
	assert.NotNil(t, info.Generic)
	assert.Nil(t, info.Article)
	assert.Nil(t, info.Contract)
}

func TestExtractedInfoJSONKeys(t *testing.T) {
	e := New()
	sections := []models.Section{
		{Title: "Introduction", Content: "Un problème intéressant de classification automatique.", Pages: []int{1}},
	}

	info := e.Extract(context.Background(), models.TypeArticle, sections, nil)
	blob, err := json.Marshal(info.Article)
	require.NoError(t, err)

	for _, key := range []string{"probleme", "objectifs", "methodes", "resultats_principaux", "conclusion", "mots_cles"} {
		assert.Contains(t, string(blob), `"`+key+`"`)
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("Première phrase. Deuxième phrase! Troisième")
	require.Len(t, got, 3)
	assert.Equal(t, "Première phrase.", strings.TrimSpace(got[0]))
	assert.Equal(t, "Deuxième phrase!", strings.TrimSpace(got[1]))
	assert.Equal(t, "Troisième", strings.TrimSpace(got[2]))
}
