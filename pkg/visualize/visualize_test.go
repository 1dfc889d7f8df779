package visualize

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docalyze/docalyze/internal/models"
)

func contractAnalysis() *models.Analysis {
	return &models.Analysis{
		Document: models.Document{
			Filename: "contrat.pdf",
			NumPages: 1,
			Pages: []models.Page{
				{Number: 1, Text: "le présent contrat engage les parties pour douze mois"},
			},
		},
		Type: models.TypeContract,
		Extracted: models.NewContractInfo(&models.ContractInfo{
			Parties:     []string{"Acme", "Dupont"},
			Amounts:     []string{"500 EUR"},
			Obligations: []string{"livrer chaque mois"},
		}),
	}
}

func TestGenerateWithoutFont(t *testing.T) {
	outDir := t.TempDir()
	v := NewWithConfig(Config{OutDir: outDir})

	visuals := v.Generate(contractAnalysis())
	require.NotNil(t, visuals)

	// No font file: the word cloud is skipped, the rest still renders.
	assert.Empty(t, visuals.Wordcloud)
	assert.NotEmpty(t, visuals.Statistics)
	assert.NotEmpty(t, visuals.Mindmap)
	assert.Equal(t, "generated", visuals.Status)

	_, err := os.Stat(visuals.Statistics)
	assert.NoError(t, err)

	dot, err := os.ReadFile(visuals.Mindmap)
	require.NoError(t, err)
	assert.Contains(t, string(dot), "Document")
	assert.Contains(t, string(dot), "Parties")
}

func TestGenerateUnwritableDir(t *testing.T) {
	v := NewWithConfig(Config{OutDir: filepath.Join(os.DevNull, "sub")})

	visuals := v.Generate(contractAnalysis())
	require.NotNil(t, visuals)
	assert.Equal(t, "unavailable", visuals.Status)
}

func TestStatisticsBarsArticle(t *testing.T) {
	bars, title := statisticsBars(models.NewArticleInfo(&models.ArticleInfo{
		Problem:    "présent",
		Conclusion: "présente aussi",
	}))

	require.Len(t, bars, 5)
	assert.Equal(t, "Sections identifiées", title)
	assert.Equal(t, 1.0, bars[0].Value) // Problème
	assert.Equal(t, 0.0, bars[1].Value) // Objectifs
	assert.Equal(t, 1.0, bars[4].Value) // Conclusion
}

func TestMindmapBranchesGeneric(t *testing.T) {
	branches := mindmapBranches(models.NewGenericInfo(models.TypeOther, &models.GenericInfo{
		MainSections: []string{"Un", "Deux", "Trois", "Quatre", "Cinq", "Six", "Sept"},
	}))

	// Capped at five sections.
	require.Len(t, branches, 5)
	assert.Equal(t, "Section1", branches[0].id)
	assert.Equal(t, "Un", branches[0].label)
}

func TestWordCounts(t *testing.T) {
	counts := wordCounts("réseau réseau modèle. le un", 10)
	assert.Equal(t, 2, counts["réseau"])
	assert.Equal(t, 1, counts["modèle"])
	// Tokens of two characters or less are dropped.
	assert.NotContains(t, counts, "le")
	assert.NotContains(t, counts, "un")
}

func TestWordCountsCap(t *testing.T) {
	var words []string
	for _, w := range []string{"aaa", "bbb", "ccc", "ddd", "eee"} {
		words = append(words, w)
	}
	counts := wordCounts(strings.Join(words, " ")+" aaa aaa bbb", 2)
	require.Len(t, counts, 2)
	assert.Equal(t, 3, counts["aaa"])
	assert.Equal(t, 2, counts["bbb"])
}
