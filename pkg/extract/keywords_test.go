package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopKeywordsFrequencyOrder(t *testing.T) {
	text := "réseau réseau réseau modèle modèle données"
	got := topKeywords(text, 10)
	assert.Equal(t, []string{"réseau", "modèle", "données"}, got)
}

func TestTopKeywordsDropsStopwordsAndShortTokens(t *testing.T) {
	text := "les données sont dans une table et the data is ok"
	got := topKeywords(text, 10)
	assert.NotContains(t, got, "les")
	assert.NotContains(t, got, "dans")
	assert.NotContains(t, got, "the")
	assert.NotContains(t, got, "ok") // two characters
	assert.Contains(t, got, "données")
	assert.Contains(t, got, "table")
}

func TestTopKeywordsStripsPunctuation(t *testing.T) {
	got := topKeywords("(modèle), modèle! \"modèle\" réseau;", 10)
	assert.Equal(t, "modèle", got[0])
	assert.Contains(t, got, "réseau")
}

func TestTopKeywordsFirstSeenTieBreak(t *testing.T) {
	// Same count: the token seen first in the text ranks first.
	got := topKeywords("zèbre avion zèbre avion", 10)
	assert.Equal(t, []string{"zèbre", "avion"}, got)
}

func TestTopKeywordsPoolCap(t *testing.T) {
	got := topKeywords("un1x deux2 trois3 quatre4 cinq5 six66", 3)
	assert.Len(t, got, 3)
}

func TestTopKeywordsEmptyText(t *testing.T) {
	assert.Empty(t, topKeywords("", 10))
	assert.Empty(t, topKeywords("le la et de", 10))
}
