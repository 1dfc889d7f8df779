package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTextFromStream(t *testing.T) {
	stream := []byte("BT\n/F1 12 Tf\n72 720 Td\n(Premier titre) Tj\n0 -14 Td\n(suite du texte) Tj\nET\n")
	got := extractTextFromStream(stream)
	assert.Equal(t, "Premier titre\nsuite du texte", got)
}

func TestExtractTextFromStreamTJArray(t *testing.T) {
	stream := []byte("[(Hel) -20 (lo)] TJ\n")
	got := extractTextFromStream(stream)
	assert.Equal(t, "Hello", got)
}

func TestDecodePDFString(t *testing.T) {
	assert.Equal(t, "a(b)c", decodePDFString([]byte(`a\(b\)c`)))
	assert.Equal(t, "line\nnext", decodePDFString([]byte(`line\nnext`)))
	assert.Equal(t, "a b", decodePDFString([]byte(`a\040b`)))
	assert.Equal(t, `back\slash`, decodePDFString([]byte(`back\\slash`)))
}

func TestCleanPDFText(t *testing.T) {
	assert.Equal(t, "un deux\ntrois", cleanPDFText("un   deux\ntrois"))
	assert.Equal(t, "a b", cleanPDFText("a \t b"))
	assert.Equal(t, "ligne\nsuivante", cleanPDFText("ligne\r\nsuivante"))
	assert.Empty(t, cleanPDFText("   "))
}

func TestComputePrintableRatio(t *testing.T) {
	assert.Equal(t, 1.0, computePrintableRatio(""))
	assert.Equal(t, 1.0, computePrintableRatio("texte normal\navec lignes"))
	assert.Less(t, computePrintableRatio("ab��"), 0.85)
}

func TestIsGarbageRune(t *testing.T) {
	assert.True(t, isGarbageRune('�'))
	assert.True(t, isGarbageRune('')) // private use area
	assert.True(t, isGarbageRune(0x07))
	assert.False(t, isGarbageRune('\n'))
	assert.False(t, isGarbageRune('é'))
}
