package segment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docalyze/docalyze/internal/models"
)

func docFromPages(texts ...string) *models.Document {
	doc := &models.Document{Filename: "test.pdf", NumPages: len(texts)}
	for i, t := range texts {
		doc.Pages = append(doc.Pages, models.Page{Number: i + 1, Text: t})
	}
	return doc
}

func TestSegmentHeadings(t *testing.T) {
	s := New()
	doc := docFromPages(
		"INTRODUCTION\nsome context here.\nMETHODS\nwe apply heuristics.",
	)

	sections := s.Segment(context.Background(), doc)
	require.Len(t, sections, 2)
	assert.Equal(t, "INTRODUCTION", sections[0].Title)
	assert.Contains(t, sections[0].Content, "some context here.")
	assert.Equal(t, "METHODS", sections[1].Title)
	assert.Equal(t, []int{1}, sections[1].Pages)
}

func TestSegmentImplicitSection(t *testing.T) {
	s := New()
	doc := docFromPages("no heading at all, just prose that keeps going on this line.")

	sections := s.Segment(context.Background(), doc)
	require.Len(t, sections, 1)
	assert.Equal(t, "Document", sections[0].Title)
	assert.Equal(t, []int{1}, sections[0].Pages)
}

func TestSegmentEmptyDocument(t *testing.T) {
	s := New()
	sections := s.Segment(context.Background(), &models.Document{})

	require.Len(t, sections, 1)
	assert.Equal(t, "Document", sections[0].Title)
}

func TestSegmentEveryPageCovered(t *testing.T) {
	s := New()
	doc := docFromPages(
		"INTRODUCTION\nfirst page body text here.",
		"continued body text on the second page.",
		"",
	)

	sections := s.Segment(context.Background(), doc)
	covered := map[int]bool{}
	for _, sec := range sections {
		for _, p := range sec.Pages {
			covered[p] = true
		}
	}
	for _, p := range doc.Pages {
		assert.True(t, covered[p.Number], "page %d missing from every section", p.Number)
	}
}

func TestSegmentNumberedHeading(t *testing.T) {
	s := New()
	doc := docFromPages("1. objet du contrat\nle prestataire fournit un service.")

	sections := s.Segment(context.Background(), doc)
	require.Len(t, sections, 1)
	assert.Equal(t, "1. objet du contrat", sections[0].Title)
}

func TestIsHeading(t *testing.T) {
	s := New()

	assert.True(t, s.isHeading("RÉSULTATS"))
	assert.True(t, s.isHeading("Discussion Générale"))
	assert.True(t, s.isHeading("II. Obligations"))
	assert.True(t, s.isHeading("conclusion"))

	assert.False(t, s.isHeading(""))
	assert.False(t, s.isHeading("   "))
	assert.False(t, s.isHeading("this is a plain lowercase sentence with several words."))
}

func TestLongUpperLineIsNotHeading(t *testing.T) {
	s := NewWithConfig(Config{MaxHeadingLen: 10})
	assert.False(t, s.isHeading("THIS UPPER LINE IS FAR TOO LONG"))
	assert.True(t, s.isHeading("SHORT"))
}
