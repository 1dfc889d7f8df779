package extract

import (
	"sort"
	"strings"
)

var frenchStopwords = buildStopwords(`
a au aux avec ce ces dans de des du elle en et eux il je la le leur lui ma
mais me même mes moi mon ne nos notre nous on ou par pas pour qu que qui sa
se ses son sur ta te tes toi ton tu un une vos votre vous c d l j s t y n m
qu'`)

var englishStopwords = buildStopwords(`
the and or of to in on for by with as is are was were be been being a an at
from that this these those into over under out up down not no yes can could
may might should would will shall it its it's they them their he him his she
her we our us you your i me my mine ours yours theirs`)

func buildStopwords(words string) map[string]struct{} {
	m := make(map[string]struct{})
	for _, w := range strings.Fields(words) {
		m[w] = struct{}{}
	}
	return m
}

const tokenPunct = ".,:;()[]{}\"'!?%"

// tokenize lower-cases text, strips surrounding punctuation, and drops
// stop words and tokens of two characters or less.
func tokenize(text string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, tokenPunct)
		if w == "" || len([]rune(w)) <= 2 {
			continue
		}
		if _, ok := frenchStopwords[w]; ok {
			continue
		}
		if _, ok := englishStopwords[w]; ok {
			continue
		}
		out = append(out, w)
	}
	return out
}

// topKeywords ranks tokens by frequency, ties broken by first appearance,
// and returns at most n of them.
func topKeywords(text string, n int) []string {
	tokens := tokenize(text)

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var order []string
	for i, tok := range tokens {
		if _, ok := counts[tok]; !ok {
			firstSeen[tok] = i
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	return order
}
