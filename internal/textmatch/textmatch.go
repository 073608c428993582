// Package textmatch provides the string primitives behind title matching:
// normalization, bigram Dice similarity, and season-number extraction from
// free-text fields (including CJK numerals).
package textmatch

import (
	"strings"
	"unicode"
)

// containmentSimilarity is the fixed score used when one normalized title
// contains the other verbatim. Substring containment is a strong and cheap
// signal, so it short-circuits the bigram computation.
const containmentSimilarity = 0.9

// Normalize lower-cases s and collapses every run of characters that is
// neither a letter, a digit, nor CJK to a single space. CJK ideographs count
// as letters and are kept as-is.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	space := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(unicode.ToLower(r))
		} else {
			space = true
		}
	}
	return b.String()
}

// Similarity computes the bigram Dice coefficient between the normalized
// forms of a and b, in [0, 1]. Identical strings score 1; if one contains
// the other the fixed containment score is returned.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return containmentSimilarity
	}

	ba, bb := bigrams(na), bigrams(nb)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}

	counts := make(map[string]int, len(ba))
	for _, g := range ba {
		counts[g]++
	}
	overlap := 0
	for _, g := range bb {
		if counts[g] > 0 {
			counts[g]--
			overlap++
		}
	}

	return 2 * float64(overlap) / float64(len(ba)+len(bb))
}

// bigrams returns the rune bigrams of s, spaces included. A single-rune
// string yields that rune as its only gram so very short titles still
// participate.
func bigrams(s string) []string {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) == 1 {
		return []string{string(runes)}
	}
	grams := make([]string, 0, len(runes)-1)
	for i := 0; i+1 < len(runes); i++ {
		grams = append(grams, string(runes[i:i+2]))
	}
	return grams
}
