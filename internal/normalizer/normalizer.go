// Package normalizer cleans up the noisy free text customers type into the
// chat: typos, accents, abbreviations and filler words. The synonym and
// stopword tables live in tables.go so vocabulary can grow without touching
// the algorithms here.
package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, strips diacritics, drops every character outside
// [a-z0-9 ] and collapses whitespace. It is pure and idempotent.
func Normalize(s string) string {
	s = strings.ToLower(s)
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}

	var b strings.Builder
	b.Grow(len(s))
	space := true // swallow leading whitespace
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			space = false
		default:
			if !space {
				b.WriteByte(' ')
				space = true
			}
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Canonicalize normalizes and maps every token through the synonym table.
// Unknown tokens pass through unchanged.
func Canonicalize(s string) string {
	tokens := strings.Fields(Normalize(s))
	for i, t := range tokens {
		if canon, ok := canonTokens[t]; ok {
			tokens[i] = canon
		}
	}
	return strings.Join(tokens, " ")
}

// MeaningfulTokens returns the canonical tokens of s minus stopwords and pure
// digit runs, preserving order and duplicates.
func MeaningfulTokens(s string) []string {
	tokens := strings.Fields(Canonicalize(s))
	out := tokens[:0]
	for _, t := range tokens {
		if stopwords[t] || isDigits(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// EditDistance computes the Levenshtein distance between the normalized forms
// of a and b, using a single-row DP table (O(len(b)) space).
func EditDistance(a, b string) int {
	ra := []rune(Normalize(a))
	rb := []rune(Normalize(b))

	n := len(rb)
	dp := make([]int, n+1)
	for j := range dp {
		dp[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		prev := dp[0]
		dp[0] = i
		for j := 1; j <= n; j++ {
			tmp := dp[j]
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			dp[j] = min3(dp[j]+1, dp[j-1]+1, prev+cost)
			prev = tmp
		}
	}
	return dp[n]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
