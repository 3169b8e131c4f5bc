// Package match finds the catalog record that corresponds to a model
// number inside noisy search results. The cascade favours precision:
// a wrong pick produces a wrong price comparison downstream, so the
// matcher returns nothing rather than guess.
package match

import (
	"regexp"
	"strings"
)

// DefaultThreshold is the minimum normalized similarity accepted in the
// fuzzy tier.
const DefaultThreshold = 0.8

// Fuzzy comparison is skipped for keywords this short; "5954" is a
// substring of too many article numbers to trust.
const minFuzzyLen = 5

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// NormalizeText keeps only lowercase letters and digits, so
// "BA5954-010" and "ba5954010" compare equal.
func NormalizeText(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}

var tokenSplit = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// FindBestMatch returns the best candidate for keyword, keyed by the
// string key extracts from each candidate, or false when nothing is
// trustworthy. Tiers: exact normalized equality, then token equality
// (one component of a compound identifier), then normalized similarity
// above threshold. Ties take the first-seen candidate, so the result
// follows the caller's ordering.
func FindBestMatch[T any](candidates []T, keyword string, key func(T) string, threshold float64) (T, bool) {
	var zero T
	if len(candidates) == 0 {
		return zero, false
	}
	target := NormalizeText(keyword)
	if target == "" {
		return zero, false
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	// exact
	for _, c := range candidates {
		if v := key(c); v != "" && NormalizeText(v) == target {
			return c, true
		}
	}

	// token: "FN3889-010" matches keyword "fn3889" or "010"
	for _, c := range candidates {
		v := key(c)
		if v == "" {
			continue
		}
		for _, part := range tokenSplit.Split(v, -1) {
			if NormalizeText(part) == target {
				return c, true
			}
		}
	}

	if len(target) < minFuzzyLen {
		return zero, false
	}

	// similarity
	best := zero
	found := false
	high := 0.0
	for _, c := range candidates {
		v := key(c)
		if v == "" {
			continue
		}
		score := Similarity(target, NormalizeText(v))
		if score >= threshold && score > high {
			high = score
			best = c
			found = true
		}
	}
	return best, found
}

// Similarity is a normalized Damerau-Levenshtein ratio in [0,1].
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	d := damerauLevenshtein(a, b)
	m := max(len([]rune(a)), len([]rune(b)))
	return 1 - float64(d)/float64(m)
}
