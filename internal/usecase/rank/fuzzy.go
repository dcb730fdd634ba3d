package rank

import (
	"strings"

	"github.com/xrash/smetrics"
)

// Fuzzy-match tuning. Empirically chosen: approximate hits below the
// similarity cutoff score nothing, and hits above it are discounted so
// they never outrank exact, containment, or prefix matches.
const (
	exactScore    = 1.0
	containsScore = 0.8
	prefixScore   = 0.7
	fuzzyCutoff   = 0.6
	fuzzyDiscount = 0.5
)

// fuzzyMatch scores the similarity of two strings in [0, 1], first match
// wins: exact 1.0, containment either direction 0.8, prefix either
// direction 0.7, then discounted normalized edit-distance similarity.
// With fuzzy=false it degrades to binary containment.
func fuzzyMatch(a, b string, fuzzy bool) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == "" || b == "" {
		return 0
	}

	if !fuzzy {
		if strings.Contains(a, b) {
			return exactScore
		}
		return 0
	}

	if a == b {
		return exactScore
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return containsScore
	}
	if strings.HasPrefix(a, b) || strings.HasPrefix(b, a) {
		return prefixScore
	}

	maxLen := max(len(a), len(b))
	dist := smetrics.WagnerFischer(a, b, 1, 1, 1)
	similarity := 1 - float64(dist)/float64(maxLen)
	if similarity > fuzzyCutoff {
		return similarity * fuzzyDiscount
	}
	return 0
}
