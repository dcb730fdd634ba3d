package rank

import (
	"regexp"
	"strings"
)

// stopWords are dropped before expansion: articles, prepositions, and the
// conversational filler a recommendation query tends to carry.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "up": true, "about": true,
	"into": true, "through": true, "during": true, "can": true, "you": true,
	"recommend": true, "suggest": true, "find": true, "show": true, "me": true,
	"books": true, "book": true, "something": true, "anything": true,
	"looking": true, "want": true, "need": true, "like": true, "please": true,
	"thanks": true, "help": true, "what": true, "which": true, "that": true,
	"this": true, "i": true,
}

// synonyms expands a surviving token into related terms. Expansion is one
// level deep and purely additive: expanded terms are never re-expanded and
// the original token is always kept.
var synonyms = map[string][]string{
	// genres
	"mystery":    {"thriller", "detective", "crime"},
	"romance":    {"love", "romantic", "relationship"},
	"scifi":      {"science", "fiction", "space", "future"},
	"sci-fi":     {"science", "fiction", "space", "future"},
	"fantasy":    {"magic", "wizard", "dragon", "quest"},
	"historical": {"history", "period", "war"},
	// moods
	"funny":     {"humor", "comedy", "humorous", "witty"},
	"scary":     {"horror", "thriller", "suspense", "dark"},
	"sad":       {"emotional", "touching", "poignant"},
	"uplifting": {"inspiring", "heartwarming", "positive"},
	// formats
	"audio":    {"audiobook", "listening"},
	"digital":  {"ebook", "electronic"},
	"physical": {"paperback", "hardcover", "print"},
}

var punctuation = regexp.MustCompile(`[^\w\s]`)

// ExtractKeywords turns a raw query into a deduplicated, ordered set of
// lowercase keywords: punctuation stripped, tokens of length <= 2 and stop
// words dropped, synonym expansions appended after the original tokens.
// A query of only stop words or punctuation yields an empty set.
func ExtractKeywords(query string) []string {
	cleaned := punctuation.ReplaceAllString(strings.ToLower(query), " ")

	var kept []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) <= 2 || stopWords[tok] {
			continue
		}
		kept = append(kept, tok)
	}

	expanded := make([]string, 0, len(kept))
	expanded = append(expanded, kept...)
	for _, tok := range kept {
		expanded = append(expanded, synonyms[tok]...)
	}

	return dedupe(expanded)
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
