package enhance

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// fuzzyMatchThreshold is the minimum Jaro-Winkler similarity for a capitalized
// phrase to be treated as a misspelled known entity. High on purpose: a false
// positive injects a wrong company into research, a false negative only loses
// a lookup.
const fuzzyMatchThreshold = 0.93

// fuzzyMatcher resolves transcription-mangled spellings against a list of
// entity names using Double Metaphone candidate filtering and Jaro-Winkler
// ranking. Read-only after construction, safe for concurrent use.
type fuzzyMatcher struct {
	threshold float64
}

func newFuzzyMatcher() *fuzzyMatcher {
	return &fuzzyMatcher{threshold: fuzzyMatchThreshold}
}

// match returns the best-scoring entity for phrase, requiring both a phonetic
// code overlap and a Jaro-Winkler score at or above the threshold. Exact
// (case-insensitive) matches are not reported; the caller has those already.
func (m *fuzzyMatcher) match(phrase string, entities []string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(phrase))
	if lower == "" {
		return "", false
	}

	inputCodes := phoneticCodes(strings.Fields(lower))

	var bestEntity string
	var bestScore float64
	for _, entity := range entities {
		if entity == lower {
			continue
		}
		if !codesOverlap(inputCodes, phoneticCodes(strings.Fields(entity))) {
			continue
		}
		score := similarity(lower, entity)
		if score >= m.threshold && score > bestScore {
			bestEntity = entity
			bestScore = score
		}
	}

	if bestEntity == "" {
		return "", false
	}
	return bestEntity, true
}

// similarity is the best Jaro-Winkler score between the two names, compared
// both as-is and with spaces stripped so "open ai" can match "openai".
func similarity(a, b string) float64 {
	score := matchr.JaroWinkler(a, b, false)
	if strings.ContainsRune(a, ' ') || strings.ContainsRune(b, ' ') {
		ca := strings.ReplaceAll(a, " ", "")
		cb := strings.ReplaceAll(b, " ", "")
		if s := matchr.JaroWinkler(ca, cb, false); s > score {
			score = s
		}
	}
	return score
}

// phoneticCodes returns the union of Double Metaphone codes for the tokens.
func phoneticCodes(tokens []string) map[string]struct{} {
	codes := make(map[string]struct{}, len(tokens)*2)
	for _, t := range tokens {
		primary, secondary := matchr.DoubleMetaphone(t)
		if primary != "" {
			codes[primary] = struct{}{}
		}
		if secondary != "" {
			codes[secondary] = struct{}{}
		}
	}
	return codes
}

// codesOverlap reports whether the two code sets share at least one code.
func codesOverlap(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for code := range a {
		if _, ok := b[code]; ok {
			return true
		}
	}
	return false
}
