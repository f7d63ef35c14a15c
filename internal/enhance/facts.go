package enhance

import (
	"regexp"
	"strings"
)

// maxFactSentences caps how many specific sentences make it into the prompt.
const maxFactSentences = 3

// specificPatterns match sentences carrying concrete, nameable facts. Generic
// praise ("a leading company") matches none of them and gets dropped.
var specificPatterns = []*regexp.Regexp{
	// Named products and services
	regexp.MustCompile(`(?i)\b(AWS|EC2|S3|Lambda|Azure|GCP|iOS|Android|Chrome|Gmail|YouTube|Maps|Drive|Alexa|Siri|Cortana)\b`),
	// Named programs and initiatives; case-sensitive, these are proper codenames
	regexp.MustCompile(`\b(STEP|BOLD|APM|LDP|Foundry|Gotham|Apollo|Metropolis)\b`),
	// Competitions and conferences
	regexp.MustCompile(`(?i)\b(Putnam|IMO|ICPC|ACM|IEEE|SIGGRAPH|NeurIPS|ICML)\b`),
	// Numeric claims: rankings, percentages, dollar amounts. The $ and %
	// signs are not word characters, so those alternatives anchor themselves.
	regexp.MustCompile(`(?i)\b(ranked?\s*#?\d+|top\s*\d+)\b`),
	regexp.MustCompile(`\b\d+%`),
	regexp.MustCompile(`(?i)\$[\d.]+\s*(billion|million|b|m)\b`),
	// Acronym-named labs and groups
	regexp.MustCompile(`\b([A-Z]{2,}(?:\s+Lab|\s+Research|\s+Institute)?)\b`),
	// Course codes
	regexp.MustCompile(`\b(CS\s*\d{3}|Math\s*\d{3}|[A-Z]{2,4}\s*\d{3,4})\b`),
}

// sentenceSplit breaks prose on terminal punctuation runs.
var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// ExtractSpecificFacts keeps only the sentences of text that state something
// concrete: a named product, a program codename, a competition, a number, an
// acronym, or a course code. Returns the first three such sentences joined
// with periods, or ok=false when nothing specific was found.
func ExtractSpecificFacts(text string) (string, bool) {
	var specific []string
	for _, raw := range sentenceSplit.Split(text, -1) {
		sentence := strings.TrimSpace(raw)
		if len(sentence) <= 10 {
			continue
		}
		for _, pattern := range specificPatterns {
			if pattern.MatchString(sentence) {
				specific = append(specific, sentence)
				break
			}
		}
		if len(specific) == maxFactSentences {
			break
		}
	}

	if len(specific) == 0 {
		return "", false
	}
	return strings.Join(specific, ". ") + ".", true
}
