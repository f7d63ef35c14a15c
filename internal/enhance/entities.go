package enhance

import (
	"regexp"
	"strings"
)

// maxSearchTerms caps how many terms one transcript can send to research.
const maxSearchTerms = 8

// knownEntities lists companies, universities, and research labs worth
// researching when they appear anywhere in a transcript. Matching is
// case-insensitive substring containment; matched names are title-cased
// before use as search terms.
var knownEntities = []string{
	// Top tech companies
	"google", "apple", "microsoft", "amazon", "meta", "facebook", "netflix", "tesla", "openai", "anthropic",
	"ibm", "oracle", "salesforce", "adobe", "nvidia", "intel", "amd", "spotify", "twitter", "linkedin",
	"uber", "airbnb", "stripe", "shopify", "slack", "zoom", "discord", "github", "gitlab", "dropbox",
	// Crypto / fintech
	"binance", "coinbase", "kraken", "ftx", "robinhood", "paypal", "square", "block", "visa", "mastercard",
	"revolut", "wise", "plaid", "affirm", "klarna", "chime", "sofi",
	// Startups and other companies
	"palantir", "snowflake", "datadog", "mongodb", "elastic", "twilio", "okta", "cloudflare", "figma",
	"notion", "airtable", "asana", "monday", "atlassian", "jira", "confluence", "vercel", "netlify",
	"heroku", "digitalocean", "linode", "render", "supabase", "firebase", "auth0",
	// Consulting / finance
	"mckinsey", "bain", "bcg", "deloitte", "pwc", "kpmg", "ey", "accenture", "goldman sachs", "morgan stanley",
	"jp morgan", "blackrock", "citadel", "two sigma", "jane street", "bridgewater",
	// Universities
	"mit", "stanford", "harvard", "yale", "princeton", "columbia", "berkeley", "caltech", "carnegie mellon",
	"cornell", "upenn", "penn", "brown", "dartmouth", "duke", "northwestern", "uchicago", "chicago",
	"ucla", "nyu", "umich", "michigan", "gatech", "georgia tech", "ut austin", "uiuc", "illinois",
	"purdue", "waterloo", "toronto", "oxford", "cambridge", "imperial", "eth zurich",
	// Research labs
	"deepmind", "fair", "google brain", "microsoft research", "ibm research", "bell labs",
}

// entitySkipWords filters sentence-initial and other common capitalized words
// out of the proper-noun regex matches.
var entitySkipWords = map[string]struct{}{
	"The": {}, "And": {}, "For": {}, "But": {}, "Not": {}, "You": {}, "All": {},
	"Can": {}, "Had": {}, "Her": {}, "Was": {}, "One": {}, "Our": {}, "Out": {},
	"This": {}, "That": {}, "They": {}, "What": {}, "When": {}, "Where": {},
	"Why": {}, "How": {}, "Who": {}, "Will": {}, "Would": {}, "Could": {},
	"Should": {}, "Have": {}, "Been": {}, "Being": {}, "Some": {}, "Any": {},
	"Each": {}, "Every": {}, "Both": {}, "Few": {}, "More": {}, "Most": {},
	"Other": {}, "Such": {}, "Only": {}, "Same": {}, "Than": {}, "Very": {},
	"Just": {}, "Also": {}, "Now": {}, "Here": {}, "There": {}, "Then": {},
	"Well": {},
}

// programKeywords are academic or professional programs that combine with an
// entity into a targeted search ("Princeton mathematics").
var programKeywords = []string{
	"math", "mathematics", "computer science", "engineering", "physics",
	"chemistry", "biology", "economics", "business", "law", "medicine",
	"research", "program", "department",
}

// capitalizedPhrase matches single proper nouns and runs of capitalized words
// ("Jane Street Capital").
var capitalizedPhrase = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)

// entityMatcher corrects transcription-mangled entity names ("Pallantir",
// "open ai") back to table entries. Nil disables fuzzy matching.
var entityMatcher = newFuzzyMatcher()

// ExtractSearchTerms pulls research-worthy terms out of a transcript: known
// entities, capitalized phrases that look like proper nouns, and
// entity+program combinations. Terms are deduplicated, kept in first-seen
// order, and capped at eight.
func ExtractSearchTerms(text string) []string {
	lower := strings.ToLower(text)

	var terms []string
	seen := make(map[string]struct{})
	add := func(term string) {
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}

	for _, entity := range knownEntities {
		if strings.Contains(lower, entity) {
			add(titleCase(entity))
		}
	}

	for _, match := range capitalizedPhrase.FindAllString(text, -1) {
		if len(match) <= 2 {
			continue
		}
		if _, skip := entitySkipWords[match]; skip {
			continue
		}
		add(match)
		// A capitalized phrase may be a mangled spelling of a known entity;
		// resolve it so research hits the real page.
		if entityMatcher != nil {
			if canonical, ok := entityMatcher.match(match, knownEntities); ok {
				add(titleCase(canonical))
			}
		}
	}

	// Pair every entity found so far with the first program mentioned, e.g.
	// "Princeton" + "mathematics" -> "Princeton mathematics".
	for _, program := range programKeywords {
		if !strings.Contains(lower, program) {
			continue
		}
		for _, entity := range append([]string(nil), terms...) {
			add(entity + " " + program)
		}
		break
	}

	if len(terms) > maxSearchTerms {
		terms = terms[:maxSearchTerms]
	}
	return terms
}

// titleCase capitalizes the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
