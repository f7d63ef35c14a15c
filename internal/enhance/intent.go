package enhance

import "strings"

// Keyword tables for intent classification. Matching is case-insensitive
// substring containment; counts are the number of distinct table entries
// present in the text.
var (
	coverLetterKeywords = []string{
		"cover letter", "dear hiring", "dear recruiter",
		"i am writing to apply", "i am interested in the position",
	}

	scholarshipKeywords = []string{
		"scholarship", "financial aid", "merit", "award", "grant", "funding", "tuition",
	}

	essayKeywords = []string{
		"essay", "personal statement", "why this school", "common app",
		"supplemental", "prompt", "word limit", "character limit",
	}

	collegeKeywords = []string{
		"college", "university", "admission", "campus", "major", "degree",
		"undergraduate", "graduate", "freshman", "sophomore", "junior", "senior",
		"gpa", "extracurricular",
	}

	competitionKeywords = []string{
		"competition", "contest", "hackathon", "challenge", "submission",
		"pitch", "presentation", "judges", "prize", "winner",
	}

	clubKeywords = []string{
		"club", "organization", "society", "leadership", "member", "e-board",
		"executive board", "president", "vice president", "treasurer",
		"secretary", "committee",
	}

	jobKeywords = []string{
		"job", "position", "role", "hiring", "interview", "resume", "cv",
		"employer", "work experience", "career", "company culture", "team",
		"salary", "benefits", "apply", "applying", "want to work", "work at",
		"join", "application",
	}

	// applyPhrases paired with a company name is a strong job signal even when
	// the text carries only one generic job keyword.
	applyPhrases = []string{"apply", "applying", "want to work", "work at", "join"}

	companyNames = []string{
		"google", "apple", "microsoft", "amazon", "meta", "facebook", "netflix",
		"tesla", "openai", "anthropic", "palantir", "stripe", "airbnb", "uber",
		"spotify", "twitter", "linkedin", "github", "snowflake", "datadog",
		"coinbase", "robinhood", "mckinsey", "bain", "bcg", "deloitte",
		"goldman sachs", "morgan stanley", "jp morgan", "jane street",
		"citadel", "two sigma",
	}

	projectKeywords = []string{
		"project", "built", "developed", "created", "implemented", "designed",
		"app", "application", "website", "software", "system", "feature",
		"functionality",
	}

	emailSignals   = []string{"email", "dear", "sincerely", "best regards"}
	meetingSignals = []string{"meeting", "agenda", "action items", "discussed"}
)

// hasAny reports whether lower contains any of the keywords.
func hasAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// countHits counts the keywords contained in lower.
func countHits(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

// ClassifyIntent detects what the text is trying to be. Rules run from most to
// least specific; the first match wins, so a transcript mentioning both a
// scholarship and a job classifies as a scholarship application.
func ClassifyIntent(text string) Intent {
	lower := strings.ToLower(text)

	if hasAny(lower, coverLetterKeywords) {
		return IntentCoverLetter
	}
	if hasAny(lower, scholarshipKeywords) {
		return IntentScholarship
	}
	if hasAny(lower, essayKeywords) || countHits(lower, collegeKeywords) >= 2 {
		return IntentCollegeEssay
	}
	if hasAny(lower, competitionKeywords) {
		return IntentCompetition
	}
	if countHits(lower, clubKeywords) >= 2 {
		return IntentClubApplication
	}
	// A single apply phrase plus a known company is enough for a job
	// application; otherwise require two generic job keywords.
	if hasAny(lower, applyPhrases) && hasAny(lower, companyNames) {
		return IntentJobApplication
	}
	if countHits(lower, jobKeywords) >= 2 {
		return IntentJobApplication
	}
	if countHits(lower, projectKeywords) >= 2 {
		return IntentProject
	}
	if hasAny(lower, emailSignals) {
		return IntentEmailDraft
	}
	if hasAny(lower, meetingSignals) {
		return IntentMeetingNotes
	}
	return IntentGeneral
}
