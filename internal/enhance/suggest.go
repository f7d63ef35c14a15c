package enhance

import (
	"regexp"
	"sort"
	"strings"
)

// maxSuggestions caps how many suggestions one result carries.
const maxSuggestions = 3

// briefWordLimit triggers the universal "add more detail" suggestion.
const briefWordLimit = 50

// suggestRule fires its suggestion when the text contains any of requireAny
// (empty means always) and none of absentAll nor absentPatterns. Most rules
// are pure absence checks: the text never mentions skills, so suggest
// mentioning them.
type suggestRule struct {
	requireAny     []string
	absentAll      []string
	absentPatterns []*regexp.Regexp
	suggestion     Suggestion
}

func (r suggestRule) applies(lower string) bool {
	if len(r.requireAny) > 0 && !hasAny(lower, r.requireAny) {
		return false
	}
	if hasAny(lower, r.absentAll) {
		return false
	}
	for _, p := range r.absentPatterns {
		if p.MatchString(lower) {
			return false
		}
	}
	return true
}

var (
	yearPattern      = regexp.MustCompile(`\d{4}`)
	anecdotePattern  = regexp.MustCompile(`when i was`)
	techKeywords     = []string{"react", "python", "javascript", "node", "typescript", "java", "sql"}
	projTechKeywords = []string{"react", "python", "javascript", "node", "typescript", "java", "sql", "swift", "kotlin"}
	buildKeywords    = []string{"built", "created", "developed", "app", "project", "website"}
)

var jobRules = []suggestRule{
	{
		requireAny: buildKeywords,
		absentAll:  techKeywords,
		suggestion: Suggestion{
			Type:        SuggestionImprovement,
			Title:       "Add specific technologies",
			Description: `Mention the languages, frameworks, and tools you used (e.g., "React, Node.js, PostgreSQL"). The AI has added likely technologies - review and adjust to match what you actually used.`,
			Priority:    PriorityHigh,
		},
	},
	{
		absentAll: []string{"achieve", "accomplish", "result", "impact"},
		suggestion: Suggestion{
			Type:        SuggestionImprovement,
			Title:       "Quantify your achievements",
			Description: `Add specific numbers or metrics to demonstrate impact (e.g., "increased sales by 25%", "managed team of 5").`,
			Priority:    PriorityHigh,
		},
	},
	{
		absentAll: []string{"skill", "experience", "proficient"},
		suggestion: Suggestion{
			Type:        SuggestionAddition,
			Title:       "Highlight relevant skills",
			Description: "Mention specific technical or soft skills that match the job requirements.",
			Priority:    PriorityHigh,
		},
	},
	{
		absentAll: []string{"why", "passion", "excited", "interested"},
		suggestion: Suggestion{
			Type:        SuggestionAddition,
			Title:       "Show genuine interest",
			Description: "Explain why you're specifically interested in this company or role, not just any job.",
			Priority:    PriorityMedium,
		},
	},
}

var essayRules = []suggestRule{
	{
		absentAll: []string{"learn", "grow", "change", "realize"},
		suggestion: Suggestion{
			Type:        SuggestionImprovement,
			Title:       "Show personal growth",
			Description: "Colleges want to see how experiences changed you. Reflect on what you learned or how you grew.",
			Priority:    PriorityHigh,
		},
	},
	{
		absentAll:      []string{"specific"},
		absentPatterns: []*regexp.Regexp{yearPattern, anecdotePattern},
		suggestion: Suggestion{
			Type:        SuggestionStructure,
			Title:       "Add a specific story",
			Description: "Start with a vivid, specific moment or anecdote. Show, don't just tell.",
			Priority:    PriorityHigh,
		},
	},
	{
		absentAll: []string{"future", "goal", "plan", "aspire"},
		suggestion: Suggestion{
			Type:        SuggestionAddition,
			Title:       "Connect to future goals",
			Description: "Briefly mention how this experience or interest connects to what you want to do next.",
			Priority:    PriorityMedium,
		},
	},
}

var scholarshipRules = []suggestRule{
	{
		absentAll: []string{"financial", "support", "help", "enable"},
		suggestion: Suggestion{
			Type:        SuggestionAddition,
			Title:       "Explain the impact",
			Description: "Describe how this scholarship would help you achieve your goals or overcome challenges.",
			Priority:    PriorityHigh,
		},
	},
	{
		absentAll: []string{"community", "give back", "contribute"},
		suggestion: Suggestion{
			Type:        SuggestionAddition,
			Title:       "Mention giving back",
			Description: "Scholarships often favor applicants who plan to contribute to their community or field.",
			Priority:    PriorityMedium,
		},
	},
}

var competitionRules = []suggestRule{
	{
		absentAll: []string{"unique", "different", "innovative", "novel"},
		suggestion: Suggestion{
			Type:        SuggestionImprovement,
			Title:       "Highlight what's unique",
			Description: "Clearly state what makes your entry different from others. What's your unique angle?",
			Priority:    PriorityHigh,
		},
	},
	{
		absentAll: []string{"problem", "solve", "address", "challenge"},
		suggestion: Suggestion{
			Type:        SuggestionStructure,
			Title:       "Define the problem",
			Description: `Start by clearly stating the problem you're solving. Make judges understand the "why".`,
			Priority:    PriorityHigh,
		},
	},
}

var clubRules = []suggestRule{
	{
		absentAll: []string{"contribute", "bring", "offer", "add"},
		suggestion: Suggestion{
			Type:        SuggestionAddition,
			Title:       "State your contribution",
			Description: "Be specific about what you'll bring to the club - skills, ideas, or connections.",
			Priority:    PriorityHigh,
		},
	},
	{
		absentAll: []string{"commit", "dedicate", "time", "available"},
		suggestion: Suggestion{
			Type:        SuggestionAddition,
			Title:       "Show commitment",
			Description: "Mention your availability and commitment level. Clubs want reliable members.",
			Priority:    PriorityMedium,
		},
	},
}

var projectRules = []suggestRule{
	{
		absentAll: projTechKeywords,
		suggestion: Suggestion{
			Type:        SuggestionTip,
			Title:       "Review inferred technologies",
			Description: "The AI has added likely technologies based on your project description. Review and adjust to match what you actually used.",
			Priority:    PriorityHigh,
		},
	},
	{
		absentAll: []string{"user", "people", "customer", "audience"},
		suggestion: Suggestion{
			Type:        SuggestionAddition,
			Title:       "Identify target users",
			Description: "Who is this project for? Describing your target audience adds context.",
			Priority:    PriorityMedium,
		},
	},
	{
		absentAll: []string{"challenge", "difficult", "obstacle", "problem"},
		suggestion: Suggestion{
			Type:        SuggestionTip,
			Title:       "Mention challenges overcome",
			Description: "Briefly describe a challenge you faced and how you solved it. This shows problem-solving skills.",
			Priority:    PriorityLow,
		},
	},
}

var emailRules = []suggestRule{
	{
		absentAll: []string{"appreciate", "thank", "grateful"},
		suggestion: Suggestion{
			Type:        SuggestionTip,
			Title:       "Add appreciation",
			Description: "A brief thank you or acknowledgment creates a warmer tone.",
			Priority:    PriorityLow,
		},
	},
	{
		absentAll: []string{"next step", "please", "let me know", "could you"},
		suggestion: Suggestion{
			Type:        SuggestionStructure,
			Title:       "Include a clear ask",
			Description: "End with a specific call-to-action or next step.",
			Priority:    PriorityMedium,
		},
	},
}

var generalRules = []suggestRule{
	{
		absentAll: []string{"example", "for instance", "such as"},
		suggestion: Suggestion{
			Type:        SuggestionTip,
			Title:       "Add examples",
			Description: "Specific examples make your points more concrete and memorable.",
			Priority:    PriorityLow,
		},
	},
}

// suggestionRules maps each intent to its rule set. Meeting notes share the
// general rules; they have no dedicated checklist.
var suggestionRules = map[Intent][]suggestRule{
	IntentJobApplication:    jobRules,
	IntentCoverLetter:       jobRules,
	IntentCollegeEssay:      essayRules,
	IntentPersonalStatement: essayRules,
	IntentScholarship:       scholarshipRules,
	IntentCompetition:       competitionRules,
	IntentClubApplication:   clubRules,
	IntentProject:           projectRules,
	IntentEmailDraft:        emailRules,
	IntentMeetingNotes:      generalRules,
	IntentGeneral:           generalRules,
}

// priorityRank orders suggestions highest first.
var priorityRank = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// GenerateSuggestions produces up to three writing recommendations for the
// original text, sorted by priority. The brief-input rule applies to every
// intent; the rest come from the intent's rule table.
func GenerateSuggestions(text string, intent Intent) []Suggestion {
	lower := strings.ToLower(text)

	var out []Suggestion
	if wordCount(text) < briefWordLimit {
		out = append(out, Suggestion{
			Type:        SuggestionAddition,
			Title:       "Add more detail",
			Description: "Your content is quite brief. Consider expanding with specific examples or context.",
			Priority:    PriorityMedium,
		})
	}

	rules, ok := suggestionRules[intent]
	if !ok {
		rules = generalRules
	}
	for _, r := range rules {
		if r.applies(lower) {
			out = append(out, r.suggestion)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return priorityRank[out[i].Priority] < priorityRank[out[j].Priority]
	})
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
