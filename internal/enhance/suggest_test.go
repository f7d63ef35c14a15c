package enhance

import "testing"

func titles(sugs []Suggestion) []string {
	out := make([]string, len(sugs))
	for i, s := range sugs {
		out[i] = s.Title
	}
	return out
}

func TestGenerateSuggestionsJobApplication(t *testing.T) {
	t.Parallel()

	// Short, vague job text: misses every checklist item, so the three high
	// priority rules crowd out the medium ones.
	got := GenerateSuggestions("I am applying for the developer position at the company", IntentJobApplication)

	if len(got) != maxSuggestions {
		t.Fatalf("len = %d, want %d: %v", len(got), maxSuggestions, titles(got))
	}
	for i, s := range got {
		if s.Priority != PriorityHigh {
			t.Errorf("suggestion %d priority = %q, want all high: %v", i, s.Priority, titles(got))
		}
	}
}

func TestGenerateSuggestionsPrioritySorted(t *testing.T) {
	t.Parallel()

	// General intent, brief text: one medium (brevity) and one low (examples).
	got := GenerateSuggestions("Today I walked around the block", IntentGeneral)

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(got), titles(got))
	}
	if got[0].Priority != PriorityMedium || got[0].Title != "Add more detail" {
		t.Errorf("got[0] = %+v, want the brevity suggestion first", got[0])
	}
	if got[1].Priority != PriorityLow || got[1].Title != "Add examples" {
		t.Errorf("got[1] = %+v, want the examples tip last", got[1])
	}
}

func TestGenerateSuggestionsRulesRespectPresence(t *testing.T) {
	t.Parallel()

	// Mentions achievements with numbers, skills, and motivation: only the
	// remaining gaps should surface.
	text := "I am applying for the engineering position. My work experience includes " +
		"projects where the result was real impact. I am excited about this role " +
		"because my skills in Python fit well."
	got := GenerateSuggestions(text, IntentJobApplication)

	for _, s := range got {
		switch s.Title {
		case "Quantify your achievements":
			t.Errorf("rule fired despite achievement keywords: %v", titles(got))
		case "Highlight relevant skills":
			t.Errorf("rule fired despite skill keywords: %v", titles(got))
		case "Show genuine interest":
			t.Errorf("rule fired despite interest keywords: %v", titles(got))
		}
	}
}

func TestGenerateSuggestionsEmailDraft(t *testing.T) {
	t.Parallel()

	text := "Email to the facilities office about the broken heater in the hallway " +
		"that has been making noise for weeks and really needs attention soon " +
		"because winter is coming and the office gets quite cold in the afternoons " +
		"which makes it hard for everyone on the floor to focus on their work"
	got := GenerateSuggestions(text, IntentEmailDraft)

	var sawAsk, sawThanks bool
	for _, s := range got {
		if s.Title == "Include a clear ask" {
			sawAsk = true
		}
		if s.Title == "Add appreciation" {
			sawThanks = true
		}
	}
	if !sawAsk {
		t.Errorf("missing call-to-action suggestion: %v", titles(got))
	}
	if !sawThanks {
		t.Errorf("missing appreciation suggestion: %v", titles(got))
	}
}

func TestGenerateSuggestionsMeetingNotesUsesGeneralRules(t *testing.T) {
	t.Parallel()

	got := GenerateSuggestions("We discussed the budget", IntentMeetingNotes)
	var sawExamples bool
	for _, s := range got {
		if s.Title == "Add examples" {
			sawExamples = true
		}
	}
	if !sawExamples {
		t.Errorf("meeting notes should fall back to general rules: %v", titles(got))
	}
}
