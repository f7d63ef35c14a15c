package enhance

import "testing"

func TestClassifyIntent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want Intent
	}{
		{
			name: "cover letter phrase",
			text: "Here's a draft of my cover letter for the internship",
			want: IntentCoverLetter,
		},
		{
			name: "scholarship keyword",
			text: "I need this scholarship to afford next year",
			want: IntentScholarship,
		},
		{
			name: "essay keyword",
			text: "This is for my common app essay",
			want: IntentCollegeEssay,
		},
		{
			name: "two college keywords without essay words",
			text: "As a freshman I'm still figuring out campus life",
			want: IntentCollegeEssay,
		},
		{
			name: "competition keyword",
			text: "Our hackathon demo goes in front of the judges tomorrow",
			want: IntentCompetition,
		},
		{
			name: "two club keywords",
			text: "I'd love to be treasurer of the chess club",
			want: IntentClubApplication,
		},
		{
			name: "apply phrase plus company name",
			text: "I want to work at Google",
			want: IntentJobApplication,
		},
		{
			name: "two generic job keywords",
			text: "My resume is ready for the interview",
			want: IntentJobApplication,
		},
		{
			name: "single job keyword is not enough",
			text: "Amazon is a good company",
			want: IntentGeneral,
		},
		{
			name: "two project keywords",
			text: "I built an app over the weekend",
			want: IntentProject,
		},
		{
			name: "email signal",
			text: "Need to send an email to my landlord",
			want: IntentEmailDraft,
		},
		{
			name: "meeting signals",
			text: "In the standup we discussed the rollout",
			want: IntentMeetingNotes,
		},
		{
			name: "no signals",
			text: "Went running this morning before sunrise",
			want: IntentGeneral,
		},
		{
			name: "scholarship outranks job signals",
			text: "I'm applying for the scholarship that Google sponsors",
			want: IntentScholarship,
		},
		{
			name: "cover letter outranks everything",
			text: "Dear hiring manager, I built many projects and won a hackathon",
			want: IntentCoverLetter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ClassifyIntent(tt.text); got != tt.want {
				t.Errorf("ClassifyIntent(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifyIntentDeterministic(t *testing.T) {
	t.Parallel()

	text := "I want to work at Google on the maps team"
	first := ClassifyIntent(text)
	for i := 0; i < 50; i++ {
		if got := ClassifyIntent(text); got != first {
			t.Fatalf("run %d: got %q, want stable %q", i, got, first)
		}
	}
}
