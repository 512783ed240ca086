package validator

import (
	"testing"
)

func TestCheckStructureEmptySentence(t *testing.T) {
	tests := []string{"", "   ", "\t\n"}
	for _, sentence := range tests {
		result := CheckStructure(sentence, []string{"subject", "verb"})
		if result.Valid {
			t.Errorf("CheckStructure(%q) valid, want invalid", sentence)
		}
		if len(result.Issues) != 1 || result.Issues[0] != IssueEmptySentence {
			t.Errorf("CheckStructure(%q).Issues = %v, want exactly [%q]", sentence, result.Issues, IssueEmptySentence)
		}
	}
}

func TestCheckStructure(t *testing.T) {
	tests := []struct {
		name      string
		sentence  string
		structure []string
		wantValid bool
		wantIssue string
	}{
		{
			name:      "subject and verb present",
			sentence:  "Dog runs",
			structure: []string{"subject", "verb"},
			wantValid: true,
		},
		{
			name:      "single word needs subject and verb",
			sentence:  "Runs",
			structure: []string{"subject", "verb"},
			wantValid: false,
			wantIssue: "Your sentence needs at least a subject and a verb",
		},
		{
			name:      "determiner present",
			sentence:  "The dog runs",
			structure: []string{"determiner", "subject", "verb"},
			wantValid: true,
		},
		{
			name:      "missing determiner",
			sentence:  "Dog runs fast",
			structure: []string{"determiner", "subject", "verb"},
			wantValid: false,
			wantIssue: "Your sentence should start with a determiner like 'the', 'a' or 'my'",
		},
		{
			name:      "determiner is case insensitive",
			sentence:  "My dog runs",
			structure: []string{"determiner", "subject", "verb"},
			wantValid: true,
		},
		{
			name:      "adverb with ly suffix",
			sentence:  "The lion loudly roars",
			structure: []string{"determiner", "subject", "adverb", "verb"},
			wantValid: true,
		},
		{
			name:      "adverb from allow list",
			sentence:  "The dog runs fast",
			structure: []string{"determiner", "subject", "verb", "adverb"},
			wantValid: true,
		},
		{
			name:      "missing adverb",
			sentence:  "The dog runs",
			structure: []string{"determiner", "subject", "verb", "adverb"},
			wantValid: false,
			wantIssue: "Your sentence needs an adverb - a word that tells us how, like 'quickly' or 'quietly'",
		},
		{
			name:      "adverb trailing punctuation stripped",
			sentence:  "The dog runs quickly.",
			structure: []string{"determiner", "subject", "verb", "adverb"},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckStructure(tt.sentence, tt.structure)
			if result.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v (issues: %v)", result.Valid, tt.wantValid, result.Issues)
			}
			if tt.wantIssue != "" && !containsIssue(result.Issues, tt.wantIssue) {
				t.Errorf("Issues = %v, want to contain %q", result.Issues, tt.wantIssue)
			}
		})
	}
}

func TestCheckStructureAccumulatesIssues(t *testing.T) {
	// One word, no determiner, no adverb: all three checks should report.
	result := CheckStructure("runs", []string{"determiner", "subject", "verb", "adverb"})
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Issues) != 3 {
		t.Errorf("got %d issues %v, want 3", len(result.Issues), result.Issues)
	}
}

func containsIssue(issues []string, want string) bool {
	for _, issue := range issues {
		if issue == want {
			return true
		}
	}
	return false
}
