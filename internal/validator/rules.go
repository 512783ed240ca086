// Package validator checks pupil sentences against a formula's structure:
// a deterministic rule pass first, then an LLM judgement for sentences
// that pass the rules.
package validator

import (
	"strings"

	"sentencecraft/internal/curriculum"
)

// IssueEmptySentence is the exact message for an empty submission.
const IssueEmptySentence = "Please write a sentence"

// Determiners a sentence may start with when the structure requires one.
var determinerSet = map[string]bool{
	"the": true, "a": true, "an": true, "my": true, "your": true,
	"his": true, "her": true, "its": true, "our": true, "their": true,
	"this": true, "that": true, "these": true, "those": true,
}

// Adverbs that do not end in -ly but still count.
var adverbAllowList = map[string]bool{
	"quickly": true, "slowly": true, "happily": true, "quietly": true,
	"loudly": true, "gently": true, "bravely": true,
	"fast": true, "hard": true, "well": true,
}

// Result is the outcome of the rule-based check.
type Result struct {
	Valid  bool
	Issues []string
}

// CheckStructure runs the deterministic structural checks for a sentence
// against the required slots. It is a cheap gate before any LLM call, not
// a grammar checker: it only verifies structural presence.
//
// Issues accumulate rather than short-circuiting, except for an empty
// sentence, which skips all further checks.
func CheckStructure(sentence string, structure []string) Result {
	tokens := strings.Fields(sentence)
	if len(tokens) == 0 {
		return Result{Valid: false, Issues: []string{IssueEmptySentence}}
	}

	var issues []string

	if requiresSlot(structure, curriculum.SlotSubject) && requiresSlot(structure, curriculum.SlotVerb) && len(tokens) < 2 {
		issues = append(issues, "Your sentence needs at least a subject and a verb")
	}

	if requiresSlot(structure, curriculum.SlotDeterminer) {
		first := strings.ToLower(tokens[0])
		if !determinerSet[first] {
			issues = append(issues, "Your sentence should start with a determiner like 'the', 'a' or 'my'")
		}
	}

	if requiresSlot(structure, curriculum.SlotAdverb) && !containsAdverb(tokens) {
		issues = append(issues, "Your sentence needs an adverb - a word that tells us how, like 'quickly' or 'quietly'")
	}

	return Result{Valid: len(issues) == 0, Issues: issues}
}

func requiresSlot(structure []string, slot string) bool {
	for _, s := range structure {
		if s == slot {
			return true
		}
	}
	return false
}

func containsAdverb(tokens []string) bool {
	for _, t := range tokens {
		w := strings.ToLower(strings.Trim(t, ".,!?"))
		if strings.HasSuffix(w, "ly") || adverbAllowList[w] {
			return true
		}
	}
	return false
}
