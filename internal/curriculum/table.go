// Package curriculum holds the authored lesson table for progressive
// writing practice: which sentence structures a pupil works through at
// each lesson, and which grammar concepts each lesson unlocks.
package curriculum

import (
	"errors"
	"fmt"
	"strings"
)

// Grammatical slot names used in formula structures.
const (
	SlotSubject    = "subject"
	SlotVerb       = "verb"
	SlotDeterminer = "determiner"
	SlotAdjective  = "adjective"
	SlotAdverb     = "adverb"
	SlotObject     = "object"
)

// ErrLessonNotFound is returned when a lesson number has no authored entry.
var ErrLessonNotFound = errors.New("lesson not found")

// LessonSpec describes one lesson's practice sequence.
type LessonSpec struct {
	LessonNumber int

	// Structures is the ordered formula sequence, each entry a
	// "+"-delimited slot list, e.g. "determiner+subject+verb".
	Structures []string

	// ConceptsCumulative lists every slot unlocked at or before this
	// lesson, in unlock order.
	ConceptsCumulative []string
}

// The early lessons are hand-authored rather than generated from a rule:
// the sequences were tuned against classroom use and do not follow a
// clean progression. Lessons outside this table are unsupported.
var lessons = map[int]LessonSpec{
	10: {
		LessonNumber: 10,
		Structures: []string{
			"subject+verb",
			"subject+verb",
		},
		ConceptsCumulative: []string{SlotSubject, SlotVerb},
	},
	11: {
		LessonNumber: 11,
		Structures: []string{
			"subject+verb",
			"determiner+subject+verb",
			"determiner+subject+verb",
		},
		ConceptsCumulative: []string{SlotSubject, SlotVerb, SlotDeterminer},
	},
	12: {
		LessonNumber: 12,
		Structures: []string{
			"subject+verb",
			"determiner+subject+verb",
			"determiner+adjective+subject+verb",
			"determiner+adjective+subject+verb",
		},
		ConceptsCumulative: []string{SlotSubject, SlotVerb, SlotDeterminer, SlotAdjective},
	},
	13: {
		LessonNumber: 13,
		Structures: []string{
			"determiner+subject+verb",
			"determiner+adjective+subject+verb",
			"determiner+adjective+subject+verb+adverb",
			"determiner+adjective+subject+verb+adverb",
		},
		ConceptsCumulative: []string{SlotSubject, SlotVerb, SlotDeterminer, SlotAdjective, SlotAdverb},
	},
	14: {
		LessonNumber: 14,
		Structures: []string{
			"determiner+subject+verb",
			"determiner+adjective+subject+verb+adverb",
			"determiner+adjective+subject+verb+object",
			"determiner+adjective+subject+verb+object",
		},
		ConceptsCumulative: []string{SlotSubject, SlotVerb, SlotDeterminer, SlotAdjective, SlotAdverb, SlotObject},
	},
	15: {
		LessonNumber: 15,
		Structures: []string{
			"determiner+adjective+subject+verb+adverb",
			"determiner+adjective+subject+verb+object",
			"determiner+adjective+subject+adverb+verb+object",
			"determiner+adjective+subject+adverb+verb+object",
		},
		ConceptsCumulative: []string{SlotSubject, SlotVerb, SlotDeterminer, SlotAdjective, SlotAdverb, SlotObject},
	},
}

// Lookup returns the authored spec for a lesson number.
// Unknown lessons return ErrLessonNotFound; callers must surface that as a
// client error rather than falling back to a generated sequence.
func Lookup(lessonNumber int) (LessonSpec, error) {
	spec, ok := lessons[lessonNumber]
	if !ok {
		return LessonSpec{}, fmt.Errorf("lesson %d: %w", lessonNumber, ErrLessonNotFound)
	}
	return spec, nil
}

// ParseStructure splits a "+"-delimited structure string into its ordered
// slot names.
func ParseStructure(structure string) []string {
	parts := strings.Split(structure, "+")
	slots := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			slots = append(slots, p)
		}
	}
	return slots
}

// JoinStructure is the inverse of ParseStructure.
func JoinStructure(slots []string) string {
	return strings.Join(slots, "+")
}
