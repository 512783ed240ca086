// Package formula turns a lesson's authored structure sequence into the
// concrete formulas a pupil works through in one practice session.
package formula

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"sentencecraft/internal/curriculum"
	"sentencecraft/internal/models"
)

// Input validation errors, distinguishable from persistence failures by
// callers mapping them to client responses.
var (
	ErrEmptySubject       = errors.New("subject must not be empty")
	ErrUnknownSubjectType = errors.New("unknown subject type")
)

// Word pools for example sentences. Adverbs are drawn from the rule
// validator's allow-list so generated examples always pass the rules.
var (
	determiners = []string{"the", "a", "my", "our"}
	adjectives  = []string{"happy", "big", "small", "bright", "quiet", "brave", "shiny", "gentle"}
	adverbs     = []string{"quickly", "slowly", "happily", "quietly", "loudly", "gently"}
	objects     = []string{"balls", "books", "songs", "stars", "doors", "cakes"}

	// Intransitive verbs by subject type, for structures without an object.
	verbsByType = map[string][]string{
		models.SubjectPerson: {"runs", "jumps", "smiles", "sings", "reads", "plays"},
		models.SubjectPlace:  {"shines", "waits", "sleeps", "stands", "glows"},
		models.SubjectThing:  {"falls", "rolls", "spins", "moves", "floats"},
	}

	// Transitive verbs, for structures with an object.
	transitiveVerbs = []string{"chases", "finds", "likes", "sees", "holds", "makes"}
)

// Hints shown when a slot first appears in a session.
var slotHints = map[string]string{
	curriculum.SlotSubject:    "Your sentence needs a subject - who or what the sentence is about.",
	curriculum.SlotVerb:       "Your sentence needs a verb - a doing word.",
	curriculum.SlotDeterminer: "Start with a little word like 'the', 'a' or 'my'.",
	curriculum.SlotAdjective:  "Add a describing word before your subject, like 'happy' or 'big'.",
	curriculum.SlotAdverb:     "Add a word that tells us how it happens, like 'quickly' or 'quietly'.",
	curriculum.SlotObject:     "Say what the action happens to - add a thing at the end.",
}

// Generator builds practice formulas. The random source is injected so
// tests can pin deterministic output.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator. A nil source gets a time-seeded one.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Generator{rng: rand.New(src)}
}

// Generate produces the ordered formula list for a session.
// Formulas are numbered 1..N with no gaps; each formula's word bank holds
// only words introduced by the previous formula's example, and its new
// elements are the slots absent from the previous formula's structure.
func (g *Generator) Generate(lessonNumber int, subject, subjectType string) ([]models.Formula, error) {
	spec, err := curriculum.Lookup(lessonNumber)
	if err != nil {
		return nil, err
	}
	if subject = strings.TrimSpace(subject); subject == "" {
		return nil, ErrEmptySubject
	}
	if _, ok := verbsByType[subjectType]; !ok {
		return nil, fmt.Errorf("%q: %w", subjectType, ErrUnknownSubjectType)
	}

	formulas := make([]models.Formula, 0, len(spec.Structures))
	var prevSlots []string
	var prevWords []string

	for i, structure := range spec.Structures {
		slots := curriculum.ParseStructure(structure)
		words := g.fillSlots(slots, subject, subjectType)

		f := models.Formula{
			Number:          i + 1,
			Structure:       slots,
			LabelledExample: labelWords(words, slots),
			WordBank:        prevWords,
			NewElements:     newSlots(slots, prevSlots),
			Hint:            hintFor(newSlots(slots, prevSlots)),
		}
		formulas = append(formulas, f)

		prevSlots = slots
		prevWords = words
	}

	return formulas, nil
}

// fillSlots picks one word per slot. The subject slot always carries the
// pupil's chosen noun; everything else comes from the fixed pools.
func (g *Generator) fillSlots(slots []string, subject, subjectType string) []string {
	verbs := verbsByType[subjectType]
	if containsSlot(slots, curriculum.SlotObject) {
		verbs = transitiveVerbs
	}

	words := make([]string, len(slots))
	for i, slot := range slots {
		switch slot {
		case curriculum.SlotSubject:
			words[i] = subject
		case curriculum.SlotVerb:
			words[i] = g.pick(verbs)
		case curriculum.SlotDeterminer:
			words[i] = g.pick(determiners)
		case curriculum.SlotAdjective:
			words[i] = g.pick(adjectives)
		case curriculum.SlotAdverb:
			words[i] = g.pick(adverbs)
		case curriculum.SlotObject:
			words[i] = g.pick(objects)
		default:
			words[i] = slot
		}
	}

	if len(words) > 0 {
		words[0] = capitalize(words[0])
	}
	return words
}

// pick selects uniformly at random from a pool
func (g *Generator) pick(pool []string) string {
	return pool[g.rng.Intn(len(pool))]
}

// labelWords annotates each example word with its slot name,
// e.g. "The (determiner) happy (adjective) dog (subject) runs (verb)".
func labelWords(words, slots []string) string {
	parts := make([]string, len(words))
	for i := range words {
		parts[i] = fmt.Sprintf("%s (%s)", words[i], slots[i])
	}
	return strings.Join(parts, " ")
}

// newSlots returns the slots in cur that are absent from prev, in order.
func newSlots(cur, prev []string) []string {
	var out []string
	for _, s := range cur {
		if !containsSlot(prev, s) && !containsSlot(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func containsSlot(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}

// hintFor builds hint text from the newly introduced slots. A formula
// that introduces nothing new gets a consolidation hint.
func hintFor(newElements []string) string {
	if len(newElements) == 0 {
		return "Write another sentence with the same shape - try different words this time."
	}
	hints := make([]string, 0, len(newElements))
	for _, slot := range newElements {
		if h, ok := slotHints[slot]; ok {
			hints = append(hints, h)
		}
	}
	return strings.Join(hints, " ")
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}
