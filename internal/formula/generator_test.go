package formula

import (
	"errors"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"sentencecraft/internal/curriculum"
	"sentencecraft/internal/models"
)

func TestGenerateLessonTwelve(t *testing.T) {
	g := NewGenerator(rand.NewSource(1))

	formulas, err := g.Generate(12, "dog", models.SubjectThing)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	wantStructures := [][]string{
		{"subject", "verb"},
		{"determiner", "subject", "verb"},
		{"determiner", "adjective", "subject", "verb"},
		{"determiner", "adjective", "subject", "verb"},
	}
	if len(formulas) != len(wantStructures) {
		t.Fatalf("got %d formulas, want %d", len(formulas), len(wantStructures))
	}

	for i, f := range formulas {
		if f.Number != i+1 {
			t.Errorf("formula %d has Number %d", i, f.Number)
		}
		if !reflect.DeepEqual(f.Structure, wantStructures[i]) {
			t.Errorf("formula %d structure = %v, want %v", f.Number, f.Structure, wantStructures[i])
		}
	}
}

func TestGenerateWordBankOnlyFromPreviousFormula(t *testing.T) {
	g := NewGenerator(rand.NewSource(7))

	formulas, err := g.Generate(13, "lion", models.SubjectThing)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if len(formulas[0].WordBank) != 0 {
		t.Errorf("first formula word bank = %v, want empty", formulas[0].WordBank)
	}

	for i := 1; i < len(formulas); i++ {
		prevExample := formulas[i-1].LabelledExample
		for _, w := range formulas[i].WordBank {
			if !strings.Contains(prevExample, w) {
				t.Errorf("formula %d word bank entry %q not in previous example %q", formulas[i].Number, w, prevExample)
			}
		}
	}
}

func TestGenerateNewElements(t *testing.T) {
	g := NewGenerator(rand.NewSource(3))

	formulas, err := g.Generate(12, "cat", models.SubjectThing)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	tests := []struct {
		number int
		want   []string
	}{
		{1, []string{"subject", "verb"}},
		{2, []string{"determiner"}},
		{3, []string{"adjective"}},
		{4, nil},
	}
	for _, tt := range tests {
		got := formulas[tt.number-1].NewElements
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("formula %d new elements = %v, want %v", tt.number, got, tt.want)
		}
	}

	// A consolidation formula still gets a hint.
	if formulas[3].Hint == "" {
		t.Error("consolidation formula has no hint")
	}
}

func TestGenerateLabelledExample(t *testing.T) {
	g := NewGenerator(rand.NewSource(5))

	formulas, err := g.Generate(10, "farmer", models.SubjectPerson)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	example := formulas[0].LabelledExample
	if !strings.Contains(example, "Farmer (subject)") {
		t.Errorf("example %q does not label the capitalized subject", example)
	}
	if !strings.Contains(example, "(verb)") {
		t.Errorf("example %q does not label a verb", example)
	}
}

func TestGenerateDeterministicWithSameSeed(t *testing.T) {
	a, err := NewGenerator(rand.NewSource(42)).Generate(14, "dragon", models.SubjectThing)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	b, err := NewGenerator(rand.NewSource(42)).Generate(14, "dragon", models.SubjectThing)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different formulas")
	}
}

func TestGenerateErrors(t *testing.T) {
	g := NewGenerator(rand.NewSource(1))

	tests := []struct {
		name        string
		lesson      int
		subject     string
		subjectType string
		want        error
	}{
		{"unknown lesson", 9, "dog", models.SubjectThing, curriculum.ErrLessonNotFound},
		{"empty subject", 12, "  ", models.SubjectThing, ErrEmptySubject},
		{"unknown subject type", 12, "dog", "animal", ErrUnknownSubjectType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Generate(tt.lesson, tt.subject, tt.subjectType)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}
