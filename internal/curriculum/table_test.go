package curriculum

import (
	"errors"
	"reflect"
	"testing"
)

func TestLookupKnownLessons(t *testing.T) {
	for lesson := 10; lesson <= 15; lesson++ {
		spec, err := Lookup(lesson)
		if err != nil {
			t.Fatalf("Lookup(%d) returned error: %v", lesson, err)
		}
		if spec.LessonNumber != lesson {
			t.Errorf("Lookup(%d).LessonNumber = %d", lesson, spec.LessonNumber)
		}
		if len(spec.Structures) == 0 {
			t.Errorf("Lookup(%d) has no structures", lesson)
		}
		for _, s := range spec.Structures {
			if len(ParseStructure(s)) == 0 {
				t.Errorf("lesson %d structure %q parses to nothing", lesson, s)
			}
		}
	}
}

func TestLookupUnknownLesson(t *testing.T) {
	tests := []int{0, 9, 16, -1, 100}
	for _, lesson := range tests {
		_, err := Lookup(lesson)
		if !errors.Is(err, ErrLessonNotFound) {
			t.Errorf("Lookup(%d) error = %v, want ErrLessonNotFound", lesson, err)
		}
	}
}

func TestLessonTwelveSequence(t *testing.T) {
	spec, err := Lookup(12)
	if err != nil {
		t.Fatalf("Lookup(12) returned error: %v", err)
	}

	want := []string{
		"subject+verb",
		"determiner+subject+verb",
		"determiner+adjective+subject+verb",
		"determiner+adjective+subject+verb",
	}
	if !reflect.DeepEqual(spec.Structures, want) {
		t.Errorf("lesson 12 structures = %v, want %v", spec.Structures, want)
	}
}

func TestStructuresUseKnownSlots(t *testing.T) {
	known := map[string]bool{
		SlotSubject: true, SlotVerb: true, SlotDeterminer: true,
		SlotAdjective: true, SlotAdverb: true, SlotObject: true,
	}

	for lesson, spec := range lessons {
		for _, structure := range spec.Structures {
			for _, slot := range ParseStructure(structure) {
				if !known[slot] {
					t.Errorf("lesson %d uses unknown slot %q", lesson, slot)
				}
			}
		}
	}
}

func TestParseStructureRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"two slots", "subject+verb", []string{"subject", "verb"}},
		{"four slots", "determiner+adjective+subject+verb", []string{"determiner", "adjective", "subject", "verb"}},
		{"whitespace tolerated", " subject + verb ", []string{"subject", "verb"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseStructure(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseStructure(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseStructure(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
			if len(tt.want) > 0 {
				if rejoined := JoinStructure(got); rejoined != JoinStructure(tt.want) {
					t.Errorf("JoinStructure round trip = %q", rejoined)
				}
			}
		})
	}
}
