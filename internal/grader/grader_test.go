package grader

import (
	"reflect"
	"testing"
)

func TestScore_ExactMatchAfterNormalization(t *testing.T) {
	if got := Score("Apple", []string{"apple"}); got != 100 {
		t.Errorf("Score(\"Apple\", [apple]) = %d, want 100", got)
	}
	if got := Score("  apple  ", []string{"apple"}); got != 100 {
		t.Errorf("Score with surrounding whitespace = %d, want 100", got)
	}
}

func TestScore_NearMatchPasses(t *testing.T) {
	got := Score("aple", []string{"apple"})
	if !Passes(got) {
		t.Errorf("Score(\"aple\", [apple]) = %d, want >= %d", got, PassThreshold)
	}
}

func TestScore_DissimilarFails(t *testing.T) {
	got := Score("banana", []string{"apple"})
	if Passes(got) {
		t.Errorf("Score(\"banana\", [apple]) = %d, want < %d", got, PassThreshold)
	}
}

func TestScore_BestOfMultipleForms(t *testing.T) {
	got := Score("large", []string{"big", "large", "huge"})
	if got != 100 {
		t.Errorf("Score against multiple forms = %d, want 100", got)
	}
}

func TestScore_EmptyAcceptedForms(t *testing.T) {
	if got := Score("anything", nil); got != 0 {
		t.Errorf("Score with no accepted forms = %d, want 0", got)
	}
}

func TestAcceptedForms(t *testing.T) {
	tests := []struct {
		primary  string
		synonyms string
		want     []string
	}{
		{"Apple", "", []string{"apple"}},
		{"big", "large; Huge", []string{"big", "large", "huge"}},
		{"fast", "quick;;rapid ", []string{"fast", "quick", "rapid"}},
		// duplicates are kept for scoring
		{"big", "big;large", []string{"big", "big", "large"}},
	}

	for _, tc := range tests {
		got := AcceptedForms(tc.primary, tc.synonyms)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("AcceptedForms(%q, %q) = %v, want %v", tc.primary, tc.synonyms, got, tc.want)
		}
	}
}

func TestDisplayForms_DeduplicatesPreservingOrder(t *testing.T) {
	got := DisplayForms([]string{"big", "large", "big", "huge", "large"})
	want := "big, large, huge"
	if got != want {
		t.Errorf("DisplayForms = %q, want %q", got, want)
	}
}
