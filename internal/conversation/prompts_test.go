package conversation

import (
	"strings"
	"testing"
)

func TestTutorPrimerShape(t *testing.T) {
	primer := tutorPrimer("IGCSE", "Physics")
	if len(primer) != 2 {
		t.Fatalf("expected two priming turns, got %d", len(primer))
	}
	if primer[0].Role != RoleUser {
		t.Fatalf("first turn must carry the rules as the user, got %s", primer[0].Role)
	}
	if primer[1].Role != RoleModel {
		t.Fatalf("second turn must be the canned introduction, got %s", primer[1].Role)
	}
	for i, turn := range primer {
		if !strings.Contains(turn.Text, "IGCSE") || !strings.Contains(turn.Text, "Physics") {
			t.Fatalf("turn %d missing curriculum or subject: %q", i, turn.Text)
		}
	}
	if !strings.Contains(primer[0].Text, "ONLY focus") {
		t.Fatal("rules turn missing the scope restriction")
	}
}

func TestQuizPromptShape(t *testing.T) {
	prompt := quizPrompt("IGCSE", "Math")
	for _, want := range []string{
		"5-question multiple-choice quiz",
		`"Math"`,
		"IGCSE syllabus",
		"4 options (A, B, C, D)",
		"🔑 Answer Key",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("quiz prompt missing %q:\n%s", want, prompt)
		}
	}
}
