package prompts

import (
	"strings"
	"testing"
)

func TestNewPromptManager_LoadsAllKinds(t *testing.T) {
	pm, err := NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager returned error: %v", err)
	}

	want := []string{KindOpening, KindClarification, KindFollowup, KindScoring, KindTopic, KindReport}
	loaded := make(map[string]bool)
	for _, kind := range pm.Kinds() {
		loaded[kind] = true
	}
	for _, kind := range want {
		if !loaded[kind] {
			t.Fatalf("expected template %q to be loaded, have %v", kind, pm.Kinds())
		}
	}
}

func TestBuildPrompt_SubstitutesPlaceholders(t *testing.T) {
	pm, err := NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager returned error: %v", err)
	}

	prompt, err := pm.BuildPrompt(KindScoring, map[string]string{
		"Domain":     "Web Development",
		"Topic":      "technical",
		"Difficulty": "medium",
		"Question":   "What is a closure?",
		"Answer":     "A function plus its environment.",
	})
	if err != nil {
		t.Fatalf("BuildPrompt returned error: %v", err)
	}

	if !strings.Contains(prompt, "Web Development") {
		t.Fatal("domain was not substituted")
	}
	if !strings.Contains(prompt, "What is a closure?") {
		t.Fatal("question was not substituted")
	}
	if strings.Contains(prompt, "{{.") {
		t.Fatalf("prompt still contains placeholders: %s", prompt)
	}
}

func TestBuildPrompt_DemandsJSONOnly(t *testing.T) {
	pm, err := NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager returned error: %v", err)
	}

	data := map[string]string{
		"Domain": "x", "Topic": "x", "Difficulty": "x", "Question": "x",
		"Answer": "x", "History": "x", "LastScore": "50", "CurrentTopic": "x",
		"DurationMinutes": "10", "QuestionCount": "3",
	}
	for _, kind := range []string{KindOpening, KindClarification, KindFollowup, KindScoring, KindTopic, KindReport} {
		prompt, err := pm.BuildPrompt(kind, data)
		if err != nil {
			t.Fatalf("BuildPrompt(%s) returned error: %v", kind, err)
		}
		if !strings.Contains(prompt, "ONLY this JSON") {
			t.Fatalf("template %s does not demand JSON-only output", kind)
		}
	}
}

func TestBuildPrompt_UnknownKind(t *testing.T) {
	pm, err := NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager returned error: %v", err)
	}
	if _, err := pm.BuildPrompt("nope", nil); err == nil {
		t.Fatal("expected error for unknown template kind")
	}
}

func TestBuildPrompt_UnfilledPlaceholder(t *testing.T) {
	pm, err := NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager returned error: %v", err)
	}
	if _, err := pm.BuildPrompt(KindScoring, map[string]string{"Domain": "x"}); err == nil {
		t.Fatal("expected error when placeholders are left unfilled")
	}
}
