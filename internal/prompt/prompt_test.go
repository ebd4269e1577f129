package prompt

import (
	"strings"
	"testing"

	"cortex-labs/internal/domain/model"
)

func msg(role, content string) model.Message {
	return model.Message{Role: role, Content: content}
}

func TestAssembleDeterministic(t *testing.T) {
	history := []model.Message{
		msg(model.RoleUser, "Hi"),
		msg(model.RoleAssistant, "Hello!"),
	}
	a := Assemble(history, "You are terse.", "How are you?", 0)
	b := Assemble(history, "You are terse.", "How are you?", 0)
	if a != b {
		t.Fatalf("assembly not deterministic:\n%q\nvs\n%q", a, b)
	}
}

func TestAssembleOrderAndCue(t *testing.T) {
	history := []model.Message{
		msg(model.RoleUser, "Hi"),
		msg(model.RoleAssistant, "Hello!"),
	}
	got := Assemble(history, "You are terse.", "How are you?", 0)

	wantInOrder := []string{
		"You are terse.",
		"User: Hi",
		"Assistant: Hello!",
		"User: How are you?",
	}
	pos := 0
	for _, w := range wantInOrder {
		i := strings.Index(got[pos:], w)
		if i < 0 {
			t.Fatalf("missing or out of order %q in:\n%s", w, got)
		}
		pos += i + len(w)
	}
	if !strings.HasSuffix(got, Cue) {
		t.Fatalf("prompt must end with %q, got:\n%s", Cue, got)
	}
}

func TestAssemblePreservesAppendOrder(t *testing.T) {
	var history []model.Message
	contents := []string{"one", "two", "two", "three"} // duplicates are valid
	for _, c := range contents {
		history = append(history, msg(model.RoleUser, c))
	}
	got := Assemble(history, "", "last", 0)

	pos := 0
	for _, c := range contents {
		line := "User: " + c
		i := strings.Index(got[pos:], line)
		if i < 0 {
			t.Fatalf("record %q reordered or dropped in:\n%s", c, got)
		}
		pos += i + 1
	}
}

func TestAssembleWindow(t *testing.T) {
	var history []model.Message
	for _, c := range []string{"a", "b", "c", "d", "e"} {
		history = append(history, msg(model.RoleUser, c))
	}

	got := Assemble(history, "", "next", 3)

	for _, outside := range []string{"User: a", "User: b"} {
		if strings.Contains(got, outside) {
			t.Fatalf("record %q is outside the window but was included:\n%s", outside, got)
		}
	}
	for _, inside := range []string{"User: c", "User: d", "User: e"} {
		if !strings.Contains(got, inside) {
			t.Fatalf("record %q is inside the window but missing:\n%s", inside, got)
		}
	}
}

func TestAssembleWindowLargerThanHistory(t *testing.T) {
	history := []model.Message{msg(model.RoleUser, "only")}
	got := Assemble(history, "", "next", 10)
	if !strings.Contains(got, "User: only") {
		t.Fatalf("short history must survive a large window:\n%s", got)
	}
}

func TestAssembleNoSystemPrompt(t *testing.T) {
	got := Assemble(nil, "", "hello", 0)
	if !strings.HasPrefix(got, "User: hello") {
		t.Fatalf("with no system prompt the user line leads, got:\n%s", got)
	}
}

func TestEstimateTokens(t *testing.T) {
	// 6 words * 4/3 = 8
	if got := EstimateTokens("one two three four five six"); got != 8 {
		t.Fatalf("EstimateTokens = %d, want 8", got)
	}
	if got := EstimateTokens(""); got != 0 {
		t.Fatalf("EstimateTokens(empty) = %d, want 0", got)
	}
}

func TestStreamReplayAndReset(t *testing.T) {
	s := NewStream("alpha beta gamma")

	var parts []string
	for {
		w, ok := s.Next()
		if !ok {
			break
		}
		parts = append(parts, w)
	}
	if got := strings.Join(parts, ""); got != "alpha beta gamma" {
		t.Fatalf("replay = %q", got)
	}

	s.Reset()
	w, ok := s.Next()
	if !ok || w != "alpha " {
		t.Fatalf("after Reset Next = %q, %v", w, ok)
	}
}

func TestStreamEmpty(t *testing.T) {
	s := NewStream("")
	if _, ok := s.Next(); ok {
		t.Fatal("empty stream must yield nothing")
	}
}
