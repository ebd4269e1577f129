package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"cortex-labs/internal/domain"
	"cortex-labs/internal/domain/model"
	"cortex-labs/internal/domain/ports/adapter"
	"cortex-labs/internal/infra/memory"
)

// ---- Fakes ----

type fakeAI struct {
	lastPrompt string
	reply      string
	err        error
}

func (f *fakeAI) ListModels(ctx context.Context) ([]string, error) {
	return []string{"claude-3-5-sonnet"}, nil
}
func (f *fakeAI) GetModelInfo(m string) (adapter.ModelInfo, error) {
	return adapter.ModelInfo{Name: m}, nil
}
func (f *fakeAI) Complete(ctx context.Context, m, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	if f.reply == "" {
		return "ok", nil
	}
	return f.reply, nil
}

func testLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

func newChat(ai adapter.CompletionAdapter, window int) (*chatUC, *memory.ConversationRepo) {
	repo := memory.NewConversationRepo()
	return NewChatUseCase(repo, ai, window, testLogger()), repo
}

// ---- Tests ----

func TestStartReusesExistingConversation(t *testing.T) {
	uc, _ := newChat(&fakeAI{}, 0)
	ctx := context.Background()

	a, err := uc.Start(ctx, "owner-1", "claude-3-5-sonnet")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	b, err := uc.Start(ctx, "owner-1", "mistral-large")
	if err != nil {
		t.Fatalf("Start again: %v", err)
	}
	if a.ID != b.ID {
		t.Fatal("second Start must return the same conversation")
	}
}

func TestSendAppendsBothTurnsInOrder(t *testing.T) {
	ai := &fakeAI{reply: "Hello!"}
	uc, _ := newChat(ai, 0)
	ctx := context.Background()

	conv, _ := uc.Start(ctx, "owner-1", "claude-3-5-sonnet")
	reply, err := uc.Send(ctx, conv.ID, "Hi")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply != "Hello!" {
		t.Fatalf("reply = %q", reply)
	}

	hist, _ := uc.History(ctx, conv.ID)
	if len(hist) != 2 {
		t.Fatalf("history len = %d, want 2", len(hist))
	}
	if hist[0].Role != model.RoleUser || hist[0].Content != "Hi" {
		t.Fatalf("first record = %+v", hist[0])
	}
	if hist[1].Role != model.RoleAssistant || hist[1].Content != "Hello!" {
		t.Fatalf("second record = %+v", hist[1])
	}
}

func TestSendAssemblesFromPriorHistory(t *testing.T) {
	ai := &fakeAI{}
	uc, _ := newChat(ai, 0)
	ctx := context.Background()

	conv, _ := uc.Start(ctx, "owner-1", "claude-3-5-sonnet")
	_ = uc.SetSystemPrompt(ctx, conv.ID, "You are terse.")
	_, _ = uc.Send(ctx, conv.ID, "Hi")
	ai.reply = ""
	_, err := uc.Send(ctx, conv.ID, "How are you?")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	for _, want := range []string{"You are terse.", "User: Hi", "Assistant: ok", "User: How are you?"} {
		if !strings.Contains(ai.lastPrompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, ai.lastPrompt)
		}
	}
	if !strings.HasSuffix(ai.lastPrompt, "Assistant:") {
		t.Fatalf("prompt must end with the cue:\n%s", ai.lastPrompt)
	}
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	uc, _ := newChat(&fakeAI{}, 0)
	ctx := context.Background()
	conv, _ := uc.Start(ctx, "owner-1", "claude-3-5-sonnet")

	if _, err := uc.Send(ctx, conv.ID, "   "); !errors.Is(err, domain.ErrEmptyMessage) {
		t.Fatalf("want ErrEmptyMessage, got %v", err)
	}
}

func TestSendContainsRemoteFailure(t *testing.T) {
	boom := &domain.RemoteCallError{
		Provider: "noop", Operation: "complete",
		Hint: "injected", Cause: errors.New("simulated remote failure"),
	}
	uc, _ := newChat(&fakeAI{err: boom}, 0)
	ctx := context.Background()
	conv, _ := uc.Start(ctx, "owner-1", "claude-3-5-sonnet")

	_, err := uc.Send(ctx, conv.ID, "Hi")
	var rce *domain.RemoteCallError
	if !errors.As(err, &rce) {
		t.Fatalf("want RemoteCallError, got %T: %v", err, err)
	}

	// the failed turn stays visible; the page re-renders with history intact
	hist, herr := uc.History(ctx, conv.ID)
	if herr != nil {
		t.Fatalf("History after failure: %v", herr)
	}
	if len(hist) != 1 || hist[0].Content != "Hi" {
		t.Fatalf("history after failure = %+v", hist)
	}
}

func TestClearHistoryKeepsConversation(t *testing.T) {
	uc, _ := newChat(&fakeAI{}, 0)
	ctx := context.Background()
	conv, _ := uc.Start(ctx, "owner-1", "claude-3-5-sonnet")
	_ = uc.SetSystemPrompt(ctx, conv.ID, "You are terse.")
	_, _ = uc.Send(ctx, conv.ID, "Hi")

	if err := uc.ClearHistory(ctx, conv.ID); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	hist, _ := uc.History(ctx, conv.ID)
	if len(hist) != 0 {
		t.Fatalf("history after clear = %d records", len(hist))
	}

	again, err := uc.Start(ctx, "owner-1", "claude-3-5-sonnet")
	if err != nil || again.ID != conv.ID {
		t.Fatalf("conversation must survive a clear: %v", err)
	}
	if again.SystemPrompt != "You are terse." {
		t.Fatal("system prompt must survive a clear")
	}
}

func TestSendAppliesWindow(t *testing.T) {
	ai := &fakeAI{}
	uc, _ := newChat(ai, 2)
	ctx := context.Background()
	conv, _ := uc.Start(ctx, "owner-1", "claude-3-5-sonnet")

	for _, m := range []string{"one", "two", "three"} {
		_, _ = uc.Send(ctx, conv.ID, m)
	}
	_, _ = uc.Send(ctx, conv.ID, "four")

	if strings.Contains(ai.lastPrompt, "User: one") {
		t.Fatalf("record outside the window leaked into the prompt:\n%s", ai.lastPrompt)
	}
	if !strings.Contains(ai.lastPrompt, "User: four") {
		t.Fatalf("new message missing from prompt:\n%s", ai.lastPrompt)
	}
}
