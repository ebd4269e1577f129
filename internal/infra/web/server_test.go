package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"cortex-labs/internal/domain"
	"cortex-labs/internal/domain/model"
	"cortex-labs/internal/infra/snowflake"
	"cortex-labs/internal/usecase"
)

type fakeChat struct {
	reply   string
	sendErr error
	conv    *model.Conversation
}

func (f *fakeChat) Start(ctx context.Context, owner, modelName string) (*model.Conversation, error) {
	if f.conv == nil {
		f.conv = model.NewConversation("conv-1", owner, modelName)
	}
	return f.conv, nil
}

func (f *fakeChat) Send(ctx context.Context, conversationID, text string) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	return f.reply, nil
}

func (f *fakeChat) History(ctx context.Context, conversationID string) ([]model.Message, error) {
	if f.conv == nil {
		return nil, domain.ErrNotFound
	}
	return f.conv.Messages, nil
}

func (f *fakeChat) ClearHistory(ctx context.Context, conversationID string) error { return nil }

func (f *fakeChat) SetSystemPrompt(ctx context.Context, conversationID, system string) error {
	return nil
}

func (f *fakeChat) ListModels(ctx context.Context) ([]string, error) {
	return []string{"claude-3-5-sonnet", "mistral-large"}, nil
}

type fakeSearchUC struct {
	results []model.SearchResult
	err     error
}

func (f *fakeSearchUC) Search(ctx context.Context, servicePath, query string, columns []string, limit int) ([]model.SearchResult, error) {
	if _, err := model.ParseServicePath(servicePath); err != nil {
		return nil, err
	}
	return f.results, f.err
}

func (f *fakeSearchUC) Answer(ctx context.Context, servicePath, question, modelName string, limit int) (string, []model.SearchResult, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return "answer", f.results, nil
}

type fakeTranscribeUC struct {
	transcript model.Transcript
	err        error
}

func (f *fakeTranscribeUC) Transcribe(ctx context.Context, name string, audio io.Reader) (model.Transcript, error) {
	return f.transcript, f.err
}

func nopLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

func testResolver(strategies ...snowflake.Strategy) *snowflake.Resolver {
	return snowflake.NewResolver(
		snowflake.NewMemoryStore(),
		[]string{"snowflake.connections.my_example_connection.account"},
		nopLogger(),
		strategies...,
	)
}

func newTestServer(chat usecase.ChatUseCase, apiKey string) *Server {
	return NewServer(chat, &fakeSearchUC{}, &fakeTranscribeUC{}, testResolver(), apiKey, nopLogger())
}

func TestAuthRejectsMissingBearer(t *testing.T) {
	srv := newTestServer(&fakeChat{}, "secret")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/models", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthAcceptsBearer(t *testing.T) {
	srv := newTestServer(&fakeChat{}, "secret")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/models", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthDisabledWhenKeyEmpty(t *testing.T) {
	srv := newTestServer(&fakeChat{}, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/models", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSendMessageReturnsReply(t *testing.T) {
	srv := newTestServer(&fakeChat{reply: "hello there"}, "")

	body := strings.NewReader(`{"content":"hi"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/conv-1/messages", body)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["reply"] != "hello there" {
		t.Errorf("reply = %q, want %q", got["reply"], "hello there")
	}
}

func TestSendMessageMapsRemoteFailureToBadGateway(t *testing.T) {
	sendErr := &domain.RemoteCallError{
		Provider:  "cortex",
		Operation: "complete",
		Hint:      "check warehouse and model availability",
		Cause:     errors.New("boom"),
	}
	srv := newTestServer(&fakeChat{sendErr: sendErr}, "")

	body := strings.NewReader(`{"content":"hi"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/conv-1/messages", body)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var got alert
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Hint != sendErr.Hint {
		t.Errorf("hint = %q, want %q", got.Hint, sendErr.Hint)
	}
}

func TestSendMessageMapsEmptyMessageToBadRequest(t *testing.T) {
	srv := newTestServer(&fakeChat{sendErr: domain.ErrEmptyMessage}, "")

	body := strings.NewReader(`{"content":"   "}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/conv-1/messages", body)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSendMessageStreamsWordByWord(t *testing.T) {
	srv := newTestServer(&fakeChat{reply: "one two three"}, "")

	body := strings.NewReader(`{"content":"hi","stream":true}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/conv-1/messages", body)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q, want text/event-stream", ct)
	}
	out := rec.Body.String()
	for _, word := range []string{"one", "two", "three"} {
		if !strings.Contains(out, "data: "+word) {
			t.Errorf("stream missing word %q:\n%s", word, out)
		}
	}
	if !strings.Contains(out, "event: done") {
		t.Error("stream missing terminal event")
	}
}

func TestSearchRejectsMalformedServicePath(t *testing.T) {
	srv := newTestServer(&fakeChat{}, "")

	body := strings.NewReader(`{"service":"db.schema","query":"pasta"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", body)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "database.schema.service_name") {
		t.Errorf("error should name the expected format: %s", rec.Body.String())
	}
}

func TestSessionStatusAggregatesFailures(t *testing.T) {
	failing := snowflake.Strategy{
		Name: "ambient",
		Dial: func(ctx context.Context) (*snowflake.Session, error) {
			return nil, errors.New("SNOWFLAKE_HOST not set")
		},
	}
	srv := NewServer(&fakeChat{}, &fakeSearchUC{}, &fakeTranscribeUC{}, testResolver(failing), "", nopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var got alert
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got.RequiredKeys) == 0 {
		t.Error("expected required_keys in the alert")
	}
}

func TestSessionStatusReportsResolvedHandle(t *testing.T) {
	ok := snowflake.Strategy{
		Name: "configured",
		Dial: func(ctx context.Context) (*snowflake.Session, error) {
			return &snowflake.Session{Host: "https://acct.snowflakecomputing.com", Warehouse: "COMPUTE_WH"}, nil
		},
	}
	srv := NewServer(&fakeChat{}, &fakeSearchUC{}, &fakeTranscribeUC{}, testResolver(ok), "", nopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "COMPUTE_WH") {
		t.Errorf("expected warehouse in response: %s", rec.Body.String())
	}
}
