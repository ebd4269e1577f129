package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"cortex-labs/internal/domain"
	"cortex-labs/internal/infra/snowflake"
	"cortex-labs/internal/prompt"
)

// alert is the inline error box: human-readable message, troubleshooting
// hint, and the raw detail behind an expander in the UI.
type alert struct {
	Error        string   `json:"error"`
	Hint         string   `json:"hint,omitempty"`
	Detail       string   `json:"detail,omitempty"`
	RequiredKeys []string `json:"required_keys,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the closed error taxonomy onto statuses. Nothing here
// ever panics the render; every failure becomes a visible alert.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	var ce *domain.ConnectionError
	var rce *domain.RemoteCallError

	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, alert{Error: ve.Error()})
	case errors.As(err, &ce):
		writeJSON(w, http.StatusServiceUnavailable, alert{
			Error:        "connection failed",
			Hint:         "configure a connection in the secrets file, or use the manual connection form",
			Detail:       ce.Error(),
			RequiredKeys: ce.RequiredKeys,
		})
	case errors.As(err, &rce):
		writeJSON(w, http.StatusBadGateway, alert{
			Error:  rce.Provider + " " + rce.Operation + " failed",
			Hint:   rce.Hint,
			Detail: rce.Error(),
		})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, alert{Error: "not found"})
	case errors.Is(err, domain.ErrEmptyMessage), errors.Is(err, domain.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, alert{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, alert{Error: "internal error", Detail: err.Error()})
	}
}

// ---- session ----

func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	sess, err := s.resolver.Resolve(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "resolved",
		"warehouse": sess.Warehouse,
		"database":  sess.Database,
		"schema":    sess.Schema,
	})
}

type manualSessionRequest struct {
	Account   string `json:"account"`
	User      string `json:"user"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Warehouse string `json:"warehouse"`
	Database  string `json:"database"`
	Schema    string `json:"schema"`
}

// handleManualSession is the tertiary fallback: explicit parameters from
// the manual-entry form.
func (s *Server) handleManualSession(w http.ResponseWriter, r *http.Request) {
	var req manualSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, alert{Error: "invalid request body"})
		return
	}
	_, err := s.resolver.ResolveManual(r.Context(), snowflake.Params{
		Account:   req.Account,
		User:      req.User,
		Password:  req.Password,
		Role:      req.Role,
		Warehouse: req.Warehouse,
		Database:  req.Database,
		Schema:    req.Schema,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
}

// ---- models ----

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.chatUC.ListModels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"models": models})
}

// ---- chat ----

type startConversationRequest struct {
	Owner string `json:"owner"`
	Model string `json:"model"`
}

func (s *Server) handleStartConversation(w http.ResponseWriter, r *http.Request) {
	var req startConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, alert{Error: "invalid request body"})
		return
	}
	if req.Owner == "" {
		writeJSON(w, http.StatusBadRequest, alert{Error: "owner is required"})
		return
	}
	conv, err := s.chatUC.Start(r.Context(), req.Owner, req.Model)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	hist, err := s.chatUC.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": hist})
}

type sendMessageRequest struct {
	Content string `json:"content"`
	Stream  bool   `json:"stream"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, alert{Error: "invalid request body"})
		return
	}

	reply, err := s.chatUC.Send(r.Context(), chi.URLParam(r, "id"), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.Stream {
		s.streamReply(w, reply)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// streamReply replays the completed response word by word over SSE. The
// completion call has already returned; the pacing is purely cosmetic.
func (s *Server) streamReply(w http.ResponseWriter, reply string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	st := prompt.NewStream(reply)
	for {
		word, more := st.Next()
		if !more {
			break
		}
		_, _ = w.Write([]byte("data: " + word + "\n\n"))
		flusher.Flush()
		time.Sleep(10 * time.Millisecond)
	}
	_, _ = w.Write([]byte("event: done\ndata: \n\n"))
	flusher.Flush()
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.chatUC.ClearHistory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type systemPromptRequest struct {
	SystemPrompt string `json:"system_prompt"`
}

func (s *Server) handleSetSystemPrompt(w http.ResponseWriter, r *http.Request) {
	var req systemPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, alert{Error: "invalid request body"})
		return
	}
	if err := s.chatUC.SetSystemPrompt(r.Context(), chi.URLParam(r, "id"), req.SystemPrompt); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- search ----

type searchRequest struct {
	Service string   `json:"service"` // database.schema.service_name
	Query   string   `json:"query"`
	Columns []string `json:"columns,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, alert{Error: "invalid request body"})
		return
	}
	results, err := s.searchUC.Search(r.Context(), req.Service, req.Query, req.Columns, req.Limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

type answerRequest struct {
	Service  string `json:"service"`
	Question string `json:"question"`
	Model    string `json:"model,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, alert{Error: "invalid request body"})
		return
	}
	reply, results, err := s.searchUC.Answer(r.Context(), req.Service, req.Question, req.Model, req.Limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"answer": reply, "results": results})
}

// ---- transcription ----

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, alert{Error: "invalid multipart body"})
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, alert{Error: "audio file is required"})
		return
	}
	defer file.Close()

	tr, err := s.transcribeUC.Transcribe(r.Context(), header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}
