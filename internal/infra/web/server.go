package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"cortex-labs/internal/infra/snowflake"
	"cortex-labs/internal/usecase"
)

type Server struct {
	chatUC       usecase.ChatUseCase
	searchUC     usecase.SearchUseCase
	transcribeUC usecase.TranscribeUseCase
	resolver     *snowflake.Resolver
	apiKey       string
	log          *zerolog.Logger
}

func NewServer(
	chatUC usecase.ChatUseCase,
	searchUC usecase.SearchUseCase,
	transcribeUC usecase.TranscribeUseCase,
	resolver *snowflake.Resolver,
	apiKey string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		chatUC:       chatUC,
		searchUC:     searchUC,
		transcribeUC: transcribeUC,
		resolver:     resolver,
		apiKey:       apiKey,
		log:          logger,
	}
}

// Router builds the full route tree.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(s.traceMiddleware)
	r.Use(s.requestLogMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/models", s.handleListModels)

		r.Get("/session", s.handleSessionStatus)
		r.Post("/session/manual", s.handleManualSession)

		r.Post("/conversations", s.handleStartConversation)
		r.Route("/conversations/{id}", func(r chi.Router) {
			r.Get("/messages", s.handleHistory)
			r.Post("/messages", s.handleSendMessage)
			r.Delete("/messages", s.handleClearHistory)
			r.Put("/system-prompt", s.handleSetSystemPrompt)
		})

		r.Post("/search", s.handleSearch)
		r.Post("/search/answer", s.handleAnswer)

		r.Post("/transcriptions", s.handleTranscribe)
	})

	return r
}

// authMiddleware provides simple Bearer token authentication. An empty
// configured key disables auth, which is the local default.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token != s.apiKey {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
