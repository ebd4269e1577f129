// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cortex-labs/internal/config"
	"cortex-labs/internal/domain/ports/adapter"
	"cortex-labs/internal/domain/ports/repository"
	aiAdapters "cortex-labs/internal/infra/adapters/ai"
	"cortex-labs/internal/infra/adapters/cortex"
	"cortex-labs/internal/infra/logging"
	"cortex-labs/internal/infra/memory"
	"cortex-labs/internal/infra/metrics"
	red "cortex-labs/internal/infra/redis"
	"cortex-labs/internal/infra/snowflake"
	"cortex-labs/internal/infra/web"
	"cortex-labs/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, stub provider)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Redis (optional) ----
	var sessionStore snowflake.Store
	var convRepo repository.ConversationRepository
	convRepo = memory.NewConversationRepo()
	sessionStore = snowflake.NewMemoryStore()
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		sessionStore = red.NewSessionCache(redisClient, cfg.Redis.TTL)
		convRepo = red.NewCachedConversationRepo(convRepo, red.NewConversationCache(redisClient, cfg.Redis.TTL))
		logger.Info().Msg("redis caching enabled")
	}

	// ---- Session resolver (ambient -> configured; manual via API) ----
	resolver := snowflake.NewResolver(
		sessionStore,
		config.RequiredConnectionKeys(cfg.Snowflake.DefaultConnection),
		logger,
		snowflake.AmbientStrategy(cfg.Snowflake.TokenFile),
		snowflake.ConfiguredStrategy(cfg.Snowflake),
	)

	// ---- AI providers ----
	byProvider := map[string]adapter.CompletionAdapter{
		"cortex": cortex.NewCompleteAdapter(resolver, cfg.AI.DefaultModel),
	}
	if cfg.AI.OpenAIKey != "" {
		oa, err := aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel)
		if err != nil {
			log.Fatalf("openai adapter: %v", err)
		}
		byProvider["openai"] = oa
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("openai provider enabled")
	}
	if cfg.AI.GeminiKey != "" {
		ga, err := aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel)
		if err != nil {
			log.Fatalf("gemini adapter: %v", err)
		}
		byProvider["gemini"] = ga
		logger.Info().Str("base", cfg.AI.GeminiURL).Msg("gemini provider enabled")
	}
	if cfg.Runtime.Dev {
		byProvider["noop"] = aiAdapters.NewNoopAdapter()
		byProvider["faulty"] = aiAdapters.NewFaultyAdapter()
	}
	ai := aiAdapters.NewLimited(
		aiAdapters.NewMultiAdapter("cortex", byProvider, nil),
		cfg.AI.ConcurrentLimit,
	)

	// ---- Use cases ----
	chatUC := usecase.NewChatUseCase(convRepo, ai, cfg.AI.ContextWindow, logger)
	searchUC := usecase.NewSearchUseCase(cortex.NewSearchAdapter(resolver), ai, cfg.Search.Columns, logger)
	transcribeUC := usecase.NewTranscribeUseCase(cortex.NewTranscribeAdapter(resolver), cfg.Transcribe.Stage, logger)

	// ---- HTTP server ----
	srv := web.NewServer(chatUC, searchUC, transcribeUC, resolver, cfg.Server.APIKey, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
	cancel()
}
