package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/taskmaster-ai/taskmaster-agent/agent/agents/orchestrator"
	"github.com/taskmaster-ai/taskmaster-agent/agent/conversation"
	llmx "github.com/taskmaster-ai/taskmaster-agent/agent/llm"
	toolx "github.com/taskmaster-ai/taskmaster-agent/agent/tool"
	authgatex "github.com/taskmaster-ai/taskmaster-agent/pkg/authgate"
	configx "github.com/taskmaster-ai/taskmaster-agent/pkg/config"
	_ "github.com/taskmaster-ai/taskmaster-agent/pkg/logger/autoload"
	serverx "github.com/taskmaster-ai/taskmaster-agent/server"
	taskx "github.com/taskmaster-ai/taskmaster-agent/task"
)

type AppConfig struct {
	DatabaseURL      string `envconfig:"DATABASE_URL"`
	AuthStaticTokens string `envconfig:"AUTH_STATIC_TOKENS"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appCfg := configx.MustNew[AppConfig]("")

	llmCfg := configx.MustNew[llmx.Config]("LLM")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid llm config")
	}
	generator, err := llmCfg.NewGenerator(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build generator")
	}

	taskStore, closeStore := newTaskStore(ctx, appCfg.DatabaseURL)
	defer closeStore()
	taskService := taskx.NewService(taskStore)

	registry := toolx.NewRegistry(taskService)
	executor := toolx.NewExecutor(registry)

	conversationStore := conversation.NewStore(conversation.DefaultRetention)

	agent, err := orchestrator.New(conversationStore, generator, executor, orchestrator.Config{
		Temperature:     llmCfg.Temperature,
		MaxOutputTokens: llmCfg.MaxOutputTokens,
		ContextWindow:   llmCfg.ContextWindow,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build orchestrator")
	}

	verifier := newVerifier(appCfg)

	serverCfg := configx.MustNew[serverx.Config]("SERVER")
	srv := serverx.New(*serverCfg, agent, taskService, verifier, generator.ModelName(), registry.Len())

	httpServer := &http.Server{
		Addr:              srv.Addr(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("addr", httpServer.Addr).
		Str("model", generator.ModelName()).
		Int("tools", registry.Len()).
		Msg("server starting")

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// newTaskStore prefers Postgres when a DSN is configured and falls back to
// the in-memory store for local runs.
func newTaskStore(ctx context.Context, dsn string) (taskx.Store, func()) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		log.Warn().Msg("DATABASE_URL not set, tasks will not survive restarts")
		return taskx.NewMemoryStore(), func() {}
	}

	store, err := taskx.NewPostgresStore(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open task store")
	}
	return store, func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close task store")
		}
	}
}

func newVerifier(cfg *AppConfig) serverx.Verifier {
	if tokens := strings.TrimSpace(cfg.AuthStaticTokens); tokens != "" {
		verifier, err := authgatex.NewStatic(tokens)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid static auth tokens")
		}
		log.Warn().Msg("using static token auth, not for production")
		return verifier
	}

	authCfg := configx.MustNew[authgatex.Config]("AUTHGATE")
	return authgatex.MustNew(*authCfg)
}
