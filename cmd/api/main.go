package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/virlife/worldsim/internal/config"
	"github.com/virlife/worldsim/internal/engine"
	"github.com/virlife/worldsim/internal/handlers"
	"github.com/virlife/worldsim/internal/logger"
	"github.com/virlife/worldsim/internal/middleware"
	"github.com/virlife/worldsim/internal/services"
	"github.com/virlife/worldsim/internal/storage"
	"github.com/virlife/worldsim/pkg/identity"
	"github.com/virlife/worldsim/pkg/prompts"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	log.Info("Starting worldsim API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"storage", cfg.Storage,
		"llm_provider", cfg.Provider,
		"model_name", cfg.ModelName,
		"pipeline_mode", cfg.PipelineMode)

	var llm services.CompletionService
	switch strings.ToLower(cfg.Provider) {
	case "anthropic":
		llm = services.NewAnthropicService(cfg.APIKey, cfg.ModelName, log)
		log.Info("Using Anthropic LLM provider")
	case "openai":
		llm = services.NewOpenAIService(cfg.APIKey, cfg.ModelName, log)
		log.Info("Using OpenAI LLM provider")
	case "mock":
		llm = services.NewMockCompletionService()
		log.Warn("Using mock LLM provider; replies are canned")
	default:
		log.Error("Invalid LLM provider specified", "provider", cfg.Provider, "supported", []string{"anthropic", "openai"})
		os.Exit(1)
	}

	var store storage.Store
	switch strings.ToLower(cfg.Storage) {
	case "redis":
		redisStore := storage.NewRedis(cfg.RedisURL, log)
		waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if err := redisStore.WaitForConnection(waitCtx); err != nil {
			waitCancel()
			log.Error("Failed to connect to redis", "error", err)
			os.Exit(1)
		}
		waitCancel()
		store = redisStore
	default:
		sqliteStore, err := storage.NewSQLite(cfg.SQLitePath)
		if err != nil {
			log.Error("Failed to open sqlite store", "error", err, "path", cfg.SQLitePath)
			os.Exit(1)
		}
		store = sqliteStore
	}
	log.Info("Storage connection established successfully")

	validator := identity.NewDefaultValidator()
	if cfg.RuleSetPath != "" {
		set, err := identity.LoadRuleSet(cfg.RuleSetPath)
		if err != nil {
			log.Error("Failed to load rule set", "error", err, "path", cfg.RuleSetPath)
			os.Exit(1)
		}
		validator, err = identity.NewValidator(set)
		if err != nil {
			log.Error("Failed to compile rule set", "error", err, "path", cfg.RuleSetPath)
			os.Exit(1)
		}
		log.Info("Loaded validator rule set", "path", cfg.RuleSetPath, "character", set.CharacterID)
	}

	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer initCancel()
	if err := llm.InitModel(initCtx, cfg.ModelName); err != nil {
		log.Error("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
		os.Exit(1)
	}

	engCfg := engine.DefaultConfig()
	engCfg.Mode = prompts.Mode(cfg.PipelineMode)
	engCfg.HistoryWindow = cfg.HistoryWindow
	engCfg.GenerateTimeout = cfg.GenerateTimeout
	eng := engine.New(store, llm, validator, log, engCfg)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(log))
	r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(eng, log))
	r.Method(http.MethodPost, "/v1/world/chat", handlers.NewChatHandler(eng, log))
	r.Method(http.MethodGet, "/v1/world/state", handlers.NewStateHandler(eng, log))

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}
