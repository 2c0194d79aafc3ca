package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/config"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/agents"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/api/openai"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/api/yahoo"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/data"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/notify"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/pipeline"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/server"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/storage"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/telemetry"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/tools"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	// Market data behind the TTL cache
	chartClient := yahoo.NewClient(yahoo.ClientOptions{
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		MaxRetries:     cfg.MaxRetries,
	})
	provider := data.NewProvider(chartClient, time.Duration(cfg.CacheTTLMinutes)*time.Minute)

	// Agent system: hosted model when a key is present, canned demo otherwise
	prompts, err := config.LoadAgentPrompts(cfg.AgentsConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load agent prompt overrides")
	}
	model := cfg.OpenAIModel
	if prompts.Model != "" {
		model = prompts.Model
	}

	var chatModel agents.ChatModel
	if cfg.OpenAIAPIKey != "" {
		chatModel = agents.WrapCompleter(openai.NewClient(openai.ClientOptions{
			APIKey:         cfg.OpenAIAPIKey,
			BaseURL:        cfg.OpenAIBaseURL,
			Model:          model,
			RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
			MaxRetries:     cfg.MaxRetries,
		}))
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, agents run on the built-in demo model")
		chatModel = agents.NewDemoModel()
	}
	system := agents.NewSystem(chatModel, prompts.SystemPrompts)

	// Decision and audit persistence
	var store storage.Store
	storeKind := "csv"
	if cfg.DatabaseURL != "" {
		store, err = storage.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Postgres")
		}
		storeKind = "postgres"
	} else {
		store, err = storage.NewCSVStore(cfg.DataDir)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize CSV store")
		}
	}
	defer store.Close()

	hub := telemetry.NewHub()
	go hub.Run()

	var notifier pipeline.Notifier
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Telegram notifier")
		}
		notifier = tg
	}

	pipe := pipeline.New(pipeline.Options{
		Provider: provider,
		Agents:   system,
		Store:    store,
		Hub:      hub,
		Notifier: notifier,
		Period:   cfg.DefaultPeriod,
		Interval: cfg.DefaultInterval,
	})

	registry := tools.NewRegistry()
	for _, tool := range []tools.Tool{
		tools.NewFibonacciTool(provider, cfg.DefaultPeriod, cfg.DefaultInterval),
		tools.NewSentimentTool(provider, cfg.DefaultInterval),
		tools.NewComplianceTool(provider, cfg.DefaultInterval),
		tools.NewSnapshotTool(provider, cfg.DefaultInterval),
	} {
		if err := registry.Register(tool); err != nil {
			log.Fatal().Err(err).Msg("Failed to register tool")
		}
	}

	srv := server.New(server.Options{
		Addr:      cfg.HTTPAddr,
		Pipeline:  pipe,
		Provider:  provider,
		Store:     store,
		StoreKind: storeKind,
		Registry:  registry,
		Hub:       hub,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
