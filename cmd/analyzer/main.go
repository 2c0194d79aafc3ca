package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/config"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/agents"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/api/openai"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/api/yahoo"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/data"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/pipeline"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/storage"
)

func main() {
	symbol := flag.String("symbol", "AAPL", "ticker symbol to analyze")
	period := flag.String("period", "", "history period (defaults to DEFAULT_PERIOD)")
	interval := flag.String("interval", "", "candle interval (defaults to DEFAULT_INTERVAL)")
	trade := flag.Bool("trade", false, "execute the trade after the pipeline completes")
	flag.Parse()

	// Context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandling(cancel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(cfg.LogLevel)

	if *period == "" {
		*period = cfg.DefaultPeriod
	}
	if *interval == "" {
		*interval = cfg.DefaultInterval
	}

	log.Info().
		Str("Symbol", *symbol).
		Str("Period", *period).
		Str("Interval", *interval).
		Msg("Starting trading pipeline")

	chartClient := yahoo.NewClient(yahoo.ClientOptions{
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		MaxRetries:     cfg.MaxRetries,
	})
	provider := data.NewProvider(chartClient, time.Duration(cfg.CacheTTLMinutes)*time.Minute)

	prompts, err := config.LoadAgentPrompts(cfg.AgentsConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load agent prompt overrides")
	}

	var chatModel agents.ChatModel
	if cfg.OpenAIAPIKey != "" {
		chatModel = agents.WrapCompleter(openai.NewClient(openai.ClientOptions{
			APIKey:         cfg.OpenAIAPIKey,
			BaseURL:        cfg.OpenAIBaseURL,
			Model:          cfg.OpenAIModel,
			RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
			MaxRetries:     cfg.MaxRetries,
		}))
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, agents run on the built-in demo model")
		chatModel = agents.NewDemoModel()
	}

	store, err := storage.NewCSVStore(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize CSV store")
	}
	defer store.Close()

	pipe := pipeline.New(pipeline.Options{
		Provider: provider,
		Agents:   agents.NewSystem(chatModel, prompts.SystemPrompts),
		Store:    store,
		Period:   *period,
		Interval: *interval,
	})

	results, err := pipe.RunAll(ctx, *symbol)
	if err != nil {
		log.Fatal().Err(err).Msg("Pipeline run failed")
	}

	for _, result := range results {
		printStep(result)
	}

	last := results[len(results)-1]
	if last.Status != pipeline.StatusCompleted {
		log.Fatal().
			Str("role", string(last.Role)).
			Str("error", last.Error).
			Msg("Pipeline stopped before the supervisor verdict")
	}

	if *trade {
		tradeResult, err := pipe.ExecuteTrade(ctx, *symbol)
		if err != nil {
			log.Fatal().Err(err).Msg("Trade execution failed")
		}
		fmt.Printf("\n=== TRADE ===\n%s %s (confidence %.2f)\n%s\n",
			tradeResult.Decision, tradeResult.Symbol, tradeResult.Confidence, tradeResult.Rationale)
	}
}

func printStep(result *pipeline.StepResult) {
	fmt.Printf("\n=== %s [%s] ===\n", result.Role, result.Status)
	if result.Status != pipeline.StatusCompleted {
		fmt.Printf("error: %s\n", result.Error)
		return
	}

	out := result.Output
	if out.Decision != "" {
		fmt.Printf("decision:   %s\n", out.Decision)
	}
	if out.RiskLevel != "" {
		fmt.Printf("risk level: %s\n", out.RiskLevel)
	}
	fmt.Printf("confidence: %.2f\n", out.Confidence)
	fmt.Printf("rationale:  %s\n", out.Rationale)
}

// setupSignalHandling configures signal handling for graceful shutdown
func setupSignalHandling(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Info().Msg("Shutdown signal received, exiting...")
		cancel()
		os.Exit(0)
	}()
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}
