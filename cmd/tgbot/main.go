package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
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

// requestTimeout bounds one /analyze or /trade command end to end
const requestTimeout = 5 * time.Minute

type botApp struct {
	bot    *tgbotapi.BotAPI
	pipe   *pipeline.Pipeline
	logger zerolog.Logger
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.TelegramToken == "" {
		log.Fatal().Msg("TELEGRAM_BOT_TOKEN not set in environment")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}
	log.Info().Str("username", bot.Self.UserName).Msg("Authorized on Telegram")

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

	app := &botApp{
		bot: bot,
		pipe: pipeline.New(pipeline.Options{
			Provider: provider,
			Agents:   agents.NewSystem(chatModel, prompts.SystemPrompts),
			Store:    store,
			Period:   cfg.DefaultPeriod,
			Interval: cfg.DefaultInterval,
		}),
		logger: log.With().Str("component", "tgbot").Logger(),
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	for update := range bot.GetUpdatesChan(updateConfig) {
		if update.Message == nil || !update.Message.IsCommand() {
			continue
		}
		app.handleCommand(update.Message)
	}
}

func (a *botApp) handleCommand(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	symbol := strings.ToUpper(strings.TrimSpace(msg.CommandArguments()))

	switch msg.Command() {
	case "start", "help":
		a.reply(msg, helpText)
	case "analyze":
		if symbol == "" {
			a.reply(msg, "Usage: /analyze SYMBOL, e.g. /analyze AAPL")
			return
		}
		a.runAnalysis(ctx, msg, symbol)
	case "state":
		if symbol == "" {
			a.reply(msg, "Usage: /state SYMBOL")
			return
		}
		a.reply(msg, formatState(a.pipe.StateFor(symbol)))
	case "trade":
		if symbol == "" {
			a.reply(msg, "Usage: /trade SYMBOL")
			return
		}
		a.runTrade(ctx, msg, symbol)
	case "reset":
		if symbol == "" {
			a.reply(msg, "Usage: /reset SYMBOL")
			return
		}
		a.pipe.Reset(symbol)
		a.reply(msg, fmt.Sprintf("Pipeline for %s reset.", symbol))
	default:
		a.reply(msg, "Unknown command. Try /help.")
	}
}

func (a *botApp) runAnalysis(ctx context.Context, msg *tgbotapi.Message, symbol string) {
	a.reply(msg, fmt.Sprintf("Running the agent pipeline for %s...", symbol))

	results, err := a.pipe.RunAll(ctx, symbol)
	if err != nil {
		a.reply(msg, fmt.Sprintf("Analysis failed: %v", err))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s pipeline:\n", symbol)
	for _, result := range results {
		if result.Status != pipeline.StatusCompleted {
			fmt.Fprintf(&b, "❌ %s: %s\n", result.Role.DisplayName(), result.Error)
			continue
		}
		out := result.Output
		if out.Decision != "" {
			fmt.Fprintf(&b, "✅ %s: %s (%.0f%%)\n", result.Role.DisplayName(), out.Decision, out.Confidence*100)
		} else {
			fmt.Fprintf(&b, "✅ %s: %s\n", result.Role.DisplayName(), out.RiskLevel)
		}
	}

	last := results[len(results)-1]
	if last.Status == pipeline.StatusCompleted {
		fmt.Fprintf(&b, "\nVerdict: %s\n%s", last.Output.Decision, last.Output.Rationale)
	}
	a.reply(msg, b.String())
}

func (a *botApp) runTrade(ctx context.Context, msg *tgbotapi.Message, symbol string) {
	trade, err := a.pipe.ExecuteTrade(ctx, symbol)
	if err != nil {
		a.reply(msg, fmt.Sprintf("Trade not executed: %v", err))
		return
	}
	a.reply(msg, fmt.Sprintf("💰 Executed %s %s\nConfidence: %.0f%%\nPosition size: %.1f%%\n%s",
		trade.Decision, trade.Symbol, trade.Confidence*100, trade.PositionSize, trade.Rationale))
}

func formatState(snapshot pipeline.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pipeline state for %s:\n", snapshot.Symbol)
	for _, role := range agents.PipelineOrder {
		fmt.Fprintf(&b, "%s: %s\n", role.DisplayName(), snapshot.Status[role])
	}
	return b.String()
}

func (a *botApp) reply(msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	if _, err := a.bot.Send(out); err != nil {
		a.logger.Error().Err(err).Msg("Failed to send Telegram message")
	}
}

const helpText = `Multi-agent trading pipeline bot.

/analyze SYMBOL — run the full agent pipeline
/state SYMBOL — show per-agent pipeline state
/trade SYMBOL — execute the supervisor's decision
/reset SYMBOL — start the symbol's analysis over
/help — this message`
