package main

import (
	"fmt"
	"net/http"

	"github.com/xaenox/stocksense/internal/bot"
	"github.com/xaenox/stocksense/internal/chat"
	"github.com/xaenox/stocksense/internal/company"
	"github.com/xaenox/stocksense/internal/concepts"
	"github.com/xaenox/stocksense/internal/digest"
	"github.com/xaenox/stocksense/internal/llm"
	"github.com/xaenox/stocksense/internal/market"
	"github.com/xaenox/stocksense/internal/server"
	"github.com/xaenox/stocksense/internal/storage"
	"github.com/xaenox/stocksense/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Storage
	switch cfg.Database.Driver {
	case "postgres":
		logger.Info("Using PostgreSQL storage")
		store, err = storage.NewPostgresStorage(storage.PostgresConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	case "sqlite":
		logger.Info("Using SQLite storage", zap.String("path", cfg.Database.Path))
		store, err = storage.NewSQLiteStorage(cfg.Database.Path)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	default:
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	}
	defer store.Close()

	// Initialize the language-model client; endpoints that require it
	// report a configuration error when the key is absent.
	var llmClient llm.Client
	if cfg.OpenAI.APIKey != "" {
		llmClient = llm.NewOpenAIClient(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.Model,
			cfg.OpenAI.MaxTokens,
			cfg.OpenAI.Temperature,
			logger,
		)
	} else {
		logger.Warn("OPENAI_API_KEY not set; chat and explanations are disabled")
	}

	// Initialize the market-data client
	marketClient := market.NewClient(cfg.Market.APIKey, cfg.Market.BaseURL, cfg.Market.Timeout(), logger)
	if !marketClient.Configured() {
		logger.Warn("MARKET_DATA_API_KEY not set; market snapshots are disabled")
	}

	// Build services
	chatSvc := chat.NewService(store, llmClient, marketClient, logger)
	conceptCache := concepts.NewCache(cfg.Cache.ConceptTTL())
	conceptSvc := concepts.NewService(llmClient, conceptCache, logger)
	digestSvc := digest.NewService(marketClient, llmClient, logger)
	companySvc := company.NewService(marketClient, llmClient, store, logger)

	// Optional Telegram front-end
	if cfg.Telegram.Token != "" {
		b, err := bot.New(cfg.Telegram.Token, chatSvc, logger)
		if err != nil {
			logger.Fatal("Failed to create bot", zap.Error(err))
		}
		go func() {
			if err := b.Start(); err != nil {
				logger.Error("Bot error", zap.Error(err))
			}
		}()
		logger.Info("Telegram bot started")
	}

	// Start the HTTP server
	handler := server.New(chatSvc, conceptSvc, digestSvc, companySvc, marketClient, logger)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Starting HTTP server", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
