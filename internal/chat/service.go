package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xaenox/stocksense/internal/llm"
	"github.com/xaenox/stocksense/internal/market"
	"github.com/xaenox/stocksense/internal/models"
	"github.com/xaenox/stocksense/internal/prompt"
	"github.com/xaenox/stocksense/internal/storage"
	"github.com/xaenox/stocksense/internal/ticker"
	"go.uber.org/zap"
)

// ErrEmptyMessage rejects chat turns whose message is blank after trimming.
var ErrEmptyMessage = errors.New("message is required")

// Service orchestrates one chat turn: persist the user message, enrich the
// prompt with market context when a ticker is detected, call the language
// model over the full transcript, and persist the reply.
type Service struct {
	storage  storage.Storage
	llm      llm.Client
	market   market.Provider
	detector *ticker.Detector
	logger   *zap.Logger
}

func NewService(store storage.Storage, llmClient llm.Client, marketClient market.Provider, logger *zap.Logger) *Service {
	return &Service{
		storage:  store,
		llm:      llmClient,
		market:   marketClient,
		detector: ticker.NewDetector(),
		logger:   logger,
	}
}

type SendMessageInput struct {
	ConversationID string
	Message        string
	Mode           string
}

type SendMessageOutput struct {
	ConversationID string
	Reply          string
	Messages       []models.Message
}

func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	if s.llm == nil {
		return nil, llm.ErrNotConfigured
	}

	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	mode := models.NormalizeMode(in.Mode)

	conversationID := in.ConversationID
	if conversationID == "" {
		conversationID = uuid.New().String()
		if err := s.storage.CreateConversation(ctx, conversationID); err != nil {
			s.logger.Error("Failed to create conversation", zap.Error(err))
			return nil, fmt.Errorf("could not start a new conversation")
		}
	}

	userMsg := &models.Message{
		ConversationID: conversationID,
		Role:           models.RoleUser,
		Content:        message,
		Mode:           mode,
	}
	if err := s.storage.SaveMessage(ctx, userMsg); err != nil {
		s.logger.Error("Failed to save user message",
			zap.Error(err),
			zap.String("conversation_id", conversationID))
		return nil, fmt.Errorf("failed to save your message")
	}

	history, err := s.storage.GetMessages(ctx, conversationID)
	if err != nil {
		s.logger.Error("Failed to load history",
			zap.Error(err),
			zap.String("conversation_id", conversationID))
		return nil, fmt.Errorf("failed to load chat history")
	}

	// Market enrichment is best-effort: a missed detection, an
	// unconfigured provider or a failed fetch all degrade to a plain
	// educational answer.
	marketContext := s.buildMarketContext(ctx, message)

	systemPrompt := prompt.BuildSystemPrompt(mode, marketContext)

	reply, err := s.llm.ChatCompletion(ctx, systemPrompt, history)
	if err != nil {
		return nil, err
	}

	assistantMsg := &models.Message{
		ConversationID: conversationID,
		Role:           models.RoleAssistant,
		Content:        reply,
		Mode:           mode,
	}
	// The user message saved above stays put if this fails; there is no
	// compensating delete.
	if err := s.storage.SaveMessage(ctx, assistantMsg); err != nil {
		s.logger.Error("Failed to save assistant message",
			zap.Error(err),
			zap.String("conversation_id", conversationID))
		return nil, fmt.Errorf("failed to save AI response")
	}

	fullHistory, err := s.storage.GetMessages(ctx, conversationID)
	if err != nil {
		s.logger.Error("Failed to refresh history",
			zap.Error(err),
			zap.String("conversation_id", conversationID))
		return nil, fmt.Errorf("failed to refresh messages")
	}

	return &SendMessageOutput{
		ConversationID: conversationID,
		Reply:          reply,
		Messages:       fullHistory,
	}, nil
}

func (s *Service) buildMarketContext(ctx context.Context, message string) string {
	symbol := s.detector.Detect(message)
	if symbol == "" || !s.market.Configured() {
		return ""
	}

	quote, err := s.market.GlobalQuote(ctx, symbol)
	if err != nil {
		s.logger.Debug("No quote for detected ticker",
			zap.String("ticker", symbol),
			zap.Error(err))
		return ""
	}
	return formatMarketContext(quote)
}

func formatMarketContext(q *models.Quote) string {
	dir := "flat"
	if q.Change > 0 {
		dir = "up"
	} else if q.Change < 0 {
		dir = "down"
	}

	tradingDay := q.LatestTradingDay
	if tradingDay == "" {
		tradingDay = "latest available"
	}

	return fmt.Sprintf(`Market snapshot for %s as of %s:
- Price: $%.2f
- Change: $%.2f (%.2f%%, %s)
- Day range: $%.2f - $%.2f
- Previous close: $%.2f
Use this data to add a brief Market Snapshot section. Educational only.`,
		q.Symbol, tradingDay, q.Price, q.Change, q.ChangePercent, dir, q.Low, q.High, q.PreviousClose)
}

// History returns the ordered transcript for a conversation. An empty id
// yields an empty transcript rather than an error.
func (s *Service) History(ctx context.Context, conversationID string) ([]models.Message, error) {
	if conversationID == "" {
		return []models.Message{}, nil
	}
	msgs, err := s.storage.GetMessages(ctx, conversationID)
	if err != nil {
		s.logger.Error("Failed to fetch messages",
			zap.Error(err),
			zap.String("conversation_id", conversationID))
		return nil, fmt.Errorf("failed to fetch messages")
	}
	return msgs, nil
}

// DeleteConversation removes a conversation and its messages. Deleting an
// id that no longer exists succeeds.
func (s *Service) DeleteConversation(ctx context.Context, conversationID string) error {
	if err := s.storage.DeleteConversation(ctx, conversationID); err != nil {
		s.logger.Error("Failed to delete conversation",
			zap.Error(err),
			zap.String("conversation_id", conversationID))
		return fmt.Errorf("failed to delete conversation")
	}
	return nil
}
