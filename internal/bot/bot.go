package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xaenox/stocksense/internal/chat"
	"github.com/xaenox/stocksense/internal/models"
	"go.uber.org/zap"
)

// Bot is an optional Telegram front-end for the chat assistant. Each
// Telegram chat maps to one conversation; /mode switches the explanation
// mode and /reset starts the chat over.
type Bot struct {
	api  *tgbotapi.BotAPI
	chat *chat.Service

	mu            sync.Mutex
	conversations map[int64]string
	modes         map[int64]models.Mode

	logger *zap.Logger
}

func New(token string, chatSvc *chat.Service, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:           api,
		chat:          chatSvc,
		conversations: make(map[int64]string),
		modes:         make(map[int64]models.Mode),
		logger:        logger,
	}, nil
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		go b.handleMessage(update.Message)
	}

	return nil
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	ctx := context.Background()

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	text := message.Text
	if strings.TrimSpace(text) == "" {
		return
	}

	chatID := message.Chat.ID
	b.mu.Lock()
	conversationID := b.conversations[chatID]
	mode := b.modes[chatID]
	b.mu.Unlock()
	if mode == "" {
		mode = models.ModeBeginner
	}

	out, err := b.chat.SendMessage(ctx, chat.SendMessageInput{
		ConversationID: conversationID,
		Message:        text,
		Mode:           string(mode),
	})
	if err != nil {
		b.logger.Error("Failed to answer Telegram message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
		b.reply(chatID, message.MessageID, "Sorry, I couldn't answer that right now. Please try again.")
		return
	}

	b.mu.Lock()
	b.conversations[chatID] = out.ConversationID
	b.mu.Unlock()

	b.reply(chatID, message.MessageID, out.Reply)
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	switch message.Command() {
	case "start":
		b.reply(chatID, 0, `Welcome to StockSense AI! 📈
Ask me about any stock market concept and I'll explain it in plain language.
Mention a company or a $TICKER and I'll add a live market snapshot.

Commands:
/mode beginner|eli10|analogy — switch explanation style
/reset — start a fresh conversation`)

	case "mode":
		arg := strings.TrimSpace(message.CommandArguments())
		mode := models.NormalizeMode(arg)
		if string(mode) != arg {
			b.reply(chatID, message.MessageID, "Unknown mode. Try beginner, eli10 or analogy.")
			return
		}
		b.mu.Lock()
		b.modes[chatID] = mode
		b.mu.Unlock()
		b.reply(chatID, message.MessageID, fmt.Sprintf("Mode set to %s.", models.ModeLabels[mode]))

	case "reset":
		b.mu.Lock()
		conversationID := b.conversations[chatID]
		delete(b.conversations, chatID)
		b.mu.Unlock()

		if conversationID != "" {
			if err := b.chat.DeleteConversation(ctx, conversationID); err != nil {
				b.logger.Error("Failed to delete conversation",
					zap.Error(err),
					zap.Int64("chat_id", chatID))
			}
		}
		b.reply(chatID, message.MessageID, "Conversation cleared. Ask me anything!")

	default:
		b.reply(chatID, message.MessageID, "I don't know that command. Try /start.")
	}
}

func (b *Bot) reply(chatID int64, replyTo int, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyTo != 0 {
		msg.ReplyToMessageID = replyTo
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send Telegram message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
