package storage

import (
	"context"

	"github.com/xaenox/stocksense/internal/models"
)

// Storage persists conversations and their messages. Implementations must
// return messages in insertion order (creation time, ties broken by
// insertion sequence) so transcripts replay to the model exactly as they
// were written.
type Storage interface {
	CreateConversation(ctx context.Context, id string) error
	// DeleteConversation removes a conversation and all of its messages.
	// Deleting an absent conversation is a no-op.
	DeleteConversation(ctx context.Context, id string) error
	SaveMessage(ctx context.Context, msg *models.Message) error
	GetMessages(ctx context.Context, conversationID string) ([]models.Message, error)
	// RecordTickerView logs a company lookup. Best-effort: callers must not
	// fail their primary request when this errors.
	RecordTickerView(ctx context.Context, ticker string) error
	Close() error
}
