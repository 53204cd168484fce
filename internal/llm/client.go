package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/xaenox/stocksense/internal/models"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned when no language-model credential was
// provided at startup.
var ErrNotConfigured = errors.New("OpenAI is not configured")

// Client is the language-model boundary. ChatCompletion replays a full
// conversation under a system prompt; Complete answers a single prompt
// with an explicit token budget.
type Client interface {
	ChatCompletion(ctx context.Context, systemPrompt string, history []models.Message) (string, error)
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error)
}

type OpenAIClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func NewOpenAIClient(apiKey string, model string, maxTokens int, temperature float64, logger *zap.Logger) *OpenAIClient {
	return &OpenAIClient{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

// ChatCompletion sends the system prompt followed by the ordered history.
// Only role and content are forwarded; the explanation mode shapes the
// system prompt, not the individual turns.
func (c *OpenAIClient) ChatCompletion(ctx context.Context, systemPrompt string, history []models.Message) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages,
			MaxTokens:   c.maxTokens,
			Temperature: float32(c.temperature),
		},
	)
	if err != nil {
		c.logger.Error("Chat completion failed", zap.Error(err))
		return "", fmt.Errorf("language model request failed: %v", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("language model returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   maxTokens,
			Temperature: temperature,
		},
	)
	if err != nil {
		c.logger.Error("Completion failed", zap.Error(err))
		return "", fmt.Errorf("language model request failed: %v", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("language model returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
