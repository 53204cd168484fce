package concepts

import (
	"context"
	"errors"
	"strings"

	"github.com/xaenox/stocksense/internal/llm"
	"github.com/xaenox/stocksense/internal/prompt"
	"go.uber.org/zap"
)

var ErrEmptyConcept = errors.New("concept is required")

const (
	explainMaxTokens   = 320
	explainTemperature = 0.4
)

// Service answers concept-explanation requests through the cache.
type Service struct {
	llm    llm.Client
	cache  *Cache
	logger *zap.Logger
}

func NewService(llmClient llm.Client, cache *Cache, logger *zap.Logger) *Service {
	return &Service{
		llm:    llmClient,
		cache:  cache,
		logger: logger,
	}
}

// Explain returns a structured explanation for concept and whether it was
// served from the cache. Failed generations are never cached.
func (s *Service) Explain(ctx context.Context, concept string) (string, bool, error) {
	if s.llm == nil {
		return "", false, llm.ErrNotConfigured
	}

	concept = strings.TrimSpace(concept)
	if concept == "" {
		return "", false, ErrEmptyConcept
	}

	if content, ok := s.cache.Get(concept); ok {
		s.logger.Debug("Concept served from cache", zap.String("concept", concept))
		return content, true, nil
	}

	content, err := s.llm.Complete(ctx, prompt.ConceptPrompt(concept), explainMaxTokens, explainTemperature)
	if err != nil {
		return "", false, err
	}

	s.cache.Put(concept, content)
	return content, false, nil
}
