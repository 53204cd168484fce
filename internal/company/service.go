package company

import (
	"context"
	"time"

	"github.com/xaenox/stocksense/internal/llm"
	"github.com/xaenox/stocksense/internal/market"
	"github.com/xaenox/stocksense/internal/models"
	"github.com/xaenox/stocksense/internal/prompt"
	"github.com/xaenox/stocksense/internal/storage"
	"go.uber.org/zap"
)

const (
	summaryMaxTokens   = 140
	summaryTemperature = 0.4

	viewWriteTimeout = 5 * time.Second
)

// Service serves company snapshots: provider overview data plus an
// optional plain-language summary.
type Service struct {
	market  market.Provider
	llm     llm.Client
	storage storage.Storage
	logger  *zap.Logger
}

func NewService(marketClient market.Provider, llmClient llm.Client, store storage.Storage, logger *zap.Logger) *Service {
	return &Service{
		market:  marketClient,
		llm:     llmClient,
		storage: store,
		logger:  logger,
	}
}

// Snapshot fetches the company overview for ticker. The lookup is recorded
// as a ticker view on a detached goroutine; that write never blocks or
// fails the response.
func (s *Service) Snapshot(ctx context.Context, ticker string) (*models.CompanyOverview, *string, error) {
	if !s.market.Configured() {
		return nil, nil, market.ErrNotConfigured
	}

	go s.recordView(ticker)

	overview, err := s.market.CompanyOverview(ctx, ticker)
	if err != nil {
		return nil, nil, err
	}

	return overview, s.summarize(ctx, overview), nil
}

// recordView runs detached from the request, with its own deadline.
func (s *Service) recordView(ticker string) {
	ctx, cancel := context.WithTimeout(context.Background(), viewWriteTimeout)
	defer cancel()

	if err := s.storage.RecordTickerView(ctx, ticker); err != nil {
		s.logger.Warn("Failed to record ticker view",
			zap.String("ticker", ticker),
			zap.Error(err))
	}
}

func (s *Service) summarize(ctx context.Context, overview *models.CompanyOverview) *string {
	if s.llm == nil {
		return nil
	}

	summary, err := s.llm.Complete(ctx, prompt.CompanySummaryPrompt(overview), summaryMaxTokens, summaryTemperature)
	if err != nil {
		s.logger.Warn("Company summary unavailable", zap.Error(err))
		return nil
	}
	return &summary
}
