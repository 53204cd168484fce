package digest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/xaenox/stocksense/internal/llm"
	"github.com/xaenox/stocksense/internal/market"
	"github.com/xaenox/stocksense/internal/models"
	"go.uber.org/zap"
)

const (
	summaryMaxTokens   = 160
	summaryTemperature = 0.4
)

// indexSymbols is the fixed set of index ETFs shown in the digest.
var indexSymbols = []struct {
	Label  string
	Symbol string
}{
	{"S&P 500 (SPY)", "SPY"},
	{"Nasdaq-100 (QQQ)", "QQQ"},
	{"Dow Jones (DIA)", "DIA"},
}

// Digest aggregates index quotes and top movers for one overview request.
type Digest struct {
	Indices []models.IndexQuote `json:"indices"`
	Gainers []models.Mover      `json:"gainers"`
	Losers  []models.Mover      `json:"losers"`
	Summary *string             `json:"summary"`
}

// Service fans out the provider fetches for a digest and optionally asks
// the language model for a short plain-language summary.
type Service struct {
	market market.Provider
	llm    llm.Client
	logger *zap.Logger
}

func NewService(marketClient market.Provider, llmClient llm.Client, logger *zap.Logger) *Service {
	return &Service{
		market: marketClient,
		llm:    llmClient,
		logger: logger,
	}
}

// Assemble gathers all digest data concurrently. Individual index fetches
// that fail are dropped; only a missing provider credential fails the
// whole digest.
func (s *Service) Assemble(ctx context.Context) (*Digest, error) {
	if !s.market.Configured() {
		return nil, market.ErrNotConfigured
	}

	indexSlots := make([]*models.IndexQuote, len(indexSymbols))
	var gainers, losers []models.Mover

	var wg sync.WaitGroup
	for i, idx := range indexSymbols {
		wg.Add(1)
		go func(slot int, label, symbol string) {
			defer wg.Done()
			quote, err := s.market.GlobalQuote(ctx, symbol)
			if err != nil {
				s.logger.Warn("Index quote unavailable",
					zap.String("symbol", symbol),
					zap.Error(err))
				return
			}
			indexSlots[slot] = &models.IndexQuote{
				Label:         label,
				Symbol:        symbol,
				Price:         quote.Price,
				Change:        quote.Change,
				ChangePercent: quote.ChangePercent,
			}
		}(i, idx.Label, idx.Symbol)
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		movers, err := s.market.TopMovers(ctx, market.Gainers)
		if err != nil {
			s.logger.Warn("Top gainers unavailable", zap.Error(err))
			return
		}
		gainers = movers
	}()
	go func() {
		defer wg.Done()
		movers, err := s.market.TopMovers(ctx, market.Losers)
		if err != nil {
			s.logger.Warn("Top losers unavailable", zap.Error(err))
			return
		}
		losers = movers
	}()

	wg.Wait()

	indices := make([]models.IndexQuote, 0, len(indexSlots))
	for _, idx := range indexSlots {
		if idx != nil {
			indices = append(indices, *idx)
		}
	}
	if gainers == nil {
		gainers = []models.Mover{}
	}
	if losers == nil {
		losers = []models.Mover{}
	}

	d := &Digest{
		Indices: indices,
		Gainers: gainers,
		Losers:  losers,
	}
	d.Summary = s.summarize(ctx, d)
	return d, nil
}

// summarize is best-effort: a missing or failing language model leaves the
// digest without a summary rather than failing it.
func (s *Service) summarize(ctx context.Context, d *Digest) *string {
	if s.llm == nil {
		return nil
	}

	indexParts := make([]string, 0, len(d.Indices))
	for _, idx := range d.Indices {
		indexParts = append(indexParts, fmt.Sprintf("%s: $%.2f (%.2f%%)", idx.Label, idx.Price, idx.ChangePercent))
	}
	gainerParts := make([]string, 0, len(d.Gainers))
	for _, g := range d.Gainers {
		gainerParts = append(gainerParts, fmt.Sprintf("%s %.2f%%", g.Ticker, g.ChangePercent))
	}
	loserParts := make([]string, 0, len(d.Losers))
	for _, l := range d.Losers {
		loserParts = append(loserParts, fmt.Sprintf("%s %.2f%%", l.Ticker, l.ChangePercent))
	}

	summaryPrompt := fmt.Sprintf(`
Summarize today's market in simple terms. Use concise, educational language.
Data:
- Indices: %s
- Top gainers: %s
- Top losers: %s

Constraints:
- No predictions or advice.
- Keep it short (3-4 sentences).
`, strings.Join(indexParts, "; "), strings.Join(gainerParts, ", "), strings.Join(loserParts, ", "))

	summary, err := s.llm.Complete(ctx, summaryPrompt, summaryMaxTokens, summaryTemperature)
	if err != nil {
		s.logger.Warn("Digest summary unavailable", zap.Error(err))
		return nil
	}
	return &summary
}
