package digest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/stocksense/internal/llm"
	"github.com/xaenox/stocksense/internal/market"
	"github.com/xaenox/stocksense/internal/models"
	"go.uber.org/zap"
)

type fakeProvider struct {
	configured bool
	quotes     map[string]*models.Quote
	quoteErrs  map[string]error
	gainers    []models.Mover
	losers     []models.Mover
	moversErr  error
}

func (f *fakeProvider) Configured() bool { return f.configured }

func (f *fakeProvider) GlobalQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if err, ok := f.quoteErrs[symbol]; ok {
		return nil, err
	}
	if q, ok := f.quotes[symbol]; ok {
		return q, nil
	}
	return nil, market.ErrNoQuote
}

func (f *fakeProvider) TopMovers(ctx context.Context, kind market.MoverKind) ([]models.Mover, error) {
	if f.moversErr != nil {
		return nil, f.moversErr
	}
	if kind == market.Gainers {
		return f.gainers, nil
	}
	return f.losers, nil
}

func (f *fakeProvider) CompanyOverview(ctx context.Context, ticker string) (*models.CompanyOverview, error) {
	return nil, errors.New("not implemented")
}

func allIndexProvider() *fakeProvider {
	return &fakeProvider{
		configured: true,
		quotes: map[string]*models.Quote{
			"SPY": {Symbol: "SPY", Price: 510.0, Change: 1.0, ChangePercent: 0.2},
			"QQQ": {Symbol: "QQQ", Price: 440.0, Change: -2.0, ChangePercent: -0.45},
			"DIA": {Symbol: "DIA", Price: 390.0, Change: 0.5, ChangePercent: 0.13},
		},
		gainers: []models.Mover{{Ticker: "UP", ChangePercent: 25}},
		losers:  []models.Mover{{Ticker: "DN", ChangePercent: -20}},
	}
}

func TestAssembleFullDigest(t *testing.T) {
	mock := llm.NewMockClient("Markets were mixed today.")
	svc := NewService(allIndexProvider(), mock, zap.NewNop())

	d, err := svc.Assemble(context.Background())
	require.NoError(t, err)
	require.Len(t, d.Indices, 3)
	// Fixed presentation order regardless of fetch completion order.
	assert.Equal(t, "SPY", d.Indices[0].Symbol)
	assert.Equal(t, "QQQ", d.Indices[1].Symbol)
	assert.Equal(t, "DIA", d.Indices[2].Symbol)
	assert.Equal(t, "S&P 500 (SPY)", d.Indices[0].Label)
	require.Len(t, d.Gainers, 1)
	require.Len(t, d.Losers, 1)
	require.NotNil(t, d.Summary)
	assert.Equal(t, "Markets were mixed today.", *d.Summary)
	assert.Contains(t, mock.LastPrompt, "S&P 500 (SPY): $510.00 (0.20%)")
}

func TestAssemblePartialIndexFailure(t *testing.T) {
	provider := allIndexProvider()
	provider.quoteErrs = map[string]error{"QQQ": errors.New("boom")}
	svc := NewService(provider, llm.NewMockClient("summary"), zap.NewNop())

	d, err := svc.Assemble(context.Background())
	require.NoError(t, err)
	require.Len(t, d.Indices, 2)
	assert.Equal(t, "SPY", d.Indices[0].Symbol)
	assert.Equal(t, "DIA", d.Indices[1].Symbol)
}

func TestAssembleMoversFailureReturnsEmptyLists(t *testing.T) {
	provider := allIndexProvider()
	provider.moversErr = errors.New("boom")
	svc := NewService(provider, llm.NewMockClient("summary"), zap.NewNop())

	d, err := svc.Assemble(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, d.Gainers)
	assert.Empty(t, d.Gainers)
	assert.NotNil(t, d.Losers)
	assert.Empty(t, d.Losers)
}

func TestAssembleNotConfigured(t *testing.T) {
	svc := NewService(&fakeProvider{}, llm.NewMockClient("x"), zap.NewNop())

	_, err := svc.Assemble(context.Background())
	assert.ErrorIs(t, err, market.ErrNotConfigured)
}

func TestAssembleSummaryOptional(t *testing.T) {
	// No language model at all: the digest still succeeds.
	svc := NewService(allIndexProvider(), nil, zap.NewNop())
	d, err := svc.Assemble(context.Background())
	require.NoError(t, err)
	assert.Nil(t, d.Summary)

	// A failing language model drops only the summary.
	mock := llm.NewMockClient("")
	mock.Err = errors.New("model down")
	svc = NewService(allIndexProvider(), mock, zap.NewNop())
	d, err = svc.Assemble(context.Background())
	require.NoError(t, err)
	assert.Nil(t, d.Summary)
	require.Len(t, d.Indices, 3)
}
