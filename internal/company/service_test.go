package company

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/stocksense/internal/llm"
	"github.com/xaenox/stocksense/internal/market"
	"github.com/xaenox/stocksense/internal/models"
	"github.com/xaenox/stocksense/internal/storage"
	"go.uber.org/zap"
)

type fakeProvider struct {
	configured bool
	overview   *models.CompanyOverview
	err        error
}

func (f *fakeProvider) Configured() bool { return f.configured }

func (f *fakeProvider) GlobalQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	return nil, market.ErrNoQuote
}

func (f *fakeProvider) TopMovers(ctx context.Context, kind market.MoverKind) ([]models.Mover, error) {
	return nil, nil
}

func (f *fakeProvider) CompanyOverview(ctx context.Context, ticker string) (*models.CompanyOverview, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.overview, nil
}

// viewRecorder wraps memory storage to observe the detached view write.
type viewRecorder struct {
	*storage.MemoryStorage
	mu      sync.Mutex
	tickers []string
	err     error
}

func (r *viewRecorder) RecordTickerView(ctx context.Context, ticker string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.tickers = append(r.tickers, ticker)
	return nil
}

func (r *viewRecorder) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.tickers))
	copy(out, r.tickers)
	return out
}

func appleProvider() *fakeProvider {
	return &fakeProvider{
		configured: true,
		overview: &models.CompanyOverview{
			Name: "Apple Inc", Sector: "Technology", MarketCap: "3T", Description: "Makes devices.",
		},
	}
}

func TestSnapshot(t *testing.T) {
	recorder := &viewRecorder{MemoryStorage: storage.NewMemoryStorage()}
	mock := llm.NewMockClient("Apple makes phones and computers.")
	svc := NewService(appleProvider(), mock, recorder, zap.NewNop())

	overview, summary, err := svc.Snapshot(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc", overview.Name)
	require.NotNil(t, summary)
	assert.Equal(t, "Apple makes phones and computers.", *summary)

	assert.Eventually(t, func() bool {
		views := recorder.recorded()
		return len(views) == 1 && views[0] == "AAPL"
	}, time.Second, 10*time.Millisecond)
}

func TestSnapshotViewWriteFailureDoesNotFailRequest(t *testing.T) {
	recorder := &viewRecorder{MemoryStorage: storage.NewMemoryStorage(), err: errors.New("db down")}
	svc := NewService(appleProvider(), llm.NewMockClient("summary"), recorder, zap.NewNop())

	overview, _, err := svc.Snapshot(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc", overview.Name)
}

func TestSnapshotSummaryOptional(t *testing.T) {
	recorder := &viewRecorder{MemoryStorage: storage.NewMemoryStorage()}

	svc := NewService(appleProvider(), nil, recorder, zap.NewNop())
	overview, summary, err := svc.Snapshot(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.NotNil(t, overview)
	assert.Nil(t, summary)

	mock := llm.NewMockClient("")
	mock.Err = errors.New("model down")
	svc = NewService(appleProvider(), mock, recorder, zap.NewNop())
	_, summary, err = svc.Snapshot(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestSnapshotNotConfigured(t *testing.T) {
	recorder := &viewRecorder{MemoryStorage: storage.NewMemoryStorage()}
	svc := NewService(&fakeProvider{}, llm.NewMockClient("x"), recorder, zap.NewNop())

	_, _, err := svc.Snapshot(context.Background(), "AAPL")
	assert.ErrorIs(t, err, market.ErrNotConfigured)
}

func TestSnapshotProviderError(t *testing.T) {
	provider := appleProvider()
	provider.err = errors.New("no company data returned for ZZZZ")
	recorder := &viewRecorder{MemoryStorage: storage.NewMemoryStorage()}
	svc := NewService(provider, llm.NewMockClient("x"), recorder, zap.NewNop())

	_, _, err := svc.Snapshot(context.Background(), "ZZZZ")
	assert.ErrorContains(t, err, "no company data")
}
