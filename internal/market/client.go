package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/xaenox/stocksense/internal/models"
	"go.uber.org/zap"
)

const userAgent = "StockSenseAI/1.0"

var (
	// ErrNotConfigured is returned before any network call when the
	// provider credential is missing.
	ErrNotConfigured = errors.New("market data API key not configured")
	// ErrNoQuote means the provider answered but the payload carried no
	// usable quote container.
	ErrNoQuote = errors.New("no quote data returned")
)

type MoverKind string

const (
	Gainers MoverKind = "top_gainers"
	Losers  MoverKind = "top_losers"
)

// Provider is the outbound market-data boundary the rest of the service
// depends on.
type Provider interface {
	Configured() bool
	GlobalQuote(ctx context.Context, symbol string) (*models.Quote, error)
	TopMovers(ctx context.Context, kind MoverKind) ([]models.Mover, error)
	CompanyOverview(ctx context.Context, ticker string) (*models.CompanyOverview, error)
}

// Client talks to the Alpha Vantage query API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(apiKey, baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) query(ctx context.Context, params url.Values) (map[string]any, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error building provider request: %v", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cache-Control", "no-store")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		c.logger.Warn("Market data provider returned non-OK status",
			zap.Int("status", res.StatusCode),
			zap.String("function", params.Get("function")))
		return nil, fmt.Errorf("provider error (%d)", res.StatusCode)
	}

	var payload map[string]any
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("error decoding provider response: %v", err)
	}
	return payload, nil
}

func (c *Client) GlobalQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)

	payload, err := c.query(ctx, params)
	if err != nil {
		return nil, err
	}

	quote := ParseGlobalQuote(payload)
	if quote == nil {
		return nil, ErrNoQuote
	}
	return quote, nil
}

func (c *Client) TopMovers(ctx context.Context, kind MoverKind) ([]models.Mover, error) {
	params := url.Values{}
	params.Set("function", "TOP_GAINERS_LOSERS")

	payload, err := c.query(ctx, params)
	if err != nil {
		return nil, err
	}
	return ParseTopMovers(payload, string(kind)), nil
}

func (c *Client) CompanyOverview(ctx context.Context, ticker string) (*models.CompanyOverview, error) {
	params := url.Values{}
	params.Set("function", "OVERVIEW")
	params.Set("symbol", ticker)

	payload, err := c.query(ctx, params)
	if err != nil {
		return nil, err
	}

	// An empty object or a rate-limit "Note" means no company data.
	if len(payload) == 0 {
		return nil, fmt.Errorf("no company data returned for %s", ticker)
	}
	if _, limited := payload["Note"]; limited {
		return nil, fmt.Errorf("no company data returned for %s", ticker)
	}

	overview := &models.CompanyOverview{
		Name:        asString(payload["Name"], ticker),
		Sector:      asString(payload["Sector"], "N/A"),
		MarketCap:   asString(payload["MarketCapitalization"], "N/A"),
		Description: asString(payload["Description"], "No description available."),
	}
	if overview.Name == "" {
		overview.Name = ticker
	}
	if overview.Sector == "" {
		overview.Sector = "N/A"
	}
	if overview.MarketCap == "" {
		overview.MarketCap = "N/A"
	}
	if overview.Description == "" {
		overview.Description = "No description available."
	}
	return overview, nil
}
