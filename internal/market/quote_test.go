package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGlobalQuote(t *testing.T) {
	payload := map[string]any{
		"Global Quote": map[string]any{
			"01. symbol":             "AAPL",
			"05. price":              "189.30",
			"09. change":             "-1.25",
			"10. change percent":     "-0.6558%",
			"03. high":               "191.00",
			"04. low":                "188.10",
			"08. previous close":     "190.55",
			"07. latest trading day": "2024-03-01",
		},
	}

	quote := ParseGlobalQuote(payload)
	require.NotNil(t, quote)
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, 189.30, quote.Price)
	assert.Equal(t, -1.25, quote.Change)
	assert.Equal(t, -0.6558, quote.ChangePercent)
	assert.Equal(t, 191.00, quote.High)
	assert.Equal(t, 188.10, quote.Low)
	assert.Equal(t, 190.55, quote.PreviousClose)
	assert.Equal(t, "2024-03-01", quote.LatestTradingDay)
}

func TestParseGlobalQuoteMissingContainer(t *testing.T) {
	assert.Nil(t, ParseGlobalQuote(map[string]any{}))
	assert.Nil(t, ParseGlobalQuote(map[string]any{"Note": "rate limited"}))
	assert.Nil(t, ParseGlobalQuote(map[string]any{"Global Quote": "not an object"}))
}

func TestParseGlobalQuoteMalformedFieldsZeroFill(t *testing.T) {
	payload := map[string]any{
		"Global Quote": map[string]any{
			"05. price":          "not-a-number",
			"09. change":         42, // non-string numerics are rejected too
			"10. change percent": nil,
		},
	}

	quote := ParseGlobalQuote(payload)
	require.NotNil(t, quote)
	assert.Equal(t, "N/A", quote.Symbol)
	assert.Zero(t, quote.Price)
	assert.Zero(t, quote.Change)
	assert.Zero(t, quote.ChangePercent)
	assert.Zero(t, quote.High)
	assert.Zero(t, quote.Low)
	assert.Zero(t, quote.PreviousClose)
	assert.Equal(t, "", quote.LatestTradingDay)
}

func TestParseTopMovers(t *testing.T) {
	payload := map[string]any{
		"top_gainers": []any{
			map[string]any{"ticker": "ABC", "price": "12.50", "change_amount": "2.50", "change_percentage": "25.0%"},
			map[string]any{"ticker": "DEF", "price": "bad", "change_amount": "", "change_percentage": "oops"},
		},
	}

	movers := ParseTopMovers(payload, "top_gainers")
	require.Len(t, movers, 2)
	assert.Equal(t, "ABC", movers[0].Ticker)
	assert.Equal(t, 12.50, movers[0].Price)
	assert.Equal(t, 2.50, movers[0].Change)
	assert.Equal(t, 25.0, movers[0].ChangePercent)
	assert.Equal(t, "DEF", movers[1].Ticker)
	assert.Zero(t, movers[1].Price)
	assert.Zero(t, movers[1].ChangePercent)
}

func TestParseTopMoversLimitsToFive(t *testing.T) {
	list := make([]any, 8)
	for i := range list {
		list[i] = map[string]any{"ticker": "T", "price": "1", "change_amount": "1", "change_percentage": "1%"}
	}

	movers := ParseTopMovers(map[string]any{"top_losers": list}, "top_losers")
	assert.Len(t, movers, 5)
}

func TestParseTopMoversMissingList(t *testing.T) {
	assert.Nil(t, ParseTopMovers(map[string]any{}, "top_gainers"))
	assert.Nil(t, ParseTopMovers(map[string]any{"top_gainers": "nope"}, "top_gainers"))
}
