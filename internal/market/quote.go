package market

import (
	"strconv"
	"strings"

	"github.com/xaenox/stocksense/internal/models"
)

// asNumber coerces a provider JSON value to a float. Alpha Vantage encodes
// every numeric field as a string; anything unparsable becomes 0 so a
// present-but-malformed quote degrades field by field instead of failing.
func asNumber(v any) float64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return n
}

func asString(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

// ParseGlobalQuote normalizes a GLOBAL_QUOTE payload. It returns nil only
// when the "Global Quote" container is missing entirely; a recognized
// container always yields a fully-populated Quote.
func ParseGlobalQuote(payload map[string]any) *models.Quote {
	raw, ok := payload["Global Quote"].(map[string]any)
	if !ok {
		return nil
	}

	return &models.Quote{
		Symbol:           asString(raw["01. symbol"], "N/A"),
		Price:            asNumber(raw["05. price"]),
		Change:           asNumber(raw["09. change"]),
		ChangePercent:    parsePercent(raw["10. change percent"]),
		High:             asNumber(raw["03. high"]),
		Low:              asNumber(raw["04. low"]),
		PreviousClose:    asNumber(raw["08. previous close"]),
		LatestTradingDay: asString(raw["07. latest trading day"], ""),
	}
}

// ParseTopMovers extracts up to five movers from a TOP_GAINERS_LOSERS
// payload list ("top_gainers" or "top_losers").
func ParseTopMovers(payload map[string]any, key string) []models.Mover {
	list, ok := payload[key].([]any)
	if !ok {
		return nil
	}

	movers := make([]models.Mover, 0, 5)
	for _, item := range list {
		if len(movers) == 5 {
			break
		}
		row, ok := item.(map[string]any)
		if !ok {
			continue
		}
		movers = append(movers, models.Mover{
			Ticker:        asString(row["ticker"], ""),
			Price:         asNumber(row["price"]),
			Change:        asNumber(row["change_amount"]),
			ChangePercent: parsePercent(row["change_percentage"]),
		})
	}
	return movers
}

// parsePercent handles values like "1.23%" as well as bare numbers.
func parsePercent(v any) float64 {
	if s, ok := v.(string); ok {
		return asNumber(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	}
	return 0
}
