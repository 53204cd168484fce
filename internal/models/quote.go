package models

// Quote is a transient market snapshot for a single symbol. It is never
// persisted; missing provider fields resolve to zero values rather than
// failing the whole parse.
type Quote struct {
	Symbol           string  `json:"symbol"`
	Price            float64 `json:"price"`
	Change           float64 `json:"change"`
	ChangePercent    float64 `json:"changePercent"`
	High             float64 `json:"high"`
	Low              float64 `json:"low"`
	PreviousClose    float64 `json:"previousClose"`
	LatestTradingDay string  `json:"latestTradingDay"`
}

// Mover is one row of the provider's top gainers/losers lists.
type Mover struct {
	Ticker        string  `json:"ticker"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// IndexQuote is a labeled index ETF quote used by the market digest.
type IndexQuote struct {
	Label         string  `json:"label"`
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// CompanyOverview is the subset of the provider's OVERVIEW payload the
// company snapshot endpoint exposes.
type CompanyOverview struct {
	Name        string `json:"name"`
	Sector      string `json:"sector"`
	MarketCap   string `json:"marketCap"`
	Description string `json:"description"`
}
