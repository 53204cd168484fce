package ticker

import (
	"regexp"
	"strings"
)

// knownCompanies maps well-known company names to their tickers. Order
// matters: the first name found in the input wins.
var knownCompanies = []struct {
	Name   string
	Ticker string
}{
	{"MICROSOFT", "MSFT"},
	{"APPLE", "AAPL"},
	{"GOOGLE", "GOOGL"},
	{"ALPHABET", "GOOGL"},
	{"AMAZON", "AMZN"},
	{"META", "META"},
	{"FACEBOOK", "META"},
	{"TESLA", "TSLA"},
	{"NVIDIA", "NVDA"},
	{"AMD", "AMD"},
	{"INTEL", "INTC"},
}

// stopWords are all-caps tokens that look like tickers but never are.
var stopWords = map[string]bool{
	"THE": true, "AND": true, "WHAT": true, "WITH": true, "ABOUT": true,
	"PRICE": true, "STOCK": true, "STOCKS": true, "ETF": true,
	"ETFS": true, "LIKE": true,
}

var (
	dollarPattern = regexp.MustCompile(`\$([A-Za-z]{1,5})\b`)
	tokenPattern  = regexp.MustCompile(`\b[A-Z]{1,5}\b`)
)

// Strategy inspects free text and returns a ticker guess or "".
type Strategy func(text string) string

// Detector runs an ordered chain of matching strategies and returns the
// first hit. It guesses: a detected symbol may still yield no quote
// downstream, which callers treat as absence of market context.
type Detector struct {
	strategies []Strategy
}

func NewDetector() *Detector {
	return &Detector{
		strategies: []Strategy{
			matchCompanyName,
			matchDollarSymbol,
			matchBareToken,
		},
	}
}

// Detect returns the best-guess ticker in text, or "" when nothing matches.
func (d *Detector) Detect(text string) string {
	for _, strategy := range d.strategies {
		if ticker := strategy(text); ticker != "" {
			return ticker
		}
	}
	return ""
}

func matchCompanyName(text string) string {
	upper := strings.ToUpper(text)
	for _, company := range knownCompanies {
		if strings.Contains(upper, company.Name) {
			return company.Ticker
		}
	}
	return ""
}

func matchDollarSymbol(text string) string {
	if m := dollarPattern.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}

// matchBareToken only considers tokens that are already all-caps in the
// input, so ordinary words never read as tickers.
func matchBareToken(text string) string {
	for _, token := range tokenPattern.FindAllString(text, -1) {
		if !stopWords[token] {
			return token
		}
	}
	return ""
}
