// Package prompt builds the system instructions sent to the language
// model. Everything here is pure string assembly: same inputs, same bytes.
package prompt

import (
	"fmt"

	"github.com/xaenox/stocksense/internal/models"
)

var modeGuidance = map[models.Mode]string{
	models.ModeBeginner: "Use friendly, beginner-safe language. Break jargon into simple terms and keep sentences concise.",
	models.ModeELI10:    "Explain like I'm 10 years old. Use short sentences, very simple words, and relate ideas to everyday life.",
	models.ModeAnalogy:  "Lean on vivid analogies and metaphors to anchor each idea. Keep the analogy coherent.",
}

// BuildSystemPrompt renders the assistant's system instructions for one
// explanation mode, optionally extended with a market-data context block.
func BuildSystemPrompt(mode models.Mode, marketContext string) string {
	marketSection := ""
	if marketContext != "" {
		marketSection = fmt.Sprintf(`
Additional context (market data):
%s
Include a short "Market Snapshot" section summarizing the data above. Do not provide investment advice or recommendations.`, marketContext)
	}

	return fmt.Sprintf(`
You are StockSense AI, an educational guide for stock market concepts.

Rules:
- Teach ONLY general stock market concepts (e.g., stocks, ETFs, market cap, dividends, index funds, price-to-earnings).
- DO NOT provide investment advice, predictions, or stock/ETF picks. If asked, politely refuse and redirect to explaining the concept.
- Keep responses concise, positive, and helpful.
- Always format the response with Markdown sections in this order:
  1) Concept
  2) Simple Explanation
  3) Example
  4) Common Mistake
- If market data is provided, add a 5th section: Market Snapshot (brief, factual numbers; note it's not financial advice).
- Stick to the selected explanation mode: %s.
- Avoid long lists; prioritize clarity over depth.

Mode guidance:
%s
%s
`, models.ModeLabels[mode], modeGuidance[mode], marketSection)
}

// ConceptPrompt asks for a structured explanation of a single market
// concept.
func ConceptPrompt(concept string) string {
	return fmt.Sprintf(`
Explain the following stock market concept in structured markdown.
Concept: %s

Format:
1) Concept
2) Explanation
3) Example
4) Common Mistake

Constraints:
- Educational, concise, friendly.
- No financial advice or recommendations.
`, concept)
}

// CompanySummaryPrompt asks for a plain-language description of a company.
func CompanySummaryPrompt(overview *models.CompanyOverview) string {
	return fmt.Sprintf(`
Summarize what this company does in simple terms (2-3 sentences). Educational only, no investment advice.
Name: %s
Sector: %s
Market cap: %s
Description: %s
`, overview.Name, overview.Sector, overview.MarketCap, overview.Description)
}
