package output

import (
	"fmt"
	"unicode/utf8"
)

// TokenBudgetInfo describes how much of an LLM context window a piece
// of output is estimated to consume.
type TokenBudgetInfo struct {
	Tokens       int     // Estimated token count
	Budget       int     // Token budget (context window size)
	UsagePercent float64 // Percentage of budget used
	Remaining    int     // Estimated tokens remaining
}

// DefaultBudget is the default context window size for estimation.
const DefaultBudget = 128000

// charsPerToken is the approximate character-to-token ratio for
// code-heavy text.
const charsPerToken = 4.0

// EstimateTokens returns an approximate token count for the given text
// using a character-based heuristic.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	runeCount := utf8.RuneCountInString(text)
	return int(float64(runeCount)/charsPerToken + 0.5)
}

// FormatTokenCount formats a token count for display. Counts >= 1000
// are formatted as "X.Xk".
func FormatTokenCount(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("%d", tokens)
	}
	return fmt.Sprintf("%.1fk", float64(tokens)/1000)
}

// GetTokenBudgetInfo calculates token budget information for the given text.
func GetTokenBudgetInfo(text string, budget int) TokenBudgetInfo {
	if budget <= 0 {
		budget = DefaultBudget
	}

	tokens := EstimateTokens(text)
	remaining := budget - tokens
	if remaining < 0 {
		remaining = 0
	}

	return TokenBudgetInfo{
		Tokens:       tokens,
		Budget:       budget,
		UsagePercent: float64(tokens) / float64(budget) * 100,
		Remaining:    remaining,
	}
}
