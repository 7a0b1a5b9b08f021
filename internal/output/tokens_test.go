package output

import (
	"strings"
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("EstimateTokens(empty) = %d", got)
	}
	// 400 characters at ~4 chars/token.
	if got := EstimateTokens(strings.Repeat("a", 400)); got != 100 {
		t.Errorf("EstimateTokens(400 chars) = %d, want 100", got)
	}
	// Multibyte runes count as runes, not bytes.
	if got := EstimateTokens(strings.Repeat("日", 400)); got != 100 {
		t.Errorf("EstimateTokens(400 runes) = %d, want 100", got)
	}
}

func TestFormatTokenCount(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0k"},
		{12345, "12.3k"},
	}
	for _, tt := range tests {
		if got := FormatTokenCount(tt.in); got != tt.want {
			t.Errorf("FormatTokenCount(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetTokenBudgetInfo(t *testing.T) {
	info := GetTokenBudgetInfo(strings.Repeat("a", 4000), 2000)
	if info.Tokens != 1000 {
		t.Errorf("Tokens = %d, want 1000", info.Tokens)
	}
	if info.Budget != 2000 || info.Remaining != 1000 {
		t.Errorf("info = %+v", info)
	}
	if info.UsagePercent != 50 {
		t.Errorf("UsagePercent = %f, want 50", info.UsagePercent)
	}

	// Zero budget falls back to the default; over-budget clamps remaining.
	info = GetTokenBudgetInfo("abc", 0)
	if info.Budget != DefaultBudget {
		t.Errorf("Budget = %d, want default", info.Budget)
	}
	info = GetTokenBudgetInfo(strings.Repeat("a", 4000), 10)
	if info.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0 when over budget", info.Remaining)
	}
}
