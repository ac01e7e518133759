package utils

import "testing"

func TestFormatIdle(t *testing.T) {
	tests := []struct {
		ms       uint64
		expected string
	}{
		{0, "0s"},
		{999, "0s"},
		{42_000, "42s"},
		{59_999, "59s"},
		{60_000, "1m"},
		{5*60_000 + 30_000, "5m"},
		{3_599_999, "59m"},
		{3_600_000, "1h"},
		{2*3_600_000 + 59*60_000, "2h"},
	}

	for _, tt := range tests {
		if got := FormatIdle(tt.ms); got != tt.expected {
			t.Errorf("FormatIdle(%d) = %q, want %q", tt.ms, got, tt.expected)
		}
	}
}
