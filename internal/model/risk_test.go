package model

import (
	"errors"
	"testing"
)

func TestParseRiskFilter(t *testing.T) {
	tests := []struct {
		in   string
		want RiskFilter
	}{
		{"", FilterAll},
		{"all", FilterAll},
		{"HIGH", FilterHigh},
		{" Medium ", FilterMedium},
		{"low", FilterLow},
	}
	for _, tt := range tests {
		got, err := ParseRiskFilter(tt.in)
		if err != nil {
			t.Fatalf("ParseRiskFilter(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseRiskFilter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := ParseRiskFilter("critical"); !errors.Is(err, ErrUnknownRiskFilter) {
		t.Errorf("expected ErrUnknownRiskFilter, got %v", err)
	}
}

func TestRiskFilter_Matches(t *testing.T) {
	if !FilterAll.Matches(RiskLow) || !RiskFilter("").Matches(RiskHigh) {
		t.Error("all filter must match every level")
	}
	if !FilterHigh.Matches(RiskHigh) {
		t.Error("high filter must match HIGH")
	}
	if FilterHigh.Matches(RiskMedium) {
		t.Error("high filter must not match MEDIUM")
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(0.926); got != 93 {
		t.Errorf("Percent(0.926) = %d, want 93", got)
	}
	if got := Percent(0.92); got != 92 {
		t.Errorf("Percent(0.92) = %d, want 92", got)
	}
	if got := Percent(0); got != 0 {
		t.Errorf("Percent(0) = %d, want 0", got)
	}
}
