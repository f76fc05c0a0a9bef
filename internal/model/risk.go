package model

import (
	"errors"
	"fmt"
	"strings"
)

// RiskLevel is a coarse bucketing of a continuous threat score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// RiskFilter selects detection records by tier. The zero value matches all.
type RiskFilter string

const (
	FilterAll    RiskFilter = "all"
	FilterHigh   RiskFilter = "high"
	FilterMedium RiskFilter = "medium"
	FilterLow    RiskFilter = "low"
)

var ErrUnknownRiskFilter = errors.New("unknown risk filter")

// ParseRiskFilter accepts all, high, medium or low in any case. An empty
// string means all.
func ParseRiskFilter(s string) (RiskFilter, error) {
	switch f := RiskFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FilterAll:
		return FilterAll, nil
	case FilterHigh, FilterMedium, FilterLow:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRiskFilter, s)
	}
}

// Matches reports whether level passes the filter.
func (f RiskFilter) Matches(level RiskLevel) bool {
	if f == "" || f == FilterAll {
		return true
	}
	return strings.EqualFold(string(level), string(f))
}

// ParseRiskLevel parses LOW, MEDIUM or HIGH in any case.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch l := RiskLevel(strings.ToUpper(strings.TrimSpace(s))); l {
	case RiskLow, RiskMedium, RiskHigh:
		return l, nil
	default:
		return "", fmt.Errorf("unknown risk level %q", s)
	}
}
