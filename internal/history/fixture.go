package history

import (
	"time"

	"github.com/raysh454/phishguard/internal/model"
)

func fixtureTime(s string) time.Time {
	t, err := time.Parse(time.DateTime, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Fixture returns the sample detection log shipped with the dashboard.
// Each call returns a fresh copy.
func Fixture() []model.DetectionRecord {
	return []model.DetectionRecord{
		{ID: "1", URL: "secure-bank-verification.net", RiskScore: 0.94, RiskLevel: model.RiskHigh, Timestamp: fixtureTime("2024-01-15 14:30:22"), Source: model.SourceExtension, Blocked: true},
		{ID: "2", URL: "paypal-security-check.org", RiskScore: 0.89, RiskLevel: model.RiskHigh, Timestamp: fixtureTime("2024-01-15 14:25:15"), Source: model.SourceManualScan, Blocked: true},
		{ID: "3", URL: "microsoft-updates.com", RiskScore: 0.12, RiskLevel: model.RiskLow, Timestamp: fixtureTime("2024-01-15 14:20:08"), Source: model.SourceExtension, Blocked: false},
		{ID: "4", URL: "amazon-prime-renewal.info", RiskScore: 0.76, RiskLevel: model.RiskHigh, Timestamp: fixtureTime("2024-01-15 14:15:45"), Source: model.SourceAPICall, Blocked: true},
		{ID: "5", URL: "github.com", RiskScore: 0.03, RiskLevel: model.RiskLow, Timestamp: fixtureTime("2024-01-15 14:10:33"), Source: model.SourceExtension, Blocked: false},
		{ID: "6", URL: "suspicious-login-verify.net", RiskScore: 0.87, RiskLevel: model.RiskHigh, Timestamp: fixtureTime("2024-01-15 14:05:12"), Source: model.SourceManualScan, Blocked: true},
		{ID: "7", URL: "stackoverflow.com", RiskScore: 0.08, RiskLevel: model.RiskLow, Timestamp: fixtureTime("2024-01-15 14:00:01"), Source: model.SourceExtension, Blocked: false},
		{ID: "8", URL: "crypto-wallet-security.org", RiskScore: 0.92, RiskLevel: model.RiskHigh, Timestamp: fixtureTime("2024-01-15 13:55:47"), Source: model.SourceAPICall, Blocked: true},
	}
}
