package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/raysh454/phishguard/internal/assessor"
	"github.com/raysh454/phishguard/internal/history"
	"github.com/raysh454/phishguard/internal/model"
)

func init() {
	color.NoColor = true
}

func TestParseArgs_Serve(t *testing.T) {
	args, err := ParseArgs([]string{"serve", "-addr", ":9000", "-config", "pg.yaml"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if args.Command != CommandServe || args.Addr != ":9000" || args.ConfigPath != "pg.yaml" {
		t.Errorf("unexpected args %+v", args)
	}
}

func TestParseArgs_ScanPositionalURL(t *testing.T) {
	args, err := ParseArgs([]string{"scan", "-no-banner", "paypal-verify.example"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if args.URL != "paypal-verify.example" || !args.NoBanner {
		t.Errorf("unexpected args %+v", args)
	}
}

func TestParseArgs_ScanRequiresURL(t *testing.T) {
	if _, err := ParseArgs([]string{"scan"}); err == nil {
		t.Error("expected error without url")
	}
}

func TestParseArgs_History(t *testing.T) {
	args, err := ParseArgs([]string{"history", "-risk", "high", "-search", "bank"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if args.Risk != "high" || args.Search != "bank" {
		t.Errorf("unexpected args %+v", args)
	}
}

func TestParseArgs_Usage(t *testing.T) {
	for _, in := range [][]string{nil, {"-addr", ":1"}, {"deploy"}} {
		if _, err := ParseArgs(in); !errors.Is(err, ErrUsage) {
			t.Errorf("ParseArgs(%v): expected ErrUsage, got %v", in, err)
		}
	}
	if _, err := ParseArgs([]string{"serve", "-bogus"}); err == nil {
		t.Error("expected unknown flag error")
	}
}

func TestPrintResult(t *testing.T) {
	level := assessor.Classify(0.8)
	r := &model.ScanResult{
		URL:          "secure-bank.example",
		Score:        0.8,
		Confidence:   0.92,
		RiskLevel:    level,
		Timestamp:    time.Now(),
		Features:     model.Features{DomainAge: "< 30 days", SSLCertificate: "Invalid/Missing", ReputationScore: 20, ContentAnalysis: "Suspicious patterns detected"},
		Explanation:  assessor.ExplanationFor(level),
		Notification: assessor.NotificationFor(level),
		Evidence:     []model.EvidenceItem{{Key: "suspicious-keywords", Severity: "medium", Description: "matched: secure, bank"}},
	}

	var buf bytes.Buffer
	PrintResult(&buf, r)
	out := buf.String()
	for _, want := range []string{"Risk Score:  80%", "Risk Level:  HIGH", "Confidence:  92%", "Reputation:       20/100", "[MEDIUM] matched: secure, bank", "High Risk Detected"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintHistory(t *testing.T) {
	recs := history.Filter(history.Fixture(), history.Query{Search: "github"})
	var buf bytes.Buffer
	PrintHistory(&buf, recs, history.Summarize(history.Fixture()), history.EmptyStateMessage)
	out := buf.String()
	if !strings.Contains(out, "Detection rate: 63%") || !strings.Contains(out, "github.com") {
		t.Errorf("unexpected output:\n%s", out)
	}

	buf.Reset()
	PrintHistory(&buf, nil, model.HistorySummary{}, history.EmptyStateMessage)
	if !strings.Contains(buf.String(), history.EmptyStateMessage) {
		t.Errorf("expected empty message:\n%s", buf.String())
	}
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	if !strings.Contains(buf.String(), "phishing detection console") {
		t.Errorf("unexpected banner:\n%s", buf.String())
	}
}
