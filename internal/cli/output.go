package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"

	"github.com/raysh454/phishguard/internal/model"
)

// PrintBanner writes the startup banner.
func PrintBanner(w io.Writer) {
	fig := figure.NewFigure("PhishGuard", "doom", true)
	fmt.Fprint(w, fig.String())

	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)

	_, _ = cyan.Fprintln(w, "════════════════════════════════════════════════")
	_, _ = green.Fprintln(w, "    AI-assisted phishing detection console")
	_, _ = cyan.Fprintln(w, "════════════════════════════════════════════════")
}

func tierColor(level model.RiskLevel) *color.Color {
	switch level {
	case model.RiskHigh:
		return color.New(color.FgRed, color.Bold)
	case model.RiskMedium:
		return color.New(color.FgYellow)
	}
	return color.New(color.FgGreen)
}

// PrintResult writes a scan result with its tier highlighted, followed by
// the feature breakdown and any evidence.
func PrintResult(w io.Writer, r *model.ScanResult) {
	tier := tierColor(r.RiskLevel)

	fmt.Fprintf(w, "URL:         %s\n", r.URL)
	fmt.Fprintf(w, "Risk Score:  %s\n", tier.Sprintf("%d%%", model.Percent(r.Score)))
	fmt.Fprintf(w, "Risk Level:  %s\n", tier.Sprint(r.RiskLevel))
	fmt.Fprintf(w, "Confidence:  %d%%\n", model.Percent(r.Confidence))
	fmt.Fprintf(w, "Analysis:    %s\n", r.Explanation)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Domain age:       %s\n", r.Features.DomainAge)
	fmt.Fprintf(w, "  SSL certificate:  %s\n", r.Features.SSLCertificate)
	fmt.Fprintf(w, "  Reputation:       %d/100\n", r.Features.ReputationScore)
	fmt.Fprintf(w, "  Content:          %s\n", r.Features.ContentAnalysis)

	if len(r.Evidence) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Evidence:")
		for _, e := range r.Evidence {
			fmt.Fprintf(w, "  [%s] %s\n", strings.ToUpper(e.Severity), e.Description)
		}
	}

	fmt.Fprintln(w)
	tier.Fprintf(w, "%s: %s\n", r.Notification.Title, r.Notification.Description)
}

// PrintHistory writes detection records as an aligned table.
func PrintHistory(w io.Writer, records []model.DetectionRecord, summary model.HistorySummary, emptyMessage string) {
	fmt.Fprintf(w, "Total: %d  Blocked: %d  Safe: %d  Detection rate: %d%%\n\n",
		summary.TotalScans, summary.ThreatsBlocked, summary.SafeURLs, summary.DetectionRate)

	if len(records) == 0 {
		fmt.Fprintln(w, emptyMessage)
		return
	}
	for _, rec := range records {
		status := "allowed"
		if rec.Blocked {
			status = "blocked"
		}
		fmt.Fprintf(w, "%-36s %4d%%  %-6s  %s  %-11s %s\n",
			rec.URL,
			model.Percent(rec.RiskScore),
			tierColor(rec.RiskLevel).Sprint(rec.RiskLevel),
			rec.Timestamp.Format(time.DateTime),
			rec.Source,
			status)
	}
}
