// Package report renders the history log and analytics series as
// downloadable documents.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/raysh454/phishguard/internal/dashboard"
	"github.com/raysh454/phishguard/internal/history"
	"github.com/raysh454/phishguard/internal/model"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat maps a query value to a Format. Empty selects PDF.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type written for f.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "application/pdf"
}

// Filename returns the attachment name for an export of kind taken at t.
func (f Format) Filename(kind string, t time.Time) string {
	return fmt.Sprintf("phishguard-%s-%s.%s", kind, t.UTC().Format("20060102-150405"), f)
}

// HistoryExport is the JSON document written by WriteHistory.
type HistoryExport struct {
	GeneratedAt time.Time               `json:"generatedAt"`
	Query       history.Query           `json:"query"`
	Summary     model.HistorySummary    `json:"summary"`
	Records     []model.DetectionRecord `json:"records"`
}

// WriteHistory writes the filtered records in format f.
func WriteHistory(w io.Writer, f Format, exp HistoryExport) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(exp)
	case FormatPDF:
		return historyPDF(exp).Output(w)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteAnalytics writes the analytics series as a PDF.
func WriteAnalytics(w io.Writer, a dashboard.Analytics, generatedAt time.Time) error {
	return analyticsPDF(a, generatedAt).Output(w)
}

func newDocument(title string, generatedAt time.Time) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(true, 14)
	pdf.SetTitle(title, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 6, "Generated at: "+generatedAt.UTC().Format(time.DateTime)+" UTC", "", 1, "L", false, 0, "")
	pdf.Ln(2)
	return pdf
}

func historyPDF(exp HistoryExport) *gofpdf.Fpdf {
	pdf := newDocument("PhishGuard - Detection History", exp.GeneratedAt)

	sectionTitle(pdf, "Summary")
	kv(pdf, "Search", exp.Query.Search)
	kv(pdf, "Risk filter", string(exp.Query.Risk))
	kv(pdf, "Total scans", fmt.Sprintf("%d", exp.Summary.TotalScans))
	kv(pdf, "Threats blocked", fmt.Sprintf("%d", exp.Summary.ThreatsBlocked))
	kv(pdf, "Safe URLs", fmt.Sprintf("%d", exp.Summary.SafeURLs))
	kv(pdf, "Detection rate", fmt.Sprintf("%d%%", exp.Summary.DetectionRate))
	pdf.Ln(2)

	sectionTitle(pdf, "Records")
	if len(exp.Records) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(0, 5, history.EmptyStateMessage, "", "L", false)
		return pdf
	}

	widths := []float64{70, 18, 20, 36, 22, 16}
	header := []string{"URL", "Score", "Risk", "Timestamp", "Source", "Status"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range header {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range exp.Records {
		status := "Allowed"
		if r.Blocked {
			status = "Blocked"
		}
		riskColor(pdf, r.RiskLevel)
		cells := []string{
			truncate(safeText(r.URL), 44),
			fmt.Sprintf("%d%%", model.Percent(r.RiskScore)),
			string(r.RiskLevel),
			r.Timestamp.Format(time.DateTime),
			r.Source,
			status,
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf
}

func analyticsPDF(a dashboard.Analytics, generatedAt time.Time) *gofpdf.Fpdf {
	pdf := newDocument("PhishGuard - Analytics", generatedAt)

	sectionTitle(pdf, "Key metrics")
	for _, k := range a.KPIs {
		kv(pdf, k.Name, k.Value+"  ("+k.Change+")")
	}
	pdf.Ln(2)

	sectionTitle(pdf, "Threat trends")
	for _, p := range a.ThreatTrends {
		kv(pdf, p.Date, fmt.Sprintf("%d threats / %d scans", p.Threats, p.Scans))
	}
	pdf.Ln(2)

	sectionTitle(pdf, "Risk distribution")
	for _, s := range a.RiskDistribution {
		kv(pdf, s.Name, fmt.Sprintf("%d", s.Value))
	}
	pdf.Ln(2)

	sectionTitle(pdf, "Detection methods")
	for _, m := range a.DetectionMethods {
		kv(pdf, m.Method, fmt.Sprintf("%d", m.Detections))
	}
	pdf.Ln(2)

	sectionTitle(pdf, "Top threat domains")
	for i, d := range a.TopThreats {
		kv(pdf, fmt.Sprintf("#%d", i+1), fmt.Sprintf("%s  %d detections, last seen %s", d.Domain, d.Count, d.LastSeen))
	}

	if len(a.HistoryHosts) > 0 {
		pdf.Ln(2)
		sectionTitle(pdf, "Blocked hosts in history")
		for _, h := range a.HistoryHosts {
			kv(pdf, safeText(h.Host), fmt.Sprintf("%d", h.Count))
		}
	}
	return pdf
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pdf.GetX(), pdf.GetY(), 196, pdf.GetY())
	pdf.Ln(2)
}

func kv(pdf *gofpdf.Fpdf, key, value string) {
	if strings.TrimSpace(value) == "" {
		value = "-"
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(48, 5.2, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(20, 20, 20)
	pdf.MultiCell(0, 5.2, safeText(value), "", "L", false)
}

func riskColor(pdf *gofpdf.Fpdf, level model.RiskLevel) {
	switch level {
	case model.RiskHigh:
		pdf.SetTextColor(180, 20, 20)
	case model.RiskMedium:
		pdf.SetTextColor(170, 110, 0)
	default:
		pdf.SetTextColor(20, 120, 40)
	}
}

// safeText flattens whitespace and replaces non-ASCII runes, which the
// core fonts cannot encode.
func safeText(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(s)
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if r > 126 {
			b.WriteByte('?')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
