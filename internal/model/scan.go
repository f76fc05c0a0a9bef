package model

import (
	"math"
	"time"
)

// ScanRequest is the payload a client submits to trigger a scan.
type ScanRequest struct {
	// URL is the target to analyze. Any non-empty string is accepted.
	URL string `json:"url" example:"https://secure-paypal-verification.net"`

	// Content is optional pasted page or email content.
	Content string `json:"content,omitempty" example:"Your account has been suspended"`
}

// Features holds the descriptive fields shown in the detailed analysis panel.
// They are derived from the score and keyword presence only.
type Features struct {
	DomainAge       string `json:"domainAge"`
	SSLCertificate  string `json:"sslCertificate"`
	ContentAnalysis string `json:"contentAnalysis"`
	ReputationScore int    `json:"reputationScore"`
}

// EvidenceItem is one informational finding produced while inspecting content.
type EvidenceItem struct {
	// Key is a short identifier such as "password-input".
	Key string `json:"key"`

	// Severity is "low", "medium" or "high".
	Severity string `json:"severity"`

	Description string `json:"description"`

	// Value holds the raw value that triggered the evidence, if any.
	Value any `json:"value,omitempty"`
}

// Severity selects how a notification is presented.
type Severity string

const (
	SeverityDestructive   Severity = "destructive"
	SeverityInformational Severity = "informational"
	SeverityPlain         Severity = "plain"
)

// Notification is the user-visible toast raised when a scan completes.
type Notification struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// ScanResult is produced by an assessor and consumed by the result panel.
// It is transient: held by a scan session until the next scan or abandonment.
type ScanResult struct {
	// URL is the input echoed verbatim.
	URL string `json:"url"`

	// Score is a synthetic threat probability in [0, 1).
	Score float64 `json:"score"`

	// Confidence is the assessor's confidence in [0, 1].
	Confidence float64 `json:"confidence"`

	RiskLevel RiskLevel `json:"riskLevel"`

	Timestamp time.Time `json:"timestamp"`

	Features Features `json:"features"`

	Explanation string `json:"explanation"`

	// Notification is chosen from the same tier as RiskLevel.
	Notification Notification `json:"notification"`

	// Evidence lists content findings. It never influences Score.
	Evidence []EvidenceItem `json:"evidence,omitempty"`

	// Version identifies the scoring ruleset.
	Version string `json:"version,omitempty"`
}

// Percent rounds a [0,1] fraction to a whole percentage.
func Percent(v float64) int {
	return int(math.Round(v * 100))
}
