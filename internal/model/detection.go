package model

import "time"

// Detection sources seen in the history log.
const (
	SourceExtension  = "Extension"
	SourceManualScan = "Manual Scan"
	SourceAPICall    = "API Call"
)

// DetectionRecord is a historical log entry pairing a URL with its assessed
// score, tier and disposition.
type DetectionRecord struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	RiskScore float64   `json:"riskScore"`
	RiskLevel RiskLevel `json:"riskLevel"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Blocked   bool      `json:"blocked"`
}

// HistorySummary holds the four counters shown above the history table.
type HistorySummary struct {
	TotalScans     int `json:"totalScans"`
	ThreatsBlocked int `json:"threatsBlocked"`
	SafeURLs       int `json:"safeUrls"`

	// DetectionRate is the rounded percentage of blocked records.
	DetectionRate int `json:"detectionRate"`
}
