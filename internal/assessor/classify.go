package assessor

import (
	"fmt"

	"github.com/raysh454/phishguard/internal/model"
)

// Thresholds maps a score to a tier with strict greater-than comparisons:
// score > High is HIGH, score > Medium is MEDIUM, anything else is LOW.
type Thresholds struct {
	High   float64 `yaml:"high" json:"high"`
	Medium float64 `yaml:"medium" json:"medium"`
}

// DefaultThresholds returns the 0.7 / 0.4 cut points.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.7, Medium: 0.4}
}

// Classify buckets score into a risk tier.
func (t Thresholds) Classify(score float64) model.RiskLevel {
	switch {
	case score > t.High:
		return model.RiskHigh
	case score > t.Medium:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// Classify buckets score using the default thresholds.
func Classify(score float64) model.RiskLevel {
	return DefaultThresholds().Classify(score)
}

const (
	explanationHigh   = "High probability phishing attempt detected. Contains multiple suspicious indicators including urgency language and credential harvesting patterns."
	explanationMedium = "Moderate risk detected. Some suspicious elements found but not conclusive."
	explanationLow    = "Low risk. No significant phishing indicators detected."
)

// ExplanationFor returns the fixed explanation text for a tier. Keying the
// text on the tier, not the score, keeps the two from drifting apart.
func ExplanationFor(level model.RiskLevel) string {
	switch level {
	case model.RiskHigh:
		return explanationHigh
	case model.RiskMedium:
		return explanationMedium
	default:
		return explanationLow
	}
}

// NotificationFor returns the completion notification for a tier.
func NotificationFor(level model.RiskLevel) model.Notification {
	switch level {
	case model.RiskHigh:
		return model.Notification{
			Title:       "High Risk Detected",
			Description: "This URL shows strong phishing indicators",
			Severity:    model.SeverityDestructive,
		}
	case model.RiskMedium:
		return model.Notification{
			Title:       "Moderate Risk",
			Description: "Proceed with caution",
			Severity:    model.SeverityInformational,
		}
	default:
		return model.Notification{
			Title:       "Safe",
			Description: "No significant threats detected",
			Severity:    model.SeverityPlain,
		}
	}
}

// FormatSummary renders the copy-to-clipboard text block for a result.
func FormatSummary(r *model.ScanResult) string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("PhishGuard AI Analysis Results\nURL: %s\nRisk Score: %d%%\nRisk Level: %s\nConfidence: %d%%\nAnalysis: %s",
		r.URL,
		model.Percent(r.Score),
		r.RiskLevel,
		model.Percent(r.Confidence),
		r.Explanation,
	)
}
