package assessor

import "time"

// Config holds runtime settings for the keyword assessor.
type Config struct {
	// ScoringVersion allows safe evolution of scoring logic.
	ScoringVersion string `yaml:"scoring_version" json:"scoring_version"`

	// Keywords that mark a URL or content as suspicious. Matching is
	// case-insensitive substring matching.
	Keywords []string `yaml:"keywords" json:"keywords"`

	// Confidence reported on every result.
	Confidence float64 `yaml:"confidence" json:"confidence"`

	// Delay simulates classifier latency.
	Delay time.Duration `yaml:"delay" json:"delay"`

	// Thresholds drive the tier, explanation and notification.
	Thresholds Thresholds `yaml:"thresholds" json:"thresholds"`

	// DomainAgeThreshold and CertificateThreshold drive the descriptive
	// feature fields. They are independent of the tier thresholds.
	DomainAgeThreshold   float64 `yaml:"domain_age_threshold" json:"domain_age_threshold"`
	CertificateThreshold float64 `yaml:"certificate_threshold" json:"certificate_threshold"`

	// InspectContent enables HTML evidence extraction from pasted content.
	InspectContent bool `yaml:"inspect_content" json:"inspect_content"`
}

// DefaultKeywords are domain terms associated with credential-harvesting lures.
var DefaultKeywords = []string{"secure", "verify", "urgent", "suspended", "click", "bank", "paypal"}

// DefaultConfig returns the settings of the reference dashboard.
func DefaultConfig() *Config {
	return &Config{
		ScoringVersion:       "keyword-v1",
		Keywords:             append([]string(nil), DefaultKeywords...),
		Confidence:           0.92,
		Delay:                2 * time.Second,
		Thresholds:           DefaultThresholds(),
		DomainAgeThreshold:   0.7,
		CertificateThreshold: 0.5,
		InspectContent:       true,
	}
}
