package assessor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"github.com/raysh454/phishguard/internal/logging"
	"github.com/raysh454/phishguard/internal/model"
)

// Sampler returns a uniform sample in [0, 1). It is the only source of
// randomness in scoring, so tests pin scores by injecting one.
type Sampler func() float64

// FixedSampler always returns u.
func FixedSampler(u float64) Sampler {
	return func() float64 { return u }
}

// Option customizes a KeywordAssessor.
type Option func(*KeywordAssessor)

// WithSampler replaces the default math/rand sampler.
func WithSampler(s Sampler) Option {
	return func(k *KeywordAssessor) {
		if s != nil {
			k.sample = s
		}
	}
}

// WithClock replaces time.Now for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(k *KeywordAssessor) {
		if now != nil {
			k.now = now
		}
	}
}

// KeywordAssessor is a stand-in classifier: a URL or content containing one
// of the configured keywords scores in [0.6, 1.0), anything else in [0, 0.3).
type KeywordAssessor struct {
	cfg      *Config
	keywords []string
	logger   logging.Logger
	sample   Sampler
	now      func() time.Time
	closed   atomic.Bool
}

// NewKeywordAssessor constructs a keyword assessor. A nil cfg uses DefaultConfig.
func NewKeywordAssessor(cfg *Config, logger logging.Logger, opts ...Option) (*KeywordAssessor, error) {
	if logger == nil {
		return nil, errors.New("assessor: nil logger")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Thresholds.High < cfg.Thresholds.Medium {
		return nil, fmt.Errorf("assessor: high threshold %.2f below medium threshold %.2f", cfg.Thresholds.High, cfg.Thresholds.Medium)
	}

	keywords := make([]string, 0, len(cfg.Keywords))
	for _, kw := range cfg.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}

	k := &KeywordAssessor{
		cfg:      cfg,
		keywords: keywords,
		logger:   logger.With(logging.Field{Key: "component", Value: "keyword-assessor"}),
		sample:   rand.Float64,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(k)
	}

	k.logger.Info("keyword assessor constructed",
		logging.Field{Key: "scoring_version", Value: cfg.ScoringVersion},
		logging.Field{Key: "keywords", Value: len(keywords)})
	return k, nil
}

// MatchedKeywords returns the configured keywords found in url or content,
// in configuration order. Matching is done on lower-cased copies.
func (k *KeywordAssessor) MatchedKeywords(url, content string) []string {
	lu := strings.ToLower(url)
	lc := strings.ToLower(content)

	var out []string
	for _, kw := range k.keywords {
		if strings.Contains(lu, kw) || strings.Contains(lc, kw) {
			out = append(out, kw)
		}
	}
	return out
}

// Score maps the suspicious flag and a uniform sample to a threat score.
func Score(suspicious bool, u float64) float64 {
	u = clampUnit(u)
	if suspicious {
		return 0.6 + 0.4*u
	}
	return 0.3 * u
}

// clampUnit keeps u inside [0, 1) so a misbehaving sampler cannot push a
// score out of its band.
func clampUnit(u float64) float64 {
	switch {
	case math.IsNaN(u), u < 0:
		return 0
	case u >= 1:
		return math.Nextafter(1, 0)
	default:
		return u
	}
}

// Assess waits for the configured delay, then scores url and content.
func (k *KeywordAssessor) Assess(ctx context.Context, url, content string) (*model.ScanResult, error) {
	if k.closed.Load() {
		return nil, ErrServiceUnavailable
	}
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidInput)
	}

	if err := k.wait(ctx); err != nil {
		return nil, err
	}

	matched := k.MatchedKeywords(url, content)
	suspicious := len(matched) > 0
	score := Score(suspicious, k.sample())
	// Score is in [0.6, 1.0) for suspicious input; guard the upper edge
	// against float rounding.
	if score >= 1 {
		score = math.Nextafter(1, 0)
	}

	result := k.build(url, score, suspicious)
	if k.cfg.InspectContent {
		result.Evidence = inspectContent(url, content, matched)
	}

	k.logger.Debug("assessed url",
		logging.Field{Key: "url", Value: url},
		logging.Field{Key: "score", Value: score},
		logging.Field{Key: "risk_level", Value: result.RiskLevel})
	return result, nil
}

func (k *KeywordAssessor) wait(ctx context.Context) error {
	if k.cfg.Delay <= 0 {
		if err := ctx.Err(); err != nil {
			return k.ctxError(err)
		}
		return nil
	}

	timer := time.NewTimer(k.cfg.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return k.ctxError(ctx.Err())
	}
}

func (k *KeywordAssessor) ctxError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}

// build derives every display field from score. Tier, explanation and
// notification all come from a single Classify call.
func (k *KeywordAssessor) build(url string, score float64, suspicious bool) *model.ScanResult {
	level := k.cfg.Thresholds.Classify(score)

	features := model.Features{
		DomainAge:       "2+ years",
		SSLCertificate:  "Valid",
		ContentAnalysis: "Clean content",
		ReputationScore: int(math.Round((1 - score) * 100)),
	}
	if score > k.cfg.DomainAgeThreshold {
		features.DomainAge = "< 30 days"
	}
	if score > k.cfg.CertificateThreshold {
		features.SSLCertificate = "Invalid/Missing"
	}
	if suspicious {
		features.ContentAnalysis = "Suspicious patterns detected"
	}

	return &model.ScanResult{
		URL:          url,
		Score:        score,
		Confidence:   k.cfg.Confidence,
		RiskLevel:    level,
		Timestamp:    k.now().UTC(),
		Features:     features,
		Explanation:  ExplanationFor(level),
		Notification: NotificationFor(level),
		Version:      k.cfg.ScoringVersion,
	}
}

// Close marks the assessor unavailable. Further calls fail with
// ErrServiceUnavailable.
func (k *KeywordAssessor) Close() error {
	k.closed.Store(true)
	return nil
}
