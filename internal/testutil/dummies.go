// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or timers.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/raysh454/phishguard/internal/assessor"
	"github.com/raysh454/phishguard/internal/logging"
	"github.com/raysh454/phishguard/internal/model"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// ─── Sampler ───────────────────────────────────────────────────────────

// SequenceSampler returns values in order, repeating the last one.
func SequenceSampler(values ...float64) assessor.Sampler {
	var mu sync.Mutex
	i := 0
	return func() float64 {
		mu.Lock()
		defer mu.Unlock()
		if len(values) == 0 {
			return 0
		}
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

// ─── Assessor ──────────────────────────────────────────────────────────

// DummyAssessor implements assessor.Assessor with a preconfigured result.
// When Gate is non-nil, Assess blocks until Gate is closed or ctx is done,
// which lets tests hold a scan in flight deterministically.
type DummyAssessor struct {
	Result *model.ScanResult
	Err    error
	Gate   chan struct{}
	Delay  time.Duration

	// CloseErr is returned by Close.
	CloseErr error

	mu    sync.Mutex
	Calls []string
}

func (d *DummyAssessor) Assess(ctx context.Context, url, _ string) (*model.ScanResult, error) {
	d.mu.Lock()
	d.Calls = append(d.Calls, url)
	d.mu.Unlock()

	if d.Gate != nil {
		select {
		case <-d.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if d.Delay > 0 {
		select {
		case <-time.After(d.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if d.Err != nil {
		return nil, d.Err
	}
	if d.Result != nil {
		r := *d.Result
		r.URL = url
		return &r, nil
	}
	level := assessor.Classify(0.5)
	return &model.ScanResult{
		URL:          url,
		Score:        0.5,
		Confidence:   0.92,
		RiskLevel:    level,
		Timestamp:    time.Now().UTC(),
		Explanation:  assessor.ExplanationFor(level),
		Notification: assessor.NotificationFor(level),
		Version:      "v-dummy",
	}, nil
}

// CallCount returns how many times Assess was invoked.
func (d *DummyAssessor) CallCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Calls)
}

func (d *DummyAssessor) Close() error { return d.CloseErr }
