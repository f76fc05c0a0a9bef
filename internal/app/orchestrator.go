package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/raysh454/phishguard/internal/assessor"
	"github.com/raysh454/phishguard/internal/history"
	"github.com/raysh454/phishguard/internal/logging"
	"github.com/raysh454/phishguard/internal/model"
	"github.com/raysh454/phishguard/internal/scanner"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many open sessions")
	ErrRateLimited     = errors.New("scan rate limit exceeded")
	ErrNoResult        = errors.New("no scan result available")
	ErrClosed          = errors.New("orchestrator closed")
)

// HistoryPage is what the history view renders for one query.
type HistoryPage struct {
	Query   history.Query           `json:"query"`
	Records []model.DetectionRecord `json:"records"`

	// Summary is computed over the whole log, independent of the query.
	Summary model.HistorySummary `json:"summary"`

	// EmptyMessage is set when Records is empty.
	EmptyMessage string `json:"empty_message,omitempty"`
}

// Orchestrator owns the scanner sessions and ties them to the assessor and
// the detection history.
type Orchestrator struct {
	cfg      *Config
	assessor assessor.Assessor
	history  history.Repository
	logger   logging.Logger
	limiter  *rate.Limiter

	mu       sync.Mutex
	sessions map[string]*scanner.Session
	closed   bool

	stopReaper chan struct{}
	reaperDone chan struct{}
}

// NewOrchestrator ties together config, assessor, history store and logger.
func NewOrchestrator(cfg *Config, a assessor.Assessor, repo history.Repository, logger logging.Logger) (*Orchestrator, error) {
	if a == nil {
		return nil, errors.New("nil assessor")
	}
	if repo == nil {
		return nil, errors.New("nil history repository")
	}
	if logger == nil {
		return nil, errors.New("nil logger")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	o := &Orchestrator{
		cfg:      cfg,
		assessor: a,
		history:  repo,
		logger:   logger.With(logging.Field{Key: "component", Value: "orchestrator"}),
		limiter:  newLimiter(cfg.RateLimit),
		sessions: make(map[string]*scanner.Session),
	}
	if cfg.SessionIdleTimeout > 0 {
		o.stopReaper = make(chan struct{})
		o.reaperDone = make(chan struct{})
		go o.reapLoop(reapInterval(cfg.SessionIdleTimeout))
	}
	return o, nil
}

func newLimiter(rl RateLimitConfig) *rate.Limiter {
	if rl.PerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := rl.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rl.PerMinute/60), burst)
}

// ─── Sessions ──────────────────────────────────────────────────────────

// CreateSession opens a new idle scanner session.
func (o *Orchestrator) CreateSession() (*scanner.Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil, ErrClosed
	}
	if o.cfg.MaxSessions > 0 && len(o.sessions) >= o.cfg.MaxSessions {
		return nil, ErrTooManySessions
	}

	id := uuid.New().String()
	s := scanner.NewSession(id, o.assessor, o.cfg.Scanner, o.logger, o.recordCompletion)
	o.sessions[id] = s
	o.logger.Debug("session created", logging.Field{Key: "session_id", Value: id})
	return s, nil
}

func (o *Orchestrator) GetSession(id string) (*scanner.Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// AbandonSession tears a session down as when the user navigates away from
// the scanner. A scan still in flight is cancelled and its result dropped.
func (o *Orchestrator) AbandonSession(id string) error {
	o.mu.Lock()
	s, ok := o.sessions[id]
	delete(o.sessions, id)
	o.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.Close()
	o.logger.Debug("session abandoned", logging.Field{Key: "session_id", Value: id})
	return nil
}

// SessionCount returns the number of open sessions.
func (o *Orchestrator) SessionCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sessions)
}

// reapInterval is how often idle sessions are looked for.
func reapInterval(idle time.Duration) time.Duration {
	i := idle / 4
	if i > time.Minute {
		i = time.Minute
	}
	if i < 10*time.Millisecond {
		i = 10 * time.Millisecond
	}
	return i
}

func (o *Orchestrator) reapLoop(interval time.Duration) {
	defer close(o.reaperDone)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-o.stopReaper:
			return
		case now := <-t.C:
			o.ReapIdle(now)
		}
	}
}

// ReapIdle abandons every session that has been idle for at least
// SessionIdleTimeout as of now and returns how many were removed. Sessions
// with a scan in flight are kept.
func (o *Orchestrator) ReapIdle(now time.Time) int {
	timeout := o.cfg.SessionIdleTimeout
	if timeout <= 0 {
		return 0
	}

	o.mu.Lock()
	var idle []*scanner.Session
	for id, s := range o.sessions {
		if s.IdleFor(now) >= timeout {
			idle = append(idle, s)
			delete(o.sessions, id)
		}
	}
	o.mu.Unlock()

	for _, s := range idle {
		s.Close()
		o.logger.Debug("idle session reaped", logging.Field{Key: "session_id", Value: s.ID()})
	}
	if len(idle) > 0 {
		o.logger.Info("reaped idle sessions", logging.Field{Key: "count", Value: len(idle)})
	}
	return len(idle)
}

// StartScan triggers a scan on the given session. Blank URLs and sessions
// with a scan in flight are rejected before the rate limiter is consulted;
// the limiter is asked under the session lock so a rejected start never
// spends a token.
func (o *Orchestrator) StartScan(ctx context.Context, id, url, content string) error {
	s, err := o.GetSession(id)
	if err != nil {
		return err
	}
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("%w: url is required", assessor.ErrInvalidInput)
	}
	return s.StartAdmitted(ctx, url, content, o.admitScan)
}

func (o *Orchestrator) admitScan() error {
	if !o.limiter.Allow() {
		return ErrRateLimited
	}
	return nil
}

// CopyText returns the clipboard summary of a session's latest result.
func (o *Orchestrator) CopyText(id string) (string, error) {
	s, err := o.GetSession(id)
	if err != nil {
		return "", err
	}
	r := s.Result()
	if r == nil {
		return "", ErrNoResult
	}
	return assessor.FormatSummary(r), nil
}

func (o *Orchestrator) recordCompletion(sessionID string, result *model.ScanResult) {
	if !o.cfg.RecordScans || result == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rec, err := o.history.Add(ctx, history.RecordFromResult(result, model.SourceManualScan))
	if err != nil {
		o.logger.Warn("failed to record scan",
			logging.Field{Key: "session_id", Value: sessionID},
			logging.Field{Key: "error", Value: err})
		return
	}
	o.logger.Info("scan recorded",
		logging.Field{Key: "session_id", Value: sessionID},
		logging.Field{Key: "record_id", Value: rec.ID},
		logging.Field{Key: "risk_level", Value: rec.RiskLevel})
}

// ─── History ───────────────────────────────────────────────────────────

// ListHistory applies q to the detection log.
func (o *Orchestrator) ListHistory(ctx context.Context, q history.Query) (*HistoryPage, error) {
	all, err := o.history.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	recs, err := o.history.Filter(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("filter history: %w", err)
	}
	page := &HistoryPage{
		Query:   q,
		Records: recs,
		Summary: history.Summarize(all),
	}
	if len(recs) == 0 {
		page.EmptyMessage = history.EmptyStateMessage
	}
	return page, nil
}

// AllHistory returns the full detection log.
func (o *Orchestrator) AllHistory(ctx context.Context) ([]model.DetectionRecord, error) {
	return o.history.List(ctx)
}

// Close abandons every session and releases the assessor.
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	sessions := o.sessions
	o.sessions = make(map[string]*scanner.Session)
	o.mu.Unlock()

	if o.stopReaper != nil {
		close(o.stopReaper)
		<-o.reaperDone
	}

	for _, s := range sessions {
		s.Close()
	}
	return o.assessor.Close()
}
