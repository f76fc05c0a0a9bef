package scanner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/raysh454/phishguard/internal/assessor"
	"github.com/raysh454/phishguard/internal/logging"
	"github.com/raysh454/phishguard/internal/model"
)

var (
	// ErrScanInFlight is returned when a scan is started while another is pending.
	ErrScanInFlight = errors.New("scan already in flight")

	// ErrSessionClosed is returned once a session has been closed.
	ErrSessionClosed = errors.New("session closed")
)

type State string

const (
	StateIdle     State = "idle"
	StateScanning State = "scanning"
	StateDone     State = "done"
)

type EventType string

const (
	EventStatus EventType = "status"
	EventResult EventType = "result"
	EventError  EventType = "error"
)

// Event is emitted on every state change of a session.
type Event struct {
	SessionID string            `json:"session_id"`
	Type      EventType         `json:"type"`
	State     State             `json:"state"`
	Result    *model.ScanResult `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// Snapshot is a point-in-time copy of a session's state.
type Snapshot struct {
	ID        string            `json:"id"`
	State     State             `json:"state"`
	URL       string            `json:"url,omitempty"`
	Result    *model.ScanResult `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
	StartedAt time.Time         `json:"started_at,omitempty"`
	EndedAt   time.Time         `json:"ended_at,omitempty"`

	// CanScan mirrors the enabled state of the trigger control.
	CanScan bool `json:"can_scan"`
}

// CompletionFunc is called once for each scan that completes while the
// session is still active. It is never called for abandoned scans.
type CompletionFunc func(sessionID string, result *model.ScanResult)

// Session is one scanner view instance. It owns its state exclusively and
// allows at most one scan in flight.
type Session struct {
	id       string
	assessor assessor.Assessor
	logger   logging.Logger
	timeout  time.Duration
	onDone   CompletionFunc

	mu         sync.Mutex
	state      State
	url        string
	result     *model.ScanResult
	err        error
	startedAt  time.Time
	endedAt    time.Time
	lastActive time.Time
	generation uint64
	cancel     context.CancelFunc
	closed     bool
	events     chan Event
}

// Config controls session behaviour.
type Config struct {
	// Timeout bounds a single assessment. Zero means no deadline.
	Timeout time.Duration `yaml:"timeout"`

	// EventBuffer is the capacity of the events channel. Events beyond it
	// are dropped rather than blocking the scan.
	EventBuffer int `yaml:"event_buffer"`
}

// DefaultConfig returns the default session settings.
func DefaultConfig() Config {
	return Config{
		Timeout:     30 * time.Second,
		EventBuffer: 16,
	}
}

// NewSession creates an idle session. onDone may be nil.
func NewSession(id string, a assessor.Assessor, cfg Config, logger logging.Logger, onDone CompletionFunc) *Session {
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = DefaultConfig().EventBuffer
	}
	return &Session{
		id:         id,
		assessor:   a,
		logger:     logger.With(logging.Field{Key: "session_id", Value: id}),
		timeout:    cfg.Timeout,
		onDone:     onDone,
		state:      StateIdle,
		lastActive: time.Now(),
		events:     make(chan Event, cfg.EventBuffer),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Events returns the session's event stream. It is closed by Close.
func (s *Session) Events() <-chan Event { return s.events }

// Start begins a scan. It fails with ErrScanInFlight while a scan is pending
// and with assessor.ErrInvalidInput when url is blank; in both cases the
// current state is left untouched.
func (s *Session) Start(ctx context.Context, url, content string) error {
	return s.StartAdmitted(ctx, url, content, nil)
}

// StartAdmitted is Start with an admission check. admit runs under the
// session lock once the session is known to be able to scan, so it is never
// consulted for a start that would be rejected anyway. A non-nil error from
// admit is returned and the session is left untouched.
func (s *Session) StartAdmitted(ctx context.Context, url, content string, admit func() error) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("%w: url is required", assessor.ErrInvalidInput)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.state == StateScanning {
		s.mu.Unlock()
		return ErrScanInFlight
	}
	if admit != nil {
		if err := admit(); err != nil {
			s.mu.Unlock()
			return err
		}
	}

	var scanCtx context.Context
	var cancel context.CancelFunc
	if s.timeout > 0 {
		scanCtx, cancel = context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	} else {
		scanCtx, cancel = context.WithCancel(context.WithoutCancel(ctx))
	}

	s.generation++
	gen := s.generation
	s.state = StateScanning
	s.url = url
	s.result = nil
	s.err = nil
	s.startedAt = time.Now().UTC()
	s.endedAt = time.Time{}
	s.lastActive = time.Now()
	s.cancel = cancel
	s.emitLocked(Event{Type: EventStatus, State: StateScanning})
	s.mu.Unlock()

	s.logger.Info("scan started", logging.Field{Key: "url", Value: url})

	go s.run(scanCtx, cancel, gen, url, content)
	return nil
}

func (s *Session) run(ctx context.Context, cancel context.CancelFunc, gen uint64, url, content string) {
	defer cancel()

	result, err := s.assessor.Assess(ctx, url, content)

	s.mu.Lock()
	if s.closed || gen != s.generation {
		// Abandoned: the view that started this scan is gone.
		s.mu.Unlock()
		s.logger.Debug("dropping result of abandoned scan", logging.Field{Key: "url", Value: url})
		return
	}

	s.cancel = nil
	s.endedAt = time.Now().UTC()
	s.lastActive = time.Now()
	if err != nil {
		s.state = StateIdle
		s.err = err
		s.emitLocked(Event{Type: EventError, State: StateIdle, Error: err.Error()})
		s.mu.Unlock()
		s.logger.Warn("scan failed", logging.Field{Key: "url", Value: url}, logging.Field{Key: "error", Value: err})
		return
	}

	s.state = StateDone
	s.result = result
	s.emitLocked(Event{Type: EventResult, State: StateDone, Result: result})
	onDone := s.onDone
	s.mu.Unlock()

	s.logger.Info("scan finished",
		logging.Field{Key: "url", Value: url},
		logging.Field{Key: "risk_level", Value: result.RiskLevel})

	if onDone != nil {
		onDone(s.id, result)
	}
}

// Abandon cancels a pending scan. Its eventual completion is dropped and
// the session returns to idle with no result.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abandonLocked()
}

func (s *Session) abandonLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	prev := s.state
	s.state = StateIdle
	s.result = nil
	s.err = nil
	if prev != StateIdle && !s.closed {
		s.emitLocked(Event{Type: EventStatus, State: StateIdle})
	}
}

// Close abandons any pending scan and closes the events channel. It is safe
// to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.abandonLocked()
	s.closed = true
	close(s.events)
}

// Snapshot returns a copy of the current state. Reading a snapshot counts
// as activity.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()

	snap := Snapshot{
		ID:        s.id,
		State:     s.state,
		URL:       s.url,
		Result:    s.result,
		StartedAt: s.startedAt,
		EndedAt:   s.endedAt,
		CanScan:   !s.closed && s.state != StateScanning,
	}
	if s.err != nil {
		snap.Error = s.err.Error()
	}
	return snap
}

// Touch records client activity without reading state.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// IdleFor reports how long the session has gone without activity as of now.
// A session with a scan in flight is never idle.
func (s *Session) IdleFor(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateScanning {
		return 0
	}
	return now.Sub(s.lastActive)
}

// Result returns the last completed result, or nil.
func (s *Session) Result() *model.ScanResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// emitLocked performs a non-blocking send; events are dropped when the
// buffer is full. Callers must hold s.mu.
func (s *Session) emitLocked(ev Event) {
	if s.closed {
		return
	}
	ev.SessionID = s.id
	select {
	case s.events <- ev:
	default:
	}
}
