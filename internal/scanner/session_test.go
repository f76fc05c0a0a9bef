package scanner_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/phishguard/internal/assessor"
	"github.com/raysh454/phishguard/internal/model"
	"github.com/raysh454/phishguard/internal/scanner"
	"github.com/raysh454/phishguard/internal/testutil"
)

func newSession(t *testing.T, a assessor.Assessor, onDone scanner.CompletionFunc) *scanner.Session {
	t.Helper()
	s := scanner.NewSession("s-1", a, scanner.DefaultConfig(), &testutil.DummyLogger{}, onDone)
	t.Cleanup(s.Close)
	return s
}

func waitEvent(t *testing.T, s *scanner.Session, typ scanner.EventType) scanner.Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-s.Events():
			require.True(t, ok, "events channel closed while waiting for %s", typ)
			if ev.Type == typ {
				return ev
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s event", typ)
		}
	}
}

func TestSession_StartsIdle(t *testing.T) {
	s := newSession(t, &testutil.DummyAssessor{}, nil)
	snap := s.Snapshot()
	assert.Equal(t, scanner.StateIdle, snap.State)
	assert.True(t, snap.CanScan)
	assert.Nil(t, snap.Result)
}

func TestSession_TriggerDisabledWhileScanning(t *testing.T) {
	gate := make(chan struct{})
	a := &testutil.DummyAssessor{Gate: gate}
	s := newSession(t, a, nil)

	require.NoError(t, s.Start(context.Background(), "https://bank.example", ""))
	snap := s.Snapshot()
	assert.Equal(t, scanner.StateScanning, snap.State)
	assert.False(t, snap.CanScan)

	err := s.Start(context.Background(), "https://other.example", "")
	assert.ErrorIs(t, err, scanner.ErrScanInFlight)

	close(gate)
	ev := waitEvent(t, s, scanner.EventResult)
	require.NotNil(t, ev.Result)
	assert.Equal(t, "https://bank.example", ev.Result.URL)
	assert.Equal(t, "s-1", ev.SessionID)

	snap = s.Snapshot()
	assert.Equal(t, scanner.StateDone, snap.State)
	assert.True(t, snap.CanScan)
	assert.Equal(t, 1, a.CallCount(), "the rejected start must not reach the assessor")
}

func TestSession_AdmissionSkippedWhileInFlight(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	s := newSession(t, &testutil.DummyAssessor{Gate: gate}, nil)
	require.NoError(t, s.Start(context.Background(), "https://bank.example", ""))

	admitted := 0
	err := s.StartAdmitted(context.Background(), "https://other.example", "", func() error {
		admitted++
		return nil
	})
	assert.ErrorIs(t, err, scanner.ErrScanInFlight)
	assert.Zero(t, admitted, "admission must not run for a rejected start")
}

func TestSession_AdmissionErrorLeavesSessionIdle(t *testing.T) {
	a := &testutil.DummyAssessor{}
	s := newSession(t, a, nil)
	errDenied := errors.New("denied")

	err := s.StartAdmitted(context.Background(), "https://bank.example", "", func() error { return errDenied })
	require.ErrorIs(t, err, errDenied)

	snap := s.Snapshot()
	assert.Equal(t, scanner.StateIdle, snap.State)
	assert.True(t, snap.CanScan)
	assert.Zero(t, a.CallCount())
}

func TestSession_IdleFor(t *testing.T) {
	gate := make(chan struct{})
	s := newSession(t, &testutil.DummyAssessor{Gate: gate}, nil)

	assert.GreaterOrEqual(t, s.IdleFor(time.Now().Add(time.Hour)), 59*time.Minute)

	require.NoError(t, s.Start(context.Background(), "https://bank.example", ""))
	assert.Zero(t, s.IdleFor(time.Now().Add(time.Hour)), "a scanning session is never idle")

	close(gate)
	waitEvent(t, s, scanner.EventResult)

	s.Touch()
	assert.Less(t, s.IdleFor(time.Now()), time.Minute)
}

func TestSession_RescanReplacesResult(t *testing.T) {
	s := newSession(t, &testutil.DummyAssessor{}, nil)

	require.NoError(t, s.Start(context.Background(), "first.example", ""))
	waitEvent(t, s, scanner.EventResult)
	require.NoError(t, s.Start(context.Background(), "second.example", ""))
	assert.Nil(t, s.Snapshot().Result, "a new scan clears the previous result")
	waitEvent(t, s, scanner.EventResult)

	assert.Equal(t, "second.example", s.Result().URL)
}

func TestSession_EmptyURLRejected(t *testing.T) {
	a := &testutil.DummyAssessor{}
	s := newSession(t, a, nil)

	err := s.Start(context.Background(), "  ", "content")
	assert.ErrorIs(t, err, assessor.ErrInvalidInput)
	assert.Equal(t, scanner.StateIdle, s.Snapshot().State)
	assert.Zero(t, a.CallCount())
}

func TestSession_AbandonDropsCompletion(t *testing.T) {
	gate := make(chan struct{})
	var mu sync.Mutex
	completed := 0
	s := newSession(t, &testutil.DummyAssessor{Gate: gate}, func(string, *model.ScanResult) {
		mu.Lock()
		completed++
		mu.Unlock()
	})

	require.NoError(t, s.Start(context.Background(), "https://bank.example", ""))
	s.Abandon()
	close(gate)

	assert.Never(t, func() bool { return s.Result() != nil }, 100*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, scanner.StateIdle, s.Snapshot().State)
	mu.Lock()
	assert.Zero(t, completed)
	mu.Unlock()
}

// stubbornAssessor ignores cancellation, like a backend that cannot be aborted.
type stubbornAssessor struct {
	gates map[string]chan struct{}
}

func (a *stubbornAssessor) Assess(_ context.Context, url, _ string) (*model.ScanResult, error) {
	<-a.gates[url]
	return &model.ScanResult{URL: url, RiskLevel: model.RiskLow}, nil
}

func (a *stubbornAssessor) Close() error { return nil }

func TestSession_StaleCompletionDoesNotOverwriteNewScan(t *testing.T) {
	a := &stubbornAssessor{gates: map[string]chan struct{}{
		"old.example": make(chan struct{}),
		"new.example": make(chan struct{}),
	}}
	s := newSession(t, a, nil)

	require.NoError(t, s.Start(context.Background(), "old.example", ""))
	s.Abandon()
	require.NoError(t, s.Start(context.Background(), "new.example", ""))

	close(a.gates["old.example"])
	assert.Never(t, func() bool { return s.Result() != nil }, 50*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, scanner.StateScanning, s.Snapshot().State)

	close(a.gates["new.example"])
	ev := waitEvent(t, s, scanner.EventResult)
	assert.Equal(t, "new.example", ev.Result.URL)
}

func TestSession_CloseWhileScanningIsSafe(t *testing.T) {
	a := &stubbornAssessor{gates: map[string]chan struct{}{"x.example": make(chan struct{})}}
	s := scanner.NewSession("s-2", a, scanner.DefaultConfig(), &testutil.DummyLogger{}, func(string, *model.ScanResult) {
		t.Error("completion must not fire after close")
	})

	require.NoError(t, s.Start(context.Background(), "x.example", ""))
	s.Close()
	s.Close()

	assert.NotPanics(t, func() { close(a.gates["x.example"]) })
	time.Sleep(20 * time.Millisecond)

	err := s.Start(context.Background(), "x.example", "")
	assert.ErrorIs(t, err, scanner.ErrSessionClosed)
	assert.False(t, s.Snapshot().CanScan)

	for range s.Events() {
	}
}

func TestSession_AssessorErrorReturnsToIdle(t *testing.T) {
	s := newSession(t, &testutil.DummyAssessor{Err: assessor.ErrServiceUnavailable}, nil)

	require.NoError(t, s.Start(context.Background(), "bank.example", ""))
	ev := waitEvent(t, s, scanner.EventError)
	assert.Equal(t, scanner.StateIdle, ev.State)

	snap := s.Snapshot()
	assert.Equal(t, scanner.StateIdle, snap.State)
	assert.True(t, snap.CanScan)
	assert.Contains(t, snap.Error, "unavailable")
	assert.Nil(t, snap.Result)
}

func TestSession_TimeoutSurfacesAsError(t *testing.T) {
	cfg := assessor.DefaultConfig()
	cfg.Delay = time.Hour
	ka, err := assessor.NewKeywordAssessor(cfg, &testutil.DummyLogger{})
	require.NoError(t, err)

	s := scanner.NewSession("s-3", ka, scanner.Config{Timeout: 10 * time.Millisecond}, &testutil.DummyLogger{}, nil)
	t.Cleanup(s.Close)

	require.NoError(t, s.Start(context.Background(), "bank.example", ""))
	ev := waitEvent(t, s, scanner.EventError)
	assert.Contains(t, ev.Error, assessor.ErrTimeout.Error())
}

func TestSession_CompletionCallbackReceivesResult(t *testing.T) {
	done := make(chan *model.ScanResult, 1)
	s := newSession(t, &testutil.DummyAssessor{}, func(id string, r *model.ScanResult) {
		assert.Equal(t, "s-1", id)
		done <- r
	})

	require.NoError(t, s.Start(context.Background(), "paypal.example", ""))
	select {
	case r := <-done:
		assert.Equal(t, "paypal.example", r.URL)
	case <-time.After(2 * time.Second):
		t.Fatal("completion callback not called")
	}
}

func TestSession_RequestContextCancelDoesNotAbortScan(t *testing.T) {
	s := newSession(t, &testutil.DummyAssessor{Delay: 10 * time.Millisecond}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx, "bank.example", ""))
	cancel()

	ev := waitEvent(t, s, scanner.EventResult)
	assert.NotNil(t, ev.Result)
}
