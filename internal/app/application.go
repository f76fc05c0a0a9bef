package app

import (
	"context"
	"errors"
	"time"

	"github.com/raysh454/phishguard/internal/logging"
)

// Application is the global runtime state container. It holds the
// orchestrator and logger shared by the HTTP server and the CLI.
type Application struct {
	Logger logging.Logger
	Orch   *Orchestrator

	// internal context for cancellation / lifecycle
	ctx    context.Context
	cancel context.CancelFunc
}

// NewApplication constructs an Application from already-built parts.
func NewApplication(logger logging.Logger, orch *Orchestrator) *Application {
	ctx, cancel := context.WithCancel(context.Background())
	return &Application{
		Logger: logger,
		Orch:   orch,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context is cancelled once Shutdown begins.
func (a *Application) Context() context.Context { return a.ctx }

// Shutdown closes the orchestrator, giving it at most 15s.
func (a *Application) Shutdown(ctx context.Context) error {
	if a == nil {
		return errors.New("application is nil")
	}
	if a.Logger != nil {
		a.Logger.Info("application shutdown initiated")
	}
	a.cancel()

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		if a.Orch == nil {
			done <- nil
			return
		}
		done <- a.Orch.Close()
	}()

	select {
	case err := <-done:
		if err != nil && a.Logger != nil {
			a.Logger.Warn("orchestrator close returned error", logging.Field{Key: "error", Value: err})
		}
		return err
	case <-shutdownCtx.Done():
		return shutdownCtx.Err()
	}
}
