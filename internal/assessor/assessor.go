package assessor

import (
	"context"
	"errors"

	"github.com/raysh454/phishguard/internal/model"
)

var (
	// ErrInvalidInput is returned when the URL is empty. Nothing is scored.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout is returned when the assessment deadline passes first.
	ErrTimeout = errors.New("assessment timed out")

	// ErrServiceUnavailable is returned once the assessor has been closed.
	ErrServiceUnavailable = errors.New("assessor unavailable")
)

// Assessor is the contract between scan sessions and a scoring backend.
// Implementations do not fetch the URL; they score the given strings only.
// A production classifier replacing the keyword assessor must return the
// same ScanResult shape and honour ctx cancellation.
type Assessor interface {
	// Assess scores url and optional content. It returns exactly one result
	// or an error, never a partial result.
	Assess(ctx context.Context, url, content string) (*model.ScanResult, error)

	// Close releases any resources held by the assessor.
	Close() error
}
