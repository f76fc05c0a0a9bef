package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/raysh454/phishguard/internal/app"
	"github.com/raysh454/phishguard/internal/assessor"
	"github.com/raysh454/phishguard/internal/history"
	"github.com/raysh454/phishguard/internal/model"
	"github.com/raysh454/phishguard/internal/report"
	"github.com/raysh454/phishguard/internal/scanner"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, assessor.ErrInvalidInput),
		errors.Is(err, model.ErrUnknownRiskFilter),
		errors.Is(err, report.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, app.ErrSessionNotFound),
		errors.Is(err, history.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, scanner.ErrScanInFlight),
		errors.Is(err, app.ErrNoResult):
		return http.StatusConflict
	case errors.Is(err, app.ErrRateLimited),
		errors.Is(err, app.ErrTooManySessions):
		return http.StatusTooManyRequests
	case errors.Is(err, assessor.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, assessor.ErrServiceUnavailable),
		errors.Is(err, scanner.ErrSessionClosed),
		errors.Is(err, app.ErrClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
