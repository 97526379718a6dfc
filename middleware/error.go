// Package middleware provides the HTTP error boundary, request logging,
// and rate limiting for the relay.
package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// AppHandler is an http handler that reports failures as errors instead of
// writing them itself; the error boundary turns them into JSON envelopes.
type AppHandler func(http.ResponseWriter, *http.Request) error

// AppError carries the HTTP status and user-facing message for a failure.
type AppError struct {
	Err     error
	Message string
	Status  int
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError.
func NewAppError(status int, message string, err error) *AppError {
	return &AppError{Status: status, Message: message, Err: err}
}

// errorEnvelope is the failure shape of the public API.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.wroteHeader {
		rw.status = statusCode
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Write records the implicit 200 the first body write commits, so a handler
// that fails mid-body does not get a second envelope appended.
func (rw *responseWriter) Write(p []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(p)
}

// ErrorHandler wraps an AppHandler with the error boundary: classified
// failures become envelopes, panics become a generic 500, and nothing is
// allowed to crash the process. Underlying error details are included only
// when dev is true.
func ErrorHandler(handler AppHandler, dev bool, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error("panic recovered", "panic", recovered, "path", r.URL.Path)
				if !rw.wroteHeader {
					writeError(rw, http.StatusInternalServerError, "Internal server error", "")
				}
			}
		}()

		if err := handler(rw, r); err != nil {
			handleError(rw, r, err, dev, logger)
		}
	}
}

func handleError(w *responseWriter, r *http.Request, err error, dev bool, logger *slog.Logger) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	var appErr *AppError
	if errors.As(err, &appErr) {
		status = appErr.Status
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}

	if w.wroteHeader {
		return
	}

	details := ""
	if dev && appErr != nil && appErr.Err != nil {
		details = appErr.Err.Error()
	}
	writeError(w, status, message, details)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{ //nolint:errcheck // response already committed
		Success: false,
		Error:   message,
		Details: details,
	})
}
