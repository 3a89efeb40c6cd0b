// Package handlers implements the REST endpoints.
package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/lakefront/bucketview/internal/server/middleware"
	"github.com/lakefront/bucketview/pkg/objects"
	"github.com/lakefront/bucketview/pkg/store"
)

// respondError maps a service error to an HTTP status and renders the
// JSON error envelope.
//
// Mapping: not found 404, access denied 403, invalid credentials 401,
// throttled 429, backend unavailable 502, partial delete failure 500
// with the aggregated message, anything else 500.
func respondError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	message := err.Error()

	var failed *objects.DeleteFailedError
	switch {
	case store.IsNotFound(err), store.IsBucketNotFound(err):
		status = http.StatusNotFound
		code = "NOT_FOUND"
	case store.IsAccessDenied(err):
		status = http.StatusForbidden
		code = "ACCESS_DENIED"
	case store.IsInvalidCredentials(err):
		status = http.StatusUnauthorized
		code = "INVALID_CREDENTIALS"
	case store.IsThrottled(err):
		status = http.StatusTooManyRequests
		code = "THROTTLED"
	case store.IsUnavailable(err):
		status = http.StatusBadGateway
		code = "UNAVAILABLE"
	case errors.As(err, &failed):
		code = "DELETE_FAILED"
	}

	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}

	middleware.WriteErrorResponse(w, status, middleware.ErrorBody{
		Code:      code,
		Message:   message,
		RequestID: middleware.GetRequestID(r.Context()),
	})
}

// respondValidationError renders a 400 for a malformed or incomplete
// request body.
func respondValidationError(w http.ResponseWriter, r *http.Request, message string) {
	middleware.WriteErrorResponse(w, http.StatusBadRequest, middleware.ErrorBody{
		Code:      "VALIDATION_ERROR",
		Message:   message,
		RequestID: middleware.GetRequestID(r.Context()),
	})
}
