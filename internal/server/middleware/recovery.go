package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse is the JSON error envelope returned by all error
// paths, including panics.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the error code, message, and correlation ID.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Recovery converts handler panics into a JSON 500 response. The
// panic value and stack are logged; the response carries only a
// generic message plus the correlation ID.
func Recovery(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				requestID := GetRequestID(r.Context())
				log.Error("handler panic",
					zap.Any("panic", rec),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("request_id", requestID),
					zap.Stack("stack"))

				WriteErrorResponse(w, http.StatusInternalServerError, ErrorBody{
					Code:      "INTERNAL_ERROR",
					Message:   fmt.Sprintf("panic: %v", rec),
					RequestID: requestID,
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// WriteErrorResponse renders the JSON error envelope with the given
// status code.
func WriteErrorResponse(w http.ResponseWriter, status int, body ErrorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: body})
}
