package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/Benitta1729/Product-application/pkg/errors"
	"github.com/Benitta1729/Product-application/pkg/logger"
)

// Response is the JSON envelope returned by every catalog endpoint. Code is the
// HTTP status rendered as a string.
type Response struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteText writes a plain text body.
func WriteText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// WriteSuccess writes an envelope carrying data. A nil data omits the field.
func WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, Response{
		Code:    strconv.Itoa(status),
		Message: message,
		Data:    data,
	})
}

// WriteFailure writes an envelope with the given message and error list.
func WriteFailure(w http.ResponseWriter, status int, message string, errs ...string) {
	WriteJSON(w, status, Response{
		Code:    strconv.Itoa(status),
		Message: message,
		Errors:  errs,
	})
}

// WriteError renders err as a failure envelope. AppError details become the
// errors list; otherwise detail, when non-empty, is used. Internal errors are
// logged with the request-scoped logger, falling back to fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, detail string, fallback *slog.Logger) {
	status := apperrors.HTTPStatus(err)
	message := "an internal error occurred"
	var errs []string

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		errs = appErr.Details
	} else {
		switch status {
		case http.StatusNotFound:
			message = "resource not found"
		case http.StatusConflict:
			message = "resource already exists"
		case http.StatusBadRequest:
			message = err.Error()
		}
	}

	if len(errs) == 0 && detail != "" {
		errs = []string{detail}
	}

	if status >= http.StatusInternalServerError {
		l := logger.FromContext(r.Context())
		if l == slog.Default() && fallback != nil {
			l = fallback
		}
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteFailure(w, status, message, errs...)
}
