// Package httpx holds the JSON helpers shared by the HTTP handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/diewo77/go-salesagent/internal/apperr"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// StatusFor maps an error kind to the status returned by the API.
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindNetwork, apperr.KindServer:
		return http.StatusBadGateway
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err with its translated message. Unclassified errors
// are logged since they reach the agent as a generic failure.
func WriteError(w http.ResponseWriter, err error, lang string, log *zap.Logger) {
	status := StatusFor(err)
	resp := ErrorResponse{Error: apperr.KindOf(err).String(), Message: apperr.Message(err, lang)}
	var e *apperr.Error
	if errors.As(err, &e) {
		resp.Code = e.Code
		if e.Status != 0 {
			resp.Details = map[string]any{"status": e.Status, "detail": e.Detail}
		}
	} else if log != nil {
		log.Error("unclassified error", zap.Error(err))
	}
	JSON(w, status, resp)
}
