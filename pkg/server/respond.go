package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/arbor/pkg/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps error codes to HTTP statuses. Unknown codes are 500.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeValidation,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeDocumentNotFound:
		return http.StatusNotFound
	case errors.ErrCodeProtectedNode:
		return http.StatusConflict
	case errors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)

	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}
