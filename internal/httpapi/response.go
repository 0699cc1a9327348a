package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	domainerrors "github.com/FirstPrinciplesDevelopment/kanban/internal/errors"
)

// Envelope provides a consistent JSON response structure.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, env Envelope, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *Server) ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data}, s.logger)
}

func (s *Server) created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Envelope{Success: true, Data: data}, s.logger)
}

// fail writes err with the status of its domain code. Errors without a code
// are logged and reported as a generic 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		status := domainErr.HTTPStatus()
		if status >= http.StatusInternalServerError {
			s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		}
		writeJSON(w, status, Envelope{Error: &ErrorBody{
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Details: domainErr.Details,
		}}, s.logger)
		return
	}

	s.logger.Error("unhandled error", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, Envelope{Error: &ErrorBody{
		Code:    string(domainerrors.CodeInternal),
		Message: "internal server error",
	}}, s.logger)
}

// decode reads a JSON body into dst, rejecting unknown fields.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domainerrors.Validationf("invalid request body: %v", err)
	}
	return nil
}
