package output

import (
	"encoding/json"
	"io"

	domainerrors "github.com/FirstPrinciplesDevelopment/kanban/internal/errors"
)

// ErrorCode represents a machine-readable error classification.
type ErrorCode string

// Error code constants.
const (
	ErrGeneral        ErrorCode = "GENERAL_ERROR"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrValidation     ErrorCode = "VALIDATION_ERROR"
	ErrConflict       ErrorCode = "CONFLICT"
	ErrInvalidScope   ErrorCode = "INVALID_SCOPE"
	ErrPartialReorder ErrorCode = "PARTIAL_REORDER"
)

// Exit code constants.
const (
	ExitSuccess    = 0
	ExitGeneral    = 1
	ExitNotFound   = 2
	ExitValidation = 3
	ExitConflict   = 4
	ExitPartial    = 5
)

// ExitCodeForError maps an ErrorCode to its corresponding exit code.
func ExitCodeForError(code ErrorCode) int {
	switch code {
	case ErrNotFound:
		return ExitNotFound
	case ErrValidation, ErrInvalidScope:
		return ExitValidation
	case ErrConflict:
		return ExitConflict
	case ErrPartialReorder:
		return ExitPartial
	default:
		return ExitGeneral
	}
}

// Classify returns the ErrorCode for a domain error. Errors without a domain
// code are ErrGeneral.
func Classify(err error) ErrorCode {
	switch domainerrors.CodeOf(err) {
	case domainerrors.CodeNotFound:
		return ErrNotFound
	case domainerrors.CodeValidation:
		return ErrValidation
	case domainerrors.CodeConflict:
		return ErrConflict
	case domainerrors.CodeInvalidScope:
		return ErrInvalidScope
	case domainerrors.CodePartialReorder:
		return ErrPartialReorder
	default:
		return ErrGeneral
	}
}

// errorDetails returns the structured details of a domain error, if any.
func errorDetails(err error) any {
	var de *domainerrors.Error
	if domainerrors.As(err, &de) {
		return de.Details
	}
	return nil
}

// successEnvelope is the JSON structure for successful responses.
type successEnvelope struct {
	OK      bool   `json:"ok"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// errorEnvelope is the JSON structure for error responses.
type errorEnvelope struct {
	OK      bool      `json:"ok"`
	Error   string    `json:"error"`
	Code    ErrorCode `json:"code"`
	Details any       `json:"details,omitempty"`
}

// writeJSONSuccess writes a success envelope to w.
func writeJSONSuccess(w io.Writer, data any, message string) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(successEnvelope{
		OK:      true,
		Data:    data,
		Message: message,
	})
}

// writeJSONError writes an error envelope to w.
func writeJSONError(w io.Writer, err error, code ErrorCode) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(errorEnvelope{
		OK:      false,
		Error:   err.Error(),
		Code:    code,
		Details: errorDetails(err),
	})
}
