package apierror

import (
	"encoding/json"
	"net/http"
)

// Error represents a structured API error response.
type Error struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// ToJSON converts the error to JSON bytes. Validation errors serialize as a
// per-field mapping ({"errors": {...}}), everything else as a flat message
// ({"error": "..."}).
func (e *Error) ToJSON() []byte {
	var response map[string]interface{}
	if len(e.Fields) > 0 {
		response = map[string]interface{}{"errors": e.Fields}
	} else {
		response = map[string]interface{}{"error": e.Message}
	}

	data, _ := json.Marshal(response)
	return data
}

// Validation creates a 400 error carrying per-field validation messages.
func Validation(fields map[string][]string) *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Message:    "validation failed",
		Fields:     fields,
	}
}

// BadRequest creates a 400 Bad Request error.
func BadRequest(message string) *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Message:    message,
	}
}

// NotFound creates a 404 Not Found error.
func NotFound(message string) *Error {
	if message == "" {
		message = "Resource not found"
	}
	return &Error{
		StatusCode: http.StatusNotFound,
		Message:    message,
	}
}

// Internal creates a 500 Internal Server Error.
func Internal(message string) *Error {
	if message == "" {
		message = "Internal server error"
	}
	return &Error{
		StatusCode: http.StatusInternalServerError,
		Message:    message,
	}
}
