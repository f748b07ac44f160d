package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"itemhub-rest-api/pkg/apierror"
)

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// OK sends a 200 OK response.
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Created sends a 201 Created response with the created resource.
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// Message sends a 200 response with a plain message body.
func Message(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, map[string]string{"message": message})
}

// Error sends an error response. Anything that is not an *apierror.Error is
// normalized to a 500 with no internal detail leaked to the caller.
func Error(w http.ResponseWriter, err error) {
	apiErr := &apierror.Error{}
	if !errors.As(err, &apiErr) {
		apiErr = apierror.Internal("")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.StatusCode)
	_, _ = w.Write(apiErr.ToJSON())
}
