package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"resultboard/internal/extract"
	"resultboard/internal/grading"
	"resultboard/internal/service"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, extract.ErrUnreadableDocument), errors.Is(err, grading.ErrUnknownPolicy):
		return http.StatusBadRequest
	case errors.Is(err, extract.ErrMissingColumn):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrReportNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Println("Internal error:", err)
		http.Error(w, "Internal server error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("Error encoding response:", err)
	}
}
