package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lexprep/lexprep/internal/attempt"
	"github.com/lexprep/lexprep/internal/toeic"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errStatus maps store and session errors onto HTTP statuses. Anything
// unrecognized is a 500.
func errStatus(err error) int {
	switch {
	case errors.Is(err, attempt.ErrExamNotFound),
		errors.Is(err, attempt.ErrAttemptNotFound):
		return http.StatusNotFound
	case errors.Is(err, attempt.ErrAlreadySubmitted),
		errors.Is(err, attempt.ErrNotSubmitted):
		return http.StatusConflict
	case errors.Is(err, toeic.ErrUnknownQuestion),
		errors.Is(err, toeic.ErrInvalidChoice):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeErr(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), errStatus(err))
}
