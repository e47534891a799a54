package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lexprep/lexprep/internal/attempt"
)

func ListExamsHandler(store attempt.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListExams(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GetExamHandler serves the learner view: correct answers and explanations
// are stripped before the payload leaves the server.
func GetExamHandler(store attempt.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := store.GetExam(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// ImportExamHandler ingests a full exam paper (admin only). Questions are
// validated for part membership and unique numbering before storage.
func ImportExamHandler(store attempt.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var e attempt.Exam
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if e.ID == "" || e.Title == "" {
			http.Error(w, "id and title required", http.StatusBadRequest)
			return
		}
		if e.DurationMinutes <= 0 {
			e.DurationMinutes = 120
		}
		seen := make(map[int]bool, len(e.Questions))
		for _, q := range e.Questions {
			if !q.Part.Valid() {
				http.Error(w, "question with unknown part", http.StatusBadRequest)
				return
			}
			if seen[q.Number] {
				http.Error(w, "duplicate question number", http.StatusBadRequest)
				return
			}
			seen[q.Number] = true
			if q.CorrectAnswer != "" && !q.Part.ValidChoice(q.CorrectAnswer) {
				http.Error(w, "answer key outside the part's choices", http.StatusBadRequest)
				return
			}
		}
		if err := store.PutExam(r.Context(), e); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": e.ID})
	}
}
