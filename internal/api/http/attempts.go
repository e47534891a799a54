package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lexprep/lexprep/internal/attempt"
	authmw "github.com/lexprep/lexprep/internal/auth/middleware"
	"github.com/lexprep/lexprep/internal/rbac"
	"github.com/lexprep/lexprep/internal/toeic"
)

// ownAttempt loads the attempt and enforces that the caller owns it, or
// holds attempt:view-all (admins). Writes the error response itself.
func ownAttempt(w http.ResponseWriter, r *http.Request, store attempt.Store) (attempt.Attempt, bool) {
	a, err := store.GetAttempt(r.Context(), chi.URLParam(r, "attemptID"))
	if err != nil {
		writeErr(w, err)
		return attempt.Attempt{}, false
	}
	sub := authmw.SubjectFromContext(r.Context())
	if a.UserID != sub && !rbac.Allowed(rbac.RoleFromContext(r.Context()), "attempt:view-all") {
		http.Error(w, "forbidden", http.StatusForbidden)
		return attempt.Attempt{}, false
	}
	return a, true
}

// POST /attempts {"exam_id": "...", "mode": "practice|real_exam"}
// Creates a new attempt or resumes the caller's open one on the same exam.
func CreateAttemptHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ExamID string     `json:"exam_id"`
			Mode   toeic.Mode `json:"mode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.ExamID == "" {
			http.Error(w, "exam_id required", http.StatusBadRequest)
			return
		}
		if req.Mode == "" {
			req.Mode = toeic.ModePractice
		}
		if !req.Mode.Valid() {
			http.Error(w, "mode must be practice or real_exam", http.StatusBadRequest)
			return
		}
		a, err := mgr.Start(r.Context(), req.ExamID, authmw.SubjectFromContext(r.Context()), req.Mode)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, a)
	}
}

func GetAttemptHandler(store attempt.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownAttempt(w, r, store)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// POST /attempts/{attemptID}/answers {"question_number": 7, "user_answer": "b"}
// The selection lands in the live session; persistence is debounced and any
// store failure stays server-side.
func SaveAnswerHandler(mgr *attempt.Manager, store attempt.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownAttempt(w, r, store)
		if !ok {
			return
		}
		var req struct {
			QuestionNumber int    `json:"question_number"`
			UserAnswer     string `json:"user_answer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := mgr.Select(a.ID, req.QuestionNumber, req.UserAnswer); err != nil {
			writeErr(w, err)
			return
		}
		sess, err := mgr.Session(a.ID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess.Progress())
	}
}

// POST /attempts/{attemptID}/submit
// The one write whose failure reaches the client: a failed final submit
// must be retryable, unlike autosaves.
func SubmitAttemptHandler(mgr *attempt.Manager, store attempt.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownAttempt(w, r, store)
		if !ok {
			return
		}
		sub, err := mgr.Submit(r.Context(), a.ID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sub)
	}
}

func ReviewHandler(mgr *attempt.Manager, store attempt.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownAttempt(w, r, store)
		if !ok {
			return
		}
		items, err := mgr.Review(r.Context(), a.ID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func ProgressHandler(mgr *attempt.Manager, store attempt.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownAttempt(w, r, store)
		if !ok {
			return
		}
		sess, err := mgr.Session(a.ID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess.Progress())
	}
}

// POST /attempts/{attemptID}/audio-plays {"part": 2, "question_number": 7}
// Applies the replay policy: unlimited in practice, one play per question
// in a real exam.
func AudioPlayHandler(mgr *attempt.Manager, store attempt.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownAttempt(w, r, store)
		if !ok {
			return
		}
		var req struct {
			Part           toeic.Part `json:"part"`
			QuestionNumber int        `json:"question_number"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if !req.Part.Valid() {
			http.Error(w, "unknown part", http.StatusBadRequest)
			return
		}
		perm, err := mgr.AudioPlay(a.ID, req.Part, req.QuestionNumber)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, perm)
	}
}

// GET /attempts returns the caller's attempt history. Ordering is left to
// the client.
func ListAttemptsHandler(store attempt.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListAttempts(r.Context(), authmw.SubjectFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		if list == nil {
			list = []attempt.Attempt{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}
