package attempt

import (
	"context"
	"errors"

	"github.com/lexprep/lexprep/internal/toeic"
)

var (
	ErrExamNotFound     = errors.New("exam not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrAlreadySubmitted = errors.New("attempt already submitted")
)

// Store is the persistence contract for exams and attempts. GetExam serves
// the student view with answer keys and explanations stripped; GetExamFull
// is for scoring and review only.
type Store interface {
	PutExam(ctx context.Context, e Exam) error
	GetExam(ctx context.Context, id string) (Exam, error)
	GetExamFull(ctx context.Context, id string) (Exam, error)
	ListExams(ctx context.Context) ([]ExamSummary, error)

	NewAttempt(ctx context.Context, examID, userID string, mode toeic.Mode) (Attempt, error)
	GetAttempt(ctx context.Context, id string) (Attempt, error)
	// OpenAttempt finds the user's in-progress attempt on the exam, for
	// resume. Returns ErrAttemptNotFound when there is none.
	OpenAttempt(ctx context.Context, examID, userID string) (Attempt, error)

	// SaveAnswer upserts one answer: the autosave persistence contract.
	// Saving onto a submitted attempt returns ErrAlreadySubmitted.
	SaveAnswer(ctx context.Context, attemptID string, rec toeic.AnswerRecord) error

	// Submit finalizes the attempt with the full answer list, the seconds
	// spent and the computed score. Submitting an already-submitted
	// attempt is a no-op returning the stored attempt, so a manual submit
	// racing the clock's auto-submit cannot double-record.
	Submit(ctx context.Context, attemptID string, answers []toeic.AnswerRecord, timeSpentSec int, score toeic.ScoreRecord) (Attempt, error)

	ListAttempts(ctx context.Context, userID string) ([]Attempt, error)
}

// StripKeys removes scoring-only fields from an exam's questions before it
// is served to a learner with an attempt in progress.
func StripKeys(e Exam) Exam {
	qs := make([]toeic.Question, len(e.Questions))
	copy(qs, e.Questions)
	for i := range qs {
		qs[i].CorrectAnswer = ""
		qs[i].Explanation = ""
	}
	e.Questions = qs
	return e
}
