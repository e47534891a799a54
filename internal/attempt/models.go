package attempt

import "github.com/lexprep/lexprep/internal/toeic"

// Attempt statuses.
const (
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
)

// Exam is one TOEIC paper: metadata plus its 200 question records.
type Exam struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	DurationMinutes int              `json:"duration_minutes"`
	Questions       []toeic.Question `json:"questions"`
	CreatedAt       int64            `json:"created_at,omitempty"`
}

// ExamSummary is the listing row (no question payload).
type ExamSummary struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
	QuestionCount   int    `json:"question_count"`
	CreatedAt       int64  `json:"created_at,omitempty"`
}

// Attempt is one learner's run at an exam.
type Attempt struct {
	ID           string               `json:"id"`
	ExamID       string               `json:"exam_id"`
	UserID       string               `json:"user_id"`
	Mode         toeic.Mode           `json:"mode"`
	Status       string               `json:"status"`
	StartedAt    int64                `json:"started_at"`
	SubmittedAt  int64                `json:"submitted_at,omitempty"`
	TimeSpentSec int                  `json:"time_spent_sec,omitempty"`
	Answers      []toeic.AnswerRecord `json:"answers"`
	Score        *toeic.ScoreRecord   `json:"score,omitempty"`
}

// ReviewItem is one question of a submitted attempt joined with the key,
// for the answer-review screen.
type ReviewItem struct {
	toeic.GradedAnswer
	Text        string            `json:"questionText,omitempty"`
	Options     map[string]string `json:"options,omitempty"`
	Explanation string            `json:"explanation,omitempty"`
	AudioURL    string            `json:"audioUrl,omitempty"`
	ImageURL    string            `json:"imageUrl,omitempty"`
}
