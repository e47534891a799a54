package attempt

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lexprep/lexprep/internal/toeic"
)

// SQLStore persists exams and attempts through database/sql; works against
// both the sqlite and pgx drivers.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutExam(ctx context.Context, e Exam) error {
	qj, err := json.Marshal(e.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO exams (id,title,duration_min,questions_json,created_at)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title,
		   duration_min=EXCLUDED.duration_min, questions_json=EXCLUDED.questions_json`,
		e.ID, e.Title, e.DurationMinutes, string(qj), time.Now().Unix())
	return err
}

func (s *SQLStore) GetExam(ctx context.Context, id string) (Exam, error) {
	e, err := s.GetExamFull(ctx, id)
	if err != nil {
		return Exam{}, err
	}
	return StripKeys(e), nil
}

func (s *SQLStore) GetExamFull(ctx context.Context, id string) (Exam, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,duration_min,questions_json,created_at FROM exams WHERE id=$1`, id)
	var e Exam
	var qjson string
	if err := row.Scan(&e.ID, &e.Title, &e.DurationMinutes, &qjson, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Exam{}, ErrExamNotFound
		}
		return Exam{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &e.Questions); err != nil {
		return Exam{}, err
	}
	return e, nil
}

func (s *SQLStore) ListExams(ctx context.Context) ([]ExamSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,title,duration_min,questions_json,created_at FROM exams ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExamSummary
	for rows.Next() {
		var sum ExamSummary
		var qjson string
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.DurationMinutes, &qjson, &sum.CreatedAt); err != nil {
			return nil, err
		}
		var qs []toeic.Question
		if err := json.Unmarshal([]byte(qjson), &qs); err == nil {
			sum.QuestionCount = len(qs)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLStore) NewAttempt(ctx context.Context, examID, userID string, mode toeic.Mode) (Attempt, error) {
	var exist int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM exams WHERE id=$1`, examID).Scan(&exist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrExamNotFound
		}
		return Attempt{}, err
	}
	if !mode.Valid() {
		mode = toeic.ModePractice
	}
	a := Attempt{
		ID:        uuid.NewString(),
		ExamID:    examID,
		UserID:    userID,
		Mode:      mode,
		Status:    StatusInProgress,
		StartedAt: time.Now().Unix(),
		Answers:   []toeic.AnswerRecord{},
	}
	aj, _ := json.Marshal(a.Answers)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (id,exam_id,user_id,mode,status,answers_json,started_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.ExamID, a.UserID, string(a.Mode), a.Status, string(aj), a.StartedAt)
	if err != nil {
		return Attempt{}, err
	}
	return a, nil
}

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,exam_id,user_id,mode,status,answers_json,score_json,started_at,submitted_at,time_spent_sec
		 FROM attempts WHERE id=$1`, id)
	return scanAttempt(row)
}

func (s *SQLStore) OpenAttempt(ctx context.Context, examID, userID string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,exam_id,user_id,mode,status,answers_json,score_json,started_at,submitted_at,time_spent_sec
		 FROM attempts WHERE exam_id=$1 AND user_id=$2 AND status=$3
		 ORDER BY started_at DESC LIMIT 1`,
		examID, userID, StatusInProgress)
	return scanAttempt(row)
}

type rowScanner interface{ Scan(dest ...any) error }

func scanAttempt(row rowScanner) (Attempt, error) {
	var a Attempt
	var mode, ajson string
	var sjson sql.NullString
	var submittedAt, timeSpent sql.NullInt64
	err := row.Scan(&a.ID, &a.ExamID, &a.UserID, &mode, &a.Status,
		&ajson, &sjson, &a.StartedAt, &submittedAt, &timeSpent)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrAttemptNotFound
		}
		return Attempt{}, err
	}
	a.Mode = toeic.Mode(mode)
	if err := json.Unmarshal([]byte(ajson), &a.Answers); err != nil {
		a.Answers = []toeic.AnswerRecord{}
	}
	if sjson.Valid && sjson.String != "" {
		var sc toeic.ScoreRecord
		if err := json.Unmarshal([]byte(sjson.String), &sc); err == nil {
			a.Score = &sc
		}
	}
	a.SubmittedAt = submittedAt.Int64
	a.TimeSpentSec = int(timeSpent.Int64)
	return a, nil
}

// SaveAnswer merges one answer into the attempt's stored list, replacing
// any earlier entry for the same question.
func (s *SQLStore) SaveAnswer(ctx context.Context, attemptID string, rec toeic.AnswerRecord) error {
	a, err := s.GetAttempt(ctx, attemptID)
	if err != nil {
		return err
	}
	if a.Status == StatusSubmitted {
		return ErrAlreadySubmitted
	}
	replaced := false
	for i := range a.Answers {
		if a.Answers[i].QuestionNumber == rec.QuestionNumber {
			a.Answers[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		a.Answers = append(a.Answers, rec)
	}
	buf, _ := json.Marshal(a.Answers)
	_, err = s.db.ExecContext(ctx,
		`UPDATE attempts SET answers_json=$1 WHERE id=$2`, string(buf), attemptID)
	return err
}

func (s *SQLStore) Submit(ctx context.Context, attemptID string, answers []toeic.AnswerRecord, timeSpentSec int, score toeic.ScoreRecord) (Attempt, error) {
	a, err := s.GetAttempt(ctx, attemptID)
	if err != nil {
		return Attempt{}, err
	}
	if a.Status == StatusSubmitted {
		return a, nil
	}
	if answers == nil {
		answers = []toeic.AnswerRecord{}
	}
	aj, _ := json.Marshal(answers)
	sj, _ := json.Marshal(score)
	_, err = s.db.ExecContext(ctx,
		`UPDATE attempts SET status=$1, answers_json=$2, score_json=$3,
		   time_spent_sec=$4, submitted_at=$5 WHERE id=$6`,
		StatusSubmitted, string(aj), string(sj), timeSpentSec, time.Now().Unix(), attemptID)
	if err != nil {
		return Attempt{}, err
	}
	return s.GetAttempt(ctx, attemptID)
}

func (s *SQLStore) ListAttempts(ctx context.Context, userID string) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,exam_id,user_id,mode,status,answers_json,score_json,started_at,submitted_at,time_spent_sec
		 FROM attempts WHERE user_id=$1 ORDER BY started_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
