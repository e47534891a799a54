package attempt

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lexprep/lexprep/internal/toeic"
)

// memoryStore keeps everything in maps; used for tests and offline demos.
type memoryStore struct {
	mu       sync.RWMutex
	exams    map[string]Exam
	attempts map[string]Attempt
}

func NewInMemoryStore() Store {
	return &memoryStore{
		exams:    map[string]Exam{},
		attempts: map[string]Attempt{},
	}
}

func (m *memoryStore) PutExam(_ context.Context, e Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exams[e.ID] = e
	return nil
}

func (m *memoryStore) GetExam(ctx context.Context, id string) (Exam, error) {
	e, err := m.GetExamFull(ctx, id)
	if err != nil {
		return Exam{}, err
	}
	return StripKeys(e), nil
}

func (m *memoryStore) GetExamFull(_ context.Context, id string) (Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exams[id]
	if !ok {
		return Exam{}, ErrExamNotFound
	}
	return e, nil
}

func (m *memoryStore) ListExams(_ context.Context) ([]ExamSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ExamSummary, 0, len(m.exams))
	for _, e := range m.exams {
		out = append(out, ExamSummary{
			ID:              e.ID,
			Title:           e.Title,
			DurationMinutes: e.DurationMinutes,
			QuestionCount:   len(e.Questions),
			CreatedAt:       e.CreatedAt,
		})
	}
	return out, nil
}

func (m *memoryStore) NewAttempt(_ context.Context, examID, userID string, mode toeic.Mode) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[examID]; !ok {
		return Attempt{}, ErrExamNotFound
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
	m.attempts[a.ID] = a
	return a, nil
}

func (m *memoryStore) GetAttempt(_ context.Context, id string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	if !ok {
		return Attempt{}, ErrAttemptNotFound
	}
	return a, nil
}

func (m *memoryStore) OpenAttempt(_ context.Context, examID, userID string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best *Attempt
	for id := range m.attempts {
		a := m.attempts[id]
		if a.ExamID != examID || a.UserID != userID || a.Status != StatusInProgress {
			continue
		}
		if best == nil || a.StartedAt > best.StartedAt {
			best = &a
		}
	}
	if best == nil {
		return Attempt{}, ErrAttemptNotFound
	}
	return *best, nil
}

func (m *memoryStore) SaveAnswer(_ context.Context, attemptID string, rec toeic.AnswerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[attemptID]
	if !ok {
		return ErrAttemptNotFound
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
	m.attempts[attemptID] = a
	return nil
}

func (m *memoryStore) Submit(_ context.Context, attemptID string, answers []toeic.AnswerRecord, timeSpentSec int, score toeic.ScoreRecord) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[attemptID]
	if !ok {
		return Attempt{}, ErrAttemptNotFound
	}
	if a.Status == StatusSubmitted {
		return a, nil
	}
	if answers == nil {
		answers = []toeic.AnswerRecord{}
	}
	a.Answers = answers
	a.TimeSpentSec = timeSpentSec
	a.Score = &score
	a.Status = StatusSubmitted
	a.SubmittedAt = time.Now().Unix()
	m.attempts[attemptID] = a
	return a, nil
}

func (m *memoryStore) ListAttempts(_ context.Context, userID string) ([]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Attempt
	for _, a := range m.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}
