package attempt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lexprep/lexprep/internal/eventlog"
	"github.com/lexprep/lexprep/internal/toeic"
)

var ErrNotSubmitted = errors.New("attempt not submitted")

// liveAttempt bundles the in-memory machinery for one in-progress attempt.
type liveAttempt struct {
	attemptID string
	examID    string
	userID    string
	mode      toeic.Mode
	startedAt time.Time
	duration  int // minutes

	session *toeic.Session
	clock   *toeic.Clock
	saver   *toeic.Autosaver
	plays   *toeic.PlayLog
}

// Manager owns the live state of in-progress attempts: one session, clock,
// autosaver and play log per attempt. Persistence goes through the Store;
// the session stays authoritative until submit.
type Manager struct {
	store    Store
	events   *eventlog.Repo // optional
	log      *zap.Logger
	debounce time.Duration

	mu   sync.Mutex
	live map[string]*liveAttempt
}

func NewManager(store Store, events *eventlog.Repo, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		store:    store,
		events:   events,
		log:      log,
		debounce: toeic.DefaultDebounce,
		live:     make(map[string]*liveAttempt),
	}
}

// SetDebounce overrides the autosave window; tests use short values.
func (m *Manager) SetDebounce(d time.Duration) { m.debounce = d }

// Start creates a new attempt on the exam, or resumes the user's open one:
// answers are re-seeded into a fresh session and the countdown continues
// from the original start time. A resumed attempt whose time has already
// run out is auto-submitted immediately.
func (m *Manager) Start(ctx context.Context, examID, userID string, mode toeic.Mode) (Attempt, error) {
	a, err := m.store.OpenAttempt(ctx, examID, userID)
	if errors.Is(err, ErrAttemptNotFound) {
		a, err = m.store.NewAttempt(ctx, examID, userID, mode)
		if err == nil && m.events != nil {
			data, _ := json.Marshal(map[string]string{"exam_id": examID, "user_id": userID})
			if lerr := m.events.Append(ctx, eventlog.TypeAttemptStarted, a.ID, string(data)); lerr != nil {
				m.log.Warn("event log append failed", zap.Error(lerr))
			}
		}
	}
	if err != nil {
		return Attempt{}, err
	}

	m.mu.Lock()
	if _, ok := m.live[a.ID]; ok {
		m.mu.Unlock()
		return a, nil // already live (e.g. page reload)
	}
	m.mu.Unlock()

	exam, err := m.store.GetExamFull(ctx, a.ExamID)
	if err != nil {
		return Attempt{}, err
	}

	la := &liveAttempt{
		attemptID: a.ID,
		examID:    a.ExamID,
		userID:    a.UserID,
		mode:      a.Mode,
		startedAt: time.Unix(a.StartedAt, 0),
		duration:  exam.DurationMinutes,
		session:   toeic.NewSession(),
		plays:     toeic.NewPlayLog(),
	}

	la.saver = toeic.NewAutosaver(saverFor(m.store, a.ID), m.debounce, m.log)
	la.session.OnSelect(func(rec toeic.AnswerRecord) { la.saver.Schedule(rec) })
	if err := la.session.Init(exam.Questions, a.Answers); err != nil {
		return Attempt{}, err
	}

	remaining := toeic.RemainingSeconds(exam.DurationMinutes, la.startedAt, time.Now())
	la.clock = toeic.NewClock(remaining, func() {
		m.log.Info("attempt clock expired, auto-submitting",
			zap.String("attempt_id", la.attemptID))
		if _, err := m.Submit(context.Background(), la.attemptID); err != nil {
			m.log.Error("auto-submit failed", zap.String("attempt_id", la.attemptID), zap.Error(err))
		}
	})

	m.mu.Lock()
	if _, ok := m.live[a.ID]; ok {
		// A concurrent Start won the insert; keep its live state and
		// discard ours before any timer runs.
		m.mu.Unlock()
		la.clock.Stop()
		la.saver.Close()
		return a, nil
	}
	m.live[a.ID] = la
	m.mu.Unlock()

	la.clock.Start()
	return a, nil
}

func saverFor(store Store, attemptID string) toeic.Saver {
	return toeic.SaverFunc(func(ctx context.Context, rec toeic.AnswerRecord) error {
		return store.SaveAnswer(ctx, attemptID, rec)
	})
}

func (m *Manager) get(attemptID string) (*liveAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	la, ok := m.live[attemptID]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	return la, nil
}

// Select records an answer in the live session; persistence happens on the
// debounced side-channel and any store failure is invisible here.
func (m *Manager) Select(attemptID string, questionNumber int, choice string) error {
	la, err := m.get(attemptID)
	if err != nil {
		return err
	}
	if la.session.Submitted() {
		return ErrAlreadySubmitted
	}
	return la.session.SelectAnswer(questionNumber, choice)
}

// Session exposes the live state machine for navigation and progress reads.
func (m *Manager) Session(attemptID string) (*toeic.Session, error) {
	la, err := m.get(attemptID)
	if err != nil {
		return nil, err
	}
	return la.session, nil
}

// ClockState returns the countdown value and its warning classification.
func (m *Manager) ClockState(attemptID string) (int, toeic.TimeWarning, error) {
	la, err := m.get(attemptID)
	if err != nil {
		return 0, toeic.TimeWarning{}, err
	}
	r := la.clock.Remaining()
	return r, toeic.WarningForRemaining(r), nil
}

// AudioPlay applies the replay policy and records the play when allowed.
func (m *Manager) AudioPlay(attemptID string, part toeic.Part, questionNumber int) (toeic.PlayPermission, error) {
	la, err := m.get(attemptID)
	if err != nil {
		return toeic.PlayPermission{}, err
	}
	return la.plays.Record(la.mode, part, questionNumber), nil
}

// Submit finalizes the attempt: grades the session's answers, persists the
// result and releases the live machinery. The session's submit-once guard
// makes the manual submit and the clock's auto-submit race safe; the loser
// gets the stored attempt back. Store failure is the one persistence error
// that must reach the caller; it is propagated and the guard rolled back so
// a retry can succeed.
func (m *Manager) Submit(ctx context.Context, attemptID string) (Attempt, error) {
	la, err := m.get(attemptID)
	if err != nil {
		// Not live anymore: return the stored attempt if it exists.
		return m.store.GetAttempt(ctx, attemptID)
	}
	if !la.session.MarkSubmitted() {
		return m.store.GetAttempt(ctx, attemptID)
	}

	la.clock.Stop()
	la.saver.Close() // final answer list supersedes pending autosaves

	exam, err := m.store.GetExamFull(ctx, la.examID)
	if err != nil {
		la.session.ResetSubmitted()
		return Attempt{}, err
	}
	answers := la.session.AnswersArray()
	graded := toeic.GradeAnswers(exam.Questions, answers)
	score := toeic.CalculateScores(graded)

	timeSpent := int(time.Since(la.startedAt).Seconds())
	if limit := la.duration * 60; timeSpent > limit {
		timeSpent = limit
	}

	a, err := m.store.Submit(ctx, attemptID, answers, timeSpent, score)
	if err != nil {
		la.session.ResetSubmitted()
		return Attempt{}, fmt.Errorf("submit attempt %s: %w", attemptID, err)
	}

	if m.events != nil {
		data, _ := json.Marshal(map[string]any{"total": score.Total, "time_spent_sec": timeSpent})
		if lerr := m.events.Append(ctx, eventlog.TypeAttemptSubmitted, attemptID, string(data)); lerr != nil {
			m.log.Warn("event log append failed", zap.Error(lerr))
		}
	}

	m.mu.Lock()
	delete(m.live, attemptID)
	m.mu.Unlock()

	m.log.Info("attempt submitted",
		zap.String("attempt_id", attemptID),
		zap.Int("total", score.Total),
		zap.Int("answered", len(answers)))
	return a, nil
}

// Review joins a submitted attempt's answers against the full question key.
func (m *Manager) Review(ctx context.Context, attemptID string) ([]ReviewItem, error) {
	a, err := m.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusSubmitted {
		return nil, ErrNotSubmitted
	}
	exam, err := m.store.GetExamFull(ctx, a.ExamID)
	if err != nil {
		return nil, err
	}

	byNumber := make(map[int]toeic.Question, len(exam.Questions))
	for _, q := range exam.Questions {
		byNumber[q.Number] = q
	}
	graded := toeic.GradeAnswers(exam.Questions, a.Answers)

	items := make([]ReviewItem, 0, len(graded))
	for _, g := range graded {
		q := byNumber[g.QuestionNumber]
		items = append(items, ReviewItem{
			GradedAnswer: g,
			Text:         q.Text,
			Options:      q.Options,
			Explanation:  q.Explanation,
			AudioURL:     q.AudioURL,
			ImageURL:     q.ImageURL,
		})
	}
	return items, nil
}

// Release drops an attempt's live state without submitting (e.g. on
// server shutdown). Timers are cancelled; stored answers survive through
// the autosaver flush.
func (m *Manager) Release(attemptID string) {
	m.mu.Lock()
	la, ok := m.live[attemptID]
	if ok {
		delete(m.live, attemptID)
	}
	m.mu.Unlock()
	if !ok {
		return
	}
	la.clock.Stop()
	la.saver.Flush()
}

// Shutdown releases every live attempt.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.live))
	for id := range m.live {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	for _, id := range ids {
		m.Release(id)
	}
}
