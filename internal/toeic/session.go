package toeic

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// AnswerRecord is one entry of the flattened answer list used for
// persistence and submission.
type AnswerRecord struct {
	QuestionNumber int    `json:"questionNumber"`
	Part           Part   `json:"part"`
	UserAnswer     string `json:"userAnswer"`
}

// Progress summarizes how much of the attempt is answered.
type Progress struct {
	AnsweredQuestions    int          `json:"answeredQuestions"`
	TotalQuestions       int          `json:"totalQuestions"`
	CompletionPercentage int          `json:"completionPercentage"`
	ByPart               map[Part]int `json:"byPart"`
}

var (
	ErrAlreadyInitialized = errors.New("session already initialized")
	ErrNotInitialized     = errors.New("session not initialized")
	ErrUnknownQuestion    = errors.New("unknown question number")
	ErrInvalidChoice      = errors.New("invalid choice for part")
)

// Session is the test-taking state machine for one attempt. It owns the
// grouped questions (immutable after Init), the navigation cursor, the
// answer map and the derived per-part answered counters.
//
// All operations are synchronous and guarded by a mutex so that the clock
// and autosave goroutines can interleave safely; none of them block on I/O.
// The answer map reflects the latest SelectAnswer immediately on return,
// independent of any in-flight autosave.
type Session struct {
	mu sync.Mutex

	units  map[Part][]Unit
	partOf map[int]Part // question number -> owning part

	curPart  Part
	curIndex int

	answers  map[int]string
	answered map[Part]int

	// onSelect, if set, is invoked after every accepted answer selection.
	// It must not call back into the session.
	onSelect func(AnswerRecord)

	initialized bool
	submitted   bool
}

func NewSession() *Session {
	return &Session{
		curPart:  MinPart,
		answers:  map[int]string{},
		answered: map[Part]int{},
		partOf:   map[int]Part{},
	}
}

// OnSelect installs the autosave side-channel. Call before Init.
func (s *Session) OnSelect(fn func(AnswerRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSelect = fn
}

// Init groups the questions and seeds answers from a prior partial attempt.
// Seeded entries with an invalid choice or unknown question are skipped.
// A second Init is rejected: re-running would clobber the cursor for no
// benefit.
func (s *Session) Init(questions []Question, existing []AnswerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return ErrAlreadyInitialized
	}

	s.units = GroupQuestions(questions)
	for p := MinPart; p <= MaxPart; p++ {
		for _, u := range s.units[p] {
			for _, q := range u.Questions() {
				s.partOf[q.Number] = p
			}
		}
	}

	for _, a := range existing {
		p, ok := s.partOf[a.QuestionNumber]
		choice := strings.ToUpper(a.UserAnswer)
		if !ok || !p.ValidChoice(choice) {
			continue
		}
		if _, dup := s.answers[a.QuestionNumber]; !dup {
			s.answered[p]++
		}
		s.answers[a.QuestionNumber] = choice
	}

	s.initialized = true
	return nil
}

// SelectAnswer records choice for the question, overwriting any previous
// selection (no history). Lowercase keys are normalized to uppercase.
// The owning part's counter is updated in O(1).
// The autosave hook fires after the in-memory state is updated, so the
// caller observes the new answer immediately regardless of persistence.
func (s *Session) SelectAnswer(questionNumber int, choice string) error {
	choice = strings.ToUpper(choice)
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return ErrNotInitialized
	}
	p, ok := s.partOf[questionNumber]
	if !ok {
		s.mu.Unlock()
		return ErrUnknownQuestion
	}
	if !p.ValidChoice(choice) {
		s.mu.Unlock()
		return ErrInvalidChoice
	}
	if _, dup := s.answers[questionNumber]; !dup {
		s.answered[p]++
	}
	s.answers[questionNumber] = choice
	hook := s.onSelect
	s.mu.Unlock()

	if hook != nil {
		hook(AnswerRecord{QuestionNumber: questionNumber, Part: p, UserAnswer: choice})
	}
	return nil
}

// Answer returns the current selection for a question, or "" if unanswered.
func (s *Session) Answer(questionNumber int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers[questionNumber]
}

// ClearAnswers resets the attempt's answers and counters. Navigation and
// grouping are untouched.
func (s *Session) ClearAnswers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = map[int]string{}
	s.answered = map[Part]int{}
}

/* ---------------- Navigation ---------------- */

// GoToPart moves to the given part and resets the in-part cursor.
// Out-of-range parts are ignored.
func (s *Session) GoToPart(p Part) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !p.Valid() {
		return
	}
	s.curPart = p
	s.curIndex = 0
}

func (s *Session) GoToNextPart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.curPart < MaxPart {
		s.curPart++
		s.curIndex = 0
	}
}

func (s *Session) GoToPreviousPart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.curPart > MinPart {
		s.curPart--
		s.curIndex = 0
	}
}

// GoToNext advances the in-part cursor one unit, clamped at the last unit.
// Crossing into the next part is only via GoToPart/GoToNextPart.
func (s *Session) GoToNext() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.curIndex < len(s.units[s.curPart])-1 {
		s.curIndex++
	}
}

func (s *Session) GoToPrevious() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.curIndex > 0 {
		s.curIndex--
	}
}

// Cursor returns the current part and in-part unit index.
func (s *Session) Cursor() (Part, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.curPart, s.curIndex
}

// CurrentUnit returns the unit at the cursor, or nil when the current part
// has no units (degraded data, never a panic).
func (s *Session) CurrentUnit() *Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	us := s.units[s.curPart]
	if s.curIndex < 0 || s.curIndex >= len(us) {
		return nil
	}
	u := us[s.curIndex]
	return &u
}

// PartUnitCount returns the number of navigable units in the current part.
func (s *Session) PartUnitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.units[s.curPart])
}

// PartQuestionCount returns the number of actual questions present in the
// current part (groups expanded).
func (s *Session) PartQuestionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, u := range s.units[s.curPart] {
		n += len(u.Questions())
	}
	return n
}

func (s *Session) AtStartOfPart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.curIndex == 0
}

func (s *Session) AtEndOfPart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.curIndex >= len(s.units[s.curPart])-1
}

/* ---------------- Submission & progress ---------------- */

// AnswersArray flattens the answer map for persistence or submission,
// ordered by part ascending then question number ascending. Choices are
// uppercased.
func (s *Session) AnswersArray() []AnswerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]AnswerRecord, 0, len(s.answers))
	for num, ans := range s.answers {
		out = append(out, AnswerRecord{
			QuestionNumber: num,
			Part:           s.partOf[num],
			UserAnswer:     strings.ToUpper(ans),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Part != out[j].Part {
			return out[i].Part < out[j].Part
		}
		return out[i].QuestionNumber < out[j].QuestionNumber
	})
	return out
}

// Progress reports answered totals against the fixed 200-question format.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	byPart := make(map[Part]int, int(MaxPart))
	for p := MinPart; p <= MaxPart; p++ {
		byPart[p] = s.answered[p]
		total += s.answered[p]
	}
	return Progress{
		AnsweredQuestions:    total,
		TotalQuestions:       TotalQuestions,
		CompletionPercentage: (total*100 + TotalQuestions/2) / TotalQuestions,
		ByPart:               byPart,
	}
}

// AllAnswered reports whether every one of the 200 questions has an answer.
func (s *Session) AllAnswered() bool {
	return s.Progress().AnsweredQuestions == TotalQuestions
}

// MarkSubmitted flips the submit-once guard. The first caller gets true and
// owns the submission; a manual submit racing the clock's auto-submit loses
// and must not submit again.
func (s *Session) MarkSubmitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return false
	}
	s.submitted = true
	return true
}

// ResetSubmitted rolls back the submit guard after a failed persistence of
// the final submission, so the caller can retry.
func (s *Session) ResetSubmitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitted = false
}

// Submitted reports whether the attempt has been finalized.
func (s *Session) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}
