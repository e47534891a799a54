package toeic

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingSaver struct {
	mu    sync.Mutex
	saved []AnswerRecord
	err   error
}

func (r *recordingSaver) SaveAnswer(_ context.Context, rec AnswerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, rec)
	return nil
}

func (r *recordingSaver) all() []AnswerRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]AnswerRecord, len(r.saved))
	copy(out, r.saved)
	return out
}

func TestAutosaver_SameQuestionDebouncesToLastWrite(t *testing.T) {
	saver := &recordingSaver{}
	a := NewAutosaver(saver, 20*time.Millisecond, nil)
	defer a.Close()

	a.Schedule(AnswerRecord{QuestionNumber: 1, Part: 1, UserAnswer: "A"})
	a.Schedule(AnswerRecord{QuestionNumber: 1, Part: 1, UserAnswer: "B"})
	a.Schedule(AnswerRecord{QuestionNumber: 1, Part: 1, UserAnswer: "C"})

	time.Sleep(60 * time.Millisecond)
	got := saver.all()
	if len(got) != 1 {
		t.Fatalf("saved %d records, want 1 (debounced)", len(got))
	}
	if got[0].UserAnswer != "C" {
		t.Errorf("persisted %q, want the final choice C", got[0].UserAnswer)
	}
}

func TestAutosaver_DifferentQuestionsIndependent(t *testing.T) {
	saver := &recordingSaver{}
	a := NewAutosaver(saver, 20*time.Millisecond, nil)
	defer a.Close()

	a.Schedule(AnswerRecord{QuestionNumber: 1, Part: 1, UserAnswer: "A"})
	a.Schedule(AnswerRecord{QuestionNumber: 2, Part: 1, UserAnswer: "B"})

	time.Sleep(60 * time.Millisecond)
	if got := saver.all(); len(got) != 2 {
		t.Fatalf("saved %d records, want 2", len(got))
	}
}

func TestAutosaver_FailureSwallowed(t *testing.T) {
	saver := &recordingSaver{err: errors.New("network down")}
	a := NewAutosaver(saver, time.Millisecond, nil)
	defer a.Close()

	a.Schedule(AnswerRecord{QuestionNumber: 1, Part: 1, UserAnswer: "A"})
	time.Sleep(30 * time.Millisecond)

	// Failure must not block later work.
	saver.mu.Lock()
	saver.err = nil
	saver.mu.Unlock()
	a.Schedule(AnswerRecord{QuestionNumber: 2, Part: 1, UserAnswer: "B"})
	a.Flush()
	if got := saver.all(); len(got) != 1 || got[0].QuestionNumber != 2 {
		t.Fatalf("saved = %+v, want only question 2", got)
	}
}

func TestAutosaver_FlushPersistsPending(t *testing.T) {
	saver := &recordingSaver{}
	a := NewAutosaver(saver, time.Hour, nil) // would never fire on its own
	defer a.Close()

	a.Schedule(AnswerRecord{QuestionNumber: 5, Part: 1, UserAnswer: "D"})
	a.Flush()
	got := saver.all()
	if len(got) != 1 || got[0].QuestionNumber != 5 {
		t.Fatalf("flush saved %+v", got)
	}
}

func TestAutosaver_CloseCancelsPending(t *testing.T) {
	saver := &recordingSaver{}
	a := NewAutosaver(saver, time.Hour, nil)
	a.Schedule(AnswerRecord{QuestionNumber: 5, Part: 1, UserAnswer: "D"})
	a.Close()

	if got := saver.all(); len(got) != 0 {
		t.Fatalf("close persisted %+v, want nothing", got)
	}
	// After close, schedules are ignored.
	a.Schedule(AnswerRecord{QuestionNumber: 6, Part: 1, UserAnswer: "A"})
	if got := saver.all(); len(got) != 0 {
		t.Fatal("schedule after close persisted a record")
	}
}
