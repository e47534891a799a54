package toeic

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultDebounce is how long the autosaver waits after a selection before
// persisting it.
const DefaultDebounce = 500 * time.Millisecond

// Saver persists a single answer. Implementations are the backend
// persistence contract; the engine treats calls as fire-and-forget.
type Saver interface {
	SaveAnswer(ctx context.Context, rec AnswerRecord) error
}

// SaverFunc adapts a function to the Saver interface.
type SaverFunc func(ctx context.Context, rec AnswerRecord) error

func (f SaverFunc) SaveAnswer(ctx context.Context, rec AnswerRecord) error { return f(ctx, rec) }

// Autosaver debounces per-question persistence. Re-selecting the same
// question inside the debounce window cancels the pending save and rearms
// with the new choice (last-write-wins); different questions hold
// independent timers and never cancel each other. Save failures are logged
// and swallowed: the in-memory session stays authoritative.
type Autosaver struct {
	mu      sync.Mutex
	pending map[int]*time.Timer
	latest  map[int]AnswerRecord
	closed  bool

	saver    Saver
	debounce time.Duration
	log      *zap.Logger
	wg       sync.WaitGroup
}

func NewAutosaver(saver Saver, debounce time.Duration, log *zap.Logger) *Autosaver {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Autosaver{
		pending:  map[int]*time.Timer{},
		latest:   map[int]AnswerRecord{},
		saver:    saver,
		debounce: debounce,
		log:      log,
	}
}

// Schedule arms (or rearms) the debounce timer for rec's question.
func (a *Autosaver) Schedule(rec AnswerRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	num := rec.QuestionNumber
	a.latest[num] = rec
	if t, ok := a.pending[num]; ok {
		if t.Stop() {
			// The cancelled callback never runs, so release its slot here.
			a.wg.Done()
		}
	}
	a.wg.Add(1)
	a.pending[num] = time.AfterFunc(a.debounce, func() {
		defer a.wg.Done()
		a.fire(num)
	})
}

func (a *Autosaver) fire(num int) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	rec, ok := a.latest[num]
	delete(a.pending, num)
	delete(a.latest, num)
	a.mu.Unlock()
	if !ok {
		return
	}
	a.save(rec)
}

func (a *Autosaver) save(rec AnswerRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.saver.SaveAnswer(ctx, rec); err != nil {
		// Non-fatal: the answer map is the source of truth for submission.
		a.log.Warn("autosave failed",
			zap.Int("question", rec.QuestionNumber),
			zap.Int("part", int(rec.Part)),
			zap.Error(err))
	}
}

// Flush persists every pending answer immediately and waits for the saves
// to finish. Used on submit and in tests.
func (a *Autosaver) Flush() {
	a.mu.Lock()
	recs := make([]AnswerRecord, 0, len(a.latest))
	for num, t := range a.pending {
		if !t.Stop() {
			// Already fired; the in-flight callback will pick up latest[num].
			continue
		}
		a.wg.Done()
		recs = append(recs, a.latest[num])
		delete(a.pending, num)
		delete(a.latest, num)
	}
	a.mu.Unlock()

	for _, rec := range recs {
		a.save(rec)
	}
	a.wg.Wait()
}

// Close cancels all pending timers without saving. After Close the
// autosaver accepts no more work.
func (a *Autosaver) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	for num, t := range a.pending {
		if t.Stop() {
			a.wg.Done()
		}
		delete(a.pending, num)
		delete(a.latest, num)
	}
	a.mu.Unlock()
	a.wg.Wait()
}
