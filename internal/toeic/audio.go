package toeic

import (
	"fmt"
	"sync"
)

// Mode distinguishes an untimed practice run from exam-condition taking.
type Mode string

const (
	ModePractice Mode = "practice"
	ModeRealExam Mode = "real_exam"
)

func (m Mode) Valid() bool { return m == ModePractice || m == ModeRealExam }

// PlayPermission is the replay-policy decision for one question's audio.
type PlayPermission struct {
	CanPlay     bool   `json:"canPlay"`
	TimesPlayed int    `json:"timesPlayed"`
	Message     string `json:"message"`
}

// CheckAudioPlay decides whether the question's audio may start another
// playback. Practice mode is unlimited; real exam mode allows exactly one
// play per question, mirroring actual test conditions. This is a
// test-integrity rule, not presentation.
func CheckAudioPlay(mode Mode, timesPlayed int) PlayPermission {
	if mode != ModeRealExam {
		return PlayPermission{CanPlay: true, TimesPlayed: timesPlayed, Message: "Unlimited plays"}
	}
	if timesPlayed >= 1 {
		return PlayPermission{
			TimesPlayed: timesPlayed,
			Message:     "Audio has been played once (real exam mode)",
		}
	}
	return PlayPermission{
		CanPlay:     true,
		TimesPlayed: timesPlayed,
		Message:     "Play audio (real exam mode - 1 time only)",
	}
}

// PlayLog tracks per-question audio play counts for one attempt.
type PlayLog struct {
	mu    sync.Mutex
	plays map[string]int
}

func NewPlayLog() *PlayLog {
	return &PlayLog{plays: map[string]int{}}
}

func playKey(part Part, questionNumber int) string {
	return fmt.Sprintf("%d-%d", part, questionNumber)
}

// Check returns the replay decision without recording a play.
func (l *PlayLog) Check(mode Mode, part Part, questionNumber int) PlayPermission {
	l.mu.Lock()
	defer l.mu.Unlock()
	return CheckAudioPlay(mode, l.plays[playKey(part, questionNumber)])
}

// Record checks the policy and, when allowed, counts the play. The returned
// permission reflects the state before this play.
func (l *PlayLog) Record(mode Mode, part Part, questionNumber int) PlayPermission {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := playKey(part, questionNumber)
	perm := CheckAudioPlay(mode, l.plays[key])
	if perm.CanPlay {
		l.plays[key]++
	}
	return perm
}
