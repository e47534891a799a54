package toeic

import "math"

// Scaled score bounds per section and for the total.
const (
	MinSectionScaled = 5
	MaxSectionScaled = 495
	MinTotalScaled   = 10
	MaxTotalScaled   = 990
)

// GradedAnswer is one answer joined against the key, the input to scoring.
type GradedAnswer struct {
	QuestionNumber int    `json:"questionNumber"`
	Part           Part   `json:"part"`
	UserAnswer     string `json:"userAnswer"`
	CorrectAnswer  string `json:"correctAnswer,omitempty"`
	IsCorrect      bool   `json:"isCorrect"`
}

// SectionScore holds one section's raw correct count and its scaled score.
type SectionScore struct {
	Raw    int `json:"raw"`
	Scaled int `json:"scaled"`
}

// ScoreRecord is the full per-attempt score breakdown.
type ScoreRecord struct {
	Parts     map[Part]int `json:"parts"` // raw correct per part
	Listening SectionScore `json:"listening"`
	Reading   SectionScore `json:"reading"`
	Total     int          `json:"total"`
}

// RawPartCounts counts correct answers per part. Parts absent from the
// input stay at 0.
func RawPartCounts(answers []GradedAnswer) map[Part]int {
	counts := make(map[Part]int, int(MaxPart))
	for p := MinPart; p <= MaxPart; p++ {
		counts[p] = 0
	}
	for _, a := range answers {
		if a.IsCorrect && a.Part.Valid() {
			counts[a.Part]++
		}
	}
	return counts
}

// SectionRaw sums part counts into the listening (1-4) and reading (5-7)
// raw scores, each out of 100.
func SectionRaw(counts map[Part]int) (listening, reading int) {
	for p, n := range counts {
		switch p.Section() {
		case SectionListening:
			listening += n
		case SectionReading:
			reading += n
		}
	}
	return listening, reading
}

// Scale converts a section raw score (0-100) to the 5-495 scaled range.
//
// This is a simplified linear model, round(raw/100*490+5), not the official
// TOEIC conversion table; scores are an approximation, not a promise of
// real-world equivalence.
func Scale(raw int) int {
	scaled := int(math.Round(float64(raw)/100.0*490.0 + 5.0))
	if scaled < MinSectionScaled {
		return MinSectionScaled
	}
	if scaled > MaxSectionScaled {
		return MaxSectionScaled
	}
	return scaled
}

// CalculateScores produces the complete score breakdown for a graded
// answer list. Deterministic: identical input yields identical output.
func CalculateScores(answers []GradedAnswer) ScoreRecord {
	counts := RawPartCounts(answers)
	lRaw, rRaw := SectionRaw(counts)
	l := SectionScore{Raw: lRaw, Scaled: Scale(lRaw)}
	r := SectionScore{Raw: rRaw, Scaled: Scale(rRaw)}
	return ScoreRecord{
		Parts:     counts,
		Listening: l,
		Reading:   r,
		Total:     l.Scaled + r.Scaled,
	}
}

/* ---------------- Result analysis ---------------- */

// ScoreLevel buckets a total score into a proficiency band.
type ScoreLevel struct {
	Level       string `json:"level"`
	Description string `json:"description"`
	Range       string `json:"range"`
}

// LevelForTotal maps a total score (10-990) to its band.
func LevelForTotal(total int) ScoreLevel {
	switch {
	case total >= 850:
		return ScoreLevel{"excellent", "Excellent - Advanced Professional", "850-990"}
	case total >= 700:
		return ScoreLevel{"good", "Good - Upper Intermediate", "700-849"}
	case total >= 550:
		return ScoreLevel{"fair", "Fair - Intermediate", "550-699"}
	default:
		return ScoreLevel{"developing", "Elementary to Lower Intermediate", "10-549"}
	}
}

// PartPercentages converts raw per-part counts to percent of the part's
// capacity.
func PartPercentages(counts map[Part]int) map[Part]int {
	out := make(map[Part]int, len(counts))
	for p, raw := range counts {
		capacity := p.Capacity()
		if capacity == 0 {
			continue
		}
		out[p] = int(math.Round(float64(raw) / float64(capacity) * 100.0))
	}
	return out
}

// PartStanding identifies one part and how the learner did on it.
type PartStanding struct {
	Part       Part `json:"part"`
	Percentage int  `json:"percentage"`
	Raw        int  `json:"raw"`
}

// PartAnalysis returns the learner's strongest and weakest parts by percent
// correct. Ties resolve to the lowest part number.
func PartAnalysis(counts map[Part]int) (strongest, weakest PartStanding) {
	pcts := PartPercentages(counts)
	first := true
	for p := MinPart; p <= MaxPart; p++ {
		pct, ok := pcts[p]
		if !ok {
			continue
		}
		st := PartStanding{Part: p, Percentage: pct, Raw: counts[p]}
		if first {
			strongest, weakest = st, st
			first = false
			continue
		}
		if pct > strongest.Percentage {
			strongest = st
		}
		if pct < weakest.Percentage {
			weakest = st
		}
	}
	return strongest, weakest
}

// Improvement compares two score records, newer against older.
type ScoreDelta struct {
	Difference int  `json:"difference"`
	Improved   bool `json:"improved"`
}

type ImprovementRecord struct {
	Total     ScoreDelta `json:"total"`
	Listening ScoreDelta `json:"listening"`
	Reading   ScoreDelta `json:"reading"`
}

func Improvement(newer, older ScoreRecord) ImprovementRecord {
	delta := func(n, o int) ScoreDelta {
		return ScoreDelta{Difference: n - o, Improved: n > o}
	}
	return ImprovementRecord{
		Total:     delta(newer.Total, older.Total),
		Listening: delta(newer.Listening.Scaled, older.Listening.Scaled),
		Reading:   delta(newer.Reading.Scaled, older.Reading.Scaled),
	}
}

// GradeAnswers joins submitted answers against the question key.
// Comparison is case-insensitive on the stored side already being upper.
func GradeAnswers(questions []Question, answers []AnswerRecord) []GradedAnswer {
	key := make(map[int]Question, len(questions))
	for _, q := range questions {
		key[q.Number] = q
	}
	out := make([]GradedAnswer, 0, len(answers))
	for _, a := range answers {
		q, ok := key[a.QuestionNumber]
		if !ok {
			continue
		}
		out = append(out, GradedAnswer{
			QuestionNumber: a.QuestionNumber,
			Part:           q.Part,
			UserAnswer:     a.UserAnswer,
			CorrectAnswer:  q.CorrectAnswer,
			IsCorrect:      a.UserAnswer != "" && a.UserAnswer == q.CorrectAnswer,
		})
	}
	return out
}
