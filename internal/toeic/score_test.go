package toeic

import (
	"reflect"
	"testing"
)

func TestScale_Anchors(t *testing.T) {
	cases := []struct {
		raw, want int
	}{
		{0, 5},
		{50, 250},
		{100, 495},
		{-3, 5},   // clamped low
		{150, 495}, // clamped high
	}
	for _, c := range cases {
		if got := Scale(c.raw); got != c.want {
			t.Errorf("Scale(%d) = %d, want %d", c.raw, got, c.want)
		}
	}
}

func TestRawPartCounts(t *testing.T) {
	answers := []GradedAnswer{
		{Part: 1, IsCorrect: true},
		{Part: 1, IsCorrect: false},
		{Part: 3, IsCorrect: true},
		{Part: 3, IsCorrect: true},
		{Part: 7, IsCorrect: true},
		{Part: 9, IsCorrect: true}, // invalid part, ignored
	}
	got := RawPartCounts(answers)
	want := map[Part]int{1: 1, 2: 0, 3: 2, 4: 0, 5: 0, 6: 0, 7: 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RawPartCounts = %v, want %v", got, want)
	}
}

func TestSectionRaw(t *testing.T) {
	counts := map[Part]int{1: 6, 2: 20, 3: 30, 4: 24, 5: 25, 6: 10, 7: 40}
	l, r := SectionRaw(counts)
	if l != 80 || r != 75 {
		t.Errorf("SectionRaw = %d,%d; want 80,75", l, r)
	}
}

func TestCalculateScores_PerfectPaper(t *testing.T) {
	var answers []GradedAnswer
	for _, q := range fullExam() {
		answers = append(answers, GradedAnswer{
			QuestionNumber: q.Number, Part: q.Part, UserAnswer: "A", IsCorrect: true,
		})
	}
	rec := CalculateScores(answers)
	if rec.Listening.Raw != 100 || rec.Reading.Raw != 100 {
		t.Fatalf("raw = %d/%d, want 100/100", rec.Listening.Raw, rec.Reading.Raw)
	}
	if rec.Listening.Scaled != 495 || rec.Reading.Scaled != 495 || rec.Total != 990 {
		t.Fatalf("scaled = %d+%d=%d, want 495+495=990",
			rec.Listening.Scaled, rec.Reading.Scaled, rec.Total)
	}
}

func TestCalculateScores_EmptyPaper(t *testing.T) {
	rec := CalculateScores(nil)
	if rec.Listening.Scaled != 5 || rec.Reading.Scaled != 5 || rec.Total != 10 {
		t.Fatalf("empty paper scores = %+v", rec)
	}
}

func TestCalculateScores_Deterministic(t *testing.T) {
	answers := []GradedAnswer{
		{Part: 2, IsCorrect: true},
		{Part: 5, IsCorrect: true},
		{Part: 5, IsCorrect: true},
	}
	a := CalculateScores(answers)
	b := CalculateScores(answers)
	if !reflect.DeepEqual(a, b) {
		t.Error("identical input produced different score records")
	}
}

func TestGradeAnswers(t *testing.T) {
	questions := []Question{
		{Number: 1, Part: 1, CorrectAnswer: "A"},
		{Number: 2, Part: 1, CorrectAnswer: "B"},
	}
	answers := []AnswerRecord{
		{QuestionNumber: 1, Part: 1, UserAnswer: "A"},
		{QuestionNumber: 2, Part: 1, UserAnswer: "C"},
		{QuestionNumber: 5, Part: 1, UserAnswer: "A"}, // not in key, dropped
	}
	graded := GradeAnswers(questions, answers)
	if len(graded) != 2 {
		t.Fatalf("graded %d answers, want 2", len(graded))
	}
	if !graded[0].IsCorrect || graded[1].IsCorrect {
		t.Errorf("correctness = %v,%v; want true,false",
			graded[0].IsCorrect, graded[1].IsCorrect)
	}
}

func TestLevelForTotal(t *testing.T) {
	cases := []struct {
		total int
		level string
	}{
		{990, "excellent"}, {850, "excellent"},
		{849, "good"}, {700, "good"},
		{699, "fair"}, {550, "fair"},
		{549, "developing"}, {10, "developing"},
	}
	for _, c := range cases {
		if got := LevelForTotal(c.total); got.Level != c.level {
			t.Errorf("LevelForTotal(%d) = %s, want %s", c.total, got.Level, c.level)
		}
	}
}

func TestPartAnalysis(t *testing.T) {
	counts := map[Part]int{1: 6, 2: 5, 3: 20, 4: 15, 5: 15, 6: 8, 7: 27}
	strongest, weakest := PartAnalysis(counts)
	if strongest.Part != 1 || strongest.Percentage != 100 {
		t.Errorf("strongest = %+v, want part 1 at 100%%", strongest)
	}
	if weakest.Part != 2 || weakest.Percentage != 20 {
		t.Errorf("weakest = %+v, want part 2 at 20%%", weakest)
	}
}

func TestImprovement(t *testing.T) {
	older := ScoreRecord{
		Listening: SectionScore{Raw: 50, Scaled: 250},
		Reading:   SectionScore{Raw: 40, Scaled: 201},
		Total:     451,
	}
	newer := ScoreRecord{
		Listening: SectionScore{Raw: 60, Scaled: 299},
		Reading:   SectionScore{Raw: 35, Scaled: 177},
		Total:     476,
	}
	imp := Improvement(newer, older)
	if !imp.Total.Improved || imp.Total.Difference != 25 {
		t.Errorf("total delta = %+v", imp.Total)
	}
	if !imp.Listening.Improved || imp.Listening.Difference != 49 {
		t.Errorf("listening delta = %+v", imp.Listening)
	}
	if imp.Reading.Improved || imp.Reading.Difference != -24 {
		t.Errorf("reading delta = %+v", imp.Reading)
	}
}
