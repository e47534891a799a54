package toeic

import "fmt"

// fullExam builds a complete 200-question paper in the standard format:
// parts 1/2/5 as singletons, part 3 as 13 conversations of 3, part 4 as 10
// talks of 3, part 6 as 4 passages of 4, part 7 as 18 passages of 3.
// Correct answer is "A" everywhere.
func fullExam() []Question {
	var qs []Question
	num := 1

	single := func(part Part, count int) {
		for i := 0; i < count; i++ {
			qs = append(qs, Question{
				Number:        num,
				Part:          part,
				Text:          fmt.Sprintf("question %d", num),
				Options:       optionsFor(part),
				CorrectAnswer: "A",
			})
			num++
		}
	}
	grouped := func(part Part, groups, perGroup int) {
		for g := 1; g <= groups; g++ {
			for i := 0; i < perGroup; i++ {
				q := Question{
					Number:        num,
					Part:          part,
					Text:          fmt.Sprintf("question %d", num),
					Options:       optionsFor(part),
					CorrectAnswer: "A",
				}
				switch part {
				case PartConversations:
					q.ConversationNumber = g
					q.AudioURL = fmt.Sprintf("audio/conv-%d.mp3", g)
				case PartTalks:
					q.TalkNumber = g
					q.AudioURL = fmt.Sprintf("audio/talk-%d.mp3", g)
				case PartTextCompletion:
					q.PassageNumber = g
				case PartReadingComp:
					q.PassageNumber = g
					q.PassageType = PassageSingle
					q.Passages = []PassageText{{Text: fmt.Sprintf("passage %d", g)}}
				}
				qs = append(qs, q)
				num++
			}
		}
	}

	single(PartPhotographs, 6)
	single(PartQuestionResp, 25)
	grouped(PartConversations, 13, 3)
	grouped(PartTalks, 10, 3)
	single(PartIncompleteSents, 30)
	grouped(PartTextCompletion, 4, 4)
	grouped(PartReadingComp, 18, 3)
	return qs
}

func optionsFor(part Part) map[string]string {
	opts := map[string]string{}
	for _, k := range part.ChoiceKeys() {
		opts[k] = "choice " + k
	}
	return opts
}

func newTestSession() *Session {
	s := NewSession()
	if err := s.Init(fullExam(), nil); err != nil {
		panic(err)
	}
	return s
}
