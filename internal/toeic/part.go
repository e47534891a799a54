package toeic

// Part is one of the seven TOEIC sections.
type Part int

const (
	PartPhotographs     Part = 1
	PartQuestionResp    Part = 2
	PartConversations   Part = 3
	PartTalks           Part = 4
	PartIncompleteSents Part = 5
	PartTextCompletion  Part = 6
	PartReadingComp     Part = 7

	MinPart Part = 1
	MaxPart Part = 7
)

// TotalQuestions is the fixed TOEIC question count: 100 listening + 100 reading.
const TotalQuestions = 200

// Section splits the seven parts into the two scored halves of the test.
type Section string

const (
	SectionListening Section = "listening" // parts 1-4
	SectionReading   Section = "reading"   // parts 5-7
)

func (p Part) Valid() bool { return p >= MinPart && p <= MaxPart }

// Section reports which scored half the part belongs to.
// Returns "" for an out-of-range part.
func (p Part) Section() Section {
	switch {
	case p >= 1 && p <= 4:
		return SectionListening
	case p >= 5 && p <= 7:
		return SectionReading
	default:
		return ""
	}
}

// Grouped reports whether the part navigates by shared-media group
// (conversation, talk or passage) rather than question by question.
func (p Part) Grouped() bool {
	switch p {
	case PartConversations, PartTalks, PartTextCompletion, PartReadingComp:
		return true
	default:
		return false
	}
}

// Capacity is the expected question count for the part in the standard
// TOEIC format. Returns 0 for an out-of-range part.
func (p Part) Capacity() int {
	if c, ok := partCapacity[p]; ok {
		return c
	}
	return 0
}

var partCapacity = map[Part]int{
	1: 6, 2: 25, 3: 39, 4: 30,
	5: 30, 6: 16, 7: 54,
}

// PartInfo describes the fixed shape of a part for presentation layers.
type PartInfo struct {
	Name     string  `json:"name"`
	Count    int     `json:"count"`
	HasAudio bool    `json:"has_audio"`
	HasImage bool    `json:"has_image"`
	Section  Section `json:"section"`
	Grouped  bool    `json:"grouped"`
}

var partInfo = map[Part]PartInfo{
	1: {"Part 1 - Photographs", 6, true, true, SectionListening, false},
	2: {"Part 2 - Question-Response", 25, true, false, SectionListening, false},
	3: {"Part 3 - Short Conversations", 39, true, true, SectionListening, true},
	4: {"Part 4 - Short Talks", 30, true, true, SectionListening, true},
	5: {"Part 5 - Incomplete Sentences", 30, false, false, SectionReading, false},
	6: {"Part 6 - Text Completion", 16, false, false, SectionReading, true},
	7: {"Part 7 - Reading Comprehension", 54, false, false, SectionReading, true},
}

// Info returns the static description of a part, or the zero value for an
// out-of-range part.
func (p Part) Info() PartInfo { return partInfo[p] }

// ChoiceKeys returns the answer keys a question in this part may use.
// Part 2 has three spoken responses; every other part has four choices.
func (p Part) ChoiceKeys() []string {
	if p == PartQuestionResp {
		return []string{"A", "B", "C"}
	}
	return []string{"A", "B", "C", "D"}
}

// ValidChoice reports whether key is an allowed answer for this part.
func (p Part) ValidChoice(key string) bool {
	for _, k := range p.ChoiceKeys() {
		if k == key {
			return true
		}
	}
	return false
}
