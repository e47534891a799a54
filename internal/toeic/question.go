package toeic

// PassageType distinguishes Part 7 passage sets.
type PassageType string

const (
	PassageSingle PassageType = "single"
	PassageDouble PassageType = "double"
	PassageTriple PassageType = "triple"
)

// PassageText is one passage of a Part 7 set (1-3 per set).
type PassageText struct {
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

// Question is the normalized record the engine consumes, as delivered by
// the backend. Number is globally unique within an exam (1..200) and is the
// identity key for answers.
type Question struct {
	Number int               `json:"questionNumber"`
	Part   Part              `json:"part"`
	Text   string            `json:"questionText,omitempty"`
	Options map[string]string `json:"options,omitempty"` // choice key -> display text

	// CorrectAnswer is used only for scoring and review. Stores strip it
	// before serving an in-progress attempt.
	CorrectAnswer string `json:"correctAnswer,omitempty"`
	Explanation   string `json:"explanation,omitempty"`

	AudioURL string `json:"audioUrl,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`

	// Grouping keys scope a shared audio/passage unit.
	ConversationNumber int `json:"conversationNumber,omitempty"` // Part 3
	TalkNumber         int `json:"talkNumber,omitempty"`         // Part 4
	PassageNumber      int `json:"passageNumber,omitempty"`      // Parts 6, 7

	// Part 7 only.
	PassageType PassageType   `json:"passageType,omitempty"`
	Passages    []PassageText `json:"passages,omitempty"`
}

// GroupKey returns the shared-media key for the question's part, or 0 for
// ungrouped parts.
func (q Question) GroupKey() int {
	switch q.Part {
	case PartConversations:
		return q.ConversationNumber
	case PartTalks:
		return q.TalkNumber
	case PartTextCompletion, PartReadingComp:
		return q.PassageNumber
	default:
		return 0
	}
}
