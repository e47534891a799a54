package toeic

import "sort"

// Unit is the atomic navigable item in a part: either a single question
// (parts 1, 2, 5) or a shared-media group (parts 3, 4, 6, 7). Exactly one
// of Single/Group is set; Kind tells which.
type UnitKind int

const (
	UnitSingle UnitKind = iota
	UnitGroup
)

type Unit struct {
	Kind   UnitKind
	Single *Question
	Group  *QuestionGroup
}

// QuestionGroup is an ordered set of questions sharing one audio clip or
// passage. Questions is non-empty and sorted ascending by number.
type QuestionGroup struct {
	Key         int           `json:"groupNumber"`
	AudioURL    string        `json:"audioUrl,omitempty"`
	ImageURL    string        `json:"imageUrl,omitempty"`
	PassageType PassageType   `json:"passageType,omitempty"`
	Passages    []PassageText `json:"passages,omitempty"`
	Questions   []Question    `json:"questions"`
}

// Questions returns the unit's questions regardless of kind.
func (u Unit) Questions() []Question {
	switch u.Kind {
	case UnitSingle:
		if u.Single == nil {
			return nil
		}
		return []Question{*u.Single}
	case UnitGroup:
		if u.Group == nil {
			return nil
		}
		return u.Group.Questions
	default:
		return nil
	}
}

// GroupQuestions partitions a flat question list into per-part navigable
// units. Parts 1/2/5 pass through one question per unit; parts 3/4/6/7
// aggregate by group key, carrying the group's shared media fields.
//
// Ordering is deterministic regardless of input order: ungrouped parts are
// sorted by question number, groups by group key, and questions within a
// group ascending by number. Questions with an out-of-range part are
// dropped. A group short of its expected sub-question count is emitted
// as-is; incomplete data degrades, it never fails.
func GroupQuestions(questions []Question) map[Part][]Unit {
	byPart := make(map[Part][]Question, int(MaxPart))
	for _, q := range questions {
		if !q.Part.Valid() {
			continue
		}
		byPart[q.Part] = append(byPart[q.Part], q)
	}

	units := make(map[Part][]Unit, int(MaxPart))
	for p := MinPart; p <= MaxPart; p++ {
		qs := byPart[p]
		if p.Grouped() {
			units[p] = groupByKey(qs)
		} else {
			units[p] = singles(qs)
		}
	}
	return units
}

func singles(qs []Question) []Unit {
	sorted := make([]Question, len(qs))
	copy(sorted, qs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	out := make([]Unit, 0, len(sorted))
	for i := range sorted {
		q := sorted[i]
		out = append(out, Unit{Kind: UnitSingle, Single: &q})
	}
	return out
}

func groupByKey(qs []Question) []Unit {
	groups := map[int]*QuestionGroup{}
	for _, q := range qs {
		key := q.GroupKey()
		g, ok := groups[key]
		if !ok {
			g = &QuestionGroup{
				Key:         key,
				AudioURL:    q.AudioURL,
				ImageURL:    q.ImageURL,
				PassageType: q.PassageType,
				Passages:    q.Passages,
			}
			groups[key] = g
		}
		g.Questions = append(g.Questions, q)
	}

	keys := make([]int, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]Unit, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		sort.Slice(g.Questions, func(i, j int) bool {
			return g.Questions[i].Number < g.Questions[j].Number
		})
		out = append(out, Unit{Kind: UnitGroup, Group: g})
	}
	return out
}
