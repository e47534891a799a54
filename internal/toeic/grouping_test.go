package toeic

import "testing"

func TestGroupQuestions_FullExam(t *testing.T) {
	units := GroupQuestions(fullExam())

	wantUnits := map[Part]int{1: 6, 2: 25, 3: 13, 4: 10, 5: 30, 6: 4, 7: 18}
	for p, want := range wantUnits {
		if got := len(units[p]); got != want {
			t.Errorf("part %d: %d units, want %d", p, got, want)
		}
	}

	// Total questions across all units must match the part capacities.
	for p := MinPart; p <= MaxPart; p++ {
		n := 0
		for _, u := range units[p] {
			n += len(u.Questions())
		}
		if n != p.Capacity() {
			t.Errorf("part %d: %d questions, want %d", p, n, p.Capacity())
		}
	}
}

func TestGroupQuestions_TaggedVariants(t *testing.T) {
	units := GroupQuestions(fullExam())

	for _, p := range []Part{1, 2, 5} {
		for _, u := range units[p] {
			if u.Kind != UnitSingle || u.Single == nil {
				t.Fatalf("part %d: expected single units", p)
			}
		}
	}
	for _, p := range []Part{3, 4, 6, 7} {
		for _, u := range units[p] {
			if u.Kind != UnitGroup || u.Group == nil {
				t.Fatalf("part %d: expected group units", p)
			}
			if len(u.Group.Questions) == 0 {
				t.Fatalf("part %d: empty group", p)
			}
		}
	}
}

func TestGroupQuestions_GroupMembershipAndOrder(t *testing.T) {
	// Three part-3 questions sharing conversation 3, delivered out of order.
	qs := []Question{
		{Number: 38, Part: 3, ConversationNumber: 3, AudioURL: "audio/c3.mp3"},
		{Number: 36, Part: 3, ConversationNumber: 3, AudioURL: "audio/c3.mp3"},
		{Number: 37, Part: 3, ConversationNumber: 3, AudioURL: "audio/c3.mp3"},
		{Number: 32, Part: 3, ConversationNumber: 1},
	}
	units := GroupQuestions(qs)[PartConversations]
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2", len(units))
	}
	// Groups sorted by key: conversation 1 first.
	if units[0].Group.Key != 1 || units[1].Group.Key != 3 {
		t.Fatalf("group keys = %d,%d; want 1,3", units[0].Group.Key, units[1].Group.Key)
	}
	g := units[1].Group
	if g.AudioURL != "audio/c3.mp3" {
		t.Errorf("shared audio not carried: %q", g.AudioURL)
	}
	want := []int{36, 37, 38}
	for i, q := range g.Questions {
		if q.Number != want[i] {
			t.Errorf("question[%d] = %d, want %d", i, q.Number, want[i])
		}
	}
}

func TestGroupQuestions_UndersizedGroupDegrades(t *testing.T) {
	// A conversation with only 2 of its 3 questions must still group.
	qs := []Question{
		{Number: 33, Part: 3, ConversationNumber: 1},
		{Number: 32, Part: 3, ConversationNumber: 1},
	}
	units := GroupQuestions(qs)[PartConversations]
	if len(units) != 1 {
		t.Fatalf("got %d units, want 1", len(units))
	}
	if n := len(units[0].Group.Questions); n != 2 {
		t.Fatalf("group has %d questions, want 2", n)
	}
}

func TestGroupQuestions_DropsInvalidPart(t *testing.T) {
	qs := []Question{
		{Number: 1, Part: 0},
		{Number: 2, Part: 8},
		{Number: 3, Part: 5},
	}
	units := GroupQuestions(qs)
	total := 0
	for p := MinPart; p <= MaxPart; p++ {
		for _, u := range units[p] {
			total += len(u.Questions())
		}
	}
	if total != 1 {
		t.Fatalf("kept %d questions, want 1", total)
	}
}

func TestGroupQuestions_SinglesSortedByNumber(t *testing.T) {
	qs := []Question{
		{Number: 103, Part: 5},
		{Number: 101, Part: 5},
		{Number: 102, Part: 5},
	}
	units := GroupQuestions(qs)[PartIncompleteSents]
	want := []int{101, 102, 103}
	for i, u := range units {
		if u.Single.Number != want[i] {
			t.Errorf("unit[%d] = q%d, want q%d", i, u.Single.Number, want[i])
		}
	}
}
