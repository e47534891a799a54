package rbac

import "testing"

func TestCheckerDefaults(t *testing.T) {
	c := NewChecker(nil)

	cases := []struct {
		role string
		perm string
		want bool
	}{
		{"student", "attempt:create", true},
		{"student", "attempt:view-own", true},
		{"student", "attempt:view-all", false},
		{"student", "exam:import", false},
		{"admin", "exam:import", true},
		{"admin", "anything:at-all", true},
		{"", "attempt:create", false},
		{"ghost", "attempt:create", false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestCheckerWildcardPrefix(t *testing.T) {
	c := NewChecker(map[string][]string{
		"grader": {"attempt:*"},
	})
	if !c.Has("grader", "attempt:view-all") {
		t.Error("prefix wildcard should match")
	}
	if c.Has("grader", "exam:view") {
		t.Error("prefix wildcard leaked outside its namespace")
	}
	if !c.Any("grader", "exam:view", "attempt:submit") {
		t.Error("Any should pass via the second perm")
	}
}
