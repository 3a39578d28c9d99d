package merge

import "testing"

func TestOptionalEqual(t *testing.T) {
	cases := []struct {
		a    string
		aok  bool
		b    string
		bok  bool
		want bool
	}{
		{"", false, "", false, true},   // both absent
		{"x", true, "", false, false},  // present vs absent
		{"", false, "x", true, false},  // absent vs present
		{"x", true, "x", true, true},   // same value
		{"x", true, "y", true, false},  // different value
	}
	for _, c := range cases {
		if got := optionalEqual(c.a, c.aok, c.b, c.bok); got != c.want {
			t.Errorf("optionalEqual(%q,%v,%q,%v) = %v, want %v", c.a, c.aok, c.b, c.bok, got, c.want)
		}
	}
}

func TestUnionKeysDedupsAndSorts(t *testing.T) {
	got := unionKeys(
		map[string]string{"b": "1", "a": "1"},
		map[string]string{"a": "2", "c": "1"},
	)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("unionKeys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unionKeys = %v, want %v", got, want)
		}
	}
}

func TestConflictMarkerBody(t *testing.T) {
	got := conflictMarkerBody([]byte("mine"), []byte("theirs"))
	want := "<<<<<<< HEAD\nmine=======\ntheirs>>>>>>>\n"
	if string(got) != want {
		t.Fatalf("conflictMarkerBody = %q, want %q", got, want)
	}
}

func TestConflictMarkerBodyOneSideAbsent(t *testing.T) {
	got := conflictMarkerBody(nil, []byte("theirs"))
	want := "<<<<<<< HEAD\n=======\ntheirs>>>>>>>\n"
	if string(got) != want {
		t.Fatalf("conflictMarkerBody = %q, want %q", got, want)
	}
}
