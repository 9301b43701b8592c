package pack

import (
	"strings"
	"testing"
)

func TestToDOT(t *testing.T) {
	mods := pair()
	g, err := Decode(Tree{Order: []int{1, 0}, Bits: bits("()()")}, mods, Horizontal)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	dot := g.ToDOT(mods)
	for _, want := range []string{
		"digraph Constraints {",
		"rankdir=BT;",
		"root [shape=point",
		`n0 [label="a\n100x50 @ 0,30"];`,
		`n1 [label="b\n30x30 @ 0,0"];`,
		`root -> n1 [label="0"];`,
		`n1 -> n0 [label="0"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}

	unlabeled := g.ToDOT(nil)
	if !strings.Contains(unlabeled, `n0 [label="0"];`) {
		t.Errorf("nil mods should label nodes by index:\n%s", unlabeled)
	}
}
