package pack

import (
	"slices"
	"testing"

	"github.com/matzehuels/spritepack/pkg/errors"
)

func TestGraphBasics(t *testing.T) {
	g := NewGraph()
	if g.Len() != 0 {
		t.Errorf("empty graph Len = %d, want 0", g.Len())
	}

	g.AddEdge(Root, 2, 10)
	g.AddEdge(Root, 0, 5)
	g.AddEdge(0, 1, 3)
	g.AddEdge(2, 1, 0)

	if g.Len() != 3 {
		t.Errorf("Len = %d, want 3", g.Len())
	}
	if got := g.Nodes(); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("Nodes = %v, want [0 1 2]", got)
	}
	if got := g.Parents(1); !slices.Equal(got, []int{0, 2}) {
		t.Errorf("Parents(1) = %v, want [0 2]", got)
	}

	want := []Edge{{Root, 0, 5}, {Root, 2, 10}}
	if got := g.Children(Root); !slices.Equal(got, want) {
		t.Errorf("Children(root) = %v, want %v", got, want)
	}

	wantAll := []Edge{{Root, 0, 5}, {Root, 2, 10}, {0, 1, 3}, {2, 1, 0}}
	if got := g.Edges(); !slices.Equal(got, wantAll) {
		t.Errorf("Edges = %v, want %v", got, wantAll)
	}

	// Re-adding keeps the last weight.
	g.AddEdge(Root, 0, 50)
	if got := g.Children(Root); got[1] != (Edge{Root, 0, 50}) {
		t.Errorf("Children(root) after reweight = %v", got)
	}
}

func TestDepthFirstSearch(t *testing.T) {
	tests := []struct {
		name      string
		edges     []Edge
		wantOrder []int
		wantBits  string
	}{
		{
			name:      "Empty",
			wantOrder: []int{},
			wantBits:  "",
		},
		{
			name:      "WeightOrder",
			edges:     []Edge{{Root, 2, 10}, {Root, 0, 5}, {0, 1, 3}},
			wantOrder: []int{0, 1, 2},
			wantBits:  "(())()",
		},
		{
			name:      "TieBrokenByIndex",
			edges:     []Edge{{Root, 1, 0}, {Root, 0, 0}},
			wantOrder: []int{0, 1},
			wantBits:  "()()",
		},
		{
			name:      "SharedChildVisitedOnce",
			edges:     []Edge{{Root, 0, 0}, {Root, 1, 5}, {0, 1, 2}},
			wantOrder: []int{0, 1},
			wantBits:  "(())",
		},
		{
			name:      "Chain",
			edges:     []Edge{{Root, 0, 0}, {0, 1, 0}, {1, 2, 0}},
			wantOrder: []int{0, 1, 2},
			wantBits:  "((()))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph()
			for _, e := range tt.edges {
				g.AddEdge(e.From, e.To, e.Weight)
			}
			tree, err := g.DepthFirstSearch()
			if err != nil {
				t.Fatalf("DepthFirstSearch: %v", err)
			}
			if !slices.Equal(tree.Order, tt.wantOrder) {
				t.Errorf("Order = %v, want %v", tree.Order, tt.wantOrder)
			}
			if !slices.Equal(tree.Bits, bits(tt.wantBits)) {
				t.Errorf("tree = %s, want bits %s", tree, tt.wantBits)
			}
		})
	}
}

func TestDepthFirstSearchUnreachable(t *testing.T) {
	g := NewGraph()
	g.AddEdge(Root, 0, 0)
	g.AddEdge(1, 2, 0)
	g.AddEdge(2, 1, 0)

	_, err := g.DepthFirstSearch()
	if err == nil {
		t.Fatal("expected error for nodes unreachable from the root")
	}
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInternal)
	}
}
