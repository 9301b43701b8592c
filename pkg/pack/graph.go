package pack

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/spritepack/pkg/errors"
)

// Edge is a directed ordering constraint: To must be placed after From, and
// among siblings it is visited in ascending Weight order.
type Edge struct {
	From   int
	To     int
	Weight int
}

// Graph is the constraint graph built while decoding one tree. Nodes are
// module indices plus [Root]. Each node keeps its incoming and outgoing
// edge weights keyed by the neighbor's index.
//
// A Graph lives for a single half-pass of compaction.
type Graph struct {
	in  map[int]map[int]int
	out map[int]map[int]int
}

// NewGraph returns an empty graph containing only the root.
func NewGraph() *Graph {
	g := &Graph{
		in:  make(map[int]map[int]int),
		out: make(map[int]map[int]int),
	}
	g.addNode(Root)
	return g
}

func (g *Graph) addNode(n int) {
	if _, ok := g.in[n]; ok {
		return
	}
	g.in[n] = make(map[int]int)
	g.out[n] = make(map[int]int)
}

// AddEdge records that to depends on from with the given weight. Adding the
// same edge twice keeps the last weight.
func (g *Graph) AddEdge(from, to, weight int) {
	g.addNode(from)
	g.addNode(to)
	g.out[from][to] = weight
	g.in[to][from] = weight
}

// Len returns the number of nodes, not counting the root.
func (g *Graph) Len() int { return len(g.in) - 1 }

// Nodes returns the non-root nodes in ascending order.
func (g *Graph) Nodes() []int {
	nodes := slices.Sorted(maps.Keys(g.in))
	return slices.DeleteFunc(nodes, func(n int) bool { return n == Root })
}

// Parents returns the nodes with an edge into n, ascending.
func (g *Graph) Parents(n int) []int {
	return slices.Sorted(maps.Keys(g.in[n]))
}

// Children returns the outgoing edges of n ordered by weight, then by target
// index. The ordering is total, so traversal never depends on map order.
func (g *Graph) Children(n int) []Edge {
	edges := make([]Edge, 0, len(g.out[n]))
	for to, w := range g.out[n] {
		edges = append(edges, Edge{From: n, To: to, Weight: w})
	}
	slices.SortFunc(edges, func(a, b Edge) int {
		return cmp.Or(cmp.Compare(a.Weight, b.Weight), cmp.Compare(a.To, b.To))
	})
	return edges
}

// Edges returns every edge, grouped by source in ascending order.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, n := range slices.Sorted(maps.Keys(g.out)) {
		edges = append(edges, g.Children(n)...)
	}
	return edges
}

// DepthFirstSearch walks the graph from the root, visiting unvisited
// children in ascending weight order, and returns the tree that walk
// describes: each first visit appends the node to Order and an Enter bit;
// finishing a node's children appends a Leave bit.
//
// The walk uses an explicit stack. Every node must be reachable from the
// root; a node that is not means the graph was not built acyclically, which
// is reported as an [errors.ErrCodeInternal] error.
func (g *Graph) DepthFirstSearch() (Tree, error) {
	type frame struct {
		node     int
		children []Edge
		next     int
	}

	t := Tree{
		Order: make([]int, 0, g.Len()),
		Bits:  make([]Bit, 0, 2*g.Len()),
	}
	visited := map[int]bool{Root: true}
	stack := []frame{{node: Root, children: g.Children(Root)}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.children) {
			if top.node != Root {
				t.Bits = append(t.Bits, Leave)
			}
			stack = stack[:len(stack)-1]
			continue
		}
		child := top.children[top.next].To
		top.next++
		if visited[child] {
			continue
		}
		visited[child] = true
		t.Order = append(t.Order, child)
		t.Bits = append(t.Bits, Enter)
		stack = append(stack, frame{node: child, children: g.Children(child)})
	}

	if len(t.Order) != g.Len() {
		return Tree{}, errors.New(errors.ErrCodeInternal,
			"constraint graph has %d nodes unreachable from the root", g.Len()-len(t.Order))
	}
	return t, nil
}
