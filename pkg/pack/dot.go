package pack

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// ToDOT returns a Graphviz DOT representation of the constraint graph.
//
// Nodes are labeled with the module ID and size taken from mods; the root is
// drawn as a point. Edge labels carry the weight (the coordinate that orders
// siblings). Pass nil mods to label nodes by index.
func (g *Graph) ToDOT(mods []Module) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Constraints {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, shape=box, style=\"filled,rounded\", fillcolor=white];\n")
	buf.WriteString("  edge [fontsize=10];\n\n")

	buf.WriteString("  root [shape=point, width=0.15];\n")
	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  n%d [label=%q];\n", n, nodeLabel(n, mods))
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %s -> %s [label=\"%d\"];\n", dotID(e.From), dotID(e.To), e.Weight)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotID(n int) string {
	if n == Root {
		return "root"
	}
	return fmt.Sprintf("n%d", n)
}

func nodeLabel(n int, mods []Module) string {
	if n < 0 || n >= len(mods) {
		return fmt.Sprintf("%d", n)
	}
	m := mods[n]
	return fmt.Sprintf("%s\n%dx%d @ %d,%d", m.ID, m.Width, m.Height, m.X, m.Y)
}

// RenderSVG renders the graph as an SVG document via Graphviz.
//
// Errors are returned if Graphviz cannot initialize, the DOT is malformed,
// or rendering fails.
func (g *Graph) RenderSVG(mods []Module) ([]byte, error) {
	dot := g.ToDOT(mods)

	gv, err := graphviz.New(context.Background())
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(context.Background(), parsed, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
