package pack

import (
	"github.com/matzehuels/spritepack/pkg/errors"
)

// stallPasses is how many consecutive passes may leave every coordinate
// untouched while still rewriting the tree before the placement is accepted
// as stable. Only degenerate (zero-size) modules can produce such ties.
const stallPasses = 3

// Result is the outcome of compacting a tree.
type Result struct {
	// Tree is the horizontal tree the compaction settled on.
	Tree Tree
	// Placement holds the coordinates of every module in Tree.
	Placement Placement
	// Passes counts full horizontal+vertical passes that were run.
	Passes int
}

// Decode assigns coordinates to every module of t, treating t as a tree of
// the given axis, and returns the constraint graph for the orthogonal axis.
//
// For a horizontal tree each module is placed flush right of its parent and
// as low as the horizontal contour allows; the module it comes to rest on
// becomes its parent in the returned vertical graph, with the module's x as
// edge weight. Vertical trees are handled the same way with x and y swapped.
func Decode(t Tree, mods []Module, axis Axis) (*Graph, error) {
	if err := t.Validate(len(mods)); err != nil {
		return nil, err
	}

	type frame struct {
		module int
		pos    int
	}

	c := newContour(axis, mods)
	g := NewGraph()
	stack := []frame{{module: Root, pos: 0}}
	next := 0

	for _, b := range t.Bits {
		if b == Leave {
			stack = stack[:len(stack)-1]
			continue
		}

		i := t.Order[next]
		next++
		parent := stack[len(stack)-1]

		c.seek(parent.pos)
		_, lo := c.span(parent.module)
		m := &mods[i]
		if axis == Vertical {
			m.Y = lo
			m.X = c.findMax(lo, lo+m.Height)
			g.AddEdge(c.whereMax, i, m.Y)
		} else {
			m.X = lo
			m.Y = c.findMax(lo, lo+m.Width)
			g.AddEdge(c.whereMax, i, m.X)
		}

		stack = append(stack, frame{module: i, pos: c.update(i)})
	}
	return g, nil
}

// pass runs one horizontal half-pass and one vertical half-pass and returns
// the horizontal tree derived from the resulting coordinates.
func pass(t Tree, mods []Module) (Tree, error) {
	vg, err := Decode(t, mods, Horizontal)
	if err != nil {
		return Tree{}, err
	}
	vt, err := vg.DepthFirstSearch()
	if err != nil {
		return Tree{}, err
	}
	hg, err := Decode(vt, mods, Vertical)
	if err != nil {
		return Tree{}, err
	}
	return hg.DepthFirstSearch()
}

// Compact alternates horizontal and vertical decoding of t until a pass
// returns the tree it started from, and returns that fixed point along with
// the placement of its modules. Coordinates are written into mods.
//
// Trees with zero or one module are already stable and take no passes.
// Failing to converge indicates a bug in the constraint construction and is
// reported as an [errors.ErrCodeInternal] error.
func Compact(t Tree, mods []Module) (Result, error) {
	if t.Len() <= 1 {
		if _, err := Decode(t, mods, Horizontal); err != nil {
			return Result{}, err
		}
		return Result{Tree: t.Copy(), Placement: placementOf(t, mods)}, nil
	}

	limit := maxPasses(t, mods)
	cur := t.Copy()
	prev := -1
	stalled := 0

	for n := 1; n <= limit; n++ {
		next, err := pass(cur, mods)
		if err != nil {
			return Result{}, err
		}
		if next.Equal(cur) {
			return Result{Tree: cur, Placement: placementOf(cur, mods), Passes: n}, nil
		}

		sum := coordinateSum(next, mods)
		if sum == prev {
			stalled++
			if stalled >= stallPasses {
				return Result{Tree: next, Placement: placementOf(next, mods), Passes: n}, nil
			}
		} else {
			stalled = 0
		}
		prev = sum
		cur = next
	}

	return Result{}, errors.New(errors.ErrCodeInternal,
		"compaction of %d modules did not reach a fixed point after %d passes", t.Len(), limit)
}

// maxPasses bounds the compaction loop. Coordinates never grow from one pass
// to the next, so the sum of all module sizes is a safe ceiling.
func maxPasses(t Tree, mods []Module) int {
	limit := 16 + t.Len()
	for _, i := range t.Order {
		limit += mods[i].Width + mods[i].Height
	}
	return limit
}

func coordinateSum(t Tree, mods []Module) int {
	sum := 0
	for _, i := range t.Order {
		sum += mods[i].X + mods[i].Y
	}
	return sum
}
