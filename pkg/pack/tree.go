package pack

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/matzehuels/spritepack/pkg/errors"
)

// Bit is one marker of a tree's structure sequence.
type Bit uint8

const (
	// Enter descends into the next module of the order sequence.
	Enter Bit = iota
	// Leave returns to the parent of the current module.
	Leave
)

// Tree is the O-tree encoding of a placement.
//
// Order lists module indices in depth-first order; Bits is a balanced
// bracket sequence with one Enter/Leave pair per module. The k-th Enter in
// Bits belongs to Order[k]. The root is implicit.
//
// Trees are plain values. Use [Tree.Copy] before mutating a tree that is
// still referenced elsewhere.
type Tree struct {
	Order []int
	Bits  []Bit
}

// Len returns the number of modules in the tree.
func (t Tree) Len() int { return len(t.Order) }

// InsertionPoints yields every index of Bits where a new Enter/Leave pair
// can be spliced: 0 through len(Bits) inclusive. The sequence may be ranged
// over any number of times.
func (t Tree) InsertionPoints() iter.Seq[int] {
	n := len(t.Bits)
	return func(yield func(int) bool) {
		for i := 0; i <= n; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

// Insert splices an Enter/Leave pair for module at index of Bits. The module
// lands in Order after as many entries as there are Enter bits before index,
// which makes it a leaf child of the node open at that point.
//
// Insert panics if index is outside [0, len(Bits)].
func (t *Tree) Insert(module, index int) {
	if index < 0 || index > len(t.Bits) {
		panic(fmt.Sprintf("pack: insertion index %d out of range [0,%d]", index, len(t.Bits)))
	}
	pos := 0
	for _, b := range t.Bits[:index] {
		if b == Enter {
			pos++
		}
	}
	t.Order = slices.Insert(t.Order, pos, module)
	t.Bits = slices.Insert(t.Bits, index, Enter, Leave)
}

// Copy returns a deep copy of t.
func (t Tree) Copy() Tree {
	return Tree{Order: slices.Clone(t.Order), Bits: slices.Clone(t.Bits)}
}

// Equal reports whether t and o encode the same tree.
func (t Tree) Equal(o Tree) bool {
	return slices.Equal(t.Order, o.Order) && slices.Equal(t.Bits, o.Bits)
}

// Validate checks the structural invariants: Bits is balanced, has two
// entries per module, and every module index is in [0, n) and unique.
func (t Tree) Validate(n int) error {
	if len(t.Bits) != 2*len(t.Order) {
		return errors.New(errors.ErrCodeInternal, "tree has %d bits for %d modules", len(t.Bits), len(t.Order))
	}
	depth := 0
	for i, b := range t.Bits {
		if b == Enter {
			depth++
		} else {
			depth--
		}
		if depth < 0 {
			return errors.New(errors.ErrCodeInternal, "tree structure unbalanced at bit %d", i)
		}
	}
	if depth != 0 {
		return errors.New(errors.ErrCodeInternal, "tree structure leaves %d nodes open", depth)
	}
	seen := make([]bool, n)
	for _, m := range t.Order {
		if m < 0 || m >= n {
			return errors.New(errors.ErrCodeInternal, "tree references module %d outside [0,%d)", m, n)
		}
		if seen[m] {
			return errors.New(errors.ErrCodeInternal, "tree references module %d twice", m)
		}
		seen[m] = true
	}
	return nil
}

// Nodes yields (module, parent) pairs in depth-first order. The parent of a
// top-level module is [Root]. Nodes assumes t is valid.
func (t Tree) Nodes() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		stack := []int{Root}
		next := 0
		for _, b := range t.Bits {
			if b == Leave {
				stack = stack[:len(stack)-1]
				continue
			}
			m := t.Order[next]
			next++
			if !yield(m, stack[len(stack)-1]) {
				return
			}
			stack = append(stack, m)
		}
	}
}

// String renders the tree as "[order] bits" using parentheses for
// Enter/Leave, e.g. "[0 2 1] (()())".
func (t Tree) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v ", t.Order)
	for _, bit := range t.Bits {
		if bit == Enter {
			b.WriteByte('(')
		} else {
			b.WriteByte(')')
		}
	}
	return b.String()
}
