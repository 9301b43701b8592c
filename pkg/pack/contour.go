package pack

import "slices"

// Axis selects the orientation of a tree, contour or decoding pass.
type Axis int

const (
	// Horizontal trees place children right of their parent; the contour
	// tracks the far y edge of modules ordered by x.
	Horizontal Axis = iota
	// Vertical trees place children above their parent; the contour tracks
	// the far x edge of modules ordered by y.
	Vertical
)

// String returns "horizontal" or "vertical".
func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Orthogonal returns the other axis.
func (a Axis) Orthogonal() Axis {
	if a == Vertical {
		return Horizontal
	}
	return Vertical
}

// noModule marks whereMax as invalid after an update.
const noModule = -2

// contour is the frontier of modules placed so far during one decoding pass.
//
// line holds module indices ordered along the axis (x for horizontal, y for
// vertical), starting with the root. Each entry is visible from its start (or
// the previous entry's end, whichever is larger) up to its own end. Entries
// completely covered by a newer module are pruned, so across a whole pass the
// total scanning work is linear in the number of modules.
//
// The positions of a module's ancestors never move while its subtree is being
// decoded: descendants only insert or prune entries after the parent.
type contour struct {
	axis     Axis
	mods     []Module
	line     []int
	cursor   int
	whereMax int
}

func newContour(axis Axis, mods []Module) *contour {
	return &contour{
		axis:     axis,
		mods:     mods,
		line:     []int{Root},
		cursor:   1,
		whereMax: noModule,
	}
}

func (c *contour) module(i int) Module {
	if i == Root {
		return Module{}
	}
	return c.mods[i]
}

// span returns the interval a module covers along the axis.
func (c *contour) span(i int) (lo, hi int) {
	m := c.module(i)
	if c.axis == Vertical {
		return m.Y, m.Top()
	}
	return m.X, m.Right()
}

// extent returns the module's far edge across the axis.
func (c *contour) extent(i int) int {
	m := c.module(i)
	if c.axis == Vertical {
		return m.Right()
	}
	return m.Top()
}

// seek positions the cursor just after the entry at pos.
func (c *contour) seek(pos int) {
	c.cursor = pos + 1
}

// findMax returns the largest extent among entries visible in [lo, bound),
// scanning forward from the cursor, and records the first entry reaching it
// in whereMax (the root when nothing rises above zero). Scanned entries
// whose end is at or before bound are pruned: the module about to be placed
// covers them.
func (c *contour) findMax(lo, bound int) int {
	best := 0
	c.whereMax = Root
	prev := lo
	end := c.cursor
	for end < len(c.line) {
		e := c.line[end]
		start, stop := c.span(e)
		vis := max(start, prev)
		if vis >= bound {
			break
		}
		if stop <= vis {
			// Zero-length segment: covers nothing, drop it.
			end++
			continue
		}
		if ext := c.extent(e); ext > best {
			best, c.whereMax = ext, e
		}
		if stop > bound {
			break
		}
		prev = stop
		end++
	}
	c.line = slices.Delete(c.line, c.cursor, end)
	return best
}

// update inserts module m at the cursor and returns its position in the
// line. whereMax is invalid afterwards.
func (c *contour) update(m int) int {
	pos := c.cursor
	c.line = slices.Insert(c.line, pos, m)
	c.whereMax = noModule
	return pos
}
